package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snapstack/snapstack/internal/repository"
)

// HealthCheck reports API liveness and database reachability.
func HealthCheck(repos *repository.Repositories) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "up"
		status := http.StatusOK

		if repos == nil || repos.DB == nil {
			dbStatus = "down"
			status = http.StatusServiceUnavailable
		} else if sqlDB, err := repos.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			dbStatus = "down"
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"status":   "ok",
			"database": dbStatus,
		})
	}
}
