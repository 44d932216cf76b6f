package cron

import (
	"fmt"
	"os"
	"testing"
	"time"

	cronv3 "github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"

	"github.com/snapstack/snapstack/config"
	"github.com/snapstack/snapstack/internal/logger"
)

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func TestNewCronManager(t *testing.T) {
	// Arrange
	cfg := &config.Config{
		AppConfig: &config.AppConfig{},
	}
	log := getLogger()

	// Act
	cm := NewCronManager(cfg, log, nil, nil)

	// Assert
	assert.NotNil(t, cm)
	assert.Equal(t, cfg, cm.cfg)
	assert.Equal(t, log, cm.log)
	assert.NotNil(t, cm.jobIDs)
}

func TestCronManager_StartCron(t *testing.T) {
	// Set environment variables for testing
	os.Setenv("CRON_SCHEDULE_HEARTBEAT", "0 * * * * *")
	os.Setenv("CRON_SCHEDULE_ORPHAN_SWEEP", "0 0 0 * * *")
	defer os.Unsetenv("CRON_SCHEDULE_HEARTBEAT")
	defer os.Unsetenv("CRON_SCHEDULE_ORPHAN_SWEEP")

	cfg := &config.Config{
		AppConfig: &config.AppConfig{},
	}
	cm := NewCronManager(cfg, getLogger(), nil, nil)

	// Act
	cm.StartCron()
	defer cm.Stop()

	// Assert
	assert.NotNil(t, cm.cron)
	assert.Len(t, cm.jobIDs, 2)
	assert.Contains(t, cm.jobIDs, "heartbeat")
	assert.Contains(t, cm.jobIDs, "orphan_sweep")
}

func TestCronManager_RegisterJobs_InvalidSchedule(t *testing.T) {
	// An invalid spec must be rejected by the scheduler itself
	c := cronv3.New(cronv3.WithSeconds())
	_, err := c.AddFunc("not a schedule", func() {})
	assert.Error(t, err)
}

func TestUploadedWithin(t *testing.T) {
	recent := fmt.Sprintf("%d-fresh.jpg", time.Now().UnixMilli())
	old := fmt.Sprintf("%d-stale.jpg", time.Now().Add(-48*time.Hour).UnixMilli())

	assert.True(t, uploadedWithin(recent, 24*time.Hour))
	assert.False(t, uploadedWithin(old, 24*time.Hour))

	// Keys without a timestamp prefix are treated as recent
	assert.True(t, uploadedWithin("no-timestamp.jpg", 24*time.Hour))
	assert.True(t, uploadedWithin("plainkey", 24*time.Hour))
}
