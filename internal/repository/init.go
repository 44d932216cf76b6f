package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/snapstack/snapstack/config"
	"github.com/snapstack/snapstack/interfaces"
	"github.com/snapstack/snapstack/internal/models"
)

type Repositories struct {
	PostRepository           interfaces.PostRepository
	CollectionRepository     interfaces.CollectionRepository
	PostCollectionRepository interfaces.PostCollectionRepository
	InboundEmailRepository   interfaces.InboundEmailRepository
	UserRepository           interfaces.UserRepository

	DB *gorm.DB
}

func InitRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:                       db,
		PostRepository:           NewPostRepository(db),
		CollectionRepository:     NewCollectionRepository(db),
		PostCollectionRepository: NewPostCollectionRepository(db),
		InboundEmailRepository:   NewInboundEmailRepository(db),
		UserRepository:           NewUserRepository(db),
	}
}

func MigrateDB(dbConfig *config.DatabaseConfig, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxOpenConns(5)

	err = db.AutoMigrate(
		&models.Post{},
		&models.Collection{},
		&models.PostCollection{},
		&models.InboundEmail{},
		&models.User{},
	)

	sqlDB.Close()

	sqlDB, _ = db.DB()
	sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConn)
	sqlDB.SetMaxOpenConns(dbConfig.MaxConn)
	sqlDB.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Minute)

	return err
}
