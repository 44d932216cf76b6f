package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account on the site. Accounts come from email/password signup
// or from the Google OAuth flow.
type User struct {
	ID           uint           `gorm:"column:id;primaryKey" json:"id"`
	Email        string         `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string         `gorm:"column:name;type:varchar(255)" json:"name"`
	AvatarURL    string         `gorm:"column:avatar_url;type:text" json:"avatarUrl"`
	Provider     string         `gorm:"column:provider;type:varchar(50)" json:"provider"`
	PasswordHash string         `gorm:"column:password_hash;type:varchar(255)" json:"-"`
	CreatedAt    time.Time      `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
