package models

import (
	"time"
)

// Collection is a named, user-curated grouping of posts.
type Collection struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description *string   `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UserID      *uint     `gorm:"column:user_id;index" json:"userId"`
}

func (Collection) TableName() string {
	return "collections"
}
