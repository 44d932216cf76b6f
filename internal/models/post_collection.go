package models

import (
	"time"
)

// PostCollection links a post into a collection. The composite primary key
// keeps the association unique; adding the same pair twice is a no-op at the
// executor level, never a constraint violation.
type PostCollection struct {
	PostID       uint      `gorm:"column:post_id;primaryKey" json:"postId"`
	CollectionID uint      `gorm:"column:collection_id;primaryKey" json:"collectionId"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
}

func (PostCollection) TableName() string {
	return "post_collections"
}
