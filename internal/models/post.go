package models

import (
	"time"
)

// Post is a single photo shared on the site. Rows are created exclusively by
// the inbound email pipeline; the id is store-assigned.
type Post struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	ImageURL  string    `gorm:"column:image_url;type:text;not null" json:"imageUrl"`
	Caption   string    `gorm:"column:caption;type:varchar(1000)" json:"caption"`
	Location  *string   `gorm:"column:location;type:varchar(255)" json:"location"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UserID    *uint     `gorm:"column:user_id;index" json:"userId"`
}

func (Post) TableName() string {
	return "posts"
}

// StorageKey returns the object key the post's image lives under, derived
// from the public URL. Empty when the post has no image.
func (p *Post) StorageKey() string {
	if p.ImageURL == "" {
		return ""
	}
	for i := len(p.ImageURL) - 1; i >= 0; i-- {
		if p.ImageURL[i] == '/' {
			return p.ImageURL[i+1:]
		}
	}
	return p.ImageURL
}
