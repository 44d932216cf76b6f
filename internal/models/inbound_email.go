package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/snapstack/snapstack/internal/utils"
)

// InboundEmail is the audit record for a webhook delivery. The unique
// message_id index is what makes re-deliveries from the relay idempotent.
type InboundEmail struct {
	ID              string         `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	MessageID       string         `gorm:"column:message_id;uniqueIndex;type:varchar(255);not null" json:"messageId"`
	Sender          string         `gorm:"column:sender;type:varchar(255);index" json:"sender"`
	Recipients      pq.StringArray `gorm:"column:recipients;type:text[]" json:"recipients"`
	Subject         string         `gorm:"column:subject;type:varchar(1000)" json:"subject"`
	AttachmentCount int            `gorm:"column:attachment_count" json:"attachmentCount"`
	Command         string         `gorm:"column:command;type:varchar(50)" json:"command"`
	Outcome         string         `gorm:"column:outcome;type:varchar(500)" json:"outcome"`
	ReceivedAt      time.Time      `gorm:"column:received_at;type:timestamp" json:"receivedAt"`
	CreatedAt       time.Time      `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
}

func (InboundEmail) TableName() string {
	return "inbound_emails"
}

func (e *InboundEmail) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = utils.GenerateNanoIDWithPrefix("inmail", 24)
	}
	e.CreatedAt = utils.Now()
	return nil
}
