package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationLike    = "LIKE"
	NotificationFollow  = "FOLLOW"
	NotificationComment = "COMMENT"
)

// Notification is addressed to RecipientID and caused by IssuerID, never the same user.
type Notification struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	RecipientID uuid.UUID  `json:"recipientId" gorm:"type:uuid;not null;index:idx_notifications_recipient,priority:1"`
	IssuerID    uuid.UUID  `json:"issuerId" gorm:"type:uuid;not null;index"`
	ReviewID    *uuid.UUID `json:"reviewId,omitempty" gorm:"type:uuid;index"`
	Type        string     `json:"type" gorm:"type:varchar(10);not null"` // LIKE | FOLLOW | COMMENT
	Read        bool       `json:"read" gorm:"not null;index:idx_notifications_recipient,priority:2"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	ensureID(&n.ID)
	return nil
}
