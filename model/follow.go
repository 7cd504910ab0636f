package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow is a directed follower -> following edge.
type Follow struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FollowerID  uuid.UUID `json:"followerId" gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair,priority:1"`
	FollowingID uuid.UUID `json:"followingId" gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair,priority:2;index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (Follow) TableName() string {
	return "follows"
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	ensureID(&f.ID)
	return nil
}
