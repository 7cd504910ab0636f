package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a profile; ids come from the identity provider or are generated on insert.
type User struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username    string    `json:"username" gorm:"type:varchar(50);not null;uniqueIndex"`
	DisplayName string    `json:"displayName" gorm:"type:varchar(100);not null"`
	Email       *string   `json:"email,omitempty" gorm:"type:varchar(255);uniqueIndex"`
	Bio         *string   `json:"bio,omitempty" gorm:"type:text"`
	AvatarURL   *string   `json:"avatarUrl,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
