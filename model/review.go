package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Content      string     `json:"content" gorm:"type:text;not null"`
	Rating       *float64   `json:"rating,omitempty" gorm:"type:decimal(2,1)"` // 1.0-5.0
	UserID       uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index:idx_reviews_user_created,priority:1"`
	RestaurantID *uuid.UUID `json:"restaurantId,omitempty" gorm:"type:uuid;index"`
	CreatedAt    time.Time  `json:"createdAt" gorm:"autoCreateTime;index:idx_reviews_user_created,priority:2"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

const (
	MediaTypeImage = "IMAGE"
	MediaTypeVideo = "VIDEO"
)

// Media is an uploaded file. A nil ReviewID means it is not attached yet.
type Media struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	URL       string     `json:"url" gorm:"type:text;not null"`
	Type      string     `json:"type" gorm:"type:varchar(10);not null"`
	ReviewID  *uuid.UUID `json:"reviewId" gorm:"type:uuid;index"`
	CreatedAt time.Time  `json:"createdAt" gorm:"autoCreateTime;index"`
}

func (Media) TableName() string {
	return "media"
}

func (m *Media) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	ReviewID  uuid.UUID `json:"reviewId" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_likes_pair,priority:1"`
	ReviewID  uuid.UUID `json:"reviewId" gorm:"type:uuid;not null;uniqueIndex:idx_likes_pair,priority:2;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (Like) TableName() string {
	return "likes"
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

// Bookmark is a review bookmark, distinct from RestaurantBookmark.
type Bookmark struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_pair,priority:1"`
	ReviewID  uuid.UUID `json:"reviewId" gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_pair,priority:2;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

func (b *Bookmark) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	return nil
}
