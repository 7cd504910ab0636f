package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Restaurant struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(200);not null;index"`
	Slug        string    `json:"slug" gorm:"type:varchar(220);not null;uniqueIndex"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	Address     string    `json:"address" gorm:"type:varchar(300);not null"`
	City        string    `json:"city" gorm:"type:varchar(100);not null"`
	Province    string    `json:"province" gorm:"type:varchar(100)"`
	CuisineType string    `json:"cuisineType" gorm:"type:varchar(100)"`
	PriceRange  int       `json:"priceRange" gorm:"not null"` // 1-4
	ImageURL    *string   `json:"imageUrl,omitempty" gorm:"type:text"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	IsActive    bool      `json:"isActive" gorm:"not null;index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// RestaurantBookmark, RestaurantFavorite and RestaurantVisit share one shape
// but live in separate tables, each with its own (user, restaurant) constraint.

type RestaurantBookmark struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_restaurant_bookmarks_pair,priority:1"`
	RestaurantID uuid.UUID `json:"restaurantId" gorm:"type:uuid;not null;uniqueIndex:idx_restaurant_bookmarks_pair,priority:2;index"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (RestaurantBookmark) TableName() string {
	return "restaurant_bookmarks"
}

func (b *RestaurantBookmark) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

type RestaurantFavorite struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_restaurant_favorites_pair,priority:1"`
	RestaurantID uuid.UUID `json:"restaurantId" gorm:"type:uuid;not null;uniqueIndex:idx_restaurant_favorites_pair,priority:2;index"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (RestaurantFavorite) TableName() string {
	return "restaurant_favorites"
}

func (f *RestaurantFavorite) BeforeCreate(tx *gorm.DB) error {
	ensureID(&f.ID)
	return nil
}

type RestaurantVisit struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_restaurant_visits_pair,priority:1"`
	RestaurantID uuid.UUID `json:"restaurantId" gorm:"type:uuid;not null;uniqueIndex:idx_restaurant_visits_pair,priority:2;index"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (RestaurantVisit) TableName() string {
	return "restaurant_visits"
}

func (v *RestaurantVisit) BeforeCreate(tx *gorm.DB) error {
	ensureID(&v.ID)
	return nil
}
