package service

import (
	"fmt"
	"testing"
	"time"

	"koya/model"
	"koya/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), utils.GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, utils.Migrate(db))
	return db
}

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, DisplayName: username, CreatedAt: baseTime}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedRestaurant(t *testing.T, db *gorm.DB, name string, active bool) *model.Restaurant {
	t.Helper()
	r := &model.Restaurant{
		Name:        name,
		Slug:        uuid.NewString(),
		Address:     "Jl. Sudirman 1",
		City:        "Jakarta",
		Province:    "DKI Jakarta",
		CuisineType: "Indonesian",
		PriceRange:  2,
		IsActive:    active,
		CreatedAt:   baseTime,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func seedReview(t *testing.T, db *gorm.DB, userID uuid.UUID, restaurantID *uuid.UUID, at time.Time) *model.Review {
	t.Helper()
	r := &model.Review{Content: "tasty", UserID: userID, RestaurantID: restaurantID, CreatedAt: at}
	require.NoError(t, db.Create(r).Error)
	return r
}

func count(t *testing.T, db *gorm.DB, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Where(query, args...).Count(&n).Error)
	return n
}

func ptr[T any](v T) *T {
	return &v
}
