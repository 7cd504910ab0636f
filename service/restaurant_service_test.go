package service

import (
	"fmt"
	"sort"
	"testing"

	"koya/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSearchable(t *testing.T, db *gorm.DB, name, address, city, cuisine string, active bool) {
	t.Helper()
	r := seedRestaurant(t, db, name, active)
	require.NoError(t, db.Model(r).Updates(map[string]interface{}{
		"address":      address,
		"city":         city,
		"cuisine_type": cuisine,
	}).Error)
}

func TestSearchRestaurants_MatchesActiveCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	svc := NewRestaurantService(db)

	seedSearchable(t, db, "Ichiraku RAMEN", "Jl. Kenanga", "Bandung", "Japanese", true)
	seedSearchable(t, db, "Bakso Pak Min", "Ramen Street 5", "Bogor", "Indonesian", true)
	seedSearchable(t, db, "Noodle Bar", "Jl. Melati", "Ramenville", "Chinese", true)
	seedSearchable(t, db, "Aji Tei", "Jl. Mawar", "Jakarta", "ramen", true)
	seedSearchable(t, db, "Closed Ramen", "Jl. Anggrek", "Jakarta", "Japanese", false)
	seedSearchable(t, db, "Sate Khas", "Jl. Dahlia", "Solo", "Javanese", true)

	results, err := svc.SearchRestaurants("Ramen")
	require.NoError(t, err)

	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Aji Tei", "Bakso Pak Min", "Ichiraku RAMEN", "Noodle Bar"}, names)
}

func TestSearchRestaurants_CapsAndOrders(t *testing.T) {
	db := newTestDB(t)
	svc := NewRestaurantService(db)
	for i := 14; i >= 0; i-- {
		seedSearchable(t, db, fmt.Sprintf("Ramen %02d", i), "x", "y", "z", true)
	}

	results, err := svc.SearchRestaurants("  ramen ")
	require.NoError(t, err)
	require.Len(t, results, SearchLimit)
	assert.True(t, sort.SliceIsSorted(results, func(i, j int) bool { return results[i].Name < results[j].Name }))
	assert.Equal(t, "Ramen 00", results[0].Name)
}

func TestSearchRestaurants_BlankAndWildcards(t *testing.T) {
	db := newTestDB(t)
	svc := NewRestaurantService(db)
	seedSearchable(t, db, "Kopi Kenangan", "a", "b", "c", true)
	seedSearchable(t, db, "100% Arabica", "a", "b", "c", true)

	results, err := svc.SearchRestaurants("   ")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	results, err = svc.SearchRestaurants("%")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "100% Arabica", results[0].Name)

	results, err = svc.SearchRestaurants("_")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchRestaurants_BlankSkipsDatabase(t *testing.T) {
	svc := NewRestaurantService(nil)
	results, err := svc.SearchRestaurants("")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCreateRestaurant_UniqueSlugs(t *testing.T) {
	db := newTestDB(t)
	svc := NewRestaurantService(db)
	viewer := seedUser(t, db, "alice")

	input := CreateRestaurantInput{Name: "Sate Ayam Pak Kumis", Address: "a", City: "Jakarta", PriceRange: 2}
	first, err := svc.CreateRestaurant(viewer.ID, input)
	require.NoError(t, err)
	second, err := svc.CreateRestaurant(viewer.ID, input)
	require.NoError(t, err)
	third, err := svc.CreateRestaurant(viewer.ID, input)
	require.NoError(t, err)

	assert.Equal(t, "sate-ayam-pak-kumis", first.Slug)
	assert.Equal(t, "sate-ayam-pak-kumis-2", second.Slug)
	assert.Equal(t, "sate-ayam-pak-kumis-3", third.Slug)

	_, err = svc.CreateRestaurant(viewer.ID, CreateRestaurantInput{Name: "!!!", PriceRange: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.CreateRestaurant(viewer.ID, CreateRestaurantInput{Name: "Ok", PriceRange: 5})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUniqueSlug(t *testing.T) {
	assert.Equal(t, "soto", uniqueSlug("soto", nil))
	assert.Equal(t, "soto", uniqueSlug("soto", []string{"soto-2"}))
	assert.Equal(t, "soto-3", uniqueSlug("soto", []string{"soto", "soto-2", "soto-betawi"}))
}

func TestGetRestaurantBySlug_FullData(t *testing.T) {
	db := newTestDB(t)
	svc := NewRestaurantService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	resto := seedRestaurant(t, db, "Gudeg Yu Djum", true)

	require.NoError(t, db.Create(&model.Review{Content: "a", UserID: alice.ID, RestaurantID: &resto.ID, Rating: ptr(4.0)}).Error)
	require.NoError(t, db.Create(&model.Review{Content: "b", UserID: bob.ID, RestaurantID: &resto.ID, Rating: ptr(5.0)}).Error)
	require.NoError(t, db.Create(&model.Review{Content: "c", UserID: bob.ID, RestaurantID: &resto.ID}).Error)
	require.NoError(t, db.Create(&model.RestaurantFavorite{UserID: alice.ID, RestaurantID: resto.ID}).Error)
	require.NoError(t, db.Create(&model.RestaurantVisit{UserID: bob.ID, RestaurantID: resto.ID}).Error)

	data, err := svc.GetRestaurantBySlug(alice.ID, resto.Slug)
	require.NoError(t, err)
	assert.Equal(t, resto.ID, data.ID)
	assert.Equal(t, int64(3), data.ReviewCount)
	assert.Equal(t, int64(1), data.FavoriteCount)
	assert.Equal(t, int64(1), data.VisitedCount)
	assert.Equal(t, int64(0), data.BookmarkCount)
	assert.True(t, data.IsFavoritedByUser)
	assert.False(t, data.IsVisitedByUser)
	require.NotNil(t, data.AverageRating)
	assert.InDelta(t, 4.5, *data.AverageRating, 0.001)

	_, err = svc.GetRestaurantBySlug(alice.ID, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetRestaurantInfo(t *testing.T) {
	db := newTestDB(t)
	svc := NewRestaurantService(db)
	alice := seedUser(t, db, "alice")
	resto := seedRestaurant(t, db, "Nasi Padang", true)
	require.NoError(t, db.Create(&model.RestaurantBookmark{UserID: alice.ID, RestaurantID: resto.ID}).Error)

	info, err := svc.GetRestaurantInfo(alice.ID, resto.ID)
	require.NoError(t, err)
	assert.Equal(t, &RestaurantInfo{IsBookmarkedByUser: true}, info)

	_, err = svc.GetRestaurantInfo(alice.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
