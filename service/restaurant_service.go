package service

import (
	"fmt"
	"strings"

	"koya/model"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const SearchLimit = 10

type RestaurantService struct {
	db *gorm.DB
}

func NewRestaurantService(db *gorm.DB) *RestaurantService {
	return &RestaurantService{db: db}
}

type RestaurantInfo struct {
	IsBookmarkedByUser bool `json:"isBookmarkedByUser"`
	IsFavoritedByUser  bool `json:"isFavoritedByUser"`
	IsVisitedByUser    bool `json:"isVisitedByUser"`
}

type CreateRestaurantInput struct {
	Name        string
	Description *string
	Address     string
	City        string
	Province    string
	CuisineType string
	PriceRange  int
	ImageURL    *string
	Latitude    *float64
	Longitude   *float64
}

// GetRestaurantInfo returns the viewer's bookmark/favorite/visited flags.
func (s *RestaurantService) GetRestaurantInfo(viewerID, restaurantID uuid.UUID) (*RestaurantInfo, error) {
	data, err := s.findOne(viewerID, "restaurants.id = ?", restaurantID)
	if err != nil {
		return nil, err
	}
	return &RestaurantInfo{
		IsBookmarkedByUser: data.IsBookmarkedByUser,
		IsFavoritedByUser:  data.IsFavoritedByUser,
		IsVisitedByUser:    data.IsVisitedByUser,
	}, nil
}

func (s *RestaurantService) GetRestaurantBySlug(viewerID uuid.UUID, restaurantSlug string) (*RestaurantData, error) {
	return s.findOne(viewerID, "restaurants.slug = ?", restaurantSlug)
}

func (s *RestaurantService) findOne(viewerID uuid.UUID, query string, arg interface{}) (*RestaurantData, error) {
	var rows []RestaurantData
	err := s.db.Scopes(NewProjection(viewerID).RestaurantData()).
		Where(query, arg).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurant: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("restaurant %w", ErrNotFound)
	}
	return &rows[0], nil
}

// SearchRestaurants matches query case-insensitively against name, address,
// city and cuisine type of active restaurants. A blank query returns nothing
// without touching the database.
func (s *RestaurantService) SearchRestaurants(query string) ([]RestaurantSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []RestaurantSummary{}, nil
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	results := []RestaurantSummary{}
	err := s.db.Scopes(restaurantSummary).
		Where("restaurants.is_active = ?", true).
		Where(`(LOWER(restaurants.name) LIKE ? ESCAPE '\' OR LOWER(restaurants.address) LIKE ? ESCAPE '\'
			OR LOWER(restaurants.city) LIKE ? ESCAPE '\' OR LOWER(restaurants.cuisine_type) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, pattern).
		Order("restaurants.name ASC").
		Limit(SearchLimit).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search restaurants: %w", err)
	}
	return results, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// CreateRestaurant stores an active restaurant under a slug derived from its name.
func (s *RestaurantService) CreateRestaurant(viewerID uuid.UUID, input CreateRestaurantInput) (*RestaurantData, error) {
	base := slug.Make(input.Name)
	if base == "" {
		return nil, fmt.Errorf("name has no sluggable characters: %w", ErrInvalidInput)
	}
	if input.PriceRange < 1 || input.PriceRange > 4 {
		return nil, fmt.Errorf("price range must be between 1 and 4: %w", ErrInvalidInput)
	}

	restaurant := &model.Restaurant{
		Name:        input.Name,
		Description: input.Description,
		Address:     input.Address,
		City:        input.City,
		Province:    input.Province,
		CuisineType: input.CuisineType,
		PriceRange:  input.PriceRange,
		ImageURL:    input.ImageURL,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		IsActive:    true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var taken []string
		err := tx.Model(&model.Restaurant{}).
			Where("slug = ? OR slug LIKE ?", base, base+"-%").
			Pluck("slug", &taken).Error
		if err != nil {
			return fmt.Errorf("failed to query slugs: %w", err)
		}
		restaurant.Slug = uniqueSlug(base, taken)

		if err := tx.Create(restaurant).Error; err != nil {
			return fmt.Errorf("failed to create restaurant: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.findOne(viewerID, "restaurants.id = ?", restaurant.ID)
}

// uniqueSlug returns base, or base-N with the smallest N >= 2 not in taken.
func uniqueSlug(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		used[t] = struct{}{}
	}
	if _, ok := used[base]; !ok {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}
