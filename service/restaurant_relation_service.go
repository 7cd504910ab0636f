package service

import (
	"fmt"

	"koya/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationKind selects one of the user-restaurant join tables. The tables stay
// separate, so each kind keeps its own uniqueness constraint.
type RelationKind string

const (
	RelationBookmark RelationKind = "bookmark"
	RelationFavorite RelationKind = "favorite"
	RelationVisited  RelationKind = "visited"
)

// ParseRelationKind maps a route segment to its kind.
func ParseRelationKind(s string) (RelationKind, bool) {
	switch RelationKind(s) {
	case RelationBookmark, RelationFavorite, RelationVisited:
		return RelationKind(s), true
	}
	return "", false
}

// ResponseKey is the JSON field a toggle response reports its state under.
func (k RelationKind) ResponseKey() string {
	switch k {
	case RelationBookmark:
		return "bookmarked"
	case RelationFavorite:
		return "favorited"
	default:
		return "visited"
	}
}

func (k RelationKind) table() string {
	switch k {
	case RelationBookmark:
		return model.RestaurantBookmark{}.TableName()
	case RelationFavorite:
		return model.RestaurantFavorite{}.TableName()
	default:
		return model.RestaurantVisit{}.TableName()
	}
}

func (k RelationKind) newRow(userID, restaurantID uuid.UUID) interface{} {
	switch k {
	case RelationBookmark:
		return &model.RestaurantBookmark{UserID: userID, RestaurantID: restaurantID}
	case RelationFavorite:
		return &model.RestaurantFavorite{UserID: userID, RestaurantID: restaurantID}
	default:
		return &model.RestaurantVisit{UserID: userID, RestaurantID: restaurantID}
	}
}

type RestaurantRelationService struct {
	db *gorm.DB
}

func NewRestaurantRelationService(db *gorm.DB) *RestaurantRelationService {
	return &RestaurantRelationService{db: db}
}

// Toggle deletes the relation row if present and creates it otherwise,
// returning the new state. Losing a concurrent create race counts as on.
func (s *RestaurantRelationService) Toggle(kind RelationKind, userID, restaurantID uuid.UUID) (bool, error) {
	on := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Take(&model.Restaurant{}, "id = ?", restaurantID).Error; err != nil {
			return notFound("restaurant", err)
		}

		result := tx.Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
			Delete(kind.newRow(uuid.Nil, uuid.Nil))
		if result.Error != nil {
			return fmt.Errorf("failed to delete restaurant %s: %w", kind, result.Error)
		}
		if result.RowsAffected > 0 {
			return nil
		}

		on = true
		_, err := addRelation(tx, kind, userID, restaurantID)
		return err
	})
	if err != nil {
		return false, err
	}
	return on, nil
}

// addRelation inserts the relation row and reports whether this call created
// it. An existing row is left alone.
func addRelation(tx *gorm.DB, kind RelationKind, userID, restaurantID uuid.UUID) (bool, error) {
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "restaurant_id"}},
		DoNothing: true,
	}).Create(kind.newRow(userID, restaurantID))
	if result.Error != nil {
		if isDuplicate(result.Error) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create restaurant %s: %w", kind, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListUsers returns the users holding the relation to a restaurant, most recent first.
func (s *RestaurantRelationService) ListUsers(kind RelationKind, viewerID, restaurantID uuid.UUID) ([]UserData, error) {
	if err := s.db.Select("id").Take(&model.Restaurant{}, "id = ?", restaurantID).Error; err != nil {
		return nil, notFound("restaurant", err)
	}

	users := []UserData{}
	err := s.db.Scopes(NewProjection(viewerID).UserData()).
		Joins(fmt.Sprintf("JOIN %s rr ON rr.user_id = users.id AND rr.restaurant_id = ?", kind.table()), restaurantID).
		Order("rr.created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurant %s users: %w", kind, err)
	}
	return users, nil
}
