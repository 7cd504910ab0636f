package service

import (
	"fmt"
	"time"

	"koya/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Projection builds the read shapes for one viewer. Every viewer-relative flag
// is an EXISTS sub-select bound to the viewer id, every count a COUNT(*)
// sub-select, so a single query returns both public data and flags.
type Projection struct {
	viewerID uuid.UUID
}

func NewProjection(viewerID uuid.UUID) Projection {
	return Projection{viewerID: viewerID}
}

// UserData is the public profile plus the viewer's follow flag.
type UserData struct {
	ID               uuid.UUID `json:"id"`
	Username         string    `json:"username"`
	DisplayName      string    `json:"displayName"`
	AvatarURL        *string   `json:"avatarUrl"`
	Bio              *string   `json:"bio"`
	CreatedAt        time.Time `json:"createdAt"`
	IsFollowedByUser bool      `json:"isFollowedByUser"`
	ReviewCount      int64     `json:"reviewCount"`
	FollowerCount    int64     `json:"followerCount"`
	FollowingCount   int64     `json:"followingCount"`
}

// RestaurantSummary is the restaurant shape embedded in reviews and search results.
type RestaurantSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	ImageURL    *string   `json:"imageUrl"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	CuisineType string    `json:"cuisineType"`
	PriceRange  int       `json:"priceRange"`
}

type ReviewData struct {
	ID                 uuid.UUID          `json:"id"`
	Content            string             `json:"content"`
	Rating             *float64           `json:"rating"`
	UserID             uuid.UUID          `json:"-"`
	RestaurantID       *uuid.UUID         `json:"-"`
	CreatedAt          time.Time          `json:"createdAt"`
	IsLikedByUser      bool               `json:"isLikedByUser"`
	IsBookmarkedByUser bool               `json:"isBookmarkedByUser"`
	LikeCount          int64              `json:"likeCount"`
	CommentCount       int64              `json:"commentCount"`
	User               *UserData          `json:"user" gorm:"-"`
	Restaurant         *RestaurantSummary `json:"restaurant" gorm:"-"`
	Attachments        []model.Media      `json:"attachments" gorm:"-"`
}

type RestaurantData struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Slug               string    `json:"slug"`
	Description        *string   `json:"description"`
	Address            string    `json:"address"`
	City               string    `json:"city"`
	Province           string    `json:"province"`
	CuisineType        string    `json:"cuisineType"`
	PriceRange         int       `json:"priceRange"`
	ImageURL           *string   `json:"imageUrl"`
	Latitude           *float64  `json:"latitude"`
	Longitude          *float64  `json:"longitude"`
	CreatedAt          time.Time `json:"createdAt"`
	IsBookmarkedByUser bool      `json:"isBookmarkedByUser"`
	IsFavoritedByUser  bool      `json:"isFavoritedByUser"`
	IsVisitedByUser    bool      `json:"isVisitedByUser"`
	ReviewCount        int64     `json:"reviewCount"`
	BookmarkCount      int64     `json:"bookmarkCount"`
	FavoriteCount      int64     `json:"favoriteCount"`
	VisitedCount       int64     `json:"visitedCount"`
	AverageRating      *float64  `json:"averageRating"`
}

type CommentData struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	UserID    uuid.UUID `json:"-"`
	ReviewID  uuid.UUID `json:"reviewId"`
	CreatedAt time.Time `json:"createdAt"`
	User      *UserData `json:"user" gorm:"-"`
}

type NotificationIssuer struct {
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
}

type NotificationData struct {
	ID            uuid.UUID          `json:"id"`
	Type          string             `json:"type"`
	Read          bool               `json:"read"`
	ReviewID      *uuid.UUID         `json:"reviewId"`
	CreatedAt     time.Time          `json:"createdAt"`
	Issuer        NotificationIssuer `json:"issuer" gorm:"embedded;embeddedPrefix:issuer_"`
	ReviewContent *string            `json:"reviewContent"`
}

func (p Projection) UserData() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Table("users").Select(`users.id, users.username, users.display_name, users.avatar_url, users.bio, users.created_at,
			EXISTS (SELECT 1 FROM follows vf WHERE vf.following_id = users.id AND vf.follower_id = ?) AS is_followed_by_user,
			(SELECT COUNT(*) FROM reviews cr WHERE cr.user_id = users.id) AS review_count,
			(SELECT COUNT(*) FROM follows cf WHERE cf.following_id = users.id) AS follower_count,
			(SELECT COUNT(*) FROM follows cg WHERE cg.follower_id = users.id) AS following_count`,
			p.viewerID)
	}
}

func (p Projection) ReviewData() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Table("reviews").Select(`reviews.id, reviews.content, reviews.rating, reviews.user_id, reviews.restaurant_id, reviews.created_at,
			EXISTS (SELECT 1 FROM likes vl WHERE vl.review_id = reviews.id AND vl.user_id = ?) AS is_liked_by_user,
			EXISTS (SELECT 1 FROM bookmarks vb WHERE vb.review_id = reviews.id AND vb.user_id = ?) AS is_bookmarked_by_user,
			(SELECT COUNT(*) FROM likes cl WHERE cl.review_id = reviews.id) AS like_count,
			(SELECT COUNT(*) FROM comments cc WHERE cc.review_id = reviews.id) AS comment_count`,
			p.viewerID, p.viewerID)
	}
}

func (p Projection) RestaurantData() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Table("restaurants").Select(`restaurants.id, restaurants.name, restaurants.slug, restaurants.description,
			restaurants.address, restaurants.city, restaurants.province, restaurants.cuisine_type, restaurants.price_range,
			restaurants.image_url, restaurants.latitude, restaurants.longitude, restaurants.created_at,
			EXISTS (SELECT 1 FROM restaurant_bookmarks vb WHERE vb.restaurant_id = restaurants.id AND vb.user_id = ?) AS is_bookmarked_by_user,
			EXISTS (SELECT 1 FROM restaurant_favorites vf WHERE vf.restaurant_id = restaurants.id AND vf.user_id = ?) AS is_favorited_by_user,
			EXISTS (SELECT 1 FROM restaurant_visits vv WHERE vv.restaurant_id = restaurants.id AND vv.user_id = ?) AS is_visited_by_user,
			(SELECT COUNT(*) FROM reviews cr WHERE cr.restaurant_id = restaurants.id) AS review_count,
			(SELECT COUNT(*) FROM restaurant_bookmarks cb WHERE cb.restaurant_id = restaurants.id) AS bookmark_count,
			(SELECT COUNT(*) FROM restaurant_favorites cf WHERE cf.restaurant_id = restaurants.id) AS favorite_count,
			(SELECT COUNT(*) FROM restaurant_visits cv WHERE cv.restaurant_id = restaurants.id) AS visited_count,
			(SELECT AVG(ar.rating) FROM reviews ar WHERE ar.restaurant_id = restaurants.id AND ar.rating IS NOT NULL) AS average_rating`,
			p.viewerID, p.viewerID, p.viewerID)
	}
}

func (p Projection) CommentData() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Table("comments").Select("comments.id, comments.content, comments.user_id, comments.review_id, comments.created_at")
	}
}

// NotificationData does not depend on the viewer; it is a method so every
// read shape is reached the same way.
func (p Projection) NotificationData() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Table("notifications").
			Select(`notifications.id, notifications.type, notifications.read, notifications.review_id, notifications.created_at,
				iu.username AS issuer_username, iu.display_name AS issuer_display_name, iu.avatar_url AS issuer_avatar_url,
				nr.content AS review_content`).
			Joins("JOIN users iu ON iu.id = notifications.issuer_id").
			Joins("LEFT JOIN reviews nr ON nr.id = notifications.review_id")
	}
}

func restaurantSummary(db *gorm.DB) *gorm.DB {
	return db.Table("restaurants").
		Select("restaurants.id, restaurants.name, restaurants.slug, restaurants.image_url, restaurants.address, restaurants.city, restaurants.cuisine_type, restaurants.price_range")
}

// FindReviews runs q, which must already carry the ReviewData scope, and
// hydrates author, restaurant and attachments with one query per relation.
func (p Projection) FindReviews(db, q *gorm.DB) ([]ReviewData, error) {
	var reviews []ReviewData
	if err := q.Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	if err := p.hydrateReviews(db, reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (p Projection) hydrateReviews(db *gorm.DB, reviews []ReviewData) error {
	if len(reviews) == 0 {
		return nil
	}

	reviewIDs := make([]uuid.UUID, 0, len(reviews))
	userIDs := make([]uuid.UUID, 0, len(reviews))
	restaurantIDs := make([]uuid.UUID, 0, len(reviews))
	for _, r := range reviews {
		reviewIDs = append(reviewIDs, r.ID)
		userIDs = append(userIDs, r.UserID)
		if r.RestaurantID != nil {
			restaurantIDs = append(restaurantIDs, *r.RestaurantID)
		}
	}

	users, err := p.usersByID(db, userIDs)
	if err != nil {
		return err
	}

	restaurants := make(map[uuid.UUID]*RestaurantSummary)
	if len(restaurantIDs) > 0 {
		var rows []RestaurantSummary
		if err := db.Scopes(restaurantSummary).Where("restaurants.id IN ?", restaurantIDs).Find(&rows).Error; err != nil {
			return fmt.Errorf("failed to query review restaurants: %w", err)
		}
		for i := range rows {
			restaurants[rows[i].ID] = &rows[i]
		}
	}

	var media []model.Media
	if err := db.Where("review_id IN ?", reviewIDs).Order("created_at ASC").Find(&media).Error; err != nil {
		return fmt.Errorf("failed to query review attachments: %w", err)
	}
	attachments := make(map[uuid.UUID][]model.Media)
	for _, m := range media {
		attachments[*m.ReviewID] = append(attachments[*m.ReviewID], m)
	}

	for i := range reviews {
		reviews[i].User = users[reviews[i].UserID]
		if reviews[i].RestaurantID != nil {
			reviews[i].Restaurant = restaurants[*reviews[i].RestaurantID]
		}
		reviews[i].Attachments = attachments[reviews[i].ID]
		if reviews[i].Attachments == nil {
			reviews[i].Attachments = []model.Media{}
		}
	}
	return nil
}

// FindComments runs q, which must carry the CommentData scope, and hydrates authors.
func (p Projection) FindComments(db, q *gorm.DB) ([]CommentData, error) {
	var comments []CommentData
	if err := q.Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	if len(comments) == 0 {
		return comments, nil
	}

	userIDs := make([]uuid.UUID, 0, len(comments))
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}
	users, err := p.usersByID(db, userIDs)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		comments[i].User = users[comments[i].UserID]
	}
	return comments, nil
}

func (p Projection) usersByID(db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*UserData, error) {
	var rows []UserData
	if err := db.Scopes(p.UserData()).Where("users.id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	users := make(map[uuid.UUID]*UserData, len(rows))
	for i := range rows {
		users[rows[i].ID] = &rows[i]
	}
	return users, nil
}
