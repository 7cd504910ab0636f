package service

import (
	"errors"
	"fmt"

	"koya/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxReviewAttachments = 5

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

type ReviewsPage struct {
	Posts      []ReviewData `json:"posts"`
	NextCursor *string      `json:"nextCursor"`
}

type CreateReviewInput struct {
	Content      string
	MediaIDs     []uuid.UUID
	RestaurantID *uuid.UUID
	Rating       *float64
}

// CreateReview stores a review and attaches the given unattached media to it.
func (s *ReviewService) CreateReview(userID uuid.UUID, input CreateReviewInput) (*ReviewData, error) {
	if len(input.MediaIDs) > MaxReviewAttachments {
		return nil, fmt.Errorf("at most %d attachments: %w", MaxReviewAttachments, ErrInvalidInput)
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", ErrInvalidInput)
	}

	review := &model.Review{
		Content:      input.Content,
		UserID:       userID,
		RestaurantID: input.RestaurantID,
		Rating:       input.Rating,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if input.RestaurantID != nil {
			if err := tx.Select("id").Take(&model.Restaurant{}, "id = ?", *input.RestaurantID).Error; err != nil {
				return notFound("restaurant", err)
			}
		}
		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		if len(input.MediaIDs) > 0 {
			err := tx.Model(&model.Media{}).
				Where("id IN ? AND review_id IS NULL", input.MediaIDs).
				Update("review_id", review.ID).Error
			if err != nil {
				return fmt.Errorf("failed to attach media: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetReview(userID, review.ID)
}

// GetReview loads one review as seen by viewerID.
func (s *ReviewService) GetReview(viewerID, reviewID uuid.UUID) (*ReviewData, error) {
	p := NewProjection(viewerID)
	reviews, err := p.FindReviews(s.db, s.db.Scopes(p.ReviewData()).Where("reviews.id = ?", reviewID).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, fmt.Errorf("review %w", ErrNotFound)
	}
	return &reviews[0], nil
}

// DeleteReview removes a review owned by userID together with its likes,
// bookmarks, comments and notifications. Its media are detached, not deleted.
// A review owned by someone else is reported as not found.
func (s *ReviewService) DeleteReview(userID, reviewID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var review model.Review
		if err := tx.Where("id = ? AND user_id = ?", reviewID, userID).Take(&review).Error; err != nil {
			return notFound("review", err)
		}

		for _, m := range []interface{}{&model.Like{}, &model.Bookmark{}, &model.Comment{}, &model.Notification{}} {
			if err := tx.Where("review_id = ?", reviewID).Delete(m).Error; err != nil {
				return fmt.Errorf("failed to delete review dependents: %w", err)
			}
		}
		if err := tx.Model(&model.Media{}).Where("review_id = ?", reviewID).Update("review_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach media: %w", err)
		}
		if err := tx.Delete(&review).Error; err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		return nil
	})
}

// GetUserReviews pages through the reviews written by userID.
func (s *ReviewService) GetUserReviews(viewerID, userID uuid.UUID, cursor *uuid.UUID) (*ReviewsPage, error) {
	if err := s.db.Select("id").Take(&model.User{}, "id = ?", userID).Error; err != nil {
		return nil, notFound("user", err)
	}
	return s.page(viewerID, cursor, func(q *gorm.DB) *gorm.DB {
		return q.Where("reviews.user_id = ?", userID)
	})
}

// GetRestaurantReviews pages through the reviews of one restaurant.
func (s *ReviewService) GetRestaurantReviews(viewerID, restaurantID uuid.UUID, cursor *uuid.UUID) (*ReviewsPage, error) {
	if err := s.db.Select("id").Take(&model.Restaurant{}, "id = ?", restaurantID).Error; err != nil {
		return nil, notFound("restaurant", err)
	}
	return s.page(viewerID, cursor, func(q *gorm.DB) *gorm.DB {
		return q.Where("reviews.restaurant_id = ?", restaurantID)
	})
}

// GetFollowingFeed pages through reviews written by users the viewer follows.
func (s *ReviewService) GetFollowingFeed(viewerID uuid.UUID, cursor *uuid.UUID) (*ReviewsPage, error) {
	return s.page(viewerID, cursor, func(q *gorm.DB) *gorm.DB {
		return q.Where("reviews.user_id IN (SELECT ff.following_id FROM follows ff WHERE ff.follower_id = ?)", viewerID)
	})
}

// GetBookmarkedReviews pages through the reviews the viewer bookmarked.
func (s *ReviewService) GetBookmarkedReviews(viewerID uuid.UUID, cursor *uuid.UUID) (*ReviewsPage, error) {
	return s.page(viewerID, cursor, func(q *gorm.DB) *gorm.DB {
		return q.Where("EXISTS (SELECT 1 FROM bookmarks fb WHERE fb.review_id = reviews.id AND fb.user_id = ?)", viewerID)
	})
}

func (s *ReviewService) page(viewerID uuid.UUID, cursor *uuid.UUID, filter func(*gorm.DB) *gorm.DB) (*ReviewsPage, error) {
	p := NewProjection(viewerID)
	q := s.db.Scopes(p.ReviewData(), filter, afterCursor("reviews", cursor)).Limit(PageSize + 1)

	var rows []ReviewData
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	rows, next := trimPage(rows, PageSize, func(r ReviewData) uuid.UUID { return r.ID })
	if err := p.hydrateReviews(s.db, rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []ReviewData{}
	}
	return &ReviewsPage{Posts: rows, NextCursor: next}, nil
}

// reviewAuthor returns the author of a review, or ErrNotFound.
func reviewAuthor(tx *gorm.DB, reviewID uuid.UUID) (uuid.UUID, error) {
	var review model.Review
	if err := tx.Select("id", "user_id").Take(&review, "id = ?", reviewID).Error; err != nil {
		return uuid.Nil, notFound("review", err)
	}
	return review.UserID, nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
