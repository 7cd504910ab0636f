package service

import (
	"fmt"

	"koya/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeService struct {
	db *gorm.DB
}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{db: db}
}

type LikeInfo struct {
	Likes         int64 `json:"likes"`
	IsLikedByUser bool  `json:"isLikedByUser"`
}

// GetLikeInfo returns the like count of a review and whether viewerID liked it.
func (s *LikeService) GetLikeInfo(viewerID, reviewID uuid.UUID) (*LikeInfo, error) {
	var info LikeInfo
	result := s.db.Table("reviews").
		Select(`(SELECT COUNT(*) FROM likes cl WHERE cl.review_id = reviews.id) AS likes,
			EXISTS (SELECT 1 FROM likes vl WHERE vl.review_id = reviews.id AND vl.user_id = ?) AS is_liked_by_user`, viewerID).
		Where("reviews.id = ?", reviewID).
		Limit(1).
		Find(&info)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query likes: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("review %w", ErrNotFound)
	}
	return &info, nil
}

// LikeReview records a like. The LIKE notification is created in the same
// transaction and only when the like row is new and the author is someone else.
func (s *LikeService) LikeReview(userID, reviewID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		_, err := like(tx, userID, reviewID)
		return err
	})
}

// UnlikeReview removes the like and the notification it produced.
func (s *LikeService) UnlikeReview(userID, reviewID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return unlike(tx, userID, reviewID)
	})
}

// ToggleLike flips the like state and reports the new one.
func (s *LikeService) ToggleLike(userID, reviewID uuid.UUID) (bool, error) {
	var liked bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Like{}).Where("user_id = ? AND review_id = ?", userID, reviewID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check like: %w", err)
		}
		if count > 0 {
			liked = false
			return unlike(tx, userID, reviewID)
		}
		liked = true
		_, err := like(tx, userID, reviewID)
		return err
	})
	return liked, err
}

func like(tx *gorm.DB, userID, reviewID uuid.UUID) (bool, error) {
	authorID, err := reviewAuthor(tx, reviewID)
	if err != nil {
		return false, err
	}

	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "review_id"}},
		DoNothing: true,
	}).Create(&model.Like{UserID: userID, ReviewID: reviewID})
	if result.Error != nil {
		if isDuplicate(result.Error) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create like: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	if err := createNotification(tx, model.NotificationLike, userID, authorID, &reviewID); err != nil {
		return false, err
	}
	return true, nil
}

func unlike(tx *gorm.DB, userID, reviewID uuid.UUID) error {
	authorID, err := reviewAuthor(tx, reviewID)
	if err != nil {
		return err
	}
	if err := tx.Where("user_id = ? AND review_id = ?", userID, reviewID).Delete(&model.Like{}).Error; err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return deleteNotifications(tx, model.NotificationLike, userID, authorID, &reviewID)
}
