package service

import (
	"fmt"

	"koya/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookmarkService manages review bookmarks.
type BookmarkService struct {
	db *gorm.DB
}

func NewBookmarkService(db *gorm.DB) *BookmarkService {
	return &BookmarkService{db: db}
}

type BookmarkInfo struct {
	IsBookmarkedByUser bool `json:"isBookmarkedByUser"`
}

func (s *BookmarkService) GetBookmarkInfo(viewerID, reviewID uuid.UUID) (*BookmarkInfo, error) {
	if _, err := reviewAuthor(s.db, reviewID); err != nil {
		return nil, err
	}
	var count int64
	if err := s.db.Model(&model.Bookmark{}).Where("user_id = ? AND review_id = ?", viewerID, reviewID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to query bookmark: %w", err)
	}
	return &BookmarkInfo{IsBookmarkedByUser: count > 0}, nil
}

// Bookmark is idempotent: an existing bookmark is left as is.
func (s *BookmarkService) Bookmark(userID, reviewID uuid.UUID) error {
	if _, err := reviewAuthor(s.db, reviewID); err != nil {
		return err
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "review_id"}},
		DoNothing: true,
	}).Create(&model.Bookmark{UserID: userID, ReviewID: reviewID}).Error
	if err != nil && !isDuplicate(err) {
		return fmt.Errorf("failed to create bookmark: %w", err)
	}
	return nil
}

func (s *BookmarkService) RemoveBookmark(userID, reviewID uuid.UUID) error {
	if _, err := reviewAuthor(s.db, reviewID); err != nil {
		return err
	}
	if err := s.db.Where("user_id = ? AND review_id = ?", userID, reviewID).Delete(&model.Bookmark{}).Error; err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return nil
}
