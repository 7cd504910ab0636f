package service

import (
	"fmt"

	"koya/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

type FollowerInfo struct {
	Followers        int64 `json:"followers"`
	IsFollowedByUser bool  `json:"isFollowedByUser"`
}

// GetFollowerInfo returns the follower count of userID and whether viewerID follows them.
func (s *FollowService) GetFollowerInfo(viewerID, userID uuid.UUID) (*FollowerInfo, error) {
	var info FollowerInfo
	result := s.db.Table("users").
		Select(`(SELECT COUNT(*) FROM follows cf WHERE cf.following_id = users.id) AS followers,
			EXISTS (SELECT 1 FROM follows vf WHERE vf.following_id = users.id AND vf.follower_id = ?) AS is_followed_by_user`, viewerID).
		Where("users.id = ?", userID).
		Limit(1).
		Find(&info)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query followers: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	return &info, nil
}

// FollowUser makes followerID follow followingID. Following twice is a no-op
// and only the first follow notifies.
func (s *FollowService) FollowUser(followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return ErrSelfFollow
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Take(&model.User{}, "id = ?", followingID).Error; err != nil {
			return notFound("user", err)
		}

		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
			DoNothing: true,
		}).Create(&model.Follow{FollowerID: followerID, FollowingID: followingID})
		if result.Error != nil {
			if isDuplicate(result.Error) {
				return nil
			}
			return fmt.Errorf("failed to follow user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}

		return createNotification(tx, model.NotificationFollow, followerID, followingID, nil)
	})
}

// UnfollowUser removes the follow edge and its notification.
func (s *FollowService) UnfollowUser(followerID, followingID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Take(&model.User{}, "id = ?", followingID).Error; err != nil {
			return notFound("user", err)
		}
		if err := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&model.Follow{}).Error; err != nil {
			return fmt.Errorf("failed to unfollow user: %w", err)
		}
		return deleteNotifications(tx, model.NotificationFollow, followerID, followingID, nil)
	})
}

// GetFollowers lists the users following userID, most recent first.
func (s *FollowService) GetFollowers(viewerID, userID uuid.UUID) ([]UserData, error) {
	return s.listUsers(viewerID, userID,
		"JOIN follows fl ON fl.follower_id = users.id AND fl.following_id = ?")
}

// GetFollowing lists the users userID follows, most recent first.
func (s *FollowService) GetFollowing(viewerID, userID uuid.UUID) ([]UserData, error) {
	return s.listUsers(viewerID, userID,
		"JOIN follows fl ON fl.following_id = users.id AND fl.follower_id = ?")
}

func (s *FollowService) listUsers(viewerID, userID uuid.UUID, join string) ([]UserData, error) {
	if err := s.db.Select("id").Take(&model.User{}, "id = ?", userID).Error; err != nil {
		return nil, notFound("user", err)
	}

	users := []UserData{}
	err := s.db.Scopes(NewProjection(viewerID).UserData()).
		Joins(join, userID).
		Order("fl.created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	return users, nil
}
