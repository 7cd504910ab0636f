package service

import (
	"fmt"
	"strings"

	"koya/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type UpdateProfileInput struct {
	Username    string
	DisplayName string
	Bio         *string // nil keeps the current bio
}

// GetUserByUsername looks the user up case-insensitively.
func (s *UserService) GetUserByUsername(viewerID uuid.UUID, username string) (*UserData, error) {
	return s.findOne(viewerID, "LOWER(users.username) = ?", strings.ToLower(username))
}

func (s *UserService) GetUser(viewerID, userID uuid.UUID) (*UserData, error) {
	return s.findOne(viewerID, "users.id = ?", userID)
}

func (s *UserService) findOne(viewerID uuid.UUID, query string, arg interface{}) (*UserData, error) {
	var rows []UserData
	err := s.db.Scopes(NewProjection(viewerID).UserData()).Where(query, arg).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	return &rows[0], nil
}

// UpdateProfile changes the caller's profile. A username held by anyone else,
// in any letter case, is rejected. A nil Bio leaves the bio as is and an
// empty one clears it.
func (s *UserService) UpdateProfile(userID uuid.UUID, input UpdateProfileInput) (*UserData, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Take(&user, "id = ?", userID).Error; err != nil {
			return notFound("user", err)
		}

		if !strings.EqualFold(user.Username, input.Username) {
			var count int64
			err := tx.Model(&model.User{}).
				Where("LOWER(username) = ? AND id <> ?", strings.ToLower(input.Username), userID).
				Count(&count).Error
			if err != nil {
				return fmt.Errorf("failed to check username: %w", err)
			}
			if count > 0 {
				return ErrUsernameTaken
			}
		}

		updates := map[string]interface{}{
			"username":     input.Username,
			"display_name": input.DisplayName,
		}
		if input.Bio != nil {
			if *input.Bio == "" {
				updates["bio"] = nil
			} else {
				updates["bio"] = *input.Bio
			}
		}

		err := tx.Model(&user).Updates(updates).Error
		if err != nil {
			if isDuplicate(err) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("failed to update profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetUser(userID, userID)
}
