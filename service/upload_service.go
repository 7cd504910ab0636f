package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"koya/logger"
	"koya/model"
	"koya/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FileStorage deletes files held by the external file host.
type FileStorage interface {
	DeleteFiles(ctx context.Context, keys []string) error
}

type UploadService struct {
	db    *gorm.DB
	files FileStorage
	appID string
}

func NewUploadService(db *gorm.DB, files FileStorage, appID string) *UploadService {
	return &UploadService{db: db, files: files, appID: appID}
}

// UploadedFile is the metadata the file host reports once an upload finishes.
type UploadedFile struct {
	URL  string
	Type string // MIME type
}

// CompleteAttachment records an uploaded review attachment. The media row
// stays unattached until a review claims it.
func (s *UploadService) CompleteAttachment(file UploadedFile) (*model.Media, error) {
	mediaType := model.MediaTypeVideo
	if strings.HasPrefix(file.Type, "image") {
		mediaType = model.MediaTypeImage
	}

	media := &model.Media{URL: file.URL, Type: mediaType}
	if err := s.db.Create(media).Error; err != nil {
		return nil, fmt.Errorf("failed to create media: %w", err)
	}
	return media, nil
}

// CompleteAvatar stores the new avatar URL for userID, then deletes the
// previous avatar file. A failed remote delete is logged and does not undo
// the update.
func (s *UploadService) CompleteAvatar(ctx context.Context, userID uuid.UUID, file UploadedFile) (string, error) {
	var user model.User
	if err := s.db.Take(&user, "id = ?", userID).Error; err != nil {
		return "", notFound("user", err)
	}
	var previous string
	if user.AvatarURL != nil {
		previous = *user.AvatarURL
	}

	avatarURL := storage.AppURL(file.URL, s.appID)
	if err := s.db.Model(&user).Update("avatar_url", avatarURL).Error; err != nil {
		return "", fmt.Errorf("failed to update avatar: %w", err)
	}

	if previous != "" && previous != avatarURL {
		if key := storage.FileKey(previous, s.appID); key != "" {
			if err := s.files.DeleteFiles(ctx, []string{key}); err != nil {
				logger.Warn(ctx).Err(err).Str("user_id", userID.String()).Str("key", key).Msg("failed to delete old avatar")
			}
		}
	}
	return avatarURL, nil
}

// ClearOrphanedMedia deletes unattached media rows and their files. With a
// non-zero olderThan only rows created at or before it are considered.
// The rows are removed by a single statement guarded on review_id IS NULL,
// and only files of rows it actually removed are deleted remotely. A failed
// remote delete rolls the rows back so the next run retries them.
func (s *UploadService) ClearOrphanedMedia(ctx context.Context, olderThan time.Time) (int, error) {
	var removed []model.Media
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}, {Name: "url"}}}).
			Where("review_id IS NULL")
		if !olderThan.IsZero() {
			q = q.Where("created_at <= ?", olderThan)
		}
		if err := q.Delete(&removed).Error; err != nil {
			return fmt.Errorf("failed to delete orphaned media: %w", err)
		}
		if len(removed) == 0 {
			return nil
		}

		keys := make([]string, 0, len(removed))
		for _, m := range removed {
			keys = append(keys, storage.FileKey(m.URL, s.appID))
		}
		if err := s.files.DeleteFiles(ctx, keys); err != nil {
			return fmt.Errorf("failed to delete orphaned files: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(removed), nil
}
