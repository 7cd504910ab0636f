package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"koya/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	deleted  [][]string
	err      error
	onDelete func(keys []string)
}

func (f *fakeStorage) DeleteFiles(ctx context.Context, keys []string) error {
	f.deleted = append(f.deleted, keys)
	if f.onDelete != nil {
		f.onDelete(keys)
	}
	return f.err
}

func TestCompleteAttachment_TypeFromMIME(t *testing.T) {
	db := newTestDB(t)
	svc := NewUploadService(db, &fakeStorage{}, "app123")

	img, err := svc.CompleteAttachment(UploadedFile{URL: "https://utfs.io/f/a.png", Type: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, model.MediaTypeImage, img.Type)
	assert.Nil(t, img.ReviewID)

	vid, err := svc.CompleteAttachment(UploadedFile{URL: "https://utfs.io/f/b.mp4", Type: "video/mp4"})
	require.NoError(t, err)
	assert.Equal(t, model.MediaTypeVideo, vid.Type)
}

func TestCompleteAvatar_ReplacesAndDeletesOldFile(t *testing.T) {
	db := newTestDB(t)
	files := &fakeStorage{}
	svc := NewUploadService(db, files, "app123")
	alice := seedUser(t, db, "alice")

	url, err := svc.CompleteAvatar(context.Background(), alice.ID, UploadedFile{URL: "https://utfs.io/f/first.png", Type: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "https://utfs.io/a/app123/first.png", url)
	assert.Empty(t, files.deleted)

	url, err = svc.CompleteAvatar(context.Background(), alice.ID, UploadedFile{URL: "https://utfs.io/f/second.png", Type: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "https://utfs.io/a/app123/second.png", url)
	assert.Equal(t, [][]string{{"first.png"}}, files.deleted)

	var user model.User
	require.NoError(t, db.Take(&user, "id = ?", alice.ID).Error)
	require.NotNil(t, user.AvatarURL)
	assert.Equal(t, url, *user.AvatarURL)
}

func TestCompleteAvatar_RemoteFailureStillUpdates(t *testing.T) {
	db := newTestDB(t)
	files := &fakeStorage{err: errors.New("boom")}
	svc := NewUploadService(db, files, "app123")
	alice := seedUser(t, db, "alice")
	require.NoError(t, db.Model(alice).Update("avatar_url", "https://utfs.io/a/app123/old.png").Error)

	url, err := svc.CompleteAvatar(context.Background(), alice.ID, UploadedFile{URL: "https://utfs.io/f/new.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://utfs.io/a/app123/new.png", url)

	_, err = svc.CompleteAvatar(context.Background(), uuid.New(), UploadedFile{URL: "https://utfs.io/f/x.png"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteAvatar_UpdatesBeforeDeletingOldFile(t *testing.T) {
	db := newTestDB(t)
	files := &fakeStorage{}
	svc := NewUploadService(db, files, "app123")
	alice := seedUser(t, db, "alice")
	require.NoError(t, db.Model(alice).Update("avatar_url", "https://utfs.io/a/app123/old.png").Error)

	var storedDuringDelete string
	files.onDelete = func(keys []string) {
		var user model.User
		require.NoError(t, db.Take(&user, "id = ?", alice.ID).Error)
		require.NotNil(t, user.AvatarURL)
		storedDuringDelete = *user.AvatarURL
	}

	url, err := svc.CompleteAvatar(context.Background(), alice.ID, UploadedFile{URL: "https://utfs.io/f/new.png", Type: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"old.png"}}, files.deleted)
	assert.Equal(t, url, storedDuringDelete)
}

func seedMedia(t *testing.T, svc *UploadService, url string, reviewID *uuid.UUID, at time.Time) *model.Media {
	t.Helper()
	m := &model.Media{URL: url, Type: model.MediaTypeImage, ReviewID: reviewID, CreatedAt: at}
	require.NoError(t, svc.db.Create(m).Error)
	return m
}

func TestClearOrphanedMedia(t *testing.T) {
	db := newTestDB(t)
	files := &fakeStorage{}
	svc := NewUploadService(db, files, "app123")
	alice := seedUser(t, db, "alice")
	review := seedReview(t, db, alice.ID, nil, baseTime)

	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	old := seedMedia(t, svc, "https://utfs.io/a/app123/old.png", nil, now.Add(-48*time.Hour))
	fresh := seedMedia(t, svc, "https://utfs.io/a/app123/fresh.png", nil, now.Add(-time.Hour))
	attached := seedMedia(t, svc, "https://utfs.io/a/app123/used.png", &review.ID, now.Add(-72*time.Hour))

	deleted, err := svc.ClearOrphanedMedia(context.Background(), now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, [][]string{{"old.png"}}, files.deleted)
	assert.Equal(t, int64(0), count(t, db, &model.Media{}, "id = ?", old.ID))
	assert.Equal(t, int64(1), count(t, db, &model.Media{}, "id = ?", fresh.ID))
	assert.Equal(t, int64(1), count(t, db, &model.Media{}, "id = ?", attached.ID))

	// no cutoff clears every orphan
	deleted, err = svc.ClearOrphanedMedia(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, int64(1), count(t, db, &model.Media{}, "1 = 1"))

	deleted, err = svc.ClearOrphanedMedia(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
	assert.Len(t, files.deleted, 2)
}

func TestClearOrphanedMedia_RemoteFailureKeepsRows(t *testing.T) {
	db := newTestDB(t)
	files := &fakeStorage{err: errors.New("unavailable")}
	svc := NewUploadService(db, files, "app123")
	seedMedia(t, svc, "https://utfs.io/a/app123/old.png", nil, baseTime)

	_, err := svc.ClearOrphanedMedia(context.Background(), time.Time{})
	require.Error(t, err)
	assert.Equal(t, int64(1), count(t, db, &model.Media{}, "1 = 1"))
}

func TestClearOrphanedMedia_ClaimDuringRemoteDeleteKeepsStateConsistent(t *testing.T) {
	db := newTestDB(t)
	files := &fakeStorage{}
	svc := NewUploadService(db, files, "app123")
	alice := seedUser(t, db, "alice")
	review := seedReview(t, db, alice.ID, nil, baseTime)
	orphan := seedMedia(t, svc, "https://utfs.io/a/app123/late.png", nil, baseTime)

	// a review tries to claim the media while the file host call is in flight
	claimed := make(chan int64, 1)
	files.onDelete = func(keys []string) {
		go func() {
			claimed <- db.Model(&model.Media{}).
				Where("id = ? AND review_id IS NULL", orphan.ID).
				Update("review_id", review.ID).RowsAffected
		}()
		select {
		case n := <-claimed:
			claimed <- n
		case <-time.After(200 * time.Millisecond):
		}
	}

	deleted, err := svc.ClearOrphanedMedia(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, [][]string{{"late.png"}}, files.deleted)

	// the claim waits for the sweep to commit and then finds no orphan
	select {
	case n := <-claimed:
		assert.Equal(t, int64(0), n)
	case <-time.After(5 * time.Second):
		t.Fatal("claim did not finish")
	}
	assert.Equal(t, int64(0), count(t, db, &model.Media{}, "1 = 1"))
}

func TestClearOrphanedMedia_SkipsRowsClaimedBeforeDelete(t *testing.T) {
	db := newTestDB(t)
	files := &fakeStorage{}
	svc := NewUploadService(db, files, "app123")
	alice := seedUser(t, db, "alice")
	review := seedReview(t, db, alice.ID, nil, baseTime)
	kept := seedMedia(t, svc, "https://utfs.io/a/app123/kept.png", nil, baseTime)
	gone := seedMedia(t, svc, "https://utfs.io/a/app123/gone.png", nil, baseTime)
	require.NoError(t, db.Model(kept).Update("review_id", review.ID).Error)

	deleted, err := svc.ClearOrphanedMedia(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, [][]string{{"gone.png"}}, files.deleted)
	assert.Equal(t, int64(1), count(t, db, &model.Media{}, "id = ? AND review_id = ?", kept.ID, review.ID))
	assert.Equal(t, int64(0), count(t, db, &model.Media{}, "id = ?", gone.ID))
}
