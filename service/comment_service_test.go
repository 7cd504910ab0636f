package service

import (
	"testing"
	"time"

	"koya/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitComment_Notifications(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	review := seedReview(t, db, alice.ID, nil, baseTime)

	comment, err := svc.SubmitComment(bob.ID, review.ID, "looks good")
	require.NoError(t, err)
	assert.Equal(t, "looks good", comment.Content)
	require.NotNil(t, comment.User)
	assert.Equal(t, "bob", comment.User.Username)
	assert.Equal(t, int64(1), count(t, db, &model.Notification{}, "type = ? AND recipient_id = ?", model.NotificationComment, alice.ID))

	_, err = svc.SubmitComment(alice.ID, review.ID, "thanks")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count(t, db, &model.Notification{}, "1 = 1"))

	_, err = svc.SubmitComment(bob.ID, uuid.New(), "lost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetComments_PagesBackwards(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	alice := seedUser(t, db, "alice")
	review := seedReview(t, db, alice.ID, nil, baseTime)

	var ids []uuid.UUID
	for i := 0; i < 12; i++ {
		c := &model.Comment{Content: "c", UserID: alice.ID, ReviewID: review.ID, CreatedAt: baseTime.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, db.Create(c).Error)
		ids = append(ids, c.ID)
	}

	page, err := svc.GetComments(alice.ID, review.ID, nil)
	require.NoError(t, err)
	require.Len(t, page.Comments, CommentPageSize)
	// newest five, oldest first
	assert.Equal(t, ids[7], page.Comments[0].ID)
	assert.Equal(t, ids[11], page.Comments[4].ID)
	require.NotNil(t, page.PreviousCursor)
	assert.Equal(t, ids[7].String(), *page.PreviousCursor)

	cursor := uuid.MustParse(*page.PreviousCursor)
	page, err = svc.GetComments(alice.ID, review.ID, &cursor)
	require.NoError(t, err)
	require.Len(t, page.Comments, CommentPageSize)
	assert.Equal(t, ids[2], page.Comments[0].ID)

	cursor = uuid.MustParse(*page.PreviousCursor)
	page, err = svc.GetComments(alice.ID, review.ID, &cursor)
	require.NoError(t, err)
	require.Len(t, page.Comments, 2)
	assert.Equal(t, ids[0], page.Comments[0].ID)
	assert.Nil(t, page.PreviousCursor)
}

func TestDeleteComment_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommentService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	review := seedReview(t, db, alice.ID, nil, baseTime)

	comment, err := svc.SubmitComment(bob.ID, review.ID, "hello")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteComment(alice.ID, comment.ID), ErrNotFound)
	require.NoError(t, svc.DeleteComment(bob.ID, comment.ID))
	assert.Equal(t, int64(0), count(t, db, &model.Comment{}, "1 = 1"))
}
