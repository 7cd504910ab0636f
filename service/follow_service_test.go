package service

import (
	"testing"
	"time"

	"koya/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowUser_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	require.NoError(t, svc.FollowUser(alice.ID, bob.ID))
	require.NoError(t, svc.FollowUser(alice.ID, bob.ID))

	assert.Equal(t, int64(1), count(t, db, &model.Follow{}, "follower_id = ? AND following_id = ?", alice.ID, bob.ID))
	assert.Equal(t, int64(1), count(t, db, &model.Notification{}, "type = ? AND recipient_id = ?", model.NotificationFollow, bob.ID))

	info, err := svc.GetFollowerInfo(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, &FollowerInfo{Followers: 1, IsFollowedByUser: true}, info)

	info, err = svc.GetFollowerInfo(bob.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, info.IsFollowedByUser)
}

func TestFollowUser_SelfRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	alice := seedUser(t, db, "alice")

	assert.ErrorIs(t, svc.FollowUser(alice.ID, alice.ID), ErrSelfFollow)
	assert.Equal(t, int64(0), count(t, db, &model.Follow{}, "1 = 1"))
}

func TestFollowUser_MissingTarget(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	alice := seedUser(t, db, "alice")

	assert.ErrorIs(t, svc.FollowUser(alice.ID, uuid.New()), ErrNotFound)
	_, err := svc.GetFollowerInfo(alice.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnfollowUser_RemovesNotification(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	require.NoError(t, svc.FollowUser(alice.ID, bob.ID))
	require.NoError(t, svc.UnfollowUser(alice.ID, bob.ID))

	assert.Equal(t, int64(0), count(t, db, &model.Follow{}, "1 = 1"))
	assert.Equal(t, int64(0), count(t, db, &model.Notification{}, "1 = 1"))
}

func TestFollowerAndFollowingLists(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	require.NoError(t, db.Create(&model.Follow{FollowerID: bob.ID, FollowingID: alice.ID, CreatedAt: baseTime}).Error)
	require.NoError(t, db.Create(&model.Follow{FollowerID: carol.ID, FollowingID: alice.ID, CreatedAt: baseTime.Add(time.Minute)}).Error)
	require.NoError(t, db.Create(&model.Follow{FollowerID: alice.ID, FollowingID: carol.ID, CreatedAt: baseTime}).Error)

	followers, err := svc.GetFollowers(alice.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, "carol", followers[0].Username)
	assert.True(t, followers[0].IsFollowedByUser)
	assert.Equal(t, "bob", followers[1].Username)
	assert.False(t, followers[1].IsFollowedByUser)

	following, err := svc.GetFollowing(bob.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, carol.ID, following[0].ID)
	assert.Equal(t, int64(1), following[0].FollowerCount)
	assert.Equal(t, int64(1), following[0].FollowingCount)

	empty, err := svc.GetFollowers(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = svc.GetFollowing(alice.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
