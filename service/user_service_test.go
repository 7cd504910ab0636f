package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserByUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	alice := seedUser(t, db, "Alice")
	seedReview(t, db, alice.ID, nil, baseTime)

	user, err := svc.GetUserByUsername(alice.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
	assert.Equal(t, int64(1), user.ReviewCount)

	_, err = svc.GetUserByUsername(alice.ID, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	alice := seedUser(t, db, "alice")
	seedUser(t, db, "bob")

	bio := "I eat everything"
	user, err := svc.UpdateProfile(alice.ID, UpdateProfileInput{Username: "alice_eats", DisplayName: "Alice E", Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "alice_eats", user.Username)
	assert.Equal(t, "Alice E", user.DisplayName)
	require.NotNil(t, user.Bio)
	assert.Equal(t, bio, *user.Bio)

	// changing only the letter case of one's own name is allowed
	user, err = svc.UpdateProfile(alice.ID, UpdateProfileInput{Username: "Alice_Eats", DisplayName: "Alice"})
	require.NoError(t, err)
	require.NotNil(t, user.Bio, "omitted bio is kept")
	assert.Equal(t, bio, *user.Bio)

	empty := ""
	user, err = svc.UpdateProfile(alice.ID, UpdateProfileInput{Username: "Alice_Eats", DisplayName: "Alice", Bio: &empty})
	require.NoError(t, err)
	assert.Nil(t, user.Bio)

	_, err = svc.UpdateProfile(alice.ID, UpdateProfileInput{Username: "BOB", DisplayName: "Alice"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}
