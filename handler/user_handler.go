package handler

import (
	"strings"

	"koya/service"
	"koya/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler serves profiles and the follow graph.
type UserHandler struct {
	userSvc   *service.UserService
	followSvc *service.FollowService
}

func NewUserHandler(userSvc *service.UserService, followSvc *service.FollowService) *UserHandler {
	return &UserHandler{userSvc: userSvc, followSvc: followSvc}
}

type updateProfileRequest struct {
	Username    string  `json:"username" binding:"required,min=1,max=50,username"`
	DisplayName string  `json:"displayName" binding:"required,max=50"`
	Bio         *string `json:"bio" binding:"omitempty,max=1000"`
}

// GetUserByUsername GET /users/username/:username
func (h *UserHandler) GetUserByUsername(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.userSvc.GetUserByUsername(userID, c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, user)
}

// UpdateProfile PATCH /users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		utils.BadRequest(c, "displayName is required")
		return
	}
	bio := req.Bio
	if bio != nil {
		trimmed := strings.TrimSpace(*bio)
		bio = &trimmed
	}

	user, err := h.userSvc.UpdateProfile(userID, service.UpdateProfileInput{
		Username:    req.Username,
		DisplayName: displayName,
		Bio:         bio,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, user)
}

// GetFollowerInfo GET /users/:id/followers
func (h *UserHandler) GetFollowerInfo(c *gin.Context) {
	viewerID, ok := currentUser(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	info, err := h.followSvc.GetFollowerInfo(viewerID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, info)
}

// Follow POST /users/:id/followers
func (h *UserHandler) Follow(c *gin.Context) {
	h.mutateFollow(c, h.followSvc.FollowUser)
}

// Unfollow DELETE /users/:id/followers
func (h *UserHandler) Unfollow(c *gin.Context) {
	h.mutateFollow(c, h.followSvc.UnfollowUser)
}

func (h *UserHandler) mutateFollow(c *gin.Context, mutate func(followerID, followingID uuid.UUID) error) {
	viewerID, ok := currentUser(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := mutate(viewerID, userID); err != nil {
		respondError(c, err)
		return
	}
	info, err := h.followSvc.GetFollowerInfo(viewerID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, info)
}

// GetFollowers GET /users/:id/followers/list
func (h *UserHandler) GetFollowers(c *gin.Context) {
	h.listFollows(c, h.followSvc.GetFollowers)
}

// GetFollowing GET /users/:id/following/list
func (h *UserHandler) GetFollowing(c *gin.Context) {
	h.listFollows(c, h.followSvc.GetFollowing)
}

func (h *UserHandler) listFollows(c *gin.Context, list func(viewerID, userID uuid.UUID) ([]service.UserData, error)) {
	viewerID, ok := currentUser(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	users, err := list(viewerID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"users": users})
}
