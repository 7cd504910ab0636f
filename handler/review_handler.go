package handler

import (
	"strings"

	"koya/service"
	"koya/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	reviewSvc   *service.ReviewService
	likeSvc     *service.LikeService
	bookmarkSvc *service.BookmarkService
}

func NewReviewHandler(reviewSvc *service.ReviewService, likeSvc *service.LikeService, bookmarkSvc *service.BookmarkService) *ReviewHandler {
	return &ReviewHandler{
		reviewSvc:   reviewSvc,
		likeSvc:     likeSvc,
		bookmarkSvc: bookmarkSvc,
	}
}

type createReviewRequest struct {
	Content      string      `json:"content" binding:"required,max=1000"`
	MediaIDs     []uuid.UUID `json:"mediaIds" binding:"max=5"`
	RestaurantID *uuid.UUID  `json:"restaurantId"`
	Rating       *float64    `json:"rating" binding:"omitempty,min=1,max=5"`
}

// CreateReview POST /posts
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		utils.BadRequest(c, "content is required")
		return
	}

	review, err := h.reviewSvc.CreateReview(userID, service.CreateReviewInput{
		Content:      req.Content,
		MediaIDs:     req.MediaIDs,
		RestaurantID: req.RestaurantID,
		Rating:       req.Rating,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, review)
}

// GetReview GET /posts/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewSvc.GetReview(userID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, review)
}

// DeleteReview DELETE /posts/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewSvc.DeleteReview(userID, reviewID); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "review deleted", nil)
}

// GetFollowingFeed GET /posts/following?cursor=
func (h *ReviewHandler) GetFollowingFeed(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cursor, ok := cursorParam(c)
	if !ok {
		return
	}

	page, err := h.reviewSvc.GetFollowingFeed(userID, cursor)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, page)
}

// GetBookmarkedReviews GET /posts/bookmarked?cursor=
func (h *ReviewHandler) GetBookmarkedReviews(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cursor, ok := cursorParam(c)
	if !ok {
		return
	}

	page, err := h.reviewSvc.GetBookmarkedReviews(userID, cursor)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, page)
}

// GetUserReviews GET /users/:id/posts?cursor=
func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	viewerID, ok := currentUser(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	cursor, ok := cursorParam(c)
	if !ok {
		return
	}

	page, err := h.reviewSvc.GetUserReviews(viewerID, userID, cursor)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, page)
}

// GetLikes GET /posts/:id/likes
func (h *ReviewHandler) GetLikes(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	info, err := h.likeSvc.GetLikeInfo(userID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, info)
}

// Like POST /posts/:id/likes
func (h *ReviewHandler) Like(c *gin.Context) {
	h.mutateLike(c, h.likeSvc.LikeReview)
}

// Unlike DELETE /posts/:id/likes
func (h *ReviewHandler) Unlike(c *gin.Context) {
	h.mutateLike(c, h.likeSvc.UnlikeReview)
}

func (h *ReviewHandler) mutateLike(c *gin.Context, mutate func(userID, reviewID uuid.UUID) error) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := mutate(userID, reviewID); err != nil {
		respondError(c, err)
		return
	}
	info, err := h.likeSvc.GetLikeInfo(userID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, info)
}

// ToggleLike POST /posts/:id/likes/toggle
func (h *ReviewHandler) ToggleLike(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	liked, err := h.likeSvc.ToggleLike(userID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"liked": liked})
}

// GetBookmark GET /posts/:id/bookmark
func (h *ReviewHandler) GetBookmark(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	info, err := h.bookmarkSvc.GetBookmarkInfo(userID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, info)
}

// Bookmark POST /posts/:id/bookmark
func (h *ReviewHandler) Bookmark(c *gin.Context) {
	h.mutateBookmark(c, h.bookmarkSvc.Bookmark, true)
}

// RemoveBookmark DELETE /posts/:id/bookmark
func (h *ReviewHandler) RemoveBookmark(c *gin.Context) {
	h.mutateBookmark(c, h.bookmarkSvc.RemoveBookmark, false)
}

func (h *ReviewHandler) mutateBookmark(c *gin.Context, mutate func(userID, reviewID uuid.UUID) error, state bool) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := mutate(userID, reviewID); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, service.BookmarkInfo{IsBookmarkedByUser: state})
}
