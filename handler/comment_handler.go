package handler

import (
	"strings"

	"koya/service"
	"koya/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentSvc *service.CommentService
}

func NewCommentHandler(commentSvc *service.CommentService) *CommentHandler {
	return &CommentHandler{commentSvc: commentSvc}
}

type submitCommentRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// GetComments GET /posts/:id/comments?cursor=
func (h *CommentHandler) GetComments(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	cursor, ok := cursorParam(c)
	if !ok {
		return
	}

	page, err := h.commentSvc.GetComments(userID, reviewID, cursor)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, page)
}

// SubmitComment POST /posts/:id/comments
func (h *CommentHandler) SubmitComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req submitCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		utils.BadRequest(c, "content is required")
		return
	}

	comment, err := h.commentSvc.SubmitComment(userID, reviewID, content)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, comment)
}

// DeleteComment DELETE /comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.commentSvc.DeleteComment(userID, commentID); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "comment deleted", nil)
}
