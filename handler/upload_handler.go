package handler

import (
	"crypto/subtle"
	"strings"
	"time"

	"koya/logger"
	"koya/service"
	"koya/utils"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	uploadSvc  *service.UploadService
	cronSecret string
	retention  time.Duration
	production bool
}

// NewUploadHandler builds the upload hooks and the cleanup endpoint. The
// retention window only applies in production; elsewhere every orphan is swept.
func NewUploadHandler(uploadSvc *service.UploadService, cronSecret string, retention time.Duration, production bool) *UploadHandler {
	return &UploadHandler{
		uploadSvc:  uploadSvc,
		cronSecret: cronSecret,
		retention:  retention,
		production: production,
	}
}

type uploadCompleteRequest struct {
	URL  string `json:"url" binding:"required,url"`
	Type string `json:"type" binding:"required"`
}

func bindUpload(c *gin.Context) (service.UploadedFile, bool) {
	var req uploadCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body: "+err.Error())
		return service.UploadedFile{}, false
	}
	return service.UploadedFile{URL: req.URL, Type: req.Type}, true
}

// CompleteAttachment POST /uploads/attachment
func (h *UploadHandler) CompleteAttachment(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	file, ok := bindUpload(c)
	if !ok {
		return
	}

	media, err := h.uploadSvc.CompleteAttachment(file)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"mediaId": media.ID})
}

// CompleteAvatar POST /uploads/avatar
func (h *UploadHandler) CompleteAvatar(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	file, ok := bindUpload(c)
	if !ok {
		return
	}

	avatarURL, err := h.uploadSvc.CompleteAvatar(c.Request.Context(), userID, file)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"avatarUrl": avatarURL})
}

// ClearUploads GET /api/cron/clear-uploads
func (h *UploadHandler) ClearUploads(c *gin.Context) {
	token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !found || h.cronSecret == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(h.cronSecret)) != 1 {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var cutoff time.Time
	if h.production {
		cutoff = time.Now().UTC().Add(-h.retention)
	}

	deleted, err := h.uploadSvc.ClearOrphanedMedia(c.Request.Context(), cutoff)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info(c.Request.Context()).Int("deleted", deleted).Time("cutoff", cutoff).Msg("cleared orphaned uploads")
	utils.SuccessResponse(c, gin.H{"deleted": deleted})
}
