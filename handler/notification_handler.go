package handler

import (
	"koya/service"
	"koya/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifSvc *service.NotificationService
}

func NewNotificationHandler(notifSvc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifSvc: notifSvc}
}

// GetNotifications GET /notifications?cursor=
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cursor, ok := cursorParam(c)
	if !ok {
		return
	}

	page, err := h.notifSvc.GetNotifications(userID, cursor)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, page)
}

// GetUnreadCount GET /notifications/unread-count
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	count, err := h.notifSvc.GetUnreadCount(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"unreadCount": count})
}

// MarkAllAsRead PATCH /notifications/mark-as-read
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.notifSvc.MarkAllAsRead(userID); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "all notifications marked as read", nil)
}
