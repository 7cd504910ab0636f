package service

import (
	"fmt"

	"koya/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

type NotificationsPage struct {
	Notifications []NotificationData `json:"notifications"`
	NextCursor    *string            `json:"nextCursor"`
}

// createNotification inserts a notification inside tx. Self-actions never notify.
func createNotification(tx *gorm.DB, notifType string, issuerID, recipientID uuid.UUID, reviewID *uuid.UUID) error {
	if issuerID == recipientID {
		return nil
	}
	notification := &model.Notification{
		Type:        notifType,
		IssuerID:    issuerID,
		RecipientID: recipientID,
		ReviewID:    reviewID,
	}
	if err := tx.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// deleteNotifications removes what createNotification produced for the same action.
func deleteNotifications(tx *gorm.DB, notifType string, issuerID, recipientID uuid.UUID, reviewID *uuid.UUID) error {
	q := tx.Where("type = ? AND issuer_id = ? AND recipient_id = ?", notifType, issuerID, recipientID)
	if reviewID != nil {
		q = q.Where("review_id = ?", *reviewID)
	}
	if err := q.Delete(&model.Notification{}).Error; err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

// GetNotifications returns one page of the user's notifications, newest first.
func (s *NotificationService) GetNotifications(userID uuid.UUID, cursor *uuid.UUID) (*NotificationsPage, error) {
	var rows []NotificationData
	err := s.db.Scopes(NewProjection(userID).NotificationData(), afterCursor("notifications", cursor)).
		Where("notifications.recipient_id = ?", userID).
		Limit(PageSize + 1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}

	rows, next := trimPage(rows, PageSize, func(n NotificationData) uuid.UUID { return n.ID })
	if rows == nil {
		rows = []NotificationData{}
	}
	return &NotificationsPage{Notifications: rows, NextCursor: next}, nil
}

// GetUnreadCount counts the user's unread notifications.
func (s *NotificationService) GetUnreadCount(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&model.Notification{}).
		Where("recipient_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

// MarkAllAsRead marks every unread notification of the user as read.
func (s *NotificationService) MarkAllAsRead(userID uuid.UUID) error {
	err := s.db.Model(&model.Notification{}).
		Where("recipient_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return nil
}
