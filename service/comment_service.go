package service

import (
	"fmt"

	"koya/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// CommentsPage holds the newest comments before the cursor, oldest first.
// PreviousCursor points at even older comments.
type CommentsPage struct {
	Comments       []CommentData `json:"comments"`
	PreviousCursor *string       `json:"previousCursor"`
}

func (s *CommentService) GetComments(viewerID, reviewID uuid.UUID, cursor *uuid.UUID) (*CommentsPage, error) {
	if _, err := reviewAuthor(s.db, reviewID); err != nil {
		return nil, err
	}

	p := NewProjection(viewerID)
	q := s.db.Scopes(p.CommentData(), afterCursor("comments", cursor)).
		Where("comments.review_id = ?", reviewID).
		Limit(CommentPageSize + 1)
	rows, err := p.FindComments(s.db, q)
	if err != nil {
		return nil, err
	}

	rows, previous := trimPage(rows, CommentPageSize, func(c CommentData) uuid.UUID { return c.ID })
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	if rows == nil {
		rows = []CommentData{}
	}
	return &CommentsPage{Comments: rows, PreviousCursor: previous}, nil
}

// SubmitComment adds a comment and, unless the author comments on their own
// review, a COMMENT notification in the same transaction.
func (s *CommentService) SubmitComment(userID, reviewID uuid.UUID, content string) (*CommentData, error) {
	comment := &model.Comment{Content: content, UserID: userID, ReviewID: reviewID}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		authorID, err := reviewAuthor(tx, reviewID)
		if err != nil {
			return err
		}
		if err := tx.Create(comment).Error; err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return createNotification(tx, model.NotificationComment, userID, authorID, &reviewID)
	})
	if err != nil {
		return nil, err
	}

	p := NewProjection(userID)
	rows, err := p.FindComments(s.db, s.db.Scopes(p.CommentData()).Where("comments.id = ?", comment.ID))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("comment %w", ErrNotFound)
	}
	return &rows[0], nil
}

// DeleteComment removes a comment owned by userID; anyone else's comment is not found.
func (s *CommentService) DeleteComment(userID, commentID uuid.UUID) error {
	result := s.db.Where("id = ? AND user_id = ?", commentID, userID).Delete(&model.Comment{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("comment %w", ErrNotFound)
	}
	return nil
}
