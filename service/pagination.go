package service

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PageSize        = 10
	CommentPageSize = 5
)

// afterCursor restricts q to rows strictly after the cursor row in
// (created_at DESC, id DESC) order and applies that order. An unknown cursor
// makes the subqueries NULL, so the page comes back empty.
func afterCursor(table string, cursor *uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if cursor != nil {
			ref := fmt.Sprintf("(SELECT c.created_at FROM %s c WHERE c.id = ?)", table)
			q = q.Where(
				fmt.Sprintf("(%[1]s.created_at < %[2]s OR (%[1]s.created_at = %[2]s AND %[1]s.id < ?))", table, ref),
				*cursor, *cursor, *cursor,
			)
		}
		return q.Order(table + ".created_at DESC").Order(table + ".id DESC")
	}
}

// trimPage cuts a size+1 result down to size and reports the id of the last
// kept row when more rows exist.
func trimPage[T any](rows []T, size int, id func(T) uuid.UUID) ([]T, *string) {
	if len(rows) <= size {
		return rows, nil
	}
	rows = rows[:size]
	next := id(rows[size-1]).String()
	return rows, &next
}
