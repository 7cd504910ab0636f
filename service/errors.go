package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrSelfFollow    = errors.New("cannot follow yourself")
	ErrUsernameTaken = errors.New("username is already taken")
	ErrInvalidInput  = errors.New("invalid input")
)

// notFound turns gorm.ErrRecordNotFound into ErrNotFound for the named resource.
func notFound(resource string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", resource, ErrNotFound)
	}
	return fmt.Errorf("failed to query %s: %w", resource, err)
}
