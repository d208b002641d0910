package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/diewo77/go-recipes/internal/apperr"
)

// notFound turns gorm's ErrRecordNotFound into a NotFound error for resource.
func notFound(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(resource)
	}
	return err
}
