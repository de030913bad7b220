package repository

import (
	"errors"

	"github.com/amirasaad/ledger/pkg/domain"
	"gorm.io/gorm"
)

const (
	errAccountNameTaken  = "you already have an account with this name"
	errCategoryNameTaken = "you already have a category with this name"
)

// MapGormErrorToDomain converts GORM errors to domain errors.
// It walks the error chain, so wrapped GORM errors are recognised too.
// Errors with no mapping are returned unchanged.
func MapGormErrorToDomain(err error) error {
	if err == nil {
		return nil
	}
	currentErr := err
	for currentErr != nil {
		switch {
		case errors.Is(currentErr, gorm.ErrDuplicatedKey):
			return domain.ErrAlreadyExists
		case errors.Is(currentErr, gorm.ErrRecordNotFound):
			return domain.ErrNotFound
		case errors.Is(currentErr, gorm.ErrForeignKeyViolated):
			return domain.ErrConflict
		}
		currentErr = errors.Unwrap(currentErr)
	}
	return err
}

// WrapError runs a GORM operation and maps its error.
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(&m).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}

// wrapFor is WrapError with the missing row attributed to resource.
func wrapFor(resource string, op func() error) error {
	err := WrapError(op)
	if errors.Is(err, domain.ErrNotFound) {
		var de *domain.Error
		if !errors.As(err, &de) {
			return domain.NewNotFoundError(resource)
		}
	}
	return err
}

// conflictFor maps a failed write and attributes a unique index or foreign
// key violation to field of resource.
func conflictFor(resource, field, message string, err error) error {
	err = MapGormErrorToDomain(err)
	if !errors.Is(err, domain.ErrAlreadyExists) && !errors.Is(err, domain.ErrConflict) {
		return err
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.NewConflictError(resource, field, message)
}
