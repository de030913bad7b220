package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMapGormErrorToDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{"nil stays nil", nil, nil},
		{"user email unique index", gorm.ErrDuplicatedKey, domain.ErrAlreadyExists},
		{"missing row", gorm.ErrRecordNotFound, domain.ErrNotFound},
		{"restricted delete", gorm.ErrForeignKeyViolated, domain.ErrConflict},
		{"violation wrapped by a caller", fmt.Errorf("insert transaction: %w", gorm.ErrForeignKeyViolated), domain.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := MapGormErrorToDomain(tt.input)
			if tt.expected == nil {
				require.NoError(t, result)
				return
			}
			assert.ErrorIs(t, result, tt.expected)
		})
	}
}

func TestMapGormErrorToDomain_KeepsDriverErrors(t *testing.T) {
	t.Parallel()
	driverErr := errors.New("pq: canceling statement due to statement timeout")

	assert.Equal(t, driverErr, MapGormErrorToDomain(driverErr))
	assert.Equal(t, driverErr, WrapError(func() error { return driverErr }))
}

func TestConflictFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		resource string
		field    string
		message  string
		input    error
		fields   map[string]string
	}{
		{
			name:     "duplicate account name",
			resource: domain.ResourceAccount,
			field:    "name",
			message:  errAccountNameTaken,
			input:    gorm.ErrDuplicatedKey,
			fields:   map[string]string{"name": errAccountNameTaken},
		},
		{
			name:     "duplicate category name",
			resource: domain.ResourceCategory,
			field:    "name",
			message:  errCategoryNameTaken,
			input:    gorm.ErrDuplicatedKey,
			fields:   map[string]string{"name": errCategoryNameTaken},
		},
		{
			name:     "category removed before posting",
			resource: domain.ResourceTransaction,
			field:    "categoryId",
			message:  "category no longer exists",
			input:    gorm.ErrForeignKeyViolated,
			fields:   map[string]string{"categoryId": "category no longer exists"},
		},
		{
			name:     "account still referenced by transactions",
			resource: domain.ResourceAccount,
			field:    "account",
			message:  "cannot delete account with existing transactions",
			input:    gorm.ErrForeignKeyViolated,
			fields:   map[string]string{"account": "cannot delete account with existing transactions"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := conflictFor(tt.resource, tt.field, tt.message, tt.input)

			require.ErrorIs(t, err, domain.ErrConflict)
			assert.Equal(t, tt.fields, domain.FieldErrors(err))
			var de *domain.Error
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.resource, de.Resource)
		})
	}
}

func TestConflictFor_PassesOtherErrorsThrough(t *testing.T) {
	t.Parallel()

	require.NoError(t, conflictFor(domain.ResourceAccount, "name", errAccountNameTaken, nil))

	err := conflictFor(domain.ResourceAccount, "name", errAccountNameTaken, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrConflict)

	classified := domain.NewConflictError(domain.ResourceCategory, "name", "you already have a EXPENSE category named 'Food'")
	assert.Same(t, classified, conflictFor(domain.ResourceCategory, "name", errCategoryNameTaken, classified))
}

func TestWrapFor_AttributesMissingRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		resource string
		field    string
	}{
		{domain.ResourceAccount, "account"},
		{domain.ResourceCategory, "category"},
		{domain.ResourceTransaction, "transaction"},
		{domain.ResourceUser, "user"},
	}
	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			t.Parallel()
			err := wrapFor(tt.resource, func() error { return gorm.ErrRecordNotFound })

			require.ErrorIs(t, err, domain.ErrNotFound)
			assert.Equal(t, map[string]string{tt.field: tt.resource + " not found"}, domain.FieldErrors(err))
		})
	}
}

func TestWrapFor_LeavesClassifiedErrorsAlone(t *testing.T) {
	t.Parallel()

	inner := domain.NewNotFoundError(domain.ResourceAccount)
	err := wrapFor(domain.ResourceTransaction, func() error { return inner })
	assert.Same(t, inner, err)

	require.NoError(t, wrapFor(domain.ResourceCategory, func() error { return nil }))
}
