package category_test

import (
	"errors"
	"testing"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/category"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	alice, bob := uuid.New(), uuid.New()

	global := category.Global()
	assert.True(global.IsGlobal())
	owner, ok := global.Owner()
	assert.False(ok)
	assert.Equal(uuid.Nil, owner)
	assert.True(global.VisibleTo(alice))

	owned := category.Owned(alice)
	assert.False(owned.IsGlobal())
	owner, ok = owned.Owner()
	assert.True(ok)
	assert.Equal(alice, owner)
	assert.True(owned.VisibleTo(alice))
	assert.False(owned.VisibleTo(bob))

	assert.True(category.Scope{}.IsGlobal())
}

func TestNew(t *testing.T) {
	t.Parallel()
	c, err := category.New(" Groceries ", category.TypeExpense, category.Owned(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, "Groceries", c.Name)
	assert.False(t, c.IsGlobal())

	_, err = category.New("G", category.TypeExpense, category.Global())
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = category.New("Gifts", "TRANSFER", category.Global())
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestRename(t *testing.T) {
	t.Parallel()
	c, err := category.New("Food", category.TypeExpense, category.Global())
	require.NoError(t, err)
	require.NoError(t, c.Rename("Dining"))
	assert.Equal(t, "Dining", c.Name)
	assert.Error(t, c.Rename(""))
}
