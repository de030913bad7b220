package user_test

import (
	"errors"
	"testing"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)

	u, err := user.New(" Ada ", "Lovelace", "ADA@Example.com", "Secr3t!pass")
	require.NoError(err)
	assert.Equal("Ada", u.FirstName)
	assert.Equal("ada@example.com", u.Email)
	assert.NotEqual("Secr3t!pass", u.PasswordHash)
	assert.True(u.CheckPassword("Secr3t!pass"))
	assert.False(u.CheckPassword("wrong"))
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name                         string
		first, last, email, password string
		field                        string
	}{
		{"short first name", "A", "Lovelace", "ada@example.com", "Secr3t!pass", "firstName"},
		{"short last name", "Ada", "L", "ada@example.com", "Secr3t!pass", "lastName"},
		{"bad email", "Ada", "Lovelace", "not-an-email", "Secr3t!pass", "email"},
		{"weak password", "Ada", "Lovelace", "ada@example.com", "password", "password"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := user.New(tc.first, tc.last, tc.email, tc.password)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
			assert.Contains(t, domain.FieldErrors(err), tc.field)
		})
	}
}
