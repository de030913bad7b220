package user

import (
	"strings"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/utils"
	"github.com/google/uuid"
)

// ErrUserUnauthorized is returned when credentials do not match a user.
var ErrUserUnauthorized = &domain.Error{
	Kind:    domain.ErrUnauthorized,
	Message: "invalid email or password",
}

// User is the identity that owns accounts and custom categories.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// New validates the signup fields, hashes the password and returns a new User.
func New(firstName, lastName, email, password string) (*User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.ToLower(strings.TrimSpace(email))

	if l := len(firstName); l < 2 || l > 50 {
		return nil, domain.NewValidationError("firstName", "first name must be between 2 and 50 characters")
	}
	if l := len(lastName); l < 2 || l > 50 {
		return nil, domain.NewValidationError("lastName", "last name must be between 2 and 50 characters")
	}
	if !utils.IsEmail(email) {
		return nil, domain.NewValidationError("email", "please provide a valid email address")
	}
	if !utils.IsStrongPassword(password) {
		return nil, domain.NewValidationError(
			"password",
			"password must be at least 8 characters long and contain at least one uppercase letter, "+
				"one lowercase letter, one number, and one special character",
		)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return utils.CheckPasswordHash(password, u.PasswordHash)
}
