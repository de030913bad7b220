package category

import (
	"strings"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/google/uuid"
)

// Type is the money flow a category classifies.
type Type string

const (
	TypeIncome  Type = "INCOME"
	TypeExpense Type = "EXPENSE"
)

// Valid reports whether t is a known category type.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Scope says who a category belongs to: every user (global) or exactly one.
// The zero value is Global.
type Scope struct {
	owner uuid.UUID
}

// Global returns the scope of system categories shared by all users.
func Global() Scope { return Scope{} }

// Owned returns the scope of a category private to userID.
func Owned(userID uuid.UUID) Scope { return Scope{owner: userID} }

// IsGlobal reports whether the scope has no owner.
func (s Scope) IsGlobal() bool { return s.owner == uuid.Nil }

// Owner returns the owning user and true, or uuid.Nil and false for global scope.
func (s Scope) Owner() (uuid.UUID, bool) {
	if s.IsGlobal() {
		return uuid.Nil, false
	}
	return s.owner, true
}

// VisibleTo reports whether userID may read or reference a category in this scope.
func (s Scope) VisibleTo(userID uuid.UUID) bool {
	return s.IsGlobal() || s.owner == userID
}

// Category labels transactions for reporting.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	Scope     Scope     `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New builds a validated category in the given scope.
func New(name string, t Type, scope Scope) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if !t.Valid() {
		return nil, domain.NewValidationError("type", "category type must be INCOME or EXPENSE")
	}
	now := time.Now().UTC()
	return &Category{
		ID:        uuid.New(),
		Name:      name,
		Type:      t,
		Scope:     scope,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateName enforces the 2..100 character category name rule.
func ValidateName(name string) error {
	if l := len([]rune(name)); l < 2 || l > 100 {
		return domain.NewValidationError("name", "category name must be between 2 and 100 characters")
	}
	return nil
}

// IsGlobal is shorthand for c.Scope.IsGlobal().
func (c *Category) IsGlobal() bool { return c.Scope.IsGlobal() }

// Rename validates and applies a new name.
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return err
	}
	c.Name = name
	c.UpdatedAt = time.Now().UTC()
	return nil
}
