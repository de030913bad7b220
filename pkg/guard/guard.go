// Package guard decides whether an acting user may touch a resource.
// Every function is pure: callers load the resource first and pass its owner in.
package guard

import (
	"fmt"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/category"
	"github.com/google/uuid"
)

// Authorize allows access only when owner is the acting user.
func Authorize(resource string, id, owner, actor uuid.UUID) error {
	if owner == uuid.Nil || owner != actor {
		return denied(resource, id)
	}
	return nil
}

// AuthorizeScope allows reads and references of global resources and of
// resources owned by the acting user.
func AuthorizeScope(resource string, id uuid.UUID, scope category.Scope, actor uuid.UUID) error {
	if scope.VisibleTo(actor) {
		return nil
	}
	return denied(resource, id)
}

// AuthorizeMutation allows changes only to resources owned by the acting user.
// Global resources are read-only for everyone.
func AuthorizeMutation(resource string, id uuid.UUID, scope category.Scope, actor uuid.UUID) error {
	owner, owned := scope.Owner()
	if !owned {
		return domain.NewInvalidOperationError(
			resource,
			resource,
			fmt.Sprintf("global %s cannot be modified", resource),
		)
	}
	return Authorize(resource, id, owner, actor)
}

func denied(resource string, id uuid.UUID) error {
	return domain.NewAuthorizationError(
		resource,
		fmt.Sprintf("you do not have access to %s %s", resource, id),
	)
}
