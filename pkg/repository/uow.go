package repository

import (
	"context"
	"reflect"
)

// UnitOfWork defines the contract for transactional work and type-safe repository access.
//
// Repositories obtained from the UnitOfWork passed to fn share its transaction,
// so everything done inside fn commits or rolls back together.
//
// Example usage:
//
//	repoAny, err := uow.GetRepository(reflect.TypeOf((*AccountRepository)(nil)).Elem())
//	repo := repoAny.(AccountRepository)
type UnitOfWork interface {
	// Do executes fn inside a read-write transaction.
	// If fn returns an error, the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// View executes fn inside a read-only, read-committed transaction.
	View(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface type,
	// bound to the current transaction.
	GetRepository(repoType reflect.Type) (any, error)

	UserRepository() (UserRepository, error)
	AccountRepository() (AccountRepository, error)
	CategoryRepository() (CategoryRepository, error)
	TransactionRepository() (TransactionRepository, error)
}

// Repository type keys accepted by GetRepository.
var (
	UserRepositoryType        = reflect.TypeOf((*UserRepository)(nil)).Elem()
	AccountRepositoryType     = reflect.TypeOf((*AccountRepository)(nil)).Elem()
	CategoryRepositoryType    = reflect.TypeOf((*CategoryRepository)(nil)).Elem()
	TransactionRepositoryType = reflect.TypeOf((*TransactionRepository)(nil)).Elem()
)
