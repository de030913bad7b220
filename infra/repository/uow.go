package repository

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"

	"github.com/amirasaad/ledger/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. Repositories handed out inside Do or View share that
// transaction; outside of one they use the plain connection pool.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			repository.UserRepositoryType:        func(db *gorm.DB) any { return NewUserRepository(db) },
			repository.AccountRepositoryType:     func(db *gorm.DB) any { return NewAccountRepository(db) },
			repository.CategoryRepositoryType:    func(db *gorm.DB) any { return NewCategoryRepository(db) },
			repository.TransactionRepositoryType: func(db *gorm.DB) any { return NewTransactionRepository(db) },
		},
	}
}

// Do runs fn in a read-write transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry})
	})
}

// View runs fn in a read-only, read-committed transaction.
func (u *UoW) View(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry})
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted, ReadOnly: true})
}

// GetRepository returns the repository registered for repoType, bound to the
// current transaction.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	return constructor(u.session()), nil
}

func (u *UoW) UserRepository() (repository.UserRepository, error) {
	return get[repository.UserRepository](u, repository.UserRepositoryType)
}

func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return get[repository.AccountRepository](u, repository.AccountRepositoryType)
}

func (u *UoW) CategoryRepository() (repository.CategoryRepository, error) {
	return get[repository.CategoryRepository](u, repository.CategoryRepositoryType)
}

func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return get[repository.TransactionRepository](u, repository.TransactionRepositoryType)
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func get[T any](u *UoW, repoType reflect.Type) (T, error) {
	var zero T
	repoAny, err := u.GetRepository(repoType)
	if err != nil {
		return zero, err
	}
	repo, ok := repoAny.(T)
	if !ok {
		return zero, fmt.Errorf("repository registered for %v has type %T", repoType, repoAny)
	}
	return repo, nil
}
