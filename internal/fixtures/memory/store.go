// Package memory is an in-memory ledger store implementing repository.UnitOfWork.
//
// Units of work are serialized by a mutex and run against a copy of the data
// that is swapped in only when the work succeeds, giving the all-or-nothing
// behavior of a database transaction.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/category"
	"github.com/amirasaad/ledger/pkg/domain/transaction"
	"github.com/amirasaad/ledger/pkg/domain/user"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
)

type state struct {
	users        map[uuid.UUID]user.User
	accounts     map[uuid.UUID]account.Account
	categories   map[uuid.UUID]category.Category
	transactions map[uuid.UUID]transaction.Transaction
	investments  map[uuid.UUID]transaction.InvestmentMetadata
}

func newState() *state {
	return &state{
		users:        map[uuid.UUID]user.User{},
		accounts:     map[uuid.UUID]account.Account{},
		categories:   map[uuid.UUID]category.Category{},
		transactions: map[uuid.UUID]transaction.Transaction{},
		investments:  map[uuid.UUID]transaction.InvestmentMetadata{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.investments {
		c.investments[k] = v
	}
	return c
}

type failure struct {
	remaining int
	err       error
}

// Store is the shared in-memory ledger.
type Store struct {
	mu       sync.Mutex
	state    *state
	failMu   sync.Mutex
	failures map[string]*failure
}

// New returns an empty store.
func New() *Store {
	return &Store{state: newState(), failures: map[string]*failure{}}
}

// FailAfter makes the repository operation op (for example
// "TransactionRepository.Create") fail with err once it has succeeded n times.
func (s *Store) FailAfter(op string, n int, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.failures[op] = &failure{remaining: n, err: err}
}

func (s *Store) check(op string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	f, ok := s.failures[op]
	if !ok {
		return nil
	}
	if f.remaining > 0 {
		f.remaining--
		return nil
	}
	delete(s.failures, op)
	return f.err
}

// Do runs fn against a private copy of the store and commits it when fn succeeds.
func (s *Store) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.state.clone()
	if err := fn(&unit{store: s, st: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

// View runs fn against a copy of the store and discards any change.
func (s *Store) View(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	s.mu.Lock()
	work := s.state.clone()
	s.mu.Unlock()
	return fn(&unit{store: s, st: work, readOnly: true})
}

func (s *Store) GetRepository(repoType reflect.Type) (any, error) {
	return nil, fmt.Errorf("memory store: repositories are only available inside Do or View")
}

func (s *Store) UserRepository() (repository.UserRepository, error) {
	return nil, fmt.Errorf("memory store: repositories are only available inside Do or View")
}

func (s *Store) AccountRepository() (repository.AccountRepository, error) {
	return nil, fmt.Errorf("memory store: repositories are only available inside Do or View")
}

func (s *Store) CategoryRepository() (repository.CategoryRepository, error) {
	return nil, fmt.Errorf("memory store: repositories are only available inside Do or View")
}

func (s *Store) TransactionRepository() (repository.TransactionRepository, error) {
	return nil, fmt.Errorf("memory store: repositories are only available inside Do or View")
}

// Account returns a committed account, for assertions.
func (s *Store) Account(id uuid.UUID) (account.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.state.accounts[id]
	return a, ok
}

// Transaction returns a committed transaction, for assertions.
func (s *Store) Transaction(id uuid.UUID) (transaction.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.state.transactions[id]
	return t, ok
}

// Investment returns committed investment metadata, for assertions.
func (s *Store) Investment(id uuid.UUID) (transaction.InvestmentMetadata, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.state.investments[id]
	return m, ok
}

// TransactionsOf returns every committed transaction posted to accountID.
func (s *Store) TransactionsOf(accountID uuid.UUID) []transaction.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []transaction.Transaction
	for _, t := range s.state.transactions {
		if t.AccountID == accountID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// Accounts returns every committed account.
func (s *Store) Accounts() []account.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]account.Account, 0, len(s.state.accounts))
	for _, a := range s.state.accounts {
		out = append(out, a)
	}
	return out
}

// SeedCategory stores c directly, bypassing services. Used for global categories.
func (s *Store) SeedCategory(c *category.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.categories[c.ID] = *c
}

// SeedUser stores u directly, bypassing services.
func (s *Store) SeedUser(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.users[u.ID] = *u
}

var _ repository.UnitOfWork = (*Store)(nil)
