package memory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/category"
	"github.com/amirasaad/ledger/pkg/domain/transaction"
	"github.com/amirasaad/ledger/pkg/domain/user"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type unit struct {
	store    *Store
	st       *state
	readOnly bool
}

// Nested units join the enclosing one.
func (u *unit) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(u)
}

func (u *unit) View(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(u)
}

func (u *unit) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case repository.UserRepositoryType:
		return &userRepo{u}, nil
	case repository.AccountRepositoryType:
		return &accountRepo{u}, nil
	case repository.CategoryRepositoryType:
		return &categoryRepo{u}, nil
	case repository.TransactionRepositoryType:
		return &transactionRepo{u}, nil
	}
	return nil, fmt.Errorf("unsupported repository type: %v", repoType)
}

func (u *unit) UserRepository() (repository.UserRepository, error) {
	return &userRepo{u}, nil
}

func (u *unit) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepo{u}, nil
}

func (u *unit) CategoryRepository() (repository.CategoryRepository, error) {
	return &categoryRepo{u}, nil
}

func (u *unit) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepo{u}, nil
}

func (u *unit) write(op string) error {
	if u.readOnly {
		return fmt.Errorf("memory store: %s in read-only unit of work", op)
	}
	return u.store.check(op)
}

func (u *unit) read(op string) error {
	return u.store.check(op)
}

type userRepo struct{ u *unit }

func (r *userRepo) Create(ctx context.Context, usr *user.User) error {
	if err := r.u.write("UserRepository.Create"); err != nil {
		return err
	}
	for _, existing := range r.u.st.users {
		if existing.Email == usr.Email {
			return domain.ErrAlreadyExists
		}
	}
	r.u.st.users[usr.ID] = *usr
	return nil
}

func (r *userRepo) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if err := r.u.read("UserRepository.Get"); err != nil {
		return nil, err
	}
	usr, ok := r.u.st.users[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.ResourceUser)
	}
	return &usr, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if err := r.u.read("UserRepository.GetByEmail"); err != nil {
		return nil, err
	}
	for _, usr := range r.u.st.users {
		if strings.EqualFold(usr.Email, email) {
			return &usr, nil
		}
	}
	return nil, domain.NewNotFoundError(domain.ResourceUser)
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if err := r.u.read("UserRepository.ExistsByEmail"); err != nil {
		return false, err
	}
	for _, usr := range r.u.st.users {
		if strings.EqualFold(usr.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

type accountRepo struct{ u *unit }

func (r *accountRepo) Create(ctx context.Context, a *account.Account) error {
	if err := r.u.write("AccountRepository.Create"); err != nil {
		return err
	}
	r.u.st.accounts[a.ID] = *a
	return nil
}

func (r *accountRepo) Update(ctx context.Context, a *account.Account) error {
	if err := r.u.write("AccountRepository.Update"); err != nil {
		return err
	}
	stored, ok := r.u.st.accounts[a.ID]
	if !ok {
		return domain.NewNotFoundError(domain.ResourceAccount)
	}
	stored.Name = a.Name
	stored.Currency = a.Currency
	stored.UpdatedAt = a.UpdatedAt
	r.u.st.accounts[a.ID] = stored
	return nil
}

func (r *accountRepo) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	if err := r.u.read("AccountRepository.Get"); err != nil {
		return nil, err
	}
	a, ok := r.u.st.accounts[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.ResourceAccount)
	}
	return &a, nil
}

func (r *accountRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	if err := r.u.read("AccountRepository.GetForUpdate"); err != nil {
		return nil, err
	}
	a, ok := r.u.st.accounts[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.ResourceAccount)
	}
	return &a, nil
}

func (r *accountRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	return r.list("AccountRepository.ListByUser", func(a account.Account) bool { return a.UserID == userID })
}

func (r *accountRepo) ListByUserAndType(ctx context.Context, userID uuid.UUID, t account.Type) ([]*account.Account, error) {
	return r.list("AccountRepository.ListByUserAndType", func(a account.Account) bool {
		return a.UserID == userID && a.Type == t
	})
}

func (r *accountRepo) list(op string, keep func(account.Account) bool) ([]*account.Account, error) {
	if err := r.u.read(op); err != nil {
		return nil, err
	}
	out := make([]*account.Account, 0)
	for _, a := range r.u.st.accounts {
		if keep(a) {
			a := a
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *accountRepo) ExistsByUserAndName(ctx context.Context, userID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	if err := r.u.read("AccountRepository.ExistsByUserAndName"); err != nil {
		return false, err
	}
	for _, a := range r.u.st.accounts {
		if a.UserID == userID && a.ID != excludeID && strings.EqualFold(a.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *accountRepo) AddToBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	if err := r.u.write("AccountRepository.AddToBalance"); err != nil {
		return err
	}
	a, ok := r.u.st.accounts[id]
	if !ok {
		return domain.NewNotFoundError(domain.ResourceAccount)
	}
	a.CurrentBalance = a.CurrentBalance.Add(delta)
	a.UpdatedAt = time.Now().UTC()
	r.u.st.accounts[id] = a
	return nil
}

func (r *accountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.u.write("AccountRepository.Delete"); err != nil {
		return err
	}
	if _, ok := r.u.st.accounts[id]; !ok {
		return domain.NewNotFoundError(domain.ResourceAccount)
	}
	delete(r.u.st.accounts, id)
	for txID, t := range r.u.st.transactions {
		if t.AccountID == id {
			delete(r.u.st.transactions, txID)
			delete(r.u.st.investments, txID)
		}
	}
	return nil
}

type categoryRepo struct{ u *unit }

func (r *categoryRepo) Create(ctx context.Context, c *category.Category) error {
	if err := r.u.write("CategoryRepository.Create"); err != nil {
		return err
	}
	r.u.st.categories[c.ID] = *c
	return nil
}

func (r *categoryRepo) Update(ctx context.Context, c *category.Category) error {
	if err := r.u.write("CategoryRepository.Update"); err != nil {
		return err
	}
	if _, ok := r.u.st.categories[c.ID]; !ok {
		return domain.NewNotFoundError(domain.ResourceCategory)
	}
	r.u.st.categories[c.ID] = *c
	return nil
}

func (r *categoryRepo) Get(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	if err := r.u.read("CategoryRepository.Get"); err != nil {
		return nil, err
	}
	c, ok := r.u.st.categories[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.ResourceCategory)
	}
	return &c, nil
}

func (r *categoryRepo) ListVisible(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	return r.list("CategoryRepository.ListVisible", func(c category.Category) bool {
		return c.Scope.VisibleTo(userID)
	})
}

func (r *categoryRepo) ListVisibleByType(ctx context.Context, userID uuid.UUID, t category.Type) ([]*category.Category, error) {
	return r.list("CategoryRepository.ListVisibleByType", func(c category.Category) bool {
		return c.Scope.VisibleTo(userID) && c.Type == t
	})
}

func (r *categoryRepo) ListGlobal(ctx context.Context) ([]*category.Category, error) {
	return r.list("CategoryRepository.ListGlobal", func(c category.Category) bool { return c.IsGlobal() })
}

func (r *categoryRepo) list(op string, keep func(category.Category) bool) ([]*category.Category, error) {
	if err := r.u.read(op); err != nil {
		return nil, err
	}
	out := make([]*category.Category, 0)
	for _, c := range r.u.st.categories {
		if keep(c) {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *categoryRepo) Exists(
	ctx context.Context,
	name string,
	t category.Type,
	scope category.Scope,
	excludeID uuid.UUID,
) (bool, error) {
	if err := r.u.read("CategoryRepository.Exists"); err != nil {
		return false, err
	}
	for _, c := range r.u.st.categories {
		if c.ID != excludeID && c.Type == t && c.Scope == scope && strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *categoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.u.write("CategoryRepository.Delete"); err != nil {
		return err
	}
	if _, ok := r.u.st.categories[id]; !ok {
		return domain.NewNotFoundError(domain.ResourceCategory)
	}
	delete(r.u.st.categories, id)
	return nil
}

type transactionRepo struct{ u *unit }

func (r *transactionRepo) Create(ctx context.Context, t *transaction.Transaction) error {
	if err := r.u.write("TransactionRepository.Create"); err != nil {
		return err
	}
	if _, ok := r.u.st.accounts[t.AccountID]; !ok {
		return domain.NewNotFoundError(domain.ResourceAccount)
	}
	stored := *t
	stored.Investment = nil
	r.u.st.transactions[t.ID] = stored
	return nil
}

func (r *transactionRepo) CreateInvestment(ctx context.Context, m *transaction.InvestmentMetadata) error {
	if err := r.u.write("TransactionRepository.CreateInvestment"); err != nil {
		return err
	}
	if _, ok := r.u.st.transactions[m.TransactionID]; !ok {
		return domain.NewNotFoundError(domain.ResourceTransaction)
	}
	if _, ok := r.u.st.investments[m.TransactionID]; ok {
		return domain.ErrAlreadyExists
	}
	r.u.st.investments[m.TransactionID] = *m
	return nil
}

func (r *transactionRepo) Get(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	if err := r.u.read("TransactionRepository.Get"); err != nil {
		return nil, err
	}
	t, ok := r.u.st.transactions[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.ResourceTransaction)
	}
	return r.hydrate(t), nil
}

func (r *transactionRepo) hydrate(t transaction.Transaction) *transaction.Transaction {
	if m, ok := r.u.st.investments[t.ID]; ok {
		t.Investment = &m
	}
	return &t
}

func (r *transactionRepo) ownedBy(t transaction.Transaction, userID uuid.UUID) bool {
	a, ok := r.u.st.accounts[t.AccountID]
	return ok && a.UserID == userID
}

func (r *transactionRepo) list(op string, keep func(transaction.Transaction) bool) ([]*transaction.Transaction, error) {
	if err := r.u.read(op); err != nil {
		return nil, err
	}
	out := make([]*transaction.Transaction, 0)
	for _, t := range r.u.st.transactions {
		if keep(t) {
			out = append(out, r.hydrate(t))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *transactionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*transaction.Transaction, error) {
	return r.list("TransactionRepository.ListByUser", func(t transaction.Transaction) bool {
		return r.ownedBy(t, userID)
	})
}

func (r *transactionRepo) ListByUserAndDateRange(
	ctx context.Context,
	userID uuid.UUID,
	start, end time.Time,
) ([]*transaction.Transaction, error) {
	return r.list("TransactionRepository.ListByUserAndDateRange", func(t transaction.Transaction) bool {
		return r.ownedBy(t, userID) && !t.Date.Before(start) && !t.Date.After(end)
	})
}

func (r *transactionRepo) ListByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) ([]*transaction.Transaction, error) {
	return r.list("TransactionRepository.ListByUserAndCategory", func(t transaction.Transaction) bool {
		return r.ownedBy(t, userID) && t.CategoryID != nil && *t.CategoryID == categoryID
	})
}

func (r *transactionRepo) ListByUserAndType(ctx context.Context, userID uuid.UUID, tt transaction.Type) ([]*transaction.Transaction, error) {
	return r.list("TransactionRepository.ListByUserAndType", func(t transaction.Transaction) bool {
		return r.ownedBy(t, userID) && t.Type == tt
	})
}

func (r *transactionRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*transaction.Transaction, error) {
	return r.list("TransactionRepository.ListByAccount", func(t transaction.Transaction) bool {
		return t.AccountID == accountID
	})
}

func (r *transactionRepo) ExistsByCategory(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	if err := r.u.read("TransactionRepository.ExistsByCategory"); err != nil {
		return false, err
	}
	for _, t := range r.u.st.transactions {
		if t.CategoryID != nil && *t.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (r *transactionRepo) ExistsByAccount(ctx context.Context, accountID uuid.UUID) (bool, error) {
	if err := r.u.read("TransactionRepository.ExistsByAccount"); err != nil {
		return false, err
	}
	for _, t := range r.u.st.transactions {
		if t.AccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

func (r *transactionRepo) SumByAccount(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	if err := r.u.read("TransactionRepository.SumByAccount"); err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, t := range r.u.st.transactions {
		if t.AccountID == accountID {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

func (r *transactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.u.write("TransactionRepository.Delete"); err != nil {
		return err
	}
	if _, ok := r.u.st.transactions[id]; !ok {
		return domain.NewNotFoundError(domain.ResourceTransaction)
	}
	delete(r.u.st.transactions, id)
	delete(r.u.st.investments, id)
	return nil
}
