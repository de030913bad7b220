package repository

import (
	"context"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	m := accountToModel(a)
	return conflictFor(domain.ResourceAccount, "name", errAccountNameTaken,
		r.db.WithContext(ctx).Create(&m).Error)
}

// Update writes name and currency only.
func (r *accountRepository) Update(ctx context.Context, a *account.Account) error {
	res := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", a.ID).Updates(map[string]any{
		"name":       a.Name,
		"currency":   string(a.Currency),
		"updated_at": a.UpdatedAt,
	})
	if res.Error != nil {
		return conflictFor(domain.ResourceAccount, "name", errAccountNameTaken, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError(domain.ResourceAccount)
	}
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return r.first(r.db.WithContext(ctx), id)
}

// GetForUpdate reads the row with SELECT ... FOR UPDATE.
func (r *accountRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *accountRepository) first(db *gorm.DB, id uuid.UUID) (*account.Account, error) {
	var m Account
	if err := wrapFor(domain.ResourceAccount, func() error {
		return db.First(&m, "id = ?", id).Error
	}); err != nil {
		return nil, err
	}
	return accountFromModel(&m), nil
}

func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *accountRepository) ListByUserAndType(ctx context.Context, userID uuid.UUID, t account.Type) ([]*account.Account, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ? AND type = ?", userID, string(t)))
}

func (r *accountRepository) list(db *gorm.DB) ([]*account.Account, error) {
	var rows []Account
	if err := db.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*account.Account, 0, len(rows))
	for i := range rows {
		out = append(out, accountFromModel(&rows[i]))
	}
	return out, nil
}

func (r *accountRepository) ExistsByUserAndName(ctx context.Context, userID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Account{}).
		Where("user_id = ? AND LOWER(name) = LOWER(?) AND id <> ?", userID, name, excludeID).
		Count(&count).Error
	return count > 0, MapGormErrorToDomain(err)
}

// AddToBalance issues current_balance = current_balance + delta.
func (r *accountRepository) AddToBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Updates(map[string]any{
		"current_balance": gorm.Expr("current_balance + ?", delta),
		"updated_at":      time.Now().UTC(),
	})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError(domain.ResourceAccount)
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Account{}, "id = ?", id)
	if res.Error != nil {
		return conflictFor(domain.ResourceAccount, "account", "cannot delete account with existing transactions", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError(domain.ResourceAccount)
	}
	return nil
}
