package repository

import (
	"context"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/transaction"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create inserts the transaction row. Investment metadata is written
// separately through CreateInvestment.
func (r *transactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	m := transactionToModel(t)
	return conflictFor(domain.ResourceTransaction, "categoryId", "category no longer exists",
		r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error)
}

func (r *transactionRepository) CreateInvestment(ctx context.Context, meta *transaction.InvestmentMetadata) error {
	m := investmentToModel(meta)
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})
}

func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	var m Transaction
	if err := wrapFor(domain.ResourceTransaction, func() error {
		return r.db.WithContext(ctx).Preload("Investment").First(&m, "id = ?", id).Error
	}); err != nil {
		return nil, err
	}
	return transactionFromModel(&m), nil
}

// ownedBy restricts a query to transactions on userID's accounts.
func (r *transactionRepository) ownedBy(ctx context.Context, userID uuid.UUID) *gorm.DB {
	accounts := r.db.WithContext(ctx).Model(&Account{}).Select("id").Where("user_id = ?", userID)
	return r.db.WithContext(ctx).Where("account_id IN (?)", accounts)
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*transaction.Transaction, error) {
	return r.list(r.ownedBy(ctx, userID))
}

func (r *transactionRepository) ListByUserAndDateRange(
	ctx context.Context,
	userID uuid.UUID,
	start, end time.Time,
) ([]*transaction.Transaction, error) {
	return r.list(r.ownedBy(ctx, userID).Where("transaction_date BETWEEN ? AND ?", start.UTC(), end.UTC()))
}

func (r *transactionRepository) ListByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) ([]*transaction.Transaction, error) {
	return r.list(r.ownedBy(ctx, userID).Where("category_id = ?", categoryID))
}

func (r *transactionRepository) ListByUserAndType(ctx context.Context, userID uuid.UUID, t transaction.Type) ([]*transaction.Transaction, error) {
	return r.list(r.ownedBy(ctx, userID).Where("type = ?", string(t)))
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*transaction.Transaction, error) {
	return r.list(r.db.WithContext(ctx).Where("account_id = ?", accountID))
}

func (r *transactionRepository) list(db *gorm.DB) ([]*transaction.Transaction, error) {
	var rows []Transaction
	err := db.Preload("Investment").
		Order("transaction_date DESC").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*transaction.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, transactionFromModel(&rows[i]))
	}
	return out, nil
}

func (r *transactionRepository) ExistsByCategory(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	return r.exists(ctx, "category_id = ?", categoryID)
}

func (r *transactionRepository) ExistsByAccount(ctx context.Context, accountID uuid.UUID) (bool, error) {
	return r.exists(ctx, "account_id = ?", accountID)
}

func (r *transactionRepository) exists(ctx context.Context, cond string, arg any) (bool, error) {
	var found bool
	err := r.db.WithContext(ctx).
		Raw("SELECT EXISTS (SELECT 1 FROM transactions WHERE "+cond+")", arg).
		Scan(&found).Error
	return found, MapGormErrorToDomain(err)
}

func (r *transactionRepository) SumByAccount(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("account_id = ?", accountID).
		Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, MapGormErrorToDomain(err)
	}
	return sum, nil
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Delete(&InvestmentMetadata{}, "transaction_id = ?", id).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	res := db.Delete(&Transaction{}, "id = ?", id)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError(domain.ResourceTransaction)
	}
	return nil
}
