package transaction_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/ledger/infra/cache"
	"github.com/amirasaad/ledger/infra/eventbus"
	"github.com/amirasaad/ledger/internal/fixtures/memory"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/analytics"
	"github.com/amirasaad/ledger/pkg/domain/category"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/domain/transaction"
	"github.com/amirasaad/ledger/pkg/ledger"
	"github.com/amirasaad/ledger/pkg/repository"
	txsvc "github.com/amirasaad/ledger/pkg/service/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	bus   *eventbus.MemoryEventBus
	svc   *txsvc.Service
	user  uuid.UUID
}

func (s *TransactionServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.bus = eventbus.NewWithMemory(slog.Default(), eventbus.WithRecording())
	s.svc = txsvc.New(s.store, ledger.New(slog.Default()), s.bus, slog.Default())
	s.user = uuid.New()
}

func (s *TransactionServiceTestSuite) account(owner uuid.UUID, name string, typ account.Type, opening int64) *account.Account {
	acc, err := account.New().
		WithUserID(owner).
		WithName(name).
		WithType(typ).
		WithOpeningBalance(decimal.NewFromInt(opening)).
		Build()
	s.Require().NoError(err)
	s.Require().NoError(s.store.Do(s.ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return repo.Create(s.ctx, acc)
	}))
	return acc
}

func (s *TransactionServiceTestSuite) balance(id uuid.UUID) decimal.Decimal {
	acc, ok := s.store.Account(id)
	s.Require().True(ok)
	return acc.CurrentBalance
}

// assertLedgerConsistent checks that every account balance equals its opening
// balance plus the amounts posted to it.
func (s *TransactionServiceTestSuite) assertLedgerConsistent() {
	for _, acc := range s.store.Accounts() {
		sum := acc.OpeningBalance
		for _, tx := range s.store.TransactionsOf(acc.ID) {
			sum = sum.Add(tx.Amount)
		}
		s.True(acc.CurrentBalance.Equal(sum), "account %s: balance %s, postings %s", acc.Name, acc.CurrentBalance, sum)
	}
}

func draft(accountID uuid.UUID, typ transaction.Type, amount string) transaction.Draft {
	return transaction.Draft{
		AccountID:   accountID,
		Amount:      decimal.RequireFromString(amount),
		Type:        typ,
		Date:        time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
		PaymentMode: transaction.PaymentModeUPI,
		Description: "test",
	}
}

func (s *TransactionServiceTestSuite) TestCreate_PostsAndPublishes() {
	acc := s.account(s.user, "Checking", account.TypeChecking, 100)

	income, err := s.svc.Create(s.ctx, s.user, draft(acc.ID, transaction.TypeIncome, "250.50"))
	s.Require().NoError(err)
	_, err = s.svc.Create(s.ctx, s.user, draft(acc.ID, transaction.TypeExpense, "-50.50"))
	s.Require().NoError(err)

	s.True(s.balance(acc.ID).Equal(decimal.NewFromInt(300)))
	s.assertLedgerConsistent()

	published := s.bus.Published()
	s.Require().Len(published, 2)
	posted, ok := published[0].(*events.TransactionPosted)
	s.Require().True(ok)
	s.Equal(income.ID, posted.TransactionID)
	s.Equal(s.user, posted.Owner())
}

func (s *TransactionServiceTestSuite) TestCreate_RejectsWrongSign() {
	acc := s.account(s.user, "Checking", account.TypeChecking, 0)

	for _, d := range []transaction.Draft{
		draft(acc.ID, transaction.TypeExpense, "20"),
		draft(acc.ID, transaction.TypeIncome, "0"),
		draft(acc.ID, transaction.TypeIncome, "-5"),
	} {
		_, err := s.svc.Create(s.ctx, s.user, d)
		s.ErrorIs(err, domain.ErrValidation)
	}
	s.True(s.balance(acc.ID).IsZero())
	s.Empty(s.store.TransactionsOf(acc.ID))
	s.Empty(s.bus.Published())
}

func (s *TransactionServiceTestSuite) TestCreate_RejectsTransferType() {
	acc := s.account(s.user, "Checking", account.TypeChecking, 0)
	_, err := s.svc.Create(s.ctx, s.user, draft(acc.ID, transaction.TypeTransfer, "20"))
	s.ErrorIs(err, domain.ErrValidation)
	s.Equal([]string{"type"}, keys(domain.FieldErrors(err)))
}

func (s *TransactionServiceTestSuite) TestCreate_CategoryAccess() {
	acc := s.account(s.user, "Checking", account.TypeChecking, 0)
	global, err := category.New("Salary", category.TypeIncome, category.Global())
	s.Require().NoError(err)
	foreign, err := category.New("Bonus", category.TypeIncome, category.Owned(uuid.New()))
	s.Require().NoError(err)
	s.store.SeedCategory(global)
	s.store.SeedCategory(foreign)

	d := draft(acc.ID, transaction.TypeIncome, "10")
	d.CategoryID = &global.ID
	_, err = s.svc.Create(s.ctx, s.user, d)
	s.NoError(err)

	d.CategoryID = &foreign.ID
	_, err = s.svc.Create(s.ctx, s.user, d)
	s.ErrorIs(err, domain.ErrForbidden)

	missing := uuid.New()
	d.CategoryID = &missing
	_, err = s.svc.Create(s.ctx, s.user, d)
	s.ErrorIs(err, domain.ErrNotFound)

	s.True(s.balance(acc.ID).Equal(decimal.NewFromInt(10)))
	s.assertLedgerConsistent()
}

func (s *TransactionServiceTestSuite) TestTransfer_MovesAmountAndLinksLegs() {
	from := s.account(s.user, "Checking", account.TypeChecking, 1000)
	to := s.account(s.user, "Savings", account.TypeSavings, 0)
	amount := decimal.RequireFromString("125.75")

	res, err := s.svc.Transfer(s.ctx, s.user, txsvc.TransferInput{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        amount,
		Date:          time.Now(),
		PaymentMode:   transaction.PaymentModeBankTransfer,
	})
	s.Require().NoError(err)

	s.True(s.balance(from.ID).Equal(decimal.NewFromInt(1000).Sub(amount)))
	s.True(s.balance(to.ID).Equal(amount))
	s.True(res.Debit.Amount.Equal(amount.Neg()))
	s.True(res.Credit.Amount.Equal(amount))
	s.Equal(res.Credit.ID, *res.Debit.RelatedTransactionID)
	s.Equal(res.Debit.ID, *res.Credit.RelatedTransactionID)

	legs := append(s.store.TransactionsOf(from.ID), s.store.TransactionsOf(to.ID)...)
	s.Len(legs, 2)
	for _, leg := range legs {
		s.Equal(transaction.TypeTransfer, leg.Type)
	}
	s.assertLedgerConsistent()
	s.Require().Len(s.bus.Published(), 1)
	s.IsType(&events.TransferPosted{}, s.bus.Published()[0])
}

func (s *TransactionServiceTestSuite) TestTransfer_Rejections() {
	mine := s.account(s.user, "Checking", account.TypeChecking, 100)
	other := s.account(s.user, "Savings", account.TypeSavings, 0)
	theirs := s.account(uuid.New(), "Theirs", account.TypeChecking, 100)

	cases := []struct {
		name string
		in   txsvc.TransferInput
		kind error
	}{
		{"same account", txsvc.TransferInput{FromAccountID: mine.ID, ToAccountID: mine.ID, Amount: decimal.NewFromInt(5)}, domain.ErrValidation},
		{"zero amount", txsvc.TransferInput{FromAccountID: mine.ID, ToAccountID: other.ID, Amount: decimal.Zero}, domain.ErrValidation},
		{"sub-cent amount", txsvc.TransferInput{FromAccountID: mine.ID, ToAccountID: other.ID, Amount: decimal.RequireFromString("0.00001")}, domain.ErrValidation},
		{"foreign source", txsvc.TransferInput{FromAccountID: theirs.ID, ToAccountID: mine.ID, Amount: decimal.NewFromInt(5)}, domain.ErrForbidden},
		{"foreign target", txsvc.TransferInput{FromAccountID: mine.ID, ToAccountID: theirs.ID, Amount: decimal.NewFromInt(5)}, domain.ErrForbidden},
		{"unknown target", txsvc.TransferInput{FromAccountID: mine.ID, ToAccountID: uuid.New(), Amount: decimal.NewFromInt(5)}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		tc.in.Date = time.Now()
		tc.in.PaymentMode = transaction.PaymentModeACH
		_, err := s.svc.Transfer(s.ctx, s.user, tc.in)
		s.True(errors.Is(err, tc.kind), "%s: got %v", tc.name, err)
	}
	s.True(s.balance(mine.ID).Equal(decimal.NewFromInt(100)))
	s.True(s.balance(other.ID).IsZero())
	s.True(s.balance(theirs.ID).Equal(decimal.NewFromInt(100)))
	s.assertLedgerConsistent()
}

func (s *TransactionServiceTestSuite) TestTransfer_RollsBackWhenSecondLegFails() {
	from := s.account(s.user, "Checking", account.TypeChecking, 100)
	to := s.account(s.user, "Savings", account.TypeSavings, 0)
	s.store.FailAfter("TransactionRepository.Create", 1, errors.New("connection reset"))

	_, err := s.svc.Transfer(s.ctx, s.user, txsvc.TransferInput{
		FromAccountID: from.ID, ToAccountID: to.ID, Amount: decimal.NewFromInt(40),
		Date: time.Now(), PaymentMode: transaction.PaymentModeACH,
	})
	s.Error(err)
	s.True(s.balance(from.ID).Equal(decimal.NewFromInt(100)))
	s.True(s.balance(to.ID).IsZero())
	s.Empty(s.bus.Published())
}

func (s *TransactionServiceTestSuite) TestInvest() {
	acc := s.account(s.user, "Brokerage", account.TypeInvestment, 1000)

	tx, err := s.svc.Invest(s.ctx, s.user, transaction.Trade{
		AccountID:    acc.ID,
		AssetSymbol:  "vti",
		AssetType:    transaction.AssetETF,
		Quantity:     decimal.NewFromInt(2),
		PricePerUnit: decimal.NewFromInt(100),
		Date:         time.Now(),
		PaymentMode:  transaction.PaymentModeBankTransfer,
	})
	s.Require().NoError(err)

	s.True(tx.Amount.Equal(decimal.NewFromInt(-200)))
	s.Equal(transaction.TypeExpense, tx.Type)
	s.Require().NotNil(tx.Investment)
	s.True(tx.Investment.TotalAmount().Equal(decimal.NewFromInt(200)))
	s.Equal("VTI", tx.Investment.AssetSymbol)
	s.True(s.balance(acc.ID).Equal(decimal.NewFromInt(800)))

	meta, ok := s.store.Investment(tx.ID)
	s.Require().True(ok)
	s.True(meta.TotalAmount().Equal(decimal.NewFromInt(200)))
	s.assertLedgerConsistent()
}

func (s *TransactionServiceTestSuite) TestInvest_RequiresInvestmentAccount() {
	acc := s.account(s.user, "Checking", account.TypeChecking, 1000)
	_, err := s.svc.Invest(s.ctx, s.user, transaction.Trade{
		AccountID: acc.ID, AssetSymbol: "BTC", AssetType: transaction.AssetCrypto,
		Quantity: decimal.NewFromInt(1), PricePerUnit: decimal.NewFromInt(10),
		Date: time.Now(), PaymentMode: transaction.PaymentModeCard,
	})
	s.ErrorIs(err, domain.ErrInvalidOperation)
	s.True(s.balance(acc.ID).Equal(decimal.NewFromInt(1000)))
	s.Empty(s.store.TransactionsOf(acc.ID))
}

func (s *TransactionServiceTestSuite) TestInvest_RejectsTotalBeyondStoredScale() {
	acc := s.account(s.user, "Brokerage", account.TypeInvestment, 1000)
	_, err := s.svc.Invest(s.ctx, s.user, transaction.Trade{
		AccountID: acc.ID, AssetSymbol: "BTC", AssetType: transaction.AssetCrypto,
		Quantity:     decimal.RequireFromString("0.33333333"),
		PricePerUnit: decimal.RequireFromString("3.0001"),
		Date:         time.Now(), PaymentMode: transaction.PaymentModeCard,
	})
	s.ErrorIs(err, domain.ErrValidation)
	s.Contains(domain.FieldErrors(err), "amount")
	s.True(s.balance(acc.ID).Equal(decimal.NewFromInt(1000)))
	s.Empty(s.store.TransactionsOf(acc.ID))
}

func (s *TransactionServiceTestSuite) TestWrites_DropCachedNetWorth() {
	nwCache := cache.NewMemoryNetWorthCache(time.Minute)
	defer nwCache.Close() //nolint: errcheck
	svc := txsvc.New(s.store, ledger.New(slog.Default()), nil, slog.Default(), txsvc.WithCache(nwCache))
	acc := s.account(s.user, "Checking", account.TypeChecking, 100)
	stale := &analytics.NetWorth{NetWorth: decimal.NewFromInt(100)}

	s.Require().NoError(nwCache.Set(s.ctx, s.user, stale, time.Hour))
	tx, err := svc.Create(s.ctx, s.user, draft(acc.ID, transaction.TypeIncome, "25"))
	s.Require().NoError(err)
	got, err := nwCache.Get(s.ctx, s.user)
	s.Require().NoError(err)
	s.Nil(got)

	s.Require().NoError(nwCache.Set(s.ctx, s.user, stale, time.Hour))
	s.Require().NoError(svc.Delete(s.ctx, s.user, tx.ID))
	got, err = nwCache.Get(s.ctx, s.user)
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *TransactionServiceTestSuite) TestDelete_RestoresBalance() {
	acc := s.account(s.user, "Checking", account.TypeChecking, 50)
	tx, err := s.svc.Create(s.ctx, s.user, draft(acc.ID, transaction.TypeExpense, "-35"))
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Delete(s.ctx, s.user, tx.ID))

	s.True(s.balance(acc.ID).Equal(decimal.NewFromInt(50)))
	_, exists := s.store.Transaction(tx.ID)
	s.False(exists)
	s.assertLedgerConsistent()
	published := s.bus.Published()
	s.IsType(&events.TransactionReversed{}, published[len(published)-1])
}

func (s *TransactionServiceTestSuite) TestDelete_Rejections() {
	a := s.account(s.user, "Checking", account.TypeChecking, 100)
	b := s.account(s.user, "Savings", account.TypeSavings, 0)
	res, err := s.svc.Transfer(s.ctx, s.user, txsvc.TransferInput{
		FromAccountID: a.ID, ToAccountID: b.ID, Amount: decimal.NewFromInt(10),
		Date: time.Now(), PaymentMode: transaction.PaymentModeACH,
	})
	s.Require().NoError(err)
	tx, err := s.svc.Create(s.ctx, s.user, draft(a.ID, transaction.TypeIncome, "5"))
	s.Require().NoError(err)

	s.ErrorIs(s.svc.Delete(s.ctx, s.user, res.Debit.ID), domain.ErrInvalidOperation)
	s.ErrorIs(s.svc.Delete(s.ctx, uuid.New(), tx.ID), domain.ErrForbidden)
	s.ErrorIs(s.svc.Delete(s.ctx, s.user, uuid.New()), domain.ErrNotFound)
	s.assertLedgerConsistent()
}

func (s *TransactionServiceTestSuite) TestReads_AreOwnerScoped() {
	mine := s.account(s.user, "Checking", account.TypeChecking, 0)
	stranger := uuid.New()
	theirs := s.account(stranger, "Checking", account.TypeChecking, 0)
	tx, err := s.svc.Create(s.ctx, s.user, draft(mine.ID, transaction.TypeIncome, "10"))
	s.Require().NoError(err)
	_, err = s.svc.Create(s.ctx, stranger, draft(theirs.ID, transaction.TypeIncome, "10"))
	s.Require().NoError(err)

	all, err := s.svc.List(s.ctx, s.user)
	s.Require().NoError(err)
	s.Len(all, 1)

	got, err := s.svc.Get(s.ctx, s.user, tx.ID)
	s.Require().NoError(err)
	s.Equal(tx.ID, got.ID)

	_, err = s.svc.Get(s.ctx, stranger, tx.ID)
	s.ErrorIs(err, domain.ErrForbidden)

	_, err = s.svc.Filter(s.ctx, s.user, transaction.Filter{AccountID: &theirs.ID})
	s.ErrorIs(err, domain.ErrForbidden)
}

func (s *TransactionServiceTestSuite) TestFilter_Precedence() {
	acc := s.account(s.user, "Checking", account.TypeChecking, 0)
	food, err := category.New("Food", category.TypeExpense, category.Owned(s.user))
	s.Require().NoError(err)
	s.store.SeedCategory(food)

	march := draft(acc.ID, transaction.TypeIncome, "100")
	march.Date = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	april := draft(acc.ID, transaction.TypeExpense, "-20")
	april.Date = time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	april.CategoryID = &food.ID
	_, err = s.svc.Create(s.ctx, s.user, march)
	s.Require().NoError(err)
	_, err = s.svc.Create(s.ctx, s.user, april)
	s.Require().NoError(err)

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)
	income := transaction.TypeIncome

	// Date range wins over category.
	got, err := s.svc.Filter(s.ctx, s.user, transaction.Filter{Start: &start, End: &end, CategoryID: &food.ID})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.True(got[0].Amount.Equal(decimal.NewFromInt(100)))

	// Category wins over type.
	got, err = s.svc.Filter(s.ctx, s.user, transaction.Filter{CategoryID: &food.ID, Type: &income})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(transaction.TypeExpense, got[0].Type)

	// A half open range is ignored and type applies.
	got, err = s.svc.Filter(s.ctx, s.user, transaction.Filter{Start: &start, Type: &income})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(transaction.TypeIncome, got[0].Type)

	got, err = s.svc.Filter(s.ctx, s.user, transaction.Filter{AccountID: &acc.ID})
	s.Require().NoError(err)
	s.Len(got, 2)
	s.True(got[0].Date.After(got[1].Date))

	_, err = s.svc.Filter(s.ctx, s.user, transaction.Filter{Start: &end, End: &start})
	s.ErrorIs(err, domain.ErrValidation)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

func TestService_NilBusIsAllowed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()
	svc := txsvc.New(store, ledger.New(slog.Default()), nil, slog.Default())
	acc, err := account.New().WithUserID(uuid.New()).WithName("Cash").WithType(account.TypeCash).Build()
	require.NoError(t, err)
	require.NoError(t, store.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, _ := uow.AccountRepository()
		return repo.Create(ctx, acc)
	}))

	_, err = svc.Create(ctx, acc.UserID, draft(acc.ID, transaction.TypeIncome, "1"))
	assert.NoError(t, err)
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
