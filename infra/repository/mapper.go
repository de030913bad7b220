package repository

import (
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/category"
	"github.com/amirasaad/ledger/pkg/domain/transaction"
	"github.com/amirasaad/ledger/pkg/domain/user"
)

func userToModel(u *user.User) User {
	return User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func userFromModel(m *User) *user.User {
	return &user.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func accountToModel(a *account.Account) Account {
	return Account{
		ID:             a.ID,
		UserID:         a.UserID,
		Name:           a.Name,
		Type:           string(a.Type),
		Currency:       string(a.Currency),
		OpeningBalance: a.OpeningBalance,
		CurrentBalance: a.CurrentBalance,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func accountFromModel(m *Account) *account.Account {
	return &account.Account{
		ID:             m.ID,
		UserID:         m.UserID,
		Name:           m.Name,
		Type:           account.Type(m.Type),
		Currency:       account.Currency(m.Currency),
		OpeningBalance: m.OpeningBalance,
		CurrentBalance: m.CurrentBalance,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func categoryToModel(c *category.Category) Category {
	m := Category{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if owner, ok := c.Scope.Owner(); ok {
		m.UserID = &owner
	}
	return m
}

func categoryFromModel(m *Category) *category.Category {
	scope := category.Global()
	if m.UserID != nil {
		scope = category.Owned(*m.UserID)
	}
	return &category.Category{
		ID:        m.ID,
		Name:      m.Name,
		Type:      category.Type(m.Type),
		Scope:     scope,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func transactionToModel(t *transaction.Transaction) Transaction {
	return Transaction{
		ID:                   t.ID,
		AccountID:            t.AccountID,
		CategoryID:           t.CategoryID,
		RelatedTransactionID: t.RelatedTransactionID,
		Amount:               t.Amount,
		Type:                 string(t.Type),
		Description:          t.Description,
		TransactionDate:      t.Date,
		PaymentMode:          string(t.PaymentMode),
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

func transactionFromModel(m *Transaction) *transaction.Transaction {
	t := &transaction.Transaction{
		ID:                   m.ID,
		AccountID:            m.AccountID,
		CategoryID:           m.CategoryID,
		RelatedTransactionID: m.RelatedTransactionID,
		Amount:               m.Amount,
		Type:                 transaction.Type(m.Type),
		Description:          m.Description,
		Date:                 m.TransactionDate.UTC(),
		PaymentMode:          transaction.PaymentMode(m.PaymentMode),
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
	if m.Investment != nil {
		t.Investment = investmentFromModel(m.Investment)
	}
	return t
}

func investmentToModel(i *transaction.InvestmentMetadata) InvestmentMetadata {
	return InvestmentMetadata{
		TransactionID: i.TransactionID,
		AssetSymbol:   i.AssetSymbol,
		AssetType:     string(i.AssetType),
		Quantity:      i.Quantity,
		PricePerUnit:  i.PricePerUnit,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

func investmentFromModel(m *InvestmentMetadata) *transaction.InvestmentMetadata {
	return &transaction.InvestmentMetadata{
		TransactionID: m.TransactionID,
		AssetSymbol:   m.AssetSymbol,
		AssetType:     transaction.AssetType(m.AssetType),
		Quantity:      m.Quantity,
		PricePerUnit:  m.PricePerUnit,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
