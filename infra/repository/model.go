package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is the users row.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string    `gorm:"not null;size:255"`
	FirstName    string    `gorm:"not null;size:50"`
	LastName     string    `gorm:"not null;size:50"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string { return "users" }

// Account is the accounts row.
type Account struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name           string          `gorm:"not null;size:150"`
	Type           string          `gorm:"not null;size:20"`
	Currency       string          `gorm:"not null;size:3;default:'USD'"`
	OpeningBalance decimal.Decimal `gorm:"type:numeric(19,4);not null;default:0"`
	CurrentBalance decimal.Decimal `gorm:"type:numeric(19,4);not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Account) TableName() string { return "accounts" }

// Category is the categories row. A NULL user_id marks a global category.
type Category struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name      string     `gorm:"not null;size:100"`
	Type      string     `gorm:"not null;size:20"`
	UserID    *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Category) TableName() string { return "categories" }

// Transaction is the transactions row.
type Transaction struct {
	ID                   uuid.UUID           `gorm:"type:uuid;primaryKey"`
	AccountID            uuid.UUID           `gorm:"type:uuid;not null;index"`
	CategoryID           *uuid.UUID          `gorm:"type:uuid;index"`
	RelatedTransactionID *uuid.UUID          `gorm:"type:uuid"`
	Amount               decimal.Decimal     `gorm:"type:numeric(19,4);not null"`
	Type                 string              `gorm:"not null;size:20"`
	Description          string              `gorm:"size:500"`
	TransactionDate      time.Time           `gorm:"not null;index"`
	PaymentMode          string              `gorm:"not null;size:20"`
	Investment           *InvestmentMetadata `gorm:"foreignKey:TransactionID;references:ID"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (Transaction) TableName() string { return "transactions" }

// InvestmentMetadata is the investment_metadata row, keyed by its transaction.
type InvestmentMetadata struct {
	TransactionID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AssetSymbol   string          `gorm:"not null;size:50"`
	AssetType     string          `gorm:"not null;size:20"`
	Quantity      decimal.Decimal `gorm:"type:numeric(19,8);not null"`
	PricePerUnit  decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (InvestmentMetadata) TableName() string { return "investment_metadata" }
