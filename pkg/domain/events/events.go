package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType represents the type of an event in the system.
type EventType string

const (
	EventTypeTransactionPosted   EventType = "Transaction.Posted"
	EventTypeTransferPosted      EventType = "Transfer.Posted"
	EventTypeInvestmentPosted    EventType = "Investment.Posted"
	EventTypeTransactionReversed EventType = "Transaction.Reversed"
	EventTypeAccountOpened       EventType = "Account.Opened"
	EventTypeAccountUpdated      EventType = "Account.Updated"
	EventTypeAccountClosed       EventType = "Account.Closed"
)

// String returns the string representation of the event type.
func (et EventType) String() string {
	return string(et)
}

// Event is implemented by every ledger event.
type Event interface {
	Type() string
	// Owner is the user whose ledger changed.
	Owner() uuid.UUID
}

// Envelope carries the fields shared by all ledger events.
type Envelope struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
}

func newEnvelope(userID uuid.UUID) Envelope {
	return Envelope{ID: uuid.New(), UserID: userID, OccurredAt: time.Now().UTC()}
}

func (e Envelope) Owner() uuid.UUID { return e.UserID }

// EventID identifies one occurrence of an event across redeliveries.
func (e Envelope) EventID() uuid.UUID { return e.ID }

// TransactionPosted is emitted after an income or expense is committed.
type TransactionPosted struct {
	Envelope
	TransactionID uuid.UUID       `json:"transactionId"`
	AccountID     uuid.UUID       `json:"accountId"`
	Amount        decimal.Decimal `json:"amount"`
	TxType        string          `json:"txType"`
}

func (TransactionPosted) Type() string { return EventTypeTransactionPosted.String() }

// TransferPosted is emitted after both legs of a transfer are committed.
type TransferPosted struct {
	Envelope
	DebitTransactionID  uuid.UUID       `json:"debitTransactionId"`
	CreditTransactionID uuid.UUID       `json:"creditTransactionId"`
	FromAccountID       uuid.UUID       `json:"fromAccountId"`
	ToAccountID         uuid.UUID       `json:"toAccountId"`
	Amount              decimal.Decimal `json:"amount"`
}

func (TransferPosted) Type() string { return EventTypeTransferPosted.String() }

// InvestmentPosted is emitted after a trade and its metadata are committed.
type InvestmentPosted struct {
	Envelope
	TransactionID uuid.UUID       `json:"transactionId"`
	AccountID     uuid.UUID       `json:"accountId"`
	AssetSymbol   string          `json:"assetSymbol"`
	Quantity      decimal.Decimal `json:"quantity"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

func (InvestmentPosted) Type() string { return EventTypeInvestmentPosted.String() }

// TransactionReversed is emitted after a transaction is deleted and its balance effect undone.
type TransactionReversed struct {
	Envelope
	TransactionID uuid.UUID       `json:"transactionId"`
	AccountID     uuid.UUID       `json:"accountId"`
	Amount        decimal.Decimal `json:"amount"`
}

func (TransactionReversed) Type() string { return EventTypeTransactionReversed.String() }

// NewTransactionPosted builds a TransactionPosted event.
func NewTransactionPosted(userID, transactionID, accountID uuid.UUID, amount decimal.Decimal, txType string) *TransactionPosted {
	return &TransactionPosted{
		Envelope:      newEnvelope(userID),
		TransactionID: transactionID,
		AccountID:     accountID,
		Amount:        amount,
		TxType:        txType,
	}
}

// NewTransferPosted builds a TransferPosted event.
func NewTransferPosted(userID, debitID, creditID, from, to uuid.UUID, amount decimal.Decimal) *TransferPosted {
	return &TransferPosted{
		Envelope:            newEnvelope(userID),
		DebitTransactionID:  debitID,
		CreditTransactionID: creditID,
		FromAccountID:       from,
		ToAccountID:         to,
		Amount:              amount,
	}
}

// NewInvestmentPosted builds an InvestmentPosted event.
func NewInvestmentPosted(
	userID, transactionID, accountID uuid.UUID,
	symbol string,
	quantity, total decimal.Decimal,
) *InvestmentPosted {
	return &InvestmentPosted{
		Envelope:      newEnvelope(userID),
		TransactionID: transactionID,
		AccountID:     accountID,
		AssetSymbol:   symbol,
		Quantity:      quantity,
		TotalAmount:   total,
	}
}

// NewTransactionReversed builds a TransactionReversed event.
func NewTransactionReversed(userID, transactionID, accountID uuid.UUID, amount decimal.Decimal) *TransactionReversed {
	return &TransactionReversed{
		Envelope:      newEnvelope(userID),
		TransactionID: transactionID,
		AccountID:     accountID,
		Amount:        amount,
	}
}

// AccountChanged is emitted after an account is opened, updated or closed.
// Kind carries which of the three it was.
type AccountChanged struct {
	Envelope
	Kind           EventType       `json:"kind"`
	AccountID      uuid.UUID       `json:"accountId"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

func (e AccountChanged) Type() string { return e.Kind.String() }

func newAccountChanged(kind EventType, userID, accountID uuid.UUID, opening decimal.Decimal) *AccountChanged {
	return &AccountChanged{
		Envelope:       newEnvelope(userID),
		Kind:           kind,
		AccountID:      accountID,
		OpeningBalance: opening,
	}
}

// NewAccountOpened builds the event for a new account and its opening balance.
func NewAccountOpened(userID, accountID uuid.UUID, opening decimal.Decimal) *AccountChanged {
	return newAccountChanged(EventTypeAccountOpened, userID, accountID, opening)
}

// NewAccountUpdated builds the event for a renamed or relabelled account.
func NewAccountUpdated(userID, accountID uuid.UUID) *AccountChanged {
	return newAccountChanged(EventTypeAccountUpdated, userID, accountID, decimal.Zero)
}

// NewAccountClosed builds the event for a deleted account.
func NewAccountClosed(userID, accountID uuid.UUID) *AccountChanged {
	return newAccountChanged(EventTypeAccountClosed, userID, accountID, decimal.Zero)
}

// EventTypes maps a wire type name to a constructor used when decoding from a broker.
var EventTypes = map[EventType]func() Event{
	EventTypeTransactionPosted:   func() Event { return &TransactionPosted{} },
	EventTypeTransferPosted:      func() Event { return &TransferPosted{} },
	EventTypeInvestmentPosted:    func() Event { return &InvestmentPosted{} },
	EventTypeTransactionReversed: func() Event { return &TransactionReversed{} },
	EventTypeAccountOpened:       func() Event { return &AccountChanged{Kind: EventTypeAccountOpened} },
	EventTypeAccountUpdated:      func() Event { return &AccountChanged{Kind: EventTypeAccountUpdated} },
	EventTypeAccountClosed:       func() Event { return &AccountChanged{Kind: EventTypeAccountClosed} },
}

// LedgerEventTypes lists every event that changes a user's balances or the
// set of accounts they are totalled over.
func LedgerEventTypes() []EventType {
	return []EventType{
		EventTypeTransactionPosted,
		EventTypeTransferPosted,
		EventTypeInvestmentPosted,
		EventTypeTransactionReversed,
		EventTypeAccountOpened,
		EventTypeAccountUpdated,
		EventTypeAccountClosed,
	}
}
