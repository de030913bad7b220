package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// MoneyScale is the number of decimal places kept for balances and amounts.
	MoneyScale int32 = 4
	// QuantityScale is the number of decimal places kept for asset quantities.
	QuantityScale int32 = 8
)

// ValidateScale rejects values with more than places decimal places, which
// the store would otherwise round silently.
func ValidateScale(field string, value decimal.Decimal, places int32) error {
	if value.Equal(value.Truncate(places)) {
		return nil
	}
	return NewValidationError(field, fmt.Sprintf("%s must have at most %d decimal places", field, places))
}
