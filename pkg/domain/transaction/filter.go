package transaction

import (
	"time"

	"github.com/google/uuid"
)

// FilterKind names the single criterion a Filter resolves to.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterDateRange
	FilterCategory
	FilterType
	FilterAccount
)

func (k FilterKind) String() string {
	switch k {
	case FilterDateRange:
		return "dateRange"
	case FilterCategory:
		return "category"
	case FilterType:
		return "type"
	case FilterAccount:
		return "account"
	}
	return "none"
}

// Filter holds the optional listing criteria. Only one of them is applied:
// a complete date range wins over category, category over type, type over account.
type Filter struct {
	AccountID  *uuid.UUID
	CategoryID *uuid.UUID
	Type       *Type
	Start      *time.Time
	End        *time.Time
}

// Empty reports whether no criterion was supplied at all.
func (f Filter) Empty() bool {
	return f.AccountID == nil && f.CategoryID == nil && f.Type == nil && f.Start == nil && f.End == nil
}

// Kind returns the criterion that takes effect.
func (f Filter) Kind() FilterKind {
	switch {
	case f.Start != nil && f.End != nil:
		return FilterDateRange
	case f.CategoryID != nil:
		return FilterCategory
	case f.Type != nil:
		return FilterType
	case f.AccountID != nil:
		return FilterAccount
	}
	return FilterNone
}
