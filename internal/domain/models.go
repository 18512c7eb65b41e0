// internal/domain/models.go
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// Process-wide switch on the shared decimal package: every Decimal in
	// this binary marshals as a bare JSON number ("amount": 19.99), the
	// shape the web frontend expects. Any other code importing
	// shopspring/decimal in the same process sees the same setting.
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType is the direction of a category or transaction.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// ParseTransactionType validates a raw type string.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case Income, Expense:
		return TransactionType(s), nil
	}
	return "", fmt.Errorf("invalid transaction type %q", s)
}

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// Category is a named bucket owned by a single user.
type Category struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Type   TransactionType `json:"type"`
	UserID int64           `json:"-"`
}

// Transaction is one ledger entry. Type is a snapshot of the category's
// type at creation time and is never re-derived when the category changes.
type Transaction struct {
	ID          int64           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
	Type        TransactionType `json:"type"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	UserID      int64           `json:"-"`
}

// Budget caps spending for one category in one calendar month.
type Budget struct {
	ID       int64           `json:"id"`
	Value    decimal.Decimal `json:"value"`
	Month    YearMonth       `json:"month"`
	Category Category        `json:"category"`
	UserID   int64           `json:"-"`
}

// BudgetSummary is derived on every read, never persisted.
type BudgetSummary struct {
	BudgetID  int64           `json:"id"`
	Category  Category        `json:"category"`
	Budgeted  decimal.Decimal `json:"budgeted"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

// Month is the display view of a YearMonth used by month listings.
type Month struct {
	Value   string `json:"value"`
	Display string `json:"display"`
}
