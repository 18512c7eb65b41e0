// internal/storage/storage.go
package storage

import (
	"context"
	"errors"

	"budget-api/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound covers both "does not exist" and "owned by another
	// user". Callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a uniqueness constraint is hit
	// (username, category name per user, budget per category+month).
	ErrAlreadyExists = errors.New("already exists")

	// ErrInUse is returned when deleting a category still referenced by
	// transactions or budgets.
	ErrInUse = errors.New("referenced by other records")
)

// TransactionFilter holds optional criteria combined with logical AND.
// Nil fields are ignored. Date bounds are inclusive.
type TransactionFilter struct {
	Type       *domain.TransactionType
	CategoryID *int64
	StartDate  *domain.Date
	EndDate    *domain.Date
}

// TransactionData is the full set of writable transaction fields.
// A zero Date means "default to today" on create.
type TransactionData struct {
	Amount      decimal.Decimal
	CategoryID  int64
	Type        domain.TransactionType
	Date        domain.Date
	Description string
}

// BudgetData is the full set of writable budget fields.
type BudgetData struct {
	Value      decimal.Decimal
	Month      domain.YearMonth
	CategoryID int64
}

type UserStorage interface {
	// CreateUser returns ErrAlreadyExists if the username is taken.
	CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error)
	// UserByUsername returns (nil, nil) when no user matches.
	UserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// CategoryStorage is owner-scoped: every method only ever sees the
// given user's categories.
type CategoryStorage interface {
	CreateCategory(ctx context.Context, owner *domain.User, name string, typ domain.TransactionType) (*domain.Category, error)
	// Categories lists all of the owner's categories sorted by name.
	Categories(ctx context.Context, owner *domain.User) ([]domain.Category, error)
	CategoriesByType(ctx context.Context, owner *domain.User, typ domain.TransactionType) ([]domain.Category, error)
	// CategoryByID returns (nil, nil) when absent or owned by another user.
	CategoryByID(ctx context.Context, owner *domain.User, id int64) (*domain.Category, error)
	// UpdateCategory is a full replace of name and type.
	UpdateCategory(ctx context.Context, owner *domain.User, id int64, name string, typ domain.TransactionType) (*domain.Category, error)
	// DeleteCategory is an idempotent no-op for absent or foreign ids.
	// Returns ErrInUse when transactions or budgets still reference it.
	DeleteCategory(ctx context.Context, owner *domain.User, id int64) error
	// CategoryExists checks name uniqueness case-insensitively. Advisory:
	// the create path enforces the same rule atomically.
	CategoryExists(ctx context.Context, owner *domain.User, name string) (bool, error)
}

type TransactionStorage interface {
	// CreateTransaction resolves the category by id within the owner's
	// data and returns ErrNotFound when it cannot.
	CreateTransaction(ctx context.Context, owner *domain.User, data TransactionData) (*domain.Transaction, error)
	// Transactions lists all of the owner's transactions, newest first.
	Transactions(ctx context.Context, owner *domain.User) ([]domain.Transaction, error)
	// FilterTransactions applies owner scoping first, then the criteria.
	// Results keep the store's natural order.
	FilterTransactions(ctx context.Context, owner *domain.User, filter TransactionFilter) ([]domain.Transaction, error)
	UpdateTransaction(ctx context.Context, owner *domain.User, id int64, data TransactionData) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, owner *domain.User, id int64) error
}

type BudgetStorage interface {
	CreateBudget(ctx context.Context, owner *domain.User, data BudgetData) (*domain.Budget, error)
	// Budgets lists all of the owner's budgets, most recent month first.
	Budgets(ctx context.Context, owner *domain.User) ([]domain.Budget, error)
	// BudgetByID returns (nil, nil) when absent or owned by another user.
	BudgetByID(ctx context.Context, owner *domain.User, id int64) (*domain.Budget, error)
	UpdateBudget(ctx context.Context, owner *domain.User, id int64, data BudgetData) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, owner *domain.User, id int64) error
	// BudgetExists is the advisory pre-check for the one-budget-per-
	// category-and-month rule; create enforces it atomically.
	BudgetExists(ctx context.Context, owner *domain.User, categoryID int64, month domain.YearMonth) (bool, error)
	BudgetsByMonth(ctx context.Context, owner *domain.User, month domain.YearMonth) ([]domain.Budget, error)
	// BudgetMonths lists the distinct months with budgets, newest first.
	BudgetMonths(ctx context.Context, owner *domain.User) ([]domain.YearMonth, error)
}

// Storage is the full persistence surface the API is wired against.
type Storage interface {
	UserStorage
	CategoryStorage
	TransactionStorage
	BudgetStorage
}
