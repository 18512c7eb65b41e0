// internal/storage/memory/memory_test.go
package memory

import (
	"context"
	"testing"
	"time"

	"budget-api/internal/domain"
	"budget-api/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *domain.User, *domain.User) {
	t.Helper()
	s := NewStore()
	ctx := context.Background()

	alice, err := s.CreateUser(ctx, "alice", "hash-a")
	require.NoError(t, err)
	bob, err := s.CreateUser(ctx, "bob", "hash-b")
	require.NoError(t, err)
	return s, alice, bob
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateUserDuplicate(t *testing.T) {
	s, _, _ := newTestStore(t)
	_, err := s.CreateUser(context.Background(), "alice", "other")
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestCategoryRoundTrip(t *testing.T) {
	s, alice, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateCategory(ctx, alice, "Groceries", domain.Expense)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := s.CategoryByID(ctx, alice, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Groceries", got.Name)
	assert.Equal(t, domain.Expense, got.Type)
}

func TestCategoryOwnershipIsolation(t *testing.T) {
	s, alice, bob := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, alice, "Groceries", domain.Expense)
	require.NoError(t, err)

	// Bob's get is indistinguishable from a nonexistent id.
	got, err := s.CategoryByID(ctx, bob, cat.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	missing, err := s.CategoryByID(ctx, bob, 99999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := s.Categories(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCategoriesSortedByName(t *testing.T) {
	s, alice, _ := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Utilities", "Groceries", "Rent"} {
		_, err := s.CreateCategory(ctx, alice, name, domain.Expense)
		require.NoError(t, err)
	}

	list, err := s.Categories(ctx, alice)
	require.NoError(t, err)
	names := []string{}
	for _, c := range list {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Groceries", "Rent", "Utilities"}, names)
}

func TestCategoryNameUniquePerUser(t *testing.T) {
	s, alice, bob := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateCategory(ctx, alice, "Groceries", domain.Expense)
	require.NoError(t, err)

	_, err = s.CreateCategory(ctx, alice, "groceries", domain.Expense)
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	// Same name for a different user is fine.
	_, err = s.CreateCategory(ctx, bob, "Groceries", domain.Expense)
	assert.NoError(t, err)

	exists, err := s.CategoryExists(ctx, alice, "GROCERIES")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCategoryDeleteIdempotent(t *testing.T) {
	s, alice, _ := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, alice, "Groceries", domain.Expense)
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(ctx, alice, cat.ID))
	require.NoError(t, s.DeleteCategory(ctx, alice, cat.ID))
	require.NoError(t, s.DeleteCategory(ctx, alice, 99999))
}

func TestCategoryDeleteBlockedWhenReferenced(t *testing.T) {
	s, alice, _ := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, alice, "Groceries", domain.Expense)
	require.NoError(t, err)
	_, err = s.CreateTransaction(ctx, alice, storage.TransactionData{
		Amount:     amount("10.00"),
		CategoryID: cat.ID,
		Type:       domain.Expense,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeleteCategory(ctx, alice, cat.ID), storage.ErrInUse)
}

func TestCategoryUpdateNotFoundForForeignOwner(t *testing.T) {
	s, alice, bob := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, alice, "Groceries", domain.Expense)
	require.NoError(t, err)

	_, err = s.UpdateCategory(ctx, bob, cat.ID, "Stolen", domain.Income)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	updated, err := s.UpdateCategory(ctx, alice, cat.ID, "Food", domain.Expense)
	require.NoError(t, err)
	assert.Equal(t, "Food", updated.Name)
}

func TestTransactionDefaultDateIsToday(t *testing.T) {
	s, alice, _ := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, alice, "Groceries", domain.Expense)
	require.NoError(t, err)

	tx, err := s.CreateTransaction(ctx, alice, storage.TransactionData{
		Amount:     amount("12.50"),
		CategoryID: cat.ID,
		Type:       domain.Expense,
	})
	require.NoError(t, err)
	assert.True(t, tx.Date.Equal(domain.Today()))
}

func TestTransactionCreateUnknownCategory(t *testing.T) {
	s, alice, bob := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, bob, "Groceries", domain.Expense)
	require.NoError(t, err)

	// Another user's category must not resolve.
	_, err = s.CreateTransaction(ctx, alice, storage.TransactionData{
		Amount:     amount("10.00"),
		CategoryID: cat.ID,
		Type:       domain.Expense,
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTransactionsSortedByDateDesc(t *testing.T) {
	s, alice, _ := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, alice, "Groceries", domain.Expense)
	require.NoError(t, err)

	dates := []domain.Date{
		domain.NewDate(2025, time.June, 3),
		domain.NewDate(2025, time.June, 10),
		domain.NewDate(2025, time.June, 1),
	}
	for _, d := range dates {
		_, err := s.CreateTransaction(ctx, alice, storage.TransactionData{
			Amount:     amount("1.00"),
			CategoryID: cat.ID,
			Type:       domain.Expense,
			Date:       d,
		})
		require.NoError(t, err)
	}

	list, err := s.Transactions(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2025-06-10", list[0].Date.String())
	assert.Equal(t, "2025-06-03", list[1].Date.String())
	assert.Equal(t, "2025-06-01", list[2].Date.String())
}

func TestFilterComposability(t *testing.T) {
	s, alice, _ := newTestStore(t)
	ctx := context.Background()

	groceries, err := s.CreateCategory(ctx, alice, "Groceries", domain.Expense)
	require.NoError(t, err)
	rent, err := s.CreateCategory(ctx, alice, "Rent", domain.Expense)
	require.NoError(t, err)
	salary, err := s.CreateCategory(ctx, alice, "Salary", domain.Income)
	require.NoError(t, err)

	// Four transactions across three categories and both types.
	mk := func(cat *domain.Category, typ domain.TransactionType, day int, amt string) {
		_, err := s.CreateTransaction(ctx, alice, storage.TransactionData{
			Amount:     amount(amt),
			CategoryID: cat.ID,
			Type:       typ,
			Date:       domain.NewDate(2025, time.June, day),
		})
		require.NoError(t, err)
	}
	mk(groceries, domain.Expense, 2, "40.00")
	mk(groceries, domain.Expense, 20, "25.00")
	mk(rent, domain.Expense, 1, "1500.00")
	mk(salary, domain.Income, 1, "4000.00")

	expense := domain.Expense
	start := domain.NewDate(2025, time.June, 1)
	end := domain.NewDate(2025, time.June, 10)
	got, err := s.FilterTransactions(ctx, alice, storage.TransactionFilter{
		Type:       &expense,
		CategoryID: &groceries.ID,
		StartDate:  &start,
		EndDate:    &end,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Amount.Equal(amount("40.00")))

	// No criteria returns everything the owner has.
	all, err := s.FilterTransactions(ctx, alice, storage.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestFilterScopedToOwner(t *testing.T) {
	s, alice, bob := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, alice, "Groceries", domain.Expense)
	require.NoError(t, err)
	_, err = s.CreateTransaction(ctx, alice, storage.TransactionData{
		Amount:     amount("10.00"),
		CategoryID: cat.ID,
		Type:       domain.Expense,
	})
	require.NoError(t, err)

	got, err := s.FilterTransactions(ctx, bob, storage.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTransactionDeleteIdempotent(t *testing.T) {
	s, alice, bob := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, alice, "Groceries", domain.Expense)
	require.NoError(t, err)
	tx, err := s.CreateTransaction(ctx, alice, storage.TransactionData{
		Amount:     amount("10.00"),
		CategoryID: cat.ID,
		Type:       domain.Expense,
	})
	require.NoError(t, err)

	// Bob's delete must be a silent no-op, leaving the record intact.
	require.NoError(t, s.DeleteTransaction(ctx, bob, tx.ID))
	list, err := s.Transactions(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.DeleteTransaction(ctx, alice, tx.ID))
	require.NoError(t, s.DeleteTransaction(ctx, alice, tx.ID))
}

func TestBudgetUniquePerCategoryAndMonth(t *testing.T) {
	s, alice, _ := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, alice, "Groceries", domain.Expense)
	require.NoError(t, err)
	month := domain.NewYearMonth(2025, time.June)

	_, err = s.CreateBudget(ctx, alice, storage.BudgetData{
		Value: amount("500.00"), Month: month, CategoryID: cat.ID,
	})
	require.NoError(t, err)

	_, err = s.CreateBudget(ctx, alice, storage.BudgetData{
		Value: amount("300.00"), Month: month, CategoryID: cat.ID,
	})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	exists, err := s.BudgetExists(ctx, alice, cat.ID, month)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.BudgetExists(ctx, alice, cat.ID, month.AddMonths(1))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBudgetsSortedByMonthDesc(t *testing.T) {
	s, alice, _ := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, alice, "Groceries", domain.Expense)
	require.NoError(t, err)

	for _, m := range []time.Month{time.March, time.May, time.April} {
		_, err := s.CreateBudget(ctx, alice, storage.BudgetData{
			Value: amount("100.00"), Month: domain.NewYearMonth(2025, m), CategoryID: cat.ID,
		})
		require.NoError(t, err)
	}

	budgets, err := s.Budgets(ctx, alice)
	require.NoError(t, err)
	require.Len(t, budgets, 3)
	assert.Equal(t, "2025-05", budgets[0].Month.String())
	assert.Equal(t, "2025-04", budgets[1].Month.String())
	assert.Equal(t, "2025-03", budgets[2].Month.String())
}

func TestBudgetMonthsDistinctAndDescending(t *testing.T) {
	s, alice, _ := newTestStore(t)
	ctx := context.Background()

	groceries, err := s.CreateCategory(ctx, alice, "Groceries", domain.Expense)
	require.NoError(t, err)
	rent, err := s.CreateCategory(ctx, alice, "Rent", domain.Expense)
	require.NoError(t, err)

	months := []domain.YearMonth{
		domain.NewYearMonth(2025, time.March),
		domain.NewYearMonth(2025, time.April),
		domain.NewYearMonth(2025, time.May),
	}
	for _, m := range months {
		_, err := s.CreateBudget(ctx, alice, storage.BudgetData{
			Value: amount("100.00"), Month: m, CategoryID: groceries.ID,
		})
		require.NoError(t, err)
	}
	// Second category in an existing month must not duplicate it.
	_, err = s.CreateBudget(ctx, alice, storage.BudgetData{
		Value: amount("900.00"), Month: months[2], CategoryID: rent.ID,
	})
	require.NoError(t, err)

	got, err := s.BudgetMonths(ctx, alice)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2025-05", got[0].String())
	assert.Equal(t, "2025-04", got[1].String())
	assert.Equal(t, "2025-03", got[2].String())

	views := []domain.Month{}
	for _, m := range got {
		views = append(views, m.View())
	}
	assert.Equal(t, "May 2025", views[0].Display)
	assert.Equal(t, "April 2025", views[1].Display)
	assert.Equal(t, "March 2025", views[2].Display)
}

func TestBudgetOwnershipIsolation(t *testing.T) {
	s, alice, bob := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, alice, "Groceries", domain.Expense)
	require.NoError(t, err)
	budget, err := s.CreateBudget(ctx, alice, storage.BudgetData{
		Value: amount("500.00"), Month: domain.NewYearMonth(2025, time.June), CategoryID: cat.ID,
	})
	require.NoError(t, err)

	got, err := s.BudgetByID(ctx, bob, budget.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = s.UpdateBudget(ctx, bob, budget.ID, storage.BudgetData{
		Value: amount("1.00"), Month: domain.NewYearMonth(2025, time.June), CategoryID: cat.ID,
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.DeleteBudget(ctx, bob, budget.ID))
	still, err := s.BudgetByID(ctx, alice, budget.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func TestRenamedCategoryVisibleOnReads(t *testing.T) {
	s, alice, _ := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, alice, "Groceries", domain.Expense)
	require.NoError(t, err)
	_, err = s.CreateTransaction(ctx, alice, storage.TransactionData{
		Amount: amount("10.00"), CategoryID: cat.ID, Type: domain.Expense,
		Date: domain.NewDate(2025, time.June, 5),
	})
	require.NoError(t, err)
	budget, err := s.CreateBudget(ctx, alice, storage.BudgetData{
		Value: amount("500.00"), Month: domain.NewYearMonth(2025, time.June), CategoryID: cat.ID,
	})
	require.NoError(t, err)

	_, err = s.UpdateCategory(ctx, alice, cat.ID, "Food", domain.Expense)
	require.NoError(t, err)

	// Categories are held by reference, so every read path reflects the
	// rename, like the SQL joins do.
	txs, err := s.Transactions(ctx, alice)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Food", txs[0].Category.Name)

	filtered, err := s.FilterTransactions(ctx, alice, storage.TransactionFilter{CategoryID: &cat.ID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Food", filtered[0].Category.Name)

	gotBudget, err := s.BudgetByID(ctx, alice, budget.ID)
	require.NoError(t, err)
	require.NotNil(t, gotBudget)
	assert.Equal(t, "Food", gotBudget.Category.Name)

	budgets, err := s.Budgets(ctx, alice)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, "Food", budgets[0].Category.Name)

	byMonth, err := s.BudgetsByMonth(ctx, alice, domain.NewYearMonth(2025, time.June))
	require.NoError(t, err)
	require.Len(t, byMonth, 1)
	assert.Equal(t, "Food", byMonth[0].Category.Name)
}

func TestTransactionTypeStaysSnapshotAfterCategoryChange(t *testing.T) {
	s, alice, _ := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, alice, "Refunds", domain.Expense)
	require.NoError(t, err)
	_, err = s.CreateTransaction(ctx, alice, storage.TransactionData{
		Amount: amount("15.00"), CategoryID: cat.ID, Type: domain.Expense,
		Date: domain.NewDate(2025, time.June, 5),
	})
	require.NoError(t, err)

	_, err = s.UpdateCategory(ctx, alice, cat.ID, "Refunds", domain.Income)
	require.NoError(t, err)

	txs, err := s.Transactions(ctx, alice)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	// The category's new type shows through, but the transaction keeps
	// the type it was created with.
	assert.Equal(t, domain.Income, txs[0].Category.Type)
	assert.Equal(t, domain.Expense, txs[0].Type)
}
