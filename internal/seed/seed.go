// internal/seed/seed.go

// Package seed loads a demo user with a few months of data so the API
// is explorable right after startup.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"budget-api/internal/domain"
	"budget-api/internal/storage"
	"budget-api/internal/users"

	"github.com/shopspring/decimal"
)

// Username is the login of the seeded demo account.
const Username = "demoUser"

const demoPassword = "demoPassword"

// Run seeds demo data once. It is a no-op when the demo user already
// exists, so restarts never duplicate anything.
func Run(ctx context.Context, userService *users.Service, store storage.Storage) error {
	existing, err := store.UserByUsername(ctx, Username)
	if err != nil {
		return fmt.Errorf("check demo user: %w", err)
	}
	if existing != nil {
		slog.Info("demo data already present, skipping seed")
		return nil
	}

	if err := userService.Register(ctx, Username, demoPassword); err != nil {
		return fmt.Errorf("register demo user: %w", err)
	}
	owner, err := userService.Resolve(ctx, Username)
	if err != nil {
		return fmt.Errorf("resolve demo user: %w", err)
	}

	expenseNames := []string{"Groceries", "Rent", "Utilities", "Entertainment"}
	expenses := make([]*domain.Category, 0, len(expenseNames))
	for _, name := range expenseNames {
		cat, err := store.CreateCategory(ctx, owner, name, domain.Expense)
		if err != nil {
			return fmt.Errorf("create category %q: %w", name, err)
		}
		expenses = append(expenses, cat)
	}
	salary, err := store.CreateCategory(ctx, owner, "Salary", domain.Income)
	if err != nil {
		return fmt.Errorf("create category Salary: %w", err)
	}

	caps := map[string]decimal.Decimal{
		"Groceries":     decimal.NewFromInt(500),
		"Rent":          decimal.NewFromInt(1500),
		"Utilities":     decimal.NewFromInt(200),
		"Entertainment": decimal.NewFromInt(150),
	}

	rng := rand.New(rand.NewSource(42)) // stable demo data across runs
	current := domain.YearMonthOf(domain.Today().Time())

	for offset := 0; offset < 3; offset++ {
		month := current.AddMonths(-offset)

		for _, cat := range expenses {
			if _, err := store.CreateBudget(ctx, owner, storage.BudgetData{
				Value:      caps[cat.Name],
				Month:      month,
				CategoryID: cat.ID,
			}); err != nil {
				return fmt.Errorf("create budget for %q: %w", cat.Name, err)
			}

			// A few expense entries scattered over the month.
			for i := 0; i < 3; i++ {
				day := 1 + rng.Intn(28)
				amount := decimal.NewFromInt(int64(5 + rng.Intn(80)))
				date := domain.NewDate(month.Time().Year(), month.Time().Month(), day)
				if _, err := store.CreateTransaction(ctx, owner, storage.TransactionData{
					Amount:      amount,
					CategoryID:  cat.ID,
					Type:        domain.Expense,
					Date:        date,
					Description: fmt.Sprintf("Demo %s purchase", cat.Name),
				}); err != nil {
					return fmt.Errorf("create transaction for %q: %w", cat.Name, err)
				}
			}
		}

		if _, err := store.CreateTransaction(ctx, owner, storage.TransactionData{
			Amount:      decimal.NewFromInt(4200),
			CategoryID:  salary.ID,
			Type:        domain.Income,
			Date:        month.FirstDay(),
			Description: "Monthly salary",
		}); err != nil {
			return fmt.Errorf("create salary transaction: %w", err)
		}
	}

	slog.Info("demo data seeded", "username", Username)
	return nil
}
