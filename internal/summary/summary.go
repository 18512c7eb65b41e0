// internal/summary/summary.go

// Package summary derives budgeted-vs-spent views from budgets and
// transactions. Summaries are recomputed on every call; nothing here is
// persisted or cached.
package summary

import (
	"context"

	"budget-api/internal/domain"
	"budget-api/internal/storage"

	"github.com/shopspring/decimal"
)

type Engine struct {
	budgets      storage.BudgetStorage
	transactions storage.TransactionStorage
}

func NewEngine(budgets storage.BudgetStorage, transactions storage.TransactionStorage) *Engine {
	return &Engine{budgets: budgets, transactions: transactions}
}

// BudgetSummary computes spent and remaining amounts for one budget.
// Returns storage.ErrNotFound when the budget does not resolve for the
// owner.
func (e *Engine) BudgetSummary(ctx context.Context, owner *domain.User, budgetID int64) (*domain.BudgetSummary, error) {
	budget, err := e.budgets.BudgetByID(ctx, owner, budgetID)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, storage.ErrNotFound
	}
	return e.summarize(ctx, owner, budget)
}

// MonthlySummaries computes a summary for every budget in the month,
// each one independently.
func (e *Engine) MonthlySummaries(ctx context.Context, owner *domain.User, month domain.YearMonth) ([]domain.BudgetSummary, error) {
	budgets, err := e.budgets.BudgetsByMonth(ctx, owner, month)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.BudgetSummary, 0, len(budgets))
	for i := range budgets {
		s, err := e.summarize(ctx, owner, &budgets[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *s)
	}
	return summaries, nil
}

// summarize reuses the transaction store's filter contract so that
// "what counts as spending" has a single definition: EXPENSE
// transactions in the budget's category between the first and last day
// of its month, scoped to the same owner.
func (e *Engine) summarize(ctx context.Context, owner *domain.User, budget *domain.Budget) (*domain.BudgetSummary, error) {
	expense := domain.Expense
	start := budget.Month.FirstDay()
	end := budget.Month.LastDay()

	expenses, err := e.transactions.FilterTransactions(ctx, owner, storage.TransactionFilter{
		Type:       &expense,
		CategoryID: &budget.Category.ID,
		StartDate:  &start,
		EndDate:    &end,
	})
	if err != nil {
		return nil, err
	}

	spent := decimal.Zero
	for _, tx := range expenses {
		spent = spent.Add(tx.Amount)
	}

	return &domain.BudgetSummary{
		BudgetID:  budget.ID,
		Category:  budget.Category,
		Budgeted:  budget.Value,
		Spent:     spent,
		Remaining: budget.Value.Sub(spent), // may go negative, never clamped
	}, nil
}
