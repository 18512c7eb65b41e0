// internal/storage/postgres/budgets.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budget-api/internal/domain"
	"budget-api/internal/storage"

	"github.com/jackc/pgx/v5"
)

const budgetColumns = `
	b.id, b.value::text, b.month, b.user_id,
	c.id, c.name, c.type, c.user_id`

func (s *Storage) CreateBudget(ctx context.Context, owner *domain.User, data storage.BudgetData) (*domain.Budget, error) {
	cat, err := s.CategoryByID(ctx, owner, data.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, storage.ErrNotFound
	}

	budget := domain.Budget{
		Value:    data.Value,
		Month:    data.Month,
		Category: *cat,
		UserID:   owner.ID,
	}
	err = s.db.QueryRow(ctx, `
		INSERT INTO budgets (user_id, category_id, value, month)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, owner.ID, cat.ID, data.Value.String(), data.Month.Time()).Scan(&budget.ID)
	if err != nil {
		return nil, fmt.Errorf("create budget: %w", translateErr(err))
	}
	return &budget, nil
}

func (s *Storage) Budgets(ctx context.Context, owner *domain.User) ([]domain.Budget, error) {
	return s.queryBudgets(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.user_id = $1
		ORDER BY b.month DESC
	`, owner.ID)
}

func (s *Storage) BudgetsByMonth(ctx context.Context, owner *domain.User, month domain.YearMonth) ([]domain.Budget, error) {
	return s.queryBudgets(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.user_id = $1 AND b.month = $2
	`, owner.ID, month.Time())
}

func (s *Storage) queryBudgets(ctx context.Context, query string, args ...any) ([]domain.Budget, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	budgets := []domain.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func scanBudget(row pgx.Row) (domain.Budget, error) {
	var (
		b     domain.Budget
		value string
		month time.Time
	)
	err := row.Scan(
		&b.ID, &value, &month, &b.UserID,
		&b.Category.ID, &b.Category.Name, &b.Category.Type, &b.Category.UserID,
	)
	if err != nil {
		return domain.Budget{}, fmt.Errorf("scan budget: %w", err)
	}
	b.Month = domain.YearMonthOf(month)
	b.Value, err = scanAmount(value)
	return b, err
}

func (s *Storage) BudgetByID(ctx context.Context, owner *domain.User, id int64) (*domain.Budget, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.id = $1 AND b.user_id = $2
	`, id, owner.ID)

	b, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (s *Storage) UpdateBudget(ctx context.Context, owner *domain.User, id int64, data storage.BudgetData) (*domain.Budget, error) {
	cat, err := s.CategoryByID(ctx, owner, data.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, storage.ErrNotFound
	}

	budget := domain.Budget{
		ID:       id,
		Value:    data.Value,
		Month:    data.Month,
		Category: *cat,
		UserID:   owner.ID,
	}
	err = s.db.QueryRow(ctx, `
		UPDATE budgets SET value = $1, month = $2, category_id = $3
		WHERE id = $4 AND user_id = $5
		RETURNING id
	`, data.Value.String(), data.Month.Time(), cat.ID, id, owner.ID).Scan(&budget.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("update budget: %w", translateErr(err))
	}
	return &budget, nil
}

func (s *Storage) DeleteBudget(ctx context.Context, owner *domain.User, id int64) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM budgets WHERE id = $1 AND user_id = $2
	`, id, owner.ID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

func (s *Storage) BudgetExists(ctx context.Context, owner *domain.User, categoryID int64, month domain.YearMonth) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM budgets
			WHERE user_id = $1 AND category_id = $2 AND month = $3
		)
	`, owner.ID, categoryID, month.Time()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check budget exists: %w", err)
	}
	return exists, nil
}

func (s *Storage) BudgetMonths(ctx context.Context, owner *domain.User) ([]domain.YearMonth, error) {
	rows, err := s.db.Query(ctx, `
		SELECT DISTINCT month FROM budgets
		WHERE user_id = $1
		ORDER BY month DESC
	`, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("query budget months: %w", err)
	}
	defer rows.Close()

	months := []domain.YearMonth{}
	for rows.Next() {
		var month time.Time
		if err := rows.Scan(&month); err != nil {
			return nil, fmt.Errorf("scan month: %w", err)
		}
		months = append(months, domain.YearMonthOf(month))
	}
	return months, rows.Err()
}
