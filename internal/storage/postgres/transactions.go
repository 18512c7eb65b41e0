// internal/storage/postgres/transactions.go
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

const transactionColumns = `
	t.id, t.amount::text, t.type, t.date, t.description, t.user_id,
	c.id, c.name, c.type, c.user_id`

func (s *Storage) CreateTransaction(ctx context.Context, owner *domain.User, data storage.TransactionData) (*domain.Transaction, error) {
	cat, err := s.CategoryByID(ctx, owner, data.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, storage.ErrNotFound
	}

	date := data.Date
	if date.IsZero() {
		date = domain.Today()
	}

	tx := domain.Transaction{
		Amount:      data.Amount,
		Category:    *cat,
		Type:        data.Type,
		Date:        date,
		Description: data.Description,
		UserID:      owner.ID,
	}
	err = s.db.QueryRow(ctx, `
		INSERT INTO transactions (user_id, category_id, amount, type, date, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, owner.ID, cat.ID, data.Amount.String(), data.Type, date.Time(), data.Description).Scan(&tx.ID)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", translateErr(err))
	}
	return &tx, nil
}

func (s *Storage) Transactions(ctx context.Context, owner *domain.User) ([]domain.Transaction, error) {
	return s.queryTransactions(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1
		ORDER BY t.date DESC
	`, owner.ID)
}

func (s *Storage) FilterTransactions(ctx context.Context, owner *domain.User, filter storage.TransactionFilter) ([]domain.Transaction, error) {
	// Owner scoping comes first; criteria only narrow within it.
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1`
	args := []any{owner.ID}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += fmt.Sprintf(" AND t.type = $%d", len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(" AND t.category_id = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, filter.StartDate.Time())
		query += fmt.Sprintf(" AND t.date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, filter.EndDate.Time())
		query += fmt.Sprintf(" AND t.date <= $%d", len(args))
	}

	return s.queryTransactions(ctx, query, args...)
}

func (s *Storage) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var (
		tx     domain.Transaction
		amount string
		date   time.Time
	)
	err := row.Scan(
		&tx.ID, &amount, &tx.Type, &date, &tx.Description, &tx.UserID,
		&tx.Category.ID, &tx.Category.Name, &tx.Category.Type, &tx.Category.UserID,
	)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	tx.Date = domain.DateOf(date)
	tx.Amount, err = scanAmount(amount)
	return tx, err
}

func (s *Storage) UpdateTransaction(ctx context.Context, owner *domain.User, id int64, data storage.TransactionData) (*domain.Transaction, error) {
	cat, err := s.CategoryByID(ctx, owner, data.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, storage.ErrNotFound
	}

	tx := domain.Transaction{
		ID:          id,
		Amount:      data.Amount,
		Category:    *cat,
		Type:        data.Type,
		Date:        data.Date,
		Description: data.Description,
		UserID:      owner.ID,
	}
	err = s.db.QueryRow(ctx, `
		UPDATE transactions
		SET amount = $1, category_id = $2, type = $3, date = $4, description = $5
		WHERE id = $6 AND user_id = $7
		RETURNING id
	`, data.Amount.String(), cat.ID, data.Type, data.Date.Time(), data.Description, id, owner.ID).Scan(&tx.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("update transaction: %w", translateErr(err))
	}
	return &tx, nil
}

func (s *Storage) DeleteTransaction(ctx context.Context, owner *domain.User, id int64) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM transactions WHERE id = $1 AND user_id = $2
	`, id, owner.ID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}
