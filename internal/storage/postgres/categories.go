// internal/storage/postgres/categories.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"budget-api/internal/domain"
	"budget-api/internal/storage"

	"github.com/jackc/pgx/v5"
)

func (s *Storage) CreateCategory(ctx context.Context, owner *domain.User, name string, typ domain.TransactionType) (*domain.Category, error) {
	cat := domain.Category{Name: name, Type: typ, UserID: owner.ID}
	err := s.db.QueryRow(ctx, `
		INSERT INTO categories (user_id, name, type)
		VALUES ($1, $2, $3)
		RETURNING id
	`, owner.ID, name, typ).Scan(&cat.ID)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", translateErr(err))
	}
	return &cat, nil
}

func (s *Storage) Categories(ctx context.Context, owner *domain.User) ([]domain.Category, error) {
	return s.queryCategories(ctx, `
		SELECT id, name, type, user_id FROM categories
		WHERE user_id = $1
		ORDER BY name
	`, owner.ID)
}

func (s *Storage) CategoriesByType(ctx context.Context, owner *domain.User, typ domain.TransactionType) ([]domain.Category, error) {
	return s.queryCategories(ctx, `
		SELECT id, name, type, user_id FROM categories
		WHERE user_id = $1 AND type = $2
		ORDER BY name
	`, owner.ID, typ)
}

func (s *Storage) queryCategories(ctx context.Context, query string, args ...any) ([]domain.Category, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Type, &cat.UserID); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (s *Storage) CategoryByID(ctx context.Context, owner *domain.User, id int64) (*domain.Category, error) {
	var cat domain.Category
	err := s.db.QueryRow(ctx, `
		SELECT id, name, type, user_id FROM categories
		WHERE id = $1 AND user_id = $2
	`, id, owner.ID).Scan(&cat.ID, &cat.Name, &cat.Type, &cat.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &cat, nil
}

func (s *Storage) UpdateCategory(ctx context.Context, owner *domain.User, id int64, name string, typ domain.TransactionType) (*domain.Category, error) {
	cat := domain.Category{ID: id, Name: name, Type: typ, UserID: owner.ID}
	err := s.db.QueryRow(ctx, `
		UPDATE categories SET name = $1, type = $2
		WHERE id = $3 AND user_id = $4
		RETURNING id
	`, name, typ, id, owner.ID).Scan(&cat.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("update category: %w", translateErr(err))
	}
	return &cat, nil
}

func (s *Storage) DeleteCategory(ctx context.Context, owner *domain.User, id int64) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM categories WHERE id = $1 AND user_id = $2
	`, id, owner.ID)
	if err != nil {
		return fmt.Errorf("delete category: %w", translateErr(err))
	}
	return nil
}

func (s *Storage) CategoryExists(ctx context.Context, owner *domain.User, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM categories WHERE user_id = $1 AND lower(name) = lower($2)
		)
	`, owner.ID, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category name: %w", err)
	}
	return exists, nil
}
