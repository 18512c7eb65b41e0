// internal/storage/postgres/users.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"budget-api/internal/domain"

	"github.com/jackc/pgx/v5"
)

func (s *Storage) CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	user := domain.User{Username: username, PasswordHash: passwordHash}
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id
	`, username, passwordHash).Scan(&user.ID)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", translateErr(err))
	}
	return &user, nil
}

func (s *Storage) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := s.db.QueryRow(ctx, `
		SELECT id, username, password_hash FROM users WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
