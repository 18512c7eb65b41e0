// internal/users/users.go

// Package users handles registration, login, and resolving the
// authenticated user from a verified token subject.
package users

import (
	"context"
	"errors"
	"fmt"

	"budget-api/internal/domain"
	"budget-api/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for both an unknown username and a
// wrong password, so login responses never reveal which usernames exist.
var ErrInvalidCredentials = errors.New("invalid username or password")

type Service struct {
	store storage.UserStorage
}

func NewService(store storage.UserStorage) *Service {
	return &Service{store: store}
}

// Register creates a user with a bcrypt-hashed password. Returns
// storage.ErrAlreadyExists when the username is taken.
func (s *Service) Register(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := s.store.CreateUser(ctx, username, string(hash)); err != nil {
		return err
	}
	return nil
}

// Authenticate verifies a username/password pair.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Resolve maps a verified token subject to its user record. A missing
// record means the token outlived its user; callers treat it as an
// authentication failure.
func (s *Service) Resolve(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, storage.ErrNotFound
	}
	return user, nil
}
