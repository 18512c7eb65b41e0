// internal/storage/memory/memory.go

// Package memory is an in-process implementation of the storage
// interfaces with the same ownership, uniqueness, and ordering rules as
// the Postgres backend. It backs the test suite and local demo runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"budget-api/internal/domain"
	"budget-api/internal/storage"
)

type Store struct {
	mu sync.Mutex

	users        []*domain.User
	categories   []*domain.Category
	transactions []*domain.Transaction
	budgets      []*domain.Budget

	nextID int64
}

var _ storage.Storage = (*Store)(nil)

func NewStore() *Store {
	return &Store{}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// === UserStorage ===

func (s *Store) CreateUser(_ context.Context, username, passwordHash string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return nil, storage.ErrAlreadyExists
		}
	}
	user := &domain.User{ID: s.id(), Username: username, PasswordHash: passwordHash}
	s.users = append(s.users, user)
	copied := *user
	return &copied, nil
}

func (s *Store) UserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// === CategoryStorage ===

func (s *Store) CreateCategory(_ context.Context, owner *domain.User, name string, typ domain.TransactionType) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.categoryNameTaken(owner.ID, name) {
		return nil, storage.ErrAlreadyExists
	}
	cat := &domain.Category{ID: s.id(), Name: name, Type: typ, UserID: owner.ID}
	s.categories = append(s.categories, cat)
	copied := *cat
	return &copied, nil
}

func (s *Store) categoryNameTaken(ownerID int64, name string) bool {
	for _, c := range s.categories {
		if c.UserID == ownerID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (s *Store) Categories(_ context.Context, owner *domain.User) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCategories(owner.ID, nil), nil
}

func (s *Store) CategoriesByType(_ context.Context, owner *domain.User, typ domain.TransactionType) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCategories(owner.ID, &typ), nil
}

func (s *Store) listCategories(ownerID int64, typ *domain.TransactionType) []domain.Category {
	result := []domain.Category{}
	for _, c := range s.categories {
		if c.UserID != ownerID {
			continue
		}
		if typ != nil && c.Type != *typ {
			continue
		}
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (s *Store) CategoryByID(_ context.Context, owner *domain.User, id int64) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c := s.findCategory(owner.ID, id); c != nil {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (s *Store) findCategory(ownerID, id int64) *domain.Category {
	for _, c := range s.categories {
		if c.ID == id && c.UserID == ownerID {
			return c
		}
	}
	return nil
}

// liveCategory resolves the current category record at read time, the
// way the SQL backend joins categories. Transactions and budgets hold
// their category by reference; only the transaction's type is a
// snapshot.
func (s *Store) liveCategory(ownerID, id int64) domain.Category {
	if c := s.findCategory(ownerID, id); c != nil {
		return *c
	}
	return domain.Category{ID: id}
}

func (s *Store) UpdateCategory(_ context.Context, owner *domain.User, id int64, name string, typ domain.TransactionType) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat := s.findCategory(owner.ID, id)
	if cat == nil {
		return nil, storage.ErrNotFound
	}
	if !strings.EqualFold(cat.Name, name) && s.categoryNameTaken(owner.ID, name) {
		return nil, storage.ErrAlreadyExists
	}
	cat.Name = name
	cat.Type = typ
	copied := *cat
	return &copied, nil
}

func (s *Store) DeleteCategory(_ context.Context, owner *domain.User, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat := s.findCategory(owner.ID, id)
	if cat == nil {
		return nil // idempotent
	}
	for _, t := range s.transactions {
		if t.Category.ID == id {
			return storage.ErrInUse
		}
	}
	for _, b := range s.budgets {
		if b.Category.ID == id {
			return storage.ErrInUse
		}
	}
	for i, c := range s.categories {
		if c == cat {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) CategoryExists(_ context.Context, owner *domain.User, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categoryNameTaken(owner.ID, name), nil
}

// === TransactionStorage ===

func (s *Store) CreateTransaction(_ context.Context, owner *domain.User, data storage.TransactionData) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat := s.findCategory(owner.ID, data.CategoryID)
	if cat == nil {
		return nil, storage.ErrNotFound
	}

	date := data.Date
	if date.IsZero() {
		date = domain.Today()
	}

	tx := &domain.Transaction{
		ID:          s.id(),
		Amount:      data.Amount,
		Category:    *cat,
		Type:        data.Type,
		Date:        date,
		Description: data.Description,
		UserID:      owner.ID,
	}
	s.transactions = append(s.transactions, tx)
	copied := *tx
	return &copied, nil
}

func (s *Store) Transactions(_ context.Context, owner *domain.User) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []domain.Transaction{}
	for _, t := range s.transactions {
		if t.UserID == owner.ID {
			tx := *t
			tx.Category = s.liveCategory(t.UserID, t.Category.ID)
			result = append(result, tx)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[j].Date.Before(result[i].Date) })
	return result, nil
}

func (s *Store) FilterTransactions(_ context.Context, owner *domain.User, filter storage.TransactionFilter) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Owner scope first, then criteria. Natural (insertion) order is kept.
	result := []domain.Transaction{}
	for _, t := range s.transactions {
		if t.UserID != owner.ID {
			continue
		}
		if filter.Type != nil && t.Type != *filter.Type {
			continue
		}
		if filter.CategoryID != nil && t.Category.ID != *filter.CategoryID {
			continue
		}
		if filter.StartDate != nil && t.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && t.Date.After(*filter.EndDate) {
			continue
		}
		tx := *t
		tx.Category = s.liveCategory(t.UserID, t.Category.ID)
		result = append(result, tx)
	}
	return result, nil
}

func (s *Store) UpdateTransaction(_ context.Context, owner *domain.User, id int64, data storage.TransactionData) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat := s.findCategory(owner.ID, data.CategoryID)
	if cat == nil {
		return nil, storage.ErrNotFound
	}
	for _, t := range s.transactions {
		if t.ID == id && t.UserID == owner.ID {
			t.Amount = data.Amount
			t.Category = *cat
			t.Type = data.Type
			t.Date = data.Date
			t.Description = data.Description
			copied := *t
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, owner *domain.User, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.transactions {
		if t.ID == id && t.UserID == owner.ID {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return nil
		}
	}
	return nil // idempotent
}

// === BudgetStorage ===

func (s *Store) CreateBudget(_ context.Context, owner *domain.User, data storage.BudgetData) (*domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat := s.findCategory(owner.ID, data.CategoryID)
	if cat == nil {
		return nil, storage.ErrNotFound
	}
	for _, b := range s.budgets {
		if b.UserID == owner.ID && b.Category.ID == cat.ID && b.Month.Equal(data.Month) {
			return nil, storage.ErrAlreadyExists
		}
	}

	budget := &domain.Budget{
		ID:       s.id(),
		Value:    data.Value,
		Month:    data.Month,
		Category: *cat,
		UserID:   owner.ID,
	}
	s.budgets = append(s.budgets, budget)
	copied := *budget
	return &copied, nil
}

func (s *Store) Budgets(_ context.Context, owner *domain.User) ([]domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []domain.Budget{}
	for _, b := range s.budgets {
		if b.UserID == owner.ID {
			budget := *b
			budget.Category = s.liveCategory(b.UserID, b.Category.ID)
			result = append(result, budget)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[j].Month.Before(result[i].Month) })
	return result, nil
}

func (s *Store) BudgetByID(_ context.Context, owner *domain.User, id int64) (*domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.budgets {
		if b.ID == id && b.UserID == owner.ID {
			copied := *b
			copied.Category = s.liveCategory(b.UserID, b.Category.ID)
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateBudget(_ context.Context, owner *domain.User, id int64, data storage.BudgetData) (*domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat := s.findCategory(owner.ID, data.CategoryID)
	if cat == nil {
		return nil, storage.ErrNotFound
	}
	for _, b := range s.budgets {
		if b.ID == id && b.UserID == owner.ID {
			for _, other := range s.budgets {
				if other.ID != id && other.UserID == owner.ID &&
					other.Category.ID == cat.ID && other.Month.Equal(data.Month) {
					return nil, storage.ErrAlreadyExists
				}
			}
			b.Value = data.Value
			b.Month = data.Month
			b.Category = *cat
			copied := *b
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) DeleteBudget(_ context.Context, owner *domain.User, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.budgets {
		if b.ID == id && b.UserID == owner.ID {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			return nil
		}
	}
	return nil // idempotent
}

func (s *Store) BudgetsByMonth(_ context.Context, owner *domain.User, month domain.YearMonth) ([]domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []domain.Budget{}
	for _, b := range s.budgets {
		if b.UserID == owner.ID && b.Month.Equal(month) {
			budget := *b
			budget.Category = s.liveCategory(b.UserID, b.Category.ID)
			result = append(result, budget)
		}
	}
	return result, nil
}

func (s *Store) BudgetExists(_ context.Context, owner *domain.User, categoryID int64, month domain.YearMonth) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.budgets {
		if b.UserID == owner.ID && b.Category.ID == categoryID && b.Month.Equal(month) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) BudgetMonths(_ context.Context, owner *domain.User) ([]domain.YearMonth, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]bool{}
	months := []domain.YearMonth{}
	for _, b := range s.budgets {
		if b.UserID != owner.ID || seen[b.Month.String()] {
			continue
		}
		seen[b.Month.String()] = true
		months = append(months, b.Month)
	}
	sort.Slice(months, func(i, j int) bool { return months[j].Before(months[i]) })
	return months, nil
}
