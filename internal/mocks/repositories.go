package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/wedding-planner-api/internal/models"
	"github.com/wedding-planner-api/internal/repository"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mu       sync.Mutex
	Accounts map[string]*models.Account
	// CreateError and GetError are returned instead of touching the map
	CreateError error
	GetError    error
	// GetByEmailFunc overrides GetByEmail when set
	GetByEmailFunc func(ctx context.Context, email string) (*models.Account, error)
	CreateCalls    int
	GetCalls       int
}

// Verify interface compliance
var _ repository.AccountRepository = (*MockAccountRepository)(nil)

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts: make(map[string]*models.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls++
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, a := range m.Accounts {
		if strings.EqualFold(a.Email, account.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	stored := *account
	m.Accounts[account.ID] = &stored
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls++
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.Accounts[id], nil
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls++
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, a := range m.Accounts {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return nil, nil
}

func (m *MockAccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	a, err := m.GetByEmail(ctx, email)
	return a != nil, err
}

func (m *MockAccountRepository) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a, ok := m.Accounts[id]; ok {
		a.DisplayName = displayName
	}
	return nil
}

func (m *MockAccountRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Accounts), nil
}
