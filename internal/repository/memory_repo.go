package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/wedding-planner-api/internal/models"
)

// memoryAccountRepo keeps accounts in process memory
type memoryAccountRepo struct {
	mu      sync.RWMutex
	byID    map[string]*models.Account
	byEmail map[string]string
}

// NewMemoryAccountRepo creates an empty in-memory account repository
func NewMemoryAccountRepo() AccountRepository {
	return &memoryAccountRepo{
		byID:    make(map[string]*models.Account),
		byEmail: make(map[string]string),
	}
}

func (r *memoryAccountRepo) Create(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(account.Email)
	if _, ok := r.byEmail[key]; ok {
		return ErrDuplicateEmail
	}

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	stored := *account
	r.byID[account.ID] = &stored
	r.byEmail[key] = account.ID
	return nil
}

func (r *memoryAccountRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (r *memoryAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	id, ok := r.byEmail[strings.ToLower(email)]
	r.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r *memoryAccountRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[strings.ToLower(email)]
	return ok, nil
}

func (r *memoryAccountRepo) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.byID[id]; ok {
		a.DisplayName = displayName
		a.UpdatedAt = time.Now()
	}
	return nil
}

func (r *memoryAccountRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}
