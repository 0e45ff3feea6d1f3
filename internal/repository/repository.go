package repository

import (
	"context"
	"errors"

	"github.com/wedding-planner-api/internal/database"
	"github.com/wedding-planner-api/internal/models"
)

// ErrDuplicateEmail is returned by Create when the email is already registered
var ErrDuplicateEmail = errors.New("email already registered")

// AccountRepository defines the interface for account data operations.
// Lookups return nil, nil when no account matches.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) error
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Account AccountRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Account: NewAccountRepo(db),
	}
}

// NewInMemory creates repositories that live for the process lifetime
func NewInMemory() *Repositories {
	return &Repositories{
		Account: NewMemoryAccountRepo(),
	}
}
