package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/wedding-planner-api/internal/mocks"
	"github.com/wedding-planner-api/internal/models"
	"github.com/wedding-planner-api/internal/repository"
)

// Both in-process stores must behave like the Postgres one for callers
var stores = []struct {
	name string
	new  func() repository.AccountRepository
}{
	{"memory", repository.NewMemoryAccountRepo},
	{"mock", func() repository.AccountRepository { return mocks.NewMockAccountRepository() }},
}

func TestAccountRepository_CreateAndLookup(t *testing.T) {
	for _, s := range stores {
		t.Run(s.name, func(t *testing.T) {
			repo := s.new()
			ctx := context.Background()

			account := &models.Account{ID: "acc-1", Email: "sarah@example.com", DisplayName: "sarah", PasswordHash: []byte("hash")}
			if err := repo.Create(ctx, account); err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			byID, err := repo.GetByID(ctx, "acc-1")
			if err != nil || byID == nil {
				t.Fatalf("GetByID failed: %v, %v", byID, err)
			}
			if byID.Email != "sarah@example.com" {
				t.Errorf("Expected email sarah@example.com, got %s", byID.Email)
			}

			byEmail, err := repo.GetByEmail(ctx, "SARAH@example.com")
			if err != nil || byEmail == nil {
				t.Fatalf("Expected case-insensitive email lookup, got %v, %v", byEmail, err)
			}
			if byEmail.ID != "acc-1" {
				t.Errorf("Expected id acc-1, got %s", byEmail.ID)
			}

			missing, err := repo.GetByID(ctx, "acc-2")
			if err != nil || missing != nil {
				t.Errorf("Expected nil, nil for unknown id, got %v, %v", missing, err)
			}
		})
	}
}

func TestAccountRepository_DuplicateEmail(t *testing.T) {
	for _, s := range stores {
		t.Run(s.name, func(t *testing.T) {
			repo := s.new()
			ctx := context.Background()

			if err := repo.Create(ctx, &models.Account{ID: "acc-1", Email: "dup@example.com"}); err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			err := repo.Create(ctx, &models.Account{ID: "acc-2", Email: "Dup@Example.com"})
			if !errors.Is(err, repository.ErrDuplicateEmail) {
				t.Errorf("Expected ErrDuplicateEmail, got %v", err)
			}

			exists, err := repo.EmailExists(ctx, "dup@example.com")
			if err != nil || !exists {
				t.Errorf("Expected email to exist, got %v, %v", exists, err)
			}

			count, _ := repo.Count(ctx)
			if count != 1 {
				t.Errorf("Expected 1 account, got %d", count)
			}
		})
	}
}

func TestAccountRepository_UpdateDisplayName(t *testing.T) {
	for _, s := range stores {
		t.Run(s.name, func(t *testing.T) {
			repo := s.new()
			ctx := context.Background()

			repo.Create(ctx, &models.Account{ID: "acc-1", Email: "a@example.com", DisplayName: "before"})

			if err := repo.UpdateDisplayName(ctx, "acc-1", "after"); err != nil {
				t.Fatalf("UpdateDisplayName failed: %v", err)
			}
			// Unknown ids are ignored
			if err := repo.UpdateDisplayName(ctx, "acc-9", "nobody"); err != nil {
				t.Fatalf("UpdateDisplayName failed: %v", err)
			}

			got, _ := repo.GetByID(ctx, "acc-1")
			if got.DisplayName != "after" {
				t.Errorf("Expected display name after, got %s", got.DisplayName)
			}
		})
	}
}

func TestMemoryAccountRepo_ReturnsCopies(t *testing.T) {
	repo := repository.NewMemoryAccountRepo()
	ctx := context.Background()

	account := &models.Account{ID: "acc-1", Email: "a@example.com", DisplayName: "original"}
	repo.Create(ctx, account)
	account.DisplayName = "changed by caller"

	got, _ := repo.GetByID(ctx, "acc-1")
	if got.DisplayName != "original" {
		t.Errorf("Expected stored copy to be unaffected, got %s", got.DisplayName)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set on create")
	}
}

func TestMemoryAccountRepo_ConcurrentCreate(t *testing.T) {
	repo := repository.NewMemoryAccountRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every other goroutine races for the same email
			email := fmt.Sprintf("user%d@example.com", i)
			if i%2 == 1 {
				email = "shared@example.com"
			}
			repo.Create(ctx, &models.Account{ID: fmt.Sprintf("acc-%d", i), Email: email})
		}(i)
	}
	wg.Wait()

	count, _ := repo.Count(ctx)
	if count != 26 {
		t.Errorf("Expected 26 accounts, got %d", count)
	}
}

func TestMockAccountRepository_Errors(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	repo.CreateError = errors.New("connection refused")

	err := repo.Create(context.Background(), &models.Account{ID: "acc-1", Email: "a@example.com"})
	if err == nil || err.Error() != "connection refused" {
		t.Errorf("Expected injected error, got %v", err)
	}
	if repo.CreateCalls != 1 {
		t.Errorf("Expected 1 create call, got %d", repo.CreateCalls)
	}
}
