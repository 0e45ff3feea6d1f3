// Package auth adapts an email and password identity provider for client
// sessions: credential form checks, the provider error taxonomy, and the
// signed-in user with its change listeners.
package auth

import (
	"context"
	"time"

	"github.com/wedding-planner-api/internal/models"
)

// User is the signed-in identity
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// SignUpRequest carries the fields of the sign-up form the provider needs
type SignUpRequest struct {
	Username string
	Email    string
	Password string
}

// Provider is an email and password identity provider. Failures are *Error
// values with a Code.
type Provider interface {
	SignUp(ctx context.Context, req SignUpRequest) (*User, error)
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignOut(ctx context.Context, user *User) error
}

// Observer is told the outcome of every provider call. Outcome is "ok" or
// the failure code.
type Observer interface {
	AuthAttempt(op, outcome string)
}

func userFromAccount(a *models.Account) *User {
	return &User{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		CreatedAt:   a.CreatedAt,
	}
}
