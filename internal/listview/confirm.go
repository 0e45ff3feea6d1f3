package listview

import (
	"context"
	"errors"
)

// ErrConfirmationRequired is returned by RequireAnswer when no answer was
// supplied with the request
var ErrConfirmationRequired = errors.New("confirmation required")

// Confirmer is the interactive yes/no gate in front of destructive commands
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

var (
	// AlwaysConfirm accepts every prompt
	AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
	// NeverConfirm declines every prompt
	NeverConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })
)

type answerKey struct{}

// WithAnswer attaches the user's answer to the context for RequireAnswer
func WithAnswer(ctx context.Context, yes bool) context.Context {
	return context.WithValue(ctx, answerKey{}, yes)
}

// RequireAnswer reads the answer attached with WithAnswer. Request-driven
// screens use it because the question has to be answered up front; a request
// without an answer fails with ErrConfirmationRequired.
var RequireAnswer = ConfirmFunc(func(ctx context.Context, _ string) (bool, error) {
	yes, ok := ctx.Value(answerKey{}).(bool)
	if !ok {
		return false, ErrConfirmationRequired
	}
	return yes, nil
})
