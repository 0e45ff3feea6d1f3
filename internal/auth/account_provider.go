package auth

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/wedding-planner-api/internal/models"
	"github.com/wedding-planner-api/internal/repository"
	"github.com/wedding-planner-api/internal/validation"
)

// ProviderOptions configures an AccountProvider
type ProviderOptions struct {
	MinPasswordLength int
	// SignInRate and SignInBurst bound failed sign-in attempts per email
	SignInRate  float64
	SignInBurst int
	BcryptCost  int
	// DisableSignUp rejects new accounts with operation-not-allowed
	DisableSignUp bool
	Observer      Observer
}

// AccountProvider is a Provider backed by an account repository
type AccountProvider struct {
	repo repository.AccountRepository
	opts ProviderOptions
	log  zerolog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

var (
	_ Provider = (*AccountProvider)(nil)
	_ Pruner   = (*AccountProvider)(nil)
)

// NewAccountProvider creates a provider over repo
func NewAccountProvider(repo repository.AccountRepository, opts ProviderOptions, log zerolog.Logger) *AccountProvider {
	if opts.MinPasswordLength <= 0 {
		opts.MinPasswordLength = 6
	}
	if opts.SignInRate <= 0 {
		opts.SignInRate = 0.2
	}
	if opts.SignInBurst <= 0 {
		opts.SignInBurst = 5
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	return &AccountProvider{
		repo:     repo,
		opts:     opts,
		log:      log.With().Str("component", "auth").Logger(),
		limiters: make(map[string]*rate.Limiter),
	}
}

// SignUp creates an account and returns its user
func (p *AccountProvider) SignUp(ctx context.Context, req SignUpRequest) (*User, error) {
	user, err := p.signUp(ctx, req)
	p.observe("signup", err)
	return user, err
}

func (p *AccountProvider) signUp(ctx context.Context, req SignUpRequest) (*User, error) {
	if p.opts.DisableSignUp {
		return nil, newError(CodeOperationNotAllowed, nil)
	}

	email := normalizeEmail(req.Email)
	if !validation.IsEmail(email) {
		return nil, newError(CodeInvalidEmail, nil)
	}
	if len(req.Password) < p.opts.MinPasswordLength {
		return nil, newError(CodeWeakPassword, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), p.opts.BcryptCost)
	if err != nil {
		// only passwords over 72 bytes fail here
		return nil, newError(CodeWeakPassword, err)
	}

	account := &models.Account{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  strings.TrimSpace(req.Username),
		PasswordHash: hash,
	}
	if err := p.repo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, newError(CodeEmailInUse, err)
		}
		return nil, storeError(err)
	}

	p.log.Info().Str("account_id", account.ID).Msg("Account created")
	return userFromAccount(account), nil
}

// SignIn checks credentials and returns the account's user
func (p *AccountProvider) SignIn(ctx context.Context, email, password string) (*User, error) {
	user, err := p.signIn(ctx, email, password)
	p.observe("signin", err)
	return user, err
}

func (p *AccountProvider) signIn(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)
	if !validation.IsEmail(email) {
		return nil, newError(CodeInvalidEmail, nil)
	}

	limiter := p.limiter(email)
	if limiter.Tokens() < 1 {
		p.log.Warn().Str("email", email).Msg("Sign-in throttled")
		return nil, newError(CodeTooManyRequests, nil)
	}

	account, err := p.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err)
	}
	if account == nil {
		limiter.Allow()
		return nil, newError(CodeUserNotFound, nil)
	}

	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		limiter.Allow()
		return nil, newError(CodeWrongPassword, nil)
	}

	p.forget(email)
	return userFromAccount(account), nil
}

// SignOut ends the user's session with the provider
func (p *AccountProvider) SignOut(ctx context.Context, user *User) error {
	if user != nil {
		p.log.Debug().Str("account_id", user.ID).Msg("Signed out")
	}
	p.observe("signout", nil)
	return nil
}

// limiter returns the failed-attempt bucket of email
func (p *AccountProvider) limiter(email string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, ok := p.limiters[email]
	if !ok {
		l = rate.NewLimiter(rate.Limit(p.opts.SignInRate), p.opts.SignInBurst)
		p.limiters[email] = l
	}
	return l
}

func (p *AccountProvider) forget(email string) {
	p.mu.Lock()
	delete(p.limiters, email)
	p.mu.Unlock()
}

// Prune drops the buckets of emails that have refilled completely and
// returns how many were dropped
func (p *AccountProvider) Prune() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	pruned := 0
	for email, l := range p.limiters {
		if l.Tokens() >= float64(p.opts.SignInBurst) {
			delete(p.limiters, email)
			pruned++
		}
	}
	if pruned > 0 {
		p.log.Debug().Int("count", pruned).Msg("Sign-in buckets pruned")
	}
	return pruned
}

// Tracked returns how many emails currently hold a sign-in bucket
func (p *AccountProvider) Tracked() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.limiters)
}

func (p *AccountProvider) observe(op string, err error) {
	if p.opts.Observer == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(CodeOf(err))
	}
	p.opts.Observer.AuthAttempt(op, outcome)
}

// storeError classifies an account store failure
func storeError(err error) *Error {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return newError(CodeNetwork, err)
	}
	return newError(CodeInternal, err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
