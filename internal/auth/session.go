package auth

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wedding-planner-api/internal/navigation"
	"github.com/wedding-planner-api/internal/validation"
)

// Listener is called with the current user whenever it changes. A nil user
// means signed out.
type Listener func(*User)

// Session is one client's view of authentication: the signed-in user, the
// in-flight request guard, and the client's navigator
type Session struct {
	provider Provider
	forms    *validation.FormValidator
	nav      *navigation.Stack
	log      zerolog.Logger

	mu           sync.Mutex
	user         *User
	pending      bool
	listeners    map[int]Listener
	nextListener int
}

// NewSession creates a signed-out session at the Splash route
func NewSession(provider Provider, forms *validation.FormValidator, log zerolog.Logger) *Session {
	if forms == nil {
		forms = validation.NewFormValidator()
	}
	return &Session{
		provider:  provider,
		forms:     forms,
		nav:       navigation.NewStack(),
		log:       log,
		listeners: make(map[int]Listener),
	}
}

// Current returns the signed-in user, nil when signed out
func (s *Session) Current() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Pending reports whether a sign-in or sign-up is in flight
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Navigator returns the session's route stack
func (s *Session) Navigator() *navigation.Stack {
	return s.nav
}

// Subscribe registers fn for user changes and calls it once with the current
// user. The returned func removes the listener.
func (s *Session) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	current := s.user
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// SignIn validates the form, asks the provider, and on success moves the
// navigator to MainTabs
func (s *Session) SignIn(ctx context.Context, form validation.SignInForm) (*User, error) {
	if errs := s.forms.ValidateSignIn(form); len(errs) > 0 {
		return nil, &FormError{Errors: errs}
	}
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	user, err := s.provider.SignIn(ctx, form.Email, form.Password)
	if err != nil {
		s.log.Debug().Str("code", string(CodeOf(err))).Msg("Sign-in failed")
		return nil, err
	}

	s.setUser(user)
	if err := s.nav.Navigate(navigation.MainTabs, nil); err != nil {
		return user, err
	}
	return user, nil
}

// SignUp validates the form, creates the account, and on success moves the
// navigator to Setup
func (s *Session) SignUp(ctx context.Context, form validation.SignUpForm) (*User, error) {
	if errs := s.forms.ValidateSignUp(form); len(errs) > 0 {
		return nil, &FormError{Errors: errs}
	}
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	user, err := s.provider.SignUp(ctx, SignUpRequest{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		s.log.Debug().Str("code", string(CodeOf(err))).Msg("Sign-up failed")
		return nil, err
	}

	s.setUser(user)
	if err := s.nav.Navigate(navigation.Setup, nil); err != nil {
		return user, err
	}
	return user, nil
}

// SignOut clears the user and returns the navigator to SignIn
func (s *Session) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx, s.Current()); err != nil {
		return err
	}
	s.setUser(nil)
	return s.nav.Reset(navigation.SignIn)
}

func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		return ErrRequestPending
	}
	s.pending = true
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.pending = false
	s.mu.Unlock()
}

func (s *Session) setUser(user *User) {
	s.mu.Lock()
	s.user = user
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(user)
	}
}
