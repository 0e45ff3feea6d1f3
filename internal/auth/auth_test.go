package auth_test

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wedding-planner-api/internal/auth"
	"github.com/wedding-planner-api/internal/mocks"
	"github.com/wedding-planner-api/internal/navigation"
	"github.com/wedding-planner-api/internal/validation"
)

type recordingObserver struct {
	mu       sync.Mutex
	attempts []string
}

func (o *recordingObserver) AuthAttempt(op, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attempts = append(o.attempts, op+":"+outcome)
}

func newProvider(t *testing.T, opts auth.ProviderOptions) (*auth.AccountProvider, *mocks.MockAccountRepository) {
	t.Helper()
	repo := mocks.NewMockAccountRepository()
	opts.BcryptCost = bcrypt.MinCost
	return auth.NewAccountProvider(repo, opts, zerolog.New(io.Discard)), repo
}

func TestAccountProvider_SignUpThenSignIn(t *testing.T) {
	p, repo := newProvider(t, auth.ProviderOptions{})
	ctx := context.Background()

	user, err := p.SignUp(ctx, auth.SignUpRequest{Username: " Emily ", Email: "Emily@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "emily@example.com", user.Email)
	assert.Equal(t, "Emily", user.DisplayName)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, 1, repo.CreateCalls)

	signedIn, err := p.SignIn(ctx, "EMILY@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)
}

func TestAccountProvider_ErrorCodes(t *testing.T) {
	p, _ := newProvider(t, auth.ProviderOptions{})
	ctx := context.Background()

	_, err := p.SignUp(ctx, auth.SignUpRequest{Username: "emily", Email: "emily@example.com", Password: "secret1"})
	require.NoError(t, err)

	tests := []struct {
		name string
		call func() error
		code auth.Code
	}{
		{"duplicate email", func() error {
			_, err := p.SignUp(ctx, auth.SignUpRequest{Username: "em", Email: "EMILY@example.com", Password: "secret1"})
			return err
		}, auth.CodeEmailInUse},
		{"weak password", func() error {
			_, err := p.SignUp(ctx, auth.SignUpRequest{Username: "bob", Email: "bob@example.com", Password: "abc"})
			return err
		}, auth.CodeWeakPassword},
		{"invalid email on sign-up", func() error {
			_, err := p.SignUp(ctx, auth.SignUpRequest{Username: "bob", Email: "bob", Password: "secret1"})
			return err
		}, auth.CodeInvalidEmail},
		{"unknown user", func() error {
			_, err := p.SignIn(ctx, "nobody@example.com", "secret1")
			return err
		}, auth.CodeUserNotFound},
		{"wrong password", func() error {
			_, err := p.SignIn(ctx, "emily@example.com", "nope123")
			return err
		}, auth.CodeWrongPassword},
		{"invalid email on sign-in", func() error {
			_, err := p.SignIn(ctx, "emily.example.com", "secret1")
			return err
		}, auth.CodeInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.Equal(t, tt.code, auth.CodeOf(err))
		})
	}
}

func TestAccountProvider_DisabledSignUp(t *testing.T) {
	p, repo := newProvider(t, auth.ProviderOptions{DisableSignUp: true})

	_, err := p.SignUp(context.Background(), auth.SignUpRequest{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	assert.Equal(t, auth.CodeOperationNotAllowed, auth.CodeOf(err))
	assert.Equal(t, "Email/password accounts are not enabled.", auth.MessageOf(err))
	assert.Zero(t, repo.CreateCalls)
}

func TestAccountProvider_ThrottlesFailedSignIns(t *testing.T) {
	p, _ := newProvider(t, auth.ProviderOptions{SignInRate: 0.0001, SignInBurst: 2})
	ctx := context.Background()

	_, err := p.SignUp(ctx, auth.SignUpRequest{Username: "emily", Email: "emily@example.com", Password: "secret1"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := p.SignIn(ctx, "emily@example.com", "wrong!!")
		assert.Equal(t, auth.CodeWrongPassword, auth.CodeOf(err))
	}

	// even the right password is refused once the bucket is empty
	_, err = p.SignIn(ctx, "emily@example.com", "secret1")
	assert.Equal(t, auth.CodeTooManyRequests, auth.CodeOf(err))

	// other emails are unaffected
	_, err = p.SignIn(ctx, "someone@example.com", "secret1")
	assert.Equal(t, auth.CodeUserNotFound, auth.CodeOf(err))
}

func TestAccountProvider_PrunesRefilledBuckets(t *testing.T) {
	ctx := context.Background()

	t.Run("refilled buckets are dropped", func(t *testing.T) {
		p, _ := newProvider(t, auth.ProviderOptions{SignInRate: 1000, SignInBurst: 1})
		for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
			_, err := p.SignIn(ctx, email, "secret1")
			assert.Equal(t, auth.CodeUserNotFound, auth.CodeOf(err))
		}
		assert.Equal(t, 3, p.Tracked())

		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, 3, p.Prune())
		assert.Zero(t, p.Tracked())
		assert.Zero(t, p.Prune())
	})

	t.Run("draining buckets are kept", func(t *testing.T) {
		p, _ := newProvider(t, auth.ProviderOptions{SignInRate: 0.0001, SignInBurst: 2})
		_, err := p.SignIn(ctx, "d@example.com", "secret1")
		assert.Equal(t, auth.CodeUserNotFound, auth.CodeOf(err))

		assert.Zero(t, p.Prune())
		assert.Equal(t, 1, p.Tracked())
	})
}

func TestAccountProvider_StoreFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code auth.Code
	}{
		{"network", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, auth.CodeNetwork},
		{"deadline", context.DeadlineExceeded, auth.CodeNetwork},
		{"other", errors.New("relation does not exist"), auth.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, repo := newProvider(t, auth.ProviderOptions{})
			repo.GetError = tt.err

			_, err := p.SignIn(context.Background(), "emily@example.com", "secret1")
			assert.Equal(t, tt.code, auth.CodeOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestAccountProvider_ObservesOutcomes(t *testing.T) {
	obs := &recordingObserver{}
	p, _ := newProvider(t, auth.ProviderOptions{Observer: obs})
	ctx := context.Background()

	_, _ = p.SignIn(ctx, "nobody@example.com", "secret1")
	user, _ := p.SignUp(ctx, auth.SignUpRequest{Username: "emily", Email: "emily@example.com", Password: "secret1"})
	_ = p.SignOut(ctx, user)

	assert.Equal(t, []string{"signin:auth/user-not-found", "signup:ok", "signout:ok"}, obs.attempts)
}

func TestMessage(t *testing.T) {
	tests := []struct {
		code auth.Code
		want string
	}{
		{auth.CodeUserNotFound, "No user found with this email."},
		{auth.CodeWrongPassword, "Incorrect password."},
		{auth.CodeTooManyRequests, "Too many failed attempts. Try again later."},
		{auth.CodeEmailInUse, "This email is already registered."},
		{auth.CodeWeakPassword, "Password is too weak."},
		{auth.CodeUnknown, auth.DefaultMessage},
		{auth.Code("auth/made-up"), auth.DefaultMessage},
	}

	for _, tt := range tests {
		if got := auth.Message(tt.code); got != tt.want {
			t.Errorf("Message(%s): expected %q, got %q", tt.code, tt.want, got)
		}
	}

	if got := auth.MessageOf(errors.New("boom")); got != auth.DefaultMessage {
		t.Errorf("Expected default message for untyped error, got %q", got)
	}
}

// blockingProvider holds SignIn until release is closed
type blockingProvider struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingProvider) SignUp(ctx context.Context, req auth.SignUpRequest) (*auth.User, error) {
	return &auth.User{ID: "new", Email: req.Email}, nil
}

func (b *blockingProvider) SignIn(ctx context.Context, email, password string) (*auth.User, error) {
	close(b.entered)
	<-b.release
	return &auth.User{ID: "u1", Email: email}, nil
}

func (b *blockingProvider) SignOut(ctx context.Context, user *auth.User) error {
	return nil
}

func TestSession_SignInFlow(t *testing.T) {
	p, _ := newProvider(t, auth.ProviderOptions{})
	ctx := context.Background()
	sess := auth.NewSession(p, nil, zerolog.New(io.Discard))

	var seen []*auth.User
	unsubscribe := sess.Subscribe(func(u *auth.User) { seen = append(seen, u) })
	defer unsubscribe()

	require.Len(t, seen, 1)
	assert.Nil(t, seen[0])
	assert.Equal(t, navigation.Splash, sess.Navigator().Current().Route)

	user, err := sess.SignUp(ctx, validation.SignUpForm{
		Username: "emily", Email: "emily@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, navigation.Setup, sess.Navigator().Current().Route)
	assert.Equal(t, user, sess.Current())

	require.NoError(t, sess.SignOut(ctx))
	assert.Nil(t, sess.Current())
	assert.Equal(t, []navigation.Entry{{Route: navigation.SignIn}}, sess.Navigator().State().Stack)

	_, err = sess.SignIn(ctx, validation.SignInForm{Email: "emily@example.com", Password: "secret1"})
	require.NoError(t, err)
	state := sess.Navigator().State()
	assert.Equal(t, navigation.MainTabs, state.Stack[len(state.Stack)-1].Route)
	assert.Equal(t, navigation.TabHome, state.Tab)

	require.Len(t, seen, 4)
	assert.NotNil(t, seen[1])
	assert.Nil(t, seen[2])
	assert.NotNil(t, seen[3])
}

func TestSession_FormErrorsSkipProvider(t *testing.T) {
	p, repo := newProvider(t, auth.ProviderOptions{})
	sess := auth.NewSession(p, nil, zerolog.New(io.Discard))

	_, err := sess.SignUp(context.Background(), validation.SignUpForm{
		Username: "em", Email: "emily@example.com", Password: "secret1", ConfirmPassword: "secret2",
	})

	var formErr *auth.FormError
	require.ErrorAs(t, err, &formErr)
	fields := map[string]string{}
	for _, fe := range formErr.Errors {
		fields[fe.Field] = fe.Message
	}
	assert.Equal(t, "Username must be at least 3 characters", fields["username"])
	assert.Equal(t, "Passwords do not match", fields["confirm_password"])
	assert.Zero(t, repo.CreateCalls)
	assert.Equal(t, navigation.Splash, sess.Navigator().Current().Route)
}

func TestSession_RejectsConcurrentRequests(t *testing.T) {
	bp := &blockingProvider{entered: make(chan struct{}), release: make(chan struct{})}
	sess := auth.NewSession(bp, nil, zerolog.New(io.Discard))
	form := validation.SignInForm{Email: "emily@example.com", Password: "secret1"}

	done := make(chan error, 1)
	go func() {
		_, err := sess.SignIn(context.Background(), form)
		done <- err
	}()

	select {
	case <-bp.entered:
	case <-time.After(time.Second):
		t.Fatal("first sign-in never reached the provider")
	}

	assert.True(t, sess.Pending())
	_, err := sess.SignIn(context.Background(), form)
	assert.ErrorIs(t, err, auth.ErrRequestPending)

	close(bp.release)
	require.NoError(t, <-done)
	assert.False(t, sess.Pending())
}

func TestSession_UnsubscribeStopsNotifications(t *testing.T) {
	sess := auth.NewSession(&blockingProvider{}, nil, zerolog.New(io.Discard))

	calls := 0
	unsubscribe := sess.Subscribe(func(*auth.User) { calls++ })
	unsubscribe()
	unsubscribe()

	_, err := sess.SignUp(context.Background(), validation.SignUpForm{
		Username: "emily", Email: "emily@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestStore(t *testing.T) {
	store := auth.NewStore(&blockingProvider{}, zerolog.New(io.Discard))

	token, sess := store.Create()
	require.NotEmpty(t, token)

	got, ok := store.Get(token)
	require.True(t, ok)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, store.Len())

	assert.True(t, store.Delete(token))
	assert.False(t, store.Delete(token))
	_, ok = store.Get(token)
	assert.False(t, ok)
}

func TestStore_ReapDropsIdleSessions(t *testing.T) {
	store := auth.NewStore(&blockingProvider{}, zerolog.New(io.Discard))

	active, _ := store.Create()
	idle, _ := store.Create()
	time.Sleep(5 * time.Millisecond)

	cutoff := time.Now()
	time.Sleep(5 * time.Millisecond)
	_, ok := store.Get(active)
	require.True(t, ok)

	assert.Equal(t, 1, store.Reap(cutoff))
	assert.Equal(t, 1, store.Len())
	_, ok = store.Get(idle)
	assert.False(t, ok)
	_, ok = store.Get(active)
	assert.True(t, ok)

	assert.Zero(t, store.Reap(cutoff))
	assert.Equal(t, 1, store.Reap(time.Now().Add(time.Hour)))
	assert.Zero(t, store.Len())
}

func TestStore_ReapPrunesProvider(t *testing.T) {
	p, _ := newProvider(t, auth.ProviderOptions{SignInRate: 1000, SignInBurst: 1})
	store := auth.NewStore(p, zerolog.New(io.Discard))

	_, err := p.SignIn(context.Background(), "ghost@example.com", "secret1")
	require.Equal(t, auth.CodeUserNotFound, auth.CodeOf(err))
	require.Equal(t, 1, p.Tracked())

	time.Sleep(20 * time.Millisecond)
	store.Reap(time.Now())
	assert.Zero(t, p.Tracked())
}
