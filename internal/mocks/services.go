package mocks

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/wedding-planner-api/internal/auth"
	"github.com/wedding-planner-api/internal/media"
	"github.com/wedding-planner-api/internal/models"
	"github.com/wedding-planner-api/internal/service"
)

// MockMediaService is a mock implementation of MediaService
type MockMediaService struct {
	mu            sync.Mutex
	PickFunc      func(ctx context.Context, req media.PickRequest) (models.FileRef, error)
	ShareFunc     func(ctx context.Context, file models.FileRef, opts media.ShareOptions) (models.FileRef, error)
	Unavailable   bool
	Picked        []media.PickRequest
	Shared        []models.FileRef
	SharedScreens []string
	SharedFormats []string
}

// Verify interface compliance
var _ service.MediaService = (*MockMediaService)(nil)

func NewMockMediaService() *MockMediaService {
	return &MockMediaService{}
}

func (m *MockMediaService) Pick(ctx context.Context, req media.PickRequest) (models.FileRef, error) {
	m.mu.Lock()
	m.Picked = append(m.Picked, req)
	m.mu.Unlock()

	if m.PickFunc != nil {
		return m.PickFunc(ctx, req)
	}
	if req.Name == "" {
		return models.FileRef{}, media.ErrCancelled
	}
	return models.FileRef{URI: "file:///picked/" + req.Name, Name: req.Name, Size: 1024, MIMEType: "application/pdf"}, nil
}

func (m *MockMediaService) Share(ctx context.Context, file models.FileRef, opts media.ShareOptions) (models.FileRef, error) {
	if m.Unavailable {
		return models.FileRef{}, media.ErrUnavailable
	}

	m.mu.Lock()
	m.Shared = append(m.Shared, file)
	m.mu.Unlock()

	if m.ShareFunc != nil {
		return m.ShareFunc(ctx, file, opts)
	}
	return file, nil
}

func (m *MockMediaService) ShareScreen(ctx context.Context, scr service.Screen, format string) (models.FileRef, error) {
	if m.Unavailable {
		return models.FileRef{}, media.ErrUnavailable
	}

	m.mu.Lock()
	m.SharedScreens = append(m.SharedScreens, scr.ID())
	m.SharedFormats = append(m.SharedFormats, format)
	m.mu.Unlock()

	ct, _ := service.ContentType(format)
	return models.FileRef{
		URI:      "file:///shared/" + string(scr.Kind()) + "." + format,
		Name:     string(scr.Kind()) + "." + format,
		MIMEType: ct,
	}, nil
}

func (m *MockMediaService) ShareAvailable() bool {
	return !m.Unavailable
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamFunc func(ctx context.Context, w http.ResponseWriter, scr service.Screen, format string) error
	Streamed   []string
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{}
}

func (m *MockExportService) StreamScreen(ctx context.Context, w http.ResponseWriter, scr service.Screen, format string) error {
	m.Streamed = append(m.Streamed, scr.ID())
	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, w, scr, format)
	}
	return nil
}

func (m *MockExportService) WriteFile(ctx context.Context, scr service.Screen, format string) (models.FileRef, error) {
	return models.FileRef{Name: string(scr.Kind()) + "." + format}, nil
}

func (m *MockExportService) Write(ctx context.Context, w io.Writer, table service.Table, format string) error {
	return nil
}

// MockProvider is a mock implementation of auth.Provider
type MockProvider struct {
	mu         sync.Mutex
	SignUpFunc func(ctx context.Context, req auth.SignUpRequest) (*auth.User, error)
	SignInFunc func(ctx context.Context, email, password string) (*auth.User, error)
	// SignInErr and SignUpErr are returned when no func is set
	SignInErr   error
	SignUpErr   error
	SignInCalls int
	SignUpCalls int
	SignedOut   []*auth.User
}

// Verify interface compliance
var _ auth.Provider = (*MockProvider)(nil)

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) SignUp(ctx context.Context, req auth.SignUpRequest) (*auth.User, error) {
	m.mu.Lock()
	m.SignUpCalls++
	m.mu.Unlock()

	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, req)
	}
	if m.SignUpErr != nil {
		return nil, m.SignUpErr
	}
	return &auth.User{ID: "user-" + req.Username, Email: req.Email, DisplayName: req.Username}, nil
}

func (m *MockProvider) SignIn(ctx context.Context, email, password string) (*auth.User, error) {
	m.mu.Lock()
	m.SignInCalls++
	m.mu.Unlock()

	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, password)
	}
	if m.SignInErr != nil {
		return nil, m.SignInErr
	}
	return &auth.User{ID: "user-1", Email: email}, nil
}

func (m *MockProvider) SignOut(ctx context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SignedOut = append(m.SignedOut, user)
	return nil
}
