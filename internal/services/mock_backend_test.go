package services

import (
	"context"
	"sync"
	"testing"

	"merlin/internal/logger"
	"merlin/internal/models"
	"merlin/internal/pagination"
	"merlin/internal/upstream"
)

func init() {
	logger.Init("test")
}

// mockBackend implements BackendClient. Unset functions panic, so each test
// states exactly which backend calls it expects.
type mockBackend struct {
	LoginFunc            func(ctx context.Context, email, password string) (*upstream.AuthResult, error)
	RegisterFunc         func(ctx context.Context, name, email, password, confirmation string) (*upstream.AuthResult, error)
	LogoutFunc           func(ctx context.Context, token string) error
	CurrentUserFunc      func(ctx context.Context, token string) (*models.User, error)
	ListAssessmentsFunc  func(ctx context.Context, token string) ([]models.Assessment, error)
	CreateAssessmentFunc func(ctx context.Context, token, name string) error
	DeleteAssessmentFunc func(ctx context.Context, token string, id int) error
	ListEntriesFunc      func(ctx context.Context, token string, id int) ([]models.Entry, error)
	CreateEntryFunc      func(ctx context.Context, token string, entry upstream.NewEntry) error
	DeleteEntryFunc      func(ctx context.Context, token string, id int) error
	GetAdviceFunc        func(ctx context.Context, token, name string) (string, bool, error)
	GenerateAdviceFunc   func(ctx context.Context, token string, id int) (string, error)
	SelectedAdviceFunc   func(ctx context.Context, token string, ids []int) (string, error)
}

func (m *mockBackend) Login(ctx context.Context, email, password string) (*upstream.AuthResult, error) {
	return m.LoginFunc(ctx, email, password)
}

func (m *mockBackend) Register(ctx context.Context, name, email, password, confirmation string) (*upstream.AuthResult, error) {
	return m.RegisterFunc(ctx, name, email, password, confirmation)
}

func (m *mockBackend) Logout(ctx context.Context, token string) error {
	return m.LogoutFunc(ctx, token)
}

func (m *mockBackend) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	return m.CurrentUserFunc(ctx, token)
}

func (m *mockBackend) ListAssessments(ctx context.Context, token string) ([]models.Assessment, error) {
	return m.ListAssessmentsFunc(ctx, token)
}

func (m *mockBackend) CreateAssessment(ctx context.Context, token, name string) error {
	return m.CreateAssessmentFunc(ctx, token, name)
}

func (m *mockBackend) DeleteAssessment(ctx context.Context, token string, id int) error {
	return m.DeleteAssessmentFunc(ctx, token, id)
}

func (m *mockBackend) ListEntries(ctx context.Context, token string, id int) ([]models.Entry, error) {
	return m.ListEntriesFunc(ctx, token, id)
}

func (m *mockBackend) CreateEntry(ctx context.Context, token string, entry upstream.NewEntry) error {
	return m.CreateEntryFunc(ctx, token, entry)
}

func (m *mockBackend) DeleteEntry(ctx context.Context, token string, id int) error {
	return m.DeleteEntryFunc(ctx, token, id)
}

func (m *mockBackend) GetAdvice(ctx context.Context, token, name string) (string, bool, error) {
	return m.GetAdviceFunc(ctx, token, name)
}

func (m *mockBackend) GenerateAdvice(ctx context.Context, token string, id int) (string, error) {
	return m.GenerateAdviceFunc(ctx, token, id)
}

func (m *mockBackend) SelectedAdvice(ctx context.Context, token string, ids []int) (string, error) {
	return m.SelectedAdviceFunc(ctx, token, ids)
}

// recordingAudit captures audit events in memory.
type recordingAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *recordingAudit) Log(_ string, _ int, action, _, _, _ string, _ map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
}

func (a *recordingAudit) ListForUser(_ int, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	resp := pagination.Slice([]models.AuditLog{}, page)
	return &resp, nil
}

func (a *recordingAudit) has(action string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, got := range a.actions {
		if got == action {
			return true
		}
	}
	return false
}

func testPrincipal() *Principal {
	return &Principal{
		SessionID:     "session-1",
		User:          models.User{ID: 7, Name: "Ada", Email: "ada@example.com"},
		UpstreamToken: "backend-token",
		IPAddress:     "127.0.0.1",
	}
}

func newTestVault(t *testing.T) *TokenVault {
	t.Helper()
	vault, err := NewTokenVault("test-key")
	if err != nil {
		t.Fatalf("failed to create vault: %v", err)
	}
	return vault
}
