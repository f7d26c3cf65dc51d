package sessions

import (
	"context"
	"sync"
	"testing"
	"time"
)

// memoryRepo is a minimal in-memory Repository for service tests.
type memoryRepo struct {
	mu    sync.Mutex
	store map[string]*Session
}

func newMemoryRepo() *memoryRepo { return &memoryRepo{store: map[string]*Session{}} }

func (m *memoryRepo) Create(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.RefreshToken] = &cp
	return nil
}

func (m *memoryRepo) GetByRefresh(ctx context.Context, refresh string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.store[refresh]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *memoryRepo) DeleteByRefresh(ctx context.Context, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, refresh)
	return nil
}

func TestCreateAndValidateSession(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	token, err := svc.CreateSession(ctx, "client-1", RoleClient, time.Minute)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a refresh token")
	}

	sess, err := svc.ValidateRefresh(ctx, token)
	if err != nil {
		t.Fatalf("ValidateRefresh failed: %v", err)
	}
	if sess == nil {
		t.Fatal("expected a session")
	}
	if sess.Subject != "client-1" || sess.Role != RoleClient {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func TestValidateExpiredSession(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	token, err := svc.CreateSession(ctx, "client-1", RoleClient, -time.Second)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	sess, err := svc.ValidateRefresh(ctx, token)
	if err != nil {
		t.Fatalf("ValidateRefresh failed: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected expired session to validate as nil, got %+v", sess)
	}
	// expired session is cleaned up
	if got, _ := repo.GetByRefresh(ctx, token); got != nil {
		t.Fatal("expected expired session to be deleted")
	}
}

func TestDeleteRefresh(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	token, err := svc.CreateSession(ctx, "operator-1", RoleOperator, time.Minute)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if err := svc.DeleteRefresh(ctx, token); err != nil {
		t.Fatalf("DeleteRefresh failed: %v", err)
	}
	sess, err := svc.ValidateRefresh(ctx, token)
	if err != nil {
		t.Fatalf("ValidateRefresh failed: %v", err)
	}
	if sess != nil {
		t.Fatal("expected deleted session to be gone")
	}
}
