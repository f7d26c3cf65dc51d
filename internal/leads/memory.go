package leads

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository is an in-memory Repository used by unit tests and local
// development without a MongoDB instance.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*Lead
	seq   map[string]int
	next  int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*Lead), seq: make(map[string]int)}
}

func (m *MemoryRepository) Create(ctx context.Context, l *Lead) (*Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if l.ID == "" {
		l.ID = primitive.NewObjectID().Hex()
	}
	l.Status = StatusNew
	l.AssignedTo = ""
	l.CreatedAt = now
	l.UpdatedAt = now
	if l.Services == nil {
		l.Services = []string{}
	}
	cp := *l
	m.store[l.ID] = &cp
	m.next++
	m.seq[l.ID] = m.next
	return l, nil
}

func (m *MemoryRepository) List(ctx context.Context) ([]Lead, error) {
	return m.collect(func(*Lead) bool { return true }), nil
}

func (m *MemoryRepository) ListByStatus(ctx context.Context, status Status) ([]Lead, error) {
	return m.collect(func(l *Lead) bool { return l.Status == status }), nil
}

// collect snapshots matching leads ordered by createdAt descending
// (insertion order breaks ties, newest first).
func (m *MemoryRepository) collect(match func(*Lead) bool) []Lead {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Lead{}
	for _, l := range m.store {
		if match(l) {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return m.seq[out[i].ID] > m.seq[out[j].ID]
	})
	return out
}

func (m *MemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.store[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (m *MemoryRepository) UpdateStatus(ctx context.Context, id string, status Status, notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	l.Status = status
	l.Notes = notes
	l.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryRepository) Assign(ctx context.Context, id, assigneeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	l.AssignedTo = assigneeID
	l.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	delete(m.seq, id)
	return nil
}
