package comms

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository is an in-memory Repository used by unit tests and local
// development. Subscriptions are driven synchronously from the mutation path,
// which keeps snapshot ordering deterministic in tests.
type MemoryRepository struct {
	mu            sync.RWMutex
	messages      map[string]*Message
	notifications map[NotificationKind]map[string]*Notification
	subs          map[int]*memorySub
	nextSub       int
	seq           int
	seqByID       map[string]int
}

type memorySub struct {
	clientID string
	sub      *Subscription
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		messages: make(map[string]*Message),
		notifications: map[NotificationKind]map[string]*Notification{
			KindEmail:  {},
			KindSMS:    {},
			KindSystem: {},
		},
		subs:    make(map[int]*memorySub),
		seqByID: make(map[string]int),
	}
}

func (m *MemoryRepository) InsertMessage(ctx context.Context, msg *Message) (*Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.ID == "" {
		msg.ID = primitive.NewObjectID().Hex()
	}
	msg.Timestamp = time.Now().UTC()
	msg.Read = false
	msg.ReadAt = nil
	msg.Type = MessageTypeInApp
	cp := *msg
	m.messages[msg.ID] = &cp
	m.seq++
	m.seqByID[msg.ID] = m.seq
	m.notifyLocked(msg.ClientID)
	return msg, nil
}

func (m *MemoryRepository) MessagesByClient(ctx context.Context, clientID string) ([]Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked(clientID), nil
}

// snapshotLocked collects the client's messages ordered by timestamp
// descending (insertion order breaks ties, newest first).
func (m *MemoryRepository) snapshotLocked(clientID string) []Message {
	out := []Message{}
	for _, msg := range m.messages {
		if msg.ClientID == clientID {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return m.seqByID[out[i].ID] > m.seqByID[out[j].ID]
	})
	return out
}

func (m *MemoryRepository) MarkMessageRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return ErrNotFound
	}
	if !msg.Read {
		now := time.Now().UTC()
		msg.Read = true
		msg.ReadAt = &now
		m.notifyLocked(msg.ClientID)
	}
	return nil
}

func (m *MemoryRepository) UnreadMessageCount(ctx context.Context, clientID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, msg := range m.messages {
		if msg.ClientID == clientID && !msg.Read {
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepository) WatchMessages(ctx context.Context, clientID string) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub := newSubscription()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = &memorySub{clientID: clientID, sub: sub}
	sub.stop = func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(sub.snapshots)
		}
	}
	sub.publish(m.snapshotLocked(clientID))
	return sub, nil
}

// notifyLocked pushes a fresh snapshot to every subscriber of the client.
func (m *MemoryRepository) notifyLocked(clientID string) {
	for _, ms := range m.subs {
		if ms.clientID == clientID {
			ms.sub.publish(m.snapshotLocked(clientID))
		}
	}
}

func (m *MemoryRepository) InsertNotification(ctx context.Context, n *Notification) (*Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byID, ok := m.notifications[n.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, n.Kind)
	}
	if n.ID == "" {
		n.ID = primitive.NewObjectID().Hex()
	}
	n.CreatedAt = time.Now().UTC()
	cp := *n
	byID[n.ID] = &cp
	m.seq++
	m.seqByID[n.ID] = m.seq
	return n, nil
}

func (m *MemoryRepository) SystemNotificationsByClient(ctx context.Context, clientID string) ([]Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Notification{}
	for _, n := range m.notifications[KindSystem] {
		if n.ClientID == clientID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return m.seqByID[out[i].ID] > m.seqByID[out[j].ID]
	})
	return out, nil
}

func (m *MemoryRepository) MarkSystemNotificationRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[KindSystem][id]
	if !ok {
		return ErrNotFound
	}
	if !n.Read {
		now := time.Now().UTC()
		n.Read = true
		n.ReadAt = &now
	}
	return nil
}
