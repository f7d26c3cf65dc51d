package comms

import (
	"context"

	"github.com/aegiscyber/portal-services/pkg/metrics"
)

// Service encapsulates messaging and notification logic on top of a
// Repository. It records outbound email/SMS notifications but never delivers
// them; a separate dispatch process owns delivery.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// SendMessage stores an unread in-app message and returns it with its id.
func (s *Service) SendMessage(ctx context.Context, clientID, counterpartID, body string) (*Message, error) {
	m, err := s.repo.InsertMessage(ctx, &Message{
		ClientID:      clientID,
		CounterpartID: counterpartID,
		Body:          body,
	})
	if err != nil {
		return nil, err
	}
	metrics.MessagesSent.Inc()
	return m, nil
}

// MessagesByClient returns the client's messages, newest first.
func (s *Service) MessagesByClient(ctx context.Context, clientID string) ([]Message, error) {
	return s.repo.MessagesByClient(ctx, clientID)
}

// MarkMessageRead is idempotent: repeating it leaves read and readAt as set
// by the first call.
func (s *Service) MarkMessageRead(ctx context.Context, id string) error {
	return s.repo.MarkMessageRead(ctx, id)
}

// UnreadMessageCount counts the client's messages with read=false.
func (s *Service) UnreadMessageCount(ctx context.Context, clientID string) (int64, error) {
	return s.repo.UnreadMessageCount(ctx, clientID)
}

// Subscribe opens a snapshot subscription on the client's message set.
// The caller must Close() the returned subscription.
func (s *Service) Subscribe(ctx context.Context, clientID string) (*Subscription, error) {
	return s.repo.WatchMessages(ctx, clientID)
}

// RecordEmailNotification stores a pending outbound email record.
func (s *Service) RecordEmailNotification(ctx context.Context, clientID, subject, body string) (*Notification, error) {
	return s.record(ctx, &Notification{
		ClientID: clientID,
		Kind:     KindEmail,
		Subject:  subject,
		Body:     body,
		Status:   StatusPending,
	})
}

// RecordSMSAlert stores a pending outbound SMS record.
func (s *Service) RecordSMSAlert(ctx context.Context, clientID, body string) (*Notification, error) {
	return s.record(ctx, &Notification{
		ClientID: clientID,
		Kind:     KindSMS,
		Body:     body,
		Status:   StatusPending,
	})
}

// SendSystemNotification stores an unread in-app system notification.
func (s *Service) SendSystemNotification(ctx context.Context, clientID, title, body string) (*Notification, error) {
	return s.record(ctx, &Notification{
		ClientID: clientID,
		Kind:     KindSystem,
		Subject:  title,
		Body:     body,
	})
}

func (s *Service) record(ctx context.Context, n *Notification) (*Notification, error) {
	stored, err := s.repo.InsertNotification(ctx, n)
	if err != nil {
		return nil, err
	}
	metrics.NotificationsRecorded.WithLabelValues(string(n.Kind)).Inc()
	return stored, nil
}

// SystemNotifications returns the client's system notifications, newest first.
func (s *Service) SystemNotifications(ctx context.Context, clientID string) ([]Notification, error) {
	return s.repo.SystemNotificationsByClient(ctx, clientID)
}

// MarkNotificationRead marks a system notification read; idempotent like
// MarkMessageRead.
func (s *Service) MarkNotificationRead(ctx context.Context, id string) error {
	return s.repo.MarkSystemNotificationRead(ctx, id)
}
