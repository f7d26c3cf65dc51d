package leads

import (
	"context"

	"github.com/aegiscyber/portal-services/pkg/metrics"
)

// Service encapsulates lead lifecycle logic on top of a Repository.
// Unlike the repositories, it enforces the closed status set: unknown status
// strings never reach the store.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// Create stores a new lead with status "new" and no assignee. Field-level
// constraints (required name/email/company) are the caller's concern.
func (s *Service) Create(ctx context.Context, l *Lead) (*Lead, error) {
	created, err := s.repo.Create(ctx, l)
	if err != nil {
		return nil, err
	}
	metrics.LeadsCreated.Inc()
	return created, nil
}

// List returns all leads ordered by createdAt descending.
func (s *Service) List(ctx context.Context) ([]Lead, error) {
	return s.repo.List(ctx)
}

// ListByStatus returns leads with the given status, createdAt descending.
func (s *Service) ListByStatus(ctx context.Context, status string) ([]Lead, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByStatus(ctx, st)
}

// GetByID returns (nil, nil) when no lead exists with the given id.
func (s *Service) GetByID(ctx context.Context, id string) (*Lead, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus validates the status, then sets status + notes and refreshes
// updatedAt.
func (s *Service) UpdateStatus(ctx context.Context, id, status, notes string) error {
	st, err := ParseStatus(status)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, id, st, notes); err != nil {
		return err
	}
	metrics.LeadStatusTransitions.WithLabelValues(string(st)).Inc()
	return nil
}

// Assign sets the lead's assignee and refreshes updatedAt.
func (s *Service) Assign(ctx context.Context, id, assigneeID string) error {
	return s.repo.Assign(ctx, id, assigneeID)
}

// Convert marks the lead converted. Client-profile creation is a separate
// concern handled by the caller; no transactional guarantee spans the two.
func (s *Service) Convert(ctx context.Context, id string) error {
	return s.UpdateStatus(ctx, id, string(StatusConverted), "")
}

// Delete permanently removes the lead. Irreversible.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
