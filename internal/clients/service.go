package clients

import (
	"context"
)

// Service encapsulates client-profile business logic
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// UpsertFromClaims creates or updates a profile using verified SSO claims.
// Returns (nil, nil) when the claims carry no subject.
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*Profile, error) {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if sub == "" {
		return nil, nil
	}
	p := &Profile{
		Subject: sub,
		Email:   email,
		Name:    name,
	}
	return s.repo.UpsertBySubject(ctx, p)
}

// CreateFromLead provisions a profile for a converted lead. The profile is
// keyed by a synthetic subject until the client first signs in through SSO.
// There is no transactional link to the lead's status change.
func (s *Service) CreateFromLead(ctx context.Context, leadID, name, email, company string) (*Profile, error) {
	p := &Profile{
		Subject: "lead:" + leadID,
		Email:   email,
		Name:    name,
		Company: company,
	}
	return s.repo.UpsertBySubject(ctx, p)
}

func (s *Service) GetBySubject(ctx context.Context, subject string) (*Profile, error) {
	return s.repo.GetBySubject(ctx, subject)
}
