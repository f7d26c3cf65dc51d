package oidc

import (
	"context"
	"fmt"

	"github.com/aegiscyber/portal-services/pkg/middleware"
	"github.com/coreos/go-oidc/v3/oidc"
)

// Verifier validates SSO ID tokens against the provider's discovered JWKS.
// It satisfies middleware.Verifier so the login handler can take either the
// real verifier or the insecure test one.
type Verifier struct {
	idv *oidc.IDTokenVerifier
}

// NewVerifier discovers the issuer's OIDC configuration and prepares an
// ID-token verifier bound to the given client ID.
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("discover OIDC provider %s: %w", issuer, err)
	}
	return &Verifier{idv: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	tok, err := v.idv.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return tok, nil
}
