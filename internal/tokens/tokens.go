package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aegiscyber/portal-services/internal/config"
	"github.com/aegiscyber/portal-services/internal/sessions"
	"github.com/aegiscyber/portal-services/pkg/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateAccessToken creates a signed JWT access token for the subject.
// The role claim is what the route guards check.
func GenerateAccessToken(cfg *config.Config, subject, role, name, email string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subject,
		"role":  role,
		"name":  name,
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// Verifier validates portal-issued access tokens. It implements
// middleware.Verifier, and also rejects tokens blacklisted at logout.
type Verifier struct {
	secret []byte
}

func NewVerifier(cfg *config.Config) *Verifier {
	return &Verifier{secret: []byte(cfg.JWT.Secret)}
}

func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	listed, err := sessions.IsAccessTokenBlacklisted(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("blacklist check: %w", err)
	}
	if listed {
		return nil, errors.New("token revoked")
	}

	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	return claimsToken(mc), nil
}

// claimsToken exposes parsed claims via the middleware.Token interface.
type claimsToken jwt.MapClaims

func (c claimsToken) Claims(v interface{}) error {
	b, err := json.Marshal(map[string]interface{}(c))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
