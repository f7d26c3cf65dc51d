package tokens

import (
	"context"
	"testing"
	"time"

	"github.com/aegiscyber/portal-services/internal/config"
	"github.com/aegiscyber/portal-services/internal/sessions"
	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: "unit-test-secret-0123456789abcdef"}}
}

func TestGenerateAndVerify(t *testing.T) {
	cfg := testConfig()
	raw, err := GenerateAccessToken(cfg, "client-1", sessions.RoleClient, "Jane", "jane@x.com", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	tok, err := NewVerifier(cfg).Verify(context.Background(), raw)
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "client-1", claims["sub"])
	require.Equal(t, sessions.RoleClient, claims["role"])
	require.Equal(t, "jane@x.com", claims["email"])
}

func TestVerifyRejectsExpired(t *testing.T) {
	cfg := testConfig()
	raw, err := GenerateAccessToken(cfg, "client-1", sessions.RoleClient, "", "", -time.Minute)
	require.NoError(t, err)

	_, err = NewVerifier(cfg).Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	raw, err := GenerateAccessToken(testConfig(), "client-1", sessions.RoleClient, "", "", time.Minute)
	require.NoError(t, err)

	other := &config.Config{JWT: config.JWTConfig{Secret: "a-different-secret-value-entirely"}}
	_, err = NewVerifier(other).Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestVerifyRejectsBlacklisted(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	sessions.SetBlacklistClient(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	defer sessions.SetBlacklistClient(nil)

	cfg := testConfig()
	raw, err := GenerateAccessToken(cfg, "client-1", sessions.RoleClient, "", "", time.Minute)
	require.NoError(t, err)

	ctx := context.Background()
	ver := NewVerifier(cfg)
	_, err = ver.Verify(ctx, raw)
	require.NoError(t, err)

	require.NoError(t, sessions.BlacklistAccessToken(ctx, raw, time.Minute))
	_, err = ver.Verify(ctx, raw)
	require.Error(t, err)
}
