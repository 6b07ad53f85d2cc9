package bootstrap

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitez/platform/internal/pkg/config"
)

func testConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	base := map[string]string{
		"JWT_SECRET":         strings.Repeat("a", 32),
		"JWT_REFRESH_SECRET": strings.Repeat("b", 32),
	}
	for k, v := range env {
		base[k] = v
	}
	cfg, err := config.LoadWith(context.Background(), envconfig.MapLookuper(base))
	require.NoError(t, err)
	return cfg
}

func TestNewAuthService(t *testing.T) {
	svc, err := NewAuthService(testConfig(t, nil), nil, nil, zerolog.Nop())
	require.NoError(t, err)

	// an unverifiable token is rejected before the store is touched
	u, err := svc.ValidateAccess(context.Background(), "not-a-jwt")
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestNewAuthService_RejectsUnknownAlgorithm(t *testing.T) {
	_, err := NewAuthService(testConfig(t, map[string]string{"JWT_ALGORITHM": "RS256"}), nil, nil, zerolog.Nop())
	assert.Error(t, err)
}
