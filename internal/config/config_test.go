package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("GRAPHQL_URL", "http://localhost:5000/graphql")
	t.Setenv("TMDB_KEY", "test-key")
	t.Setenv("SECRET_KEY", strings.Repeat("s", 32))
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Server.Env)
	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, "https://image.tmdb.org/t/p", cfg.TMDB.ImageBaseURL)
	assert.Equal(t, 40.0, cfg.TMDB.RPS)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_RequiredFields(t *testing.T) {
	cases := []struct {
		name    string
		unset   string
		value   string
		wantErr string
	}{
		{name: "graphql url", unset: "GRAPHQL_URL", wantErr: "GRAPHQL_URL is required"},
		{name: "tmdb key", unset: "TMDB_KEY", wantErr: "TMDB_KEY is required"},
		{name: "secret", unset: "SECRET_KEY", wantErr: "SECRET_KEY is required"},
		{name: "short secret", unset: "SECRET_KEY", value: "short", wantErr: "at least 32 characters"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.unset, tc.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_InvalidNumbers(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TMDB_RPS", "-3")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("TMDB_RPS", "10")
	t.Setenv("SESSION_TTL", "forever")

	_, err = Load()
	require.Error(t, err)
}

func TestLoad_Production(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}
