package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // keep a developer's .env out of the test
	t.Setenv("HOME_DIR", "/home/tester")
	t.Setenv("MCP_TRANSPORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, TransportStdio, cfg.Server.Transport)
	assert.Equal(t, "/home/tester", cfg.HomeDir)
	assert.Equal(t, "git", cfg.Git.Binary)
	assert.Equal(t, 100, cfg.GitHub.PerPage)
	assert.Equal(t, 5*time.Minute, cfg.Gmail.CallbackTimeout)
	assert.Empty(t, cfg.Security.APIKeys)
	assert.False(t, cfg.Security.TrustProxy)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME_DIR", "/srv/me")
	t.Setenv("MCP_TRANSPORT", "http")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("API_KEYS", " first-secret-key , ,second-secret-key")
	t.Setenv("GOOGLE_OAUTH2_CREDENTIALS", "/etc/creds.json")
	t.Setenv("CREDENTIAL_TOKEN", "~/.config/token.json")
	t.Setenv("OAUTH_CALLBACK_TIMEOUT", "30s")
	t.Setenv("GITHUB_PER_PAGE", "not-a-number")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, TransportHTTP, cfg.Server.Transport)
	assert.Equal(t, ":9090", cfg.Server.Address())
	assert.Equal(t, []string{"first-secret-key", "second-secret-key"}, cfg.Security.APIKeys)
	assert.Equal(t, "/etc/creds.json", cfg.Gmail.CredentialsPath)
	assert.Equal(t, "~/.config/token.json", cfg.Gmail.TokenPath)
	assert.Equal(t, 30*time.Second, cfg.Gmail.CallbackTimeout)
	assert.Equal(t, 100, cfg.GitHub.PerPage)
	assert.True(t, cfg.Security.TrustProxy)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Transport: TransportHTTP, Port: 8080},
			Security: SecurityConfig{APIKeys: []string{"long-enough-key"}, RateLimitPerMinute: 60},
			Git:      GitConfig{Binary: "git"},
			GitHub:   GitHubConfig{PerPage: 100},
			HomeDir:  "/home/me",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid http", func(c *Config) {}, ""},
		{"stdio skips server checks", func(c *Config) {
			c.Server.Transport = TransportStdio
			c.Server.Port = 0
			c.Security.APIKeys = nil
		}, ""},
		{"unknown transport", func(c *Config) { c.Server.Transport = "grpc" }, "invalid MCP transport"},
		{"missing home", func(c *Config) { c.HomeDir = "" }, "home directory"},
		{"bad page size", func(c *Config) { c.GitHub.PerPage = 101 }, "page size"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"no api keys", func(c *Config) { c.Security.APIKeys = nil }, "at least one API key"},
		{"insecure api key", func(c *Config) { c.Security.APIKeys = []string{"api-key-123"} }, "insecure"},
		{"short api key", func(c *Config) { c.Security.APIKeys = []string{"short"} }, "insecure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
