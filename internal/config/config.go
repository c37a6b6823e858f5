package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Transport names accepted by MCP_TRANSPORT
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Environment variable names the mail client reports when missing
const (
	GoogleOAuth2Var = "GOOGLE_OAUTH2_CREDENTIALS"
	TokenVar        = "CREDENTIAL_TOKEN"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Logging configuration
	Log LogConfig

	// Security configuration
	Security SecurityConfig

	// Git configuration
	Git GitConfig

	// GitHub configuration
	GitHub GitHubConfig

	// Gmail configuration
	Gmail GmailConfig

	// HomeDir replaces a leading ~ in directory arguments
	HomeDir string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Transport       string
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// SecurityConfig holds security-specific configuration
type SecurityConfig struct {
	// API Keys - sent by HTTP clients for authentication
	APIKeys []string

	RateLimitPerMinute int

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP
	TrustProxy bool
}

// GitConfig holds local git configuration
type GitConfig struct {
	Binary string
}

// GitHubConfig holds GitHub search configuration
type GitHubConfig struct {
	Token   string // Optional; raises the search rate limit
	APIURL  string // Optional; GitHub Enterprise or test server base URL
	PerPage int
}

// GmailConfig holds mail provider configuration
type GmailConfig struct {
	CredentialsPath string // OAuth2 client secrets file
	TokenPath       string // Where the authorized token is persisted
	APIURL          string // Optional endpoint override
	CallbackTimeout time.Duration
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	// Try to load .env file (ignore errors - it's optional)
	_ = godotenv.Load(".env")

	home, _ := os.UserHomeDir()

	cfg := &Config{
		Server: ServerConfig{
			Transport:       getEnv("MCP_TRANSPORT", TransportStdio),
			Host:            getEnv("SERVER_HOST", ""),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 5*time.Minute),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Security: SecurityConfig{
			APIKeys:            getEnvAsSlice("API_KEYS", []string{}),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
			TrustProxy:         getEnvAsBool("TRUST_PROXY", false),
		},
		Git: GitConfig{
			Binary: getEnv("GIT_BINARY", "git"),
		},
		GitHub: GitHubConfig{
			Token:   getEnv("GITHUB_TOKEN", ""),
			APIURL:  getEnv("GITHUB_API_URL", ""),
			PerPage: getEnvAsInt("GITHUB_PER_PAGE", 100),
		},
		Gmail: GmailConfig{
			CredentialsPath: getEnv(GoogleOAuth2Var, ""),
			TokenPath:       getEnv(TokenVar, ""),
			APIURL:          getEnv("GMAIL_API_URL", ""),
			CallbackTimeout: getEnvAsDuration("OAUTH_CALLBACK_TIMEOUT", 5*time.Minute),
		},
		HomeDir: getEnv("HOME_DIR", home),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid MCP transport: %q (want %q or %q)", c.Server.Transport, TransportStdio, TransportHTTP)
	}

	if c.HomeDir == "" {
		return fmt.Errorf("home directory is required")
	}

	if c.Git.Binary == "" {
		return fmt.Errorf("git binary is required")
	}

	if c.GitHub.PerPage < 1 || c.GitHub.PerPage > 100 {
		return fmt.Errorf("invalid GitHub page size: %d", c.GitHub.PerPage)
	}

	if c.Server.Transport != TransportHTTP {
		return nil
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Security.RateLimitPerMinute < 1 {
		return fmt.Errorf("invalid rate limit: %d", c.Security.RateLimitPerMinute)
	}

	// Security validation
	if len(c.Security.APIKeys) == 0 {
		return fmt.Errorf("at least one API key is required for the http transport")
	}

	// Check for default/insecure API keys
	for _, key := range c.Security.APIKeys {
		if key == "default-api-key" || key == "api-key-123" || len(key) < 8 {
			return fmt.Errorf("insecure or default API key detected: '%s'. Please set secure API keys in environment variables", key)
		}
	}

	return nil
}

// Address returns the server address in the format host:port
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Helper functions to get environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	// Split by comma and trim spaces
	values := make([]string, 0)
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}

	return values
}
