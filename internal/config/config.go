// Package config handles XDG configuration directory and API endpoint settings.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// AppName is the application directory name.
	AppName = "todocli"

	// CookieFile is the persisted session cookie filename.
	CookieFile = "cookie.json"

	// DomainEnv is the environment variable holding the API domain.
	DomainEnv = "TODOCLI_API_DOMAIN"

	// DefaultDomain is used when no API domain is configured.
	DefaultDomain = "localhost"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the task API base URL, e.g. "http://localhost".
	BaseURL string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todocli or $HOME/.config/todocli.
// If domain is empty, the TODOCLI_API_DOMAIN environment variable is consulted,
// falling back to "localhost".
func New(configDir, domain string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, BaseURL: baseURL(domain)}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// baseURL derives the API base URL from an explicit domain, the environment,
// or the default, in that order. A bare domain gets an http scheme; a value
// that already carries a scheme is used as-is.
func baseURL(domain string) string {
	if domain == "" {
		domain = os.Getenv(DomainEnv)
	}
	if domain == "" {
		domain = DefaultDomain
	}
	if strings.Contains(domain, "://") {
		return strings.TrimRight(domain, "/")
	}
	return "http://" + strings.TrimRight(domain, "/")
}

// CookiePath returns the path to the persisted session cookie file.
func (c *Config) CookiePath() string {
	return filepath.Join(c.Dir, CookieFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasCookie checks if the session cookie file exists.
func (c *Config) HasCookie() bool {
	_, err := os.Stat(c.CookiePath())
	return err == nil
}
