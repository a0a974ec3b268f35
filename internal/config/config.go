package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultBaseURL is used when LERNIX_API_URL is not set.
	DefaultBaseURL = "http://localhost:8000/api"

	// DefaultRequestTimeout applies to every API call except code execution.
	DefaultRequestTimeout = 10 * time.Second
)

// Config holds the runtime configuration for the client.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8000/api".
	BaseURL string

	// RequestTimeout bounds every request except courses/execute/.
	RequestTimeout time.Duration

	// SessionPath is where the persisted session (user + tokens) lives.
	SessionPath string

	// HistoryPath is the local SQLite activity log.
	HistoryPath string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:        strings.TrimRight(os.Getenv("LERNIX_API_URL"), "/"),
		RequestTimeout: DefaultRequestTimeout,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if raw := os.Getenv("LERNIX_REQUEST_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse LERNIX_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	var err error
	if cfg.SessionPath = os.Getenv("LERNIX_SESSION_FILE"); cfg.SessionPath == "" {
		cfg.SessionPath, err = defaultStatePath("session.json")
		if err != nil {
			return nil, err
		}
	}

	if cfg.HistoryPath = os.Getenv("LERNIX_HISTORY_DB"); cfg.HistoryPath == "" {
		cfg.HistoryPath, err = defaultDataPath("history.db")
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// defaultStatePath resolves a file under XDG_STATE_HOME/lernix.
func defaultStatePath(name string) (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	p := filepath.Join(stateHome, "lernix", name)
	return p, EnsureDir(p)
}

// defaultDataPath resolves a file under XDG_DATA_HOME/lernix.
func defaultDataPath(name string) (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	p := filepath.Join(dataHome, "lernix", name)
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
