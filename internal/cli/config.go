package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds CLI settings resolved from flags and the environment
type Config struct {
	ServerURL   string
	Token       string
	SessionFile string
	Output      string
	Timeout     time.Duration
}

// Session is what a successful sign-in leaves on disk
type Session struct {
	Server    string    `yaml:"server"`
	Token     string    `yaml:"token"`
	PlayerID  string    `yaml:"player_id"`
	Username  string    `yaml:"username"`
	ExpiresAt time.Time `yaml:"expires_at"`
}

// DefaultConfig reads MYREFELL_* variables, falling back to a local server
func DefaultConfig() *Config {
	c := &Config{
		ServerURL:   "http://localhost:8080",
		Token:       os.Getenv("MYREFELL_TOKEN"),
		SessionFile: defaultSessionFile(),
		Output:      "text",
		Timeout:     30 * time.Second,
	}
	if v := os.Getenv("MYREFELL_SERVER"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("MYREFELL_SESSION_FILE"); v != "" {
		c.SessionFile = v
	}
	return c
}

// LoadSession fills Token from the session file unless one was given
// explicitly. A missing file just means nobody has signed in yet.
func (c *Config) LoadSession() (*Session, error) {
	data, err := os.ReadFile(c.SessionFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session file %s: %w", c.SessionFile, err)
	}
	if c.Token == "" {
		c.Token = s.Token
	}
	return &s, nil
}

// SaveSession records a sign-in so later commands reuse its token
func (c *Config) SaveSession(a AuthResult) error {
	c.Token = a.SessionToken

	data, err := yaml.Marshal(Session{
		Server:    c.ServerURL,
		Token:     a.SessionToken,
		PlayerID:  a.PlayerID,
		Username:  a.Username,
		ExpiresAt: a.ExpiresAt,
	})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.SessionFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.SessionFile, data, 0o600)
}

// ClearSession forgets the saved session
func (c *Config) ClearSession() error {
	c.Token = ""
	if err := os.Remove(c.SessionFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".myrefell", "session.yaml")
	}
	return filepath.Join(home, ".myrefell", "session.yaml")
}
