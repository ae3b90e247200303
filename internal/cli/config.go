package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultServerURL = "http://localhost:8080"

// Profile is what `ark login` leaves behind for the remote commands: the
// server that issued the token, the bearer token itself and the account it
// belongs to. ARK_SERVER_URL and ARK_TOKEN take precedence over it.
type Profile struct {
	ServerURL string    `yaml:"server_url,omitempty"`
	Token     string    `yaml:"token,omitempty"`
	Email     string    `yaml:"email,omitempty"`
	ExpiresAt time.Time `yaml:"expires_at,omitempty"`
}

// expired reports whether the stored token is past the expiry the server
// gave it. Tokens saved without an expiry never expire locally.
func (p Profile) expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}

func profilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ark", "config.yaml"), nil
}

// loadProfile returns an empty profile when nobody has logged in yet.
func loadProfile() (Profile, error) {
	path, err := profilePath()
	if err != nil {
		return Profile{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Profile{}, nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("reading profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return p, nil
}

// saveProfile writes p readable only by the current user since it holds a
// live bearer token.
func saveProfile(p Profile) error {
	path, err := profilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}

// getServerURL picks the ark server to talk to: ARK_SERVER_URL, then the
// server recorded at login, then a local `ark serve`.
func getServerURL() string {
	if v := os.Getenv("ARK_SERVER_URL"); v != "" {
		return v
	}
	if p, err := loadProfile(); err == nil && p.ServerURL != "" {
		return p.ServerURL
	}
	return defaultServerURL
}

// getToken returns ARK_TOKEN when set. Otherwise it returns the token saved
// by `ark login`, or "" once that token has expired so commands run
// anonymously instead of failing with 401.
func getToken() string {
	if v := os.Getenv("ARK_TOKEN"); v != "" {
		return v
	}
	p, err := loadProfile()
	if err != nil || p.expired(time.Now()) {
		return ""
	}
	return p.Token
}
