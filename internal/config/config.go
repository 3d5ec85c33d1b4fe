package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

// CredentialEntry pairs a git host with an access token. The token is
// injected into HTTPS clone/fetch URLs for that host; hosts without an
// entry are accessed unauthenticated.
type CredentialEntry struct {
	Host  string `json:"host"`
	Token string `json:"token"`
}

// Credentials is the set of configured credential entries.
type Credentials []CredentialEntry

// AuthenticateURL returns rawURL with the matching host's token injected
// as userinfo ("x-access-token:<token>@"). Non-HTTPS URLs, unparseable
// URLs and unrecognized hosts pass through untouched, which covers SSH
// remotes and local paths.
func (c Credentials) AuthenticateURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "https" {
		return rawURL
	}
	for _, entry := range c {
		if entry.Token == "" || !strings.EqualFold(entry.Host, u.Hostname()) {
			continue
		}
		u.User = url.UserPassword("x-access-token", entry.Token)
		return u.String()
	}
	return rawURL
}

// Settings is the persisted user configuration.
type Settings struct {
	// WorkspacesRoot is the directory under which every workspace's
	// local path is resolved.
	WorkspacesRoot string `json:"workspacesRoot"`

	// DatabasePath locates the workspace record database.
	DatabasePath string `json:"databasePath"`

	// ProfilesPath locates the YAML file defining config profiles.
	ProfilesPath string `json:"profilesPath"`

	// Credentials are the per-host access tokens.
	Credentials Credentials `json:"credentials,omitempty"`
}

// Default returns the settings used when no settings file exists.
func Default() *Settings {
	return &Settings{
		WorkspacesRoot: "~/repoyard",
		DatabasePath:   "~/.local/share/repoyard/workspaces.db",
		ProfilesPath:   "~/.config/repoyard/profiles.yaml",
	}
}

// DefaultPath returns the default settings file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "repoyard", "settings.json")
}

// Load reads the settings file at path, overlaying it onto the
// defaults. A missing file is not an error: the defaults are returned.
// The file may contain comments and trailing commas (JSONC).
func Load(path string) (*Settings, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.expand()
			return cfg, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}

	cfg.expand()
	return cfg, nil
}

// expand resolves "~/" prefixes in all path fields.
func (s *Settings) expand() {
	s.WorkspacesRoot = expandHome(s.WorkspacesRoot)
	s.DatabasePath = expandHome(s.DatabasePath)
	s.ProfilesPath = expandHome(s.ProfilesPath)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
