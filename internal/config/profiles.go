package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile is a named set of files materialized into a workspace's
// working copy when the profile is assigned.
type Profile struct {
	// Description is free-form text shown in listings.
	Description string `yaml:"description,omitempty"`

	// Files maps workspace-relative paths to literal file contents.
	Files map[string]string `yaml:"files"`
}

// profilesFile is the on-disk shape of profiles.yaml.
type profilesFile struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// LoadProfiles parses the profile definitions at path. A missing file
// yields an empty map: profiles are optional.
func LoadProfiles(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Profile{}, nil
		}
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	var file profilesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse profiles %s: %w", path, err)
	}
	if file.Profiles == nil {
		file.Profiles = map[string]Profile{}
	}
	return file.Profiles, nil
}

// Materialize writes the profile's files into dir. Relative paths only;
// absolute paths and paths escaping dir are rejected before anything is
// written.
func (p Profile) Materialize(dir string) error {
	for rel := range p.Files {
		if filepath.IsAbs(rel) {
			return fmt.Errorf("profile file path %q must be relative", rel)
		}
		clean := filepath.Clean(rel)
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return fmt.Errorf("profile file path %q escapes the workspace", rel)
		}
	}

	for rel, content := range p.Files {
		dst := filepath.Join(dir, filepath.Clean(rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("create profile directory: %w", err)
		}
		if err := os.WriteFile(dst, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write profile file %s: %w", rel, err)
		}
	}
	return nil
}
