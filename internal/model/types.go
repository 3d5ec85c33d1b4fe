package model

import (
	"fmt"
	"strings"
	"time"
)

// CloneStatus represents the lifecycle state of a workspace's working copy.
// The only persisted transition is:
//
//	cloning → ready
//
// A workspace whose provisioning fails is deleted outright (compensating
// delete); there is no persisted failure state, so "cloning" is only ever
// observed mid-operation.
type CloneStatus string

const (
	// StatusCloning indicates the working copy is being materialized.
	// Rows in this state are transient and must not outlive the request
	// that created them.
	StatusCloning CloneStatus = "cloning"

	// StatusReady indicates the working copy exists on disk and is a
	// valid git repository.
	StatusReady CloneStatus = "ready"
)

// String returns the string representation of CloneStatus.
func (s CloneStatus) String() string {
	return string(s)
}

// IsValid checks whether the CloneStatus value is one of the predefined
// valid states.
func (s CloneStatus) IsValid() bool {
	switch s {
	case StatusCloning, StatusReady:
		return true
	default:
		return false
	}
}

// ParseCloneStatus converts a string to a CloneStatus.
// Returns an error if the string does not match any valid status.
func ParseCloneStatus(s string) (CloneStatus, error) {
	status := CloneStatus(strings.ToLower(s))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid clone status: %q (valid: cloning, ready)", s)
	}
	return status, nil
}

// Workspace is one persisted row per provisioned working copy.
//
// Invariants maintained by the store and the engine:
//   - at most one row per (RepositoryURL, Branch) pair, where an empty
//     Branch is its own bucket ("default branch, no pin")
//   - LocalPath is unique across all rows and corresponds 1:1 with a
//     directory under the workspaces root whenever CloneStatus is ready
//   - IsWorktree implies a non-empty Branch and the existence of a base
//     clone directory named after the repository
type Workspace struct {
	// ID is an opaque identifier assigned by the store on creation.
	ID string `json:"id"`

	// RepositoryURL is the source location (HTTPS/SSH git URL, or a
	// local path for file-based remotes).
	RepositoryURL string `json:"repositoryUrl"`

	// LocalPath is the directory name, relative to the workspaces root,
	// that uniquely identifies this working copy on disk.
	LocalPath string `json:"localPath"`

	// Branch is the branch pinned for this working copy. Empty means
	// "default branch, no pin".
	Branch string `json:"branch,omitempty"`

	// DefaultBranch records the branch the working copy was created
	// against when no branch was pinned.
	DefaultBranch string `json:"defaultBranch,omitempty"`

	// CloneStatus is the lifecycle state (cloning or ready).
	CloneStatus CloneStatus `json:"cloneStatus"`

	// ClonedAt is the creation timestamp.
	ClonedAt time.Time `json:"clonedAt"`

	// LastPulled is the timestamp of the most recent successful pull,
	// nil if the workspace has never been pulled.
	LastPulled *time.Time `json:"lastPulled,omitempty"`

	// ConfigName is the name of the configuration profile materialized
	// into this working copy, empty if none was assigned.
	ConfigName string `json:"assignedConfigName,omitempty"`

	// IsWorktree reports whether LocalPath is a git worktree of another
	// workspace's base clone rather than an independent clone.
	IsWorktree bool `json:"isWorktree"`
}

// RepoName derives the short repository name from a git URL: the last
// path segment with any ".git" suffix stripped. It handles HTTPS, SSH
// (scp-like "git@host:org/repo.git") and plain filesystem paths.
// Returns "" if no name can be derived.
func RepoName(repositoryURL string) string {
	s := strings.TrimRight(strings.TrimSpace(repositoryURL), "/")
	if s == "" {
		return ""
	}
	// scp-like SSH URLs separate host and path with a colon.
	if i := strings.LastIndex(s, ":"); i >= 0 && !strings.Contains(s[i:], "/") {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(s, ".git")
	return s
}

// SanitizeBranch converts a branch name into a string safe for use as a
// directory-name component. Path separators and any rune outside
// [A-Za-z0-9._-] are replaced with hyphens, and leading/trailing hyphens
// are trimmed.
func SanitizeBranch(branch string) string {
	var b strings.Builder
	for _, r := range branch {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// WorktreeDirName derives the directory name for a worktree working copy
// from the repository short name and the branch it pins.
func WorktreeDirName(repoName, branch string) string {
	return repoName + "-" + SanitizeBranch(branch)
}
