package worktree

import (
	"io"
	"log/slog"
	"strings"

	"github.com/mmr-tortoise/repoyard/internal/gitcmd"
)

// Info holds metadata about a single worktree entry as parsed from
// `git worktree list --porcelain` output.
type Info struct {
	// Path is the absolute filesystem path to the worktree directory.
	Path string

	// Branch is the full branch reference (e.g. "refs/heads/feature").
	// Empty if the worktree is in a detached HEAD state.
	Branch string

	// HEAD is the commit SHA the worktree currently points to.
	HEAD string

	// IsBare indicates a bare repository entry.
	IsBare bool
}

// Manager provides git worktree and branch operations by invoking the
// git CLI through a gitcmd.Runner.
type Manager struct {
	run gitcmd.Runner
	log *slog.Logger
}

// NewManager creates a Manager using the given runner. A nil logger
// disables logging.
func NewManager(run gitcmd.Runner, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{run: run, log: log}
}

// git runs a git command in dir and returns its stdout.
func (m *Manager) git(dir string, args ...string) (string, error) {
	return m.run.Run(dir, "git", args...)
}

// IsRepo reports whether dir is a valid git working directory (either a
// primary working directory or a worktree).
func (m *Manager) IsRepo(dir string) bool {
	_, err := m.git(dir, "rev-parse", "--git-dir")
	return err == nil
}

// CurrentBranch returns the short name of the branch checked out in dir.
// Returns "" for a detached HEAD: rev-parse reports the literal "HEAD"
// then, which is not a branch name.
func (m *Manager) CurrentBranch(dir string) (string, error) {
	out, err := m.git(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(out)
	if name == "HEAD" {
		return "", nil
	}
	return name, nil
}

// LocalBranchExists reports whether branch exists as a local ref in dir.
func (m *Manager) LocalBranchExists(dir, branch string) bool {
	_, err := m.git(dir, "rev-parse", "--verify", "--quiet", "refs/heads/"+branch)
	return err == nil
}

// RemoteBranchExists reports whether branch exists as an origin
// remote-tracking ref in dir.
func (m *Manager) RemoteBranchExists(dir, branch string) bool {
	_, err := m.git(dir, "rev-parse", "--verify", "--quiet", "refs/remotes/origin/"+branch)
	return err == nil
}

// DefaultBranch resolves the repository's default branch from the
// remote's symbolic HEAD. Falls back to "main" when the lookup fails
// (e.g. no origin remote, or origin/HEAD was never set).
func (m *Manager) DefaultBranch(dir string) string {
	out, err := m.git(dir, "symbolic-ref", "--short", "refs/remotes/origin/HEAD")
	if err != nil {
		return "main"
	}
	name := strings.TrimSpace(out)
	return strings.TrimPrefix(name, "origin/")
}

// FetchAll fetches all refs from all remotes in dir.
func (m *Manager) FetchAll(dir string) error {
	_, err := m.git(dir, "fetch", "--all")
	return err
}

// Checkout switches dir to branch using the branch resolution tie-break:
// an existing local ref wins (plain checkout); else an existing
// remote-tracking ref is checked out into a new tracking local branch;
// else a brand-new local branch is created from the current HEAD.
func (m *Manager) Checkout(dir, branch string) error {
	switch {
	case m.LocalBranchExists(dir, branch):
		_, err := m.git(dir, "checkout", branch)
		return err
	case m.RemoteBranchExists(dir, branch):
		_, err := m.git(dir, "checkout", "-b", branch, "--track", "origin/"+branch)
		return err
	default:
		_, err := m.git(dir, "checkout", "-b", branch)
		return err
	}
}

// List returns all worktrees registered in the repository at dir,
// parsed from `git worktree list --porcelain`. The first entry is the
// primary working directory.
func (m *Manager) List(dir string) ([]Info, error) {
	out, err := m.git(dir, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parsePorcelain(out), nil
}

// Prune removes stale worktree administrative files in the repository
// at dir (registrations whose directories no longer exist).
func (m *Manager) Prune(dir string) error {
	_, err := m.git(dir, "worktree", "prune")
	return err
}

// parsePorcelain parses `git worktree list --porcelain` output. Blocks
// are separated by blank lines; each line is a space-separated key/value
// pair, with standalone markers such as "bare" and "detached".
func parsePorcelain(output string) []Info {
	var worktrees []Info

	var current *Info
	for _, line := range strings.Split(strings.TrimRight(output, "\n"), "\n") {
		if line == "" {
			if current != nil {
				worktrees = append(worktrees, *current)
				current = nil
			}
			continue
		}

		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "worktree":
			current = &Info{Path: value}
		case "HEAD":
			if current != nil {
				current.HEAD = value
			}
		case "branch":
			if current != nil {
				current.Branch = value
			}
		case "bare":
			if current != nil {
				current.IsBare = true
			}
			// "detached" needs no handling: a detached worktree simply
			// has an empty Branch.
		}
	}

	if current != nil {
		worktrees = append(worktrees, *current)
	}

	return worktrees
}
