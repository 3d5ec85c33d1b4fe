package worktree

import (
	"errors"
	"strings"

	"github.com/mmr-tortoise/repoyard/internal/gitcmd"
	"github.com/mmr-tortoise/repoyard/internal/model"
)

// createAttempts bounds the attempt/classify/cleanup loop in
// CreateSafely.
const createAttempts = 3

// addFailureClass classifies a failed `git worktree add` so the retry
// loop can decide between cleanup-and-retry and plain retry.
type addFailureClass int

const (
	// failureTransient covers failures with no known recovery step;
	// they are retried blind until attempts run out.
	failureTransient addFailureClass = iota

	// failureBranchInUse covers "already checked out" / "already used
	// by worktree" failures, recovered by removing the stale
	// registration before retrying.
	failureBranchInUse
)

// classifyAddFailure inspects the stderr of a failed worktree add.
// A branch can only back one worktree at a time; git reports the
// conflict with a handful of message shapes depending on version and on
// whether the competing worktree's directory still exists.
func classifyAddFailure(err error) addFailureClass {
	var cmdErr *gitcmd.CommandError
	if !errors.As(err, &cmdErr) {
		return failureTransient
	}
	stderr := strings.ToLower(cmdErr.Stderr)
	switch {
	case strings.Contains(stderr, "already checked out"),
		strings.Contains(stderr, "already used by worktree"),
		strings.Contains(stderr, "missing but already registered"):
		return failureBranchInUse
	default:
		return failureTransient
	}
}

// CreateSafely creates a worktree for branch at worktreePath, derived
// from the base repository at basePath.
//
// Safety steps, in order:
//  1. If branch is checked out in the base repository's primary working
//     directory, the base is switched to its default branch first; a
//     branch checked out in one location cannot simultaneously back a
//     worktree.
//  2. The add command is chosen from where the branch exists: a local
//     ref is checked out as-is, a remote-only ref gets a tracking local
//     branch, and a branch that exists nowhere is created fresh.
//  3. Creation is attempted up to three times. A "branch already used by
//     a worktree" failure triggers stale-registration cleanup between
//     attempts; other failures are logged and retried. The failure of
//     the final attempt is propagated, as WorktreeConflictError if the
//     branch never came free.
func (m *Manager) CreateSafely(basePath, worktreePath, branch string) error {
	if err := m.evictFromPrimary(basePath, branch); err != nil {
		// Eviction failure is not immediately fatal: the add attempt
		// below will fail and report the real conflict.
		m.log.Warn("could not switch base repository off target branch",
			"base", basePath, "branch", branch, "error", err)
	}

	args := m.addArgs(basePath, worktreePath, branch)

	var lastErr error
	sawConflict := false
	for attempt := 1; attempt <= createAttempts; attempt++ {
		_, err := m.git(basePath, args...)
		if err == nil {
			return nil
		}
		lastErr = err

		switch classifyAddFailure(err) {
		case failureBranchInUse:
			sawConflict = true
			m.log.Warn("branch already attached to a worktree, cleaning up stale registration",
				"branch", branch, "attempt", attempt, "error", err)
			m.cleanupStale(basePath, branch)
		default:
			if attempt < createAttempts {
				m.log.Warn("worktree add failed, retrying",
					"branch", branch, "attempt", attempt, "error", err)
			}
		}
	}

	if sawConflict {
		return &model.WorktreeConflictError{Branch: branch, Attempts: createAttempts, Err: lastErr}
	}
	return lastErr
}

// evictFromPrimary switches the base repository off branch when its
// primary working directory currently has it checked out.
func (m *Manager) evictFromPrimary(basePath, branch string) error {
	current, err := m.CurrentBranch(basePath)
	if err != nil || current != branch {
		return err
	}
	_, err = m.git(basePath, "checkout", m.DefaultBranch(basePath))
	return err
}

// addArgs builds the worktree add invocation for branch depending on
// where the branch already exists.
func (m *Manager) addArgs(basePath, worktreePath, branch string) []string {
	switch {
	case m.LocalBranchExists(basePath, branch):
		return []string{"worktree", "add", worktreePath, branch}
	case m.RemoteBranchExists(basePath, branch):
		return []string{"worktree", "add", "--track", "-b", branch, worktreePath, "origin/" + branch}
	default:
		return []string{"worktree", "add", "-b", branch, worktreePath}
	}
}

// cleanupStale removes whatever worktree registration still claims
// branch. It locates the registration in the worktree listing and
// force-removes it by path, falling back to pruning the metadata when
// the targeted removal is not possible. The base repository's primary
// working directory is never touched. Failures are logged, not
// returned: the caller's next attempt decides whether cleanup worked.
func (m *Manager) cleanupStale(basePath, branch string) {
	infos, err := m.List(basePath)
	if err != nil {
		m.log.Warn("could not list worktrees during cleanup", "base", basePath, "error", err)
		_ = m.Prune(basePath)
		return
	}

	ref := "refs/heads/" + branch
	for i, info := range infos {
		if info.Branch != ref {
			continue
		}
		// The first entry is the primary working directory; removing it
		// would corrupt the base repository.
		if i == 0 {
			continue
		}
		if _, err := m.git(basePath, "worktree", "remove", "--force", info.Path); err != nil {
			m.log.Warn("forced worktree removal failed, pruning metadata",
				"path", info.Path, "error", err)
			if pruneErr := m.Prune(basePath); pruneErr != nil {
				m.log.Warn("worktree prune failed", "base", basePath, "error", pruneErr)
			}
		}
		return
	}

	// No registration matched the branch; prune in case git is tracking
	// a registration whose directory vanished.
	if err := m.Prune(basePath); err != nil {
		m.log.Warn("worktree prune failed", "base", basePath, "error", err)
	}
}

// Delete removes the git-level worktree registration for worktreePath
// from the base repository at basePath: graceful remove first, then
// forced, then prune-and-force. The returned error reports the final
// git-level outcome; callers proceed to directory deletion regardless,
// since removing the directory is the authoritative cleanup step.
func (m *Manager) Delete(basePath, worktreePath string) error {
	if _, err := m.git(basePath, "worktree", "remove", worktreePath); err == nil {
		return nil
	}

	if _, err := m.git(basePath, "worktree", "remove", "--force", worktreePath); err == nil {
		return nil
	}

	if err := m.Prune(basePath); err != nil {
		m.log.Warn("worktree prune failed during delete", "base", basePath, "error", err)
	}
	_, err := m.git(basePath, "worktree", "remove", "--force", worktreePath)
	return err
}
