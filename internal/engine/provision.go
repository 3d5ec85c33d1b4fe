package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmr-tortoise/repoyard/internal/gitcmd"
	"github.com/mmr-tortoise/repoyard/internal/model"
)

// Provision materializes a (repository URL, branch) pair as a directory
// under the workspaces root and records it.
//
// The directory name is the repository's short name, or a derived
// "<repo>-<branch>" name when worktree mode was requested with a branch.
// Worktree mode is only actually used when a usable base clone already
// exists at the plain repository-name directory; otherwise the branch is
// cloned independently.
//
// Provision is idempotent per (URL, branch): an existing row is returned
// unchanged with no directory inspection. Any failure after the row is
// inserted triggers a compensating delete, so no transient "cloning" row
// survives a failed call.
func (e *Engine) Provision(url, branch string, useWorktree bool) (*model.Workspace, error) {
	repoName := model.RepoName(url)
	if repoName == "" {
		return nil, fmt.Errorf("cannot derive a repository name from %q", url)
	}

	key := lockKey(url, branch)
	e.locks.Lock(key)
	defer e.locks.Unlock(key)

	existing, err := e.store.GetByURLAndBranch(url, branch)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	basePath := filepath.Join(e.root, repoName)
	baseUsable := e.wt.IsRepo(basePath)

	localPath := repoName
	if useWorktree && branch != "" {
		localPath = model.WorktreeDirName(repoName, branch)
	}
	asWorktree := useWorktree && branch != "" && baseUsable

	// One row per directory. When another workspace already owns the
	// target path (the base clone's own row, or a fork sharing the
	// repository name), reject up front with a taxonomy error instead of
	// letting the insert die on the unique constraint.
	occupant, err := e.store.GetByPath(localPath)
	if err != nil {
		return nil, err
	}
	if occupant != nil {
		return nil, model.NewCLIError(model.ExitDirectoryConflict, fmt.Sprintf(
			"directory %q already belongs to another workspace (%s); a worktree-backed copy gets its own directory",
			localPath, occupant.RepositoryURL))
	}

	ws, err := e.store.Insert(&model.Workspace{
		RepositoryURL: url,
		LocalPath:     localPath,
		Branch:        branch,
		CloneStatus:   model.StatusCloning,
		IsWorktree:    asWorktree,
	})
	if err != nil {
		return nil, err
	}

	if err := e.finishProvision(ws, basePath, baseUsable); err != nil {
		if delErr := e.store.Delete(ws.ID); delErr != nil {
			e.log.Error("compensating delete failed, stale row remains",
				"workspace", ws.ID, "error", delErr)
		}
		return nil, err
	}

	ready, err := e.store.GetByID(ws.ID)
	if err != nil {
		return nil, err
	}
	if ready == nil {
		return nil, &model.NotFoundError{Resource: "workspace", Key: ws.ID}
	}
	return ready, nil
}

// finishProvision materializes the working copy and marks the row
// ready. Called with the row already inserted; any error here makes the
// caller compensate.
func (e *Engine) finishProvision(ws *model.Workspace, basePath string, baseUsable bool) error {
	if err := e.materialize(ws, basePath, baseUsable); err != nil {
		return err
	}

	// Record the branch the copy was created against when none was
	// pinned. Best effort: a detached or unreadable HEAD leaves the
	// field empty.
	if ws.Branch == "" {
		if current, err := e.wt.CurrentBranch(e.workspaceDir(ws)); err == nil && current != "" {
			if err := e.store.UpdateDefaultBranch(ws.ID, current); err != nil {
				return err
			}
		}
	}

	return e.store.UpdateStatus(ws.ID, model.StatusReady)
}

// materialize brings the working copy into existence on disk, choosing
// between worktree creation, re-use of an existing base clone, and a
// fresh clone.
func (e *Engine) materialize(ws *model.Workspace, basePath string, baseUsable bool) error {
	target := e.workspaceDir(ws)
	remote := e.creds.AuthenticateURL(ws.RepositoryURL)

	switch {
	case ws.IsWorktree:
		// All refs must be current before the worktree checks out the
		// branch; the base clone may predate the branch entirely.
		if err := e.wt.FetchAll(basePath); err != nil {
			return err
		}
		if err := e.wt.CreateSafely(basePath, target, ws.Branch); err != nil {
			return err
		}
		// git reported success; the directory must exist now.
		if _, err := os.Stat(target); err != nil {
			return &model.VerificationError{Path: target, Expected: "worktree directory created"}
		}
		return nil

	case baseUsable && target == basePath:
		return e.adoptBase(ws, target)

	default:
		// Fresh clone. Covers the no-base case, an invalid directory at
		// the base path, and a worktree request whose base clone does
		// not exist yet (the branch is then cloned independently).
		return e.cloneFresh(ws, target, remote)
	}
}

// adoptBase re-uses the existing base clone directly. The directory was
// already verified to be a valid git repository; with a branch pinned,
// refs are refreshed and the branch is switched to via the resolution
// tie-break.
func (e *Engine) adoptBase(ws *model.Workspace, dir string) error {
	if ws.Branch == "" {
		return nil
	}
	if err := e.wt.FetchAll(dir); err != nil {
		return err
	}
	return e.wt.Checkout(dir, ws.Branch)
}

// cloneFresh clears any leftover directory occupying the target path,
// then clones.
func (e *Engine) cloneFresh(ws *model.Workspace, target, remote string) error {
	if _, err := os.Stat(target); err == nil {
		if err := os.RemoveAll(target); err != nil {
			return &model.DirectoryConflictError{Path: target, Err: err}
		}
		if _, err := os.Stat(target); err == nil {
			return &model.DirectoryConflictError{Path: target}
		}
	}
	return e.cloneBranch(remote, target, ws.Branch)
}

// cloneBranch clones remote into target, branch-scoped when branch is
// non-empty. When the remote branch does not exist, the default branch
// is cloned and the requested branch is created or checked out locally.
func (e *Engine) cloneBranch(remote, target, branch string) error {
	if branch == "" {
		_, err := e.git(e.root, "clone", remote, target)
		return err
	}

	_, err := e.git(e.root, "clone", "--branch", branch, remote, target)
	if err == nil {
		return nil
	}
	if !isMissingRemoteBranch(err) {
		return err
	}

	e.log.Info("remote branch not found, cloning default branch and branching locally",
		"branch", branch, "remote", target)
	if _, cloneErr := e.git(e.root, "clone", remote, target); cloneErr != nil {
		return cloneErr
	}
	return e.wt.Checkout(target, branch)
}

// isMissingRemoteBranch detects the clone failure git reports when the
// requested branch does not exist on the remote.
func isMissingRemoteBranch(err error) bool {
	var cmdErr *gitcmd.CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	stderr := strings.ToLower(cmdErr.Stderr)
	return strings.Contains(stderr, "remote branch") &&
		(strings.Contains(stderr, "not found") || strings.Contains(stderr, "could not find"))
}
