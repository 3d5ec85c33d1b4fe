package engine

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mmr-tortoise/repoyard/internal/config"
	"github.com/mmr-tortoise/repoyard/internal/model"
)

// Deprovision removes a workspace's working copy and its record. The
// directory removal is the authoritative cleanup step: git-level
// worktree removal failures are logged and deletion proceeds, but the
// row is only deleted once the directory is confirmed gone.
func (e *Engine) Deprovision(idOrPath string) error {
	ws, err := e.Get(idOrPath)
	if err != nil {
		return err
	}

	key := lockKey(ws.RepositoryURL, ws.Branch)
	e.locks.Lock(key)
	defer e.locks.Unlock(key)

	dir := e.workspaceDir(ws)
	basePath := e.basePathFor(ws)

	if ws.IsWorktree {
		if err := e.wt.Delete(basePath, dir); err != nil {
			e.log.Warn("git-level worktree removal failed, deleting directory anyway",
				"path", dir, "error", err)
		}
	}

	if err := os.RemoveAll(dir); err != nil {
		return &model.DirectoryConflictError{Path: dir, Err: err}
	}
	if _, err := os.Stat(dir); err == nil {
		// Never assume removal took effect.
		return &model.VerificationError{Path: dir, Expected: "directory removed"}
	}

	if ws.IsWorktree {
		// Best-effort follow-up; the directory is already gone.
		if err := e.wt.Prune(basePath); err != nil {
			e.log.Warn("worktree prune after deletion failed", "base", basePath, "error", err)
		}
	}

	return e.store.Delete(ws.ID)
}

// Pull runs a plain pull in the workspace directory and records the
// last-pulled timestamp on success. Failures are surfaced, not retried.
func (e *Engine) Pull(idOrPath string) (*model.Workspace, error) {
	ws, err := e.Get(idOrPath)
	if err != nil {
		return nil, err
	}

	key := lockKey(ws.RepositoryURL, ws.Branch)
	e.locks.Lock(key)
	defer e.locks.Unlock(key)

	if _, err := e.git(e.workspaceDir(ws), "pull"); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := e.store.UpdateLastPulled(ws.ID, now); err != nil {
		return nil, err
	}
	ws.LastPulled = &now
	return ws, nil
}

// SwitchBranch fetches all refs and switches the workspace to branch
// using the branch resolution tie-break: local ref, then remote-tracking
// ref, then a brand-new branch from the current HEAD.
func (e *Engine) SwitchBranch(idOrPath, branch string) error {
	ws, err := e.Get(idOrPath)
	if err != nil {
		return err
	}

	key := lockKey(ws.RepositoryURL, ws.Branch)
	e.locks.Lock(key)
	defer e.locks.Unlock(key)

	dir := e.workspaceDir(ws)
	if err := e.wt.FetchAll(dir); err != nil {
		return err
	}
	return e.wt.Checkout(dir, branch)
}

// CurrentBranch reads the workspace's HEAD short name. Returns "" on
// any git failure: this feeds display and reconciliation, not
// correctness-critical state.
func (e *Engine) CurrentBranch(ws *model.Workspace) string {
	branch, err := e.wt.CurrentBranch(e.workspaceDir(ws))
	if err != nil {
		return ""
	}
	return branch
}

// Branches is the result of ListBranches.
type Branches struct {
	// Local are the local branch names.
	Local []string `json:"local"`

	// All is the union of local and remote branch names, with the
	// origin/ prefix stripped from remote entries.
	All []string `json:"all"`

	// Current is the checked-out branch, empty when unreadable.
	Current string `json:"current"`
}

// ListBranches fetches all refs, then reports local branches, the
// local/remote union, and the current branch of the workspace.
func (e *Engine) ListBranches(idOrPath string) (*Branches, error) {
	ws, err := e.Get(idOrPath)
	if err != nil {
		return nil, err
	}

	dir := e.workspaceDir(ws)
	if err := e.wt.FetchAll(dir); err != nil {
		return nil, err
	}

	local, err := e.refNames(dir, "refs/heads")
	if err != nil {
		return nil, err
	}

	remote, err := e.refNames(dir, "refs/remotes/origin")
	if err != nil {
		return nil, err
	}

	result := &Branches{Local: local, Current: e.CurrentBranch(ws)}
	seen := make(map[string]bool, len(local))
	for _, name := range local {
		seen[name] = true
		result.All = append(result.All, name)
	}
	for _, name := range remote {
		// origin/HEAD is a pointer, not a branch.
		if name == "HEAD" || seen[name] {
			continue
		}
		seen[name] = true
		result.All = append(result.All, name)
	}

	return result, nil
}

// refNames lists ref names under the given prefix, with the prefix
// stripped. Full refnames are used because %(refname:short) collapses
// refs/remotes/origin/HEAD into "origin", which hides the HEAD pointer
// from callers that need to skip it.
func (e *Engine) refNames(dir, prefix string) ([]string, error) {
	out, err := e.git(dir, "for-each-ref", "--format=%(refname)", prefix)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line != "" {
			names = append(names, strings.TrimPrefix(line, prefix+"/"))
		}
	}
	return names, nil
}

// AssignProfile materializes the named config profile into the
// workspace's directory and records the assignment. An unknown profile
// name is a NotFoundError.
func (e *Engine) AssignProfile(idOrPath, name string) (*model.Workspace, error) {
	ws, err := e.Get(idOrPath)
	if err != nil {
		return nil, err
	}

	profiles, err := config.LoadProfiles(e.profilesPath)
	if err != nil {
		return nil, err
	}
	profile, ok := profiles[name]
	if !ok {
		return nil, &model.NotFoundError{Resource: "profile", Key: name}
	}

	if err := profile.Materialize(e.workspaceDir(ws)); err != nil {
		return nil, err
	}

	if err := e.store.UpdateConfigName(ws.ID, name); err != nil {
		return nil, err
	}
	ws.ConfigName = name
	return ws, nil
}

// Reconcile removes directories under the workspaces root that no
// workspace row references. Removal is best-effort per entry; individual
// failures are logged and skipped. Reconcile only deletes, it never
// adopts or re-registers found directories. Returns the names of the
// directories it removed.
func (e *Engine) Reconcile() ([]string, error) {
	entries, err := os.ReadDir(e.root)
	if err != nil {
		return nil, err
	}

	rows, err := e.store.ListAll()
	if err != nil {
		return nil, err
	}
	referenced := make(map[string]bool, len(rows))
	for _, ws := range rows {
		referenced[ws.LocalPath] = true
	}

	var removed []string
	for _, entry := range entries {
		// Provisioning only ever creates directories; stray files are
		// left alone.
		if !entry.IsDir() || referenced[entry.Name()] {
			continue
		}
		path := filepath.Join(e.root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			e.log.Warn("could not remove orphan directory", "path", path, "error", err)
			continue
		}
		e.log.Info("removed orphan directory", "path", path)
		removed = append(removed, entry.Name())
	}

	return removed, nil
}
