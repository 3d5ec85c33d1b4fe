package engine

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mmr-tortoise/repoyard/internal/config"
	"github.com/mmr-tortoise/repoyard/internal/gitcmd"
	"github.com/mmr-tortoise/repoyard/internal/model"
	"github.com/mmr-tortoise/repoyard/internal/store"
	"github.com/mmr-tortoise/repoyard/internal/worktree"
)

// Engine orchestrates workspace provisioning and lifecycle operations.
type Engine struct {
	store        *store.Store
	run          gitcmd.Runner
	wt           *worktree.Manager
	root         string
	creds        config.Credentials
	profilesPath string
	log          *slog.Logger
	locks        *keyedMutex
}

// New creates an Engine rooted at cfg.WorkspacesRoot, creating the root
// directory if needed. A nil logger disables logging.
func New(st *store.Store, run gitcmd.Runner, cfg *config.Settings, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(cfg.WorkspacesRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create workspaces root: %w", err)
	}
	return &Engine{
		store:        st,
		run:          run,
		wt:           worktree.NewManager(run, log),
		root:         cfg.WorkspacesRoot,
		creds:        cfg.Credentials,
		profilesPath: cfg.ProfilesPath,
		log:          log,
		locks:        newKeyedMutex(),
	}, nil
}

// Root returns the workspaces root directory.
func (e *Engine) Root() string {
	return e.root
}

// List returns all workspace rows.
func (e *Engine) List() ([]model.Workspace, error) {
	return e.store.ListAll()
}

// Get looks up a workspace by id, falling back to local path. Returns
// NotFoundError when neither matches.
func (e *Engine) Get(idOrPath string) (*model.Workspace, error) {
	ws, err := e.store.GetByID(idOrPath)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		ws, err = e.store.GetByPath(idOrPath)
		if err != nil {
			return nil, err
		}
	}
	if ws == nil {
		return nil, &model.NotFoundError{Resource: "workspace", Key: idOrPath}
	}
	return ws, nil
}

// workspaceDir resolves a workspace's directory under the root.
func (e *Engine) workspaceDir(ws *model.Workspace) string {
	return filepath.Join(e.root, ws.LocalPath)
}

// basePathFor resolves the base clone directory for a workspace's
// repository, derived from the URL's repository name.
func (e *Engine) basePathFor(ws *model.Workspace) string {
	return filepath.Join(e.root, model.RepoName(ws.RepositoryURL))
}

// lockKey builds the keyed-mutex key for a (repository URL, branch)
// pair. The empty branch is its own bucket.
func lockKey(url, branch string) string {
	return url + "\x00" + branch
}

// git runs a git command through the executor in dir.
func (e *Engine) git(dir string, args ...string) (string, error) {
	return e.run.Run(dir, "git", args...)
}
