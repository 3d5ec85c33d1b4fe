package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/repoyard/internal/model"
)

func TestGetByIDAndPath(t *testing.T) {
	origin := setupOrigin(t)
	e := newTestEngine(t)

	ws, err := e.Provision(origin, "", false)
	require.NoError(t, err)

	byID, err := e.Get(ws.ID)
	require.NoError(t, err)
	assert.Equal(t, ws.ID, byID.ID)

	byPath, err := e.Get(ws.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, ws.ID, byPath.ID)

	_, err = e.Get("no-such-workspace")
	var notFound *model.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "workspace", notFound.Resource)
}

func TestDeprovisionClone(t *testing.T) {
	origin := setupOrigin(t)
	e := newTestEngine(t)

	ws, err := e.Provision(origin, "", false)
	require.NoError(t, err)

	require.NoError(t, e.Deprovision(ws.ID))

	assert.NoDirExists(t, filepath.Join(e.Root(), ws.LocalPath))
	_, err = e.Get(ws.ID)
	assert.Error(t, err)
}

func TestDeprovisionWorktree(t *testing.T) {
	origin := setupOrigin(t)
	e := newTestEngine(t)

	base, err := e.Provision(origin, "", false)
	require.NoError(t, err)
	ws, err := e.Provision(origin, "feature", true)
	require.NoError(t, err)
	require.True(t, ws.IsWorktree)

	require.NoError(t, e.Deprovision(ws.ID))

	assert.NoDirExists(t, filepath.Join(e.Root(), ws.LocalPath))

	// The base clone survives with no leftover registration.
	baseDir := filepath.Join(e.Root(), base.LocalPath)
	assert.True(t, e.wt.IsRepo(baseDir))
	infos, err := e.wt.List(baseDir)
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestDeprovisionUnknownWorkspace(t *testing.T) {
	e := newTestEngine(t)

	err := e.Deprovision("no-such-workspace")
	var notFound *model.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestPullRecordsTimestamp(t *testing.T) {
	origin := setupOrigin(t)
	e := newTestEngine(t)

	ws, err := e.Provision(origin, "", false)
	require.NoError(t, err)
	require.Nil(t, ws.LastPulled)

	// New upstream commit to pull.
	err = os.WriteFile(filepath.Join(origin, "CHANGELOG.md"), []byte("v2\n"), 0o644)
	require.NoError(t, err)
	runTestGit(t, origin, "add", ".")
	runTestGit(t, origin, "commit", "-m", "add changelog")

	pulled, err := e.Pull(ws.ID)
	require.NoError(t, err)
	require.NotNil(t, pulled.LastPulled)

	assert.FileExists(t, filepath.Join(e.Root(), ws.LocalPath, "CHANGELOG.md"))

	stored, err := e.Get(ws.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastPulled)
}

func TestPullFailureSurfaces(t *testing.T) {
	origin := setupOrigin(t)
	e := newTestEngine(t)

	ws, err := e.Provision(origin, "", false)
	require.NoError(t, err)

	// Removing the remote makes the pull fail.
	require.NoError(t, os.RemoveAll(origin))

	_, err = e.Pull(ws.ID)
	require.Error(t, err)

	stored, err := e.Get(ws.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.LastPulled, "failed pulls leave no timestamp")
}

func TestSwitchBranch(t *testing.T) {
	origin := setupOrigin(t)
	e := newTestEngine(t)

	ws, err := e.Provision(origin, "", false)
	require.NoError(t, err)
	require.Equal(t, "main", e.CurrentBranch(ws))

	// Remote-only branch: a tracking local branch is created.
	require.NoError(t, e.SwitchBranch(ws.ID, "feature"))
	assert.Equal(t, "feature", e.CurrentBranch(ws))

	// Back to an existing local branch.
	require.NoError(t, e.SwitchBranch(ws.ID, "main"))
	assert.Equal(t, "main", e.CurrentBranch(ws))

	// A branch that exists nowhere is created from HEAD.
	require.NoError(t, e.SwitchBranch(ws.ID, "spike"))
	assert.Equal(t, "spike", e.CurrentBranch(ws))
}

func TestListBranches(t *testing.T) {
	origin := setupOrigin(t)
	e := newTestEngine(t)

	ws, err := e.Provision(origin, "", false)
	require.NoError(t, err)

	branches, err := e.ListBranches(ws.ID)
	require.NoError(t, err)

	assert.Equal(t, "main", branches.Current)
	assert.Contains(t, branches.Local, "main")
	assert.NotContains(t, branches.Local, "feature")
	assert.Contains(t, branches.All, "main")
	assert.Contains(t, branches.All, "feature")
	assert.NotContains(t, branches.All, "HEAD")
}

func TestAssignProfile(t *testing.T) {
	origin := setupOrigin(t)
	e := newTestEngine(t)

	ws, err := e.Provision(origin, "", false)
	require.NoError(t, err)

	err = os.WriteFile(e.profilesPath, []byte(`profiles:
  backend:
    description: Backend defaults
    files:
      .envrc: "export PORT=8080\n"
`), 0o644)
	require.NoError(t, err)

	assigned, err := e.AssignProfile(ws.ID, "backend")
	require.NoError(t, err)
	assert.Equal(t, "backend", assigned.ConfigName)
	assert.FileExists(t, filepath.Join(e.Root(), ws.LocalPath, ".envrc"))

	stored, err := e.Get(ws.ID)
	require.NoError(t, err)
	assert.Equal(t, "backend", stored.ConfigName)

	_, err = e.AssignProfile(ws.ID, "frontend")
	var notFound *model.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "profile", notFound.Resource)
}

func TestReconcileRemovesOrphans(t *testing.T) {
	origin := setupOrigin(t)
	e := newTestEngine(t)

	ws, err := e.Provision(origin, "", false)
	require.NoError(t, err)

	// Two orphan directories and a stray file alongside the workspace.
	require.NoError(t, os.MkdirAll(filepath.Join(e.Root(), "orphan-a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(e.Root(), "orphan-b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.Root(), "notes.txt"), []byte("keep\n"), 0o644))

	removed, err := e.Reconcile()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"orphan-a", "orphan-b"}, removed)

	assert.DirExists(t, filepath.Join(e.Root(), ws.LocalPath))
	assert.NoDirExists(t, filepath.Join(e.Root(), "orphan-a"))
	assert.NoDirExists(t, filepath.Join(e.Root(), "orphan-b"))
	assert.FileExists(t, filepath.Join(e.Root(), "notes.txt"))
}

func TestReconcileNothingToDo(t *testing.T) {
	e := newTestEngine(t)

	removed, err := e.Reconcile()
	require.NoError(t, err)
	assert.Empty(t, removed)
}
