package worktree

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/repoyard/internal/gitcmd"
)

// setupTestRepo creates a temporary git repository with a single commit
// on "main". Worktree commands need at least one commit, and pinning
// the initial branch name keeps assertions independent of the local git
// configuration.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	runTestGit(t, dir, "init", "-b", "main")
	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")

	err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Test Repo\n"), 0o644)
	require.NoError(t, err, "failed to create initial file")

	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "initial commit")

	return dir
}

// runTestGit runs a git command in dir and fails the test on a non-zero
// exit.
func runTestGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
	return string(output)
}

func newTestManager() *Manager {
	return NewManager(gitcmd.ExecRunner{}, nil)
}

func TestIsRepo(t *testing.T) {
	m := newTestManager()

	assert.True(t, m.IsRepo(setupTestRepo(t)))
	assert.False(t, m.IsRepo(t.TempDir()))
}

func TestCurrentBranch(t *testing.T) {
	repo := setupTestRepo(t)
	m := newTestManager()

	branch, err := m.CurrentBranch(repo)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)

	// Detached HEAD is not a branch.
	runTestGit(t, repo, "checkout", "--detach")
	branch, err = m.CurrentBranch(repo)
	require.NoError(t, err)
	assert.Empty(t, branch)
}

func TestLocalBranchExists(t *testing.T) {
	repo := setupTestRepo(t)
	m := newTestManager()

	assert.True(t, m.LocalBranchExists(repo, "main"))
	assert.False(t, m.LocalBranchExists(repo, "feature"))

	runTestGit(t, repo, "branch", "feature")
	assert.True(t, m.LocalBranchExists(repo, "feature"))
}

func TestRemoteBranchExists(t *testing.T) {
	origin := setupTestRepo(t)
	runTestGit(t, origin, "branch", "feature")

	clone := filepath.Join(t.TempDir(), "clone")
	runTestGit(t, filepath.Dir(clone), "clone", origin, clone)

	m := newTestManager()
	assert.True(t, m.RemoteBranchExists(clone, "feature"))
	assert.False(t, m.RemoteBranchExists(clone, "nope"))
	// The origin repo itself has no remote refs.
	assert.False(t, m.RemoteBranchExists(origin, "feature"))
}

func TestDefaultBranch(t *testing.T) {
	origin := setupTestRepo(t)
	m := newTestManager()

	// No remote: the lookup fails and the fallback applies.
	assert.Equal(t, "main", m.DefaultBranch(origin))

	clone := filepath.Join(t.TempDir(), "clone")
	runTestGit(t, filepath.Dir(clone), "clone", origin, clone)
	assert.Equal(t, "main", m.DefaultBranch(clone))
}

func TestCheckoutTieBreak(t *testing.T) {
	origin := setupTestRepo(t)
	runTestGit(t, origin, "branch", "remote-only")

	clone := filepath.Join(t.TempDir(), "clone")
	runTestGit(t, filepath.Dir(clone), "clone", origin, clone)

	m := newTestManager()

	// Remote-only ref: a tracking local branch is created.
	require.NoError(t, m.Checkout(clone, "remote-only"))
	branch, err := m.CurrentBranch(clone)
	require.NoError(t, err)
	assert.Equal(t, "remote-only", branch)
	assert.True(t, m.LocalBranchExists(clone, "remote-only"))

	// Existing local ref: plain checkout.
	require.NoError(t, m.Checkout(clone, "main"))
	require.NoError(t, m.Checkout(clone, "remote-only"))

	// Ref that exists nowhere: created fresh from HEAD.
	require.NoError(t, m.Checkout(clone, "brand-new"))
	branch, err = m.CurrentBranch(clone)
	require.NoError(t, err)
	assert.Equal(t, "brand-new", branch)
}

func TestList(t *testing.T) {
	repo := setupTestRepo(t)
	m := newTestManager()

	wtPath := filepath.Join(t.TempDir(), "feature-wt")
	runTestGit(t, repo, "worktree", "add", "-b", "feature", wtPath)

	infos, err := m.List(repo)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	// The first entry is the primary working directory.
	assert.Equal(t, "refs/heads/main", infos[0].Branch)
	assert.Equal(t, "refs/heads/feature", infos[1].Branch)
	assert.NotEmpty(t, infos[1].HEAD)
}

func TestParsePorcelain(t *testing.T) {
	output := "worktree /path/to/main\nHEAD abc123\nbranch refs/heads/main\n\n" +
		"worktree /path/to/detached\nHEAD def456\ndetached\n\n" +
		"worktree /path/to/bare\nbare\n"

	infos := parsePorcelain(output)
	require.Len(t, infos, 3)

	assert.Equal(t, "/path/to/main", infos[0].Path)
	assert.Equal(t, "refs/heads/main", infos[0].Branch)
	assert.Equal(t, "abc123", infos[0].HEAD)

	assert.Empty(t, infos[1].Branch, "detached worktree has no branch")
	assert.True(t, infos[2].IsBare)
}

func TestFetchAll(t *testing.T) {
	origin := setupTestRepo(t)

	clone := filepath.Join(t.TempDir(), "clone")
	runTestGit(t, filepath.Dir(clone), "clone", origin, clone)

	// A branch created after the clone only appears after a fetch.
	runTestGit(t, origin, "branch", "late-branch")

	m := newTestManager()
	assert.False(t, m.RemoteBranchExists(clone, "late-branch"))
	require.NoError(t, m.FetchAll(clone))
	assert.True(t, m.RemoteBranchExists(clone, "late-branch"))
}
