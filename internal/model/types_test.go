package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/repoyard/internal/gitcmd"
)

func TestRepoName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/acme/widgets.git", "widgets"},
		{"https://github.com/acme/widgets", "widgets"},
		{"https://github.com/acme/widgets/", "widgets"},
		{"git@github.com:acme/widgets.git", "widgets"},
		{"git@github.com:widgets.git", "widgets"},
		{"/srv/git/widgets.git", "widgets"},
		{"widgets", "widgets"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RepoName(tt.url), "RepoName(%q)", tt.url)
	}
}

func TestSanitizeBranch(t *testing.T) {
	tests := []struct {
		branch string
		want   string
	}{
		{"main", "main"},
		{"feature/login", "feature-login"},
		{"feature/deep/nesting", "feature-deep-nesting"},
		{"release-1.2.3", "release-1.2.3"},
		{"weird branch name", "weird-branch-name"},
		{"/leading/and/trailing/", "leading-and-trailing"},
		{"under_score", "under_score"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeBranch(tt.branch), "SanitizeBranch(%q)", tt.branch)
	}
}

func TestWorktreeDirName(t *testing.T) {
	assert.Equal(t, "widgets-feature-login", WorktreeDirName("widgets", "feature/login"))
}

func TestParseCloneStatus(t *testing.T) {
	status, err := ParseCloneStatus("ready")
	require.NoError(t, err)
	assert.Equal(t, StatusReady, status)

	status, err = ParseCloneStatus("CLONING")
	require.NoError(t, err)
	assert.Equal(t, StatusCloning, status)

	_, err = ParseCloneStatus("error")
	assert.Error(t, err, "no persisted failure state exists")
}

func TestCloneStatusIsValid(t *testing.T) {
	assert.True(t, StatusCloning.IsValid())
	assert.True(t, StatusReady.IsValid())
	assert.False(t, CloneStatus("done").IsValid())
}

func TestExitCodeFor(t *testing.T) {
	cmdErr := &gitcmd.CommandError{Name: "git", Args: []string{"pull"}, ExitCode: 1, Stderr: "conflict"}

	tests := []struct {
		name string
		err  error
		want ExitCode
	}{
		{"nil", nil, ExitSuccess},
		{"not found", &NotFoundError{Resource: "workspace", Key: "x"}, ExitNotFound},
		{"directory conflict", &DirectoryConflictError{Path: "/tmp/x"}, ExitDirectoryConflict},
		{"worktree conflict", &WorktreeConflictError{Branch: "b", Attempts: 3}, ExitWorktreeConflict},
		{"verification", &VerificationError{Path: "/tmp/x", Expected: "directory removed"}, ExitVerificationFailed},
		{"command failed", cmdErr, ExitCommandFailed},
		{"wrapped command failed", fmt.Errorf("pull: %w", cmdErr), ExitCommandFailed},
		{"cli error wins", WrapCLIError(ExitUserCancelled, "cancelled", cmdErr), ExitUserCancelled},
		{"unknown", fmt.Errorf("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorUnwrap(t *testing.T) {
	inner := &NotFoundError{Resource: "profile", Key: "staging"}
	err := WrapCLIError(ExitNotFound, "assign failed", inner)

	assert.Contains(t, err.Error(), "assign failed")
	assert.Contains(t, err.Error(), `profile "staging" not found`)
	assert.ErrorAs(t, err, new(*NotFoundError))
}
