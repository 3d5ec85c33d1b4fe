// Package model defines the domain types for repoyard.
//
// The central entity is Workspace: one persisted row per provisioned
// working copy under the workspaces root, backed either by an independent
// clone or by a git worktree sharing history with a base clone.
//
// The package also defines the error taxonomy shared by the provisioning
// engine and the CLI (NotFound, CommandFailed, DirectoryConflict,
// WorktreeConflict, VerificationFailed), together with the exit-code
// mapping applied when a command terminates.
package model
