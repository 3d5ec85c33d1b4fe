// Package engine is the workspace provisioning and lifecycle engine.
//
// It decides how to materialize a requested (repository URL, branch)
// pair as a directory under the workspaces root, composing the record
// store, the command executor and the worktree safety subroutines. The
// engine is a state machine over two sources of truth, the persisted
// record and the actual git/filesystem state, and it guarantees eventual
// consistency between them: every mutation is followed by a verification
// step, a failed provisioning deletes the row it created, and Reconcile
// removes directories that drifted out of the record.
//
// In-process, operations on the same (repository URL, branch) key are
// serialized by a keyed mutex. Nothing coordinates across processes;
// callers that run several engines against the same root must serialize
// at their boundary.
package engine
