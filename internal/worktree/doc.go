// Package worktree encapsulates the sharp edges of git worktree
// management.
//
// All git operations shell out to the git binary through a
// gitcmd.Runner; go-git's worktree support is too limited for the
// operations needed here (registration listing, prune, force removal).
//
// The safety-oriented entry points are CreateSafely, which runs a bounded
// attempt/classify/cleanup loop around `git worktree add`, and Delete,
// which walks a removal ladder (graceful → forced → prune then forced)
// before the caller falls back to deleting the directory itself.
package worktree
