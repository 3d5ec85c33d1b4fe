package model

import (
	"errors"
	"fmt"

	"github.com/mmr-tortoise/repoyard/internal/gitcmd"
)

// ExitCode defines the CLI exit codes. These let scripts and CI systems
// distinguish the failure classes of the error taxonomy.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitNotFound indicates a workspace id or config profile name was
	// unknown.
	ExitNotFound ExitCode = 2

	// ExitCommandFailed indicates an underlying git/filesystem command
	// exited non-zero.
	ExitCommandFailed ExitCode = 3

	// ExitDirectoryConflict indicates a target path exists and could not
	// be cleared.
	ExitDirectoryConflict ExitCode = 4

	// ExitWorktreeConflict indicates a branch is checked out elsewhere or
	// a worktree registration stayed stuck after retries.
	ExitWorktreeConflict ExitCode = 5

	// ExitVerificationFailed indicates a post-action existence check
	// contradicted the expected outcome.
	ExitVerificationFailed ExitCode = 6

	// ExitUserCancelled indicates the user declined an interactive prompt.
	ExitUserCancelled ExitCode = 7
)

// NotFoundError reports an unknown workspace id or config profile name.
type NotFoundError struct {
	// Resource names what was looked up, e.g. "workspace" or "profile".
	Resource string

	// Key is the identifier that had no match.
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// DirectoryConflictError reports a target path that exists and could not
// be cleared before a destructive or creating operation.
type DirectoryConflictError struct {
	Path string
	Err  error
}

func (e *DirectoryConflictError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("directory %s could not be cleared: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("directory %s could not be cleared", e.Path)
}

func (e *DirectoryConflictError) Unwrap() error {
	return e.Err
}

// WorktreeConflictError reports a branch that stayed attached to another
// worktree after the bounded retry-with-cleanup loop was exhausted.
type WorktreeConflictError struct {
	Branch   string
	Attempts int
	Err      error
}

func (e *WorktreeConflictError) Error() string {
	return fmt.Sprintf(
		"branch %q is still used by another worktree after %d attempts; remove the stale worktree manually and retry",
		e.Branch, e.Attempts)
}

func (e *WorktreeConflictError) Unwrap() error {
	return e.Err
}

// VerificationError reports a post-action existence check that
// contradicted the expected outcome, e.g. a directory still present after
// removal or missing after worktree creation.
type VerificationError struct {
	Path string

	// Expected describes the state that was verified for, e.g.
	// "directory removed" or "worktree directory created".
	Expected string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verification failed at %s: expected %s", e.Path, e.Expected)
}

// CLIError is an error that carries an exit code, used at the CLI
// boundary to translate domain errors into process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ExitCodeFor maps an error to its exit code by walking the wrap chain.
// CLIError takes precedence so callers can pin a code explicitly; the
// taxonomy errors map to their dedicated codes; anything else is a
// general error.
func ExitCodeFor(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}

	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return ExitNotFound
	}

	var wtConflict *WorktreeConflictError
	if errors.As(err, &wtConflict) {
		return ExitWorktreeConflict
	}

	var dirConflict *DirectoryConflictError
	if errors.As(err, &dirConflict) {
		return ExitDirectoryConflict
	}

	var verification *VerificationError
	if errors.As(err, &verification) {
		return ExitVerificationFailed
	}

	var cmdErr *gitcmd.CommandError
	if errors.As(err, &cmdErr) {
		return ExitCommandFailed
	}

	return ExitGeneralError
}
