// Package gitcmd is the external-process execution primitive.
//
// It runs a command (primarily git) with a given working directory and
// returns captured standard output; a non-zero exit becomes a typed
// *CommandError carrying the exit status and captured stderr. No retry
// logic lives here.
//
// Callers that need to fake external processes in tests depend on the
// Runner interface rather than on ExecRunner directly.
package gitcmd
