// Package cli implements the cobra commands for repoyard.
//
// Each subcommand (create, remove, list, pull, switch, branches, assign,
// reconcile) lives in its own file. This file defines the root command,
// the global flags, and the translation of taxonomy errors into process
// exit codes. Every invocation runs exactly one engine operation.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/repoyard/internal/model"
)

// Global flag variables bound to cobra persistent flags on the root
// command, available to every subcommand.
var (
	// jsonOutput switches command output to structured JSON.
	jsonOutput bool

	// verbose enables detailed logging on stderr.
	verbose bool

	// settingsPath overrides the default settings file location.
	settingsPath string
)

// Version, Commit and Date are injected from the main package; they are
// set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates and configures the root cobra command. The
// root command only provides help text and global flags; functionality
// lives in the subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "repoyard",
		Short: "Manage working copies of git repositories under one root",
		Long: `repoyard provisions and tracks working copies of git repositories on a
single host. Each working copy is backed either by an independent clone
or by a git worktree sharing history with a base clone, and a persisted
record of every working copy is kept in sync with what exists on disk.`,

		// Errors are formatted by Execute; keep cobra quiet.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Settings file path (default: ~/.config/repoyard/settings.json)")

	rootCmd.AddCommand(NewCreateCommand())
	rootCmd.AddCommand(NewRemoveCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewPullCommand())
	rootCmd.AddCommand(NewSwitchCommand())
	rootCmd.AddCommand(NewBranchesCommand())
	rootCmd.AddCommand(NewAssignCommand())
	rootCmd.AddCommand(NewReconcileCommand())

	return rootCmd
}

// Execute runs the root command and translates errors into exit codes.
// Taxonomy errors carry their own codes via model.ExitCodeFor; anything
// unrecognized exits 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(int(model.ExitCodeFor(err)))
	}
}

// printError outputs an error in the format selected by --json.
func printError(err error) {
	if jsonOutput {
		errObj := map[string]any{
			"error": map[string]any{
				"message": err.Error(),
				"code":    int(model.ExitCodeFor(err)),
			},
		}
		// Errors go to stderr even in JSON mode; stdout is reserved for
		// successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is
// enabled.
func VerboseLog(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}
