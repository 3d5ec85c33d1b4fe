// Package cli — reconcile.go implements the "repoyard reconcile"
// command, intended to run once at startup (or from cron) to repair
// drift between the record store and the workspaces root.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewReconcileCommand creates the "reconcile" cobra command.
func NewReconcileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Remove directories no workspace record references",
		Long: `Scan the workspaces root and remove every directory that no workspace
record references. Directories are only ever deleted, never adopted or
re-registered. Individual removal failures are logged and skipped.

Examples:
  repoyard reconcile`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile()
		},
	}
}

func runReconcile() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	removed, err := a.engine.Reconcile()
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		if removed == nil {
			removed = []string{}
		}
		result := map[string]any{"removed": removed}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	if len(removed) == 0 {
		fmt.Println("Nothing to reconcile.")
		return nil
	}
	for _, name := range removed {
		fmt.Printf("Removed orphan directory %q\n", name)
	}
	return nil
}
