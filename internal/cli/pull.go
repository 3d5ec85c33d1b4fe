// Package cli — pull.go implements the "repoyard pull" command.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewPullCommand creates the "pull" cobra command.
func NewPullCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pull <workspace>",
		Short: "Pull the latest changes into a workspace",
		Long: `Run a plain git pull in the workspace directory and record the time of
the successful pull. Failures are surfaced, not retried.

Examples:
  repoyard pull widgets
  repoyard pull widgets-feature-login`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPull(args[0])
		},
	}
}

func runPull(idOrPath string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ws, err := a.engine.Pull(idOrPath)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(ws, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Pulled workspace %q at %s\n", ws.LocalPath, ws.LastPulled.Format("2006-01-02 15:04:05"))
	return nil
}
