// Package cli — switch.go implements the "repoyard switch" command.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewSwitchCommand creates the "switch" cobra command.
func NewSwitchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <workspace> <branch>",
		Short: "Switch a workspace to another branch",
		Long: `Fetch all refs, then switch the workspace to the given branch. An
existing local branch is checked out directly; a remote-only branch gets
a local tracking branch; a branch that exists nowhere is created from
the current HEAD.

Examples:
  repoyard switch widgets feature/login
  repoyard switch widgets main`,

		Args: cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runSwitch(args[0], args[1])
		},
	}
}

func runSwitch(idOrPath, branch string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.engine.SwitchBranch(idOrPath, branch); err != nil {
		return err
	}

	if IsJSONOutput() {
		result := map[string]any{"workspace": idOrPath, "branch": branch, "action": "switched"}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Switched workspace %q to branch %q\n", idOrPath, branch)
	return nil
}
