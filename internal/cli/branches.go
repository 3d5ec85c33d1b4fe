// Package cli — branches.go implements the "repoyard branches" command.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewBranchesCommand creates the "branches" cobra command.
func NewBranchesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "branches <workspace>",
		Short: "List the branches of a workspace",
		Long: `Fetch all refs, then list the workspace's local branches and the union
of local and remote branches. The currently checked-out branch is
marked.

Examples:
  repoyard branches widgets`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runBranches(args[0])
		},
	}
}

func runBranches(idOrPath string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	branches, err := a.engine.ListBranches(idOrPath)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(branches, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	local := make(map[string]bool, len(branches.Local))
	for _, name := range branches.Local {
		local[name] = true
	}
	for _, name := range branches.All {
		marker := " "
		if name == branches.Current {
			marker = "*"
		}
		origin := "remote"
		if local[name] {
			origin = "local"
		}
		fmt.Printf("%s %s (%s)\n", marker, name, origin)
	}
	return nil
}
