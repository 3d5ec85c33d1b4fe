// Package cli — assign.go implements the "repoyard assign" command.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewAssignCommand creates the "assign" cobra command.
func NewAssignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <workspace> <profile>",
		Short: "Materialize a config profile into a workspace",
		Long: `Write the files of a named configuration profile (defined in
profiles.yaml) into the workspace's working copy and record the
assignment.

Examples:
  repoyard assign widgets staging`,

		Args: cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssign(args[0], args[1])
		},
	}
}

func runAssign(idOrPath, profile string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ws, err := a.engine.AssignProfile(idOrPath, profile)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		printWorkspace(ws, "")
		return nil
	}

	fmt.Printf("Assigned profile %q to workspace %q\n", profile, ws.LocalPath)
	return nil
}
