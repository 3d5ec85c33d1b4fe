// Package cli — remove.go implements the "repoyard remove" command, the
// CLI surface of the engine's deprovision operation.
//
// Removal deletes the working-copy directory and, for worktrees, the
// git-level registration in the base clone, before deleting the record.
// The command prompts for confirmation unless --force is given.
package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/repoyard/internal/model"
)

// removeFlags holds the flag values for the remove command.
type removeFlags struct {
	force bool // --force: skip the confirmation prompt
}

// NewRemoveCommand creates the "remove" cobra command.
func NewRemoveCommand() *cobra.Command {
	flags := &removeFlags{}

	cmd := &cobra.Command{
		Use:   "remove <workspace>",
		Short: "Remove a workspace and its working copy",
		Long: `Remove a workspace: the working-copy directory is deleted, worktree
registrations in the base clone are cleaned up, and the record is
deleted once the directory is confirmed gone.

The workspace is addressed by id or by its directory name under the
workspaces root.

Examples:
  repoyard remove widgets-feature-login
  repoyard remove --force 2f1f9a6e-8f43-4c11-9f3e-5a14c6c9d8b1`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(args[0], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Remove without confirmation")

	return cmd
}

func runRemove(idOrPath string, flags *removeFlags) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ws, err := a.engine.Get(idOrPath)
	if err != nil {
		return err
	}

	if !flags.force {
		confirmed, err := promptConfirmation(ws)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to read user input", err)
		}
		if !confirmed {
			return model.NewCLIError(model.ExitUserCancelled, "operation cancelled by user")
		}
	}

	if err := a.engine.Deprovision(ws.ID); err != nil {
		return err
	}

	printRemoveResult(ws)
	return nil
}

// promptConfirmation asks the user to confirm the removal, reading a
// single line from stdin. "y" and "yes" confirm; anything else, or a
// closed stdin, declines.
func promptConfirmation(ws *model.Workspace) (bool, error) {
	fmt.Printf("About to remove workspace %q:\n", ws.LocalPath)
	fmt.Printf("  - Source: %s\n", ws.RepositoryURL)
	if ws.IsWorktree {
		fmt.Printf("  - This is a worktree; its registration in the base clone is removed too\n")
	}
	fmt.Print("\nContinue? [y/N] ")

	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
		return answer == "y" || answer == "yes", nil
	}
	if err := scanner.Err(); err != nil {
		return false, err
	}
	return false, nil
}

func printRemoveResult(ws *model.Workspace) {
	if IsJSONOutput() {
		result := map[string]any{
			"id":         ws.ID,
			"localPath":  ws.LocalPath,
			"action":     "removed",
			"isWorktree": ws.IsWorktree,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Removed workspace %q\n", ws.LocalPath)
}
