// Package cli — create.go implements the "repoyard create" command, the
// CLI surface of the engine's provision operation.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/repoyard/internal/model"
)

// createFlags holds the flag values for the create command.
type createFlags struct {
	branch   string // --branch: branch to pin for this working copy
	worktree bool   // --worktree: prefer a worktree over an independent clone
}

// NewCreateCommand creates the "create" cobra command.
func NewCreateCommand() *cobra.Command {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create <repository-url>",
		Short: "Provision a working copy of a repository",
		Long: `Provision a working copy of a repository under the workspaces root.

Without flags the repository's default branch is cloned into a directory
named after the repository. With --branch the given branch is pinned.
With --worktree (and a branch) the working copy is created as a git
worktree of the base clone when one exists, sharing its history.

Calling create again for the same repository and branch returns the
existing workspace unchanged.

Examples:
  repoyard create https://github.com/acme/widgets.git
  repoyard create --branch feature/login https://github.com/acme/widgets.git
  repoyard create --branch feature/login --worktree https://github.com/acme/widgets.git`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.branch, "branch", "b", "", "Branch to pin for this working copy")
	cmd.Flags().BoolVarP(&flags.worktree, "worktree", "w", false, "Back the working copy with a git worktree of the base clone")

	return cmd
}

func runCreate(repositoryURL string, flags *createFlags) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	VerboseLog("Provisioning %s (branch=%q, worktree=%v)", repositoryURL, flags.branch, flags.worktree)

	ws, err := a.engine.Provision(repositoryURL, flags.branch, flags.worktree)
	if err != nil {
		return err
	}

	printWorkspace(ws, "Provisioned")
	return nil
}

// printWorkspace outputs a single workspace in text or JSON format.
func printWorkspace(ws *model.Workspace, verb string) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(ws, "", "  ")
		fmt.Println(string(data))
		return
	}

	kind := "clone"
	if ws.IsWorktree {
		kind = "worktree"
	}
	branch := ws.Branch
	if branch == "" {
		branch = ws.DefaultBranch + " (default)"
	}

	fmt.Printf("%s workspace %q\n", verb, ws.LocalPath)
	fmt.Printf("  ID:      %s\n", ws.ID)
	fmt.Printf("  Source:  %s\n", ws.RepositoryURL)
	fmt.Printf("  Branch:  %s\n", branch)
	fmt.Printf("  Kind:    %s\n", kind)
	fmt.Printf("  Status:  %s\n", ws.CloneStatus)
}
