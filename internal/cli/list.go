// Package cli — list.go implements the "repoyard list" command.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/repoyard/internal/model"
)

// NewListCommand creates the "list" cobra command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all recorded workspaces",
		Long: `List every workspace in the record store with its branch, backing kind
and lifecycle status.

Examples:
  repoyard list
  repoyard list --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
}

func runList() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	workspaces, err := a.engine.List()
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		// An empty list serializes as [], not null.
		if workspaces == nil {
			workspaces = []model.Workspace{}
		}
		data, _ := json.MarshalIndent(workspaces, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	if len(workspaces) == 0 {
		fmt.Println("No workspaces recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tBRANCH\tKIND\tSTATUS\tLAST PULLED\tID")
	for _, ws := range workspaces {
		branch := ws.Branch
		if branch == "" {
			branch = "(default)"
		}
		kind := "clone"
		if ws.IsWorktree {
			kind = "worktree"
		}
		lastPulled := "never"
		if ws.LastPulled != nil {
			lastPulled = ws.LastPulled.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			ws.LocalPath, branch, kind, ws.CloneStatus, lastPulled, ws.ID)
	}
	return w.Flush()
}
