// Package main is the entry point for the repoyard CLI.
//
// The binary provisions and tracks working copies of git repositories.
// All functionality lives in internal/cli, which defines the cobra
// commands.
package main

import (
	"github.com/mmr-tortoise/repoyard/internal/cli"
)

// version, commit and date are set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
