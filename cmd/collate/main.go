// Package main provides the entry point for the collate CLI tool.
package main

import "github.com/tabforge/collate/cmd/collate/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
