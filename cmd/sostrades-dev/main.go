// Package main is the entry point for the sostrades-dev CLI.
//
// All functionality lives in internal/cli. Build-time variables (version,
// commit, date) are injected via ldflags:
//
//	go build -ldflags "-X main.version=1.2.0 -X main.commit=$(git rev-parse --short HEAD)" ./cmd/sostrades-dev
package main

import (
	"github.com/sostrades/sostrades-dev-tools/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	cli.Execute(cli.NewRootCommand())
}
