// Package model defines the domain types for the sostrades-dev CLI.
//
// Every value in this package is derived from the filesystem on each run
// and discarded when the process exits. The only durable outputs of the
// tool are the virtual environment directory and the path manifest file,
// both of which live outside the process.
//
// The package also carries the CLIError type and the exit code taxonomy
// shared by all commands.
package model
