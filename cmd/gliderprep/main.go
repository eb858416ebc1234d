// Package main provides the gliderprep binary, which prepares glider
// deployments for binary-to-trajectory conversion.
//
// Usage:
//
//	gliderprep <command> [flags] <deployment>...
//
// Commands:
//
//	init      - Create the deployment directory tree, optionally copying the config set
//	check     - Report missing config documents
//	compile   - Write config/proc/deployment.yml from the config set
//
// Deployments are named glider-YYYYmmddTHHMM, e.g. ru39-20250423T1535.
package main

import (
	"errors"
	"fmt"
	"os"
)

// Version information (set by build flags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// =============================================================================
// Exit Codes
// =============================================================================

const (
	ExitSuccess         = 0
	ExitConfigError     = 1
	ExitDeploymentError = 2
)

// exitError carries the process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCmd(&app{})
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		return ExitConfigError
	}
	return ExitSuccess
}
