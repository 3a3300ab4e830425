// Package exec provides an interface for command execution.
package exec

import (
	"context"
)

// Result holds the outcome of a finished command.
type Result struct {
	// Output is the combined stdout/stderr transcript of the command.
	Output string
	// ExitCode is the command's exit status. Zero means success.
	ExitCode int
}

// Ok returns true if the command exited with status zero.
func (r Result) Ok() bool {
	return r.ExitCode == 0
}

// CommandRunner defines the interface for running external commands.
// This abstraction allows mocking command execution in tests.
//
// A non-zero exit status is not an error: it is reported through
// Result.ExitCode. The error return is reserved for failures to start
// the command at all (binary not found, bad working directory), which
// callers treat as fatal environment problems.
type CommandRunner interface {
	// Run executes a command and returns its exit status together with
	// the combined stdout/stderr output. The working directory is set
	// to workDir if non-empty.
	Run(ctx context.Context, workDir string, name string, args ...string) (Result, error)

	// LookPath reports whether the named binary can be found on PATH.
	LookPath(name string) error
}
