package exec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
)

// ExecRunner implements CommandRunner using os/exec.
//
// Command output is buffered for the returned Result and, if a sink is
// configured, simultaneously streamed to it so long-running installs and
// script runs remain observable in the log while they happen.
type ExecRunner struct {
	sink io.Writer
}

// NewRunner creates a new ExecRunner.
func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

// NewStreamingRunner creates an ExecRunner that mirrors all command
// output to sink as it is produced.
func NewStreamingRunner(sink io.Writer) *ExecRunner {
	return &ExecRunner{sink: sink}
}

// Run executes a command and returns its exit status and combined
// stdout/stderr output. Failure to start the command (for example the
// binary not existing) is returned as an error; a non-zero exit is not.
func (r *ExecRunner) Run(ctx context.Context, workDir string, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if workDir != "" {
		cmd.Dir = workDir
	}

	var buf bytes.Buffer
	var out io.Writer = &buf
	if r.sink != nil {
		out = io.MultiWriter(&buf, r.sink)
	}
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	res := Result{Output: buf.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}

// LookPath reports whether the named binary can be found on PATH.
func (r *ExecRunner) LookPath(name string) error {
	_, err := exec.LookPath(name)
	return err
}

// Verify ExecRunner implements CommandRunner at compile time.
var _ CommandRunner = (*ExecRunner)(nil)
