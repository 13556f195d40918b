// Package shell runs the external commands the CLI depends on: the Python
// interpreter probe, virtual environment creation, and the pip install
// chain.
//
// Shell strings are executed through the platform shell (sh -c on POSIX,
// cmd /S /C on Windows) so that "activate && pip ..." chains behave as on a
// developer's terminal. Output is streamed to the configured writers while
// a bounded tail of stderr is kept for the error message.
//
// All failures are returned as model.CLIError with ExitCommandFailed.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/sostrades/sostrades-dev-tools/internal/model"
)

// stderrTailLines bounds how much of a failing command's stderr is copied
// into the error message. pip can print thousands of lines.
const stderrTailLines = 20

// Runner is the external command collaborator.
type Runner interface {
	// Run executes a shell command string and blocks until it exits.
	// A non-zero exit is an error.
	Run(ctx context.Context, command string) error

	// Output runs name with args (no shell) and returns its stdout.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// Exec is the os/exec implementation of Runner.
type Exec struct {
	// Stdout receives the standard output of Run commands.
	Stdout io.Writer

	// Stderr receives the standard error of Run commands.
	Stderr io.Writer

	// Dir is the working directory for commands. Empty means the
	// current directory.
	Dir string
}

// NewExec creates a Runner that streams command output to stdout and
// stderr. Nil writers discard the stream.
func NewExec(stdout, stderr io.Writer) *Exec {
	return &Exec{Stdout: stdout, Stderr: stderr}
}

// Run executes command through the platform shell.
func (e *Exec) Run(ctx context.Context, command string) error {
	cmd := shellCommand(ctx, command)
	cmd.Dir = e.Dir

	var stderr bytes.Buffer
	cmd.Stdout = writerOrDiscard(e.Stdout)
	cmd.Stderr = io.MultiWriter(writerOrDiscard(e.Stderr), &stderr)

	if err := cmd.Run(); err != nil {
		// The exit status goes first, the stderr tail on the lines after it.
		if tail := tailLines(stderr.String(), stderrTailLines); tail != "" {
			err = fmt.Errorf("%w\n%s", err, tail)
		}
		return model.WrapCLIError(model.ExitCommandFailed, fmt.Sprintf("command failed: %s", command), err)
	}
	return nil
}

// Output executes name directly and captures stdout. Stderr is captured
// separately and only surfaces in the error.
func (e *Exec) Output(ctx context.Context, name string, args ...string) (string, error) {
	// #nosec G204 -- name is the configured interpreter, args are built internally
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.Dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		message := fmt.Sprintf("%s %s failed", name, strings.Join(args, " "))
		if s := strings.TrimSpace(stderr.String()); s != "" {
			message = fmt.Sprintf("%s: %s", message, s)
		}
		return "", model.WrapCLIError(model.ExitCommandFailed, message, err)
	}
	return stdout.String(), nil
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// tailLines returns at most n trailing non-empty lines of s.
func tailLines(s string, n int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
