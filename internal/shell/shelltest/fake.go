// Package shelltest provides a scripted shell.Runner for tests.
package shelltest

import (
	"context"
	"strings"
	"sync"
)

// Fake records every command it is given and answers from scripted hooks.
type Fake struct {
	mu sync.Mutex

	// Commands holds the shell strings passed to Run, in call order.
	Commands []string

	// Invocations holds "name arg1 arg2" for every Output call.
	Invocations []string

	// OnRun is called for each Run. A nil hook succeeds.
	OnRun func(command string) error

	// OnOutput answers Output calls. A nil hook returns "", nil.
	OnOutput func(name string, args []string) (string, error)
}

// Run records command and delegates to OnRun.
func (f *Fake) Run(_ context.Context, command string) error {
	f.mu.Lock()
	f.Commands = append(f.Commands, command)
	hook := f.OnRun
	f.mu.Unlock()

	if hook == nil {
		return nil
	}
	return hook(command)
}

// Output records the invocation and delegates to OnOutput.
func (f *Fake) Output(_ context.Context, name string, args ...string) (string, error) {
	f.mu.Lock()
	f.Invocations = append(f.Invocations, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	hook := f.OnOutput
	f.mu.Unlock()

	if hook == nil {
		return "", nil
	}
	return hook(name, args)
}

// Interpreter returns an OnOutput hook that answers the python probe with
// the given version and executable path.
func Interpreter(version, executable string) func(string, []string) (string, error) {
	return func(string, []string) (string, error) {
		return version + "\n" + executable + "\n", nil
	}
}
