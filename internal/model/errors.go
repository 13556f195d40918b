package model

import "fmt"

// ExitCode defines the process exit codes of the CLI. Scripts can tell
// which step failed from the code alone.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitPythonVersion indicates the interpreter is older than required,
	// or its version could not be determined.
	ExitPythonVersion ExitCode = 2

	// ExitVenvCreation indicates the environment creation command did not
	// leave an activation script behind.
	ExitVenvCreation ExitCode = 3

	// ExitNoRequirements indicates that no repository contained a manifest.
	ExitNoRequirements ExitCode = 4

	// ExitCommandFailed indicates an external command exited non-zero or
	// could not be started.
	ExitCommandFailed ExitCode = 5

	// ExitVenvIncomplete indicates site-packages was missing when the path
	// manifest was about to be written.
	ExitVenvIncomplete ExitCode = 6

	// ExitConfigError indicates invalid configuration (file, env, or flags).
	ExitConfigError ExitCode = 7
)

// CLIError is an error that carries an exit code.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error returns the message, followed by the underlying error if present.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
