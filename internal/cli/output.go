package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Process exit codes. Domain failures (invalid registry, leakage
// violation, unstable run) exit 1; unusable input (bad paths, broken
// files, malformed flags) exits 2.
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitCommandError = 2
)

// ExitError carries a process exit code through cobra's error path so
// main can map command failures onto the documented codes.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError returns an ExitError with no underlying cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code and context to an existing error.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode resolves the process exit code for a command error.
// An error that carries no code is treated as a domain failure.
func GetExitCode(err error) int {
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	return ExitFailure
}

// OutputFormatter renders command results as human-readable text or as
// the shared JSON envelope, per the global --format flag.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// envelope is the JSON wire shape shared by every command: a status,
// an optional payload, and an optional coded error. Validation commands
// carry both a payload and an error when a registry fails its checks.
type envelope struct {
	Status string     `json:"status"`
	Data   any        `json:"data,omitempty"`
	Error  *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (f *OutputFormatter) emit(env envelope) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// Success renders a command result. Commands with richer text output
// (report tables, run listings) render that themselves and only route
// JSON through here.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.emit(envelope{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error renders a coded failure. It does not terminate the command; the
// caller still returns the ExitError that sets the process code.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.emit(envelope{
			Status: "error",
			Error:  &errorBody{Code: code, Message: message, Details: details},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog prints progress detail when --verbose is set. It writes to
// ErrWriter so JSON output on Writer stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
