package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/msgboard/internal/contract"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Contract error or failing scenario
	ExitCommandError = 2 // Command error (bad flags, config, database)
)

// Error codes used in JSON output for failures that are not contract errors.
const (
	CodeCommandError   = "COMMAND_ERROR"
	CodeScenarioFailed = "SCENARIO_FAILED"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
//
// Errors that are not ExitErrors come from cobra itself (unknown flags,
// wrong argument count) and map to ExitCommandError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// classify maps err to an exit code and a JSON error code.
// Contract errors are failures; anything else is a command error.
func classify(err error) (int, string) {
	if code := contract.CodeOf(err); code != "" {
		return ExitFailure, string(code)
	}
	return ExitCommandError, CodeCommandError
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string            `json:"code"`              // contract code, COMMAND_ERROR, SCENARIO_FAILED
	Message string            `json:"message"`           // human-readable message
	Details map[string]string `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// data is encoded in JSON mode; text is printed in text mode.
func (f *OutputFormatter) Success(data any, text string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	_, err := fmt.Fprintln(f.Writer, text)
	return err
}

// Fail reports err and returns the ExitError the command should return.
//
// In JSON mode the error envelope is written to Writer. In text mode
// nothing is written here; the caller of the root command prints the
// returned error to stderr.
func (f *OutputFormatter) Fail(message string, err error) error {
	exit, code := classify(err)

	if f.Format == "json" {
		cliErr := &CLIError{Code: code, Message: err.Error()}
		var ce *contract.Error
		if errors.As(err, &ce) {
			cliErr.Message = ce.Message
			cliErr.Details = ce.Details
		}
		if encErr := json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "error", Error: cliErr}); encErr != nil {
			return WrapExitError(ExitCommandError, "failed to write output", encErr)
		}
	}

	return WrapExitError(exit, message, err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
