package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/cosmoviz/internal/analysis"
	"github.com/roach88/cosmoviz/internal/history"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Computation failure (shape mismatch, zero denominator)
	ExitCommandError = 2 // Command error (missing input, unwritable output, bad flags or config)
)

// Error codes reported in CLIError.Code.
const (
	ErrCodeGeneric          = "E001" // Generic/unknown error
	ErrCodeShapeMismatch    = "E002" // Arrays or loss series have the wrong shape
	ErrCodeInvalidParameter = "E003" // Parameter name outside the table
	ErrCodeDivideByZero     = "E004" // Zero denominator in a statistic
	ErrCodeIO               = "E005" // Input missing or output not writable
	ErrCodeConfig           = "E006" // Invalid config file or flags
	ErrCodeHistory          = "E007" // History database error
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
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// classify maps an error to its CLI error code and exit code.
func classify(err error) (string, int) {
	var configErr *configError
	switch {
	case errors.As(err, &configErr):
		return ErrCodeConfig, ExitCommandError
	case analysis.IsShapeMismatch(err):
		return ErrCodeShapeMismatch, ExitFailure
	case analysis.IsDivideByZero(err):
		return ErrCodeDivideByZero, ExitFailure
	case analysis.IsInvalidParameter(err):
		return ErrCodeInvalidParameter, ExitCommandError
	case analysis.IsIO(err):
		return ErrCodeIO, ExitCommandError
	case errors.Is(err, history.ErrNotFound):
		return ErrCodeHistory, ExitCommandError
	}
	return ErrCodeGeneric, ExitFailure
}

// errorDetails returns the structured details of an analysis error, if any.
func errorDetails(err error) map[string]string {
	var aerr *analysis.Error
	if errors.As(err, &aerr) && len(aerr.Details) > 0 {
		return aerr.Details
	}
	return nil
}

// reportError prints err through the formatter and converts it to an
// ExitError carrying the matching exit code.
func reportError(f *OutputFormatter, message string, err error) error {
	code, exit := classify(err)
	_ = f.Error(code, err.Error(), errorDetails(err))
	return WrapExitError(exit, fmt.Sprintf("%s: %s", code, message), err)
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
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E002", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
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

// newFormatter builds the formatter for a command from the global flags.
func newFormatter(opts *RootOptions, w, errW io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    w,
		ErrWriter: errW,
		Verbose:   opts.Verbose,
	}
}
