package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error represents a failure detected while loading, analysing or
// rendering prediction data.
//
// Error codes:
//   - SHAPE_MISMATCH: arrays disagree in length or shape, or are empty
//   - INVALID_PARAMETER: parameter name outside the parameter table
//   - DIVIDE_BY_ZERO: a statistic would divide by zero under the fail policy
//   - IO: an input could not be read or an output could not be written
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context (file, index, shapes).
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes analysis errors.
type ErrorCode string

const (
	// ErrCodeShapeMismatch indicates inconsistent array lengths or shapes.
	ErrCodeShapeMismatch ErrorCode = "SHAPE_MISMATCH"

	// ErrCodeInvalidParameter indicates an unsupported parameter name.
	ErrCodeInvalidParameter ErrorCode = "INVALID_PARAMETER"

	// ErrCodeDivideByZero indicates a zero denominator in a statistic.
	ErrCodeDivideByZero ErrorCode = "DIVIDE_BY_ZERO"

	// ErrCodeIO indicates an unreadable input or unwritable output.
	ErrCodeIO ErrorCode = "IO"
)

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + e.Details[k]
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// IsShapeMismatch reports whether err is a shape mismatch error.
// Uses errors.As to handle wrapped errors.
func IsShapeMismatch(err error) bool { return hasCode(err, ErrCodeShapeMismatch) }

// IsInvalidParameter reports whether err is an invalid parameter error.
func IsInvalidParameter(err error) bool { return hasCode(err, ErrCodeInvalidParameter) }

// IsDivideByZero reports whether err is a divide-by-zero error.
func IsDivideByZero(err error) bool { return hasCode(err, ErrCodeDivideByZero) }

// IsIO reports whether err is an I/O error.
func IsIO(err error) bool { return hasCode(err, ErrCodeIO) }

// NewShapeMismatchError creates an Error for inconsistent shapes.
func NewShapeMismatchError(message string, details map[string]string) *Error {
	return &Error{Code: ErrCodeShapeMismatch, Message: message, Details: details}
}

// NewInvalidParameterError creates an Error for a parameter name that is
// not in the table. known lists the supported names.
func NewInvalidParameterError(name string, known []string) *Error {
	return &Error{
		Code:    ErrCodeInvalidParameter,
		Message: fmt.Sprintf("unsupported parameter %q", name),
		Details: map[string]string{"supported": strings.Join(known, ",")},
	}
}

// NewDivideByZeroError creates an Error for a zero denominator at index.
// An index of -1 means the statistic as a whole is undefined.
func NewDivideByZeroError(statistic, reason string, index int) *Error {
	details := map[string]string{"statistic": statistic}
	if index >= 0 {
		details["index"] = fmt.Sprintf("%d", index)
	}
	return &Error{Code: ErrCodeDivideByZero, Message: reason, Details: details}
}

// NewIOError creates an Error wrapping a filesystem failure on path.
func NewIOError(op, path string, err error) *Error {
	return &Error{
		Code:    ErrCodeIO,
		Message: op + " failed",
		Details: map[string]string{"path": path},
		Err:     err,
	}
}
