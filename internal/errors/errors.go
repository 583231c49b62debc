// Package errors provides a lightweight structured error type (StudioError)
// for category-based classification of materialization, backend and CLI failures.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory groups failures by what went wrong; the CLI maps each to an exit code.
type ErrorCategory string

const (
	// Site tree materialization errors
	CategoryInvalidEntry ErrorCategory = "invalid_entry"
	CategoryDirectory    ErrorCategory = "directory"
	CategoryWrite        ErrorCategory = "write"

	// Outcome of a declined overwrite; not a failure
	CategoryAborted ErrorCategory = "aborted"

	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// External collaborators
	CategoryBackend  ErrorCategory = "backend"
	CategoryBuild    ErrorCategory = "build"
	CategoryRegistry ErrorCategory = "registry"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity picks the log level used when the error is reported.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// StudioError is the error type returned across package boundaries.
// Context carries the offending path, name or URL for the user-facing message.
type StudioError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields are logged as slog attributes.
type ContextFields map[string]any

func (e *StudioError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

func (e *StudioError) Unwrap() error {
	return e.Cause
}

// WithContext sets a context field and returns e for chaining.
func (e *StudioError) WithContext(key string, value any) *StudioError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// Path returns the "path" context value, if any.
func (e *StudioError) Path() string {
	if p, ok := e.Context["path"].(string); ok {
		return p
	}
	return ""
}

// New returns an error of the given category without a cause.
func New(category ErrorCategory, severity ErrorSeverity, message string) *StudioError {
	return build(nil, category, severity, message, false)
}

// Wrap classifies err.
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *StudioError {
	return build(err, category, severity, message, false)
}

// WrapRetryable classifies err and marks it safe to retry.
func WrapRetryable(err error, category ErrorCategory, severity ErrorSeverity, message string) *StudioError {
	return build(err, category, severity, message, true)
}

func build(cause error, category ErrorCategory, severity ErrorSeverity, message string, retryable bool) *StudioError {
	return &StudioError{Category: category, Severity: severity, Message: message, Cause: cause, Retryable: retryable}
}

// As returns the outermost StudioError in err's chain.
func As(err error) (*StudioError, bool) {
	var se *StudioError
	if stdErrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsCategory reports whether err's StudioError has the given category.
func IsCategory(err error, category ErrorCategory) bool {
	if se, ok := As(err); ok {
		return se.Category == category
	}
	return false
}

// IsRetryable reports whether err is a StudioError marked retryable.
func IsRetryable(err error) bool {
	if se, ok := As(err); ok {
		return se.Retryable
	}
	return false
}

// GetCategory returns err's category; unclassified errors count as internal.
func GetCategory(err error) ErrorCategory {
	if se, ok := As(err); ok {
		return se.Category
	}
	return CategoryInternal
}

// IsInvalidEntry reports whether err is an InvalidEntryError.
func IsInvalidEntry(err error) bool { return IsCategory(err, CategoryInvalidEntry) }

// IsDirectoryCreation reports whether err is a DirectoryCreationError.
func IsDirectoryCreation(err error) bool { return IsCategory(err, CategoryDirectory) }

// IsWrite reports whether err is a WriteError.
func IsWrite(err error) bool { return IsCategory(err, CategoryWrite) }

// IsConflictAborted reports whether err records a declined overwrite.
func IsConflictAborted(err error) bool { return IsCategory(err, CategoryAborted) }
