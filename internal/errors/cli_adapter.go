package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Exit codes returned by the jekyll-studio binary.
const (
	ExitOK          = 0
	ExitGeneral     = 1
	ExitUsage       = 2
	ExitConfig      = 7
	ExitBackend     = 8
	ExitInternal    = 10
	ExitMaterialize = 11
	ExitRegistry    = 12
)

var exitCodes = map[ErrorCategory]int{
	CategoryAborted:      ExitOK, // the user declined; nothing failed
	CategoryValidation:   ExitUsage,
	CategoryConfig:       ExitConfig,
	CategoryBackend:      ExitBackend,
	CategoryInvalidEntry: ExitMaterialize,
	CategoryDirectory:    ExitMaterialize,
	CategoryWrite:        ExitMaterialize,
	CategoryBuild:        ExitMaterialize,
	CategoryRegistry:     ExitRegistry,
	CategoryInternal:     ExitInternal,
}

// CLIErrorAdapter turns command errors into a stderr message, a log record
// and a process exit code.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	stderr  io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, stderr: os.Stderr, exit: os.Exit}
}

// ExitCodeFor maps err to a process exit code. Unclassified errors exit 1.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	se, ok := As(err)
	if !ok {
		return ExitGeneral
	}
	if code, known := exitCodes[se.Category]; known {
		return code
	}
	return ExitGeneral
}

// FormatError renders err for a terminal. Verbose mode prints the full chain.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	se, ok := As(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return se.Error()
	}

	switch se.Category {
	case CategoryAborted:
		return fmt.Sprintf("Aborted: %s already exists and was left untouched", se.Path())
	case CategoryConfig, CategoryValidation:
		msg := se.Message
		if field, ok := se.Context["field"]; ok {
			msg = fmt.Sprintf("%s: %v: %v", msg, field, se.Context["reason"])
		}
		if p := se.Path(); p != "" {
			msg = fmt.Sprintf("%s (%s)", msg, p)
		}
		if se.Cause != nil {
			msg = fmt.Sprintf("%s: %v", msg, se.Cause)
		}
		return msg
	case CategoryDirectory, CategoryWrite:
		return fmt.Sprintf("%s: %s: %v", se.Category, se.Path(), se.Cause)
	case CategoryInvalidEntry:
		return fmt.Sprintf("%s: %q (%v)", se.Message, se.Context["name"], se.Context["reason"])
	case CategoryBackend:
		if se.Cause != nil {
			return fmt.Sprintf("%s: %v", se.Message, se.Cause)
		}
	}
	return fmt.Sprintf("%s: %s", se.Category, se.Message)
}

// HandleError reports err and exits. A nil error is a no-op.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	if a.shouldLog(err) {
		a.logError(err)
	}
	_, _ = fmt.Fprintln(a.stderr, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

// shouldLog skips the log record for informational outcomes unless verbose.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}
	se, ok := As(err)
	return !ok || se.Severity == SeverityFatal || se.Category == CategoryInternal
}

func (a *CLIErrorAdapter) logError(err error) {
	se, ok := As(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}

	attrs := []slog.Attr{slog.String("category", string(se.Category))}
	if se.Retryable {
		attrs = append(attrs, slog.Bool("retryable", true))
	}
	for k, v := range se.Context {
		attrs = append(attrs, slog.Any(k, v))
	}
	if se.Cause != nil {
		attrs = append(attrs, slog.String("cause", se.Cause.Error()))
	}
	a.logger.LogAttrs(context.Background(), levelFor(se.Severity), se.Message, attrs...)
}

func levelFor(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
