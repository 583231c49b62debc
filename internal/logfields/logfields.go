package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeySite       = "site"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyCategory   = "category"
	KeyFiles      = "files"
	KeyDurationMS = "duration_ms"
	KeyURL        = "url"
	KeyStatus     = "status"
	KeyAttempt    = "attempt"
	KeyTool       = "tool"
	KeyCommand    = "command"
	KeyVersion    = "version"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Site(name string) slog.Attr      { return slog.String(KeySite, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func Tool(t string) slog.Attr         { return slog.String(KeyTool, t) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
