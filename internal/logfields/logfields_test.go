package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Site", KeySite, "blog", Site("blog")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"File", KeyFile, "_posts/a.md", File("_posts/a.md")},
		{"Category", KeyCategory, "layouts", Category("layouts")},
		{"URL", KeyURL, "http://example", URL("http://example")},
		{"Tool", KeyTool, "docker", Tool("docker")},
		{"Command", KeyCommand, "create", Command("create")},
		{"Version", KeyVersion, "v1.0.0", Version("v1.0.0")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

// TestNumericHelpers verifies keys for numeric & float helpers.
func TestNumericHelpers(t *testing.T) {
	if v := Files(3); v.Key != KeyFiles {
		t.Fatalf("Files key mismatch: %s", v.Key)
	}
	if v := Status(500); v.Key != KeyStatus {
		t.Fatalf("Status key mismatch: %s", v.Key)
	}
	if v := Attempt(2); v.Key != KeyAttempt {
		t.Fatalf("Attempt key mismatch: %s", v.Key)
	}
	if v := DurationMS(12.5); v.Key != KeyDurationMS {
		t.Fatalf("DurationMS key mismatch: %s", v.Key)
	}
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError {
		t.Fatalf("Error key mismatch: %s", attr.Key)
	}
	if attr.Value.String() != "" {
		t.Fatalf("Expected empty error string, got %s", attr.Value.String())
	}
	if got := Error(errors.New("boom")).Value.String(); got != "boom" {
		t.Fatalf("Expected boom, got %s", got)
	}
}
