package testing

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// FileAssertions provides utilities for asserting file system state in tests
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates a new file assertions helper
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{
		t:       t,
		baseDir: baseDir,
	}
}

// AssertFileExists validates that a file exists
func (fa *FileAssertions) AssertFileExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, relativePath)
	if stat, err := os.Stat(fullPath); err != nil {
		fa.t.Errorf("Expected file to exist: %s", fullPath)
	} else if stat.IsDir() {
		fa.t.Errorf("Expected %s to be a file, but it's a directory", fullPath)
	}
	return fa
}

// AssertFileNotExists validates that a path does not exist
func (fa *FileAssertions) AssertFileNotExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, relativePath)
	if _, err := os.Stat(fullPath); err == nil {
		fa.t.Errorf("Expected file to not exist: %s", fullPath)
	}
	return fa
}

// AssertDirExists validates that a directory exists
func (fa *FileAssertions) AssertDirExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, relativePath)
	if stat, err := os.Stat(fullPath); os.IsNotExist(err) {
		fa.t.Errorf("Expected directory to exist: %s", fullPath)
	} else if err == nil && !stat.IsDir() {
		fa.t.Errorf("Expected %s to be a directory, but it's a file", fullPath)
	}
	return fa
}

// AssertFileContains validates that a file contains expected content
func (fa *FileAssertions) AssertFileContains(relativePath, expectedContent string) *FileAssertions {
	fa.t.Helper()
	content := fa.read(relativePath)
	if !strings.Contains(content, expectedContent) {
		fa.t.Errorf("Expected file %s to contain %q\nActual content:\n%s",
			relativePath, expectedContent, content)
	}
	return fa
}

// AssertFileEquals validates the exact content of a file
func (fa *FileAssertions) AssertFileEquals(relativePath, expected string) *FileAssertions {
	fa.t.Helper()
	if content := fa.read(relativePath); content != expected {
		fa.t.Errorf("File %s content mismatch\nwant: %q\ngot:  %q", relativePath, expected, content)
	}
	return fa
}

// AssertEmptyFile validates that a file exists and has no content
func (fa *FileAssertions) AssertEmptyFile(relativePath string) *FileAssertions {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, relativePath)
	stat, err := os.Stat(fullPath)
	if err != nil {
		fa.t.Errorf("Failed to stat file %s: %v", fullPath, err)
		return fa
	}
	if stat.Size() != 0 {
		fa.t.Errorf("Expected %s to be empty, got %d bytes", relativePath, stat.Size())
	}
	return fa
}

// AssertTree validates that the tree under baseDir holds exactly the given
// entries. Directories are listed with a trailing slash.
func (fa *FileAssertions) AssertTree(expected ...string) *FileAssertions {
	fa.t.Helper()
	want := append([]string(nil), expected...)
	sort.Strings(want)
	got := fa.Tree()
	if strings.Join(want, "\n") != strings.Join(got, "\n") {
		fa.t.Errorf("Tree mismatch under %s\nwant:\n  %s\ngot:\n  %s",
			fa.baseDir, strings.Join(want, "\n  "), strings.Join(got, "\n  "))
	}
	return fa
}

// Tree lists every entry under baseDir, slash separated and sorted.
// Directories carry a trailing slash.
func (fa *FileAssertions) Tree() []string {
	fa.t.Helper()
	var entries []string
	err := filepath.WalkDir(fa.baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == fa.baseDir {
			return nil
		}
		rel, err := filepath.Rel(fa.baseDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			rel += "/"
		}
		entries = append(entries, rel)
		return nil
	})
	if err != nil {
		fa.t.Fatalf("Failed to walk %s: %v", fa.baseDir, err)
	}
	sort.Strings(entries)
	return entries
}

// Snapshot maps every file under baseDir to its content.
func (fa *FileAssertions) Snapshot() map[string]string {
	fa.t.Helper()
	snap := map[string]string{}
	for _, rel := range fa.Tree() {
		if strings.HasSuffix(rel, "/") {
			snap[rel] = ""
			continue
		}
		snap[rel] = fa.read(rel)
	}
	return snap
}

// CountFiles returns the number of files in a directory (non-recursive)
func (fa *FileAssertions) CountFiles(relativePath string) int {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, relativePath)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		fa.t.Logf("Failed to read directory %s: %v", fullPath, err)
		return 0
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			count++
		}
	}
	return count
}

// GetFileContent reads and returns the content of a file
func (fa *FileAssertions) GetFileContent(relativePath string) string {
	fa.t.Helper()
	return fa.read(relativePath)
}

// WriteFile creates a fixture file (and its parents) under baseDir.
func (fa *FileAssertions) WriteFile(relativePath, content string) *FileAssertions {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, relativePath)
	if err := os.MkdirAll(filepath.Dir(fullPath), testDirPermissions); err != nil {
		fa.t.Fatalf("Failed to create %s: %v", filepath.Dir(fullPath), err)
	}
	if err := os.WriteFile(fullPath, []byte(content), testFilePermissions); err != nil {
		fa.t.Fatalf("Failed to write %s: %v", fullPath, err)
	}
	return fa
}

func (fa *FileAssertions) read(relativePath string) string {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, relativePath)
	// #nosec G304 -- test helper reading from a test-controlled directory
	content, err := os.ReadFile(fullPath)
	if err != nil {
		fa.t.Fatalf("Failed to read file %s: %v", fullPath, err)
	}
	return string(content)
}
