package test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"golang.org/x/tools/txtar"
)

func FixtureDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime.Caller failed")
	}
	return filepath.Join(filepath.Dir(filename), "..", "..", "testdata")
}

func ReadGolden(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(FixtureDir(t), name)
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v", path, err)
	}
	return string(b)
}

// ReadArchive parses the txtar archive testdata/<name> and returns its files
// keyed by name.
func ReadArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	path := filepath.Join(FixtureDir(t), name)
	archive, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatalf("failed to read archive %s: %v", path, err)
	}
	files := make(map[string]string, len(archive.Files))
	for _, f := range archive.Files {
		files[f.Name] = string(f.Data)
	}
	return files
}

// WriteArchive materializes the files of testdata/<name> under dir.
func WriteArchive(t *testing.T, name, dir string) {
	t.Helper()
	for file, data := range ReadArchive(t, name) {
		path := filepath.Join(dir, filepath.FromSlash(file))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}
