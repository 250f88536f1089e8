package walk

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestCount(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"main.go":       "package main\n\nfunc main() {}\n",
		"pkg/util.go":   "package pkg\n",
		"pkg/notes.txt": "not go\n",
		"vendor/dep.go": "package dep\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
	}

	results, err := Count(context.Background(), Options{
		Root:    root,
		Include: []string{`.*\.go`},
		Exclude: []string{`vendor/.*`},
		Logger:  zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d: %v", len(results), results)
	}
	if got := results["main.go"]; got.Lines != 2 || got.Bytes != 29 {
		t.Errorf("main.go: unexpected stats %+v", got)
	}
	if got := results["pkg/util.go"]; got.Lines != 1 || got.Words != 2 {
		t.Errorf("pkg/util.go: unexpected stats %+v", got)
	}
}

func TestCountMissingRoot(t *testing.T) {
	_, err := Count(context.Background(), Options{
		Root:   filepath.Join(t.TempDir(), "missing"),
		Logger: zap.NewNop(),
	})
	var traversalErr *TraversalError
	if !errors.As(err, &traversalErr) {
		t.Fatalf("Expected *TraversalError, got %v", err)
	}
}

func TestScan(t *testing.T) {
	stats, err := Scan(context.Background(), strings.NewReader("a b\nc"))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	want := FileStats{Lines: 2, Words: 3, Chars: 3, Bytes: 5}
	if stats != want {
		t.Errorf("Scan() = %+v, want %+v", stats, want)
	}
}
