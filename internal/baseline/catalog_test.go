package baseline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCatalog_RegisterAndLoad(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src.ttl")
	writeFile(t, srcPath, sampleFOAF)

	cat, err := Open(filepath.Join(dir, "catalog"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, err := cat.Register("foaf", srcPath, "FOAF", "Friend of a Friend", []string{"social"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Namespace != "http://xmlns.com/foaf/0.1/" {
		t.Fatalf("expected auto-detected namespace, got %q", entry.Namespace)
	}

	data, loadedEntry, err := cat.Load("foaf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loadedEntry.Label != "FOAF" {
		t.Fatalf("expected label FOAF, got %q", loadedEntry.Label)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty ttl data")
	}
}

func TestCatalog_RegisterFallsBackToArgNamespaceWhenUndetectable(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "empty.ttl")
	writeFile(t, srcPath, "@prefix ex: <http://example.org/> .\n")

	cat, err := Open(filepath.Join(dir, "catalog"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, err := cat.Register("empty", srcPath, "Empty", "", nil, "http://example.org/fallback/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Namespace != "http://example.org/fallback/" {
		t.Fatalf("expected fallback namespace, got %q", entry.Namespace)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
