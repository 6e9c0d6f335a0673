package loader

import (
	"os"
	"path/filepath"
	"testing"

	"ontorag/internal/textsplitters"
)

func TestLoader_LoadSplitsIntoDeterministicChunks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	content := "Alice is a person. Bob is her friend. They work together."
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	l, err := New(textsplitters.Config{Kind: textsplitters.KindFixed, Fixed: textsplitters.FixedConfig{Size: 20, Overlap: 0, Unit: textsplitters.UnitChars}})
	if err != nil {
		t.Fatalf("unexpected error building loader: %v", err)
	}

	doc1, chunks1, err := l.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc2, chunks2, err := l.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc1.ID != doc2.ID {
		t.Fatalf("expected stable document id, got %q vs %q", doc1.ID, doc2.ID)
	}
	if len(chunks1) == 0 {
		t.Fatal("expected at least one chunk")
	}
	if len(chunks1) != len(chunks2) {
		t.Fatalf("expected stable chunk count, got %d vs %d", len(chunks1), len(chunks2))
	}
	for i := range chunks1 {
		if chunks1[i].ID != chunks2[i].ID {
			t.Fatalf("expected stable chunk id at index %d, got %q vs %q", i, chunks1[i].ID, chunks2[i].ID)
		}
		if chunks1[i].Provenance.SourcePath != path {
			t.Fatalf("expected provenance source path set, got %q", chunks1[i].Provenance.SourcePath)
		}
	}
}

func TestNew_RejectsUnknownSplitterKind(t *testing.T) {
	if _, err := New(textsplitters.Config{Kind: "bogus"}); err == nil {
		t.Fatal("expected error for unknown splitter kind")
	}
}
