package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"ontorag/internal/chunkstore"
	"ontorag/internal/config"
	"ontorag/internal/loader"
	"ontorag/internal/ontoerrors"
	"ontorag/internal/textsplitters"
)

// runIngest reads one source document, splits it via the document-loader
// collaborator, and persists the DocumentDTO and Chunk DTOs per §6.3.
func runIngest(_ context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	source := fs.String("source", "", "path to the source document")
	splitterKind := fs.String("splitter", string(textsplitters.KindFixed), "splitter strategy")
	size := fs.Int("size", 800, "splitter chunk size")
	overlap := fs.Int("overlap", 0, "splitter chunk overlap")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *source == "" {
		return &ontoerrors.ConfigError{Field: "source", Msg: "required"}
	}

	l, err := loader.New(textsplitters.Config{
		Kind:  textsplitters.Kind(*splitterKind),
		Fixed: textsplitters.FixedConfig{Size: *size, Overlap: *overlap, Unit: textsplitters.UnitChars},
	})
	if err != nil {
		return err
	}

	doc, chunks, err := l.Load(*source)
	if err != nil {
		return err
	}

	docDir := filepath.Join(cfg.Pipeline.OutDir, "documents")
	chunkDir := filepath.Join(cfg.Pipeline.OutDir, "chunks")
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		return &ontoerrors.IOError{Op: "create documents dir", Err: err}
	}
	if err := os.MkdirAll(chunkDir, 0o755); err != nil {
		return &ontoerrors.IOError{Op: "create chunks dir", Err: err}
	}

	docBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	docPath := filepath.Join(docDir, doc.ID+".json")
	if err := os.WriteFile(docPath, docBytes, 0o644); err != nil {
		return &ontoerrors.IOError{Op: "write document", Err: err}
	}

	chunkPath := filepath.Join(chunkDir, doc.ID+".jsonl")
	store, err := chunkstore.Open(chunkPath)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.AppendMany(chunks); err != nil {
		return err
	}

	log.Info().Str("document_id", doc.ID).Int("chunks", len(chunks)).Str("document_path", docPath).Str("chunk_path", chunkPath).Msg("ingested document")
	return nil
}
