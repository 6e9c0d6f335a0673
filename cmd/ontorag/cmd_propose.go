package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"ontorag/internal/chunkstore"
	"ontorag/internal/config"
	"ontorag/internal/llmclient"
	"ontorag/internal/ontoerrors"
	"ontorag/internal/proposal"
	"ontorag/internal/schema"
)

// runPropose runs every chunk of one document through the LLM adapter and
// aggregates the results into a single document-level proposal (§4.2,
// §4.7). A chunk whose LLM call fails after the adapter's one retry is
// skipped with a warning rather than aborting the run.
func runPropose(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("propose", flag.ExitOnError)
	documentID := fs.String("document", "", "document id to propose over")
	schemaPath := fs.String("schema", "", "path to the current schema card (optional)")
	templatePath := fs.String("template", "", "path to a custom prompt template (optional)")
	out := fs.String("out", "", "output path for the aggregated proposal JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *documentID == "" || *out == "" {
		return &ontoerrors.ConfigError{Field: "document/out", Msg: "both required"}
	}
	if cfg.LLM.APIKey == "" {
		return &ontoerrors.ConfigError{Field: "OPENROUTER_API_KEY", Msg: "required for propose"}
	}

	chunkPath := filepath.Join(cfg.Pipeline.OutDir, "chunks", *documentID+".jsonl")
	chunks, err := chunkstore.Iter(chunkPath)
	if err != nil {
		return err
	}

	card := schema.New(cfg.Pipeline.Namespace)
	if *schemaPath != "" {
		if c, err := loadCard(*schemaPath); err == nil {
			card = c
		}
	}
	cardJSON, err := json.Marshal(card)
	if err != nil {
		return err
	}

	template := llmclient.DefaultTemplate
	if *templatePath != "" {
		data, err := os.ReadFile(*templatePath)
		if err != nil {
			return &ontoerrors.IOError{Op: "read prompt template", Err: err}
		}
		template = string(data)
	}

	client := llmclient.New(cfg.LLM, template)

	var perChunk []proposal.Proposal
	for _, chunk := range chunks {
		p, err := client.Propose(ctx, chunk, cardJSON)
		if err != nil {
			log.Warn().Str("chunk_id", chunk.ID).Err(err).Msg("skipping chunk after llm failure")
			continue
		}
		perChunk = append(perChunk, p)
	}

	doc := proposal.Aggregate(perChunk)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return &ontoerrors.IOError{Op: "write proposal", Err: err}
	}

	log.Info().Str("document_id", *documentID).Int("chunks", len(chunks)).Int("proposed_chunks", len(perChunk)).Msg("proposal aggregated")
	return nil
}

func loadCard(path string) (schema.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Card{}, &ontoerrors.IOError{Op: "read schema card", Err: err}
	}
	var c schema.Card
	if err := json.Unmarshal(data, &c); err != nil {
		return schema.Card{}, err
	}
	return c, nil
}
