package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"ontorag/internal/baseline"
	"ontorag/internal/config"
	"ontorag/internal/ontoerrors"
	"ontorag/internal/schema"
)

// runBaselineImport optionally registers a new baseline ontology into the
// catalog and folds one catalog entry's classes and properties into a
// Schema Card, with each imported entry's origin set to the catalog entry
// id (§4.5).
func runBaselineImport(_ context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("baseline-import", flag.ExitOnError)
	id := fs.String("id", "", "baseline catalog entry id")
	register := fs.String("register", "", "path to a turtle file to register under -id before importing")
	label := fs.String("label", "", "label for a newly registered entry")
	description := fs.String("description", "", "description for a newly registered entry")
	tags := fs.String("tags", "", "comma-separated tags for a newly registered entry")
	namespace := fs.String("namespace", "", "namespace override for a newly registered entry")
	schemaPath := fs.String("schema", "", "path to the prior schema card (optional)")
	out := fs.String("out", "", "output path for the updated schema card")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" || *out == "" {
		return &ontoerrors.ConfigError{Field: "id/out", Msg: "both required"}
	}

	cat, err := baseline.Open(cfg.Pipeline.CatalogDir)
	if err != nil {
		return &ontoerrors.IOError{Op: "open baseline catalog", Err: err}
	}

	if *register != "" {
		var tagList []string
		if *tags != "" {
			tagList = strings.Split(*tags, ",")
		}
		entry, err := cat.Register(*id, *register, *label, *description, tagList, *namespace)
		if err != nil {
			return err
		}
		log.Info().Str("id", entry.ID).Str("namespace", entry.Namespace).Msg("registered baseline entry")
	}

	ttl, _, err := cat.Load(*id)
	if err != nil {
		return err
	}

	frag, err := baseline.Import(ttl, *id)
	if err != nil {
		return err
	}

	card := schema.New(cfg.Pipeline.Namespace)
	if *schemaPath != "" {
		c, err := loadCard(*schemaPath)
		if err != nil {
			return err
		}
		card = c
	}

	merged := baseline.Apply(card, frag)

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return &ontoerrors.IOError{Op: "write schema card", Err: err}
	}

	for _, w := range frag.Warnings {
		log.Warn().Msg(w)
	}
	log.Info().Str("baseline_id", *id).Int("classes", len(frag.Classes)).Msg("baseline imported")
	return nil
}
