package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"ontorag/internal/config"
	"ontorag/internal/ontoerrors"
	"ontorag/internal/schema"
)

// runEmit renders a governed Schema Card as OWL/RDFS Turtle (§5).
func runEmit(_ context.Context, _ config.Config, args []string) error {
	fs := flag.NewFlagSet("emit", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "path to the schema card")
	out := fs.String("out", "", "output path for the turtle ontology")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *schemaPath == "" || *out == "" {
		return &ontoerrors.ConfigError{Field: "schema/out", Msg: "both required"}
	}

	card, err := loadCard(*schemaPath)
	if err != nil {
		return err
	}

	ttl := schema.EmitTurtle(card)
	if err := os.WriteFile(*out, ttl, 0o644); err != nil {
		return &ontoerrors.IOError{Op: "write turtle", Err: err}
	}

	log.Info().Str("namespace", card.Namespace).Int("classes", len(card.Classes)).Msg("schema card emitted as turtle")
	return nil
}
