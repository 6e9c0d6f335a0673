package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"ontorag/internal/catalogstore"
	"ontorag/internal/config"
	"ontorag/internal/ontoerrors"
	"ontorag/internal/proposal"
	"ontorag/internal/schema"
)

// runMerge folds one aggregated proposal into a prior Schema Card,
// producing the next version (§4.3). Merge is pure and deterministic
// except for the version timestamp stamped at the moment of the call.
//
// When cfg.Pipeline.DSN is set, the prior card is loaded from (and the
// merged card is saved to) the Postgres-backed version history in
// internal/catalogstore instead of relying solely on -prior/-out files;
// -prior still takes precedence when explicitly given.
func runMerge(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	priorPath := fs.String("prior", "", "path to the prior schema card (optional)")
	proposalPath := fs.String("proposal", "", "path to the aggregated proposal JSON")
	out := fs.String("out", "", "output path for the merged schema card")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *proposalPath == "" || *out == "" {
		return &ontoerrors.ConfigError{Field: "proposal/out", Msg: "both required"}
	}

	var store *catalogstore.Store
	if cfg.Pipeline.DSN != "" {
		pool, err := catalogstore.OpenPool(ctx, cfg.Pipeline.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		store, err = catalogstore.New(ctx, pool)
		if err != nil {
			return err
		}
	}

	prior := schema.New(cfg.Pipeline.Namespace)
	switch {
	case *priorPath != "":
		c, err := loadCard(*priorPath)
		if err != nil {
			return err
		}
		prior = c
	case store != nil:
		c, found, err := store.LatestVersion(ctx, cfg.Pipeline.Namespace)
		if err != nil {
			return err
		}
		if found {
			prior = c
		}
	}

	data, err := os.ReadFile(*proposalPath)
	if err != nil {
		return &ontoerrors.IOError{Op: "read proposal", Err: err}
	}
	var q proposal.Proposal
	if err := json.Unmarshal(data, &q); err != nil {
		return &ontoerrors.LLMParseError{ChunkID: "aggregated", Err: err}
	}

	merged := schema.Merge(prior, q, time.Now().UTC())

	outBytes, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, outBytes, 0o644); err != nil {
		return &ontoerrors.IOError{Op: "write schema card", Err: err}
	}

	if store != nil {
		if err := store.SaveVersion(ctx, merged); err != nil {
			return err
		}
	}

	log.Info().
		Str("namespace", merged.Namespace).
		Str("version", merged.Version).
		Int("classes", len(merged.Classes)).
		Int("object_properties", len(merged.ObjectProperties)).
		Int("datatype_properties", len(merged.DatatypeProperties)).
		Bool("persisted_to_catalogstore", store != nil).
		Msg("schema card merged")
	return nil
}
