// Command ontorag is the thin CLI wiring around the ontology-governance
// pipeline. Subcommand parsing stays deliberately minimal (§1 Non-goals
// exclude CLI argument parsing from the governed core); each subcommand
// maps directly onto one pipeline operation.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"ontorag/internal/config"
	"ontorag/internal/logging"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(os.Getenv("ONTORAG_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Init(cfg.LogPath, cfg.LogLevel)

	ctx := context.Background()
	sub := os.Args[1]
	args := os.Args[2:]

	var runErr error
	switch sub {
	case "ingest":
		runErr = runIngest(ctx, cfg, args)
	case "propose":
		runErr = runPropose(ctx, cfg, args)
	case "merge":
		runErr = runMerge(ctx, cfg, args)
	case "materialize":
		runErr = runMaterialize(ctx, cfg, args)
	case "baseline-import":
		runErr = runBaselineImport(ctx, cfg, args)
	case "emit":
		runErr = runEmit(ctx, cfg, args)
	default:
		usage()
		os.Exit(2)
	}
	if runErr != nil {
		log.Fatalf("%s: %v", sub, runErr)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: ontorag <ingest|propose|merge|materialize|baseline-import|emit> [flags]")
}
