package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

// fileDefaults are non-secret defaults optionally layered from a YAML file
// before environment variables are applied on top.
type fileDefaults struct {
	Namespace  string `yaml:"namespace"`
	OutDir     string `yaml:"out_dir"`
	CatalogDir string `yaml:"catalog_dir"`
	Workers    int    `yaml:"workers"`
	MinDelay   string `yaml:"min_delay"`
	Timeout    string `yaml:"timeout"`
	LogLevel   string `yaml:"log_level"`
	DSN        string `yaml:"dsn"`
}

// Load builds a Config by layering, in increasing priority:
//  1. built-in defaults,
//  2. an optional YAML file at yamlPath (ignored if empty or missing),
//  3. the process environment,
//  4. a .env file in the working directory (via godotenv.Overload, which
//     replaces variables already set in the process environment).
//
// Load never requires OPENROUTER_API_KEY to succeed: that variable is only
// validated at the boundary of an actual LLM call (§6.4 of the spec), never
// by pure merge/aggregate/materialize code paths.
func Load(yamlPath string) (Config, error) {
	cfg := Config{
		Pipeline: PipelineConfig{
			Namespace:  DefaultNamespace,
			OutDir:     "out",
			CatalogDir: "catalog",
			Workers:    1,
		},
		LLM: LLMConfig{
			Model:    DefaultModel,
			BaseURL:  "https://openrouter.ai/api/v1",
			MinDelay: 10 * time.Second,
			Timeout:  120 * time.Second,
		},
		LogLevel: "info",
	}

	if yamlPath != "" {
		if data, err := os.ReadFile(yamlPath); err == nil {
			var fd fileDefaults
			if err := yaml.Unmarshal(data, &fd); err != nil {
				return Config{}, fmt.Errorf("parsing %s: %w", yamlPath, err)
			}
			applyFileDefaults(&cfg, fd)
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("reading %s: %w", yamlPath, err)
		}
	}

	// Overload so repository/local .env values deterministically control
	// runtime behavior in development unless explicitly overridden.
	_ = godotenv.Overload()

	if v := strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENROUTER_MODEL")); v != "" {
		cfg.LLM.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENROUTER_BASE_URL")); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENROUTER_APP_NAME")); v != "" {
		cfg.LLM.AppName = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENROUTER_SITE_URL")); v != "" {
		cfg.LLM.SiteURL = v
	}
	if v := strings.TrimSpace(os.Getenv("ONTORAG_NAMESPACE")); v != "" {
		cfg.Pipeline.Namespace = v
	}
	if v := strings.TrimSpace(os.Getenv("ONTORAG_OUT_DIR")); v != "" {
		cfg.Pipeline.OutDir = v
	}
	if v := strings.TrimSpace(os.Getenv("ONTORAG_CATALOG_DIR")); v != "" {
		cfg.Pipeline.CatalogDir = v
	}
	cfg.Pipeline.Workers = intFromEnv("ONTORAG_WORKERS", cfg.Pipeline.Workers)
	if v := strings.TrimSpace(os.Getenv("ONTORAG_DSN")); v != "" {
		cfg.Pipeline.DSN = v
	}
	if d, ok := durationFromEnv("ONTORAG_LLM_MIN_DELAY"); ok {
		cfg.LLM.MinDelay = d
	}
	if d, ok := durationFromEnv("ONTORAG_LLM_TIMEOUT"); ok {
		cfg.LLM.Timeout = d
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	cfg.LogPath = strings.TrimSpace(os.Getenv("ONTORAG_LOG_PATH"))

	return cfg, nil
}

func applyFileDefaults(cfg *Config, fd fileDefaults) {
	if fd.Namespace != "" {
		cfg.Pipeline.Namespace = fd.Namespace
	}
	if fd.OutDir != "" {
		cfg.Pipeline.OutDir = fd.OutDir
	}
	if fd.CatalogDir != "" {
		cfg.Pipeline.CatalogDir = fd.CatalogDir
	}
	if fd.Workers > 0 {
		cfg.Pipeline.Workers = fd.Workers
	}
	if fd.MinDelay != "" {
		if d, err := time.ParseDuration(fd.MinDelay); err == nil {
			cfg.LLM.MinDelay = d
		}
	}
	if fd.Timeout != "" {
		if d, err := time.ParseDuration(fd.Timeout); err == nil {
			cfg.LLM.Timeout = d
		}
	}
	if fd.LogLevel != "" {
		cfg.LogLevel = fd.LogLevel
	}
	if fd.DSN != "" {
		cfg.Pipeline.DSN = fd.DSN
	}
}

func intFromEnv(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func durationFromEnv(key string) (time.Duration, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, false
	}
	return d, true
}
