package config

import (
	"os"
	"testing"
)

func TestIntFromEnv(t *testing.T) {
	key := "ONTORAG_TEST_INT_FROM_ENV"
	old, had := os.LookupEnv(key)
	defer func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	}()

	if v := intFromEnv(key, 7); v != 7 {
		t.Fatalf("expected default 7, got %d", v)
	}
	os.Setenv(key, "42")
	if v := intFromEnv(key, 7); v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
	os.Setenv(key, "not-an-int")
	if v := intFromEnv(key, 7); v != 7 {
		t.Fatalf("expected fallback to default on bad int, got %d", v)
	}
}

func TestDurationFromEnv(t *testing.T) {
	key := "ONTORAG_TEST_DURATION_FROM_ENV"
	os.Unsetenv(key)
	if _, ok := durationFromEnv(key); ok {
		t.Fatalf("expected not ok for unset var")
	}
	os.Setenv(key, "5s")
	defer os.Unsetenv(key)
	d, ok := durationFromEnv(key)
	if !ok {
		t.Fatalf("expected ok for valid duration")
	}
	if d.Seconds() != 5 {
		t.Fatalf("expected 5s, got %v", d)
	}
}

func TestLoad_DefaultsWithoutAPIKey(t *testing.T) {
	os.Unsetenv("OPENROUTER_API_KEY")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Pipeline.Namespace != DefaultNamespace {
		t.Fatalf("expected default namespace, got %q", cfg.Pipeline.Namespace)
	}
	if cfg.LLM.Model != DefaultModel {
		t.Fatalf("expected default model, got %q", cfg.LLM.Model)
	}
	if cfg.LLM.APIKey != "" {
		t.Fatalf("Load must not require OPENROUTER_API_KEY")
	}
}
