package llmclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ontorag/internal/config"
	"ontorag/internal/dto"
)

func TestBuildPrompt_SubstitutesBothPlaceholders(t *testing.T) {
	chunk := dto.NewChunk("doc1", 0, "Alice is a person.", dto.Provenance{SourcePath: "a.txt"})
	out, err := buildPrompt("before {{CHUNK_DTO_JSON}} middle {{SCHEMA_CARD_JSON}} after", chunk, json.RawMessage(`{"namespace":"ns"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "{{CHUNK_DTO_JSON}}") || strings.Contains(out, "{{SCHEMA_CARD_JSON}}") {
		t.Fatalf("expected both placeholders substituted, got: %s", out)
	}
	if !strings.Contains(out, chunk.ID) {
		t.Fatalf("expected chunk JSON embedded, got: %s", out)
	}
	if !strings.Contains(out, `"namespace":"ns"`) {
		t.Fatalf("expected schema card JSON embedded, got: %s", out)
	}
}

func TestParseProposal_TrimsCodeFence(t *testing.T) {
	raw := "```json\n{\"chunk_id\":\"c1\",\"proposed_additions\":{\"classes\":[],\"datatype_properties\":[],\"object_properties\":[],\"events\":[]},\"reuse_instead_of_create\":[],\"alias_or_merge_suggestions\":[],\"warnings\":[]}\n```"
	p, err := parseProposal(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ChunkID != "c1" {
		t.Fatalf("expected chunk_id c1, got %q", p.ChunkID)
	}
}

func TestParseProposal_InvalidJSONErrors(t *testing.T) {
	if _, err := parseProposal("not json"); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestClient_Propose_RetriesOnceThenSucceeds(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var reply string
		if calls == 1 {
			reply = "not valid json at all"
		} else {
			reply = `{"chunk_id":"c1","proposed_additions":{"classes":[],"datatype_properties":[],"object_properties":[],"events":[]},"reuse_instead_of_create":[],"alias_or_merge_suggestions":[],"warnings":[]}`
		}
		resp := completionResponse{Choices: []completionChoice{{Message: message{Role: "assistant", Content: reply}}}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	cfg := config.LLMConfig{Model: "test-model", BaseURL: server.URL, Timeout: 5 * time.Second}
	c := New(cfg, DefaultTemplate)

	chunk := dto.NewChunk("doc1", 0, "Alice is a person.", dto.Provenance{SourcePath: "a.txt"})
	p, err := c.Propose(context.Background(), chunk, json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ChunkID != "c1" {
		t.Fatalf("expected parsed chunk_id c1, got %q", p.ChunkID)
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 calls (1 retry), got %d", calls)
	}
}

func TestClient_Propose_FailsAfterSecondParseFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := completionResponse{Choices: []completionChoice{{Message: message{Role: "assistant", Content: "still not json"}}}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	cfg := config.LLMConfig{Model: "test-model", BaseURL: server.URL, Timeout: 5 * time.Second}
	c := New(cfg, DefaultTemplate)

	chunk := dto.NewChunk("doc1", 0, "Alice is a person.", dto.Provenance{SourcePath: "a.txt"})
	_, err := c.Propose(context.Background(), chunk, json.RawMessage(`{}`))
	if err == nil {
		t.Fatal("expected error after second parse failure")
	}
}
