// Package llmclient is the thin typed facade over a chat-completions HTTP
// endpoint described in §4.7. It builds a per-chunk prompt from a
// template, posts it, parses the assistant's JSON reply into a
// proposal.Proposal, and enforces the retry-once and inter-call-delay
// policies. The HTTP shape mirrors the teacher's
// internal/llm/completions.go closely; this package adds the JSON-schema
// validation, retry, and pacing the spec requires around it.
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"ontorag/internal/config"
	"ontorag/internal/dto"
	"ontorag/internal/ontoerrors"
	"ontorag/internal/proposal"
)

// message mirrors the teacher's llm.Message; kept as its own type since
// this package owns its own request/response shapes rather than importing
// the teacher's generic completions package.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
}

type completionChoice struct {
	Message message `json:"message"`
}

type completionResponse struct {
	Choices []completionChoice `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client is a reused HTTP client paired with the pacing state required by
// §4.7 and §5: one minimum delay enforced between successive calls.
type Client struct {
	http     *http.Client
	cfg      config.LLMConfig
	template string

	lastCall time.Time
}

// New builds a Client from the LLM configuration and a loaded prompt
// template (must contain the {{CHUNK_DTO_JSON}} and {{SCHEMA_CARD_JSON}}
// placeholders per §6.2).
func New(cfg config.LLMConfig, template string) *Client {
	return &Client{
		http:     &http.Client{Timeout: cfg.Timeout},
		cfg:      cfg,
		template: template,
	}
}

// buildPrompt substitutes the two placeholders with compact (newline-free)
// JSON, per §6.2.
func buildPrompt(template string, chunk dto.Chunk, card json.RawMessage) (string, error) {
	chunkJSON, err := json.Marshal(chunk)
	if err != nil {
		return "", fmt.Errorf("marshaling chunk: %w", err)
	}
	out := strings.ReplaceAll(template, "{{CHUNK_DTO_JSON}}", string(chunkJSON))
	out = strings.ReplaceAll(out, "{{SCHEMA_CARD_JSON}}", string(card))
	return out, nil
}

// Propose runs one chunk through the adapter: builds the prompt, calls the
// endpoint, and parses the reply as a proposal.Proposal. On a first parse
// failure it retries once with a stricter reminder appended; on a second
// failure it returns an *ontoerrors.LLMParseError so the caller can record
// a warning and skip the chunk rather than abort the run (§7).
func (c *Client) Propose(ctx context.Context, chunk dto.Chunk, schemaCard json.RawMessage) (proposal.Proposal, error) {
	c.wait()

	prompt, err := buildPrompt(c.template, chunk, schemaCard)
	if err != nil {
		return proposal.Proposal{}, &ontoerrors.IOError{Op: "build prompt", Err: err}
	}

	text, err := c.call(ctx, prompt)
	if err != nil {
		return proposal.Proposal{}, &ontoerrors.IOError{Op: "llm call", Err: err}
	}

	p, err := parseProposal(text)
	if err == nil {
		return p, nil
	}

	log.Warn().Str("chunk_id", chunk.ID).Err(err).Msg("llm response failed to parse, retrying once")
	retryPrompt := prompt + "\n\nYour previous reply did not parse as strict JSON. Return strict JSON only, matching the schema exactly, with no surrounding prose."
	c.wait()
	text2, err := c.call(ctx, retryPrompt)
	if err != nil {
		return proposal.Proposal{}, &ontoerrors.LLMParseError{ChunkID: chunk.ID, Err: err}
	}
	p, err = parseProposal(text2)
	if err != nil {
		return proposal.Proposal{}, &ontoerrors.LLMParseError{ChunkID: chunk.ID, Err: err}
	}
	return p, nil
}

// wait enforces the inter-call minimum delay (§4.7, §5).
func (c *Client) wait() {
	if c.cfg.MinDelay <= 0 || c.lastCall.IsZero() {
		c.lastCall = time.Now()
		return
	}
	elapsed := time.Since(c.lastCall)
	if elapsed < c.cfg.MinDelay {
		time.Sleep(c.cfg.MinDelay - elapsed)
	}
	c.lastCall = time.Now()
}

func (c *Client) call(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if c.cfg.AppName != "" {
		req.Header.Set("X-Title", c.cfg.AppName)
	}
	if c.cfg.SiteURL != "" {
		req.Header.Set("HTTP-Referer", c.cfg.SiteURL)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if jsonErr := json.Unmarshal(respBody, &errResp); jsonErr == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return "", fmt.Errorf("api error: status %d", resp.StatusCode)
	}

	var completion completionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("parsing completion response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}
	return completion.Choices[0].Message.Content, nil
}

// parseProposal validates the top-level keys per §6.1: unknown keys are
// tolerated, missing keys default to empty. json.Unmarshal already gives
// us both for free since proposal.Proposal's slice fields are nil (treated
// as empty) when absent.
func parseProposal(text string) (proposal.Proposal, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var p proposal.Proposal
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return proposal.Proposal{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return p, nil
}
