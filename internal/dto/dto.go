// Package dto defines the stable, content-addressed representation of
// documents and chunks that the rest of the pipeline is built on: a DTO
// model that freezes document content with replayable provenance (§3 of
// the spec). Identifiers are pure functions of their inputs so that
// regenerating a Document or Chunk from identical source bytes yields
// identical ids.
package dto

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
)

// Document is the top-level unit of ingestion: a single source file.
type Document struct {
	ID         string `json:"id"`
	SourcePath string `json:"source_path"`
}

// Provenance locates a Chunk within its source document.
type Provenance struct {
	SourcePath string `json:"source_path"`
	// Page is nullable and, when set, must be >= 1.
	Page *int `json:"page,omitempty"`
	// Section is a nullable human-readable section/heading label.
	Section *string `json:"section,omitempty"`
	// OffsetStart/OffsetEnd form a nullable half-open character-offset range
	// within the source. Both are set together or both are nil.
	OffsetStart *int `json:"offset_start,omitempty"`
	OffsetEnd   *int `json:"offset_end,omitempty"`
}

// Chunk is a content-addressed slice of a Document's text.
type Chunk struct {
	ID         string     `json:"id"`
	DocumentID string     `json:"document_id"`
	Index      int        `json:"index"`
	Text       string     `json:"text"`
	Provenance Provenance `json:"provenance"`
}

// Evidence ties a proposed ontology or instance element back to a verbatim
// quote from one of its source chunks.
type Evidence struct {
	ChunkID string `json:"chunk_id"`
	Quote   string `json:"quote"`
}

// NewDocument mints a Document with a deterministic id derived from the
// source path.
func NewDocument(sourcePath string) Document {
	return Document{ID: DocumentID(sourcePath), SourcePath: sourcePath}
}

// DocumentID computes the 40-hex-digest id of a document from its source
// path. It is a pure function: identical paths always yield identical ids.
func DocumentID(sourcePath string) string {
	return digest(sourcePath)
}

// NewChunk mints a Chunk with a deterministic id derived from the document
// id, chunk index, and chunk text.
func NewChunk(documentID string, index int, text string, prov Provenance) Chunk {
	return Chunk{
		ID:         ChunkID(documentID, index, text),
		DocumentID: documentID,
		Index:      index,
		Text:       text,
		Provenance: prov,
	}
}

// ChunkID computes the 40-hex-digest id of a chunk from its parent document
// id, its index within that document, and its raw text. It is a pure
// function: identical (documentID, index, text) always yields identical ids
// — this is the replay guarantee described in §3.
func ChunkID(documentID string, index int, text string) string {
	return digest(documentID + "|" + strconv.Itoa(index) + "|" + text)
}

func digest(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// MaxEvidenceQuoteWords bounds an evidence quote per §3 ("bounded to 25
// words").
const MaxEvidenceQuoteWords = 25

// TruncateQuote trims a quote to at most MaxEvidenceQuoteWords words,
// preserving word boundaries.
func TruncateQuote(quote string) string {
	fields := strings.Fields(quote)
	if len(fields) <= MaxEvidenceQuoteWords {
		return quote
	}
	return strings.Join(fields[:MaxEvidenceQuoteWords], " ")
}
