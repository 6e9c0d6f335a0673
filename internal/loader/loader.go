// Package loader is the out-of-scope "document-loader" collaborator
// (§1): it turns raw document text into the DTO model (§3) this module's
// governed core actually works with. It is a thin adapter over the
// teacher's internal/textsplitters package — chunk-splitting strategy
// itself is explicitly out of scope for the ontology-governance pipeline,
// so this package exists only to produce something for the pipeline to
// consume, not to be a polished ingestion layer.
package loader

import (
	"os"

	"ontorag/internal/dto"
	"ontorag/internal/ontoerrors"
	"ontorag/internal/textsplitters"
)

// Loader reads a document from disk and splits it into chunks.
type Loader struct {
	splitter textsplitters.Splitter
}

// New builds a Loader from a splitter configuration. A zero Config
// (Kind == "") is rejected by textsplitters.NewFromConfig, so callers
// supply at least a Kind.
func New(cfg textsplitters.Config) (*Loader, error) {
	s, err := textsplitters.NewFromConfig(cfg)
	if err != nil {
		return nil, &ontoerrors.ConfigError{Field: "splitter", Msg: err.Error()}
	}
	return &Loader{splitter: s}, nil
}

// Load reads sourcePath, mints the Document DTO, and splits its content
// into Chunk DTOs via the configured splitter. Provenance carries only
// the source path; page/section/offset tracking is the document-loader's
// responsibility when parsing richer formats (PDF, DOCX) and is left
// unset for the plain-text case this package handles.
func (l *Loader) Load(sourcePath string) (dto.Document, []dto.Chunk, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return dto.Document{}, nil, &ontoerrors.IOError{Op: "read document", Err: err}
	}

	doc := dto.NewDocument(sourcePath)
	pieces := l.splitter.Split(string(data))

	chunks := make([]dto.Chunk, 0, len(pieces))
	for i, text := range pieces {
		chunks = append(chunks, dto.NewChunk(doc.ID, i, text, dto.Provenance{SourcePath: sourcePath}))
	}
	return doc, chunks, nil
}
