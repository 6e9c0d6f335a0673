// Package chunkstore persists chunks one-per-line as compact JSON records
// (§4.1). Writes are append-only; reads are streaming. The store is a
// scoped-acquire, guaranteed-release file handle: callers Open it, defer
// Close, and the underlying handle is never leaked across calls.
package chunkstore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"ontorag/internal/dto"
)

// Store is an append-only, line-delimited JSON store of chunks for a single
// document. It does not guarantee ordering across separate writer sessions;
// readers must not depend on cross-session ordering.
type Store struct {
	path string
	file *os.File
	w    *bufio.Writer
}

// Open opens (creating if necessary) a chunk store for append, preserving
// any existing content.
func Open(path string) (*Store, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening chunk store %s: %w", path, err)
	}
	return &Store{path: path, file: f, w: bufio.NewWriter(f)}, nil
}

// Close flushes buffered writes and releases the file handle.
func (s *Store) Close() error {
	if s.w != nil {
		if err := s.w.Flush(); err != nil {
			s.file.Close()
			return fmt.Errorf("flushing chunk store %s: %w", s.path, err)
		}
	}
	return s.file.Close()
}

// AppendMany serializes and appends each chunk as its own line. Either all
// chunks are appended or none are: a mid-batch marshal failure aborts
// before any write, per the "no partial writes" fatal-error contract (§7).
func (s *Store) AppendMany(chunks []dto.Chunk) error {
	lines := make([][]byte, 0, len(chunks))
	for _, c := range chunks {
		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshaling chunk %s: %w", c.ID, err)
		}
		lines = append(lines, b)
	}
	for _, b := range lines {
		if _, err := s.w.Write(b); err != nil {
			return fmt.Errorf("writing chunk to %s: %w", s.path, err)
		}
		if err := s.w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing chunk to %s: %w", s.path, err)
		}
	}
	return s.w.Flush()
}

// Count returns the number of chunks currently persisted, by scanning the
// file independently of any open writer.
func Count(path string) (int, error) {
	n := 0
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("opening chunk store %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("scanning chunk store %s: %w", path, err)
	}
	return n, nil
}

// Iter returns a finite, restartable sequence of the chunks currently
// persisted at path. Each call re-reads the file from the start.
func Iter(path string) ([]dto.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening chunk store %s: %w", path, err)
	}
	defer f.Close()

	var chunks []dto.Chunk
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var c dto.Chunk
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, fmt.Errorf("decoding chunk line in %s: %w", path, err)
		}
		chunks = append(chunks, c)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning chunk store %s: %w", path, err)
	}
	return chunks, nil
}
