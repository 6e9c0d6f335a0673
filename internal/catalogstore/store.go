package catalogstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ontorag/internal/ontoerrors"
	"ontorag/internal/schema"
)

// Store records every Schema Card produced by a merge pass as a row keyed
// by namespace and version, giving a queryable history on top of the
// single-file artifact from §6.3. It is entirely optional: callers with
// no configured DSN never construct one and the pipeline behaves exactly
// as the file-only, pure-function design in §4.3 describes.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an already-opened pool (see OpenPool) and ensures the history
// table exists.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	s := &Store{pool: pool}
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_card_versions (
			namespace  TEXT NOT NULL,
			version    TEXT NOT NULL,
			card       JSONB NOT NULL,
			PRIMARY KEY (namespace, version)
		)
	`); err != nil {
		return nil, &ontoerrors.IOError{Op: "create schema_card_versions table", Err: err}
	}
	return s, nil
}

// SaveVersion records a Schema Card snapshot under its own version.
func (s *Store) SaveVersion(ctx context.Context, card schema.Card) error {
	data, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("marshaling card: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO schema_card_versions (namespace, version, card)
		VALUES ($1, $2, $3)
		ON CONFLICT (namespace, version) DO UPDATE SET card = EXCLUDED.card
	`, card.Namespace, card.Version, data)
	if err != nil {
		return &ontoerrors.IOError{Op: "save schema card version", Err: err}
	}
	return nil
}

// LatestVersion returns the most recently recorded card for a namespace,
// ordered by the version string (ISO-8601 timestamps sort lexicographically).
func (s *Store) LatestVersion(ctx context.Context, namespace string) (schema.Card, bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT card FROM schema_card_versions
		WHERE namespace = $1
		ORDER BY version DESC
		LIMIT 1
	`, namespace)

	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schema.Card{}, false, nil
		}
		return schema.Card{}, false, &ontoerrors.IOError{Op: "load latest schema card version", Err: err}
	}

	var card schema.Card
	if err := json.Unmarshal(data, &card); err != nil {
		return schema.Card{}, false, fmt.Errorf("unmarshaling card: %w", err)
	}
	return card, true, nil
}

// History returns every recorded version for a namespace, oldest first.
func (s *Store) History(ctx context.Context, namespace string) ([]schema.Card, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT card FROM schema_card_versions
		WHERE namespace = $1
		ORDER BY version ASC
	`, namespace)
	if err != nil {
		return nil, &ontoerrors.IOError{Op: "query schema card history", Err: err}
	}
	defer rows.Close()

	var out []schema.Card
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, &ontoerrors.IOError{Op: "scan schema card history row", Err: err}
		}
		var card schema.Card
		if err := json.Unmarshal(data, &card); err != nil {
			return nil, fmt.Errorf("unmarshaling card: %w", err)
		}
		out = append(out, card)
	}
	if err := rows.Err(); err != nil {
		return nil, &ontoerrors.IOError{Op: "iterate schema card history", Err: err}
	}
	return out, nil
}
