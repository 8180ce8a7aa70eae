package store

import (
	"context"
	"fmt"

	"github.com/roach88/woql/internal/ir"
)

// QueryRecord is one executed document.
type QueryRecord struct {
	ID             string      `json:"id"`
	BaseURL        string      `json:"base_url"`
	Document       ir.IRObject `json:"document"`
	ContainsUpdate bool        `json:"contains_update"`
	Seq            int64       `json:"seq"`
}

// RecordQuery stores doc under its content-addressed ID. Recording the
// same document again for the same database only moves it to the front.
func (s *Store) RecordQuery(ctx context.Context, baseURL string, doc ir.IRObject, containsUpdate bool) (QueryRecord, error) {
	canonical, err := ir.MarshalCanonical(doc)
	if err != nil {
		return QueryRecord{}, fmt.Errorf("record query: %w", err)
	}
	id, err := ir.DocumentID(doc)
	if err != nil {
		return QueryRecord{}, fmt.Errorf("record query: %w", err)
	}

	rec := QueryRecord{
		ID:             id,
		BaseURL:        baseURL,
		Document:       ir.CloneObject(doc),
		ContainsUpdate: containsUpdate,
		Seq:            s.clock.Next(),
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO queries (id, base_url, document, contains_update, seq)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(base_url, id) DO UPDATE SET seq = excluded.seq
	`, rec.ID, rec.BaseURL, string(canonical), rec.ContainsUpdate, rec.Seq)
	if err != nil {
		return QueryRecord{}, fmt.Errorf("record query: %w", err)
	}
	return rec, nil
}

// RecentQueries returns up to limit records, newest first. An empty
// baseURL lists every database. limit <= 0 means no limit.
// Returns an empty slice (not nil) when nothing is recorded.
func (s *Store) RecentQueries(ctx context.Context, baseURL string, limit int) ([]QueryRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, base_url, document, contains_update, seq
		FROM queries
		WHERE ? = '' OR base_url = ?
		ORDER BY seq DESC, id COLLATE BINARY ASC
		LIMIT ?
	`, baseURL, baseURL, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	records := []QueryRecord{}
	for rows.Next() {
		var (
			rec  QueryRecord
			data string
		)
		if err := rows.Scan(&rec.ID, &rec.BaseURL, &data, &rec.ContainsUpdate, &rec.Seq); err != nil {
			return nil, fmt.Errorf("scan query: %w", err)
		}
		if err := rec.Document.UnmarshalJSON([]byte(data)); err != nil {
			return nil, fmt.Errorf("decode query %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queries: %w", err)
	}
	return records, nil
}
