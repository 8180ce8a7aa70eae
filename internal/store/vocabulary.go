package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/internal/vocab"
)

var _ vocab.Persister = (*Store)(nil)

// SaveVocabulary replaces the stored vocabulary for baseURL. Saving a
// vocabulary identical to the stored one is a no-op.
func (s *Store) SaveVocabulary(ctx context.Context, baseURL string, v vocab.Vocabulary) error {
	hash, err := ir.VocabularyHash(v)
	if err != nil {
		return fmt.Errorf("save vocabulary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save vocabulary: begin: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT hash FROM vocabulary_sets WHERE base_url = ?`, baseURL,
	).Scan(&existing)
	switch {
	case err == nil && existing == hash:
		return nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("save vocabulary: read hash: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO vocabulary_sets (base_url, hash, seq) VALUES (?, ?, ?)
		ON CONFLICT(base_url) DO UPDATE SET hash = excluded.hash, seq = excluded.seq
	`, baseURL, hash, s.clock.Next()); err != nil {
		return fmt.Errorf("save vocabulary: write set: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM vocabularies WHERE base_url = ?`, baseURL,
	); err != nil {
		return fmt.Errorf("save vocabulary: clear terms: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO vocabularies (base_url, term, iri) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("save vocabulary: prepare: %w", err)
	}
	defer stmt.Close()
	for term, iri := range v {
		if _, err := stmt.ExecContext(ctx, baseURL, term, iri); err != nil {
			return fmt.Errorf("save vocabulary: term %q: %w", term, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save vocabulary: commit: %w", err)
	}
	return nil
}

// LoadVocabulary returns the stored vocabulary for baseURL. The bool is
// false when nothing has been saved for it; an empty saved vocabulary
// still reports true.
func (s *Store) LoadVocabulary(ctx context.Context, baseURL string) (vocab.Vocabulary, bool, error) {
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT hash FROM vocabulary_sets WHERE base_url = ?`, baseURL,
	).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load vocabulary: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT term, iri FROM vocabularies
		WHERE base_url = ?
		ORDER BY term COLLATE BINARY ASC
	`, baseURL)
	if err != nil {
		return nil, false, fmt.Errorf("load vocabulary: %w", err)
	}
	defer rows.Close()

	v := vocab.Vocabulary{}
	for rows.Next() {
		var term, iri string
		if err := rows.Scan(&term, &iri); err != nil {
			return nil, false, fmt.Errorf("load vocabulary: scan: %w", err)
		}
		v[term] = iri
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("load vocabulary: iterate: %w", err)
	}
	return v, true, nil
}

// DeleteVocabulary forgets the stored vocabulary for baseURL.
func (s *Store) DeleteVocabulary(ctx context.Context, baseURL string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM vocabulary_sets WHERE base_url = ?`, baseURL,
	); err != nil {
		return fmt.Errorf("delete vocabulary: %w", err)
	}
	return nil
}
