package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/internal/testutil"
	"github.com/roach88/woql/internal/vocab"
)

// createTestStore opens a store in a temp dir with a deterministic clock.
func createTestStore(t *testing.T) (*Store, *testutil.DeterministicClock) {
	t.Helper()
	clock := testutil.NewDeterministicClock()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, clock
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, s.Close())
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s, _ := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestClose_NilDB(t *testing.T) {
	var s Store
	assert.NoError(t, s.Close())
}

func TestVocabulary_RoundTrip(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()

	_, found, err := s.LoadVocabulary(ctx, "https://x/db1")
	require.NoError(t, err)
	assert.False(t, found)

	v := vocab.Vocabulary{"Report": "scm:Report", "author": "scm:author"}
	require.NoError(t, s.SaveVocabulary(ctx, "https://x/db1", v))

	got, found, err := s.LoadVocabulary(ctx, "https://x/db1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, v, got)

	_, found, err = s.LoadVocabulary(ctx, "https://x/db2")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestVocabulary_ReplaceAndSkipUnchanged(t *testing.T) {
	s, clock := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveVocabulary(ctx, "https://x/db1", vocab.Vocabulary{"A": "scm:A"}))
	assert.Equal(t, int64(1), clock.Current())

	// Same content: no write, no clock tick.
	require.NoError(t, s.SaveVocabulary(ctx, "https://x/db1", vocab.Vocabulary{"A": "scm:A"}))
	assert.Equal(t, int64(1), clock.Current())

	require.NoError(t, s.SaveVocabulary(ctx, "https://x/db1", vocab.Vocabulary{"B": "scm:B"}))
	got, _, err := s.LoadVocabulary(ctx, "https://x/db1")
	require.NoError(t, err)
	assert.Equal(t, vocab.Vocabulary{"B": "scm:B"}, got)
}

func TestVocabulary_EmptyIsFound(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveVocabulary(ctx, "https://x/db1", vocab.Vocabulary{}))
	got, found, err := s.LoadVocabulary(ctx, "https://x/db1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, got)
}

func TestVocabulary_Delete(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveVocabulary(ctx, "https://x/db1", vocab.Vocabulary{"A": "scm:A"}))
	require.NoError(t, s.DeleteVocabulary(ctx, "https://x/db1"))

	_, found, err := s.LoadVocabulary(ctx, "https://x/db1")
	require.NoError(t, err)
	assert.False(t, found)

	var terms int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM vocabularies`).Scan(&terms))
	assert.Zero(t, terms)
}

func TestVocabulary_ThroughCache(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()

	cache, err := vocab.NewCache(4, s)
	require.NoError(t, err)

	loads := 0
	load := func(context.Context) (vocab.Vocabulary, error) {
		loads++
		return vocab.Vocabulary{"Report": "scm:Report"}, nil
	}
	_, err = cache.Get(ctx, "https://x/db1", load)
	require.NoError(t, err)

	// A fresh cache over the same store does not call the loader.
	cache2, err := vocab.NewCache(4, s)
	require.NoError(t, err)
	got, err := cache2.Get(ctx, "https://x/db1", load)
	require.NoError(t, err)
	assert.Equal(t, "scm:Report", got["Report"])
	assert.Equal(t, 1, loads)
}

func TestRecordQuery(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()

	doc := ir.IRObject{"triple": ir.IRArray{ir.IRString("v:X"), ir.IRString("rdf:type"), ir.IRString("scm:Report")}}
	rec, err := s.RecordQuery(ctx, "https://x/db1", doc, false)
	require.NoError(t, err)
	assert.Equal(t, ir.MustDocumentID(doc), rec.ID)
	assert.Equal(t, int64(1), rec.Seq)

	got, err := s.RecentQueries(ctx, "https://x/db1", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec, got[0])
}

func TestRecentQueries_OrderAndDedup(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()

	first := ir.IRObject{"triple": ir.IRArray{ir.IRString("v:A"), ir.IRString("v:B"), ir.IRString("v:C")}}
	second := ir.IRObject{"add_triple": ir.IRArray{ir.IRString("doc:X"), ir.IRString("rdfs:label"), ir.IRString("v:L")}}
	other := ir.IRObject{"limit": ir.IRArray{ir.IRInt(1), ir.IRObject{}}}

	_, err := s.RecordQuery(ctx, "https://x/db1", first, false)
	require.NoError(t, err)
	_, err = s.RecordQuery(ctx, "https://x/db1", second, true)
	require.NoError(t, err)
	_, err = s.RecordQuery(ctx, "https://x/db2", other, false)
	require.NoError(t, err)
	// Re-running moves first to the front without duplicating it.
	_, err = s.RecordQuery(ctx, "https://x/db1", first, false)
	require.NoError(t, err)

	got, err := s.RecentQueries(ctx, "https://x/db1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first, got[0].Document)
	assert.Equal(t, int64(4), got[0].Seq)
	assert.Equal(t, second, got[1].Document)
	assert.True(t, got[1].ContainsUpdate)

	all, err := s.RecentQueries(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "https://x/db1", all[0].BaseURL)
	assert.Equal(t, "https://x/db2", all[1].BaseURL)
}

func TestRecentQueries_Empty(t *testing.T) {
	s, _ := createTestStore(t)

	got, err := s.RecentQueries(context.Background(), "", 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestOpen_ClockResumes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()
	doc := ir.IRObject{"triple": ir.IRArray{ir.IRString("v:A"), ir.IRString("v:B"), ir.IRString("v:C")}}

	s1, err := Open(path)
	require.NoError(t, err)
	_, err = s1.RecordQuery(ctx, "https://x/db1", doc, false)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	rec, err := s2.RecordQuery(ctx, "https://x/db2", doc, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.Seq)
}
