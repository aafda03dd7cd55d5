package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestStore opens a fresh file-backed store for one test.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "iteration %d", i)

		v, err := s.schemaVersion()
		require.NoError(t, err)
		assert.Equal(t, currentSchemaVersion, v)
		require.NoError(t, s.Close())
	}
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.Ping(context.Background()))
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Close())
}

func TestClock_Monotonic(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())
}

func TestFixedGenerator_InOrderThenPanics(t *testing.T) {
	g := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, "b", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestUUIDv7Generator_Unique(t *testing.T) {
	g := UUIDv7Generator{}
	a, b := g.Generate(), g.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
