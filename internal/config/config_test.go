package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/petsy/internal/memory"
)

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var ce *Error
	require.True(t, errors.As(err, &ce), "want *config.Error, got %T: %v", err, err)
	assert.Equal(t, code, ce.Code, ce.Error())
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, memory.DefaultRules(), r)
}

func TestLoad_File(t *testing.T) {
	r, err := Load(filepath.Join("testdata", "quick.cue"))
	require.NoError(t, err)

	assert.Equal(t, []memory.Token{"🐶", "🐱", "🐭", "🐹"}, r.Tokens)
	assert.Equal(t, 20, r.TimeBase)
	assert.Equal(t, 5, r.TimeStep)
	assert.Equal(t, 500*time.Millisecond, r.Settle)

	// Untouched fields keep defaults.
	assert.Equal(t, 2, r.PairBase)
	assert.Equal(t, 10, r.TimeFloor)
	assert.Equal(t, time.Second, r.Tick)

	assert.Equal(t, 4, r.PairCount(5), "capped by token count")
	assert.Equal(t, 10, r.TimeBudget(3))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	requireCode(t, err, ErrCodeRead)
}

func TestParse_Empty(t *testing.T) {
	r, err := Parse([]byte(""), "empty.cue")
	require.NoError(t, err)
	assert.Equal(t, memory.DefaultRules(), r)
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse([]byte("tokens: [\"a\""), "bad.cue")
	requireCode(t, err, ErrCodeParse)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("timebase: 10"), "typo.cue")
	requireCode(t, err, ErrCodeSchema)
}

func TestParse_SchemaBounds(t *testing.T) {
	_, err := Parse([]byte("timeBase: 0"), "zero.cue")
	requireCode(t, err, ErrCodeSchema)

	_, err = Parse([]byte(`pairBase: "two"`), "type.cue")
	requireCode(t, err, ErrCodeSchema)
}

func TestParse_BadDuration(t *testing.T) {
	_, err := Parse([]byte(`settle: "soon"`), "d.cue")
	requireCode(t, err, ErrCodeDuration)

	_, err = Parse([]byte(`tick: "-1s"`), "d.cue")
	requireCode(t, err, ErrCodeDuration)
}

func TestParse_FloorAboveBase(t *testing.T) {
	_, err := Parse([]byte("timeBase: 5\ntimeFloor: 8"), "t.cue")
	requireCode(t, err, ErrCodeTimeBudget)
}

func TestParse_EmptyTokenList(t *testing.T) {
	_, err := Parse([]byte("tokens: []"), "t.cue")
	requireCode(t, err, ErrCodeTokens)
}

func TestNormalizeTokens_NFCDuplicates(t *testing.T) {
	// "é" precomposed and "e" + combining acute are the same symbol.
	_, err := NormalizeTokens([]string{"\u00e9", "e\u0301"})
	requireCode(t, err, ErrCodeTokens)
}

func TestNormalizeTokens_TrimsAndComposes(t *testing.T) {
	got, err := NormalizeTokens([]string{" e\u0301 ", "a"})
	require.NoError(t, err)
	assert.Equal(t, []memory.Token{"\u00e9", "a"}, got)
}

func TestNormalizeTokens_Blank(t *testing.T) {
	_, err := NormalizeTokens([]string{"a", "  "})
	requireCode(t, err, ErrCodeTokens)
}

func TestError_Position(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.cue")
	require.NoError(t, os.WriteFile(path, []byte("timeBase: 30\ntimeStep: -1\n"), 0o644))

	_, err := Load(path)
	requireCode(t, err, ErrCodeSchema)
	assert.Contains(t, err.Error(), "E203")
}
