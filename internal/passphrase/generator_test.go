// ABOUTME: Tests for passphrase generation and normalization
// ABOUTME: Uses a deterministic word source so generation is testable offline

package passphrase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceSource returns preset words in order. Deterministic stand-in
// for the embedded source.
type sequenceSource struct {
	words []string
	next  int
}

func (s *sequenceSource) Word() (string, error) {
	if s.next >= len(s.words) {
		return "", ErrSourceUnavailable
	}
	w := s.words[s.next]
	s.next++
	return w, nil
}

func TestGenerator_Generate(t *testing.T) {
	gen := NewGenerator(&sequenceSource{words: []string{"happy", "tiger", "blue"}})

	secret, err := gen.Generate(3)
	require.NoError(t, err)
	assert.Equal(t, "happy-tiger-blue", secret)
}

func TestGenerator_Generate_DefaultCount(t *testing.T) {
	gen := NewGenerator(&sequenceSource{words: []string{"one", "two", "three", "four"}})

	secret, err := gen.Generate(0)
	require.NoError(t, err)
	assert.Len(t, strings.Split(secret, "-"), DefaultWordCount)
}

func TestGenerator_Generate_SourceFailure(t *testing.T) {
	gen := NewGenerator(&sequenceSource{words: []string{"only"}})

	_, err := gen.Generate(3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestEmbeddedSource_Loads(t *testing.T) {
	src, err := NewEmbeddedSource()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, src.Size(), minWordlistSize)

	// Every word must survive normalization unchanged.
	w, err := src.Word()
	require.NoError(t, err)
	assert.Equal(t, w, Normalize(w))
}

func TestEmbeddedSource_DistinctDraws(t *testing.T) {
	src, err := NewEmbeddedSource()
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		w, err := src.Word()
		require.NoError(t, err)
		seen[w] = true
	}
	// 50 draws from 500+ words collapsing to one value would mean a
	// broken random source.
	assert.Greater(t, len(seen), 1)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Happy-Tiger-Blue", "happytigerblue"},
		{"happy tiger blue", "happytigerblue"},
		{"HAPPY TIGER BLUE", "happytigerblue"},
		{"happytigerblue", "happytigerblue"},
		{"pass123word!", "password"},
		{"", ""},
		{"123-456", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.input), "input %q", tt.input)
	}
}

func TestNormalize_OutputCharset(t *testing.T) {
	out := Normalize("Sphinx of black quartz, judge my vow! 42")
	for _, c := range out {
		assert.True(t, c >= 'a' && c <= 'z', "unexpected rune %q", c)
	}
	assert.LessOrEqual(t, len(out), len("Sphinx of black quartz, judge my vow! 42"))
}
