// ABOUTME: Word source capability backing passphrase generation
// ABOUTME: Ships an embedded curated wordlist sampled via crypto/rand

package passphrase

import (
	"crypto/rand"
	_ "embed"
	"fmt"
	"math/big"
	"strings"
)

//go:embed words.txt
var embeddedWordlist string

// minWordlistSize is the smallest list we accept. Below this the
// passphrase space is too small to be worth issuing.
const minWordlistSize = 256

// ErrSourceUnavailable is returned when the word source cannot supply
// words. Callers must treat this as fatal at startup; there is no
// fallback generator.
var ErrSourceUnavailable = fmt.Errorf("word source unavailable")

// WordSource supplies random words for passphrase generation.
// Implementations must draw each word from a cryptographically
// adequate random source.
type WordSource interface {
	Word() (string, error)
}

// EmbeddedSource selects words from the compiled-in curated wordlist.
type EmbeddedSource struct {
	words []string
}

// NewEmbeddedSource validates and loads the embedded wordlist.
// An undersized or corrupt list is a configuration error: the process
// must refuse to start rather than degrade to a weaker scheme.
func NewEmbeddedSource() (*EmbeddedSource, error) {
	var words []string
	for _, line := range strings.Split(embeddedWordlist, "\n") {
		w := strings.TrimSpace(line)
		if w == "" {
			continue
		}
		words = append(words, w)
	}

	if len(words) < minWordlistSize {
		return nil, fmt.Errorf("%w: wordlist has %d words, need at least %d",
			ErrSourceUnavailable, len(words), minWordlistSize)
	}

	return &EmbeddedSource{words: words}, nil
}

// Word returns a uniformly random word from the list.
func (s *EmbeddedSource) Word() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(s.words))))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return s.words[n.Int64()], nil
}

// Size returns the number of words available to the source.
func (s *EmbeddedSource) Size() int {
	return len(s.words)
}
