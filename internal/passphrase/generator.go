// ABOUTME: Passphrase generator producing memorable multi-word secrets
// ABOUTME: Joins words from an injected WordSource with hyphens

package passphrase

import (
	"fmt"
	"strings"
)

// DefaultWordCount is the number of words in a generated passphrase
// when the caller does not specify one.
const DefaultWordCount = 3

// Generator produces passphrases like "happy-tiger-blue" from a
// WordSource. The hyphen separator is visible so the secret can be
// both typed and spoken; Normalize strips it before comparison.
type Generator struct {
	source WordSource
}

// NewGenerator creates a Generator over the given word source.
func NewGenerator(source WordSource) *Generator {
	return &Generator{source: source}
}

// Generate returns a passphrase of the given word count. A count of
// zero or less uses DefaultWordCount.
func (g *Generator) Generate(words int) (string, error) {
	if words <= 0 {
		words = DefaultWordCount
	}

	parts := make([]string, 0, words)
	for i := 0; i < words; i++ {
		w, err := g.source.Word()
		if err != nil {
			return "", fmt.Errorf("drawing word %d: %w", i+1, err)
		}
		parts = append(parts, w)
	}

	return strings.Join(parts, "-"), nil
}
