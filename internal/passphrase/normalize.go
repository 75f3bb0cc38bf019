// ABOUTME: Secret normalization for registration and verification
// ABOUTME: Canonicalizes input to lowercase a-z so format variations compare equal

package passphrase

import "strings"

// Normalize canonicalizes a secret for comparison: lowercase the
// input, then keep only characters in a-z. "Happy-Tiger-Blue",
// "happy tiger blue" and "HAPPY TIGER BLUE" all become
// "happytigerblue".
//
// This strictly reduces entropy versus the raw input (digits,
// punctuation and diacritics are dropped) in exchange for typo
// tolerance. Apply identically when hashing and when verifying.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range strings.ToLower(s) {
		if c >= 'a' && c <= 'z' {
			b.WriteRune(c)
		}
	}
	return b.String()
}
