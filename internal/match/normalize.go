// Package match scores bibliographic search results against a title/author query.
package match

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	apostrophes = strings.NewReplacer("’", "'", "‘", "'", "`", "'")
	authorSep   = regexp.MustCompile(`,|\s+and\s+`)
)

// Normalize canonicalizes free text for comparison. The result only contains
// runes from [a-z0-9:,-] separated by single spaces, so Normalize is idempotent.
// Accented letters are dropped like any other rune outside that set; see
// FoldAccents.
func Normalize(s string) string {
	s = apostrophes.Replace(strings.ToLower(strings.TrimSpace(s)))

	var b strings.Builder
	b.Grow(len(s))
	gap := false
	for _, r := range s {
		if !allowed(r) {
			gap = b.Len() > 0
			continue
		}
		if gap {
			b.WriteByte(' ')
			gap = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == ':', r == ',', r == '-':
		return true
	}
	return false
}

// FoldAccents maps accented letters to their base letter (é -> e) so that
// Normalize keeps them. The chain keeps internal buffers, so it is built per
// call.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// StripSubtitle returns the part of title before the first colon, trimmed.
// A title without a colon is returned unchanged.
func StripSubtitle(title string) string {
	head, _, found := strings.Cut(title, ":")
	if !found {
		return title
	}
	return strings.TrimSpace(head)
}

// AuthorTokens splits an author field on commas and on the word "and".
func AuthorTokens(author string) []string {
	if strings.TrimSpace(author) == "" {
		return nil
	}
	var tokens []string
	for _, part := range authorSep.Split(author, -1) {
		if part = strings.TrimSpace(part); part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}
