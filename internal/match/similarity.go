package match

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// TitleSimilarity returns the Ratcliff/Obershelp ratio of the normalized
// titles, in [0, 1]. Either side normalizing to empty scores 0, both included.
func TitleSimilarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	m := difflib.NewMatcher(strings.Split(na, ""), strings.Split(nb, ""))
	return m.Ratio()
}

// AuthorScore is the Jaccard similarity between the normalized candidate
// authors and the normalized tokens of queryAuthor.
func AuthorScore(candidateAuthors []string, queryAuthor string) float64 {
	query := tokenSet(AuthorTokens(queryAuthor))
	cand := tokenSet(candidateAuthors)
	if len(query) == 0 || len(cand) == 0 {
		return 0
	}

	shared := 0
	for t := range query {
		if _, ok := cand[t]; ok {
			shared++
		}
	}
	union := len(query) + len(cand) - shared
	return float64(shared) / float64(union)
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if n := Normalize(t); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
