package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleSimilarity(t *testing.T) {
	t.Run("identical", func(t *testing.T) {
		for _, s := range []string{"1984", "the hobbit", "Crime and Punishment"} {
			assert.Equal(t, 1.0, TitleSimilarity(s, s))
		}
	})

	t.Run("equal after normalization", func(t *testing.T) {
		assert.Equal(t, 1.0, TitleSimilarity("The Hobbit!", "  the   hobbit"))
	})

	t.Run("empty side", func(t *testing.T) {
		assert.Equal(t, 0.0, TitleSimilarity("", "anything"))
		assert.Equal(t, 0.0, TitleSimilarity("anything", ""))
		assert.Equal(t, 0.0, TitleSimilarity("", ""))
		assert.Equal(t, 0.0, TitleSimilarity("!!!", "anything"))
	})

	t.Run("both normalize to empty scores zero not one", func(t *testing.T) {
		assert.Equal(t, 0.0, TitleSimilarity("!!!", "???"))
	})

	t.Run("no shared characters", func(t *testing.T) {
		assert.Equal(t, 0.0, TitleSimilarity("abc", "xyz"))
	})

	t.Run("partial", func(t *testing.T) {
		// "dune" against "dune: messiah": 2*4/(4+13)
		assert.InDelta(t, 8.0/17.0, TitleSimilarity("Dune", "Dune: Messiah"), 1e-9)
	})

	t.Run("bounded", func(t *testing.T) {
		s := TitleSimilarity("The Lord of the Rings", "Lord of the Flies")
		assert.Greater(t, s, 0.0)
		assert.Less(t, s, 1.0)
	})
}

func TestAuthorScore(t *testing.T) {
	tests := []struct {
		name  string
		cands []string
		query string
		want  float64
	}{
		{"empty query", []string{"Jane Doe"}, "", 0},
		{"empty candidates", nil, "Jane Doe", 0},
		{"both empty", nil, "", 0},
		{"case insensitive", []string{"Jane Doe"}, "jane doe", 1},
		{"punctuation insensitive", []string{"J.R.R. Tolkien"}, "J R R Tolkien", 1},
		{"order insensitive", []string{"Neil Gaiman", "Terry Pratchett"}, "Terry Pratchett, Neil Gaiman", 1},
		{"one of two", []string{"Jane Doe", "John Roe"}, "Jane Doe", 0.5},
		{"query has extra", []string{"John Roe"}, "Jane Doe and John Roe", 0.5},
		{"disjoint", []string{"George Orwell"}, "Aldous Huxley", 0},
		{"duplicates collapse", []string{"Jane Doe", "JANE DOE"}, "Jane Doe", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AuthorScore(tt.cands, tt.query), 1e-9)
		})
	}
}
