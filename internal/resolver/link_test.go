package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildReferenceLink(t *testing.T) {
	tests := []struct {
		name                string
		title, author, isbn string
		want                string
	}{
		{"isbn wins", "Dune", "Frank Herbert", " 9780441172719 ", "https://openlibrary.org/isbn/9780441172719"},
		{"title and author", "Dune", "Frank Herbert", "", "https://openlibrary.org/search?q=Dune+Frank+Herbert"},
		{"title only", " The Hobbit ", "", "  ", "https://openlibrary.org/search?q=The+Hobbit"},
		{"escaped", "Cats & Dogs: A?", "", "", "https://openlibrary.org/search?q=Cats+%26+Dogs%3A+A%3F"},
		{"nothing", "", "", "", "https://openlibrary.org/search?q="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildReferenceLink(tt.title, tt.author, tt.isbn))
		})
	}
}
