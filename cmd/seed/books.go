package main

import (
	"fmt"
	"math/rand/v2"

	"bookmeta/internal/book"
)

func ptr[T any](v T) *T { return &v }

// sampleBooks are real titles without covers, so a refresh run has work to do.
// A few carry an ISBN, the rest need the search or image tiers.
func sampleBooks() []book.Book {
	return []book.Book{
		{Title: "Dune", Author: "Frank Herbert", Year: ptr(1965), ISBN: "9780441013593", Rating: ptr(4.6)},
		{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Year: ptr(1969), Rating: ptr(4.3)},
		{Title: "Neuromancer", Author: "William Gibson", Year: ptr(1984), ISBN: "0-441-56956-0"},
		{Title: "The Hobbit: or There and Back Again", Author: "J.R.R. Tolkien", Year: ptr(1937), Rating: ptr(4.7)},
		{Title: "Cien años de soledad", Author: "Gabriel García Márquez", Year: ptr(1967)},
		{Title: "Pride and Prejudice", Author: "Jane Austen", Year: ptr(1813), Genre: "Romance"},
		{Title: "Sapiens: A Brief History of Humankind", Author: "Yuval Noah Harari", Year: ptr(2011)},
		{Title: "The Pragmatic Programmer", Author: "Andrew Hunt, David Thomas", Year: ptr(1999), Rating: ptr(4.4)},
		{Title: "Beloved", Author: "Toni Morrison", Year: ptr(1987)},
		{Title: "An Obscure Pamphlet That Nobody Catalogued", Author: "Anonymous"},
	}
}

var words = []string{
	"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
	"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
	"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
}

var genres = []string{"Fiction", "Science Fiction", "History", "Science", "Mystery", "Biography"}

// syntheticRows builds n filler books as CopyFrom rows in the column order of
// copyColumns. Titles are made up, so they mostly exercise the miss path.
func syntheticRows(n int, rng *rand.Rand) [][]any {
	rows := make([][]any, 0, n)
	for i := range n {
		title := fmt.Sprintf("%s of %s %d", pick(rng, words), pick(rng, words), i+1)
		author := fmt.Sprintf("%s %s", pick(rng, words), pick(rng, words))
		rows = append(rows, []any{title, author, 1950 + rng.IntN(75), pick(rng, genres)})
	}
	return rows
}

var copyColumns = []string{"title", "author", "year", "genre"}

func pick(rng *rand.Rand, from []string) string {
	return from[rng.IntN(len(from))]
}
