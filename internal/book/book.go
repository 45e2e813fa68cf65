package book

import (
	"errors"
	"strings"
	"time"

	"github.com/segmentio/encoding/json"

	"bookmeta/internal/entity"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// PlaceholderCoverURL is shown for books no source has a cover for.
const PlaceholderCoverURL = "https://via.placeholder.com/256x384.png?text=No+Cover"

// UnknownGenre is shown for books without a stored genre. It is never
// written to the database.
const UnknownGenre = "Unknown"

// Book is a stored reading record. Empty strings mean unknown.
type Book struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author,omitempty"`
	Year      *int      `json:"year,omitempty"`
	Genre     string    `json:"genre,omitempty"`
	Rating    *float64  `json:"rating,omitempty"`
	ISBN      string    `json:"isbn,omitempty"`
	Subjects  string    `json:"subjects,omitempty"`
	CoverURL  string    `json:"cover_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Query is the resolver input for this book.
func (b Book) Query() entity.Query {
	return entity.Query{Title: b.Title, Author: b.Author, ISBN: b.ISBN}
}

// DisplayGenre is the stored genre or UnknownGenre.
func (b Book) DisplayGenre() string {
	if b.Genre == "" {
		return UnknownGenre
	}
	return b.Genre
}

// MarshalJSON renders a missing genre as UnknownGenre.
func (b Book) MarshalJSON() ([]byte, error) {
	type plain Book
	p := plain(b)
	p.Genre = b.DisplayGenre()
	return json.Marshal(p)
}

// GenreFromSubjects takes the first subject tag as the genre. It returns ""
// when there is none so a later refresh can still fill it.
func GenreFromSubjects(subjects string) string {
	first, _, _ := strings.Cut(subjects, ",")
	return strings.TrimSpace(first)
}

// ListParams selects a page of books in id order.
type ListParams struct {
	AfterID          int64
	Limit            int
	MissingCoverOnly bool
}
