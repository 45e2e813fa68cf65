package entity

import (
	"strings"
	"unicode"
)

// Query is the input of one resolution attempt.
type Query struct {
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
	ISBN   string `json:"isbn,omitempty"`
}

// Clean returns a copy with surrounding whitespace removed from every field.
func (q Query) Clean() Query {
	return Query{
		Title:  strings.TrimSpace(q.Title),
		Author: strings.TrimSpace(q.Author),
		ISBN:   strings.TrimSpace(q.ISBN),
	}
}

// CleanISBN removes hyphens and whitespace so "978-0-441-17271-9" and
// "9780441172719" address the same edition.
func CleanISBN(isbn string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, isbn)
}
