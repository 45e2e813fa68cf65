package resolver

import (
	"net/url"
	"strings"
)

const openLibraryWeb = "https://openlibrary.org"

// BuildReferenceLink returns a human-facing Open Library page for the book:
// the edition page when an ISBN is known, a search page otherwise.
func BuildReferenceLink(title, author, isbn string) string {
	if isbn = strings.TrimSpace(isbn); isbn != "" {
		return openLibraryWeb + "/isbn/" + url.PathEscape(isbn)
	}

	parts := make([]string, 0, 2)
	for _, p := range []string{title, author} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return openLibraryWeb + "/search?q=" + url.QueryEscape(strings.Join(parts, " "))
}
