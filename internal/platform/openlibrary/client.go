package openlibrary

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"bookmeta/internal/platform/httpjson"
)

const (
	DefaultBaseURL   = "https://openlibrary.org"
	DefaultCoversURL = "https://covers.openlibrary.org"

	searchFields = "key,title,author_name,edition_count,cover_i,isbn,subject"

	// DefaultSearchLimit is what search.json returns when no limit is sent.
	DefaultSearchLimit = 100
)

type Client struct {
	http      httpjson.Getter
	baseURL   string
	coversURL string
	limit     int
}

func NewClient(getter httpjson.Getter, baseURL, coversURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if coversURL == "" {
		coversURL = DefaultCoversURL
	}
	return &Client{
		http:      getter,
		baseURL:   strings.TrimRight(baseURL, "/"),
		coversURL: strings.TrimRight(coversURL, "/"),
		limit:     DefaultSearchLimit,
	}
}

// SetSearchLimit caps the docs requested per search. n <= 0 restores
// DefaultSearchLimit.
func (c *Client) SetSearchLimit(n int) {
	if n <= 0 {
		n = DefaultSearchLimit
	}
	c.limit = n
}

// Edition matches isbn/{isbn}.json. Only the fields used for cover lookup
// are decoded.
type Edition struct {
	Key    string  `json:"key"`
	Title  string  `json:"title"`
	Covers []int64 `json:"covers"`
}

// FirstCover returns the first usable cover id. Open Library marks removed
// covers with -1.
func (e *Edition) FirstCover() (string, bool) {
	for _, id := range e.Covers {
		if id > 0 {
			return strconv.FormatInt(id, 10), true
		}
	}
	return "", false
}

// SearchResponse matches search.json
type SearchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []Doc `json:"docs"`
}

type Doc struct {
	Key          string   `json:"key"`
	Title        string   `json:"title"`
	AuthorNames  []string `json:"author_name"`
	EditionCount int      `json:"edition_count"`
	CoverID      int64    `json:"cover_i"`
	ISBN         []string `json:"isbn"`
	Subjects     []string `json:"subject"`
}

// SearchParams selects the search.json mode: field search with Title and
// Author, or free text with Q.
type SearchParams struct {
	Title  string
	Author string
	Q      string
}

func (p SearchParams) String() string {
	if p.Q != "" {
		return "q=" + p.Q
	}
	if p.Author != "" {
		return fmt.Sprintf("title=%s author=%s", p.Title, p.Author)
	}
	return "title=" + p.Title
}

func (p SearchParams) values(limit int) url.Values {
	v := url.Values{}
	if p.Q != "" {
		v.Set("q", p.Q)
	}
	if p.Title != "" {
		v.Set("title", p.Title)
	}
	if p.Author != "" {
		v.Set("author", p.Author)
	}
	v.Set("fields", searchFields)
	v.Set("limit", strconv.Itoa(limit))
	return v
}

func (c *Client) EditionByISBN(ctx context.Context, isbn string) (*Edition, error) {
	u := fmt.Sprintf("%s/isbn/%s.json", c.baseURL, url.PathEscape(isbn))

	var res Edition
	if err := c.http.GetJSON(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchResponse, error) {
	u := c.baseURL + "/search.json?" + p.values(c.limit).Encode()

	var res SearchResponse
	if err := c.http.GetJSON(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CoverByID builds the large cover image URL for a cover id.
func (c *Client) CoverByID(id string) string {
	return fmt.Sprintf("%s/b/id/%s-L.jpg", c.coversURL, url.PathEscape(id))
}

// CoverByISBN builds the ISBN-keyed cover URL. Open Library serves a blank
// placeholder (or 404) when it has no cover for the ISBN.
func (c *Client) CoverByISBN(isbn string) string {
	return fmt.Sprintf("%s/b/isbn/%s-L.jpg", c.coversURL, url.PathEscape(isbn))
}
