// Package googlebooks is a minimal client for the Google Books volumes API.
package googlebooks

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"bookmeta/internal/platform/httpjson"
)

const DefaultBaseURL = "https://www.googleapis.com/books/v1"

// ImageSizes lists imageLinks keys from highest to lowest resolution.
var ImageSizes = []string{"extraLarge", "large", "medium", "small", "thumbnail"}

type Client struct {
	http    httpjson.Getter
	baseURL string
	apiKey  string
}

func NewClient(getter httpjson.Getter, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    getter,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type VolumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

type VolumeInfo struct {
	Title      string            `json:"title"`
	Authors    []string          `json:"authors"`
	ImageLinks map[string]string `json:"imageLinks"`
}

// BestImage returns the highest resolution image link on the volume.
func (v VolumeInfo) BestImage() (string, bool) {
	for _, size := range ImageSizes {
		if link := strings.TrimSpace(v.ImageLinks[size]); link != "" {
			return link, true
		}
	}
	return "", false
}

// TitleAuthorQuery builds an intitle/inauthor query. Double quotes inside a
// term are dropped since the query syntax has no escape for them.
func TitleAuthorQuery(title, author string) string {
	q := "intitle:" + phrase(title)
	if author != "" {
		q += " inauthor:" + phrase(author)
	}
	return q
}

func phrase(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "") + `"`
}

func (c *Client) SearchVolumes(ctx context.Context, query string, maxResults int) (*VolumesResponse, error) {
	v := url.Values{}
	v.Set("q", query)
	v.Set("maxResults", strconv.Itoa(maxResults))
	if c.apiKey != "" {
		v.Set("key", c.apiKey)
	}
	u := c.baseURL + "/volumes?" + v.Encode()

	var res VolumesResponse
	if err := c.http.GetJSON(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
