package source

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleBooksImages_FindImage(t *testing.T) {
	gb := newGoogleBooks(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, `intitle:"Obscure Title" inauthor:"A. Writer"`, r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("maxResults"))
		_, _ = w.Write([]byte(`{"items":[
			{"id":"a","volumeInfo":{"title":"Obscure Title"}},
			{"id":"b","volumeInfo":{"imageLinks":{"thumbnail":"http://img/thumb","medium":"http://img/medium"}}},
			{"id":"c","volumeInfo":{"imageLinks":{"extraLarge":"http://img/xl"}}}
		]}`))
	})
	s := NewGoogleBooksImages(gb, newTestLogger(), newMetrics())

	link, ok := s.FindImage(context.Background(), "Obscure Title", "A. Writer")
	require.True(t, ok)
	assert.Equal(t, "http://img/medium", link)
}

func TestGoogleBooksImages_NoImage(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"no items", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"totalItems":0}`)) }},
		{"items without images", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"items":[{"volumeInfo":{"imageLinks":{"small":""}}}]}`))
		}},
		{"error status", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusForbidden) }},
		{"malformed", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`<html>`)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewGoogleBooksImages(newGoogleBooks(t, tt.handler), newTestLogger(), nil)
			_, ok := s.FindImage(context.Background(), "Obscure Title", "")
			assert.False(t, ok)
		})
	}
}

func TestGoogleBooksImages_EmptyTitle(t *testing.T) {
	var calls atomic.Int32
	gb := newGoogleBooks(t, func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })
	s := NewGoogleBooksImages(gb, nil, nil)

	_, ok := s.FindImage(context.Background(), " ", "Someone")
	assert.False(t, ok)
	assert.Zero(t, calls.Load())
}
