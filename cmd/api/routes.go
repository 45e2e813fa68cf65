package main

import (
	"context"
	"net/http"
	"time"

	"bookmeta/internal/book"
	"bookmeta/internal/observability"
	"bookmeta/internal/refresh"
	"bookmeta/internal/resolver"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type handlers struct {
	resolve *resolver.HTTPHandler
	books   *book.HTTPHandler
	runs    *refresh.HTTPHandler
	db      pinger
	metrics *observability.Metrics
}

func (h handlers) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.Handle("GET /metrics", h.metrics.Handler())

	mux.HandleFunc("GET /resolve", h.resolve.Resolve)
	mux.HandleFunc("GET /link", h.resolve.Link)

	mux.HandleFunc("GET /books", h.books.List)
	mux.HandleFunc("GET /books/{id}", h.books.Get)
	mux.HandleFunc("GET /books/{id}/cover", h.books.Cover)
	mux.HandleFunc("POST /books/{id}/refresh", h.books.Refresh)

	mux.HandleFunc("POST /refresh-runs", h.runs.Start)
	mux.HandleFunc("GET /refresh-runs/{id}", h.runs.Get)

	return mux
}
