// Package app assembles the resolver stack and the database-backed services
// shared by the API server and the command line tools.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"bookmeta/internal/book"
	"bookmeta/internal/config"
	"bookmeta/internal/match"
	"bookmeta/internal/observability"
	"bookmeta/internal/platform/googlebooks"
	"bookmeta/internal/platform/httpjson"
	"bookmeta/internal/platform/openlibrary"
	"bookmeta/internal/refresh"
	"bookmeta/internal/resolver"
	"bookmeta/internal/source"
)

// Resolver is the lookup stack built from Config.
type Resolver struct {
	// Service is what callers resolve through. It is the cached chain when
	// CACHE_SIZE is positive and the bare chain otherwise.
	Service resolver.Service
	Chain   *resolver.Resolver
	Cache   *resolver.CachedResolver
}

func NewResolver(cfg config.Config, log logrus.FieldLogger, m *observability.Metrics) Resolver {
	getter := httpjson.NewClient(cfg.Upstream)
	ol := openlibrary.NewClient(getter, cfg.OpenLibraryURL, cfg.OpenLibraryCoversURL)
	ol.SetSearchLimit(cfg.SearchLimit)

	var images resolver.ImageSource
	if cfg.GoogleBooksEnabled {
		gb := googlebooks.NewClient(getter, cfg.GoogleBooksURL, cfg.GoogleBooksAPIKey)
		images = source.NewGoogleBooksImages(gb, log, m)
	}

	chain := resolver.New(
		source.NewISBNCovers(ol, log, m),
		source.NewOpenLibrarySearch(ol, match.NewRanker(cfg.Weights), log, m),
		images,
		resolver.WithLogger(log),
		resolver.WithMetrics(m),
	)

	r := Resolver{Service: chain, Chain: chain}
	if cfg.CacheSize > 0 {
		r.Cache = resolver.NewCachedResolver(chain, resolver.NewMemoryCache(cfg.CacheSize, cfg.CacheTTL), m)
		r.Service = r.Cache
	}
	return r
}

// OpenDB connects and pings. The DSN is redacted in errors.
func OpenDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool (%s): %w", config.RedactDSN(dsn), err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", config.RedactDSN(dsn), err)
	}
	return pool, nil
}

// Services are the database-backed services.
type Services struct {
	BookRepo *book.PostgresRepo
	Books    *book.Service
	Refresh  *refresh.Service
}

func NewServices(pool *pgxpool.Pool, cfg config.Config, res resolver.Service, log logrus.FieldLogger, m *observability.Metrics) Services {
	repo := book.NewPostgresRepo(pool, cfg.DBTimeout)
	books := book.NewService(repo, res, log)
	runs := refresh.NewService(books, refresh.NewPostgresRepo(pool, cfg.DBTimeout),
		refresh.Config{Workers: cfg.RefreshWorkers}, log, m)
	return Services{BookRepo: repo, Books: books, Refresh: runs}
}
