package resolver

import (
	"context"

	"bookmeta/internal/entity"
)

// ISBNSource finds a cover from an ISBN alone.
type ISBNSource interface {
	LookupByISBN(ctx context.Context, isbn string) (string, bool)
}

// MatchSource searches a catalogue and returns the best accepted record. The
// Resolution may carry ISBN and subjects without a cover.
type MatchSource interface {
	Match(ctx context.Context, title, author string) (entity.Resolution, bool)
}

// ImageSource is a last-resort cover lookup by title and author.
type ImageSource interface {
	FindImage(ctx context.Context, title, author string) (string, bool)
}

// Service is what callers of the resolver depend on. Both Resolver and
// CachedResolver implement it.
type Service interface {
	Resolve(ctx context.Context, q entity.Query) entity.Resolution
}
