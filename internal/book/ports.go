package book

import (
	"context"

	"bookmeta/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	Get(ctx context.Context, id int64) (Book, error)
	List(ctx context.Context, p ListParams) ([]Book, error)
	// ApplyResolution merges the non-empty fields of res into the stored
	// record and sets genre when the stored genre is empty.
	ApplyResolution(ctx context.Context, id int64, res entity.Resolution, genre string) (Book, error)
	Insert(ctx context.Context, b *Book) error
}

// Resolver looks up metadata for a book.
type Resolver interface {
	Resolve(ctx context.Context, q entity.Query) entity.Resolution
}
