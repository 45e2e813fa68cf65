package resolver

import (
	"context"

	"bookmeta/internal/entity"
)

// Tier names, also used as the resolutions_total label.
const (
	TierISBN   = "isbn"
	TierSearch = "search"
	TierImages = "images"
	TierNone   = "none"
)

// Tier is one step of the fallback chain. Run reports false when the tier
// produced nothing at all.
type Tier struct {
	Name string
	Run  func(ctx context.Context, q entity.Query) (entity.Resolution, bool)
}

// firstHit runs tiers in order and returns the first Resolution with a cover.
// Output of a tier without a cover is discarded. When every tier misses the
// result is empty and the tier is TierNone.
func firstHit(ctx context.Context, tiers []Tier, q entity.Query) (entity.Resolution, string) {
	for _, t := range tiers {
		if ctx.Err() != nil {
			break
		}
		if res, ok := t.Run(ctx, q); ok && res.HasCover() {
			return res, t.Name
		}
	}
	return entity.Resolution{}, TierNone
}
