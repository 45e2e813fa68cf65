// Package resolver chains the bibliographic sources into a single lookup that
// prefers an authoritative ISBN match, then a ranked catalogue match, then any
// image at all, and otherwise reports nothing rather than guess.
package resolver

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"bookmeta/internal/entity"
	"bookmeta/internal/observability"
)

type Resolver struct {
	tiers   []Tier
	log     logrus.FieldLogger
	metrics *observability.Metrics
}

type Option func(*Resolver)

func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Resolver) { r.log = log }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// New builds the default chain. A nil source drops its tier.
func New(isbn ISBNSource, search MatchSource, images ImageSource, opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		r.log = l
	}

	if isbn != nil {
		r.tiers = append(r.tiers, isbnTier(isbn))
	}
	if search != nil {
		r.tiers = append(r.tiers, searchTier(search))
	}
	if images != nil {
		r.tiers = append(r.tiers, imagesTier(images))
	}
	return r
}

// Tiers lists the tier names in the order they run.
func (r *Resolver) Tiers() []string {
	names := make([]string, len(r.tiers))
	for i, t := range r.tiers {
		names[i] = t.Name
	}
	return names
}

// Resolve never fails: source errors, timeouts and a cancelled context all
// degrade to fewer (or no) resolved fields.
func (r *Resolver) Resolve(ctx context.Context, q entity.Query) entity.Resolution {
	q = q.Clean()
	started := time.Now()

	res, tier := firstHit(ctx, r.tiers, q)

	elapsed := time.Since(started)
	r.metrics.ObserveResolution(tier, elapsed)
	r.log.WithFields(logrus.Fields{
		"title":       q.Title,
		"author":      q.Author,
		"isbn":        q.ISBN,
		"tier":        tier,
		"cover":       res.HasCover(),
		"duration_ms": elapsed.Milliseconds(),
	}).Debug("resolved")
	return res
}

func isbnTier(src ISBNSource) Tier {
	return Tier{
		Name: TierISBN,
		Run: func(ctx context.Context, q entity.Query) (entity.Resolution, bool) {
			if q.ISBN == "" {
				return entity.Resolution{}, false
			}
			cover, ok := src.LookupByISBN(ctx, q.ISBN)
			if !ok {
				return entity.Resolution{}, false
			}
			return entity.Resolution{CoverURL: cover, ISBN: q.ISBN}, true
		},
	}
}

func searchTier(src MatchSource) Tier {
	return Tier{
		Name: TierSearch,
		Run: func(ctx context.Context, q entity.Query) (entity.Resolution, bool) {
			return src.Match(ctx, q.Title, q.Author)
		},
	}
}

func imagesTier(src ImageSource) Tier {
	return Tier{
		Name: TierImages,
		Run: func(ctx context.Context, q entity.Query) (entity.Resolution, bool) {
			link, ok := src.FindImage(ctx, q.Title, q.Author)
			if !ok {
				return entity.Resolution{}, false
			}
			return entity.Resolution{CoverURL: link, ISBN: q.ISBN}, true
		},
	}
}
