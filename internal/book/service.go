package book

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"bookmeta/internal/entity"
)

// Service resolves metadata for stored books and merges it back.
type Service struct {
	repo     Repository
	resolver Resolver
	log      logrus.FieldLogger
}

// NewService creates a new book service.
func NewService(repo Repository, resolver Resolver, log logrus.FieldLogger) *Service {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Service{repo: repo, resolver: resolver, log: log.WithField("component", "book")}
}

// Outcome is the result of re-resolving one book.
type Outcome struct {
	Book       Book              `json:"book"`
	Resolution entity.Resolution `json:"resolution"`
	Updated    bool              `json:"updated"`
}

func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, p ListParams) ([]Book, error) {
	return s.repo.List(ctx, p)
}

// CoverFor returns the stored cover, resolving and persisting one when the
// book has none. Books nothing can be found for get PlaceholderCoverURL.
func (s *Service) CoverFor(ctx context.Context, id int64) (string, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if b.CoverURL != "" {
		return b.CoverURL, nil
	}

	out, err := s.apply(ctx, b, true)
	if err != nil {
		// The cover was found; failing to store it should not hide it.
		s.log.WithError(err).WithField("book_id", id).Warn("storing resolved cover failed")
		if out.Resolution.HasCover() {
			return out.Resolution.CoverURL, nil
		}
		return "", err
	}
	if !out.Updated {
		return PlaceholderCoverURL, nil
	}
	return out.Book.CoverURL, nil
}

// Refresh re-resolves a book ignoring any cached result and stores whatever
// non-empty resolution comes back.
func (s *Service) Refresh(ctx context.Context, id int64) (Outcome, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	s.forget(b)
	return s.apply(ctx, b, false)
}

// Rebuild re-resolves an already loaded book and stores the result only when
// a cover was found.
func (s *Service) Rebuild(ctx context.Context, b Book) (Outcome, error) {
	s.forget(b)
	return s.apply(ctx, b, true)
}

func (s *Service) apply(ctx context.Context, b Book, requireCover bool) (Outcome, error) {
	res := s.resolver.Resolve(ctx, b.Query())
	out := Outcome{Book: b, Resolution: res}

	if res.Empty() || (requireCover && !res.HasCover()) {
		return out, nil
	}

	genre := ""
	if b.Genre == "" {
		genre = GenreFromSubjects(res.Subjects)
	}
	updated, err := s.repo.ApplyResolution(ctx, b.ID, res, genre)
	if err != nil {
		return out, fmt.Errorf("apply resolution to book %d: %w", b.ID, err)
	}
	out.Book, out.Updated = updated, true

	s.log.WithFields(logrus.Fields{
		"book_id": b.ID,
		"cover":   res.HasCover(),
	}).Info("book metadata updated")
	return out, nil
}

type forgetter interface {
	Forget(q entity.Query)
}

// forget drops a memoised resolution when the resolver keeps one.
func (s *Service) forget(b Book) {
	if f, ok := s.resolver.(forgetter); ok {
		f.Forget(b.Query())
	}
}
