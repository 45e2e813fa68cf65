package source

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"bookmeta/internal/entity"
	"bookmeta/internal/observability"
	"bookmeta/internal/platform/openlibrary"
)

// ISBNCovers finds a cover through the Open Library edition record for an ISBN.
type ISBNCovers struct {
	ol *openlibrary.Client
	instruments
}

func NewISBNCovers(ol *openlibrary.Client, log logrus.FieldLogger, m *observability.Metrics) *ISBNCovers {
	return &ISBNCovers{ol: ol, instruments: newInstruments(NameISBN, log, m)}
}

// LookupByISBN returns the edition's first cover image. When the edition
// cannot be fetched or lists no cover it returns the ISBN-keyed cover URL,
// so the result is false only for an empty ISBN.
func (s *ISBNCovers) LookupByISBN(ctx context.Context, isbn string) (string, bool) {
	isbn = entity.CleanISBN(isbn)
	if isbn == "" {
		return "", false
	}

	started := time.Now()
	ed, err := s.ol.EditionByISBN(ctx, isbn)
	if err != nil {
		s.log.WithError(err).WithField("isbn", isbn).Debug("edition lookup failed, using isbn cover url")
		s.done(observability.OutcomeError, started)
		return s.ol.CoverByISBN(isbn), true
	}

	id, ok := ed.FirstCover()
	if !ok {
		s.done(observability.OutcomeMiss, started)
		return s.ol.CoverByISBN(isbn), true
	}
	s.done(observability.OutcomeHit, started)
	return s.ol.CoverByID(id), true
}
