package source

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"bookmeta/internal/observability"
	"bookmeta/internal/platform/googlebooks"
)

const imageSearchResults = 5

// GoogleBooksImages is the last-resort cover lookup. It does no ranking: the
// first volume carrying any image wins.
type GoogleBooksImages struct {
	gb *googlebooks.Client
	instruments
}

func NewGoogleBooksImages(gb *googlebooks.Client, log logrus.FieldLogger, m *observability.Metrics) *GoogleBooksImages {
	return &GoogleBooksImages{gb: gb, instruments: newInstruments(NameImages, log, m)}
}

func (s *GoogleBooksImages) FindImage(ctx context.Context, title, author string) (string, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", false
	}

	started := time.Now()
	res, err := s.gb.SearchVolumes(ctx, googlebooks.TitleAuthorQuery(title, strings.TrimSpace(author)), imageSearchResults)
	if err != nil {
		s.log.WithError(err).Debug("volume search failed")
		s.done(observability.OutcomeError, started)
		return "", false
	}

	for _, item := range res.Items {
		if link, ok := item.VolumeInfo.BestImage(); ok {
			s.done(observability.OutcomeHit, started)
			s.log.WithFields(logrus.Fields{"volume": item.ID}).Debug("image found")
			return link, true
		}
	}
	s.done(observability.OutcomeMiss, started)
	return "", false
}
