package source

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"bookmeta/internal/entity"
	"bookmeta/internal/match"
	"bookmeta/internal/observability"
	"bookmeta/internal/platform/openlibrary"
)

// QueryVariants lists the search attempts for a title and author, from the
// most specific to the loosest. Identical attempts appear once.
func QueryVariants(title, author string) []openlibrary.SearchParams {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	tokens := match.AuthorTokens(author)
	base := match.StripSubtitle(title)

	var all []openlibrary.SearchParams
	if len(tokens) > 0 {
		all = append(all, openlibrary.SearchParams{Title: title, Author: tokens[0]})
	}
	all = append(all, openlibrary.SearchParams{Title: title, Author: author})
	if len(tokens) > 0 {
		all = append(all, openlibrary.SearchParams{Title: base, Author: tokens[0]})
	}
	all = append(all, openlibrary.SearchParams{Title: base})
	all = append(all, openlibrary.SearchParams{Q: strings.TrimSpace(title + " " + author)})

	seen := make(map[openlibrary.SearchParams]struct{}, len(all))
	out := make([]openlibrary.SearchParams, 0, len(all))
	for _, p := range all {
		if p.Title == "" && p.Q == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// OpenLibrarySearch ranks Open Library search results against the query and
// returns the first accepted match.
type OpenLibrarySearch struct {
	ol     *openlibrary.Client
	ranker *match.Ranker
	instruments
}

func NewOpenLibrarySearch(ol *openlibrary.Client, ranker *match.Ranker, log logrus.FieldLogger, m *observability.Metrics) *OpenLibrarySearch {
	return &OpenLibrarySearch{ol: ol, ranker: ranker, instruments: newInstruments(NameSearch, log, m)}
}

// Match tries each query variant in order. Every variant is ranked against
// the caller's original title and author. The returned Resolution may lack a
// cover when the accepted record has none.
func (s *OpenLibrarySearch) Match(ctx context.Context, title, author string) (entity.Resolution, bool) {
	for i, params := range QueryVariants(title, author) {
		if ctx.Err() != nil {
			return entity.Resolution{}, false
		}
		log := s.log.WithFields(logrus.Fields{"attempt": i + 1, "params": params.String()})

		started := time.Now()
		res, err := s.ol.Search(ctx, params)
		if err != nil {
			log.WithError(err).Debug("search attempt failed")
			s.done(observability.OutcomeError, started)
			continue
		}

		best, score, ok := s.ranker.Best(Candidates(res.Docs), title, author)
		if !ok {
			log.WithField("best_score", score).Debug("no candidate above threshold")
			s.done(observability.OutcomeMiss, started)
			continue
		}
		s.done(observability.OutcomeHit, started)
		log.WithFields(logrus.Fields{"score": score, "title": best.Title}).Debug("accepted candidate")
		return s.resolution(best), true
	}
	return entity.Resolution{}, false
}

func (s *OpenLibrarySearch) resolution(c entity.Candidate) entity.Resolution {
	var res entity.Resolution
	if c.CoverID != "" {
		res.CoverURL = s.ol.CoverByID(c.CoverID)
	}
	for _, isbn := range c.ISBNs {
		if isbn = strings.TrimSpace(isbn); isbn != "" {
			res.ISBN = isbn
			break
		}
	}
	res.Subjects = entity.JoinSubjects(c.Subjects)
	return res
}

// Candidates maps search docs to ranking candidates, keeping their order.
func Candidates(docs []openlibrary.Doc) []entity.Candidate {
	out := make([]entity.Candidate, 0, len(docs))
	for _, d := range docs {
		c := entity.Candidate{
			Title:        d.Title,
			Authors:      d.AuthorNames,
			EditionCount: d.EditionCount,
			ISBNs:        d.ISBN,
			Subjects:     d.Subjects,
		}
		if d.CoverID > 0 {
			c.CoverID = strconv.FormatInt(d.CoverID, 10)
		}
		out = append(out, c)
	}
	return out
}
