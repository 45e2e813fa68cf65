// Package source adapts the bibliographic platform clients into the three
// lookups the resolver chains together. Adapters never return errors: any
// transport or decoding failure is logged and reported as "no result".
package source

import (
	"time"

	"github.com/sirupsen/logrus"

	"bookmeta/internal/observability"
)

// Source labels used in logs and metrics.
const (
	NameISBN   = "openlibrary_isbn"
	NameSearch = "openlibrary_search"
	NameImages = "google_books"
)

type instruments struct {
	name    string
	log     logrus.FieldLogger
	metrics *observability.Metrics
}

func newInstruments(name string, log logrus.FieldLogger, m *observability.Metrics) instruments {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return instruments{name: name, log: log.WithField("source", name), metrics: m}
}

func (i instruments) done(outcome string, started time.Time) {
	i.metrics.ObserveSource(i.name, outcome, time.Since(started))
}
