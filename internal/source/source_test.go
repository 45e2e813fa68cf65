package source

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"bookmeta/internal/observability"
	"bookmeta/internal/platform/googlebooks"
	"bookmeta/internal/platform/httpjson"
	"bookmeta/internal/platform/openlibrary"
)

const coversURL = "https://covers.example"

func newTestLogger() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	return l
}

func newGetter() *httpjson.Client {
	return httpjson.NewClient(httpjson.Config{Timeout: 2 * time.Second})
}

func newOpenLibrary(t *testing.T, h http.HandlerFunc) *openlibrary.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return openlibrary.NewClient(newGetter(), srv.URL, coversURL)
}

func newGoogleBooks(t *testing.T, h http.HandlerFunc) *googlebooks.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return googlebooks.NewClient(newGetter(), srv.URL, "")
}

func newMetrics() *observability.Metrics {
	return observability.NewMetrics()
}
