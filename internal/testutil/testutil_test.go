package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest_EncodesBody(t *testing.T) {
	r := NewRequest(http.MethodPost, "/refresh-runs", map[string]any{"limit": 5})
	assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

	b, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"limit":5}`, string(b))
}

func TestRecordHTTPResponse(t *testing.T) {
	w := httptest.NewRecorder()
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte(`{"success":true,"data":{"id":"abc"}}`))

	got := RecordHTTPResponse(w)
	assert.Equal(t, http.StatusCreated, got.Code)
	assert.Equal(t, true, got.Body["success"])
	assert.Equal(t, "abc", got.Data()["id"])
}

func TestMigrationsDirExists(t *testing.T) {
	info, err := os.Stat(migrationsDir(t))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
