package refresh

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookmeta/internal/book"
	"bookmeta/internal/testutil"
)

const runID = "6f1c1d1e-0000-4000-8000-000000000001"

func TestHTTPHandler_Start(t *testing.T) {
	t.Run("empty body starts a full run", func(t *testing.T) {
		books := new(mockBooks)
		runs := new(mockRunRepo)
		svc := newTestService(books, runs, Config{Workers: 1, PageSize: 10}, nil)
		runs.On("CreateRun", mock.Anything, mock.MatchedBy(func(r *Run) bool { return !r.MissingOnly })).Return(nil)
		books.On("List", mock.Anything, mock.Anything).Return([]book.Book{}, nil)
		runs.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

		w := httptest.NewRecorder()
		NewHTTPHandler(svc).Start(w, httptest.NewRequest(http.MethodPost, "/refresh-runs", http.NoBody))
		svc.Wait()

		assert.Equal(t, http.StatusCreated, w.Code)
		var body struct {
			Data Run `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, runID, body.Data.ID)
		assert.Equal(t, StatusRunning, body.Data.Status)
	})

	t.Run("missing only", func(t *testing.T) {
		books := new(mockBooks)
		runs := new(mockRunRepo)
		svc := newTestService(books, runs, Config{Workers: 1, PageSize: 10}, nil)
		runs.On("CreateRun", mock.Anything, mock.MatchedBy(func(r *Run) bool { return r.MissingOnly })).Return(nil)
		books.On("List", mock.Anything, book.ListParams{Limit: 10, MissingCoverOnly: true}).Return([]book.Book{}, nil)
		runs.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

		w := httptest.NewRecorder()
		req := testutil.NewRequest(http.MethodPost, "/refresh-runs", Options{MissingOnly: true})
		NewHTTPHandler(svc).Start(w, req)
		svc.Wait()

		got := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusCreated, got.Code)
		assert.Equal(t, true, got.Data()["missing_only"])
		books.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := newTestService(new(mockBooks), new(mockRunRepo), Config{}, nil)
		w := httptest.NewRecorder()
		NewHTTPHandler(svc).Start(w, httptest.NewRequest(http.MethodPost, "/refresh-runs", strings.NewReader(`{`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative limit", func(t *testing.T) {
		svc := newTestService(new(mockBooks), new(mockRunRepo), Config{}, nil)
		w := httptest.NewRecorder()
		NewHTTPHandler(svc).Start(w, httptest.NewRequest(http.MethodPost, "/refresh-runs", strings.NewReader(`{"limit":-1}`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "limit")
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		setup  func(*mockRunRepo)
		status int
	}{
		{
			name: "found",
			id:   runID,
			setup: func(r *mockRunRepo) {
				r.On("GetRun", mock.Anything, runID).Return(Run{ID: runID, Status: StatusCompleted}, nil)
			},
			status: http.StatusOK,
		},
		{
			name: "unknown",
			id:   runID,
			setup: func(r *mockRunRepo) {
				r.On("GetRun", mock.Anything, runID).Return(Run{}, ErrRunNotFound)
			},
			status: http.StatusNotFound,
		},
		{
			name:   "not a uuid",
			id:     "abc",
			setup:  func(*mockRunRepo) {},
			status: http.StatusNotFound,
		},
		{
			name: "store failure",
			id:   runID,
			setup: func(r *mockRunRepo) {
				r.On("GetRun", mock.Anything, runID).Return(Run{}, context.DeadlineExceeded)
			},
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := new(mockRunRepo)
			tt.setup(runs)
			svc := newTestService(new(mockBooks), runs, Config{}, nil)

			req := httptest.NewRequest(http.MethodGet, "/refresh-runs/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()
			NewHTTPHandler(svc).Get(w, req)

			assert.Equal(t, tt.status, w.Code)
			runs.AssertExpectations(t)
		})
	}
}
