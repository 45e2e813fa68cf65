package refresh

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookmeta/internal/book"
	"bookmeta/internal/entity"
	"bookmeta/internal/observability"
)

type mockBooks struct {
	mock.Mock
}

func (m *mockBooks) List(ctx context.Context, p book.ListParams) ([]book.Book, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]book.Book), args.Error(1)
}

func (m *mockBooks) Rebuild(ctx context.Context, b book.Book) (book.Outcome, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(book.Outcome), args.Error(1)
}

type mockRunRepo struct {
	mock.Mock
	mu      sync.Mutex
	updated []Run
}

func (m *mockRunRepo) CreateRun(ctx context.Context, run *Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *mockRunRepo) UpdateRun(ctx context.Context, run *Run) error {
	m.mu.Lock()
	m.updated = append(m.updated, *run)
	m.mu.Unlock()
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *mockRunRepo) GetRun(ctx context.Context, id string) (Run, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Run), args.Error(1)
}

func (m *mockRunRepo) LinkBookToRun(ctx context.Context, runID string, bookID int64, coverURL string) error {
	args := m.Called(ctx, runID, bookID, coverURL)
	return args.Error(0)
}

func (m *mockRunRepo) lastUpdate() Run {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updated[len(m.updated)-1]
}

func newTestService(books Books, runs Repository, cfg Config, m *observability.Metrics) *Service {
	log, _ := logtest.NewNullLogger()
	s := NewService(books, runs, cfg, log, m)
	s.newID = func() string { return "6f1c1d1e-0000-4000-8000-000000000001" }
	s.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func TestService_Run_Success(t *testing.T) {
	books := new(mockBooks)
	runs := new(mockRunRepo)
	m := observability.NewMetrics()
	svc := newTestService(books, runs, Config{Workers: 2, PageSize: 2}, m)

	b1 := book.Book{ID: 1, Title: "Dune"}
	b2 := book.Book{ID: 2, Title: "Obscure"}
	b3 := book.Book{ID: 3, Title: "Pamphlet"}

	runs.On("CreateRun", mock.Anything, mock.MatchedBy(func(r *Run) bool {
		return r.Status == StatusRunning && r.MissingOnly
	})).Return(nil)
	books.On("List", mock.Anything, book.ListParams{Limit: 2, MissingCoverOnly: true}).Return([]book.Book{b1, b2}, nil)
	books.On("List", mock.Anything, book.ListParams{AfterID: 2, Limit: 2, MissingCoverOnly: true}).Return([]book.Book{b3}, nil)

	books.On("Rebuild", mock.Anything, b1).Return(book.Outcome{
		Book: book.Book{ID: 1, CoverURL: "http://c1"}, Resolution: entity.Resolution{CoverURL: "http://c1"}, Updated: true,
	}, nil)
	books.On("Rebuild", mock.Anything, b2).Return(book.Outcome{Book: b2}, nil)
	books.On("Rebuild", mock.Anything, b3).Return(book.Outcome{}, errors.New("db down"))
	runs.On("LinkBookToRun", mock.Anything, "6f1c1d1e-0000-4000-8000-000000000001", int64(1), "http://c1").Return(nil)
	runs.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

	run, err := svc.Run(context.Background(), Options{MissingOnly: true})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, run.Status)
	assert.NotNil(t, run.FinishedAt)
	assert.Equal(t, 3, run.BooksScanned)
	assert.Equal(t, 1, run.BooksResolved)
	assert.Equal(t, 1, run.BooksUpdated)
	assert.Equal(t, 1, run.BooksFailed)
	assert.Equal(t, StatusCompleted, runs.lastUpdate().Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RefreshBooksTotal.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RefreshBooksTotal.WithLabelValues("unresolved")))

	books.AssertExpectations(t)
	runs.AssertExpectations(t)
}

func TestService_Run_PartialResolutionCounted(t *testing.T) {
	books := new(mockBooks)
	runs := new(mockRunRepo)
	svc := newTestService(books, runs, Config{Workers: 1, PageSize: 10}, nil)

	b := book.Book{ID: 1, Title: "Pamphlet"}
	runs.On("CreateRun", mock.Anything, mock.Anything).Return(nil)
	books.On("List", mock.Anything, mock.Anything).Return([]book.Book{b}, nil).Once()
	books.On("Rebuild", mock.Anything, b).Return(book.Outcome{Book: b, Resolution: entity.Resolution{ISBN: "1"}}, nil)
	runs.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

	run, err := svc.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, run.BooksResolved)
	assert.Zero(t, run.BooksUpdated)
	runs.AssertNotCalled(t, "LinkBookToRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Run_Limit(t *testing.T) {
	books := new(mockBooks)
	runs := new(mockRunRepo)
	svc := newTestService(books, runs, Config{Workers: 1, PageSize: 50}, nil)

	runs.On("CreateRun", mock.Anything, mock.Anything).Return(nil)
	books.On("List", mock.Anything, book.ListParams{Limit: 2}).
		Return([]book.Book{{ID: 1}, {ID: 2}}, nil).Once()
	books.On("Rebuild", mock.Anything, mock.Anything).Return(book.Outcome{}, nil)
	runs.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

	run, err := svc.Run(context.Background(), Options{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, run.BooksScanned)
	books.AssertNumberOfCalls(t, "List", 1)
}

func TestService_Run_ListFailureMarksRunFailed(t *testing.T) {
	books := new(mockBooks)
	runs := new(mockRunRepo)
	svc := newTestService(books, runs, Config{Workers: 1, PageSize: 10}, nil)

	runs.On("CreateRun", mock.Anything, mock.Anything).Return(nil)
	books.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	runs.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

	run, err := svc.Run(context.Background(), Options{})
	require.Error(t, err)
	assert.Equal(t, StatusFailed, run.Status)
	assert.Contains(t, run.Error, "connection refused")
	assert.Equal(t, StatusFailed, runs.lastUpdate().Status)
}

func TestService_Run_CreateFailure(t *testing.T) {
	books := new(mockBooks)
	runs := new(mockRunRepo)
	svc := newTestService(books, runs, Config{}, nil)
	runs.On("CreateRun", mock.Anything, mock.Anything).Return(errors.New("db down"))

	run, err := svc.Run(context.Background(), Options{})
	assert.Nil(t, run)
	assert.ErrorContains(t, err, "create refresh run")
	books.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestService_Run_Cancelled(t *testing.T) {
	books := new(mockBooks)
	runs := new(mockRunRepo)
	svc := newTestService(books, runs, Config{Workers: 1, PageSize: 10}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	runs.On("CreateRun", mock.Anything, mock.Anything).Return(nil)
	books.On("List", mock.Anything, mock.Anything).Return([]book.Book{{ID: 1}, {ID: 2}}, nil)
	books.On("Rebuild", mock.Anything, mock.Anything).Run(func(mock.Arguments) { cancel() }).Return(book.Outcome{}, nil)
	runs.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

	run, err := svc.Run(ctx, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusFailed, run.Status)
	assert.Equal(t, 1, run.BooksScanned)
}

func TestService_StartRunsInBackground(t *testing.T) {
	books := new(mockBooks)
	runs := new(mockRunRepo)
	svc := newTestService(books, runs, Config{Workers: 1, PageSize: 10}, nil)

	runs.On("CreateRun", mock.Anything, mock.Anything).Return(nil)
	books.On("List", mock.Anything, mock.Anything).Return([]book.Book{}, nil)
	runs.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	run, err := svc.Start(ctx, Options{})
	cancel()
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, run.Status)

	svc.Wait()
	assert.Equal(t, StatusCompleted, runs.lastUpdate().Status)
}

func TestService_ShutdownInterruptsBackgroundRuns(t *testing.T) {
	books := new(mockBooks)
	runs := new(mockRunRepo)
	svc := newTestService(books, runs, Config{Workers: 1, PageSize: 10}, nil)

	listing := make(chan struct{})
	runs.On("CreateRun", mock.Anything, mock.Anything).Return(nil)
	books.On("List", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(listing)
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.Canceled)
	runs.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Start(context.Background(), Options{})
	require.NoError(t, err)
	<-listing

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, svc.Shutdown(ctx))

	last := runs.lastUpdate()
	assert.Equal(t, StatusFailed, last.Status)
	assert.Contains(t, last.Error, "interrupted")
	assert.NotNil(t, last.FinishedAt)
}

func TestService_ShutdownHonoursDeadline(t *testing.T) {
	books := new(mockBooks)
	runs := new(mockRunRepo)
	svc := newTestService(books, runs, Config{Workers: 1, PageSize: 10}, nil)

	release := make(chan struct{})
	listing := make(chan struct{})
	runs.On("CreateRun", mock.Anything, mock.Anything).Return(nil)
	books.On("List", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(listing)
			<-release
		}).
		Return([]book.Book{{ID: 1}}, nil)
	runs.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Start(context.Background(), Options{})
	require.NoError(t, err)
	<-listing

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, svc.Shutdown(ctx), context.DeadlineExceeded)

	close(release)
	svc.Wait()
	assert.Equal(t, StatusFailed, runs.lastUpdate().Status)
	books.AssertNotCalled(t, "Rebuild", mock.Anything, mock.Anything)
}
