package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"bookmeta/internal/book"
	"bookmeta/internal/observability"
)

// Books is the part of book.Service a run needs.
type Books interface {
	List(ctx context.Context, p book.ListParams) ([]book.Book, error)
	Rebuild(ctx context.Context, b book.Book) (book.Outcome, error)
}

type Config struct {
	Workers  int
	PageSize int
}

type Service struct {
	books   Books
	runs    Repository
	cfg     Config
	log     logrus.FieldLogger
	metrics *observability.Metrics

	now   func() time.Time
	newID func() string

	// base is cancelled by Shutdown and bounds every run started with Start.
	base       context.Context
	stop       context.CancelFunc
	background sync.WaitGroup
}

func NewService(books Books, runs Repository, cfg Config, log logrus.FieldLogger, m *observability.Metrics) *Service {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = 100
	}
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	base, stop := context.WithCancel(context.Background())
	return &Service{
		base:    base,
		stop:    stop,
		books:   books,
		runs:    runs,
		cfg:     cfg,
		log:     log.WithField("component", "refresh"),
		metrics: m,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Run records a new run, processes it to completion and returns the final
// record. A failure to process is reported both in the record and as err.
func (s *Service) Run(ctx context.Context, opts Options) (*Run, error) {
	run, err := s.create(ctx, opts)
	if err != nil {
		return nil, err
	}
	err = s.process(ctx, run, opts)
	return run, err
}

// Start records a new run and processes it in the background. The returned
// copy is the RUNNING record; poll GetRun for progress. The run outlives ctx
// but not Shutdown.
func (s *Service) Start(ctx context.Context, opts Options) (Run, error) {
	run, err := s.create(ctx, opts)
	if err != nil {
		return Run{}, err
	}
	snapshot := *run

	bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
	unlink := context.AfterFunc(s.base, cancel)
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		defer cancel()
		defer unlink()
		_ = s.process(bg, run, opts)
	}()
	return snapshot, nil
}

// Wait blocks until every run launched with Start has finished.
func (s *Service) Wait() {
	s.background.Wait()
}

// Shutdown interrupts runs launched with Start, which are then stored as
// FAILED, and waits for them until ctx is done.
func (s *Service) Shutdown(ctx context.Context) error {
	s.stop()

	done := make(chan struct{})
	go func() {
		s.background.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("refresh shutdown: %w", ctx.Err())
	}
}

func (s *Service) GetRun(ctx context.Context, id string) (Run, error) {
	return s.runs.GetRun(ctx, id)
}

func (s *Service) create(ctx context.Context, opts Options) (*Run, error) {
	run := &Run{
		ID:          s.newID(),
		Status:      StatusRunning,
		MissingOnly: opts.MissingOnly,
		StartedAt:   s.now(),
	}
	if err := s.runs.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("create refresh run: %w", err)
	}
	return run, nil
}

func (s *Service) process(ctx context.Context, run *Run, opts Options) (err error) {
	log := s.log.WithField("run_id", run.ID)
	log.WithField("missing_only", opts.MissingOnly).Info("refresh run started")

	defer func() {
		now := s.now()
		run.FinishedAt = &now
		if err != nil {
			run.Status = StatusFailed
			run.Error = err.Error()
		} else {
			run.Status = StatusCompleted
		}
		if updateErr := s.runs.UpdateRun(context.WithoutCancel(ctx), run); updateErr != nil {
			log.WithError(updateErr).Error("failed to store refresh run")
		}
		log.WithFields(logrus.Fields{
			"status":   run.Status,
			"scanned":  run.BooksScanned,
			"resolved": run.BooksResolved,
			"updated":  run.BooksUpdated,
			"failed":   run.BooksFailed,
		}).Info("refresh run finished")
	}()

	var mu sync.Mutex
	var afterID int64
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("refresh interrupted: %w", err)
		}
		pageSize := s.cfg.PageSize
		if opts.Limit > 0 {
			pageSize = min(pageSize, opts.Limit-run.BooksScanned)
			if pageSize <= 0 {
				return nil
			}
		}

		page, err := s.books.List(ctx, book.ListParams{
			AfterID:          afterID,
			Limit:            pageSize,
			MissingCoverOnly: opts.MissingOnly,
		})
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("refresh interrupted: %w", ctx.Err())
			}
			return fmt.Errorf("list books after %d: %w", afterID, err)
		}
		if len(page) == 0 {
			return nil
		}

		var g errgroup.Group
		g.SetLimit(s.cfg.Workers)
		for _, b := range page {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				out, err := s.books.Rebuild(ctx, b)
				s.tally(&mu, run, out, err)

				switch {
				case err != nil:
					log.WithError(err).WithField("book_id", b.ID).Warn("book refresh failed")
				case out.Updated:
					if linkErr := s.runs.LinkBookToRun(ctx, run.ID, b.ID, out.Book.CoverURL); linkErr != nil {
						log.WithError(linkErr).WithField("book_id", b.ID).Warn("failed to link book to run")
					}
				}
				return nil
			})
		}
		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("refresh interrupted: %w", err)
		}
		if len(page) < pageSize {
			return nil
		}
		afterID = page[len(page)-1].ID
	}
}

func (s *Service) tally(mu *sync.Mutex, run *Run, out book.Outcome, err error) {
	mu.Lock()
	defer mu.Unlock()

	run.BooksScanned++
	switch {
	case err != nil:
		run.BooksFailed++
		s.metrics.ObserveRefresh("failed")
	case out.Updated:
		run.BooksResolved++
		run.BooksUpdated++
		s.metrics.ObserveRefresh("updated")
	case !out.Resolution.Empty():
		run.BooksResolved++
		s.metrics.ObserveRefresh("partial")
	default:
		s.metrics.ObserveRefresh("unresolved")
	}
}
