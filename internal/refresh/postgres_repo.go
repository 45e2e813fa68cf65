package refresh

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRunNotFound is returned for unknown run ids.
var ErrRunNotFound = errors.New("refresh run not found")

type Repository interface {
	CreateRun(ctx context.Context, run *Run) error
	UpdateRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	LinkBookToRun(ctx context.Context, runID string, bookID int64, coverURL string) error
}

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) error {
	const sql = `
		INSERT INTO cover_refresh_runs (id, started_at, status, missing_only)
		VALUES ($1, $2, $3, $4)`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(ctx, sql, run.ID, run.StartedAt, run.Status, run.MissingOnly)
	return err
}

func (r *PostgresRepo) UpdateRun(ctx context.Context, run *Run) error {
	const sql = `
		UPDATE cover_refresh_runs SET
			finished_at = $1,
			status = $2,
			books_scanned = $3,
			books_resolved = $4,
			books_updated = $5,
			books_failed = $6,
			error = NULLIF($7, '')
		WHERE id = $8`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(ctx, sql, run.FinishedAt, run.Status, run.BooksScanned, run.BooksResolved,
		run.BooksUpdated, run.BooksFailed, run.Error, run.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (r *PostgresRepo) GetRun(ctx context.Context, id string) (Run, error) {
	const sql = `
		SELECT id, started_at, finished_at, status, missing_only,
		       books_scanned, books_resolved, books_updated, books_failed, COALESCE(error, '')
		FROM cover_refresh_runs
		WHERE id = $1`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	var run Run
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&run.ID, &run.StartedAt, &run.FinishedAt, &run.Status, &run.MissingOnly,
		&run.BooksScanned, &run.BooksResolved, &run.BooksUpdated, &run.BooksFailed, &run.Error,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return run, err
}

func (r *PostgresRepo) LinkBookToRun(ctx context.Context, runID string, bookID int64, coverURL string) error {
	const sql = `
		INSERT INTO cover_refresh_run_books (run_id, book_id, cover_url)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(ctx, sql, runID, bookID, coverURL)
	return err
}
