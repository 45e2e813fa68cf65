package book

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookmeta/internal/entity"
)

const bookColumns = `id, title, COALESCE(author, ''), year, COALESCE(genre, ''), rating,
	COALESCE(isbn, ''), COALESCE(subjects, ''), COALESCE(cover_url, ''), created_at, updated_at`

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

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Year, &b.Genre, &b.Rating,
		&b.ISBN, &b.Subjects, &b.CoverURL, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	return b, err
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Book, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanBook(r.db.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
}

func (r *PostgresRepo) List(ctx context.Context, p ListParams) ([]Book, error) {
	const query = `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id > $1
		  AND (NOT $2 OR COALESCE(cover_url, '') = '')
		ORDER BY id
		LIMIT $3`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(ctx, query, p.AfterID, p.MissingCoverOnly, p.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ApplyResolution is a single UPDATE so concurrent refreshes of one book
// cannot interleave a read and a write.
func (r *PostgresRepo) ApplyResolution(ctx context.Context, id int64, res entity.Resolution, genre string) (Book, error) {
	const query = `
		UPDATE books SET
			cover_url  = COALESCE(NULLIF($2, ''), cover_url),
			isbn       = COALESCE(NULLIF($3, ''), isbn),
			subjects   = COALESCE(NULLIF($4, ''), subjects),
			genre      = CASE WHEN COALESCE(genre, '') = '' THEN COALESCE(NULLIF($5, ''), genre) ELSE genre END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + bookColumns

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanBook(r.db.QueryRow(ctx, query, id, res.CoverURL, res.ISBN, res.Subjects, genre))
}

func (r *PostgresRepo) Insert(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (title, author, year, genre, rating, isbn, subjects, cover_url)
		VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''))
		RETURNING id, created_at, updated_at`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(ctx, query,
		b.Title, b.Author, b.Year, b.Genre, b.Rating, b.ISBN, b.Subjects, b.CoverURL,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// Ping reports whether the database is reachable.
func (r *PostgresRepo) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(ctx)
}
