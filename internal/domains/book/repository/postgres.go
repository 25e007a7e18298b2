package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/pkg/database"
)

const bookColumns = `id, title, author, description, genre, published_date, added_by, average_ratings, reviews, created_at, updated_at`

type postgresBookRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookRepository creates a PostgreSQL-backed book repository.
func NewPostgresBookRepository(pool *pgxpool.Pool) BookRepository {
	return &postgresBookRepository{pool: pool}
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.Description,
		&b.Genre,
		&b.PublishedDate,
		&b.AddedBy,
		&b.AverageRatings,
		&b.Reviews,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to scan book: %w", err)
	}
	if b.Reviews == nil {
		b.Reviews = []model.ReviewSnapshot{}
	}
	return &b, nil
}

func collectBooks(rows pgx.Rows) ([]model.Book, error) {
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		var b model.Book
		err := rows.Scan(
			&b.ID,
			&b.Title,
			&b.Author,
			&b.Description,
			&b.Genre,
			&b.PublishedDate,
			&b.AddedBy,
			&b.AverageRatings,
			&b.Reviews,
			&b.CreatedAt,
			&b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		if b.Reviews == nil {
			b.Reviews = []model.ReviewSnapshot{}
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read book rows: %w", err)
	}
	return books, nil
}

func (r *postgresBookRepository) Create(ctx context.Context, book *model.Book) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO books (id, title, author, description, genre, published_date, added_by, reviews)
			VALUES ($1, $2, $3, $4, $5, $6, $7, '[]'::jsonb)
			RETURNING average_ratings, created_at, updated_at`

		err := tx.QueryRow(ctx, query,
			book.ID,
			book.Title,
			book.Author,
			book.Description,
			book.Genre,
			book.PublishedDate,
			book.AddedBy,
		).Scan(&book.AverageRatings, &book.CreatedAt, &book.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return model.ErrBookAlreadyExists
			}
			return fmt.Errorf("failed to create book: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET books_added = array_append(books_added, $2), updated_at = NOW() WHERE id = $1`,
			book.AddedBy, book.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to register book on user: %w", err)
		}
		return nil
	})
}

func (r *postgresBookRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1`, bookColumns)
	return scanBook(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresBookRepository) ExistsByTuple(ctx context.Context, title, author string, publishedDate time.Time, genre string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM books WHERE title = $1 AND author = $2 AND published_date = $3 AND genre = $4)`,
		title, author, publishedDate, genre,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check book existence: %w", err)
	}
	return exists, nil
}

func (r *postgresBookRepository) List(ctx context.Context, query model.ListBooksQuery) (*model.BookListResult, error) {
	where := ` WHERE 1=1`
	args := []any{}
	idx := 1
	if query.Author != "" {
		where += fmt.Sprintf(` AND author ILIKE $%d`, idx)
		args = append(args, "%"+query.Author+"%")
		idx++
	}
	if query.Genre != "" {
		where += fmt.Sprintf(` AND genre ILIKE $%d`, idx)
		args = append(args, "%"+query.Genre+"%")
		idx++
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}

	listQuery := fmt.Sprintf(
		`SELECT %s FROM books%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		bookColumns, where, idx, idx+1,
	)
	args = append(args, query.Limit, query.Offset())

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	books, err := collectBooks(rows)
	if err != nil {
		return nil, err
	}
	return &model.BookListResult{Books: books, Total: total}, nil
}

func (r *postgresBookRepository) ListByAuthor(ctx context.Context, author string) ([]model.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE author ILIKE $1 ORDER BY created_at DESC`, bookColumns)
	rows, err := r.pool.Query(ctx, query, "%"+author+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to list books by author: %w", err)
	}
	return collectBooks(rows)
}

func (r *postgresBookRepository) ListByGenre(ctx context.Context, genre string) ([]model.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE genre ILIKE $1 ORDER BY created_at DESC`, bookColumns)
	rows, err := r.pool.Query(ctx, query, "%"+genre+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to list books by genre: %w", err)
	}
	return collectBooks(rows)
}

func (r *postgresBookRepository) UpdateReviewAggregate(ctx context.Context, bookID uuid.UUID, snapshots []model.ReviewSnapshot, average float64) error {
	if snapshots == nil {
		snapshots = []model.ReviewSnapshot{}
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET reviews = $2, average_ratings = $3, updated_at = NOW() WHERE id = $1`,
		bookID, snapshots, average,
	)
	if err != nil {
		return fmt.Errorf("failed to update review aggregate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}
