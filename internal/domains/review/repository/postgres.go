package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/pkg/database"
)

const reviewColumns = `id, book_id, user_id, rating, comment, created_at, updated_at`

type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresReviewRepository creates a PostgreSQL-backed review repository.
func NewPostgresReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

func scanReview(row pgx.Row) (*model.Review, error) {
	var rv model.Review
	err := row.Scan(
		&rv.ID,
		&rv.BookID,
		&rv.UserID,
		&rv.Rating,
		&rv.Comment,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to scan review: %w", err)
	}
	return &rv, nil
}

func (r *postgresReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO reviews (id, book_id, user_id, rating, comment)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at, updated_at`

		err := tx.QueryRow(ctx, query,
			review.ID,
			review.BookID,
			review.UserID,
			review.Rating,
			review.Comment,
		).Scan(&review.CreatedAt, &review.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return model.ErrAlreadyReviewed
			}
			return fmt.Errorf("failed to create review: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET reviews_added = array_append(reviews_added, $2), updated_at = NOW() WHERE id = $1`,
			review.UserID, review.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to register review on user: %w", err)
		}
		return nil
	})
}

func (r *postgresReviewRepository) GetOwned(ctx context.Context, reviewID, userID uuid.UUID) (*model.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1 AND user_id = $2`, reviewColumns)
	return scanReview(r.pool.QueryRow(ctx, query, reviewID, userID))
}

func (r *postgresReviewRepository) ExistsByBookAndUser(ctx context.Context, bookID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE book_id = $1 AND user_id = $2)`,
		bookID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}
	return exists, nil
}

func (r *postgresReviewRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE book_id = $1 ORDER BY created_at ASC`, reviewColumns)
	rows, err := r.pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		var rv model.Review
		err := rows.Scan(&rv.ID, &rv.BookID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read review rows: %w", err)
	}
	return reviews, nil
}

func (r *postgresReviewRepository) Update(ctx context.Context, review *model.Review) error {
	query := `
		UPDATE reviews SET rating = $2, comment = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, review.ID, review.Rating, review.Comment).Scan(&review.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrReviewNotFound
		}
		return fmt.Errorf("failed to update review: %w", err)
	}
	return nil
}

func (r *postgresReviewRepository) DeleteOwned(ctx context.Context, reviewID, userID uuid.UUID) (*model.Review, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Review, error) {
		query := fmt.Sprintf(`DELETE FROM reviews WHERE id = $1 AND user_id = $2 RETURNING %s`, reviewColumns)
		review, err := scanReview(tx.QueryRow(ctx, query, reviewID, userID))
		if err != nil {
			return nil, err
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET reviews_added = array_remove(reviews_added, $2), updated_at = NOW() WHERE id = $1`,
			userID, reviewID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to deregister review on user: %w", err)
		}
		return review, nil
	})
}
