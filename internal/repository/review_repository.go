package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/library-service/internal/domain"
)

// ReviewRepository manages book reviews. (user_id, book_id) is unique.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id int64) error
	GetByUserAndBook(ctx context.Context, userID, bookID int64) (*domain.Review, error)
	ListByBook(ctx context.Context, bookID int64) ([]domain.Review, error)
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	AverageRating(ctx context.Context) (float64, error)
	TopReviewer(ctx context.Context) (*string, error)
	TopRatedBookIDs(ctx context.Context, limit, offset int) ([]int64, error)
	CountReviewedBooks(ctx context.Context) (int64, error)
}

type reviewRepository struct {
	pool querier
}

// NewReviewRepository constructs repository.
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	const query = `
        INSERT INTO reviews (user_id, book_id, rating, comment)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		review.UserID,
		review.BookID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	return translate(err)
}

func (r *reviewRepository) Update(ctx context.Context, review *domain.Review) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE reviews SET rating=$1, comment=$2 WHERE id=$3`,
		review.Rating, review.Comment, review.ID)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reviewRepository) GetByUserAndBook(ctx context.Context, userID, bookID int64) (*domain.Review, error) {
	const query = `
        SELECT rv.id, rv.user_id, rv.book_id, COALESCE(u.full_name, ''), rv.rating, rv.comment, rv.created_at
        FROM reviews rv JOIN users u ON u.id = rv.user_id
        WHERE rv.user_id=$1 AND rv.book_id=$2`
	var review domain.Review
	if err := scanReview(r.pool.QueryRow(ctx, query, userID, bookID), &review); err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *reviewRepository) ListByBook(ctx context.Context, bookID int64) ([]domain.Review, error) {
	const query = `
        SELECT rv.id, rv.user_id, rv.book_id, COALESCE(u.full_name, ''), rv.rating, rv.comment, rv.created_at
        FROM reviews rv JOIN users u ON u.id = rv.user_id
        WHERE rv.book_id=$1 ORDER BY rv.created_at DESC`
	rows, err := r.pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Review
	for rows.Next() {
		var review domain.Review
		if err := scanReview(rows, &review); err != nil {
			return nil, err
		}
		result = append(result, review)
	}
	return result, rows.Err()
}

func (r *reviewRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&n)
	return n, err
}

func (r *reviewRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE created_at > $1`, since).Scan(&n)
	return n, err
}

func (r *reviewRepository) AverageRating(ctx context.Context) (float64, error) {
	var avg float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(AVG(rating), 0)::float8 FROM reviews`).Scan(&avg)
	return avg, err
}

func (r *reviewRepository) TopReviewer(ctx context.Context) (*string, error) {
	const query = `
        SELECT u.email FROM reviews rv JOIN users u ON u.id = rv.user_id
        GROUP BY u.email ORDER BY COUNT(*) DESC, u.email ASC LIMIT 1`
	var email string
	if err := r.pool.QueryRow(ctx, query).Scan(&email); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &email, nil
}

func (r *reviewRepository) TopRatedBookIDs(ctx context.Context, limit, offset int) ([]int64, error) {
	const query = `
        SELECT book_id FROM reviews
        GROUP BY book_id ORDER BY AVG(rating) DESC, COUNT(*) DESC, book_id ASC
        LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *reviewRepository) CountReviewedBooks(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(DISTINCT book_id) FROM reviews`).Scan(&n)
	return n, err
}

func scanReview(row pgx.Row, review *domain.Review) error {
	return row.Scan(
		&review.ID,
		&review.UserID,
		&review.BookID,
		&review.UserFullName,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
}
