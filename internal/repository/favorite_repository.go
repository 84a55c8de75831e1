package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/library-service/internal/domain"
)

// FavoriteRepository stores per-user favorite books.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, bookID int64) error
	Remove(ctx context.Context, userID, bookID int64) error
	ListBooks(ctx context.Context, userID int64) ([]domain.Book, error)
}

type favoriteRepository struct {
	pool querier
}

// NewFavoriteRepository constructs repository.
func NewFavoriteRepository(pool *pgxpool.Pool) FavoriteRepository {
	return &favoriteRepository{pool: pool}
}

// Add is idempotent.
func (r *favoriteRepository) Add(ctx context.Context, userID, bookID int64) error {
	const query = `
        INSERT INTO favorites (user_id, book_id) VALUES ($1, $2)
        ON CONFLICT (user_id, book_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, userID, bookID)
	return translate(err)
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, bookID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE user_id=$1 AND book_id=$2`, userID, bookID)
	return translate(err)
}

func (r *favoriteRepository) ListBooks(ctx context.Context, userID int64) ([]domain.Book, error) {
	const query = `
        SELECT b.id, b.title, b.author, COALESCE(b.genre, ''), COALESCE(b.description, ''),
               COALESCE(b.cover_url, ''), COALESCE(b.pdf_url, '')
        FROM favorites f JOIN books b ON b.id = f.book_id
        WHERE f.user_id=$1 ORDER BY f.id`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Book
	for rows.Next() {
		var book domain.Book
		if err := scanBook(rows, &book); err != nil {
			return nil, err
		}
		result = append(result, book)
	}
	return result, rows.Err()
}
