package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/library-service/internal/domain"
)

// HistoryRepository records which books a user opened.
type HistoryRepository interface {
	Record(ctx context.Context, entry *domain.HistoryEntry) error
	ListBooks(ctx context.Context, userID int64) ([]domain.Book, error)
}

type historyRepository struct {
	pool querier
}

// NewHistoryRepository constructs repository.
func NewHistoryRepository(pool *pgxpool.Pool) HistoryRepository {
	return &historyRepository{pool: pool}
}

func (r *historyRepository) Record(ctx context.Context, entry *domain.HistoryEntry) error {
	const query = `
        INSERT INTO history (user_id, book_id, last_opened)
        VALUES ($1, $2, $3)
        RETURNING id`
	return r.pool.QueryRow(ctx, query, entry.UserID, entry.BookID, entry.LastOpened).Scan(&entry.ID)
}

// ListBooks returns opened books, most recent first.
func (r *historyRepository) ListBooks(ctx context.Context, userID int64) ([]domain.Book, error) {
	const query = `
        SELECT b.id, b.title, b.author, COALESCE(b.genre, ''), COALESCE(b.description, ''),
               COALESCE(b.cover_url, ''), COALESCE(b.pdf_url, '')
        FROM history h JOIN books b ON b.id = h.book_id
        WHERE h.user_id=$1 ORDER BY h.last_opened DESC, h.id DESC`
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
