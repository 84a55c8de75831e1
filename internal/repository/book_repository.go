package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/library-service/internal/domain"
)

// BookRepository encapsulates catalog persistence.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Book, error)
	List(ctx context.Context, sort domain.BookSort, limit, offset int) ([]domain.Book, error)
	Search(ctx context.Context, keyword string) ([]domain.Book, error)
	ListByGenre(ctx context.Context, genre string) ([]domain.Book, error)
	Count(ctx context.Context) (int64, error)
	TopGenre(ctx context.Context) (*string, error)
}

type bookRepository struct {
	pool querier
}

// NewBookRepository instantiates repository.
func NewBookRepository(pool *pgxpool.Pool) BookRepository {
	return &bookRepository{pool: pool}
}

const bookColumns = `id, title, author, COALESCE(genre, ''), COALESCE(description, ''),
               COALESCE(cover_url, ''), COALESCE(pdf_url, '')`

func (r *bookRepository) Create(ctx context.Context, book *domain.Book) error {
	const query = `
        INSERT INTO books (title, author, genre, description, cover_url, pdf_url)
        VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''))
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		book.Title,
		book.Author,
		book.Genre,
		book.Description,
		book.CoverURL,
		book.PDFURL,
	).Scan(&book.ID)
}

func (r *bookRepository) Update(ctx context.Context, book *domain.Book) error {
	const query = `
        UPDATE books SET title=$1, author=$2, genre=NULLIF($3, ''), description=NULLIF($4, ''),
            cover_url=NULLIF($5, ''), pdf_url=NULLIF($6, '')
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		book.Title,
		book.Author,
		book.Genre,
		book.Description,
		book.CoverURL,
		book.PDFURL,
		book.ID,
	)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id=$1`
	var book domain.Book
	if err := scanBook(r.pool.QueryRow(ctx, query, id), &book); err != nil {
		return nil, translate(err)
	}
	return &book, nil
}

func (r *bookRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = ANY($1)`
	return r.queryBooks(ctx, query, ids)
}

func (r *bookRepository) List(ctx context.Context, sort domain.BookSort, limit, offset int) ([]domain.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books ORDER BY %s ASC, id ASC LIMIT $1 OFFSET $2`,
		bookColumns, sortColumn(sort))
	return r.queryBooks(ctx, query, limit, offset)
}

func (r *bookRepository) Search(ctx context.Context, keyword string) ([]domain.Book, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return r.queryBooks(ctx, `SELECT `+bookColumns+` FROM books ORDER BY id`)
	}
	pattern := "%" + strings.ToLower(keyword) + "%"
	query := `SELECT ` + bookColumns + ` FROM books
             WHERE LOWER(title) LIKE $1 OR LOWER(author) LIKE $1 ORDER BY id`
	return r.queryBooks(ctx, query, pattern)
}

func (r *bookRepository) ListByGenre(ctx context.Context, genre string) ([]domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE LOWER(genre) = LOWER($1) ORDER BY id`
	return r.queryBooks(ctx, query, genre)
}

func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&n)
	return n, err
}

func (r *bookRepository) TopGenre(ctx context.Context) (*string, error) {
	const query = `
        SELECT genre FROM books
        WHERE genre IS NOT NULL AND genre <> ''
        GROUP BY genre ORDER BY COUNT(*) DESC, genre ASC LIMIT 1`
	var genre string
	if err := r.pool.QueryRow(ctx, query).Scan(&genre); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &genre, nil
}

func (r *bookRepository) queryBooks(ctx context.Context, query string, args ...any) ([]domain.Book, error) {
	rows, err := r.pool.Query(ctx, query, args...)
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

func scanBook(row pgx.Row, book *domain.Book) error {
	return row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Genre,
		&book.Description,
		&book.CoverURL,
		&book.PDFURL,
	)
}

// sortColumn whitelists ORDER BY targets; rating ordering is handled by the review repository.
func sortColumn(sort domain.BookSort) string {
	switch sort {
	case domain.BookSortAuthor:
		return "author"
	case domain.BookSortGenre:
		return "genre"
	case domain.BookSortID:
		return "id"
	default:
		return "title"
	}
}
