package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/spec-kit/library-service/internal/domain"
)

// BookRequest is the create/update payload.
type BookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
}

// Validate checks the payload shape.
func (r BookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Author, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Genre, validation.Length(0, 255)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
	)
}

// BookResponse is the public shape of a book.
type BookResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre,omitempty"`
	Description string `json:"description,omitempty"`
	CoverURL    string `json:"coverUrl,omitempty"`
	PDFURL      string `json:"pdfUrl,omitempty"`
}

// PageResponse wraps one page of a listing.
type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int64 `json:"totalPages"`
}

// NewBookResponse maps a domain book.
func NewBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Description: b.Description,
		CoverURL:    b.CoverURL,
		PDFURL:      b.PDFURL,
	}
}

// NewBookList maps a slice of books. The result is never nil.
func NewBookList(books []domain.Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for i := range books {
		out = append(out, NewBookResponse(&books[i]))
	}
	return out
}

// NewBookPage maps a page of books.
func NewBookPage(p *domain.Page[domain.Book]) PageResponse[BookResponse] {
	var pages int64
	if p.Size > 0 {
		pages = (p.Total + int64(p.Size) - 1) / int64(p.Size)
	}
	return PageResponse[BookResponse]{
		Content:       NewBookList(p.Items),
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.Total,
		TotalPages:    pages,
	}
}
