package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/library-service/internal/api/dto"
	"github.com/spec-kit/library-service/internal/auth"
	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/persistence"
	"github.com/spec-kit/library-service/internal/service"
	apperrors "github.com/spec-kit/library-service/pkg/util/errorutil"
)

// BooksHandler exposes the catalog.
type BooksHandler struct {
	books *service.BookService
	files *persistence.FileStore
}

// NewBooksHandler constructs handler.
func NewBooksHandler(books *service.BookService, files *persistence.FileStore) *BooksHandler {
	return &BooksHandler{books: books, files: files}
}

// List handles GET /api/books?page&size&sort.
func (h *BooksHandler) List(c *fiber.Ctx) error {
	sort := domain.ParseBookSort(c.Query("sort"))
	return h.page(c, sort, c.QueryInt("page", 0), c.QueryInt("size", service.DefaultPageSize))
}

// Sorted handles GET /api/books/sorted?sortBy&page&size.
func (h *BooksHandler) Sorted(c *fiber.Ctx) error {
	sort := domain.ParseBookSort(c.Query("sortBy", string(domain.BookSortTitle)))
	return h.page(c, sort, c.QueryInt("page", 0), c.QueryInt("size", 10))
}

func (h *BooksHandler) page(c *fiber.Ctx, sort domain.BookSort, page, size int) error {
	result, err := h.books.List(c.UserContext(), sort, page, size)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewBookPage(result))
}

// Get handles GET /api/books/:id.
func (h *BooksHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	identity, _ := auth.IdentityFromCtx(c)
	book, err := h.books.Get(c.UserContext(), identity, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewBookResponse(book))
}

// Search handles GET /api/books/search?query|q.
func (h *BooksHandler) Search(c *fiber.Ctx) error {
	keyword := c.Query("query", c.Query("q"))
	books, err := h.books.Search(c.UserContext(), keyword)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewBookList(books))
}

// Top handles GET /api/books/top?size.
func (h *BooksHandler) Top(c *fiber.Ctx) error {
	books, err := h.books.Top(c.UserContext(), c.QueryInt("size", 10))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewBookList(books))
}

// ByGenre handles GET /api/books/genre?genre.
func (h *BooksHandler) ByGenre(c *fiber.Ctx) error {
	books, err := h.books.ByGenre(c.UserContext(), c.Query("genre"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewBookList(books))
}

// Create handles POST /api/books.
func (h *BooksHandler) Create(c *fiber.Ctx) error {
	var req dto.BookRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	identity, _ := auth.IdentityFromCtx(c)
	book, err := h.books.Create(c.UserContext(), identity, bookInput(req))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewBookResponse(book))
}

// Update handles PUT /api/books/:id.
func (h *BooksHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.BookRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	book, err := h.books.Update(c.UserContext(), id, bookInput(req))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewBookResponse(book))
}

// Delete handles DELETE /api/books/:id.
func (h *BooksHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	identity, _ := auth.IdentityFromCtx(c)
	if err := h.books.Delete(c.UserContext(), identity, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// UploadCover handles POST /api/books/:id/cover (multipart field "file", image/*).
func (h *BooksHandler) UploadCover(c *fiber.Ctx) error {
	return h.upload(c, persistence.IsImage, h.books.SetCover)
}

// UploadPDF handles POST /api/books/:id/pdf (multipart field "file", application/pdf).
func (h *BooksHandler) UploadPDF(c *fiber.Ctx) error {
	return h.upload(c, persistence.IsPDF, h.books.SetPDF)
}

type attachFunc func(ctx context.Context, id int64, url string) (*domain.Book, error)

func (h *BooksHandler) upload(c *fiber.Ctx, allow func(string) bool, attach attachFunc) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.books.Exists(c.UserContext(), id); err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file is required", nil)
	}
	url, err := h.files.Save(fh, allow)
	if err != nil {
		return uploadError(err)
	}

	book, err := attach(c.UserContext(), id, url)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewBookResponse(book))
}

func uploadError(err error) error {
	switch {
	case errors.Is(err, persistence.ErrEmptyFile),
		errors.Is(err, persistence.ErrFileTooLarge),
		errors.Is(err, persistence.ErrContentType):
		return apperrors.NewValidationError(err.Error(), nil)
	default:
		return apperrors.NewInternalError(err)
	}
}

func bookInput(req dto.BookRequest) service.BookInput {
	return service.BookInput{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Description: req.Description,
	}
}
