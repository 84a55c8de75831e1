package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/events"
	"github.com/spec-kit/library-service/internal/persistence"
	"github.com/spec-kit/library-service/internal/repository"
	apperrors "github.com/spec-kit/library-service/pkg/util/errorutil"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// BookInput carries the editable fields of a book.
type BookInput struct {
	Title       string
	Author      string
	Genre       string
	Description string
}

// BookService manages the catalog.
type BookService struct {
	books      repository.BookRepository
	reviews    repository.ReviewRepository
	accounts   repository.AccountRepository
	history    repository.HistoryRepository
	cache      persistence.BookCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// BookDependencies encapsulates repo requirements for the book service.
type BookDependencies struct {
	BookRepo    repository.BookRepository
	ReviewRepo  repository.ReviewRepository
	AccountRepo repository.AccountRepository
	HistoryRepo repository.HistoryRepository
	Cache       persistence.BookCache
	Dispatcher  events.Dispatcher
}

// NewBookService builds the service. A nil cache disables caching.
func NewBookService(deps BookDependencies, logger *zap.Logger) *BookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	cache := deps.Cache
	if cache == nil {
		cache = persistence.NewRedisBookCache(nil, 0)
	}
	return &BookService{
		books:      deps.BookRepo,
		reviews:    deps.ReviewRepo,
		accounts:   deps.AccountRepo,
		history:    deps.HistoryRepo,
		cache:      cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// List returns one zero-based page of books. Sorting by rating orders by
// average review rating and only includes reviewed books.
func (s *BookService) List(ctx context.Context, sort domain.BookSort, page, size int) (*domain.Page[domain.Book], error) {
	page, size = normalizePage(page, size)
	offset := page * size

	if sort == domain.BookSortRating {
		ids, err := s.reviews.TopRatedBookIDs(ctx, size, offset)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		items, err := s.booksInOrder(ctx, ids)
		if err != nil {
			return nil, err
		}
		total, err := s.reviews.CountReviewedBooks(ctx)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		return &domain.Page[domain.Book]{Items: items, Page: page, Size: size, Total: total}, nil
	}

	items, err := s.books.List(ctx, sort, size, offset)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	total, err := s.books.Count(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &domain.Page[domain.Book]{Items: items, Page: page, Size: size, Total: total}, nil
}

// Get returns a book. When identity is present the view is recorded in the
// caller's history; recording failures never fail the read.
func (s *BookService) Get(ctx context.Context, identity *domain.Identity, id int64) (*domain.Book, error) {
	book, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity != nil {
		s.recordView(ctx, identity, id)
	}
	return book, nil
}

// Search matches title or author case-insensitively. A blank keyword lists everything.
func (s *BookService) Search(ctx context.Context, keyword string) ([]domain.Book, error) {
	books, err := s.books.Search(ctx, keyword)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return books, nil
}

// Top returns the best rated books.
func (s *BookService) Top(ctx context.Context, size int) ([]domain.Book, error) {
	if size <= 0 {
		size = 10
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	ids, err := s.reviews.TopRatedBookIDs(ctx, size, 0)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return s.booksInOrder(ctx, ids)
}

// ByGenre lists books of a genre, case-insensitively.
func (s *BookService) ByGenre(ctx context.Context, genre string) ([]domain.Book, error) {
	if strings.TrimSpace(genre) == "" {
		return nil, apperrors.NewValidationError("genre is required", nil)
	}
	books, err := s.books.ListByGenre(ctx, genre)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return books, nil
}

// Create adds a book to the catalog.
func (s *BookService) Create(ctx context.Context, identity *domain.Identity, in BookInput) (*domain.Book, error) {
	book := &domain.Book{
		Title:       strings.TrimSpace(in.Title),
		Author:      strings.TrimSpace(in.Author),
		Genre:       strings.TrimSpace(in.Genre),
		Description: in.Description,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("book created", zap.Int64("book_id", book.ID), zap.String("title", book.Title))
	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventBookCreated, actorOf(identity), events.BookPayload{BookID: book.ID, Title: book.Title}))
	return book, nil
}

// Update replaces the editable fields of a book. Upload URLs are kept.
func (s *BookService) Update(ctx context.Context, id int64, in BookInput) (*domain.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "book")
	}
	book.Title = strings.TrimSpace(in.Title)
	book.Author = strings.TrimSpace(in.Author)
	book.Genre = strings.TrimSpace(in.Genre)
	book.Description = in.Description
	if err := s.save(ctx, book); err != nil {
		return nil, err
	}
	s.logger.Info("book updated", zap.Int64("book_id", id))
	return book, nil
}

// Delete removes a book.
func (s *BookService) Delete(ctx context.Context, identity *domain.Identity, id int64) error {
	if err := s.books.Delete(ctx, id); err != nil {
		return storeError(err, "book")
	}
	s.invalidate(ctx, id)
	s.logger.Info("book deleted", zap.Int64("book_id", id))
	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventBookDeleted, actorOf(identity), events.BookPayload{BookID: id}))
	return nil
}

// SetCover points the book at an uploaded cover image.
func (s *BookService) SetCover(ctx context.Context, id int64, url string) (*domain.Book, error) {
	return s.patch(ctx, id, func(b *domain.Book) { b.CoverURL = url })
}

// SetPDF points the book at an uploaded PDF.
func (s *BookService) SetPDF(ctx context.Context, id int64, url string) (*domain.Book, error) {
	return s.patch(ctx, id, func(b *domain.Book) { b.PDFURL = url })
}

// Exists reports whether a book id is in the catalog.
func (s *BookService) Exists(ctx context.Context, id int64) error {
	_, err := s.lookup(ctx, id)
	return err
}

func (s *BookService) patch(ctx context.Context, id int64, mutate func(*domain.Book)) (*domain.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "book")
	}
	mutate(book)
	if err := s.save(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *BookService) save(ctx context.Context, book *domain.Book) error {
	if err := s.books.Update(ctx, book); err != nil {
		return storeError(err, "book")
	}
	s.invalidate(ctx, book.ID)
	return nil
}

func (s *BookService) lookup(ctx context.Context, id int64) (*domain.Book, error) {
	if cached, err := s.cache.Get(ctx, id); err == nil {
		return cached, nil
	} else if !errors.Is(err, persistence.ErrCacheMiss) {
		s.logger.Warn("book cache read failed", zap.Int64("book_id", id), zap.Error(err))
	}

	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "book")
	}
	if err := s.cache.Set(ctx, book); err != nil {
		s.logger.Warn("book cache write failed", zap.Int64("book_id", id), zap.Error(err))
	}
	return book, nil
}

func (s *BookService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("book cache invalidate failed", zap.Int64("book_id", id), zap.Error(err))
	}
}

func (s *BookService) recordView(ctx context.Context, identity *domain.Identity, bookID int64) {
	user, err := s.accounts.FindByEmail(ctx, identity.Subject)
	if err == nil {
		err = s.history.Record(ctx, &domain.HistoryEntry{UserID: user.ID, BookID: bookID, LastOpened: s.now()})
	}
	if err != nil {
		s.logger.Debug("history not recorded", zap.String("subject", identity.Subject), zap.Int64("book_id", bookID), zap.Error(err))
	}
}

// booksInOrder loads books by id preserving the order of ids.
func (s *BookService) booksInOrder(ctx context.Context, ids []int64) ([]domain.Book, error) {
	if len(ids) == 0 {
		return []domain.Book{}, nil
	}
	found, err := s.books.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	byID := make(map[int64]domain.Book, len(found))
	for _, b := range found {
		byID[b.ID] = b
	}
	ordered := make([]domain.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			ordered = append(ordered, b)
		}
	}
	return ordered, nil
}

func normalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func actorOf(identity *domain.Identity) string {
	if identity == nil {
		return ""
	}
	return identity.Subject
}
