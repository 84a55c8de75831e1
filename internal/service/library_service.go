package service

import (
	"context"

	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/repository"
	apperrors "github.com/spec-kit/library-service/pkg/util/errorutil"
)

// FavoriteService manages the caller's favorite books.
type FavoriteService struct {
	favorites repository.FavoriteRepository
	books     repository.BookRepository
	accounts  repository.AccountRepository
}

// NewFavoriteService builds the service.
func NewFavoriteService(favorites repository.FavoriteRepository, books repository.BookRepository, accounts repository.AccountRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites, books: books, accounts: accounts}
}

// List returns the caller's favorites.
func (s *FavoriteService) List(ctx context.Context, identity *domain.Identity) ([]domain.Book, error) {
	user, err := currentUser(ctx, s.accounts, identity)
	if err != nil {
		return nil, err
	}
	books, err := s.favorites.ListBooks(ctx, user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return books, nil
}

// Add marks a book as favorite. Adding twice is a no-op.
func (s *FavoriteService) Add(ctx context.Context, identity *domain.Identity, bookID int64) error {
	user, err := currentUser(ctx, s.accounts, identity)
	if err != nil {
		return err
	}
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return storeError(err, "book")
	}
	if err := s.favorites.Add(ctx, user.ID, bookID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// Remove unmarks a favorite. Removing an absent favorite is a no-op.
func (s *FavoriteService) Remove(ctx context.Context, identity *domain.Identity, bookID int64) error {
	user, err := currentUser(ctx, s.accounts, identity)
	if err != nil {
		return err
	}
	if err := s.favorites.Remove(ctx, user.ID, bookID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// HistoryService exposes the caller's reading history.
type HistoryService struct {
	history  repository.HistoryRepository
	accounts repository.AccountRepository
}

// NewHistoryService builds the service.
func NewHistoryService(history repository.HistoryRepository, accounts repository.AccountRepository) *HistoryService {
	return &HistoryService{history: history, accounts: accounts}
}

// List returns opened books, most recent first.
func (s *HistoryService) List(ctx context.Context, identity *domain.Identity) ([]domain.Book, error) {
	user, err := currentUser(ctx, s.accounts, identity)
	if err != nil {
		return nil, err
	}
	books, err := s.history.ListBooks(ctx, user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return books, nil
}
