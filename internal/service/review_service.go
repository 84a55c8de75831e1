package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/events"
	"github.com/spec-kit/library-service/internal/repository"
	apperrors "github.com/spec-kit/library-service/pkg/util/errorutil"
)

// MaxCommentLength bounds review comments, in characters.
const MaxCommentLength = 255

// ReviewService manages book reviews. A user reviews a book at most once.
type ReviewService struct {
	reviews    repository.ReviewRepository
	books      repository.BookRepository
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewReviewService builds the service.
func NewReviewService(reviews repository.ReviewRepository, books repository.BookRepository, accounts repository.AccountRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		reviews:    reviews,
		books:      books,
		accounts:   accounts,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// List returns the reviews of a book, newest first.
func (s *ReviewService) List(ctx context.Context, bookID int64) ([]domain.Review, error) {
	reviews, err := s.reviews.ListByBook(ctx, bookID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return reviews, nil
}

// Add creates the caller's review of a book.
func (s *ReviewService) Add(ctx context.Context, identity *domain.Identity, bookID int64, rating int, comment string) (*domain.Review, error) {
	if err := validateReview(rating, comment); err != nil {
		return nil, err
	}
	user, err := currentUser(ctx, s.accounts, identity)
	if err != nil {
		return nil, err
	}
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return nil, storeError(err, "book")
	}

	if _, err := s.reviews.GetByUserAndBook(ctx, user.ID, bookID); err == nil {
		return nil, apperrors.NewConflict("user already reviewed this book", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}

	review := &domain.Review{
		UserID:       user.ID,
		BookID:       bookID,
		UserFullName: user.FullName,
		Rating:       rating,
		Comment:      strings.TrimSpace(comment),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("user already reviewed this book", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("review added", zap.String("user", user.Email), zap.Int64("book_id", bookID))
	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventReviewAdded, user.Email,
		events.ReviewAddedPayload{ReviewID: review.ID, BookID: bookID, Rating: rating}))
	return review, nil
}

// Update changes the caller's existing review.
func (s *ReviewService) Update(ctx context.Context, identity *domain.Identity, bookID int64, rating int, comment string) (*domain.Review, error) {
	if err := validateReview(rating, comment); err != nil {
		return nil, err
	}
	user, err := currentUser(ctx, s.accounts, identity)
	if err != nil {
		return nil, err
	}
	review, err := s.reviews.GetByUserAndBook(ctx, user.ID, bookID)
	if err != nil {
		return nil, storeError(err, "review")
	}

	review.Rating = rating
	review.Comment = strings.TrimSpace(comment)
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, storeError(err, "review")
	}
	s.logger.Info("review updated", zap.String("user", user.Email), zap.Int64("book_id", bookID))
	return review, nil
}

// Delete removes the caller's review.
func (s *ReviewService) Delete(ctx context.Context, identity *domain.Identity, bookID int64) error {
	user, err := currentUser(ctx, s.accounts, identity)
	if err != nil {
		return err
	}
	review, err := s.reviews.GetByUserAndBook(ctx, user.ID, bookID)
	if err != nil {
		return storeError(err, "review")
	}
	if err := s.reviews.Delete(ctx, review.ID); err != nil {
		return storeError(err, "review")
	}
	s.logger.Info("review deleted", zap.String("user", user.Email), zap.Int64("book_id", bookID))
	return nil
}

func validateReview(rating int, comment string) error {
	details := map[string]any{}
	if rating < domain.MinRating || rating > domain.MaxRating {
		details["rating"] = "must be between 1 and 5"
	}
	trimmed := strings.TrimSpace(comment)
	if trimmed == "" || len([]rune(trimmed)) > MaxCommentLength {
		details["comment"] = "must be between 1 and 255 characters"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid review", details)
	}
	return nil
}
