package service

import (
	"context"
	"time"

	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/repository"
	apperrors "github.com/spec-kit/library-service/pkg/util/errorutil"
)

const statsRecentWindow = 7 * 24 * time.Hour

// StatsService aggregates figures for the admin dashboard.
type StatsService struct {
	books    repository.BookRepository
	accounts repository.AccountRepository
	reviews  repository.ReviewRepository
	now      func() time.Time
}

// NewStatsService builds the service.
func NewStatsService(books repository.BookRepository, accounts repository.AccountRepository, reviews repository.ReviewRepository) *StatsService {
	return &StatsService{books: books, accounts: accounts, reviews: reviews, now: time.Now}
}

// Stats computes the dashboard figures.
func (s *StatsService) Stats(ctx context.Context) (*domain.Stats, error) {
	var (
		st  domain.Stats
		err error
	)
	if st.Books, err = s.books.Count(ctx); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if st.Users, err = s.accounts.Count(ctx); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if st.Reviews, err = s.reviews.Count(ctx); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if st.AvgRating, err = s.reviews.AverageRating(ctx); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if st.ReviewsLastWeek, err = s.reviews.CountSince(ctx, s.now().Add(-statsRecentWindow)); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if st.TopGenre, err = s.books.TopGenre(ctx); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if st.TopUser, err = s.reviews.TopReviewer(ctx); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &st, nil
}

// Extended returns the same figures keyed for the dashboard widgets.
func (s *StatsService) Extended(ctx context.Context) (map[string]any, error) {
	st, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"books":           st.Books,
		"users":           st.Users,
		"reviews":         st.Reviews,
		"averageRating":   st.AvgRating,
		"reviewsLastWeek": st.ReviewsLastWeek,
		"topGenre":        st.TopGenre,
		"topUser":         st.TopUser,
	}, nil
}
