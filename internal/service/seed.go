package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/library-service/internal/auth"
	"github.com/spec-kit/library-service/internal/config"
	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/repository"
)

var sampleBooks = []domain.Book{
	{Title: "1984", Author: "George Orwell", Genre: "Dystopia", Description: "Classic dystopian novel"},
	{Title: "Brave New World", Author: "Aldous Huxley", Genre: "Dystopia", Description: "Iconic sci-fi"},
	{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", Description: "Adventure in Middle-earth"},
	{Title: "Clean Code", Author: "Robert C. Martin", Genre: "Programming", Description: "Best practices"},
	{Title: "The Pragmatic Programmer", Author: "Andrew Hunt", Genre: "Programming", Description: "Pragmatic tips"},
}

// Seed creates the admin account and the sample catalog when they are absent.
// It is safe to run on every start.
func Seed(ctx context.Context, cfg config.SeedConfig, bcryptCost int, accounts repository.AccountRepository, books repository.BookRepository, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	email := normalizeEmail(cfg.AdminEmail)
	if _, err := accounts.FindByEmail(ctx, email); errors.Is(err, repository.ErrNotFound) {
		hash, err := auth.HashPassword(cfg.AdminPassword, bcryptCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		admin := &domain.User{Email: email, FullName: "Administrator", PasswordHash: hash, Role: domain.RoleAdmin}
		if err := accounts.Create(ctx, admin); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("create admin: %w", err)
		}
		logger.Info("admin account created", zap.String("email", email))
	} else if err != nil {
		return fmt.Errorf("lookup admin: %w", err)
	}

	count, err := books.Count(ctx)
	if err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	if count > 0 {
		return nil
	}
	for i := range sampleBooks {
		book := sampleBooks[i]
		if err := books.Create(ctx, &book); err != nil {
			return fmt.Errorf("create sample book %q: %w", book.Title, err)
		}
	}
	logger.Info("sample catalog created", zap.Int("books", len(sampleBooks)))
	return nil
}
