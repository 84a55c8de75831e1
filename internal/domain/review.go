package domain

import "time"

// Review is a single user's rating of a book. One per (user, book).
type Review struct {
	ID           int64
	UserID       int64
	BookID       int64
	UserFullName string
	Rating       int
	Comment      string
	CreatedAt    time.Time
}

const (
	MinRating = 1
	MaxRating = 5
)
