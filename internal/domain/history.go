package domain

import "time"

// HistoryEntry records that a user opened a book.
type HistoryEntry struct {
	ID         int64
	UserID     int64
	BookID     int64
	LastOpened time.Time
}
