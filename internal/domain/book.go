package domain

// Book is a catalog entry.
type Book struct {
	ID          int64
	Title       string
	Author      string
	Genre       string
	Description string
	CoverURL    string
	PDFURL      string
}

// BookSort enumerates the columns books can be ordered by.
type BookSort string

const (
	BookSortTitle  BookSort = "title"
	BookSortAuthor BookSort = "author"
	BookSortGenre  BookSort = "genre"
	BookSortID     BookSort = "id"
	BookSortRating BookSort = "rating"
)

// ParseBookSort maps a query value to a sort column, defaulting to title.
func ParseBookSort(s string) BookSort {
	switch BookSort(s) {
	case BookSortAuthor, BookSortGenre, BookSortID, BookSortRating:
		return BookSort(s)
	default:
		return BookSortTitle
	}
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items []T
	Page  int
	Size  int
	Total int64
}
