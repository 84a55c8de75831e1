package domain

// Stats aggregates catalog figures for the admin dashboard.
type Stats struct {
	Books           int64
	Users           int64
	Reviews         int64
	AvgRating       float64
	ReviewsLastWeek int64
	TopGenre        *string
	TopUser         *string
}
