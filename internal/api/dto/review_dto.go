package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/spec-kit/library-service/internal/domain"
)

// ReviewRequest is the add/update payload.
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Validate checks the payload shape.
func (r ReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating, validation.Required, validation.Min(domain.MinRating), validation.Max(domain.MaxRating)),
		validation.Field(&r.Comment, validation.Required, validation.Length(1, 255)),
	)
}

// ReviewResponse is the public shape of a review.
type ReviewResponse struct {
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewReviewResponse maps a domain review.
func NewReviewResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		UserName:  r.UserFullName,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// NewReviewList maps a slice of reviews. The result is never nil.
func NewReviewList(reviews []domain.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, NewReviewResponse(&reviews[i]))
	}
	return out
}
