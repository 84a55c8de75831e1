package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/spec-kit/library-service/internal/domain"
)

// UpdateProfileRequest carries optional profile changes.
type UpdateProfileRequest struct {
	FullName    *string `json:"fullName"`
	NewPassword *string `json:"newPassword"`
}

// Validate checks the payload shape.
func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Length(0, 255)),
		validation.Field(&r.NewPassword, validation.Length(6, 0), passwordBytes),
	)
}

// UserResponse is the public shape of an account.
type UserResponse struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// NewUserResponse maps a domain user. The password hash never leaves the service.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{Email: u.Email, FullName: u.FullName, Role: string(u.Role)}
}

// StatsResponse is the admin dashboard payload.
type StatsResponse struct {
	Books           int64   `json:"books"`
	Users           int64   `json:"users"`
	Reviews         int64   `json:"reviews"`
	AvgRating       float64 `json:"avgRating"`
	ReviewsLastWeek int64   `json:"reviewsLastWeek"`
	TopGenre        *string `json:"topGenre"`
	TopUser         *string `json:"topUser"`
}

// NewStatsResponse maps domain stats.
func NewStatsResponse(s *domain.Stats) StatsResponse {
	return StatsResponse{
		Books:           s.Books,
		Users:           s.Users,
		Reviews:         s.Reviews,
		AvgRating:       s.AvgRating,
		ReviewsLastWeek: s.ReviewsLastWeek,
		TopGenre:        s.TopGenre,
		TopUser:         s.TopUser,
	}
}
