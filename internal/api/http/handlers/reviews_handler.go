package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/library-service/internal/api/dto"
	"github.com/spec-kit/library-service/internal/auth"
	"github.com/spec-kit/library-service/internal/service"
)

// ReviewsHandler exposes book reviews.
type ReviewsHandler struct {
	reviews *service.ReviewService
}

// NewReviewsHandler constructs handler.
func NewReviewsHandler(reviews *service.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{reviews: reviews}
}

// List handles GET /api/reviews/:bookId.
func (h *ReviewsHandler) List(c *fiber.Ctx) error {
	bookID, err := paramID(c, "bookId")
	if err != nil {
		return err
	}
	reviews, err := h.reviews.List(c.UserContext(), bookID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewReviewList(reviews))
}

// Add handles POST /api/reviews/:bookId.
func (h *ReviewsHandler) Add(c *fiber.Ctx) error {
	bookID, req, err := h.input(c)
	if err != nil {
		return err
	}
	identity, _ := auth.IdentityFromCtx(c)
	review, err := h.reviews.Add(c.UserContext(), identity, bookID, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewReviewResponse(review))
}

// Update handles PUT /api/reviews/:bookId.
func (h *ReviewsHandler) Update(c *fiber.Ctx) error {
	bookID, req, err := h.input(c)
	if err != nil {
		return err
	}
	identity, _ := auth.IdentityFromCtx(c)
	review, err := h.reviews.Update(c.UserContext(), identity, bookID, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewReviewResponse(review))
}

// Delete handles DELETE /api/reviews/:bookId.
func (h *ReviewsHandler) Delete(c *fiber.Ctx) error {
	bookID, err := paramID(c, "bookId")
	if err != nil {
		return err
	}
	identity, _ := auth.IdentityFromCtx(c)
	if err := h.reviews.Delete(c.UserContext(), identity, bookID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *ReviewsHandler) input(c *fiber.Ctx) (int64, dto.ReviewRequest, error) {
	var req dto.ReviewRequest
	bookID, err := paramID(c, "bookId")
	if err != nil {
		return 0, req, err
	}
	if err := parseBody(c, &req); err != nil {
		return 0, req, err
	}
	return bookID, req, nil
}
