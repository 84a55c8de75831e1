package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/library-service/internal/api/dto"
	"github.com/spec-kit/library-service/internal/auth"
	"github.com/spec-kit/library-service/internal/service"
)

// LibraryHandler exposes the caller's favorites and reading history.
type LibraryHandler struct {
	favorites *service.FavoriteService
	history   *service.HistoryService
}

// NewLibraryHandler constructs handler.
func NewLibraryHandler(favorites *service.FavoriteService, history *service.HistoryService) *LibraryHandler {
	return &LibraryHandler{favorites: favorites, history: history}
}

// Favorites handles GET /api/favorites.
func (h *LibraryHandler) Favorites(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromCtx(c)
	books, err := h.favorites.List(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewBookList(books))
}

// AddFavorite handles POST /api/favorites?bookId.
func (h *LibraryHandler) AddFavorite(c *fiber.Ctx) error {
	bookID, err := queryID(c, "bookId")
	if err != nil {
		return err
	}
	identity, _ := auth.IdentityFromCtx(c)
	if err := h.favorites.Add(c.UserContext(), identity, bookID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"message": "added to favorites"})
}

// RemoveFavorite handles DELETE /api/favorites?bookId.
func (h *LibraryHandler) RemoveFavorite(c *fiber.Ctx) error {
	bookID, err := queryID(c, "bookId")
	if err != nil {
		return err
	}
	identity, _ := auth.IdentityFromCtx(c)
	if err := h.favorites.Remove(c.UserContext(), identity, bookID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"message": "removed from favorites"})
}

// History handles GET /api/history.
func (h *LibraryHandler) History(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromCtx(c)
	books, err := h.history.List(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewBookList(books))
}
