package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/library-service/internal/api/dto"
	"github.com/spec-kit/library-service/internal/auth"
	"github.com/spec-kit/library-service/internal/service"
)

// UsersHandler exposes the caller's own profile.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Me handles GET /api/users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromCtx(c)
	user, err := h.users.Me(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewUserResponse(user))
}

// Update handles POST /api/users/update.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	identity, _ := auth.IdentityFromCtx(c)
	user, err := h.users.UpdateProfile(c.UserContext(), identity, service.ProfileUpdate{
		FullName:    req.FullName,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewUserResponse(user))
}

// Delete handles DELETE /api/users/delete.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromCtx(c)
	if err := h.users.DeleteAccount(c.UserContext(), identity); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"message": "account deleted"})
}
