package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/library-service/internal/api/dto"
	"github.com/spec-kit/library-service/internal/auth"
	"github.com/spec-kit/library-service/internal/service"
	apperrors "github.com/spec-kit/library-service/pkg/util/errorutil"
)

// AuthHandler exposes register, login, refresh and password reset.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.auth.Register(c.UserContext(), req.Email, req.Password, req.FullName)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, authResponse(res))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, authResponse(res))
}

// Refresh handles POST /api/auth/refresh. The token comes from the bearer
// header, or from a {"token"} body when no header is sent.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token, ok := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		var req dto.RefreshRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return apperrors.NewValidationError("invalid payload", nil)
			}
		}
		token = req.Token
	}
	if token == "" {
		return apperrors.NewInvalidToken()
	}

	res, err := h.auth.Refresh(c.UserContext(), token)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, authResponse(res))
}

// Reset handles POST /api/auth/reset.
func (h *AuthHandler) Reset(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromCtx(c)
	var req dto.ResetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.auth.ResetPassword(c.UserContext(), identity, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"message": "password updated"})
}

func authResponse(res *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{Token: res.Token, Role: string(res.Role), ExpiresAt: res.ExpiresAt}
}
