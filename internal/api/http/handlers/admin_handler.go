package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/library-service/internal/api/dto"
	"github.com/spec-kit/library-service/internal/observability"
	"github.com/spec-kit/library-service/internal/service"
)

// AdminHandler exposes dashboard figures and request metrics.
type AdminHandler struct {
	stats   *service.StatsService
	metrics *observability.Metrics
}

// NewAdminHandler constructs handler.
func NewAdminHandler(stats *service.StatsService, metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{stats: stats, metrics: metrics}
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	st, err := h.stats.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewStatsResponse(st))
}

// StatsExtended handles GET /api/admin/stats/extended.
func (h *AdminHandler) StatsExtended(c *fiber.Ctx) error {
	st, err := h.stats.Extended(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, st)
}

// Metrics handles GET /metrics.
func (h *AdminHandler) Metrics(c *fiber.Ctx) error {
	return respond(c, http.StatusOK, h.metrics.Snapshot())
}
