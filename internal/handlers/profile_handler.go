package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/ecobite/web/internal/gateway"
	"github.com/anonto42/ecobite/web/internal/views"
)

// ProfileHandler renders the viewer's profile and impact stats
type ProfileHandler struct {
	*Pages
	statsService gateway.StatsService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(pages *Pages, stats gateway.StatsService) *ProfileHandler {
	return &ProfileHandler{Pages: pages, statsService: stats}
}

// RegisterProfileRoutes registers profile routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
}

// GetProfile renders the profile; stats are best-effort.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	stats, err := h.statsService.MyStats(c.Request().Context())
	if err != nil {
		h.logger.Warn("loading profile stats failed", "error", err, "request_id", requestID(c))
		stats = nil
	}
	return c.Render(http.StatusOK, "profile", views.BuildProfile(h.viewContext(c), stats))
}
