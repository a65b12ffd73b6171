package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/ecobite/web/internal/aggregator"
	"github.com/anonto42/ecobite/web/internal/gateway"
	"github.com/anonto42/ecobite/web/internal/models"
	"github.com/anonto42/ecobite/web/internal/views"
)

// FeedHandler renders the feed and accepts claim requests from it
type FeedHandler struct {
	*Pages
	postService  gateway.PostService
	claimService gateway.ClaimService
	stats        *aggregator.StatsSource
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(pages *Pages, posts gateway.PostService, claims gateway.ClaimService, stats *aggregator.StatsSource) *FeedHandler {
	return &FeedHandler{
		Pages:        pages,
		postService:  posts,
		claimService: claims,
		stats:        stats,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/", h.GetFeed)
	g.GET("/feed", h.GetFeed)
	g.POST("/posts/:id/claims", h.ClaimPost)
}

// GetFeed renders the posts for the current scope and filters. Stats and the
// listing are best-effort: failures are logged and the page renders without them.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	ctx := c.Request().Context()
	filter := views.ParseFeedFilter(c.QueryParams())

	summary, err := h.stats.Summary(ctx)
	if err != nil {
		h.logger.Warn("feed stats unavailable", "error", err, "request_id", requestID(c))
		summary = nil
	}

	posts, err := h.postService.ListPosts(ctx, gateway.ListFilter{
		Status:  filter.Scope,
		Search:  filter.Search,
		Type:    filter.Type,
		Sort:    filter.Sort,
		Dietary: filter.Dietary,
	})
	if err != nil {
		h.logger.Warn("feed listing failed", "error", err, "scope", filter.Scope, "request_id", requestID(c))
		posts = nil
	}

	return c.Render(http.StatusOK, "feed", views.BuildFeed(h.viewContext(c), filter, posts, summary))
}

// ClaimPost submits a claim from the feed's inline request form. An empty
// quantity cancels the request without contacting the backend.
func (h *FeedHandler) ClaimPost(c echo.Context) error {
	back := safeReturn(c.QueryParam("return"), "/")

	var req models.ClaimRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.RequestedQuantity = strings.TrimSpace(req.RequestedQuantity)
	if req.RequestedQuantity == "" {
		return seeOther(c, back)
	}

	postID := models.ID(c.Param("id"))
	if _, err := h.claimService.ClaimPost(c.Request().Context(), postID, req); err != nil {
		return h.fail(c, back, "claim post", err)
	}
	return h.succeed(c, back, "Request sent!")
}
