package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/ecobite/web/internal/gateway"
	"github.com/anonto42/ecobite/web/internal/models"
	"github.com/anonto42/ecobite/web/internal/views"
)

// RequestsHandler renders incoming and outgoing claims
type RequestsHandler struct {
	*Pages
	postService  gateway.PostService
	claimService gateway.ClaimService
}

// NewRequestsHandler creates a new RequestsHandler
func NewRequestsHandler(pages *Pages, posts gateway.PostService, claims gateway.ClaimService) *RequestsHandler {
	return &RequestsHandler{Pages: pages, postService: posts, claimService: claims}
}

// RegisterRequestsRoutes registers request-related routes
func (h *RequestsHandler) RegisterRequestsRoutes(g *echo.Group) {
	g.GET("/requests", h.GetRequests)
	g.POST("/requests/:postID/claims/:claimID/approve", h.ApproveClaim)
	g.POST("/requests/:postID/claims/:claimID/reject", h.RejectClaim)
	g.GET("/requests/:claimID/cancel", h.ConfirmCancel)
	g.POST("/requests/:claimID/cancel", h.CancelClaim)
}

// GetRequests fetches both sections independently; either may fail alone.
func (h *RequestsHandler) GetRequests(c echo.Context) error {
	ctx := c.Request().Context()

	incoming, err := h.claimService.ClaimsForMyPosts(ctx)
	if err != nil {
		h.logger.Warn("loading incoming requests failed", "error", err, "request_id", requestID(c))
		incoming = nil
	}

	mine, err := h.claimService.MyClaims(ctx)
	if err != nil {
		h.logger.Warn("loading my requests failed", "error", err, "request_id", requestID(c))
		mine = nil
	}

	return c.Render(http.StatusOK, "requests", views.BuildRequests(h.viewContext(c), incoming, mine))
}

// ApproveClaim accepts an incoming claim and re-renders Requests.
func (h *RequestsHandler) ApproveClaim(c echo.Context) error {
	postID, claimID := models.ID(c.Param("postID")), models.ID(c.Param("claimID"))
	if err := h.claimService.ApproveClaim(c.Request().Context(), postID, claimID); err != nil {
		return h.fail(c, "/requests", "approve claim", err)
	}
	return seeOther(c, "/requests")
}

// RejectClaim rejects an incoming claim and re-renders Requests.
func (h *RequestsHandler) RejectClaim(c echo.Context) error {
	postID, claimID := models.ID(c.Param("postID")), models.ID(c.Param("claimID"))
	if err := h.claimService.RejectClaim(c.Request().Context(), postID, claimID); err != nil {
		return h.fail(c, "/requests", "reject claim", err)
	}
	return seeOther(c, "/requests")
}

// ConfirmCancel asks before withdrawing a claim. The claimed post, named by
// the post query param, is shown when it can be loaded.
func (h *RequestsHandler) ConfirmCancel(c echo.Context) error {
	var post *models.Post
	if postID := c.QueryParam("post"); postID != "" {
		p, err := h.postService.GetPost(c.Request().Context(), models.ID(postID))
		if err != nil {
			h.logger.Warn("loading claimed post failed", "error", err, "post_id", postID, "request_id", requestID(c))
		} else {
			post = p
		}
	}
	return c.Render(http.StatusOK, "cancel_confirm", views.BuildCancel(h.viewContext(c), c.Param("claimID"), post))
}

// CancelClaim withdraws the claim only when the confirmation was accepted.
func (h *RequestsHandler) CancelClaim(c echo.Context) error {
	if c.FormValue("confirm") != "yes" {
		return seeOther(c, "/requests")
	}
	if err := h.claimService.CancelClaim(c.Request().Context(), models.ID(c.Param("claimID"))); err != nil {
		return h.fail(c, "/requests", "cancel claim", err)
	}
	return h.succeed(c, "/requests", "Request cancelled.")
}
