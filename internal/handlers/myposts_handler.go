package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/ecobite/web/internal/aggregator"
	"github.com/anonto42/ecobite/web/internal/gateway"
	"github.com/anonto42/ecobite/web/internal/models"
	"github.com/anonto42/ecobite/web/internal/views"
)

// MyPostsHandler renders the viewer's posts with the requests made on them
type MyPostsHandler struct {
	*Pages
	postService  gateway.PostService
	claimService gateway.ClaimService
}

// NewMyPostsHandler creates a new MyPostsHandler
func NewMyPostsHandler(pages *Pages, posts gateway.PostService, claims gateway.ClaimService) *MyPostsHandler {
	return &MyPostsHandler{Pages: pages, postService: posts, claimService: claims}
}

// RegisterMyPostsRoutes registers my-posts routes
func (h *MyPostsHandler) RegisterMyPostsRoutes(g *echo.Group) {
	g.GET("/myposts", h.GetMyPosts)
	g.POST("/myposts/:postID/claims/:claimID/approve", h.ApproveClaim)
	g.POST("/myposts/:postID/claims/:claimID/reject", h.RejectClaim)
	g.POST("/myposts/:postID/delete", h.DeletePost)
}

// GetMyPosts groups the incoming claims by post, then lists the viewer's posts.
// The grouping lives only for this render.
func (h *MyPostsHandler) GetMyPosts(c echo.Context) error {
	ctx := c.Request().Context()

	claims, err := h.claimService.ClaimsForMyPosts(ctx)
	if err != nil {
		h.logger.Warn("loading claims for my posts failed", "error", err, "request_id", requestID(c))
		claims = nil
	}
	byPost := aggregator.GroupByPost(claims)

	posts, err := h.postService.MyPosts(ctx)
	if err != nil {
		h.logger.Warn("loading my posts failed", "error", err, "request_id", requestID(c))
		posts = nil
	}

	return c.Render(http.StatusOK, "myposts", views.BuildMyPosts(h.viewContext(c), posts, byPost))
}

// ApproveClaim accepts a pending claim and re-renders My Posts.
func (h *MyPostsHandler) ApproveClaim(c echo.Context) error {
	postID, claimID := models.ID(c.Param("postID")), models.ID(c.Param("claimID"))
	if err := h.claimService.ApproveClaim(c.Request().Context(), postID, claimID); err != nil {
		return h.fail(c, "/myposts", "approve claim", err)
	}
	return seeOther(c, "/myposts")
}

// RejectClaim rejects a pending claim and re-renders My Posts.
func (h *MyPostsHandler) RejectClaim(c echo.Context) error {
	postID, claimID := models.ID(c.Param("postID")), models.ID(c.Param("claimID"))
	if err := h.claimService.RejectClaim(c.Request().Context(), postID, claimID); err != nil {
		return h.fail(c, "/myposts", "reject claim", err)
	}
	return seeOther(c, "/myposts")
}

// DeletePost removes one of the viewer's posts.
func (h *MyPostsHandler) DeletePost(c echo.Context) error {
	if _, err := h.postService.DeletePost(c.Request().Context(), models.ID(c.Param("postID"))); err != nil {
		return h.fail(c, "/myposts", "delete post", err)
	}
	return h.succeed(c, "/myposts", "Post deleted.")
}
