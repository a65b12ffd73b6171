package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/anonto42/ecobite/web/internal/models"
)

// ClaimService defines the claim operations the view controllers depend on.
type ClaimService interface {
	ClaimPost(ctx context.Context, postID models.ID, req models.ClaimRequest) (*models.Claim, error)
	ApproveClaim(ctx context.Context, postID, claimID models.ID) error
	RejectClaim(ctx context.Context, postID, claimID models.ID) error
	CancelClaim(ctx context.Context, claimID models.ID) error
	ClaimsForMyPosts(ctx context.Context) ([]models.Claim, error)
	MyClaims(ctx context.Context) ([]models.Claim, error)
}

// ClaimPost creates a pending claim against a post.
func (c *Client) ClaimPost(ctx context.Context, postID models.ID, req models.ClaimRequest) (*models.Claim, error) {
	body, err := jsonBody("claim post", req)
	if err != nil {
		return nil, err
	}
	var claim models.Claim
	err = c.do(ctx, call{
		op:          "claim post",
		method:      http.MethodPost,
		path:        "/food-posts/" + url.PathEscape(postID.String()) + "/claims",
		body:        body,
		contentType: "application/json",
		fallback:    "failed to claim post",
	}, &claim)
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

// ApproveClaim moves a claim to accepted. postID is kept for symmetry with
// the owner's view; the backend addresses claims by id alone.
func (c *Client) ApproveClaim(ctx context.Context, postID, claimID models.ID) error {
	return c.decide(ctx, claimID, models.ClaimStatusAccepted, "approve claim", "failed to approve claim")
}

// RejectClaim moves a claim to rejected.
func (c *Client) RejectClaim(ctx context.Context, postID, claimID models.ID) error {
	return c.decide(ctx, claimID, models.ClaimStatusRejected, "reject claim", "failed to reject claim")
}

func (c *Client) decide(ctx context.Context, claimID models.ID, status models.ClaimStatus, op, fallback string) error {
	body, err := jsonBody(op, models.ClaimDecision{Status: status})
	if err != nil {
		return err
	}
	return c.do(ctx, call{
		op:          op,
		method:      http.MethodPatch,
		path:        "/claims/" + url.PathEscape(claimID.String()),
		body:        body,
		contentType: "application/json",
		fallback:    fallback,
		generic:     true,
	}, nil)
}

// CancelClaim withdraws one of the viewer's pending claims.
func (c *Client) CancelClaim(ctx context.Context, claimID models.ID) error {
	return c.do(ctx, call{
		op:       "cancel claim",
		method:   http.MethodPatch,
		path:     "/claims/" + url.PathEscape(claimID.String()) + "/cancel",
		fallback: "failed to cancel request",
	}, nil)
}

// ClaimsForMyPosts lists claims made against the viewer's posts.
func (c *Client) ClaimsForMyPosts(ctx context.Context) ([]models.Claim, error) {
	var claims []models.Claim
	err := c.do(ctx, call{
		op:       "list incoming claims",
		method:   http.MethodGet,
		path:     "/claims/for-my-posts",
		fallback: "failed to fetch requests",
	}, &claims)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// MyClaims lists the claims the viewer has made.
func (c *Client) MyClaims(ctx context.Context) ([]models.Claim, error) {
	var claims []models.Claim
	err := c.do(ctx, call{
		op:       "list my claims",
		method:   http.MethodGet,
		path:     "/claims/mine",
		fallback: "failed to fetch your requests",
	}, &claims)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
