package views

import (
	"net/url"

	"github.com/anonto42/ecobite/web/internal/models"
)

// RequestsPage is the Requests view model: incoming claims on the viewer's
// posts, and the viewer's own claims split into pending and history.
type RequestsPage struct {
	Context
	Incoming   []ClaimItem
	NoIncoming bool
	Pending    []ClaimItem
	NoPending  bool
	History    []ClaimItem
	NoHistory  bool
}

// BuildRequests builds both sections. The viewer's claims are fetched once and
// split here: pending claims stay cancelable, everything else is history.
func BuildRequests(ctx Context, incoming, mine []models.Claim) RequestsPage {
	ctx.Nav = "requests"
	page := RequestsPage{
		Context:  ctx,
		Incoming: make([]ClaimItem, 0, len(incoming)),
		Pending:  []ClaimItem{},
		History:  []ClaimItem{},
	}
	for _, c := range incoming {
		page.Incoming = append(page.Incoming, buildClaimItem(ctx, "/requests", c))
	}
	for _, c := range mine {
		item := buildClaimItem(ctx, "/requests", c)
		if item.Pending {
			page.Pending = append(page.Pending, item)
		} else {
			page.History = append(page.History, item)
		}
	}
	page.NoIncoming = len(page.Incoming) == 0
	page.NoPending = len(page.Pending) == 0
	page.NoHistory = len(page.History) == 0
	return page
}

// CancelPage asks the viewer to confirm withdrawing a claim. The post fields
// are empty when the claimed post could not be loaded.
type CancelPage struct {
	Context
	ClaimID     string
	Prompt      string
	ActionURL   string
	PostTitle   string
	Location    string
	ExpiryLabel string
}

// BuildCancel builds the cancel confirmation page. post may be nil.
func BuildCancel(ctx Context, claimID string, post *models.Post) CancelPage {
	ctx.Nav = "requests"
	page := CancelPage{
		Context:   ctx,
		ClaimID:   claimID,
		Prompt:    "Cancel this request?",
		ActionURL: "/requests/" + url.PathEscape(claimID) + "/cancel",
	}
	if post != nil {
		page.PostTitle = post.DisplayTitle()
		page.Location = post.Location
		if page.Location == "" {
			page.Location = "No location"
		}
		page.ExpiryLabel = ExpiryLabel(post.ExpiresAt, ctx.Now)
	}
	return page
}
