package views

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/anonto42/ecobite/web/internal/aggregator"
	"github.com/anonto42/ecobite/web/internal/models"
)

func itoa(n int) string { return strconv.Itoa(n) }

// ClaimItem is one request nested under a post or listed on the Requests page.
type ClaimItem struct {
	ID            string
	PostID        string
	PostTitle     string
	ClaimerName   string
	ClaimerEmail  string
	Quantity      string
	Message       string
	Status        string
	StatusLabel   string
	Pending       bool
	ApproveURL    string
	RejectURL     string
	CancelURL     string
	Location      string
	Owner         string
	ExpiryLabel   string
	ExpiresPassed bool
}

// MyPostCard is one of the viewer's posts with its requests.
type MyPostCard struct {
	ID           string
	Title        string
	Quantity     string
	Dietary      []string
	Location     string
	Status       string
	ExpiryLabel  string
	Expired      bool
	PendingCount int
	PendingLabel string
	Claims       []ClaimItem
	NoClaims     bool
	DeleteURL    string
}

// MyPostsPage is the My Posts view model.
type MyPostsPage struct {
	Context
	Posts []MyPostCard
	Empty bool
}

// BuildMyPosts pairs each of the viewer's posts with its grouped claims.
func BuildMyPosts(ctx Context, posts []models.Post, claimsByPost map[models.ID][]models.Claim) MyPostsPage {
	ctx.Nav = "myposts"
	page := MyPostsPage{Context: ctx, Posts: make([]MyPostCard, 0, len(posts))}

	for _, p := range posts {
		id := p.ID.String()
		claims := claimsByPost[p.ID]
		pending := aggregator.PendingCount(p, claims)

		quantity := p.Quantity.String()
		if quantity == "" {
			quantity = "1 unit"
		}
		location := p.Location
		if location == "" {
			location = "No location"
		}

		card := MyPostCard{
			ID:           id,
			Title:        p.DisplayTitle(),
			Quantity:     quantity,
			Dietary:      []string(p.Dietary),
			Location:     location,
			Status:       string(p.Status),
			ExpiryLabel:  ExpiryLabel(p.ExpiresAt, ctx.Now),
			Expired:      IsExpired(p.ExpiresAt, ctx.Now),
			PendingCount: pending,
			PendingLabel: PendingLabel(pending),
			Claims:       make([]ClaimItem, 0, len(claims)),
			DeleteURL:    "/myposts/" + url.PathEscape(id) + "/delete",
		}
		for _, c := range claims {
			card.Claims = append(card.Claims, buildClaimItem(ctx, "/myposts", c))
		}
		card.NoClaims = len(card.Claims) == 0
		page.Posts = append(page.Posts, card)
	}
	page.Empty = len(page.Posts) == 0
	return page
}

// PendingLabel is the request-count badge text.
func PendingLabel(n int) string {
	if n == 1 {
		return "1 request"
	}
	return itoa(n) + " requests"
}

// StatusLabel is the badge text for a claim status.
func StatusLabel(s models.ClaimStatus) string {
	switch s.Normalized() {
	case models.ClaimStatusPending:
		return "Pending"
	case models.ClaimStatusAccepted:
		return "Approved"
	case models.ClaimStatusRejected:
		return "Rejected"
	case models.ClaimStatusCancelled:
		return "Cancelled"
	default:
		if s == "" {
			return "Unknown"
		}
		r, size := utf8.DecodeRuneInString(string(s))
		return string(unicode.ToUpper(r)) + string(s[size:])
	}
}

// buildClaimItem renders a claim; decision URLs live under base.
func buildClaimItem(ctx Context, base string, c models.Claim) ClaimItem {
	postID := c.PostID.String()
	claimID := c.ID.String()
	status := c.Status.Normalized()

	name := "Unknown"
	if local, _, _ := strings.Cut(c.ClaimerEmail, "@"); local != "" {
		name = local
	}
	quantity := c.RequestedQuantity.String()
	if quantity == "" {
		quantity = "1"
	}
	title := c.PostTitle
	if title == "" {
		title = "Untitled Post"
	}

	decide := base + "/" + url.PathEscape(postID) + "/claims/" + url.PathEscape(claimID)
	cancel := "/requests/" + url.PathEscape(claimID) + "/cancel"
	if postID != "" {
		cancel += "?" + url.Values{"post": {postID}}.Encode()
	}
	return ClaimItem{
		ID:            claimID,
		PostID:        postID,
		PostTitle:     title,
		ClaimerName:   name,
		ClaimerEmail:  c.ClaimerEmail,
		Quantity:      quantity,
		Message:       c.Message,
		Status:        string(status),
		StatusLabel:   StatusLabel(status),
		Pending:       status.IsPending(),
		ApproveURL:    decide + "/approve",
		RejectURL:     decide + "/reject",
		CancelURL:     cancel,
		Location:      c.Location,
		Owner:         c.OwnerEmail,
		ExpiryLabel:   ExpiryLabel(c.ExpiresAt, ctx.Now),
		ExpiresPassed: IsExpired(c.ExpiresAt, ctx.Now),
	}
}
