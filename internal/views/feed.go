package views

import (
	"net/url"
	"strings"

	"github.com/anonto42/ecobite/web/internal/models"
)

// Feed scopes, one per tab.
const (
	ScopeAvailable = "available"
	ScopeClaimed   = "claimed"
	ScopeExpired   = "expired"
)

// Sort orders accepted by the listing endpoint.
const (
	SortNewest     = "newest"
	SortEndingSoon = "endingSoon"
)

// Claim form defaults.
const (
	DefaultClaimQuantity = "1"
	DefaultClaimMessage  = "I would like to pick this up!"
)

// Categories offered by the create form and the feed's type filter.
var Categories = []string{"Produce", "Bakery", "Prepared Meals", "Dairy", "Pantry", "Fruit", "Other"}

// DietaryOptions offered by the create form and the feed's dietary filter.
var DietaryOptions = []string{"Vegan", "Vegetarian", "Halal", "Gluten-Free", "Nut-Free"}

// FeedFilter is the feed state carried in the query string.
type FeedFilter struct {
	Scope   string
	Search  string
	Type    string
	Sort    string
	Dietary string
}

// ParseFeedFilter reads the feed state, normalizing unknown values.
func ParseFeedFilter(q url.Values) FeedFilter {
	f := FeedFilter{
		Scope:   q.Get("scope"),
		Search:  strings.TrimSpace(q.Get("search")),
		Type:    strings.TrimSpace(q.Get("type")),
		Sort:    q.Get("sort"),
		Dietary: strings.TrimSpace(q.Get("dietary")),
	}
	switch f.Scope {
	case ScopeAvailable, ScopeClaimed, ScopeExpired:
	default:
		f.Scope = ScopeAvailable
	}
	if f.Sort != SortEndingSoon {
		f.Sort = SortNewest
	}
	if f.Type == "" {
		f.Type = "all"
	}
	return f
}

// Query encodes the filter back into feed URL parameters, omitting defaults.
func (f FeedFilter) Query() url.Values {
	q := url.Values{}
	if f.Scope != ScopeAvailable {
		q.Set("scope", f.Scope)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Type != "" && f.Type != "all" {
		q.Set("type", f.Type)
	}
	if f.Sort != SortNewest {
		q.Set("sort", f.Sort)
	}
	if f.Dietary != "" {
		q.Set("dietary", f.Dietary)
	}
	return q
}

// URL is the feed link for this filter.
func (f FeedFilter) URL() string {
	if q := f.Query().Encode(); q != "" {
		return "/?" + q
	}
	return "/"
}

// Tab is one scope tab.
type Tab struct {
	Label  string
	URL    string
	Active bool
}

// StatsBar is the summary row above the feed. Values are display strings so
// a failed fetch can show placeholders.
type StatsBar struct {
	Available string
	Shared    string
	Expired   string
	Total     string
	SavedKg   string
}

const placeholder = "—"

// NewStatsBar renders a summary, or placeholders when it is nil.
func NewStatsBar(s *models.StatsSummary) StatsBar {
	if s == nil {
		return StatsBar{placeholder, placeholder, placeholder, placeholder, placeholder}
	}
	return StatsBar{
		Available: itoa(s.Available),
		Shared:    itoa(s.Shared),
		Expired:   itoa(s.Expired),
		Total:     itoa(s.Total),
		SavedKg:   s.SavedKg + "kg",
	}
}

// PostCard is one feed entry.
type PostCard struct {
	ID          string
	Title       string
	Category    string
	Quantity    string
	Location    string
	Owner       string
	Dietary     []string
	Status      string
	Expires     string
	ExpiryLabel string
	Expired     bool
	// CanRequest is set iff the post is active and not the viewer's own.
	CanRequest bool
	ClaimURL   string
}

// FeedPage is the feed view model.
type FeedPage struct {
	Context
	Filter         FeedFilter
	Tabs           []Tab
	Stats          StatsBar
	Cards          []PostCard
	Empty          bool
	Categories     []string
	DietaryOptions []string
	ClaimQuantity  string
	ClaimMessage   string
}

// BuildFeed maps the fetched posts and stats into the feed view model.
func BuildFeed(ctx Context, filter FeedFilter, posts []models.Post, stats *models.StatsSummary) FeedPage {
	ctx.Nav = "feed"
	page := FeedPage{
		Context:        ctx,
		Filter:         filter,
		Stats:          NewStatsBar(stats),
		Cards:          make([]PostCard, 0, len(posts)),
		Categories:     Categories,
		DietaryOptions: DietaryOptions,
		ClaimQuantity:  DefaultClaimQuantity,
		ClaimMessage:   DefaultClaimMessage,
	}

	for _, tab := range []struct{ scope, label string }{
		{ScopeAvailable, "Available"},
		{ScopeClaimed, "Claimed"},
		{ScopeExpired, "Expired"},
	} {
		f := filter
		f.Scope = tab.scope
		page.Tabs = append(page.Tabs, Tab{Label: tab.label, URL: f.URL(), Active: filter.Scope == tab.scope})
	}

	for _, p := range posts {
		page.Cards = append(page.Cards, buildPostCard(ctx, filter, p))
	}
	page.Empty = len(page.Cards) == 0
	return page
}

func buildPostCard(ctx Context, filter FeedFilter, p models.Post) PostCard {
	owner := p.Owner()
	category := p.Category
	if category == "" {
		category = "Other"
	}
	quantity := p.Quantity.String()
	if quantity == "" {
		quantity = "-"
	}
	location := p.Location
	if location == "" {
		location = "-"
	}
	ownerLabel := owner
	if ownerLabel == "" {
		ownerLabel = "Unknown"
	}
	id := p.ID.String()
	return PostCard{
		ID:          id,
		Title:       p.DisplayTitle(),
		Category:    category,
		Quantity:    quantity,
		Location:    location,
		Owner:       ownerLabel,
		Dietary:     []string(p.Dietary),
		Status:      string(p.Status),
		Expires:     FormatDateTime(p.ExpiresAt),
		ExpiryLabel: ExpiryLabel(p.ExpiresAt, ctx.Now),
		Expired:     IsExpired(p.ExpiresAt, ctx.Now),
		CanRequest:  p.Status == models.PostStatusActive && !ctx.Viewer.Owns(owner),
		ClaimURL:    "/posts/" + url.PathEscape(id) + "/claims?" + url.Values{"return": {filter.URL()}}.Encode(),
	}
}
