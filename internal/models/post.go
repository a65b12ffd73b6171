package models

// PostStatus is the lifecycle state of a food post.
type PostStatus string

const (
	PostStatusActive  PostStatus = "active"
	PostStatusClaimed PostStatus = "claimed"
	PostStatusExpired PostStatus = "expired"
)

// ClaimsSummary is the per-status claim count the backend attaches to the
// owner's posts.
type ClaimsSummary struct {
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// Post is a shareable food listing as returned by the backend.
type Post struct {
	ID                ID             `json:"id"`
	UserID            ID             `json:"user_id,omitempty"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Category          string         `json:"category"`
	Quantity          Text           `json:"quantity"`
	EstimatedWeightKg float64        `json:"estimated_weight_kg"`
	Dietary           DietaryTags    `json:"dietary_json"`
	Location          string         `json:"location"`
	PickupWindowStart Timestamp      `json:"pickup_window_start"`
	PickupWindowEnd   Timestamp      `json:"pickup_window_end"`
	ExpiresAt         Timestamp      `json:"expires_at"`
	Status            PostStatus     `json:"status"`
	OwnerEmail        string         `json:"owner_email"`
	OwnerEmailAlt     string         `json:"ownerEmail,omitempty"`
	ImageURL          string         `json:"image_url,omitempty"`
	CreatedAt         Timestamp      `json:"created_at"`
	ClaimsSummary     *ClaimsSummary `json:"claims_summary,omitempty"`
}

// Owner returns the owner's email from whichever field the backend filled.
func (p Post) Owner() string {
	if p.OwnerEmail != "" {
		return p.OwnerEmail
	}
	return p.OwnerEmailAlt
}

// DisplayTitle falls back to the description when a post has no title.
func (p Post) DisplayTitle() string {
	switch {
	case p.Title != "":
		return p.Title
	case p.Description != "":
		return p.Description
	default:
		return "Untitled Post"
	}
}

// CreatePostRequest is the JSON payload for creating a post. The expiry is
// used both as the end of the pickup window and as the expiry itself.
type CreatePostRequest struct {
	Title           string   `json:"title" form:"title"`
	Description     string   `json:"description" form:"description" validate:"required,max=500"`
	Category        string   `json:"category" form:"category"`
	Quantity        string   `json:"quantity" form:"qty"`
	DietaryTags     []string `json:"dietary_tags" form:"diet"`
	LocationText    string   `json:"location_text" form:"location" validate:"required"`
	PickupWindowEnd string   `json:"pickup_window_end" form:"-"`
	ExpiresAt       string   `json:"expires_at" form:"expiry_time" validate:"required,timestamp"`
}

// Normalize fills the derived fields the way the create form intends: the
// description doubles as the title and the expiry closes the pickup window.
func (r *CreatePostRequest) Normalize() {
	if r.Title == "" {
		r.Title = r.Description
	}
	if r.Category == "" {
		r.Category = "Other"
	}
	if r.DietaryTags == nil {
		r.DietaryTags = []string{}
	}
	r.PickupWindowEnd = r.ExpiresAt
}
