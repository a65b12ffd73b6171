package models

// ClaimStatus is the server-authoritative state of a claim:
// pending -> accepted | rejected | cancelled.
type ClaimStatus string

const (
	ClaimStatusPending   ClaimStatus = "pending"
	ClaimStatusAccepted  ClaimStatus = "accepted"
	ClaimStatusApproved  ClaimStatus = "approved"
	ClaimStatusRejected  ClaimStatus = "rejected"
	ClaimStatusCancelled ClaimStatus = "cancelled"
)

// Normalized folds the backend's "approved" spelling into "accepted".
func (s ClaimStatus) Normalized() ClaimStatus {
	if s == ClaimStatusApproved {
		return ClaimStatusAccepted
	}
	return s
}

// IsPending reports whether the claim still awaits the owner's decision.
func (s ClaimStatus) IsPending() bool { return s == ClaimStatusPending }

// Claim is a request against a post. The denormalized post fields are joined
// in by the backend on the listing endpoints.
type Claim struct {
	ID                ID          `json:"id"`
	PostID            ID          `json:"post_id"`
	ClaimerID         ID          `json:"claimer_id,omitempty"`
	ClaimerEmail      string      `json:"claimer_email"`
	RequestedQuantity Text        `json:"requested_quantity"`
	Message           string      `json:"message"`
	Status            ClaimStatus `json:"status"`
	CreatedAt         Timestamp   `json:"created_at"`

	PostTitle  string    `json:"post_title,omitempty"`
	Location   string    `json:"location,omitempty"`
	ExpiresAt  Timestamp `json:"expires_at"`
	OwnerEmail string    `json:"owner_email,omitempty"`
}

// ClaimRequest is the body of a new claim.
type ClaimRequest struct {
	RequestedQuantity string `json:"requested_quantity" form:"qty"`
	Message           string `json:"message" form:"message"`
}

// ClaimDecision is the partial update an owner sends to accept or reject.
type ClaimDecision struct {
	Status ClaimStatus `json:"status"`
}
