// Package aggregator derives the transient indexes and summaries the views
// need from raw gateway responses. Nothing here is cached across requests.
package aggregator

import "github.com/anonto42/ecobite/web/internal/models"

// GroupByPost indexes claims by post id. Claims keep the server's order inside
// each group. The map is built fresh on every call.
func GroupByPost(claims []models.Claim) map[models.ID][]models.Claim {
	grouped := make(map[models.ID][]models.Claim)
	for _, c := range claims {
		grouped[c.PostID] = append(grouped[c.PostID], c)
	}
	return grouped
}

// PendingCount returns the pending claims for a post, preferring the backend's
// claims_summary and falling back to counting the grouped claims.
func PendingCount(post models.Post, claims []models.Claim) int {
	if post.ClaimsSummary != nil {
		return post.ClaimsSummary.Pending
	}
	n := 0
	for _, c := range claims {
		if c.Status.IsPending() {
			n++
		}
	}
	return n
}
