package models

// GlobalStats is the payload of the dedicated global stats endpoint.
type GlobalStats struct {
	AvailableNow         int     `json:"available_now"`
	TotalPosts           int     `json:"total_posts"`
	SuccessfullyShared   int     `json:"successfully_shared"`
	FoodWastePreventedKg float64 `json:"food_waste_prevented_kg"`
}

// StatsSummary is the derived aggregate shown above the feed. It is computed
// on every render and never stored.
type StatsSummary struct {
	Available int
	Shared    int
	Expired   int
	Total     int
	SavedKg   string
	// List holds available ++ claimed ++ expired when the summary was built by
	// the client-side fallback; it is empty for endpoint-backed summaries.
	List []Post
}

// SummaryFromGlobal converts the endpoint payload into a summary.
func SummaryFromGlobal(g GlobalStats) StatsSummary {
	return StatsSummary{
		Available: g.AvailableNow,
		Shared:    g.SuccessfullyShared,
		Expired:   g.TotalPosts - g.AvailableNow - g.SuccessfullyShared,
		Total:     g.TotalPosts,
		SavedKg:   FormatKg(g.FoodWastePreventedKg),
	}
}

// UserStats is the per-user aggregate behind the profile page.
type UserStats struct {
	PostsCreated   int       `json:"posts_created"`
	PostsShared    int       `json:"posts_shared"`
	WeightSharedKg float64   `json:"weight_shared_kg"`
	ClaimsMade     int       `json:"claims_made"`
	ClaimsAccepted int       `json:"claims_accepted"`
	ClaimsRejected int       `json:"claims_rejected"`
	JoinDate       Timestamp `json:"join_date"`
}
