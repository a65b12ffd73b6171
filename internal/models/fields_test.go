package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/ecobite/web/internal/models"
)

func TestPost_TolerantDecoding(t *testing.T) {
	raw := `{
		"id": 42,
		"title": "",
		"description": "Fresh naan",
		"quantity": 6,
		"dietary_json": "[\"Vegetarian\"]",
		"expires_at": "Tue, 20 Oct 2026 18:30:00 GMT",
		"created_at": "2026-10-18 09:15:00",
		"status": "active",
		"ownerEmail": "alice@example.com"
	}`

	var p models.Post
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, models.ID("42"), p.ID)
	assert.Equal(t, "Fresh naan", p.DisplayTitle())
	assert.Equal(t, "6", p.Quantity.String())
	assert.Equal(t, models.DietaryTags{"Vegetarian"}, p.Dietary)
	assert.Equal(t, "alice@example.com", p.Owner())
	assert.True(t, p.ExpiresAt.Equal(time.Date(2026, 10, 20, 18, 30, 0, 0, time.UTC)))
	assert.True(t, p.CreatedAt.Equal(time.Date(2026, 10, 18, 9, 15, 0, 0, time.UTC)))
}

func TestDietaryTags_MalformedIsEmpty(t *testing.T) {
	for _, raw := range []string{`"not json"`, `42`, `{"a":1}`, `"[1,2"`, `null`} {
		var p models.Post
		require.NoError(t, json.Unmarshal([]byte(`{"dietary_json":`+raw+`}`), &p), raw)
		assert.Empty(t, p.Dietary, raw)
	}

	var p models.Post
	require.NoError(t, json.Unmarshal([]byte(`{"dietary_json":["Vegan","Halal"]}`), &p))
	assert.Equal(t, models.DietaryTags{"Vegan", "Halal"}, p.Dietary)
}

func TestTimestamp_UnknownFormats(t *testing.T) {
	var ts models.Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.True(t, ts.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`12345`), &ts))
	assert.True(t, ts.IsZero())

	_, ok := models.ParseTimestamp("2026-10-20T18:30")
	assert.True(t, ok)
}

func TestClaimStatus_Normalized(t *testing.T) {
	assert.Equal(t, models.ClaimStatusAccepted, models.ClaimStatusApproved.Normalized())
	assert.Equal(t, models.ClaimStatusRejected, models.ClaimStatusRejected.Normalized())
	assert.True(t, models.ClaimStatusPending.IsPending())
}

func TestIdentity(t *testing.T) {
	id := models.Identity{Email: "Alice@Example.com"}
	assert.Equal(t, "Alice", id.DisplayName())
	assert.True(t, id.Owns("Alice@Example.com"))
	assert.False(t, id.Owns("alice@example.com"))
	assert.False(t, id.Owns("bob@example.com"))
	assert.False(t, models.Identity{}.Owns(""))
	assert.Equal(t, "Eco Member", models.Identity{}.DisplayName())
}

func TestCreatePostRequest_Normalize(t *testing.T) {
	req := models.CreatePostRequest{Description: "Rice", ExpiresAt: "2026-10-20T18:30"}
	req.Normalize()
	assert.Equal(t, "Rice", req.Title)
	assert.Equal(t, "Other", req.Category)
	assert.Equal(t, []string{}, req.DietaryTags)
	assert.Equal(t, req.ExpiresAt, req.PickupWindowEnd)
}

func TestSummaryFromGlobal(t *testing.T) {
	s := models.SummaryFromGlobal(models.GlobalStats{
		AvailableNow:         4,
		TotalPosts:           10,
		SuccessfullyShared:   5,
		FoodWastePreventedKg: 6,
	})
	assert.Equal(t, 1, s.Expired)
	assert.Equal(t, "6.0", s.SavedKg)
	assert.Empty(t, s.List)
}
