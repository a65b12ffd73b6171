package gateway_test

import (
	"bytes"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/ecobite/web/internal/gateway"
	"github.com/anonto42/ecobite/web/internal/models"
	"github.com/anonto42/ecobite/web/internal/testbackend"
)

func TestCreatePost_JSON(t *testing.T) {
	backend := testbackend.New(t)
	client := gateway.New(backend.URL())

	req := models.CreatePostRequest{
		Description:  "Leftover biryani",
		Quantity:     "2 trays",
		DietaryTags:  []string{"Halal"},
		LocationText: "Mirpur 10",
		ExpiresAt:    time.Now().Add(48 * time.Hour).UTC().Format("2006-01-02T15:04"),
	}
	req.Normalize()

	post, err := client.CreatePost(as("alice@example.com"), gateway.JSONPost(req))
	require.NoError(t, err)
	assert.Equal(t, "Leftover biryani", post.Title)
	assert.Equal(t, "Other", post.Category)
	assert.Equal(t, models.DietaryTags{"Halal"}, post.Dietary)

	reqs := backend.RequestsTo(http.MethodPost, "/api/food-posts")
	require.Len(t, reqs, 1)
	assert.Equal(t, "application/json", reqs[0].ContentType)
	assert.Contains(t, string(reqs[0].Body), `"pickup_window_end":"`+req.ExpiresAt+`"`)
}

func TestCreatePost_Multipart(t *testing.T) {
	backend := testbackend.New(t)
	client := gateway.New(backend.URL())

	expiry := time.Now().Add(24 * time.Hour).UTC().Format("2006-01-02T15:04")
	payload := gateway.MultipartPost{
		Fields: url.Values{
			"title":       {"Bagels"},
			"description": {"A dozen bagels"},
			"qty":         {"12"},
			"location":    {"Gulshan 2"},
			"expiry_time": {expiry},
			"diet":        {"Vegan", "Vegetarian"},
		},
		Image: &gateway.ImagePart{
			Filename:    "bagels.jpg",
			ContentType: "image/jpeg",
			Content:     strings.NewReader("\xff\xd8\xff fake jpeg"),
		},
	}

	post, err := client.CreatePost(as("alice@example.com"), payload)
	require.NoError(t, err)
	assert.Equal(t, "Bagels", post.Title)
	assert.Equal(t, models.DietaryTags{"Vegan", "Vegetarian"}, post.Dietary)

	reqs := backend.RequestsTo(http.MethodPost, "/api/food-posts")
	require.Len(t, reqs, 1)
	mediaType, params, err := mime.ParseMediaType(reqs[0].ContentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	form, err := multipart.NewReader(bytes.NewReader(reqs[0].Body), params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vegan", "Vegetarian"}, form.Value["diet"])
	require.Len(t, form.File["photo"], 1)
	assert.Equal(t, "bagels.jpg", form.File["photo"][0].Filename)
}

func TestMyPostsAndDelete(t *testing.T) {
	backend := testbackend.New(t)
	mine := backend.AddPost("alice@example.com", testbackend.PostSeed{Title: "Apples"})
	backend.AddPost("carol@example.com", testbackend.PostSeed{Title: "Pears"})
	backend.AddClaim(mine, "bob@example.com", "2", "", "pending")
	client := gateway.New(backend.URL())

	posts, err := client.MyPosts(as("alice@example.com"))
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.NotNil(t, posts[0].ClaimsSummary)
	assert.Equal(t, 1, posts[0].ClaimsSummary.Pending)

	got, err := client.GetPost(as("alice@example.com"), models.ID(mine))
	require.NoError(t, err)
	assert.Equal(t, "Apples", got.Title)

	confirmation, err := client.DeletePost(as("alice@example.com"), models.ID(mine))
	require.NoError(t, err)
	assert.Equal(t, true, confirmation["success"])

	_, err = client.GetPost(as("alice@example.com"), models.ID(mine))
	require.Error(t, err)
	assert.Equal(t, "Post not found", gateway.UserMessage(err))
}

func TestListFilter_Query(t *testing.T) {
	q := gateway.ListFilter{Status: "expired", Search: "  rice ", Type: "Bakery", Sort: "endingSoon", Dietary: "Vegan"}.Query()
	assert.Equal(t, "expired", q.Get("status"))
	assert.Equal(t, "rice", q.Get("search"))
	assert.Equal(t, "Bakery", q.Get("type"))
	assert.Equal(t, "endingSoon", q.Get("sort"))
	assert.Equal(t, "Vegan", q.Get("dietary"))

	assert.Empty(t, gateway.ListFilter{Type: "All"}.Query())
}
