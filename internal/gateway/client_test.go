package gateway_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/ecobite/web/internal/gateway"
	"github.com/anonto42/ecobite/web/internal/models"
	"github.com/anonto42/ecobite/web/internal/testbackend"
)

func as(email string) context.Context {
	return gateway.WithCredentials(context.Background(), gateway.Credentials{
		Cookie: testbackend.SessionCookie + "=" + email,
	})
}

func TestListPosts_QueryAndDecoding(t *testing.T) {
	backend := testbackend.New(t)
	backend.AddPost("alice@example.com", testbackend.PostSeed{
		Title:    "Sourdough loaves",
		Category: "Bakery",
		Quantity: "3 loaves",
		Dietary:  []string{"Vegan", "Nut-Free"},
	})
	client := gateway.New(backend.URL())

	posts, err := client.ListPosts(as("bob@example.com"), gateway.ListFilter{
		Status: "available",
		Type:   "all",
		Sort:   "newest",
	})
	require.NoError(t, err)
	require.Len(t, posts, 1)

	p := posts[0]
	assert.Equal(t, "Sourdough loaves", p.Title)
	assert.Equal(t, "alice@example.com", p.Owner())
	assert.Equal(t, models.DietaryTags{"Vegan", "Nut-Free"}, p.Dietary)
	assert.Equal(t, models.PostStatusActive, p.Status)
	assert.NotEmpty(t, p.ID.String())

	reqs := backend.RequestsTo(http.MethodGet, "/api/food-posts")
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Query, "status=available")
	assert.Contains(t, reqs[0].Query, "sort=newest")
	assert.NotContains(t, reqs[0].Query, "type=")
	assert.NotContains(t, reqs[0].Query, "search=")
}

func TestCreatePost_ErrorMessages(t *testing.T) {
	longHTML := "<html>\n  <body>\n" + strings.Repeat("Bad   gateway ", 40) + "</body></html>"

	tests := []struct {
		name        string
		failure     testbackend.Failure
		wantMessage string
	}{
		{
			name:        "json error field",
			failure:     testbackend.Failure{Status: http.StatusBadRequest, Body: `{"error":"Title required"}`},
			wantMessage: "Title required",
		},
		{
			name:        "json without error field",
			failure:     testbackend.Failure{Status: http.StatusBadRequest, Body: `{"detail":"nope"}`},
			wantMessage: "failed to create post",
		},
		{
			name:        "empty body",
			failure:     testbackend.Failure{Status: http.StatusInternalServerError},
			wantMessage: "failed to create post",
		},
		{
			name:        "short html body",
			failure:     testbackend.Failure{Status: http.StatusBadGateway, Body: "<h1>Bad\n\tGateway</h1>", ContentType: "text/html"},
			wantMessage: "<h1>Bad Gateway</h1>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := testbackend.New(t)
			backend.Fail(http.MethodPost, "/api/food-posts", tt.failure)
			client := gateway.New(backend.URL())

			_, err := client.CreatePost(as("alice@example.com"), gateway.JSONPost(models.CreatePostRequest{Title: "x"}))
			require.Error(t, err)

			var fe *gateway.FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.failure.Status, fe.StatusCode)
			assert.Equal(t, tt.wantMessage, fe.Message)
			assert.Equal(t, tt.wantMessage, gateway.UserMessage(err))
		})
	}

	t.Run("long html body is truncated", func(t *testing.T) {
		backend := testbackend.New(t)
		backend.Fail(http.MethodPost, "/api/food-posts", testbackend.Failure{
			Status:      http.StatusBadGateway,
			Body:        longHTML,
			ContentType: "text/html",
		})
		client := gateway.New(backend.URL())

		_, err := client.CreatePost(as("alice@example.com"), gateway.JSONPost(models.CreatePostRequest{}))
		var fe *gateway.FetchError
		require.True(t, errors.As(err, &fe))
		assert.True(t, strings.HasPrefix(fe.Message, "<html> <body> Bad gateway Bad gateway"))
		assert.True(t, strings.HasSuffix(fe.Message, "…"))
		assert.Equal(t, 121, utf8.RuneCountInString(fe.Message))
	})
}

func TestDecideClaim_GenericErrors(t *testing.T) {
	backend := testbackend.New(t)
	backend.Fail(http.MethodPatch, "/api/claims/7", testbackend.Failure{
		Status: http.StatusForbidden,
		Body:   `{"error":"Forbidden"}`,
	})
	client := gateway.New(backend.URL())

	err := client.ApproveClaim(as("alice@example.com"), "1", "7")
	require.Error(t, err)
	assert.Equal(t, "failed to approve claim", err.Error())

	err = client.RejectClaim(as("alice@example.com"), "1", "7")
	require.Error(t, err)
	assert.Equal(t, "failed to reject claim", err.Error())

	var fe *gateway.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusForbidden, fe.StatusCode)
}

func TestDecideClaim_SendsStatus(t *testing.T) {
	backend := testbackend.New(t)
	postID := backend.AddPost("alice@example.com", testbackend.PostSeed{Title: "Soup"})
	claimID := backend.AddClaim(postID, "bob@example.com", "1", "", "pending")
	client := gateway.New(backend.URL())

	require.NoError(t, client.ApproveClaim(as("alice@example.com"), models.ID(postID), models.ID(claimID)))

	reqs := backend.RequestsTo(http.MethodPatch, "/api/claims/"+claimID)
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"status":"accepted"}`, string(reqs[0].Body))
	assert.Equal(t, "approved", backend.ClaimStatus(claimID))
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := gateway.New(url)
	_, err := client.MyPosts(context.Background())
	require.Error(t, err)

	var ne *gateway.NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, "list my posts", ne.Op)
	assert.Equal(t, "Could not reach the server. Please try again.", gateway.UserMessage(err))
}

func TestParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>login</html>"))
	}))
	t.Cleanup(srv.Close)

	_, err := gateway.New(srv.URL).ClaimsForMyPosts(context.Background())
	require.Error(t, err)

	var pe *gateway.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestCredentialsAreForwarded(t *testing.T) {
	var gotCookie, gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(srv.Close)

	ctx := gateway.WithCredentials(context.Background(), gateway.Credentials{
		Cookie:      "session=abc",
		BearerToken: "token-123",
	})
	claims, err := gateway.New(srv.URL + "/").MyClaims(ctx)
	require.NoError(t, err)
	assert.Empty(t, claims)

	assert.Equal(t, "session=abc", gotCookie)
	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}
