package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/ecobite/web/internal/testbackend"
)

func TestMyPosts_GroupsClaimsPerPost(t *testing.T) {
	s := newSite(t, "alice@example.com")
	rice := s.backend.AddPost("alice@example.com", testbackend.PostSeed{Title: "Rice", Dietary: []string{"Halal"}})
	bread := s.backend.AddPost("alice@example.com", testbackend.PostSeed{Title: "Bread"})
	s.backend.AddPost("carol@example.com", testbackend.PostSeed{Title: "Not mine"})
	s.backend.AddClaim(rice, "bob@example.com", "2", "", "pending")
	s.backend.AddClaim(rice, "dave@example.com", "1", "Please", "pending")

	rec := s.get("/myposts")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Equal(t, 2, strings.Count(body, `class="my-post-card"`))
	assert.NotContains(t, body, "Not mine")
	assert.Contains(t, body, `<span class="req-count-badge">2 requests</span>`)
	assert.Contains(t, body, `<span class="req-count-badge zero">0 requests</span>`)
	assert.Contains(t, body, "No requests yet")
	assert.Contains(t, body, `<span class="diet-tag">Halal</span>`)
	assert.Contains(t, body, "/myposts/"+rice+"/claims/")
	assert.Equal(t, 2, strings.Count(body, ">Approve</button>"))
	assert.NotContains(t, body, "/myposts/"+bread+"/claims/")
}

func TestMyPosts_ApproveThenRefetch(t *testing.T) {
	s := newSite(t, "alice@example.com")
	post := s.backend.AddPost("alice@example.com", testbackend.PostSeed{Title: "Rice"})
	claim := s.backend.AddClaim(post, "bob@example.com", "2", "", "pending")

	rec := s.post("/myposts/"+post+"/claims/"+claim+"/approve", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/myposts", rec.Header().Get("Location"))
	require.Len(t, s.backend.RequestsTo(http.MethodPatch, "/api/claims/"+claim), 1)
	assert.Equal(t, "approved", s.backend.ClaimStatus(claim))

	body := s.get("/myposts").Body.String()
	assert.Contains(t, body, `<span class="req-status accepted">Approved</span>`)
	assert.NotContains(t, body, ">Approve</button>")
	assert.Contains(t, body, "Status: claimed")
}

func TestMyPosts_RejectFailureShowsGenericMessage(t *testing.T) {
	s := newSite(t, "alice@example.com")
	post := s.backend.AddPost("alice@example.com", testbackend.PostSeed{Title: "Rice"})
	claim := s.backend.AddClaim(post, "bob@example.com", "2", "", "pending")
	s.backend.Fail(http.MethodPatch, "/api/claims/"+claim, testbackend.Failure{
		Status: http.StatusInternalServerError,
		Body:   `{"error":"sqlite locked"}`,
	})

	rec := s.post("/myposts/"+post+"/claims/"+claim+"/reject", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	body := s.get("/myposts").Body.String()
	assert.Contains(t, body, "failed to reject claim")
	assert.NotContains(t, body, "sqlite locked")
	assert.Contains(t, body, ">Reject</button>")
}

func TestMyPosts_Delete(t *testing.T) {
	s := newSite(t, "alice@example.com")
	post := s.backend.AddPost("alice@example.com", testbackend.PostSeed{Title: "Rice"})

	rec := s.post("/myposts/"+post+"/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, s.backend.RequestsTo(http.MethodDelete, "/api/food-posts/"+post), 1)

	body := s.get("/myposts").Body.String()
	assert.Contains(t, body, "Post deleted.")
	assert.Contains(t, body, `<p id="emptyMyPosts" class="empty">`)
}
