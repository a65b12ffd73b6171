package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/ecobite/web/internal/testbackend"
)

func TestProfile(t *testing.T) {
	s := newSite(t, "alice@example.com")
	s.backend.AddPost("alice@example.com", testbackend.PostSeed{Title: "a", Status: "claimed"})
	s.backend.AddPost("alice@example.com", testbackend.PostSeed{Title: "b"})
	s.backend.AddPost("alice@example.com", testbackend.PostSeed{Title: "c"})
	s.backend.SetJoinDate("alice@example.com", time.Now().Add(-5*24*time.Hour-time.Hour))

	rec := s.get("/profile")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `<span id="kPosts">3</span>`)
	assert.Contains(t, body, `<span id="kFed">1</span>`)
	assert.Contains(t, body, `<span id="kSaved">1.2kg</span>`)
	assert.Contains(t, body, `<span id="kStreak">5 days</span>`)
	assert.Contains(t, body, `<div id="levelProgress">50/50 pts</div>`)
	assert.Contains(t, body, `<span id="achProgress">1/10</span>`)
}

func TestProfile_StatsUnavailable(t *testing.T) {
	s := newSite(t, "alice@example.com")
	s.backend.Fail(http.MethodGet, "/api/stats/me", testbackend.Failure{Status: http.StatusInternalServerError})

	rec := s.get("/profile")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Stats are unavailable right now.")
	assert.Contains(t, rec.Body.String(), `<span id="kStreak">0 days</span>`)
}

func TestHealth(t *testing.T) {
	s := newSite(t, "alice@example.com")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"ecobite-web"}`, rec.Body.String())
}

func TestPagesRequireIdentity(t *testing.T) {
	s := newSite(t, "")
	for _, path := range []string{"/", "/myposts", "/requests", "/profile", "/create"} {
		assert.Equal(t, http.StatusUnauthorized, s.get(path).Code, path)
	}
	assert.Empty(t, s.backend.Requests())
}
