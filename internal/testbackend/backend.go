// Package testbackend is an in-memory stand-in for the EcoBite REST backend.
// It speaks the same JSON shapes (integer ids, dietary_json as an encoded
// string, HTTP-date timestamps) and records every request it receives.
package testbackend

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// SessionCookie is the cookie the fake backend reads the caller's email from.
const SessionCookie = "session"

// Request is one recorded call.
type Request struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	Body        []byte
}

// Failure is a canned error response for a route.
type Failure struct {
	Status      int
	Body        string
	ContentType string
}

// PostSeed describes a post to preload.
type PostSeed struct {
	Title       string
	Description string
	Category    string
	Quantity    string
	Dietary     []string
	Location    string
	ExpiresAt   time.Time
	Status      string
}

type post struct {
	id          int
	owner       string
	title       string
	description string
	category    string
	quantity    string
	weightKg    float64
	dietaryJSON string
	location    string
	expiresAt   time.Time
	status      string
	imageName   string
	createdAt   time.Time
}

type claim struct {
	id        int
	postID    int
	claimer   string
	quantity  string
	message   string
	status    string
	createdAt time.Time
}

// Backend is the fake server.
type Backend struct {
	Server *httptest.Server

	mu          sync.Mutex
	seq         int
	posts       []*post
	claims      []*claim
	requests    []Request
	failures    map[string]Failure
	globalStats bool
	joinDates   map[string]time.Time
}

// New starts a fake backend that is closed when the test ends.
func New(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		failures:    map[string]Failure{},
		globalStats: true,
		joinDates:   map[string]time.Time{},
	}
	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the backend's base URL.
func (b *Backend) URL() string { return b.Server.URL }

// DisableGlobalStats makes /api/stats/global answer 404.
func (b *Backend) DisableGlobalStats() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.globalStats = false
}

// Fail makes every call to "METHOD /path" answer with f until cleared.
func (b *Backend) Fail(method, path string, f Failure) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = f
}

// ClearFailures removes all canned failures.
func (b *Backend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = map[string]Failure{}
}

// SetJoinDate sets the join date reported by /api/stats/me.
func (b *Backend) SetJoinDate(email string, at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.joinDates[email] = at
}

// AddPost preloads a post owned by owner and returns its id.
func (b *Backend) AddPost(owner string, seed PostSeed) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	dietary, _ := json.Marshal(nonNil(seed.Dietary))
	status := seed.Status
	if status == "" {
		status = "active"
	}
	b.seq++
	p := &post{
		id:          b.seq,
		owner:       owner,
		title:       seed.Title,
		description: seed.Description,
		category:    seed.Category,
		quantity:    seed.Quantity,
		dietaryJSON: string(dietary),
		location:    seed.Location,
		expiresAt:   seed.ExpiresAt,
		status:      status,
		createdAt:   time.Now().Add(time.Duration(b.seq) * time.Millisecond),
	}
	b.posts = append(b.posts, p)
	return strconv.Itoa(p.id)
}

// AddClaim preloads a claim by claimer on postID and returns its id.
func (b *Backend) AddClaim(postID, claimer, quantity, message, status string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	pid, _ := strconv.Atoi(postID)
	if status == "" {
		status = "pending"
	}
	b.seq++
	c := &claim{
		id:        b.seq,
		postID:    pid,
		claimer:   claimer,
		quantity:  quantity,
		message:   message,
		status:    status,
		createdAt: time.Now(),
	}
	b.claims = append(b.claims, c)
	return strconv.Itoa(c.id)
}

// Requests returns a copy of every recorded request.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// RequestsTo returns recorded requests matching method and path.
func (b *Backend) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// ClaimStatus returns the stored status of a claim.
func (b *Backend) ClaimStatus(id string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c := b.findClaim(id); c != nil {
		return c.status
	}
	return ""
}

func (b *Backend) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/food-posts", b.listPosts)
	mux.HandleFunc("POST /api/food-posts", b.createPost)
	mux.HandleFunc("GET /api/food-posts/mine", b.myPosts)
	mux.HandleFunc("GET /api/food-posts/{id}", b.getPost)
	mux.HandleFunc("DELETE /api/food-posts/{id}", b.deletePost)
	mux.HandleFunc("POST /api/food-posts/{id}/claims", b.createClaim)
	mux.HandleFunc("PATCH /api/claims/{id}", b.decideClaim)
	mux.HandleFunc("PATCH /api/claims/{id}/cancel", b.cancelClaim)
	mux.HandleFunc("GET /api/claims/for-my-posts", b.claimsForMyPosts)
	mux.HandleFunc("GET /api/claims/mine", b.myClaims)
	mux.HandleFunc("GET /api/stats/global", b.statsGlobal)
	mux.HandleFunc("GET /api/stats/me", b.statsMe)
	return b.record(mux)
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		})
		f, failing := b.failures[r.Method+" "+r.URL.Path]
		b.mu.Unlock()

		if failing {
			ct := f.ContentType
			if ct == "" {
				ct = "application/json"
			}
			w.Header().Set("Content-Type", ct)
			w.WriteHeader(f.Status)
			_, _ = w.Write([]byte(f.Body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func viewer(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return token
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func httpDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(http.TimeFormat)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (b *Backend) postJSON(p *post) map[string]any {
	return map[string]any{
		"id":                  p.id,
		"title":               p.title,
		"description":         p.description,
		"category":            p.category,
		"quantity":            p.quantity,
		"estimated_weight_kg": p.weightKg,
		"dietary_json":        p.dietaryJSON,
		"location":            p.location,
		"expires_at":          httpDate(p.expiresAt),
		"status":              p.status,
		"owner_email":         p.owner,
		"ownerEmail":          p.owner,
		"created_at":          httpDate(p.createdAt),
	}
}

func (b *Backend) findPost(id string) *post {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil
	}
	for _, p := range b.posts {
		if p.id == n {
			return p
		}
	}
	return nil
}

func (b *Backend) findClaim(id string) *claim {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil
	}
	for _, c := range b.claims {
		if c.id == n {
			return c
		}
	}
	return nil
}

func (b *Backend) postByID(id int) *post {
	for _, p := range b.posts {
		if p.id == id {
			return p
		}
	}
	return nil
}

func (b *Backend) listPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	if status == "" {
		status = "available"
	}
	search := strings.ToLower(strings.TrimSpace(q.Get("search")))
	category := q.Get("type")
	dietary := q.Get("dietary")
	now := time.Now()

	b.mu.Lock()
	var matched []*post
	for _, p := range b.posts {
		expired := !p.expiresAt.IsZero() && !p.expiresAt.After(now)
		switch status {
		case "available":
			if p.status != "active" || expired {
				continue
			}
		case "claimed":
			if p.status != "claimed" {
				continue
			}
		case "expired":
			if p.status != "expired" && !expired {
				continue
			}
		}
		if search != "" && !strings.Contains(strings.ToLower(p.title), search) &&
			!strings.Contains(strings.ToLower(p.description), search) {
			continue
		}
		if category != "" && category != "All Types" && p.category != category {
			continue
		}
		if dietary != "" && !strings.Contains(p.dietaryJSON, dietary) {
			continue
		}
		matched = append(matched, p)
	}
	if q.Get("sort") == "endingSoon" {
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].expiresAt.Before(matched[j].expiresAt) })
	} else {
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].createdAt.After(matched[j].createdAt) })
	}
	out := make([]map[string]any, 0, len(matched))
	for _, p := range matched {
		out = append(out, b.postJSON(p))
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createPost(w http.ResponseWriter, r *http.Request) {
	owner := viewer(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var (
		title, desc, category, quantity, location, expires, imageName string
		dietary                                                     []string
	)
	if strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid form")
			return
		}
		title = r.FormValue("title")
		desc = r.FormValue("description")
		category = r.FormValue("category")
		quantity = r.FormValue("qty")
		location = r.FormValue("location")
		expires = r.FormValue("expiry_time")
		dietary = r.MultipartForm.Value["diet"]
		if files := r.MultipartForm.File["photo"]; len(files) > 0 {
			imageName = files[0].Filename
		}
	} else {
		var data struct {
			Title        string   `json:"title"`
			Description  string   `json:"description"`
			Category     string   `json:"category"`
			Quantity     string   `json:"quantity"`
			DietaryTags  []string `json:"dietary_tags"`
			LocationText string   `json:"location_text"`
			ExpiresAt    string   `json:"expires_at"`
		}
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		title, desc, category = data.Title, data.Description, data.Category
		quantity, location, expires = data.Quantity, data.LocationText, data.ExpiresAt
		dietary = data.DietaryTags
	}

	if strings.TrimSpace(title) == "" || strings.TrimSpace(desc) == "" ||
		strings.TrimSpace(location) == "" || expires == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	expiresAt, err := time.Parse("2006-01-02T15:04", expires)
	if err != nil {
		expiresAt, err = time.Parse(time.RFC3339, expires)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid expiry")
			return
		}
	}
	if category == "" {
		category = "Other"
	}
	encoded, _ := json.Marshal(nonNil(dietary))

	b.mu.Lock()
	b.seq++
	p := &post{
		id:          b.seq,
		owner:       owner,
		title:       title,
		description: desc,
		category:    category,
		quantity:    quantity,
		dietaryJSON: string(encoded),
		location:    location,
		expiresAt:   expiresAt,
		status:      "active",
		imageName:   imageName,
		createdAt:   time.Now(),
	}
	b.posts = append(b.posts, p)
	out := b.postJSON(p)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, out)
}

func (b *Backend) myPosts(w http.ResponseWriter, r *http.Request) {
	owner := viewer(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	b.mu.Lock()
	out := []map[string]any{}
	for i := len(b.posts) - 1; i >= 0; i-- {
		p := b.posts[i]
		if p.owner != owner {
			continue
		}
		summary := map[string]int{"pending": 0, "accepted": 0, "rejected": 0}
		for _, c := range b.claims {
			if c.postID != p.id {
				continue
			}
			switch c.status {
			case "pending":
				summary["pending"]++
			case "approved":
				summary["accepted"]++
			case "rejected":
				summary["rejected"]++
			}
		}
		pj := b.postJSON(p)
		pj["claims_summary"] = summary
		out = append(out, pj)
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getPost(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.findPost(r.PathValue("id"))
	if p == nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	writeJSON(w, http.StatusOK, b.postJSON(p))
}

func (b *Backend) deletePost(w http.ResponseWriter, r *http.Request) {
	owner := viewer(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.findPost(r.PathValue("id"))
	if p == nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	if p.owner != owner {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}
	for i, candidate := range b.posts {
		if candidate == p {
			b.posts = append(b.posts[:i], b.posts[i+1:]...)
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (b *Backend) createClaim(w http.ResponseWriter, r *http.Request) {
	claimer := viewer(r)
	if claimer == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var data struct {
		RequestedQuantity string `json:"requested_quantity"`
		Message           string `json:"message"`
	}
	_ = json.NewDecoder(r.Body).Decode(&data)
	if data.RequestedQuantity == "" {
		data.RequestedQuantity = "1"
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.findPost(r.PathValue("id"))
	switch {
	case p == nil:
		writeError(w, http.StatusNotFound, "Post not found")
		return
	case p.owner == claimer:
		writeError(w, http.StatusBadRequest, "Cannot claim own post")
		return
	case p.status != "active":
		writeError(w, http.StatusBadRequest, "Post not available")
		return
	case !p.expiresAt.IsZero() && !p.expiresAt.After(time.Now()):
		writeError(w, http.StatusBadRequest, "Post expired")
		return
	}
	b.seq++
	c := &claim{
		id:        b.seq,
		postID:    p.id,
		claimer:   claimer,
		quantity:  data.RequestedQuantity,
		message:   data.Message,
		status:    "pending",
		createdAt: time.Now(),
	}
	b.claims = append(b.claims, c)
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":                 c.id,
		"post_id":            c.postID,
		"requested_quantity": c.quantity,
		"message":            c.message,
		"status":             c.status,
	})
}

func (b *Backend) decideClaim(w http.ResponseWriter, r *http.Request) {
	owner := viewer(r)
	var data struct {
		Status string `json:"status"`
	}
	_ = json.NewDecoder(r.Body).Decode(&data)
	if data.Status != "accepted" && data.Status != "rejected" {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	c := b.findClaim(r.PathValue("id"))
	if c == nil {
		writeError(w, http.StatusNotFound, "Claim not found")
		return
	}
	p := b.postByID(c.postID)
	if p == nil || p.owner != owner {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}
	if data.Status == "accepted" {
		c.status = "approved"
		p.status = "claimed"
	} else {
		c.status = "rejected"
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": c.status})
}

func (b *Backend) cancelClaim(w http.ResponseWriter, r *http.Request) {
	claimer := viewer(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	c := b.findClaim(r.PathValue("id"))
	if c == nil {
		writeError(w, http.StatusNotFound, "Claim not found")
		return
	}
	if c.claimer != claimer {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}
	c.status = "cancelled"
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (b *Backend) claimsForMyPosts(w http.ResponseWriter, r *http.Request) {
	owner := viewer(r)
	b.mu.Lock()
	out := []map[string]any{}
	for _, c := range b.claims {
		p := b.postByID(c.postID)
		if p == nil || p.owner != owner {
			continue
		}
		out = append(out, map[string]any{
			"id":                 c.id,
			"post_id":            c.postID,
			"claimer_email":      c.claimer,
			"requested_quantity": c.quantity,
			"message":            c.message,
			"status":             c.status,
			"post_title":         p.title,
		})
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) myClaims(w http.ResponseWriter, r *http.Request) {
	claimer := viewer(r)
	b.mu.Lock()
	out := []map[string]any{}
	for _, c := range b.claims {
		if c.claimer != claimer {
			continue
		}
		entry := map[string]any{
			"id":                 c.id,
			"post_id":            c.postID,
			"requested_quantity": c.quantity,
			"message":            c.message,
			"status":             c.status,
		}
		if p := b.postByID(c.postID); p != nil {
			entry["post_title"] = p.title
			entry["location"] = p.location
			entry["expires_at"] = httpDate(p.expiresAt)
			entry["owner_email"] = p.owner
		}
		out = append(out, entry)
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) statsGlobal(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.globalStats {
		http.NotFound(w, r)
		return
	}
	now := time.Now()
	var available, shared int
	for _, p := range b.posts {
		if p.status == "active" && (p.expiresAt.IsZero() || p.expiresAt.After(now)) {
			available++
		}
		if p.status == "claimed" {
			shared++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"available_now":           available,
		"total_posts":             len(b.posts),
		"successfully_shared":     shared,
		"food_waste_prevented_kg": float64(shared) * 1.2,
	})
}

func (b *Backend) statsMe(w http.ResponseWriter, r *http.Request) {
	me := viewer(r)
	if me == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	var created, shared, made, accepted, rejected int
	for _, p := range b.posts {
		if p.owner != me {
			continue
		}
		created++
		if p.status == "claimed" {
			shared++
		}
	}
	for _, c := range b.claims {
		if c.claimer != me {
			continue
		}
		made++
		switch c.status {
		case "approved":
			accepted++
		case "rejected":
			rejected++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"posts_created":    created,
		"posts_shared":     shared,
		"weight_shared_kg": float64(shared) * 1.2,
		"claims_made":      made,
		"claims_accepted":  accepted,
		"claims_rejected":  rejected,
		"join_date":        httpDate(b.joinDates[me]),
	})
}
