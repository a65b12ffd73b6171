package handlers_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/ecobite/web/internal/aggregator"
	"github.com/anonto42/ecobite/web/internal/gateway"
	"github.com/anonto42/ecobite/web/internal/middleware"
	"github.com/anonto42/ecobite/web/internal/models"
	"github.com/anonto42/ecobite/web/internal/router"
	"github.com/anonto42/ecobite/web/internal/testbackend"
	"github.com/anonto42/ecobite/web/pkg/config"
)

type stubGeocoder struct{}

func (stubGeocoder) Reverse(_ context.Context, lat, lng float64) string {
	return fmt.Sprintf("near %.2f,%.2f", lat, lng)
}

// site is the full page stack wired to a fake backend, browsing as one user.
type site struct {
	t       *testing.T
	e       *echo.Echo
	backend *testbackend.Backend
	email   string
	cookies []*http.Cookie
}

func newSite(t *testing.T, email string) *site {
	t.Helper()
	return buildSite(t, email, echo.New())
}

// newProductionSite installs the global middleware chain (recover, request
// id, secure headers, CSRF) in front of the pages, as main does.
func newProductionSite(t *testing.T, email string) *site {
	t.Helper()
	e := echo.New()
	config.SetupMiddleware(e, &config.Config{Env: "development"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return buildSite(t, email, e)
}

func buildSite(t *testing.T, email string, e *echo.Echo) *site {
	t.Helper()
	backend := testbackend.New(t)
	err := router.SetupRoutes(e, router.Deps{
		Backend:  gateway.New(backend.URL()),
		Geocoder: stubGeocoder{},
		Resolver: middleware.StaticResolver{Identity: models.Identity{Email: email}},
		Flasher:  middleware.NewFlasher("test-secret"),
		Strategy: aggregator.StrategyAuto,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return &site{t: t, e: e, backend: backend, email: email}
}

func (s *site) send(req *http.Request) *httptest.ResponseRecorder {
	req.AddCookie(&http.Cookie{Name: testbackend.SessionCookie, Value: s.email})
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	// keep notices for the next request, drop cleared ones
	kept := s.cookies[:0]
	for _, c := range s.cookies {
		cleared := false
		for _, set := range rec.Result().Cookies() {
			if set.Name == c.Name {
				cleared = true
			}
		}
		if !cleared {
			kept = append(kept, c)
		}
	}
	s.cookies = kept
	for _, set := range rec.Result().Cookies() {
		if set.MaxAge >= 0 && set.Value != "" {
			s.cookies = append(s.cookies, set)
		}
	}
	return rec
}

func (s *site) get(path string) *httptest.ResponseRecorder {
	return s.send(httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *site) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return s.send(req)
}

func (s *site) postMultipart(path string, fields url.Values, file, filename string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(s.t, w.WriteField(k, v))
		}
	}
	if filename != "" {
		part, err := w.CreateFormFile("photo", filename)
		require.NoError(s.t, err)
		_, err = part.Write([]byte(file))
		require.NoError(s.t, err)
	}
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return s.send(req)
}
