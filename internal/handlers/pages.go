package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/anonto42/ecobite/web/internal/gateway"
	"github.com/anonto42/ecobite/web/internal/middleware"
	"github.com/anonto42/ecobite/web/internal/views"
)

// Pages holds what every page controller shares: notices, logging and the
// clock used for expiry display.
type Pages struct {
	flash  *middleware.Flasher
	logger *slog.Logger
	now    func() time.Time
}

// NewPages creates the shared page dependencies.
func NewPages(flash *middleware.Flasher, logger *slog.Logger) *Pages {
	return &Pages{flash: flash, logger: logger, now: time.Now}
}

// WithClock overrides the clock, for deterministic rendering.
func (p *Pages) WithClock(now func() time.Time) *Pages {
	cp := *p
	cp.now = now
	return &cp
}

// viewContext assembles the per-request state for a render and consumes any
// pending notice.
func (p *Pages) viewContext(c echo.Context) views.Context {
	csrf, _ := c.Get(echomw.DefaultCSRFConfig.ContextKey).(string)
	return views.Context{
		Viewer: middleware.IdentityFrom(c),
		Now:    p.now(),
		CSRF:   csrf,
		Notice: p.flash.Pop(c),
	}
}

// succeed queues a success notice and redirects.
func (p *Pages) succeed(c echo.Context, to, message string) error {
	if err := p.flash.Success(c, message); err != nil {
		p.logger.Error("setting notice", "error", err)
	}
	return seeOther(c, to)
}

// fail logs a failed mutation, queues its user-facing message and redirects
// back so the page is re-fetched in its pre-action state.
func (p *Pages) fail(c echo.Context, to, op string, err error) error {
	p.logger.Warn(op+" failed", "error", err, "request_id", requestID(c))
	if ferr := p.flash.Error(c, gateway.UserMessage(err)); ferr != nil {
		p.logger.Error("setting notice", "error", ferr)
	}
	return seeOther(c, to)
}

func seeOther(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// safeReturn accepts only local paths as redirect targets.
func safeReturn(raw, fallback string) string {
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return fallback
	}
	return raw
}
