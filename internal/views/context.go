// Package views turns fetched data and request state into page view models.
// Builders are pure: the same input always yields the same view model, and
// the embedded templates render it without consulting anything else.
package views

import (
	"time"

	"github.com/anonto42/ecobite/web/internal/models"
)

// Context is the per-request state every page shares.
type Context struct {
	Viewer models.Identity
	Now    time.Time
	CSRF   string
	Notice *models.Notice
	// Nav is the key of the active sidebar entry.
	Nav string
}

// ViewerName is the sidebar's display name.
func (c Context) ViewerName() string { return c.Viewer.DisplayName() }
