// Package middleware resolves who is browsing and carries one-shot notices
// across redirects.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/ecobite/web/internal/gateway"
	"github.com/anonto42/ecobite/web/internal/models"
)

const identityKey = "identity"

// ErrNoIdentity means a resolver found no credentials to work with.
var ErrNoIdentity = errors.New("no identity")

// IdentityResolver resolves the viewer of a request.
type IdentityResolver interface {
	Resolve(r *http.Request) (models.Identity, error)
}

// StaticResolver always resolves to a fixed identity. It backs development
// setups without Firebase.
type StaticResolver struct {
	Identity models.Identity
}

// Resolve implements IdentityResolver.
func (s StaticResolver) Resolve(*http.Request) (models.Identity, error) {
	if strings.TrimSpace(s.Identity.Email) == "" {
		return models.Identity{}, ErrNoIdentity
	}
	return s.Identity, nil
}

// ChainResolver returns the first identity any of its resolvers produces.
type ChainResolver []IdentityResolver

// Resolve implements IdentityResolver.
func (chain ChainResolver) Resolve(r *http.Request) (models.Identity, error) {
	errs := make([]error, 0, len(chain))
	for _, resolver := range chain {
		id, err := resolver.Resolve(r)
		if err == nil {
			return id, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return models.Identity{}, ErrNoIdentity
	}
	return models.Identity{}, errors.Join(errs...)
}

// Session resolves the viewer once per request and stores it on the context.
// It also attaches the caller's backend credentials to the request context so
// gateway calls act on the viewer's behalf.
func Session(resolver IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id, err := resolver.Resolve(req)
			if err != nil {
				c.Logger().Debugf("session: %v", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "Sign in to continue")
			}
			c.Set(identityKey, id)

			creds := gateway.Credentials{
				Cookie:      req.Header.Get("Cookie"),
				BearerToken: bearerToken(req),
			}
			c.SetRequest(req.WithContext(gateway.WithCredentials(req.Context(), creds)))
			return next(c)
		}
	}
}

// IdentityFrom returns the viewer resolved by Session.
func IdentityFrom(c echo.Context) models.Identity {
	id, _ := c.Get(identityKey).(models.Identity)
	return id
}
