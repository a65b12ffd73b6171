package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/anonto42/ecobite/web/internal/models"
)

// FirebaseSessionCookie is the cookie Firebase Hosting forwards to backends.
const FirebaseSessionCookie = "__session"

// TokenVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseResolver resolves the viewer from a Firebase ID token sent as a
// Bearer header or in the __session cookie.
type FirebaseResolver struct {
	verifier TokenVerifier
}

// NewFirebaseResolver creates a resolver backed by verifier.
func NewFirebaseResolver(verifier TokenVerifier) *FirebaseResolver {
	return &FirebaseResolver{verifier: verifier}
}

// Resolve implements IdentityResolver.
func (f *FirebaseResolver) Resolve(r *http.Request) (models.Identity, error) {
	idToken := bearerToken(r)
	if idToken == "" {
		if cookie, err := r.Cookie(FirebaseSessionCookie); err == nil {
			idToken = cookie.Value
		}
	}
	if idToken == "" {
		return models.Identity{}, ErrNoIdentity
	}

	token, err := f.verifier.VerifyIDToken(r.Context(), idToken)
	if err != nil {
		return models.Identity{}, fmt.Errorf("invalid or expired ID token: %w", err)
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	if email == "" {
		return models.Identity{}, errors.New("ID token carries no email")
	}
	return models.Identity{Name: name, Email: email}, nil
}

// bearerToken extracts the token from an "Authorization: Bearer" header.
func bearerToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
