package models

import "strings"

// Identity is the signed-in viewer. It is resolved once per request by the
// session middleware and passed explicitly to every view.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DisplayName prefers the profile name, then the email's local part.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	if local, _, ok := strings.Cut(i.Email, "@"); ok && local != "" {
		return local
	}
	return "Eco Member"
}

// Owns reports whether the viewer is the owner identified by email. The
// comparison is exact, matching how the backend checks ownership.
func (i Identity) Owns(ownerEmail string) bool {
	return i.Email != "" && i.Email == ownerEmail
}
