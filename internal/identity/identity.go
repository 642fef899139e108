// Package identity maps authenticated principals onto durable user ids.
package identity

import "strings"

// Principal is the single canonical shape for an authenticated caller. It is
// produced once, at the session boundary; downstream code never inspects raw
// OAuth profile payloads.
type Principal struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	// Subject is the provider-side identifier: a durable user id for local
	// logins, an opaque provider id for OAuth, or a legacy composite id for
	// pre-migration sessions.
	Subject string `json:"subject"`
}

// RawProfile covers the historical profile shapes: email as a plain field,
// email nested under an emails list, or no email at all.
type RawProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Emails      []struct {
		Value string `json:"value"`
	} `json:"emails"`
}

// PrincipalFromProfile flattens a raw profile into a Principal.
func PrincipalFromProfile(p RawProfile) Principal {
	email := p.Email
	if email == "" && len(p.Emails) > 0 {
		email = p.Emails[0].Value
	}
	return Principal{
		Email:       NormalizeEmail(email),
		DisplayName: p.DisplayName,
		Subject:     p.ID,
	}
}

// NormalizeEmail lowercases and trims an address; it is the natural key for
// users everywhere in the system.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser is the minimal record created when an unknown principal is
// auto-provisioned on the authentication path.
type NewUser struct {
	Name  string
	Email string
	Role  string
}

// Directory is the slice of the user store the resolver needs.
type Directory interface {
	FindIDByEmail(email string) (string, error)
	IDExists(id string) (bool, error)
	FindIDByLegacyKey(key string) (string, error)
	ProvisionUser(u NewUser) (string, error)
}
