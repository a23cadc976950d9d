package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthEventType distinguishes sign-in from sign-out events coming from the
// auth provider.
type AuthEventType string

const (
	AuthSignIn  AuthEventType = "sign_in"
	AuthSignOut AuthEventType = "sign_out"
)

// AuthEvent is what the external auth provider supplies on every change of
// authentication state. It carries the provider's subject and basic
// profile hints only; role and tenant always come from the user record.
type AuthEvent struct {
	Type        AuthEventType `json:"type"`
	PrincipalID string        `json:"principal_id"`
	DisplayName string        `json:"display_name,omitempty"`
	Email       string        `json:"email,omitempty"`
}

// JWTClaims represents the bearer token minted by the auth provider.
// Deliberately role-free: the token only proves who the principal is.
type JWTClaims struct {
	PrincipalID string `json:"principal_id"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// SessionState tracks where a session is in the resolution lifecycle.
type SessionState string

const (
	SessionUnauthenticated SessionState = "unauthenticated"
	SessionResolving       SessionState = "resolving"
	SessionResolved        SessionState = "resolved"
	SessionSignedOut       SessionState = "signed_out"
)

// SessionProfile is the display-facing slice of the backing user record.
type SessionProfile struct {
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email"`
	Status      UserStatus `json:"status"`
}

// Session is the resolved, role- and tenant-bearing representation of an
// authenticated principal. It is a value passed explicitly through every
// repository and gate call; there is no ambient current-session global.
type Session struct {
	State       SessionState   `json:"state"`
	PrincipalID string         `json:"principal_id"`
	UserID      uuid.UUID      `json:"user_id"`
	Role        Role           `json:"role"`
	TenantID    uuid.UUID      `json:"tenant_id"`
	Profile     SessionProfile `json:"profile"`
	// Fallback marks a session resolved without a backing user record
	// (first login or lookup fault); minimally privileged but usable.
	Fallback bool `json:"fallback"`
}

// Authenticated reports whether the session represents a signed-in
// principal.
func (s Session) Authenticated() bool {
	return s.State == SessionResolved
}
