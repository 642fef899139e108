package auth

import (
	"time"

	"github.com/VladimirTheNoob/Budget-tracker/internal/identity"
	"github.com/VladimirTheNoob/Budget-tracker/internal/rbac"
	"github.com/golang-jwt/jwt/v5"
)

// LoginRepository is the slice of the user store the local login path needs.
type LoginRepository interface {
	GetCredentials(email string) (passwordHash string, userID string, err error)
}

// RoleStore yields the effective role for a resolved user id.
type RoleStore interface {
	GetRole(userID string) (rbac.Role, error)
}

// Resolver maps principals onto durable user ids, provisioning new employees
// on the authentication path.
type Resolver interface {
	Resolve(p identity.Principal) (string, error)
	ResolveOrProvision(p identity.Principal) (string, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTTokenGenerator issues and validates HMAC-signed bearer tokens for
// programmatic API clients; browser sessions use the cookie store instead.
type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

type TokenGenerator interface {
	GenerateAccessToken(userID, email string) (string, error)
	GenerateRefreshToken(userID, email string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// StatusResponse is the body of GET /auth/status.
type StatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	User          string `json:"user,omitempty"`
	Email         string `json:"email,omitempty"`
	Role          string `json:"role,omitempty"`
}
