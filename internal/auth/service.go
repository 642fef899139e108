package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/VladimirTheNoob/Budget-tracker/internal"
	"github.com/VladimirTheNoob/Budget-tracker/internal/identity"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Service authenticates local credentials and issues bearer tokens. OAuth
// logins bypass it entirely; they only produce a session principal.
type Service struct {
	users          LoginRepository
	tokenGenerator TokenGenerator
}

func NewService(users LoginRepository, tokenGen TokenGenerator) *Service {
	return &Service{
		users:          users,
		tokenGenerator: tokenGen,
	}
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Authenticate verifies the email/password pair and returns a token pair
// plus the normalized principal for the session.
func (s *Service) Authenticate(dto LoginDTO) (identity.Principal, AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return identity.Principal{}, AuthTokens{}, err
	}

	email := identity.NormalizeEmail(dto.Email)
	storedHash, userID, err := s.users.GetCredentials(email)
	if err != nil || storedHash == "" {
		return identity.Principal{}, AuthTokens{}, internal.NewUnauthorizedError("Invalid email or password", internal.ErrCodeNotAuthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		return identity.Principal{}, AuthTokens{}, internal.NewUnauthorizedError("Invalid email or password", internal.ErrCodeNotAuthenticated)
	}

	tokens, err := s.issueTokens(userID, email)
	if err != nil {
		return identity.Principal{}, AuthTokens{}, internal.NewInternalError("failed to issue tokens", err)
	}

	principal := identity.Principal{Email: email, Subject: userID}
	return principal, tokens, nil
}

// RefreshTokens rotates both tokens off a valid refresh token.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	tokens, err := s.issueTokens(claims.Subject, claims.Email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue tokens", err)
	}
	return tokens, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

func (s *Service) issueTokens(userID, email string) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, email)
	if err != nil {
		return AuthTokens{}, err
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, email)
	if err != nil {
		return AuthTokens{}, err
	}
	return AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (j *JWTTokenGenerator) GenerateAccessToken(userID, email string) (string, error) {
	return j.signed(userID, email, j.AccessTokenTTL, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(userID, email string) (string, error) {
	return j.signed(userID, email, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) signed(userID, email string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		// Long-lived tokens were signed with the refresh secret.
		if claims, ok := token.Claims.(*Claims); ok && claims.ExpiresAt != nil {
			if time.Until(claims.ExpiresAt.Time) > j.AccessTokenTTL {
				return j.RefreshTokenSecret, nil
			}
		}
		return j.AccessTokenSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, internal.ErrInvalidToken
}
