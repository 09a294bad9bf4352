package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	// ErrMissingSecret is returned when tokens would be signed or verified with an empty key
	ErrMissingSecret = errors.New("jwt secret is not configured")
)

// Claims are the session claims issued by the identity provider. The subject is the viewer id.
type Claims struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	jwt.RegisteredClaims
}

// Viewer is the authenticated identity of the current request
type Viewer struct {
	ID       string
	Name     string
	Email    string
	ImageURL string
}

// ValidateToken verifies an HMAC signed session token and returns the viewer it names
func ValidateToken(tokenString, secret string) (*Viewer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if tokenString == "" {
		return nil, ErrNoToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Viewer{
		ID:       claims.Subject,
		Name:     claims.Name,
		Email:    claims.Email,
		ImageURL: claims.ImageURL,
	}, nil
}

// GenerateToken signs a session token for viewer. Used by local tooling and tests;
// production tokens come from the identity provider.
func GenerateToken(viewer Viewer, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}
	now := time.Now()
	claims := Claims{
		Name:     viewer.Name,
		Email:    viewer.Email,
		ImageURL: viewer.ImageURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   viewer.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value
func BearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
