package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrMissingSubject = errors.New("token has no subject")
)

// Caller is the authenticated identity behind a request.
type Caller struct {
	ID        string
	Email     string
	RoleClaim string
}

// AppMetadata is the server-controlled metadata block of an identity token.
// Only the identity provider's service role can write it, so it is the
// trusted place for the privileged role.
type AppMetadata struct {
	Role string `json:"role,omitempty"`
}

// Claims is the payload of an identity token.
type Claims struct {
	Email       string      `json:"email,omitempty"`
	Role        string      `json:"role,omitempty"`
	AppMetadata AppMetadata `json:"app_metadata,omitempty"`
	jwt.RegisteredClaims
}

// roleClaim prefers app_metadata.role over the top-level role, which the
// identity provider fills with its own session role ("authenticated").
func (c *Claims) roleClaim() string {
	if c.AppMetadata.Role != "" {
		return c.AppMetadata.Role
	}
	return c.Role
}

// GenerateToken signs an HS256 identity token for caller, valid for ttl.
func GenerateToken(secret []byte, caller Caller, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email:       caller.Email,
		Role:        "authenticated",
		AppMetadata: AppMetadata{Role: caller.RoleClaim},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses an HS256 identity token and returns the caller it
// identifies.
func ValidateToken(secret []byte, tokenString string) (*Caller, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	return &Caller{
		ID:        claims.Subject,
		Email:     claims.Email,
		RoleClaim: claims.roleClaim(),
	}, nil
}
