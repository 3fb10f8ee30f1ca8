package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const defaultSecret = "quoteverse-secret-change-me"

// RoleAdmin grants access to dispatch and admin routes.
const RoleAdmin = "admin"

// Claims is the JWT payload.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwtlib.RegisteredClaims
}

// Signer signs and verifies HS256 tokens.
type Signer struct {
	secret []byte
}

// NewSigner falls back to a built-in secret when secret is empty.
func NewSigner(secret string) *Signer {
	if secret == "" {
		secret = defaultSecret
	}
	return &Signer{secret: []byte(secret)}
}

// Sign creates a signed token for the given user and role.
func (s *Signer) Sign(userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse validates a token string and returns the claims.
func (s *Signer) Parse(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
