package auth

import (
	"errors"
	"time"

	"github.com/denoblevoices/ticketing/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are what an access token asserts about the caller. Handlers read
// these from the request context after the auth middleware has verified the
// signature; services always receive the admin ID as an explicit argument.
type Claims struct {
	AdminID string
	Role    models.Role
}

// NewAccessToken signs an HS256 JWT for an admin. The token carries sub (the
// admin ID) and role; capabilities are checked against the database on each
// request so a permission change takes effect without re-login.
func NewAccessToken(secret, adminID string, role models.Role, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub":  adminID,
		"role": string(role),
		"exp":  expiresAt.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAccessToken verifies the signature and expiry and extracts the claims.
func ParseAccessToken(secret, raw string) (*Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	return &Claims{AdminID: sub, Role: models.Role(role)}, nil
}
