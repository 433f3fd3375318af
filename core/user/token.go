package user

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/coursehub/backend/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrInvalidToken = errors.New("invalid token")
)

// Claims represents the identity claims transmitted via a bearer JWT.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Identity is the caller identity the claims carry.
func (c Claims) Identity() core.Identity {
	return core.Identity{
		UserID: c.Subject,
		Email:  c.Email,
		Role:   c.Role,
	}
}

// IssueToken generates a signed token carrying the identity of usr.
func IssueToken(usr User, issuer string, secret []byte, ttl time.Duration) (string, error) {
	now := NowFunc()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   usr.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: usr.Email,
		Role:  usr.Role,
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// ParseToken verifies token and returns the identity it carries.
func ParseToken(token string, secret []byte) (core.Identity, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(*jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(NowFunc),
	)
	if err != nil || claims.Subject == "" {
		return core.Identity{}, ErrInvalidToken
	}
	return claims.Identity(), nil
}
