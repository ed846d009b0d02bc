// Package auth holds the server's credential primitives: bcrypt password
// hashing and HS256 access tokens.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the registered claims plus the username the token was issued to.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// JWTIssuer signs and verifies access tokens with a process-wide secret that
// is injected once at construction and never changes.
type JWTIssuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// IssuerOption customises a JWTIssuer.
type IssuerOption func(*JWTIssuer)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *JWTIssuer) {
		i.now = now
	}
}

func NewJWTIssuer(secret []byte, validity time.Duration, opts ...IssuerOption) *JWTIssuer {
	i := &JWTIssuer{
		secret:   secret,
		validity: validity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue returns a signed token carrying username and an expiry of now+validity.
func (i *JWTIssuer) Issue(username string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
		Username: username,
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature, algorithm and expiry and returns the username.
// It returns common.ErrTokenExpired or common.ErrInvalidToken. It does not
// check that the user still exists.
func (i *JWTIssuer) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Username == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Username, nil
}
