// Package token issues and validates the signed bearer tokens used by the
// API. Two kinds exist: short-lived access tokens authorize protected
// requests, long-lived refresh tokens only mint new access tokens. Tokens
// are stateless JWTs (HS256) carrying {id, exp, type}; there is no
// server-side revocation list, so a token stays valid until its expiry.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind tags a token as access or refresh. The middleware rejects refresh
// tokens on protected routes; the refresh endpoint rejects access tokens.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Sentinel errors returned by Validate and Refresh. Callers map these to
// HTTP 401 responses with distinct messages.
var (
	ErrExpired   = errors.New("token expired")
	ErrMalformed = errors.New("token invalid")
	ErrWrongKind = errors.New("wrong token kind")
)

// Claims is the JWT payload. The JSON field names are part of the wire
// format shared with existing clients -- do not rename them.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Kind   Kind   `json:"type"`
}

// Issuer creates and validates tokens with a single symmetric key loaded
// once at startup. Safe for concurrent use; it holds no mutable state.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer creates an Issuer signing with the given key. accessTTL and
// refreshTTL are the default lifetimes used by IssuePair and Refresh.
func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Issue creates a signed token of the given kind bound to userID.
func (i *Issuer) Issue(userID string, kind Kind, ttl time.Duration) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
		Kind:   kind,
	})

	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", kind, err)
	}
	return signed, nil
}

// IssuePair creates the access+refresh pair returned by login flows.
func (i *Issuer) IssuePair(userID string) (access, refresh string, err error) {
	access, err = i.Issue(userID, KindAccess, i.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = i.Issue(userID, KindRefresh, i.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Validate parses and verifies a token string. Returns ErrExpired when the
// expiry has passed and ErrMalformed for any structural or signature
// problem. Kind checking is the caller's responsibility.
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}
	if !tok.Valid || claims.UserID == "" {
		return nil, ErrMalformed
	}
	return claims, nil
}

// Refresh validates a refresh token and mints a fresh access token bound to
// the same user. Passing an access token fails with ErrWrongKind. The
// refresh token itself is not rotated -- it stays valid until its own expiry.
func (i *Issuer) Refresh(refreshToken string) (string, error) {
	claims, err := i.Validate(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.Kind != KindRefresh {
		return "", ErrWrongKind
	}
	return i.Issue(claims.UserID, KindAccess, i.accessTTL)
}
