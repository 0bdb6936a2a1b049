package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind selects which signing key and lifetime a token is minted with.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// ErrInvalid is the only error Verify returns. Malformed tokens, signature
// mismatches, cross-kind tokens and expired tokens are deliberately
// indistinguishable to callers; every failure is treated as "no session".
var ErrInvalid = errors.New("invalid token")

// Identity is the claim set embedded in every token. It is immutable once
// issued and never stored server-side.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Typ   string `json:"typ"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{UserID: c.Subject, Email: c.Email, Role: c.Role}
}

// Codec issues and verifies the access/refresh token pair. The two kinds are
// signed with independent keys so a token of one kind can never be replayed
// as the other, even before the typ claim is checked.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewCodec(accessSecret string, refreshSecret string, accessTTL time.Duration, refreshTTL time.Duration) *Codec {
	return &Codec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (c *Codec) AccessTTL() time.Duration  { return c.accessTTL }
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

func (c *Codec) Issue(kind Kind, identity Identity) (string, error) {
	now := c.now().UTC()

	claims := Claims{
		Email: identity.Email,
		Role:  identity.Role,
		Typ:   string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl(kind))),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret(kind))
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify parses and validates a token of the given kind. It has no side
// effects; verifying the same token twice yields the same claims.
func (c *Codec) Verify(kind Kind, tokenString string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return c.secret(kind), nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalid
	}

	if claims.Typ != string(kind) {
		return nil, ErrInvalid
	}

	return &claims, nil
}

func (c *Codec) secret(kind Kind) []byte {
	if kind == KindRefresh {
		return c.refreshSecret
	}
	return c.accessSecret
}

func (c *Codec) ttl(kind Kind) time.Duration {
	if kind == KindRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}
