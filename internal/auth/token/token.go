// Package token signs and verifies the bearer credentials used for
// stateless sessions. Tokens carry the caller's identity and role;
// there is no server-side revocation list, so a token stays valid
// until it expires.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/evalia-hr/evalia/internal/clock"
	"github.com/evalia-hr/evalia/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const DefaultTTL = 7 * 24 * time.Hour

// Claims is the verified identity attached to authorized requests.
type Claims struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	CompanyID  string `json:"company_id,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewIssuer(cfg config.Config, clk clock.Clock) (*Issuer, error) {
	secret := strings.TrimSpace(cfg.TokenSecret)
	if secret == "" {
		return nil, errors.New("auth token secret is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, clock: clk}, nil
}

// Issue signs claims with the configured expiry baked in and returns
// the serialized token together with its expiry instant.
func (i *Issuer) Issue(claims Claims) (string, time.Time, error) {
	now := i.clock.Now()
	exp := now.Add(i.ttl)
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(exp)

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return raw, exp, nil
}

// Verify parses and validates a raw token. Expired, malformed and
// wrongly-signed tokens all collapse into ErrInvalidToken.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
