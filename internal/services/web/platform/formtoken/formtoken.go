// Package formtoken issues and verifies signed single-use form submission
// tokens. Each token carries a unique jti; callers consume the jti in a
// submission ledger so a replayed form is detected.
package formtoken

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinKeyLength is the smallest accepted HMAC key.
const MinKeyLength = 32

const issuer = "teamdesk-web"

var (
	// ErrInvalid reports a malformed, forged or mismatched token.
	ErrInvalid = errors.New("form token is invalid")
	// ErrExpired reports a token past its expiry.
	ErrExpired = errors.New("form token is expired")
)

// Claims are the validated contents of a form token.
type Claims struct {
	ID        string
	Subject   string
	Form      string
	ExpiresAt time.Time
}

type formClaims struct {
	jwt.RegisteredClaims
	Form string `json:"form"`
}

// Issuer signs and verifies form tokens with an HS256 key.
type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

// NewIssuer builds an issuer. key must be at least MinKeyLength bytes.
func NewIssuer(key []byte, ttl time.Duration, opts ...Option) (*Issuer, error) {
	if len(key) < MinKeyLength {
		return nil, fmt.Errorf("form token key must be at least %d bytes", MinKeyLength)
	}
	if ttl <= 0 {
		return nil, errors.New("form token ttl must be positive")
	}
	i := &Issuer{key: append([]byte(nil), key...), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue returns a signed token binding form to subject.
func (i *Issuer) Issue(subject string, form string) (string, error) {
	now := i.now().UTC()
	claims := formClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strings.TrimSpace(subject),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Form: form,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign form token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry, subject and form of token.
func (i *Issuer) Verify(token string, subject string, form string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrInvalid
	}
	var parsed formClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if parsed.ID == "" || parsed.Subject != strings.TrimSpace(subject) || parsed.Form != form {
		return Claims{}, ErrInvalid
	}
	return Claims{
		ID:        parsed.ID,
		Subject:   parsed.Subject,
		Form:      parsed.Form,
		ExpiresAt: parsed.ExpiresAt.Time.UTC(),
	}, nil
}
