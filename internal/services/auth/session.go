// Package auth reads the session tokens issued by the content API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("session expired")
)

// Claims are the claims the content API puts in a session JWT
type Claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// Inspector reads session JWTs without verifying their signature. The
// signing secret belongs to the content API, so a token that passes here
// can still be rejected there.
type Inspector struct {
	parser *jwt.Parser
	now    func() time.Time
	leeway time.Duration
}

// InspectorOption configures an Inspector
type InspectorOption func(*Inspector)

// WithClock sets the clock expiry is checked against
func WithClock(now func() time.Time) InspectorOption {
	return func(i *Inspector) {
		i.now = now
	}
}

// WithLeeway tolerates clock skew between this service and the content API
func WithLeeway(d time.Duration) InspectorOption {
	return func(i *Inspector) {
		i.leeway = d
	}
}

// NewInspector creates an Inspector
func NewInspector(opts ...InspectorOption) *Inspector {
	i := &Inspector{
		parser: jwt.NewParser(),
		now:    time.Now,
		leeway: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Inspect decodes the claims of token
func (i *Inspector) Inspect(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// CheckSession returns ErrTokenExpired when token is a JWT whose expiry has
// passed. Tokens that do not decode are left for the content API to judge.
func (i *Inspector) CheckSession(token string) error {
	claims, err := i.Inspect(token)
	if err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	if i.now().After(claims.ExpiresAt.Add(i.leeway)) {
		return ErrTokenExpired
	}
	return nil
}
