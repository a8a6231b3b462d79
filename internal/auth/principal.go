// Package auth carries the authenticated caller between transports.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ganot/tasktrack/internal/repository"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Principal is the tenant and user a request acts for.
type Principal struct {
	TenantID string
	UserID   string
}

// Resolver resolves a principal from a bearer token.
type Resolver interface {
	ResolvePrincipal(ctx context.Context, token string) (Principal, error)
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored in ctx, if present.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < len("Bearer ") || !strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("Bearer "):])
}

// Authenticate resolves the principal behind an Authorization header value.
func Authenticate(ctx context.Context, resolver Resolver, header string) (Principal, error) {
	token := BearerToken(header)
	if token == "" {
		return Principal{}, ErrUnauthorized
	}
	p, err := resolver.ResolvePrincipal(ctx, token)
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, ErrUnauthorized) {
		return Principal{}, ErrUnauthorized
	}
	if err != nil {
		return Principal{}, fmt.Errorf("resolving api key: %w", err)
	}
	if p.TenantID == "" {
		return Principal{}, ErrUnauthorized
	}
	return p, nil
}
