package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/ganot/tasktrack/internal/auth"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// callerFrom returns the principal injected by the auth middleware.
func callerFrom(ctx context.Context) (auth.Principal, error) {
	p, ok := auth.FromContext(ctx)
	if !ok || p.TenantID == "" {
		return auth.Principal{}, auth.ErrUnauthorized
	}
	return p, nil
}

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(resolver auth.Resolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Skip auth for protocol methods
			if method == "initialize" || method == "ping" {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, errors.New("unauthorized: missing headers")
			}
			if resolver == nil {
				return nil, errors.New("unauthorized: no key resolver configured")
			}

			p, err := auth.Authenticate(ctx, resolver, extra.Header.Get("Authorization"))
			if errors.Is(err, auth.ErrUnauthorized) {
				return nil, fmt.Errorf("unauthorized: %w", err)
			}
			if err != nil {
				return nil, fmt.Errorf("authentication unavailable: %w", err)
			}

			return next(auth.WithPrincipal(ctx, p), method, req)
		}
	}
}

// noAuthMiddleware injects a default tenant when auth is disabled. The user
// is left empty so tools fall back to their user_id input.
func noAuthMiddleware(defaultTenant string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx = auth.WithPrincipal(ctx, auth.Principal{TenantID: defaultTenant})
			return next(ctx, method, req)
		}
	}
}
