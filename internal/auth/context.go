// ABOUTME: Request context plumbing for the authenticated store identity
// ABOUTME: Provides WithStore/StoreFromContext used by middleware and handlers

package auth

import (
	"context"
)

// storeContextKey is the key type for storing the authenticated store
// ID in context.Context.
type storeContextKey struct{}

// WithStore returns a new context with the authenticated store ID attached.
func WithStore(ctx context.Context, storeID string) context.Context {
	return context.WithValue(ctx, storeContextKey{}, storeID)
}

// StoreFromContext retrieves the authenticated store ID from the
// context. The second return is false if no session was attached.
func StoreFromContext(ctx context.Context) (string, bool) {
	storeID, ok := ctx.Value(storeContextKey{}).(string)
	return storeID, ok
}

// tokenContextKey is the key type for the raw bearer token, kept so
// the logout handler can revoke the session it was called with.
type tokenContextKey struct{}

// withToken attaches the raw session token to the context.
func withToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext retrieves the raw session token from the context.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey{}).(string)
	return token, ok
}
