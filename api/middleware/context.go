package middleware

import (
	"context"

	pkgAuth "github.com/angelmondragon/bazaar-backend/pkg/auth"
)

type contextKey int

const (
	shopperKey contextKey = iota
	cartSessionKey
)

func fromContext[T any](ctx context.Context, key contextKey) (T, bool) {
	var zero T
	if ctx == nil {
		return zero, false
	}
	v, ok := ctx.Value(key).(T)
	return v, ok
}

func withValue(ctx context.Context, key contextKey, v any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, v)
}

// WithShopper binds the authenticated shopper to ctx.
func WithShopper(ctx context.Context, who pkgAuth.Shopper) context.Context {
	return withValue(ctx, shopperKey, who)
}

// ShopperFromContext returns the shopper set by Auth, if any.
func ShopperFromContext(ctx context.Context) (pkgAuth.Shopper, bool) {
	return fromContext[pkgAuth.Shopper](ctx, shopperKey)
}

func UserIDFromContext(ctx context.Context) string {
	who, _ := ShopperFromContext(ctx)
	return who.UserID
}

// WithCartSession binds the anonymous cart session id.
func WithCartSession(ctx context.Context, session string) context.Context {
	return withValue(ctx, cartSessionKey, session)
}

func CartSessionFromContext(ctx context.Context) string {
	session, _ := fromContext[string](ctx, cartSessionKey)
	return session
}
