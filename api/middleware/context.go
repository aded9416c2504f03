package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmarquezf/bazaar-backend/pkg/enums"
	"github.com/dmarquezf/bazaar-backend/pkg/token"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// PrincipalFromContext returns the authenticated identity, if any.
func PrincipalFromContext(ctx context.Context) (token.Identity, bool) {
	if ctx == nil {
		return token.Identity{}, false
	}
	identity, ok := ctx.Value(ctxPrincipal).(token.Identity)
	return identity, ok
}

// UserIDFromContext returns the authenticated user id, or uuid.Nil when the
// caller is not a user.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	identity, ok := PrincipalFromContext(ctx)
	if !ok || identity.Kind != enums.ActorKindUser {
		return uuid.Nil
	}
	return identity.ID
}

// VendorIDFromContext returns the authenticated vendor id, or uuid.Nil when
// the caller is not a vendor.
func VendorIDFromContext(ctx context.Context) uuid.UUID {
	identity, ok := PrincipalFromContext(ctx)
	if !ok || identity.Kind != enums.ActorKindVendor {
		return uuid.Nil
	}
	return identity.ID
}

// WithPrincipal injects the authenticated identity into the context.
func WithPrincipal(ctx context.Context, identity token.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, identity)
}
