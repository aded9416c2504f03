package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmarquezf/bazaar-backend/api/responses"
	"github.com/dmarquezf/bazaar-backend/pkg/enums"
	pkgerrors "github.com/dmarquezf/bazaar-backend/pkg/errors"
	"github.com/dmarquezf/bazaar-backend/pkg/logger"
	"github.com/dmarquezf/bazaar-backend/pkg/token"
)

const tokenHeader = "X-Token"

// tokenResolver looks up the identity an opaque token was issued for.
type tokenResolver interface {
	Resolve(ctx context.Context, value string) (token.Identity, error)
}

// Auth resolves the X-Token header and seeds the request context with the
// authenticated principal.
func Auth(store tokenResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(tokenHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			identity, err := store.Resolve(r.Context(), raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithPrincipal(r.Context(), identity)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"actor_kind": identity.Kind.String(),
					"actor_id":   identity.ID.String(),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects callers whose principal is not a user account.
func RequireUser(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireKind(enums.ActorKindUser, "user account required", logg)
}

// RequireVendor rejects callers whose principal is not a vendor account.
func RequireVendor(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireKind(enums.ActorKindVendor, "vendor account required", logg)
}

func requireKind(kind enums.ActorKind, message string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := PrincipalFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			if identity.Kind != kind {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, message))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
