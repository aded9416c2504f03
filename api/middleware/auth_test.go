package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarquezf/bazaar-backend/pkg/enums"
	pkgerrors "github.com/dmarquezf/bazaar-backend/pkg/errors"
	"github.com/dmarquezf/bazaar-backend/pkg/token"
)

type fakeResolver struct {
	identities map[string]token.Identity
}

func (f *fakeResolver) Resolve(_ context.Context, value string) (token.Identity, error) {
	identity, ok := f.identities[value]
	if !ok {
		return token.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired token")
	}
	return identity, nil
}

func okHandler(captured *token.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := PrincipalFromContext(r.Context()); ok && captured != nil {
			*captured = identity
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMissingHeader(t *testing.T) {
	handler := Auth(&fakeResolver{}, nil)(okHandler(nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthUnknownToken(t *testing.T) {
	handler := Auth(&fakeResolver{}, nil)(okHandler(nil))

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Token", "nope")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthSeedsPrincipal(t *testing.T) {
	userID := uuid.New()
	resolver := &fakeResolver{identities: map[string]token.Identity{
		"good": {Kind: enums.ActorKindUser, ID: userID},
	}}

	var captured token.Identity
	handler := Auth(resolver, nil)(okHandler(&captured))

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Token", "good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, enums.ActorKindUser, captured.Kind)
	assert.Equal(t, userID, captured.ID)
}

func TestRequireUserRejectsVendorToken(t *testing.T) {
	handler := RequireUser(nil)(okHandler(nil))

	r := httptest.NewRequest("GET", "/", nil)
	ctx := WithPrincipal(r.Context(), token.Identity{Kind: enums.ActorKindVendor, ID: uuid.New()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r.WithContext(ctx))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireVendorWithoutPrincipal(t *testing.T) {
	handler := RequireVendor(nil)(okHandler(nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserIDFromContextKindMismatch(t *testing.T) {
	ctx := WithPrincipal(context.Background(), token.Identity{Kind: enums.ActorKindVendor, ID: uuid.New()})

	assert.Equal(t, uuid.Nil, UserIDFromContext(ctx))
	assert.NotEqual(t, uuid.Nil, VendorIDFromContext(ctx))
}
