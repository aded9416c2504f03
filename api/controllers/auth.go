package controllers

import (
	"net/http"
	"strings"

	"github.com/dmarquezf/bazaar-backend/api/responses"
	"github.com/dmarquezf/bazaar-backend/internal/auth"
	pkgerrors "github.com/dmarquezf/bazaar-backend/pkg/errors"
	"github.com/dmarquezf/bazaar-backend/pkg/logger"
)

// Connect exchanges Basic credentials for an opaque session token.
func Connect(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="bazaar"`)
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "basic credentials required"))
			return
		}

		result, err := svc.Connect(r.Context(), username, password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("X-Token", result.Token)
		responses.WriteSuccess(w, result)
	}
}

// Disconnect revokes the presented session token.
func Disconnect(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		tok := strings.TrimSpace(r.Header.Get("X-Token"))
		if err := svc.Disconnect(r.Context(), tok); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
