package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dmarquezf/bazaar-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID echoes the inbound correlation id, minting one when the client
// did not send any, and tags the request logger with it.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
