package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/weaveai/weaveai-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID echoes a valid inbound X-Request-Id or mints a fresh UUID.
// Inbound values that are not UUIDs are replaced, not propagated.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(reqID); err != nil {
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
