package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/solehaus/wholesale-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID propagates a caller supplied X-Request-Id when it is a UUID and
// mints a fresh one otherwise.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if parsed, err := uuid.Parse(reqID); err == nil {
				reqID = parsed.String()
			} else {
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
