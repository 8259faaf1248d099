package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dmejorado/agentic-checkout/pkg/logger"
)

const (
	requestIDHeader      = "Request-Id"
	idempotencyKeyHeader = "Idempotency-Key"
)

// HeaderEcho mirrors the caller's Request-Id and Idempotency-Key onto the
// response exactly as received. Absent headers echo as empty values; the
// server never mints ids into either header. An internal uuid correlates log
// lines when the caller sent nothing.
func HeaderEcho(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			w.Header().Set(requestIDHeader, reqID)
			w.Header().Set(idempotencyKeyHeader, r.Header.Get(idempotencyKeyHeader))

			logID := reqID
			if logID == "" {
				logID = uuid.NewString()
			}

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, logID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
