package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/dmejorado/agentic-checkout/api/responses"
	"github.com/dmejorado/agentic-checkout/pkg/logger"
)

// Pinger is any dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every wired backing service. Nil pingers (backends not
// configured for this deployment) are skipped.
func HealthReady(logg *logger.Logger, pingers map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := map[string]string{}
		for name, pinger := range pingers {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(ctx); err != nil {
				checks[name] = "unreachable"
				status = http.StatusServiceUnavailable
				if logg != nil {
					logg.Error(ctx, "readiness check failed", err)
				}
				continue
			}
			checks[name] = "ok"
		}

		body := map[string]any{"status": "ready"}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		if len(checks) > 0 {
			body["checks"] = checks
		}
		responses.WriteSuccessStatus(w, status, body)
	}
}
