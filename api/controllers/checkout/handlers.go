package checkout

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmejorado/agentic-checkout/api/responses"
	"github.com/dmejorado/agentic-checkout/api/validators"
	"github.com/dmejorado/agentic-checkout/internal/session"
	"github.com/dmejorado/agentic-checkout/pkg/logger"
)

// Create opens a new checkout session.
func Create(svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := svc.Create(r.Context(), toCreateInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newSessionView(sess))
	}
}

// Get returns the current session representation.
func Get(svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := svc.Get(r.Context(), sessionID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionView(sess))
	}
}

// Update applies a partial mutation and returns the recomputed session.
func Update(svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := svc.Update(r.Context(), sessionID(r), toUpdateInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionView(sess))
	}
}

// Cancel moves the session to its canceled terminal state.
func Cancel(svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := svc.Cancel(r.Context(), sessionID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionView(sess))
	}
}

// Complete charges the delegated payment token and mints the order.
func Complete(svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload completeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := svc.Complete(r.Context(), sessionID(r), toCompleteInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionView(sess))
	}
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "checkout_session_id")
}
