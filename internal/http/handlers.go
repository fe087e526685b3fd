package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"gofinances/internal/auth"
	"gofinances/internal/core"
	"gofinances/internal/ledger"
	"gofinances/internal/store"
)

// handleHealth performs a basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type sessionResponse struct {
	Restoring bool           `json:"restoring"`
	SignedIn  bool           `json:"signed_in"`
	User      *core.Identity `json:"user,omitempty"`
}

// handleSession reports the current session state.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}

	resp := sessionResponse{Restoring: s.sessions.Restoring()}
	if current := s.sessions.Current(); !current.IsZero() {
		resp.SignedIn = true
		resp.User = &current
	}
	writeJSON(w, http.StatusOK, resp)
}

type signInRequest struct {
	Provider core.Provider `json:"provider"`
}

// handleSignIn runs the provider handshake and returns the new identity.
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
		return
	}

	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	identity, err := s.sessions.SignIn(r.Context(), req.Provider)
	if err != nil {
		s.writeSignInError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

func (s *Server) writeSignInError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, auth.ErrHandshakeAborted) {
		writeError(w, http.StatusConflict, "sign_in_aborted", "the sign-in flow was cancelled")
		return
	}
	if errors.Is(err, core.ErrUnknownProvider) {
		writeError(w, http.StatusBadRequest, "unknown_provider", err.Error())
		return
	}

	var providerErr *auth.ProviderResponseError
	if errors.As(err, &providerErr) {
		slog.ErrorContext(r.Context(), "Provider rejected sign-in", "error", err)
		writeError(w, http.StatusBadGateway, "provider_error", "the identity provider rejected the request")
		return
	}

	slog.ErrorContext(r.Context(), "Sign-in failed", "error", err)
	writeError(w, http.StatusUnauthorized, "authentication_failed", "could not establish a session")
}

// handleSignOut ends the session. Idempotent.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
		return
	}

	if err := s.sessions.SignOut(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Sign-out failed", "error", err)
		writeError(w, http.StatusInternalServerError, "sign_out_failed", "could not remove the session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDashboard returns the summary and transaction list for the signed-in
// user.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}

	current := s.sessions.Current()
	if current.IsZero() {
		writeError(w, http.StatusUnauthorized, "not_signed_in", "sign in to view the dashboard")
		return
	}

	dashboard, err := s.dashboard.Load(r.Context(), current.ID)
	if err != nil {
		var malformed *ledger.MalformedTransactionError
		if errors.As(err, &malformed) {
			slog.ErrorContext(r.Context(), "Stored ledger is malformed", "user_id", current.ID, "error", err)
			writeError(w, http.StatusUnprocessableEntity, "malformed_ledger", malformed.Error())
			return
		}
		var ioErr *store.IOError
		if errors.As(err, &ioErr) {
			slog.ErrorContext(r.Context(), "Ledger read failed", "user_id", current.ID, "error", err)
			writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "could not read the ledger")
			return
		}
		slog.ErrorContext(r.Context(), "Dashboard load failed", "user_id", current.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not build the dashboard")
		return
	}

	writeJSON(w, http.StatusOK, dashboard)
}
