// Package admin provides HTTP handlers for the avatar service administration
// API. Routes manage the account directory and report the loaded providers.
// All admin routes are protected by bearer-token authentication via
// AuthMiddleware.
package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ferro-labs/avatars-external/internal/accounts"
	"github.com/ferro-labs/avatars-external/internal/logging"
	"github.com/ferro-labs/avatars-external/providers"
)

// ProviderLister lists the avatar providers in lookup order.
type ProviderLister interface {
	Providers() []string
}

// Handlers holds dependencies for admin HTTP handlers.
type Handlers struct {
	Accounts  accounts.Directory
	Providers ProviderLister
	// Warnings are configuration problems found at startup.
	Warnings []string
}

// Routes returns a chi.Router with all admin endpoints mounted.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(RequireScope(ScopeReadOnly, ScopeAdmin))
		r.Get("/accounts/{account}", h.getAccount)
		r.Get("/providers", h.listProviders)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireScope(ScopeAdmin))
		r.Put("/accounts/{id}", h.putAccount)
		r.Delete("/accounts/{id}", h.deleteAccount)
	})

	return r
}

func (h *Handlers) getAccount(w http.ResponseWriter, r *http.Request) {
	u, err := accounts.Lookup(r.Context(), h.Accounts, chi.URLParam(r, "account"))
	if errors.Is(err, accounts.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "account not found", "not_found_error", "resource_not_found")
		return
	}
	if err != nil {
		directoryFailed(w, r, "account lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handlers) putAccount(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		WriteError(w, http.StatusBadRequest, "id must be a non-negative integer", "invalid_request_error", "invalid_id")
		return
	}
	var body struct {
		Username       string `json:"username"`
		PreferredEmail string `json:"preferred_email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "invalid_request_error", "invalid_request")
		return
	}

	u := providers.User{AccountID: id, Username: body.Username, PreferredEmail: body.PreferredEmail}
	if err := h.Accounts.Put(r.Context(), u); err != nil {
		if errors.Is(err, accounts.ErrConflict) {
			WriteError(w, http.StatusConflict, "username already in use", "invalid_request_error", "conflict")
			return
		}
		directoryFailed(w, r, "account update failed", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handlers) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "id must be an integer", "invalid_request_error", "invalid_id")
		return
	}
	err = h.Accounts.Delete(r.Context(), id)
	if errors.Is(err, accounts.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "account not found", "not_found_error", "resource_not_found")
		return
	}
	if err != nil {
		directoryFailed(w, r, "account delete failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listProviders(w http.ResponseWriter, _ *http.Request) {
	names := []string{}
	if h.Providers != nil {
		names = append(names, h.Providers.Providers()...)
	}
	warnings := append([]string{}, h.Warnings...)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"providers": names,
		"warnings":  warnings,
	})
}

// directoryFailed answers 503 while the directory is unavailable and 500
// otherwise. The cause is logged, not returned.
func directoryFailed(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logging.FromContext(r.Context()).Error(msg, "error", err)
	if errors.Is(err, accounts.ErrUnavailable) {
		WriteError(w, http.StatusServiceUnavailable, "account directory unavailable", "server_error", "unavailable")
		return
	}
	WriteError(w, http.StatusInternalServerError, msg, "server_error", "internal_error")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
