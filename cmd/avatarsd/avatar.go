package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	avatars "github.com/ferro-labs/avatars-external"
	"github.com/ferro-labs/avatars-external/internal/accounts"
	"github.com/ferro-labs/avatars-external/internal/admin"
	"github.com/ferro-labs/avatars-external/internal/logging"
	"github.com/ferro-labs/avatars-external/internal/metrics"
	"github.com/ferro-labs/avatars-external/providers"
)

// sizeParam is the query parameter carrying the requested image size.
const sizeParam = "s"

// avatarInfo is the JSON body of GET /v1/avatars/{account}.
type avatarInfo struct {
	AccountID       int    `json:"account_id"`
	Username        string `json:"username,omitempty"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	ChangeAvatarURL string `json:"change_avatar_url,omitempty"`
}

// avatarHandler handles GET /avatar/{account}. It redirects to the resolved
// avatar, then to the default avatar, and answers 404 when neither exists.
// An unknown account or any directory failure gets the default avatar.
func avatarHandler(res *avatars.Resolver, dir accounts.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		size, err := parseSize(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		user, err := accounts.Lookup(r.Context(), dir, chi.URLParam(r, "account"))
		switch {
		case err == nil:
			if u, ok := res.AvatarURL(r.Context(), user, size); ok {
				http.Redirect(w, r, u, http.StatusFound)
				return
			}
		case errors.Is(err, accounts.ErrNotFound):
		default:
			logging.FromContext(r.Context()).Warn("account lookup failed, serving default avatar",
				"account", chi.URLParam(r, "account"),
				"error", err,
			)
		}

		if def := res.DefaultAvatarURL(); def != "" {
			http.Redirect(w, r, def, http.StatusFound)
			return
		}
		writeError(w, http.StatusNotFound, "no avatar available")
	}
}

// changeAvatarHandler handles GET /avatar/{account}/change.
func changeAvatarHandler(res *avatars.Resolver, dir accounts.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := lookupAccount(w, r, dir)
		if !ok {
			return
		}
		u, ok := res.ChangeAvatarURL(r.Context(), user)
		if !ok {
			writeError(w, http.StatusNotFound, "changing the avatar is not supported")
			return
		}
		http.Redirect(w, r, u, http.StatusFound)
	}
}

// avatarInfoHandler handles GET /v1/avatars/{account}.
func avatarInfoHandler(res *avatars.Resolver, dir accounts.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		size, err := parseSize(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		user, ok := lookupAccount(w, r, dir)
		if !ok {
			return
		}

		info := avatarInfo{AccountID: user.AccountID, Username: user.Username}
		info.AvatarURL, _ = res.AvatarURL(r.Context(), user, size)
		info.ChangeAvatarURL, _ = res.ChangeAvatarURL(r.Context(), user)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(info)
	}
}

func lookupAccount(w http.ResponseWriter, r *http.Request, dir accounts.Directory) (providers.User, bool) {
	user, err := accounts.Lookup(r.Context(), dir, chi.URLParam(r, "account"))
	if errors.Is(err, accounts.ErrNotFound) {
		writeError(w, http.StatusNotFound, "account not found")
		return providers.User{}, false
	}
	if err != nil {
		lookupFailed(w, r, err)
		return providers.User{}, false
	}
	return user, true
}

func lookupFailed(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("account lookup failed",
		"account", chi.URLParam(r, "account"),
		"error", err,
	)
	if errors.Is(err, accounts.ErrUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "account directory unavailable")
		return
	}
	writeError(w, http.StatusInternalServerError, "account lookup failed")
}

// parseSize reads the optional size parameter. Absent means no size.
func parseSize(r *http.Request) (int, error) {
	raw := r.URL.Query().Get(sizeParam)
	if raw == "" {
		return 0, nil
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size < 0 {
		return 0, errors.New("s must be a non-negative integer")
	}
	return size, nil
}

// writeError writes the service's JSON error body with the type and code
// derived from status.
func writeError(w http.ResponseWriter, status int, message string) {
	admin.WriteError(w, status, message, "", "")
}

// countRequests records every response in avatars_http_requests_total,
// labelled with the matched route pattern.
func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}
