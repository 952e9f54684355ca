package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ferro-labs/avatars-external/internal/accounts"
	"github.com/ferro-labs/avatars-external/providers"
)

const (
	adminToken    = "admin-token"
	readOnlyToken = "read-token"
)

type staticProviders []string

func (s staticProviders) Providers() []string { return s }

func setupTestRouter(t *testing.T) (*accounts.Memory, chi.Router) {
	t.Helper()
	dir := accounts.NewMemory()
	if err := dir.Put(context.Background(), providers.User{AccountID: 1, Username: "JDoe", PreferredEmail: "john.doe@example.com"}); err != nil {
		t.Fatal(err)
	}
	h := &Handlers{
		Accounts:  dir,
		Providers: staticProviders{"avatars-external"},
		Warnings:  []string{"provider \"x\": url is not configured"},
	}
	r := chi.NewRouter()
	r.Use(AuthMiddleware(Tokens{adminToken: ScopeAdmin, readOnlyToken: ScopeReadOnly}))
	r.Mount("/admin", h.Routes())
	return dir, r
}

func authedRequest(method, url, body, token string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, bytes.NewBufferString(body))
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestGetAccount(t *testing.T) {
	_, r := setupTestRouter(t)

	for _, key := range []string{"1", "JDoe"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, authedRequest(http.MethodGet, "/admin/accounts/"+key, "", readOnlyToken))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, want 200", key, w.Code)
		}
		var u providers.User
		if err := json.NewDecoder(w.Body).Decode(&u); err != nil {
			t.Fatal(err)
		}
		if u.AccountID != 1 || u.Username != "JDoe" {
			t.Errorf("%s: got %+v", key, u)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/admin/accounts/nobody", "", readOnlyToken))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestPutAccount(t *testing.T) {
	dir, r := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPut, "/admin/accounts/2", `{"username":"asmith","preferred_email":"a@example.com"}`, adminToken))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	u, err := dir.ByID(context.Background(), 2)
	if err != nil || u.PreferredEmail != "a@example.com" {
		t.Errorf("got %+v, %v", u, err)
	}
}

func TestPutAccount_Errors(t *testing.T) {
	_, r := setupTestRouter(t)
	tests := []struct {
		name  string
		path  string
		body  string
		token string
		want  int
	}{
		{"read only token", "/admin/accounts/2", `{"username":"x"}`, readOnlyToken, http.StatusForbidden},
		{"bad id", "/admin/accounts/abc", `{"username":"x"}`, adminToken, http.StatusBadRequest},
		{"bad body", "/admin/accounts/2", `{`, adminToken, http.StatusBadRequest},
		{"username taken", "/admin/accounts/2", `{"username":"JDoe"}`, adminToken, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, authedRequest(http.MethodPut, tt.path, tt.body, tt.token))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestDeleteAccount(t *testing.T) {
	dir, r := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodDelete, "/admin/accounts/1", "", adminToken))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if _, err := dir.ByID(context.Background(), 1); err == nil {
		t.Error("account should be gone")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodDelete, "/admin/accounts/1", "", adminToken))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestListProviders(t *testing.T) {
	_, r := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/admin/providers", "", readOnlyToken))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Providers []string `json:"providers"`
		Warnings  []string `json:"warnings"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Providers) != 1 || body.Providers[0] != "avatars-external" {
		t.Errorf("providers = %v", body.Providers)
	}
	if len(body.Warnings) != 1 {
		t.Errorf("warnings = %v", body.Warnings)
	}
}

type failingDirectory struct {
	*accounts.Memory
	err error
}

func (f failingDirectory) Put(context.Context, providers.User) error { return f.err }

func TestPutAccount_DirectoryErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"conflict", accounts.ErrConflict, http.StatusConflict},
		{"breaker open", accounts.ErrUnavailable, http.StatusServiceUnavailable},
		{"driver error", errors.New("dial tcp: connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handlers{Accounts: failingDirectory{Memory: accounts.NewMemory(), err: tt.err}}
			r := chi.NewRouter()
			r.Use(AuthMiddleware(Tokens{adminToken: ScopeAdmin}))
			r.Mount("/admin", h.Routes())

			w := httptest.NewRecorder()
			r.ServeHTTP(w, authedRequest(http.MethodPut, "/admin/accounts/1", `{"username":"jdoe"}`, adminToken))
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			if strings.Contains(w.Body.String(), "dial tcp") {
				t.Errorf("driver error leaked into response: %s", w.Body.String())
			}
			var body struct {
				Error struct {
					Message string `json:"message"`
					Type    string `json:"type"`
					Code    string `json:"code"`
				} `json:"error"`
			}
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Error.Message == "" || body.Error.Type == "" || body.Error.Code == "" {
				t.Errorf("incomplete error body: %+v", body.Error)
			}
		})
	}
}
