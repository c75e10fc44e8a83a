package bot

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"fitprobot/clients/gateway"
	"fitprobot/internal/prefs"
)

func newTestPrefs(t *testing.T) *prefs.Store {
	t.Helper()
	store, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("prefs.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEnsureFreshSessionRefreshesExpiredToken(t *testing.T) {
	chatID := int64(777300)
	t.Cleanup(func() { resetAppState(chatID) })

	var refreshCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "refresh_token" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["refresh_token"] != "refresh-old" {
			t.Errorf("refresh_token = %q, want refresh-old", body["refresh_token"])
		}
		refreshCalls++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "access-new",
			"refresh_token": "refresh-new",
			"expires_in":    3600,
			"user":          map[string]string{"id": "user-7", "email": "fresh@example.com"},
		})
	}))
	defer srv.Close()

	b := &Bot{
		gateway: gateway.NewClient(srv.URL, "anon-key"),
		prefs:   newTestPrefs(t),
	}

	withState(chatID, func(s *AppState) {
		s.Session = &gateway.Session{
			UserID:       "user-7",
			AccessToken:  "access-old",
			RefreshToken: "refresh-old",
			ExpiresAt:    time.Now().Add(-time.Minute),
		}
	})

	session := b.ensureFreshSession(chatID)
	if session == nil {
		t.Fatal("ensureFreshSession() = nil, want refreshed session")
	}
	if session.AccessToken != "access-new" {
		t.Errorf("AccessToken = %q, want access-new", session.AccessToken)
	}
	if refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want 1", refreshCalls)
	}

	state := getAppState(chatID)
	appStates.RLock()
	stored := state.Session
	appStates.RUnlock()
	if stored == nil || stored.AccessToken != "access-new" {
		t.Errorf("state session = %+v, want refreshed", stored)
	}

	saved, err := b.prefs.Get(chatID, prefs.KeyRefreshToken)
	if err != nil || saved != "refresh-new" {
		t.Errorf("saved refresh token = %q (err %v), want refresh-new", saved, err)
	}
}

func TestEnsureFreshSessionKeepsValidToken(t *testing.T) {
	chatID := int64(777301)
	t.Cleanup(func() { resetAppState(chatID) })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request for valid session: %s %s", r.Method, r.URL)
	}))
	defer srv.Close()

	b := &Bot{gateway: gateway.NewClient(srv.URL, "anon-key")}

	live := &gateway.Session{
		UserID:       "user-8",
		AccessToken:  "access-live",
		RefreshToken: "refresh-live",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	withState(chatID, func(s *AppState) {
		s.Session = live
	})

	if got := b.ensureFreshSession(chatID); got != live {
		t.Errorf("ensureFreshSession() = %+v, want untouched session", got)
	}
}

func TestEnsureFreshSessionDropsRevokedToken(t *testing.T) {
	chatID := int64(777302)
	t.Cleanup(func() { resetAppState(chatID) })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid Refresh Token"})
	}))
	defer srv.Close()

	store := newTestPrefs(t)
	if err := store.Set(chatID, prefs.KeyRefreshToken, "refresh-revoked"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	b := &Bot{
		gateway: gateway.NewClient(srv.URL, "anon-key"),
		prefs:   store,
	}

	withState(chatID, func(s *AppState) {
		s.Session = &gateway.Session{
			UserID:       "user-9",
			AccessToken:  "access-dead",
			RefreshToken: "refresh-revoked",
			ExpiresAt:    time.Now().Add(-time.Hour),
		}
	})

	if got := b.ensureFreshSession(chatID); got != nil {
		t.Errorf("ensureFreshSession() = %+v, want nil for revoked token", got)
	}
	if saved, err := store.Get(chatID, prefs.KeyRefreshToken); err != nil || saved != "" {
		t.Errorf("stored refresh token = %q (err %v), want removed", saved, err)
	}
}
