package gateway

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSignInParsesSession(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected grant_type %q", r.URL.Query().Get("grant_type"))
		}
		if r.Header.Get("apikey") != "anon-key" {
			t.Errorf("missing apikey header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"access_token": "token-123",
			"refresh_token": "refresh-456",
			"expires_in": 3600,
			"user": {"id": "user-1", "email": "test@example.com"}
		}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "anon-key")
	session, err := c.SignIn("test@example.com", "secret")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if session.UserID != "user-1" || session.Email != "test@example.com" {
		t.Errorf("unexpected session: %+v", session)
	}
	if session.AccessToken != "token-123" || session.RefreshToken != "refresh-456" {
		t.Errorf("unexpected tokens: %+v", session)
	}
	if session.Expired() {
		t.Errorf("fresh session reported expired")
	}
}

func TestSignInBadCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "invalid_grant", "error_description": "Invalid login credentials"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "anon-key")
	_, err := c.SignIn("test@example.com", "wrong")
	if err == nil {
		t.Fatal("SignIn() expected error")
	}
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %T: %v", err, err)
	}
	if authErr.Message != "Invalid login credentials" {
		t.Errorf("unexpected message %q", authErr.Message)
	}
}

func TestSelectOneNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// PostgREST отвечает 406 на единственный объект при пустой выборке
		w.WriteHeader(http.StatusNotAcceptable)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "anon-key")
	_, err := c.SelectOne("token", "subscriptions", Filter{"user_id": "user-1", "status": "active"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSelectManyBuildsFilters(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name": "Omelete", "calories": 320}]`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "anon-key")
	raw, err := c.SelectMany("token", "meals", Filter{"user_id": "user-1"}, "created_at.asc")
	if err != nil {
		t.Fatalf("SelectMany() error = %v", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(raw, &rows); err != nil {
		t.Fatalf("unmarshal rows: %v", err)
	}
	if len(rows) != 1 || rows[0]["name"] != "Omelete" {
		t.Errorf("unexpected rows: %+v", rows)
	}

	for _, want := range []string{"user_id=eq.user-1", "order=created_at.asc", "select=%2A"} {
		if !containsParam(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestUpsertSetsConflictKeys(t *testing.T) {
	var gotConflict, gotPrefer string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotConflict = r.URL.Query().Get("on_conflict")
		gotPrefer = r.Header.Get("Prefer")
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "anon-key")
	record := map[string]interface{}{"user_id": "user-1", "glasses": 3, "target": 8, "date": "2026-08-29"}
	if err := c.Upsert("token", "water_intake", record, "user_id,date"); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if gotConflict != "user_id,date" {
		t.Errorf("on_conflict = %q, want user_id,date", gotConflict)
	}
	if gotPrefer != "resolution=merge-duplicates" {
		t.Errorf("Prefer = %q", gotPrefer)
	}
}

func TestSessionFromTokenClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	token := makeToken(t, map[string]interface{}{
		"sub":   "user-9",
		"email": "jwt@example.com",
		"exp":   exp,
	})

	session, err := newSession(authResponse{AccessToken: token, RefreshToken: "r"})
	if err != nil {
		t.Fatalf("newSession() error = %v", err)
	}
	if session.UserID != "user-9" || session.Email != "jwt@example.com" {
		t.Errorf("unexpected session: %+v", session)
	}
	if session.ExpiresAt.Unix() != exp {
		t.Errorf("ExpiresAt = %v, want unix %d", session.ExpiresAt, exp)
	}
}

func containsParam(query, param string) bool {
	for _, part := range splitQuery(query) {
		if part == param {
			return true
		}
	}
	return false
}

func splitQuery(query string) []string {
	var parts []string
	current := ""
	for _, r := range query {
		if r == '&' {
			parts = append(parts, current)
			current = ""
			continue
		}
		current += string(r)
	}
	return append(parts, current)
}

// makeToken собирает неподписанный JWT для тестов
func makeToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	header, _ := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte("sig"))
}
