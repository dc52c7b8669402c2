package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func login(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"login":"admin","password":"panel-secret"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d\n%s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	upstream := &fakeUpstream{handler: func(call upstreamCall) (int, string) { return 200, `{}` }}
	h, _ := newTestServer(t, upstream, nil)

	rec, _ := doJSON(t, h, http.MethodPost, "/api/login", `{"login":"admin","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAdminEndpointsRequireSession(t *testing.T) {
	upstream := &fakeUpstream{handler: func(call upstreamCall) (int, string) { return 200, `{}` }}
	h, _ := newTestServer(t, upstream, nil)

	paths := []string{"/api/check", "/api/logs", "/api/request-logs", "/api/stats"}
	for _, path := range paths {
		rec, _ := doJSON(t, h, http.MethodGet, path, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without session = %d, want 401", path, rec.Code)
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	upstream := &fakeUpstream{handler: func(call upstreamCall) (int, string) { return 200, `{}` }}
	h, _ := newTestServer(t, upstream, nil)

	cookie := login(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/check", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("check with session = %d, want 200", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["authenticated"] != true || body["login"] != "admin" {
		t.Errorf("check body = %v", body)
	}

	// Logout invalidates the session.
	req = httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/check", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("check after logout = %d, want 401", rec.Code)
	}
}

func TestRequestLogBrowsing(t *testing.T) {
	upstream := &fakeUpstream{handler: func(call upstreamCall) (int, string) {
		return 200, `{"uuid":"doc-1"}`
	}}
	h, _ := newTestServer(t, upstream, nil)

	// Generate one audit entry via the public surface.
	doJSON(t, h, http.MethodPost, "/api/kkt/cloud/receipt",
		`{"token":"t","Request":{"CustomerReceipt":{"Items":[{"Label":"x","Price":1,"Quantity":1}]}}}`)

	cookie := login(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/request-logs?operation=receipt", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d\n%s", rec.Code, rec.Body.String())
	}

	var listing struct {
		Logs  []map[string]interface{} `json:"logs"`
		Count int                      `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatal(err)
	}
	if listing.Count != 1 {
		t.Fatalf("count = %d, want 1", listing.Count)
	}
	entry := listing.Logs[0]
	if entry["operation"] != "receipt" {
		t.Errorf("operation = %v", entry["operation"])
	}

	// Fetch the single entry by id.
	id := int64(entry["id"].(float64))
	req = httptest.NewRequest(http.MethodGet, "/api/request-logs/"+strconv.FormatInt(id, 10), nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get = %d\n%s", rec.Code, rec.Body.String())
	}
}

func TestReplay(t *testing.T) {
	upstream := &fakeUpstream{handler: func(call upstreamCall) (int, string) {
		return 200, `{"uuid":"doc-1"}`
	}}
	h, _ := newTestServer(t, upstream, nil)

	doJSON(t, h, http.MethodPost, "/api/kkt/cloud/receipt",
		`{"token":"t","Request":{"CustomerReceipt":{"Items":[{"Label":"x","Price":1,"Quantity":1}]}}}`)

	cookie := login(t, h)

	req := httptest.NewRequest(http.MethodPost, "/api/request-logs/1/replay", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("replay = %d\n%s", rec.Code, rec.Body.String())
	}

	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result["status"].(float64) != 200 {
		t.Errorf("replay status = %v", result["status"])
	}

	// Original call plus the replayed one.
	if len(upstream.calls) != 2 {
		t.Fatalf("upstream calls = %d, want 2", len(upstream.calls))
	}
	if upstream.calls[1].Path != upstream.calls[0].Path {
		t.Errorf("replay path = %q, want original %q", upstream.calls[1].Path, upstream.calls[0].Path)
	}
	if string(upstream.calls[1].Body) != string(upstream.calls[0].Body) {
		t.Error("replay body differs from the original outbound body")
	}
}

func TestStats(t *testing.T) {
	upstream := &fakeUpstream{handler: func(call upstreamCall) (int, string) {
		return 200, `{"uuid":"doc-1"}`
	}}
	h, _ := newTestServer(t, upstream, nil)

	doJSON(t, h, http.MethodPost, "/api/kkt/cloud/receipt",
		`{"token":"t","Request":{"CustomerReceipt":{"Items":[{"Label":"x","Price":1,"Quantity":1}]}}}`)

	cookie := login(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats = %d\n%s", rec.Code, rec.Body.String())
	}

	var stats map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats["total"].(float64) != 1 {
		t.Errorf("total = %v, want 1", stats["total"])
	}
}
