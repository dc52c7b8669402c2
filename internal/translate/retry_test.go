package translate

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/ecomkassa/ferma-gateway/internal/atol"
	"github.com/ecomkassa/ferma-gateway/internal/model"
)

func TestIsTokenExpired(t *testing.T) {
	tests := []struct {
		name string
		resp *atol.Response
		want bool
	}{
		{"nil response", nil, false},
		{"http 401", &atol.Response{StatusCode: http.StatusUnauthorized, Body: []byte(`{}`)}, true},
		{
			"error object code",
			&atol.Response{StatusCode: 200, Body: []byte(`{"error":{"code":"ExpiredToken","text":"token expired"}}`)},
			true,
		},
		{
			"top-level code",
			&atol.Response{StatusCode: 200, Body: []byte(`{"code":"ExpiredToken"}`)},
			true,
		},
		{
			"marker inside error text",
			&atol.Response{StatusCode: 200, Body: []byte(`{"error":{"text":"ExpiredToken: please re-authenticate"}}`)},
			true,
		},
		{
			"plain string error",
			&atol.Response{StatusCode: 200, Body: []byte(`{"error":"ExpiredToken"}`)},
			true,
		},
		{
			"marker inside plain string error",
			&atol.Response{StatusCode: 200, Body: []byte(`{"error":"token check failed: ExpiredToken"}`)},
			true,
		},
		{
			"different plain string error",
			&atol.Response{StatusCode: 400, Body: []byte(`{"error":"group code unknown"}`)},
			false,
		},
		{"healthy response", &atol.Response{StatusCode: 200, Body: []byte(`{"uuid":"abc"}`)}, false},
		{"unparseable body", &atol.Response{StatusCode: 200, Body: []byte("garbage")}, false},
		{
			"different error code",
			&atol.Response{StatusCode: 400, Body: []byte(`{"error":{"code":"BadRequest"}}`)},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTokenExpired(tt.resp); got != tt.want {
				t.Errorf("IsTokenExpired = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExecuteWithRetryFreshToken(t *testing.T) {
	calls := 0
	doCall := func(ctx context.Context, token string) (*atol.Response, error) {
		calls++
		return &atol.Response{StatusCode: 200, Body: []byte(`{"uuid":"ok"}`)}, nil
	}
	auth := func(ctx context.Context, cred model.AuthCredential) (string, error) {
		t.Fatal("auth must not be called for a healthy token")
		return "", nil
	}

	cred := &model.AuthCredential{Login: "l", Password: "p"}
	resp, err := ExecuteWithRetry(context.Background(), doCall, nil, "tok", cred, auth)
	if err != nil {
		t.Fatalf("ExecuteWithRetry returned error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestExecuteWithRetryRefreshesOnce(t *testing.T) {
	var tokens []string
	doCall := func(ctx context.Context, token string) (*atol.Response, error) {
		tokens = append(tokens, token)
		if token == "stale" {
			return &atol.Response{StatusCode: http.StatusUnauthorized, Body: []byte(`{}`)}, nil
		}
		return &atol.Response{StatusCode: 200, Body: []byte(`{"uuid":"ok"}`)}, nil
	}

	authCalls := 0
	auth := func(ctx context.Context, cred model.AuthCredential) (string, error) {
		authCalls++
		return "fresh", nil
	}

	cred := &model.AuthCredential{Login: "l", Password: "p"}
	resp, err := ExecuteWithRetry(context.Background(), doCall, nil, "stale", cred, auth)
	if err != nil {
		t.Fatalf("ExecuteWithRetry returned error: %v", err)
	}
	if authCalls != 1 {
		t.Errorf("auth calls = %d, want exactly 1", authCalls)
	}
	if len(tokens) != 2 || tokens[0] != "stale" || tokens[1] != "fresh" {
		t.Errorf("call tokens = %v, want [stale fresh]", tokens)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200 from retried call", resp.StatusCode)
	}
}

func TestExecuteWithRetryStillExpiredAfterRefresh(t *testing.T) {
	calls := 0
	doCall := func(ctx context.Context, token string) (*atol.Response, error) {
		calls++
		return &atol.Response{StatusCode: http.StatusUnauthorized, Body: []byte(`{}`)}, nil
	}
	authCalls := 0
	auth := func(ctx context.Context, cred model.AuthCredential) (string, error) {
		authCalls++
		return "fresh", nil
	}

	cred := &model.AuthCredential{Login: "l", Password: "p"}
	resp, err := ExecuteWithRetry(context.Background(), doCall, nil, "stale", cred, auth)
	if err != nil {
		t.Fatalf("ExecuteWithRetry returned error: %v", err)
	}
	// Second result is final: no auth loop.
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if authCalls != 1 {
		t.Errorf("auth calls = %d, want 1", authCalls)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want the retried 401 surfaced", resp.StatusCode)
	}
}

func TestExecuteWithRetryWithoutCredentials(t *testing.T) {
	calls := 0
	doCall := func(ctx context.Context, token string) (*atol.Response, error) {
		calls++
		return &atol.Response{StatusCode: http.StatusUnauthorized, Body: []byte(`{}`)}, nil
	}
	auth := func(ctx context.Context, cred model.AuthCredential) (string, error) {
		t.Fatal("auth must not be called without stored credentials")
		return "", nil
	}

	resp, err := ExecuteWithRetry(context.Background(), doCall, nil, "stale", nil, auth)
	if err != nil {
		t.Fatalf("ExecuteWithRetry returned error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want original 401", resp.StatusCode)
	}
}

func TestExecuteWithRetryAuthFailure(t *testing.T) {
	calls := 0
	doCall := func(ctx context.Context, token string) (*atol.Response, error) {
		calls++
		return &atol.Response{StatusCode: http.StatusUnauthorized, Body: []byte(`{"original":true}`)}, nil
	}
	auth := func(ctx context.Context, cred model.AuthCredential) (string, error) {
		return "", errors.New("upstream down")
	}

	cred := &model.AuthCredential{Login: "l", Password: "p"}
	resp, err := ExecuteWithRetry(context.Background(), doCall, nil, "stale", cred, auth)
	if err != nil {
		t.Fatalf("ExecuteWithRetry returned error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want original call only", calls)
	}
	if string(resp.Body) != `{"original":true}` {
		t.Errorf("body = %s, want original response", resp.Body)
	}
}

func TestExecuteWithRetryTransportError(t *testing.T) {
	doCall := func(ctx context.Context, token string) (*atol.Response, error) {
		return nil, errors.New("connection refused")
	}
	auth := func(ctx context.Context, cred model.AuthCredential) (string, error) {
		t.Fatal("auth must not run after a transport failure")
		return "", nil
	}

	cred := &model.AuthCredential{Login: "l", Password: "p"}
	_, err := ExecuteWithRetry(context.Background(), doCall, nil, "tok", cred, auth)
	if err == nil {
		t.Fatal("expected transport error, got nil")
	}
}
