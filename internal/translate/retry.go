package translate

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	simplejson "github.com/bitly/go-simplejson"

	"github.com/ecomkassa/ferma-gateway/internal/atol"
	"github.com/ecomkassa/ferma-gateway/internal/model"
)

// expiredTokenMarker is the upstream's literal error code for a dead token.
const expiredTokenMarker = "ExpiredToken"

// CallFunc performs one outbound call with the given token.
type CallFunc func(ctx context.Context, token string) (*atol.Response, error)

// AuthFunc exchanges credentials for a fresh token.
type AuthFunc func(ctx context.Context, cred model.AuthCredential) (string, error)

// ExpiryPredicate reports whether a response signals an expired or invalid
// token.
type ExpiryPredicate func(*atol.Response) bool

// IsTokenExpired is the default expiry predicate: HTTP 401, or a body
// carrying the upstream's ExpiredToken marker.
func IsTokenExpired(resp *atol.Response) bool {
	if resp == nil {
		return false
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return true
	}

	js, err := simplejson.NewJson(resp.Body)
	if err != nil {
		return false
	}
	if code, err := js.GetPath("error", "code").String(); err == nil && code == expiredTokenMarker {
		return true
	}
	if code, err := js.Get("code").String(); err == nil && code == expiredTokenMarker {
		return true
	}
	// The error field is sometimes a plain string rather than an object.
	if s, err := js.Get("error").String(); err == nil {
		return strings.Contains(s, expiredTokenMarker)
	}
	return strings.Contains(js.GetPath("error", "text").MustString(), expiredTokenMarker)
}

// ExecuteWithRetry invokes call once. If isExpired reports a dead token and
// credentials are available, it re-authenticates exactly once, retries the
// call with the fresh token, and returns that second result regardless of
// outcome. At most one re-authentication happens per external request.
//
// Without credentials the original expired result is returned unchanged, and
// a failed re-authentication likewise falls back to the original result.
func ExecuteWithRetry(ctx context.Context, call CallFunc, isExpired ExpiryPredicate, token string, cred *model.AuthCredential, auth AuthFunc) (*atol.Response, error) {
	resp, err := call(ctx, token)
	if err != nil {
		return nil, err
	}
	if isExpired == nil {
		isExpired = IsTokenExpired
	}
	if !isExpired(resp) || cred == nil {
		return resp, nil
	}

	slog.Info("token expired, re-authenticating once", "credential", *cred)
	fresh, authErr := auth(ctx, *cred)
	if authErr != nil {
		slog.Warn("re-authentication failed, returning original result", "error", authErr)
		return resp, nil
	}

	return call(ctx, fresh)
}
