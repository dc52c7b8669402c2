package ferma

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ecomkassa/ferma-gateway/internal/model"
)

func TestSuccessEnvelopeShape(t *testing.T) {
	env := Success(AuthData{AuthToken: "abc", ExpirationDateUtc: "2030-12-31T23:59:59"})

	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	s := string(raw)

	for _, key := range []string{`"Status":"Success"`, `"AuthToken":"abc"`, `"ExpirationDateUtc"`} {
		if !strings.Contains(s, key) {
			t.Errorf("envelope %s missing %s", s, key)
		}
	}
	if strings.Contains(s, `"Error"`) {
		t.Errorf("success envelope must omit Error block: %s", s)
	}
}

func TestFailedEnvelopePassesGatewayErrorThrough(t *testing.T) {
	env := Failed(model.NewUpstreamError("ExpiredToken", "token is dead"))

	if env.Status != StatusFailed {
		t.Fatalf("status = %q, want Failed", env.Status)
	}
	if env.Error.Code != "ExpiredToken" {
		t.Errorf("code = %v, want string preserved", env.Error.Code)
	}
	if env.Error.Message != "token is dead" {
		t.Errorf("message = %q", env.Error.Message)
	}
}

func TestFailedEnvelopeWrapsPlainError(t *testing.T) {
	env := Failed(errors.New("dial tcp: connection refused"))

	if env.Error.Code != model.CodeTransport {
		t.Errorf("code = %v, want transport fallback", env.Error.Code)
	}
	if env.Error.Message != "dial tcp: connection refused" {
		t.Errorf("message = %q", env.Error.Message)
	}
}
