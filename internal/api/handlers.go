package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ecomkassa/ferma-gateway/internal/atol"
	"github.com/ecomkassa/ferma-gateway/internal/auditlog"
	"github.com/ecomkassa/ferma-gateway/internal/ferma"
	"github.com/ecomkassa/ferma-gateway/internal/model"
	"github.com/ecomkassa/ferma-gateway/internal/translate"
)

// auditCall collects everything one request touched, for the audit trail.
type auditCall struct {
	operation       string
	requestBody     string
	targetURL       string
	targetBody      string
	upstream        *atol.Response
	upstreamElapsed time.Duration
	errMessage      string
}

// handleAuth implements POST /api/Authorization/CreateAuthToken.
func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	call := &auditCall{operation: "auth"}

	var req ferma.AuthRequest
	if err := decodeBody(r, &req); err != nil {
		s.respond(w, r, call, ferma.Failed(err), http.StatusBadRequest, start)
		return
	}
	// Credentials never reach the audit trail in plaintext.
	call.requestBody = maskedCredentialJSON(req.Login)

	payload, err := translate.BuildAuthRequest(req.Credential())
	if err != nil {
		s.respond(w, r, call, ferma.Failed(err), http.StatusBadRequest, start)
		return
	}

	call.targetURL = s.upstream.BaseURL() + "/getToken"
	call.targetBody = maskedCredentialJSON(payload.Login)

	upstreamStart := time.Now()
	resp, err := s.upstream.GetToken(r.Context(), payload)
	call.upstreamElapsed = time.Since(upstreamStart)
	if err != nil {
		call.errMessage = err.Error()
		s.respond(w, r, call, ferma.Failed(model.NewTransportError(err)), http.StatusBadGateway, start)
		return
	}
	call.upstream = resp

	env := translate.ParseAuthResponse(resp)
	s.respond(w, r, call, env, clientStatus(env, resp.StatusCode), start)
}

// handleReceipt implements POST /api/kkt/cloud/receipt. Two body formats are
// accepted: the full Ferma request, and a passthrough format carrying an
// already-shaped receipt body.
func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	call := &auditCall{operation: "receipt"}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.respond(w, r, call, ferma.Failed(model.NewValidationError("unreadable request body")), http.StatusBadRequest, start)
		return
	}
	call.requestBody = string(raw)

	var env ferma.ReceiptEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.respond(w, r, call, ferma.Failed(model.NewValidationError("invalid JSON body")), http.StatusBadRequest, start)
		return
	}

	token := r.URL.Query().Get("AuthToken")
	if token == "" {
		token = env.Token
	}
	groupCode := env.GroupCode
	if groupCode == "" {
		groupCode = s.cfg.DefaultGroupCode
	}

	segment, payload, err := buildDocument(env, token, time.Now())
	if err != nil {
		s.respond(w, r, call, ferma.Failed(err), http.StatusBadRequest, start)
		return
	}

	call.targetURL = fmt.Sprintf("%s/%s/%s", s.upstream.BaseURL(), groupCode, segment)
	if body, err := json.Marshal(payload); err == nil {
		call.targetBody = string(body)
	}

	doCall := func(ctx context.Context, tok string) (*atol.Response, error) {
		return s.upstream.CreateDocument(ctx, groupCode, segment, tok, payload)
	}
	upstreamStart := time.Now()
	resp, err := translate.ExecuteWithRetry(r.Context(), doCall, nil, token, s.cfg.Credentials(), s.refreshToken)
	call.upstreamElapsed = time.Since(upstreamStart)
	if err != nil {
		call.errMessage = err.Error()
		s.respond(w, r, call, ferma.Failed(model.NewTransportError(err)), http.StatusBadGateway, start)
		return
	}
	call.upstream = resp

	out := translate.ParseReceiptResponse(resp)
	s.respond(w, r, call, out, clientStatus(out, resp.StatusCode), start)
}

// handleStatus implements GET/POST /api/kkt/cloud/status. Parameters come
// from the query string, or from a JSON body on POST.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	call := &auditCall{operation: "status"}

	query := statusQueryFrom(r)
	call.requestBody = fmt.Sprintf(`{"AuthToken":"***","ReceiptId":%q,"GroupCode":%q}`, query.DocumentID, query.GroupCode)

	statusCall, err := translate.BuildStatusRequest(query)
	if err != nil {
		s.respond(w, r, call, ferma.Failed(err), http.StatusBadRequest, start)
		return
	}

	call.targetURL = fmt.Sprintf("%s/%s/report/%s", s.upstream.BaseURL(), statusCall.GroupCode, statusCall.DocumentID)

	doCall := func(ctx context.Context, tok string) (*atol.Response, error) {
		return s.upstream.GetReport(ctx, statusCall.GroupCode, statusCall.DocumentID, tok)
	}
	upstreamStart := time.Now()
	resp, err := translate.ExecuteWithRetry(r.Context(), doCall, nil, query.Token, s.cfg.Credentials(), s.refreshToken)
	call.upstreamElapsed = time.Since(upstreamStart)
	if err != nil {
		call.errMessage = err.Error()
		s.respond(w, r, call, ferma.Failed(model.NewTransportError(err)), http.StatusBadGateway, start)
		return
	}
	call.upstream = resp

	out := translate.ParseStatusResponse(resp)
	s.respond(w, r, call, out, clientStatus(out, resp.StatusCode), start)
}

// refreshToken is the one-shot re-authentication used when a stored-credential
// call hits an expired token.
func (s *Server) refreshToken(ctx context.Context, cred model.AuthCredential) (string, error) {
	s.metrics.TokenRefreshes.Inc()

	payload, err := translate.BuildAuthRequest(cred)
	if err != nil {
		return "", err
	}
	resp, err := s.upstream.GetToken(ctx, payload)
	if err != nil {
		return "", err
	}

	env := translate.ParseAuthResponse(resp)
	data, ok := env.Data.(ferma.AuthData)
	if env.Status != ferma.StatusSuccess || !ok {
		return "", fmt.Errorf("re-authentication rejected by upstream")
	}
	return data.AuthToken, nil
}

// buildDocument resolves the receipt envelope into an endpoint segment and an
// outbound payload, for either accepted body format.
func buildDocument(env ferma.ReceiptEnvelope, token string, now time.Time) (string, interface{}, error) {
	if env.Request != nil {
		call, err := translate.BuildReceiptRequest(env.Request.ToModel(), token, now)
		if err != nil {
			return "", nil, err
		}
		return call.Segment, call.Payload, nil
	}

	if len(env.Receipt) > 0 {
		if token == "" {
			return "", nil, model.NewValidationError("Token required")
		}
		segment := env.Operation
		if segment == "" {
			segment = "sell"
		}
		externalID := env.ExternalID
		if externalID == "" {
			externalID = fmt.Sprintf("req-%d", now.UnixMilli())
		}
		return segment, atol.PassthroughPayload{
			Timestamp:  translate.UpstreamTimestamp(now),
			ExternalID: externalID,
			Receipt:    env.Receipt,
		}, nil
	}

	return "", nil, model.NewValidationError("Request required")
}

func statusQueryFrom(r *http.Request) model.StatusQuery {
	q := r.URL.Query()
	query := model.StatusQuery{
		Token:      q.Get("AuthToken"),
		GroupCode:  q.Get("group_code"),
		DocumentID: q.Get("uuid"),
	}
	if query.DocumentID == "" {
		query.DocumentID = q.Get("ReceiptId")
	}

	if r.Method == http.MethodPost {
		var body struct {
			AuthToken string `json:"AuthToken"`
			ReceiptId string `json:"ReceiptId"`
			UUID      string `json:"uuid"`
			GroupCode string `json:"group_code"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&body); err == nil {
			if query.Token == "" {
				query.Token = body.AuthToken
			}
			if query.DocumentID == "" {
				query.DocumentID = body.ReceiptId
			}
			if query.DocumentID == "" {
				query.DocumentID = body.UUID
			}
			if query.GroupCode == "" {
				query.GroupCode = body.GroupCode
			}
		}
	}
	return query
}

// respond writes the envelope, records the audit entry and updates metrics.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, call *auditCall, env ferma.Response, status int, start time.Time) {
	writeJSON(w, status, env)

	duration := time.Since(start)
	clientBody, _ := json.Marshal(env)

	entry := auditlog.Entry{
		RequestID:    requestIDFrom(r.Context()),
		Operation:    call.operation,
		Method:       r.Method,
		Path:         r.URL.Path,
		SourceIP:     r.RemoteAddr,
		RequestBody:  call.requestBody,
		TargetURL:    call.targetURL,
		TargetBody:   call.targetBody,
		ClientStatus: status,
		ClientBody:   string(clientBody),
		DurationMS:   duration.Milliseconds(),
		ErrorMessage: call.errMessage,
	}
	if call.upstream != nil {
		entry.ResponseStatus = call.upstream.StatusCode
		entry.ResponseBody = string(call.upstream.Body)
	}
	s.audit.Record(entry)

	outcome := "success"
	if env.Status != ferma.StatusSuccess {
		outcome = "failed"
	}
	s.metrics.Requests.WithLabelValues(call.operation, outcome).Inc()
	if call.upstream != nil {
		// Only the outbound round trip, not audit writes or encoding.
		s.metrics.UpstreamLatency.WithLabelValues(call.operation).Observe(call.upstreamElapsed.Seconds())
	}

	slog.Info("request handled",
		"operation", call.operation,
		"status", status,
		"outcome", outcome,
		"duration_ms", duration.Milliseconds(),
		"request_id", entry.RequestID,
	)
}

// clientStatus maps an envelope onto the HTTP status answered to the caller.
// Transport failures surface as 502; upstream rejections mirror the upstream
// status; everything else is a plain 200 with the outcome in the envelope.
func clientStatus(env ferma.Response, upstreamStatus int) int {
	if env.Status == ferma.StatusSuccess {
		return http.StatusOK
	}
	if env.Error != nil {
		switch env.Error.Code {
		case model.CodeValidation:
			return http.StatusBadRequest
		case model.CodeTransport:
			return http.StatusBadGateway
		}
	}
	if upstreamStatus >= 400 {
		return upstreamStatus
	}
	return http.StatusOK
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(v); err != nil {
		return model.NewValidationError("invalid JSON body")
	}
	return nil
}

func maskedCredentialJSON(login string) string {
	body, _ := json.Marshal(map[string]string{"login": login, "password": "***"})
	return string(body)
}
