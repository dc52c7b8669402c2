package translate

import (
	"fmt"

	simplejson "github.com/bitly/go-simplejson"

	"github.com/ecomkassa/ferma-gateway/internal/atol"
	"github.com/ecomkassa/ferma-gateway/internal/ferma"
	"github.com/ecomkassa/ferma-gateway/internal/model"
)

// assumedExpiry is the sentinel expiry reported for every token. The
// upstream never reports a real one; invalidity is discovered reactively.
const assumedExpiry = "2030-12-31T23:59:59"

// ParseAuthResponse normalizes a raw getToken result into the Ferma
// envelope. Success requires HTTP 200 and a non-empty token field.
func ParseAuthResponse(resp *atol.Response) ferma.Response {
	js, err := simplejson.NewJson(resp.Body)
	if err != nil {
		return ferma.Failed(model.NewTransportError(fmt.Errorf("unparseable upstream body: %w", err)))
	}

	token := js.Get("token").MustString()
	if resp.StatusCode == 200 && token != "" {
		return ferma.Success(ferma.AuthData{
			AuthToken:         token,
			ExpirationDateUtc: assumedExpiry,
		})
	}

	return ferma.Failed(extractError(js, resp.StatusCode, "Authentication failed"))
}

// ParseReceiptResponse normalizes a raw document-registration result.
// Success requires HTTP 200 and a document handle in the body.
func ParseReceiptResponse(resp *atol.Response) ferma.Response {
	js, err := simplejson.NewJson(resp.Body)
	if err != nil {
		return ferma.Failed(model.NewTransportError(fmt.Errorf("unparseable upstream body: %w", err)))
	}

	uuid := js.Get("uuid").MustString()
	state := js.Get("status").MustString()
	if resp.StatusCode == 200 && (uuid != "" || state == "done") {
		if uuid == "" {
			uuid = js.Get("external_id").MustString()
		}
		return ferma.Success(ferma.ReceiptData{ReceiptId: uuid})
	}

	return ferma.Failed(extractError(js, resp.StatusCode, "Receipt registration failed"))
}

// ParseStatusResponse normalizes a raw report lookup. A reported lifecycle
// failure is still a successful lookup: the envelope is Success and the
// state lands in StatusCode.
func ParseStatusResponse(resp *atol.Response) ferma.Response {
	js, err := simplejson.NewJson(resp.Body)
	if err != nil {
		return ferma.Failed(model.NewTransportError(fmt.Errorf("unparseable upstream body: %w", err)))
	}

	if resp.StatusCode != 200 {
		return ferma.Failed(extractError(js, resp.StatusCode, "Status request failed"))
	}

	state := js.Get("status").MustString()
	code := StatusFromUpstream(state)

	data := ferma.StatusData{
		StatusCode:    int(code),
		StatusName:    StatusName(code),
		StatusMessage: statusMessage(js, state, code),
	}

	if ts := js.Get("timestamp").MustString(); ts != "" {
		data.ModifiedDateUtc = NormalizeTimestamp(ts)
	}

	if code == model.StatusProcessed {
		if receiptAt := js.GetPath("payload", "receipt_datetime").MustString(); receiptAt != "" {
			data.ReceiptDateUtc = NormalizeTimestamp(receiptAt)
		}
		data.Device = extractDevice(js)
	}

	return ferma.Success(data)
}

func statusMessage(js *simplejson.Json, state string, code model.ReceiptStatus) string {
	switch code {
	case model.StatusNew:
		return "Receipt is queued for fiscalization"
	case model.StatusProcessed:
		return "Receipt processed"
	case model.StatusError:
		if text := js.GetPath("error", "text").MustString(); text != "" {
			return text
		}
		return "Receipt processing failed"
	default:
		return fmt.Sprintf("Unknown upstream status %q", state)
	}
}

// extractDevice collects the fiscal device fields of a processed report.
// Returns nil when the payload carries none.
func extractDevice(js *simplejson.Json) *model.DeviceInfo {
	payload := js.Get("payload")
	if _, ok := payload.CheckGet("fiscal_document_number"); !ok {
		if _, ok := payload.CheckGet("ecr_registration_number"); !ok {
			return nil
		}
	}

	return &model.DeviceInfo{
		RegistrationNumber:   payload.Get("ecr_registration_number").MustString(),
		SerialNumber:         js.Get("device_code").MustString(),
		FiscalDriveNumber:    payload.Get("fn_number").MustString(),
		FiscalDocumentNumber: payload.Get("fiscal_document_number").MustInt64(),
		FiscalSign:           payload.Get("fiscal_document_attribute").MustInt64(),
		ShiftNumber:          payload.Get("shift_number").MustInt64(),
		ReceiptNumberInShift: payload.Get("fiscal_receipt_number").MustInt64(),
		ReceiptURL:           payload.Get("ofd_receipt_url").MustString(),
	}
}

// extractError pulls an upstream error code and message out of a raw body,
// falling back to the HTTP status and a per-context default message.
func extractError(js *simplejson.Json, httpStatus int, fallback string) *model.GatewayError {
	var code interface{}
	var message string

	if errObj, ok := js.CheckGet("error"); ok {
		if s, err := errObj.String(); err == nil {
			// Historical draft shape: {"error": "plain text"}.
			message = s
		} else {
			if c := errObj.Get("code").Interface(); c != nil {
				code = c
			}
			message = errObj.Get("text").MustString()
		}
	}

	if code == nil {
		if c, ok := js.CheckGet("code"); ok {
			code = c.Interface()
		}
	}
	if message == "" {
		message = js.Get("text").MustString()
	}

	if code == nil {
		code = httpStatus
	}
	if message == "" {
		message = fallback
	}

	return model.NewUpstreamError(code, message)
}
