// Package ferma defines the externally visible Ferma API contract: the JSON
// envelopes returned to integrators and the inbound request bodies. Key
// casing is part of the contract and must not change.
package ferma

import (
	"github.com/ecomkassa/ferma-gateway/internal/model"
)

// Envelope statuses.
const (
	StatusSuccess = "Success"
	StatusFailed  = "Failed"
)

// Response is the Ferma-shaped response envelope.
type Response struct {
	Status string      `json:"Status"`
	Data   interface{} `json:"Data,omitempty"`
	Error  *Error      `json:"Error,omitempty"`
}

// Error is the Ferma error block. Code is an int or a string, preserved
// exactly as the upstream reported it.
type Error struct {
	Code    interface{} `json:"Code"`
	Message string      `json:"Message"`
}

// AuthData is the Data block of a successful authentication.
type AuthData struct {
	AuthToken         string `json:"AuthToken"`
	ExpirationDateUtc string `json:"ExpirationDateUtc"`
}

// ReceiptData is the Data block of a successful receipt registration.
type ReceiptData struct {
	ReceiptId string `json:"ReceiptId"`
}

// StatusData is the Data block of a status lookup.
type StatusData struct {
	StatusCode      int               `json:"StatusCode"`
	StatusName      string            `json:"StatusName"`
	StatusMessage   string            `json:"StatusMessage,omitempty"`
	ModifiedDateUtc string            `json:"ModifiedDateUtc,omitempty"`
	ReceiptDateUtc  string            `json:"ReceiptDateUtc,omitempty"`
	Device          *model.DeviceInfo `json:"Device,omitempty"`
}

// Success wraps data in a success envelope.
func Success(data interface{}) Response {
	return Response{Status: StatusSuccess, Data: data}
}

// Failed wraps an error in the failure envelope. GatewayError codes and
// messages pass through; any other error gets the transport treatment.
func Failed(err error) Response {
	if gerr, ok := err.(*model.GatewayError); ok {
		return Response{
			Status: StatusFailed,
			Error:  &Error{Code: gerr.Code, Message: gerr.Message},
		}
	}
	return Response{
		Status: StatusFailed,
		Error:  &Error{Code: model.CodeTransport, Message: err.Error()},
	}
}
