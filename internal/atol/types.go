// Package atol holds the eKomKassa/Atol v5 wire types and the outbound HTTP
// collaborator that talks to the cloud cash-register API.
package atol

import "encoding/json"

// AuthPayload is the body of POST {base}/getToken.
type AuthPayload struct {
	Login string `json:"login"`
	Pass  string `json:"pass"`
}

// Vat is the per-item VAT block.
type Vat struct {
	Type string `json:"type"`
}

// SupplierInfo is attached to each item when the receipt carries agent data.
type SupplierInfo struct {
	Name   string   `json:"name,omitempty"`
	Phones []string `json:"phones,omitempty"`
	INN    string   `json:"inn,omitempty"`
}

// Item is one line of the outbound receipt payload.
type Item struct {
	Name          string        `json:"name"`
	Price         float64       `json:"price"`
	Quantity      float64       `json:"quantity"`
	Sum           float64       `json:"sum"`
	PaymentMethod string        `json:"payment_method"`
	PaymentObject int           `json:"payment_object"`
	Measure       int           `json:"measure"`
	Vat           Vat           `json:"vat"`
	SupplierInfo  *SupplierInfo `json:"supplier_info,omitempty"`
}

// Payment is one payment line of the outbound payload.
type Payment struct {
	Type int     `json:"type"`
	Sum  float64 `json:"sum"`
}

// Company is the seller block.
type Company struct {
	Email          string `json:"email"`
	SNO            string `json:"sno"`
	INN            string `json:"inn"`
	PaymentAddress string `json:"payment_address"`
}

// ClientInfo is the receipt recipient block.
type ClientInfo struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// PayingAgent is the paying-agent sub-block of AgentInfo.
type PayingAgent struct {
	Operation string   `json:"operation,omitempty"`
	Phones    []string `json:"phones,omitempty"`
}

// PhonesOperator is the receive-payments-operator sub-block.
type PhonesOperator struct {
	Phones []string `json:"phones,omitempty"`
}

// MoneyTransferOperator is the money-transfer-operator sub-block.
type MoneyTransferOperator struct {
	Name    string   `json:"name,omitempty"`
	Phones  []string `json:"phones,omitempty"`
	Address string   `json:"address,omitempty"`
	INN     string   `json:"inn,omitempty"`
}

// AgentInfo is the payment-agent block of the outbound receipt.
type AgentInfo struct {
	Type                    int                    `json:"type"`
	PayingAgent             *PayingAgent           `json:"paying_agent,omitempty"`
	ReceivePaymentsOperator *PhonesOperator        `json:"receive_payments_operator,omitempty"`
	MoneyTransferOperator   *MoneyTransferOperator `json:"money_transfer_operator,omitempty"`
}

// Receipt is the regular (non-correction) document body.
type Receipt struct {
	Client    ClientInfo `json:"client"`
	Company   Company    `json:"company"`
	AgentInfo *AgentInfo `json:"agent_info,omitempty"`
	Items     []Item     `json:"items"`
	Payments  []Payment  `json:"payments"`
	Total     float64    `json:"total"`
}

// CorrectionVat is one VAT aggregate line of a correction document.
type CorrectionVat struct {
	Type string  `json:"type"`
	Sum  float64 `json:"sum"`
}

// CorrectionInfo identifies the base document being corrected.
type CorrectionInfo struct {
	Type       string `json:"type"`
	BaseDate   string `json:"base_date"`
	BaseNumber string `json:"base_number"`
	BaseName   string `json:"base_name,omitempty"`
}

// Correction is the correction document body. It replaces the receipt
// envelope for the four correction operations.
type Correction struct {
	Company        Company         `json:"company"`
	CorrectionInfo CorrectionInfo  `json:"correction_info"`
	Payments       []Payment       `json:"payments"`
	Vats           []CorrectionVat `json:"vats"`
}

// DocumentPayload is the full outbound body for receipt and correction
// operations. Exactly one of Receipt and Correction is set.
type DocumentPayload struct {
	Timestamp  string      `json:"timestamp"`
	ExternalID string      `json:"external_id"`
	Receipt    *Receipt    `json:"receipt,omitempty"`
	Correction *Correction `json:"correction,omitempty"`
}

// PassthroughPayload wraps a caller-supplied eKomKassa-shaped receipt body
// without translating it.
type PassthroughPayload struct {
	Timestamp  string          `json:"timestamp"`
	ExternalID string          `json:"external_id"`
	Receipt    json.RawMessage `json:"receipt"`
}

// Response is the raw transport-level result of an upstream call. The core
// never inspects more than the status code and the body.
type Response struct {
	StatusCode int
	Body       []byte
}
