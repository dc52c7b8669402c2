// Package model defines the request-scoped entities passed between the
// Ferma-facing API layer and the eKomKassa translation core. Every value here
// is built at the start of one request and discarded at the end of it.
package model

import (
	"log/slog"
	"time"
)

// VatClass is the Ferma-side VAT classification of a receipt line.
type VatClass string

const (
	VatNone            VatClass = "VatNo"
	Vat0               VatClass = "Vat0"
	Vat10              VatClass = "Vat10"
	Vat20              VatClass = "Vat20"
	CalculatedVat20120 VatClass = "CalculatedVat20120"
	CalculatedVat10110 VatClass = "CalculatedVat10110"
)

// ItemPaymentMethod is the Ferma numeric payment-method attribute of a line.
type ItemPaymentMethod int

const (
	MethodFullPrepayment ItemPaymentMethod = 0
	MethodPrepayment     ItemPaymentMethod = 1
	MethodAdvance        ItemPaymentMethod = 2
	MethodFullPayment    ItemPaymentMethod = 3
	MethodPartialPayment ItemPaymentMethod = 4
	MethodCredit         ItemPaymentMethod = 5
	MethodCreditPayment  ItemPaymentMethod = 6
)

// MeasureUnit is the Ferma-side measurement unit of a receipt line.
type MeasureUnit string

const (
	UnitPiece            MeasureUnit = "PIECE"
	UnitGram             MeasureUnit = "GRAM"
	UnitKilogram         MeasureUnit = "KILOGRAM"
	UnitTon              MeasureUnit = "TON"
	UnitCentimeter       MeasureUnit = "CENTIMETER"
	UnitDecimeter        MeasureUnit = "DECIMETER"
	UnitMeter            MeasureUnit = "METER"
	UnitSquareCentimeter MeasureUnit = "SQUARE_CENTIMETER"
	UnitSquareDecimeter  MeasureUnit = "SQUARE_DECIMETER"
	UnitSquareMeter      MeasureUnit = "SQUARE_METER"
	UnitMilliliter       MeasureUnit = "MILLILITER"
	UnitLiter            MeasureUnit = "LITER"
	UnitCubicMeter       MeasureUnit = "CUBIC_METER"
	UnitKilowattHour     MeasureUnit = "KILOWATT_HOUR"
	UnitGigacalorie      MeasureUnit = "GIGACALORIE"
	UnitDay              MeasureUnit = "DAY"
	UnitHour             MeasureUnit = "HOUR"
	UnitMinute           MeasureUnit = "MINUTE"
	UnitSecond           MeasureUnit = "SECOND"
	UnitKilobyte         MeasureUnit = "KILOBYTE"
	UnitMegabyte         MeasureUnit = "MEGABYTE"
	UnitGigabyte         MeasureUnit = "GIGABYTE"
	UnitTerabyte         MeasureUnit = "TERABYTE"
	UnitOther            MeasureUnit = "OTHER"
)

// TaxationSystem is the seller's taxation regime.
type TaxationSystem string

const (
	TaxCommon                 TaxationSystem = "Common"
	TaxSimplified             TaxationSystem = "Simplified"
	TaxSimplifiedWithExpenses TaxationSystem = "SimplifiedWithExpenses"
	TaxUnified                TaxationSystem = "Unified"
	TaxPatent                 TaxationSystem = "Patent"
	TaxUnifiedAgricultural    TaxationSystem = "UnifiedAgricultural"
)

// FiscalOperation selects the fiscal document kind and, downstream, the
// outbound endpoint segment.
type FiscalOperation string

const (
	OpSell                 FiscalOperation = "Income"
	OpSellRefund           FiscalOperation = "IncomeReturn"
	OpBuy                  FiscalOperation = "Outcome"
	OpBuyRefund            FiscalOperation = "OutcomeReturn"
	OpSellCorrection       FiscalOperation = "IncomeCorrection"
	OpBuyCorrection        FiscalOperation = "OutcomeCorrection"
	OpSellRefundCorrection FiscalOperation = "IncomeReturnCorrection"
	OpBuyRefundCorrection  FiscalOperation = "OutcomeReturnCorrection"
)

// IsCorrection reports whether the operation produces a correction document,
// which uses a different upstream envelope than a regular receipt.
func (op FiscalOperation) IsCorrection() bool {
	switch op {
	case OpSellCorrection, OpBuyCorrection, OpSellRefundCorrection, OpBuyRefundCorrection:
		return true
	default:
		return false
	}
}

// AgentType is the Ferma payment-agent classification.
type AgentType string

const (
	AgentBankPaymentAgent    AgentType = "BANK_PAYMENT_AGENT"
	AgentBankPaymentSubagent AgentType = "BANK_PAYMENT_SUBAGENT"
	AgentPaymentAgent        AgentType = "PAYMENT_AGENT"
	AgentPaymentSubagent     AgentType = "PAYMENT_SUBAGENT"
	AgentAttorney            AgentType = "ATTORNEY"
	AgentCommissionAgent     AgentType = "COMMISSION_AGENT"
	AgentAgent               AgentType = "AGENT"
)

// CorrectionType distinguishes self-initiated corrections from corrections
// made on a tax-authority instruction.
type CorrectionType string

const (
	CorrectionSelf        CorrectionType = "Self"
	CorrectionInstruction CorrectionType = "Instruction"
)

// PaymentKind is the kind of a receipt-level payment line.
type PaymentKind string

const (
	PaymentCash    PaymentKind = "Cash"
	PaymentCard    PaymentKind = "Card"
	PaymentPrepaid PaymentKind = "Prepaid"
	PaymentCredit  PaymentKind = "Credit"
	PaymentOther   PaymentKind = "Other"
)

// ReceiptStatus is the fiscalization lifecycle state reported to callers.
// New may transition to Processed or Error, both terminal. Unknown is the
// catch-all for unrecognized upstream states and is not terminal.
type ReceiptStatus int

const (
	StatusNew       ReceiptStatus = 0
	StatusProcessed ReceiptStatus = 1
	StatusError     ReceiptStatus = 2
	StatusUnknown   ReceiptStatus = -1
)

// ReceiptLine is a single item of a receipt.
type ReceiptLine struct {
	Label         string
	UnitPrice     float64
	Quantity      float64
	VatClass      VatClass
	MeasureUnit   MeasureUnit
	PaymentMethod ItemPaymentMethod
	// LineAmount is UnitPrice*Quantity when the caller does not supply it.
	LineAmount float64
}

// Amount returns the line total, computing it from price and quantity when
// the caller did not supply an explicit amount.
func (l ReceiptLine) Amount() float64 {
	if l.LineAmount > 0 {
		return l.LineAmount
	}
	return l.UnitPrice * l.Quantity
}

// PaymentLine is a single payment covering part of the receipt total.
type PaymentLine struct {
	Kind   PaymentKind
	Amount float64
}

// ClientContact identifies the receipt recipient.
type ClientContact struct {
	Email string
	Phone string
}

// CorrectionInfo describes the base document a correction receipt adjusts.
// Present iff the operation is a correction variant.
type CorrectionInfo struct {
	Type            CorrectionType
	BaseDate        string
	BaseNumber      string
	BaseDescription string
}

// AgentInfo carries the Ferma payment-agent block of a receipt.
type AgentInfo struct {
	Type                  AgentType
	PaymentAgentOperation string
	PaymentAgentPhone     string
	TransferAgentName     string
	TransferAgentPhone    string
	TransferAgentAddress  string
	TransferAgentINN      string
	SupplierName          string
	SupplierPhone         string
	SupplierINN           string
}

// ReceiptRequest is the neutral representation of one receipt-creation call.
type ReceiptRequest struct {
	Operation      FiscalOperation
	ExternalID     string
	TaxationSystem TaxationSystem
	SellerINN      string
	PaymentAddress string
	Client         ClientContact
	Lines          []ReceiptLine
	Payments       []PaymentLine
	Correction     *CorrectionInfo
	Agent          *AgentInfo
}

// Total returns the sum of all line amounts.
func (r ReceiptRequest) Total() float64 {
	var total float64
	for _, l := range r.Lines {
		total += l.Amount()
	}
	return total
}

// AuthCredential holds upstream credentials. It implements slog.LogValuer so
// the password can never leak into diagnostic output.
type AuthCredential struct {
	Login    string
	Password string
}

// LogValue masks the password in structured log output.
func (c AuthCredential) LogValue() slog.Value {
	masked := ""
	if c.Password != "" {
		masked = "***"
	}
	return slog.GroupValue(
		slog.String("login", c.Login),
		slog.String("password", masked),
	)
}

// AuthToken is an upstream access token. The upstream API reports no real
// expiry, so AssumedExpiry is a far-future sentinel; invalidity is only
// discovered reactively on HTTP 401 or an ExpiredToken error code.
type AuthToken struct {
	Value         string
	AssumedExpiry time.Time
}

// StatusQuery identifies one status lookup.
type StatusQuery struct {
	Token      string
	GroupCode  string
	DocumentID string
}

// DeviceInfo is the pass-through fiscal device block of a processed receipt.
type DeviceInfo struct {
	RegistrationNumber   string `json:"RegistrationNumber,omitempty"`
	SerialNumber         string `json:"SerialNumber,omitempty"`
	FiscalDriveNumber    string `json:"FiscalDriveNumber,omitempty"`
	FiscalDocumentNumber int64  `json:"FiscalDocumentNumber,omitempty"`
	FiscalSign           int64  `json:"FiscalSign,omitempty"`
	ShiftNumber          int64  `json:"ShiftNumber,omitempty"`
	ReceiptNumberInShift int64  `json:"ReceiptNumberInShift,omitempty"`
	ReceiptURL           string `json:"ReceiptUrl,omitempty"`
}

// StatusResult is the normalized outcome of a status lookup.
type StatusResult struct {
	Code       ReceiptStatus
	Message    string
	ModifiedAt string
	ReceiptAt  string
	Device     *DeviceInfo
}
