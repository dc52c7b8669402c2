// Package translate implements the Ferma <-> eKomKassa mapping core: the
// enum tables, the timestamp normalizer, the request and response
// translators, and the token-refresh retry policy.
//
// All tables are one-directional. Requests map Ferma values onto eKomKassa
// values; responses map eKomKassa status strings back onto Ferma codes. The
// two schemas are not symmetric, so there is deliberately no shared
// bidirectional table. Unknown source values never fail: every table has a
// documented default arm.
package translate

import "github.com/ecomkassa/ferma-gateway/internal/model"

// VatType maps a Ferma VAT class onto the eKomKassa vat type string.
// Unknown classes fall back to "none".
func VatType(v model.VatClass) string {
	switch v {
	case model.VatNone:
		return "none"
	case model.Vat0:
		return "vat0"
	case model.Vat10:
		return "vat10"
	case model.Vat20:
		return "vat20"
	case model.CalculatedVat20120:
		return "vat20"
	case model.CalculatedVat10110:
		return "vat10"
	default:
		return "none"
	}
}

// PaymentMethodName maps the Ferma numeric payment-method attribute onto the
// eKomKassa payment_method string. Unknown values fall back to
// "full_payment".
func PaymentMethodName(m model.ItemPaymentMethod) string {
	switch m {
	case model.MethodFullPrepayment:
		return "full_prepayment"
	case model.MethodPrepayment:
		return "prepayment"
	case model.MethodAdvance:
		return "advance"
	case model.MethodFullPayment:
		return "full_payment"
	case model.MethodPartialPayment:
		return "partial_payment"
	case model.MethodCredit:
		return "credit"
	case model.MethodCreditPayment:
		return "credit_payment"
	default:
		return "full_payment"
	}
}

// MeasureCode maps a Ferma measurement unit onto the numeric fiscal unit
// code (national fiscal-unit standard, 0..255). Unknown units fall back to
// 0 (piece).
func MeasureCode(u model.MeasureUnit) int {
	switch u {
	case model.UnitPiece:
		return 0
	case model.UnitGram:
		return 10
	case model.UnitKilogram:
		return 11
	case model.UnitTon:
		return 12
	case model.UnitCentimeter:
		return 20
	case model.UnitDecimeter:
		return 21
	case model.UnitMeter:
		return 22
	case model.UnitSquareCentimeter:
		return 30
	case model.UnitSquareDecimeter:
		return 31
	case model.UnitSquareMeter:
		return 32
	case model.UnitMilliliter:
		return 40
	case model.UnitLiter:
		return 41
	case model.UnitCubicMeter:
		return 42
	case model.UnitKilowattHour:
		return 50
	case model.UnitGigacalorie:
		return 51
	case model.UnitDay:
		return 70
	case model.UnitHour:
		return 71
	case model.UnitMinute:
		return 72
	case model.UnitSecond:
		return 73
	case model.UnitKilobyte:
		return 80
	case model.UnitMegabyte:
		return 81
	case model.UnitGigabyte:
		return 82
	case model.UnitTerabyte:
		return 83
	case model.UnitOther:
		return 255
	default:
		return 0
	}
}

// TaxationCode maps a Ferma taxation system onto the eKomKassa sno string.
// Unknown systems fall back to "osn".
func TaxationCode(t model.TaxationSystem) string {
	switch t {
	case model.TaxCommon:
		return "osn"
	case model.TaxSimplified:
		return "usn_income"
	case model.TaxSimplifiedWithExpenses:
		return "usn_income_outcome"
	case model.TaxUnified:
		return "envd"
	case model.TaxPatent:
		return "patent"
	case model.TaxUnifiedAgricultural:
		return "esn"
	default:
		return "osn"
	}
}

// OperationSegment maps a fiscal operation onto the outbound endpoint
// segment. Unknown operations fall back to "sell".
func OperationSegment(op model.FiscalOperation) string {
	switch op {
	case model.OpSell:
		return "sell"
	case model.OpSellRefund:
		return "sell_refund"
	case model.OpBuy:
		return "buy"
	case model.OpBuyRefund:
		return "buy_refund"
	case model.OpSellCorrection:
		return "sell_correction"
	case model.OpBuyCorrection:
		return "buy_correction"
	case model.OpSellRefundCorrection:
		return "sell_refund_correction"
	case model.OpBuyRefundCorrection:
		return "buy_refund_correction"
	default:
		return "sell"
	}
}

// AgentTypeCode maps a Ferma agent type onto the eKomKassa numeric agent
// code. Unknown types fall back to 6 (plain agent).
func AgentTypeCode(a model.AgentType) int {
	switch a {
	case model.AgentBankPaymentAgent:
		return 0
	case model.AgentBankPaymentSubagent:
		return 1
	case model.AgentPaymentAgent:
		return 2
	case model.AgentPaymentSubagent:
		return 3
	case model.AgentAttorney:
		return 4
	case model.AgentCommissionAgent:
		return 5
	case model.AgentAgent:
		return 6
	default:
		return 6
	}
}

// PaymentTypeCode maps a payment kind onto the eKomKassa numeric payment
// type. Unknown kinds fall back to 1 (cashless), matching the fallback
// payment rule.
func PaymentTypeCode(k model.PaymentKind) int {
	switch k {
	case model.PaymentCash:
		return 0
	case model.PaymentCard:
		return 1
	case model.PaymentPrepaid:
		return 2
	case model.PaymentCredit:
		return 3
	case model.PaymentOther:
		return 4
	default:
		return 1
	}
}

// CorrectionTypeCode maps a correction type onto the eKomKassa string.
func CorrectionTypeCode(t model.CorrectionType) string {
	switch t {
	case model.CorrectionInstruction:
		return "instruction"
	default:
		return "self"
	}
}

// StatusFromUpstream maps the upstream lifecycle state string onto the Ferma
// status code. Any unrecognized state maps to Unknown, which callers must
// not treat as terminal.
func StatusFromUpstream(s string) model.ReceiptStatus {
	switch s {
	case "wait":
		return model.StatusNew
	case "done":
		return model.StatusProcessed
	case "fail", "error":
		return model.StatusError
	default:
		return model.StatusUnknown
	}
}

// StatusName returns the Ferma status name for a status code.
func StatusName(s model.ReceiptStatus) string {
	switch s {
	case model.StatusNew:
		return "New"
	case model.StatusProcessed:
		return "Processed"
	case model.StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}
