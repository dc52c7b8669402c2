package translate

import (
	"testing"

	"github.com/ecomkassa/ferma-gateway/internal/model"
)

func TestVatType(t *testing.T) {
	tests := []struct {
		name string
		in   model.VatClass
		want string
	}{
		{"no vat", model.VatNone, "none"},
		{"zero rate", model.Vat0, "vat0"},
		{"ten percent", model.Vat10, "vat10"},
		{"twenty percent", model.Vat20, "vat20"},
		{"calculated 20/120", model.CalculatedVat20120, "vat20"},
		{"calculated 10/110", model.CalculatedVat10110, "vat10"},
		{"unknown falls back to none", model.VatClass("Vat18"), "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VatType(tt.in); got != tt.want {
				t.Errorf("VatType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPaymentMethodName(t *testing.T) {
	tests := []struct {
		name string
		in   model.ItemPaymentMethod
		want string
	}{
		{"full prepayment", model.MethodFullPrepayment, "full_prepayment"},
		{"prepayment", model.MethodPrepayment, "prepayment"},
		{"advance", model.MethodAdvance, "advance"},
		{"full payment", model.MethodFullPayment, "full_payment"},
		{"partial payment", model.MethodPartialPayment, "partial_payment"},
		{"credit", model.MethodCredit, "credit"},
		{"credit payment", model.MethodCreditPayment, "credit_payment"},
		{"unknown falls back to full payment", model.ItemPaymentMethod(42), "full_payment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PaymentMethodName(tt.in); got != tt.want {
				t.Errorf("PaymentMethodName(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMeasureCode(t *testing.T) {
	tests := []struct {
		name string
		in   model.MeasureUnit
		want int
	}{
		{"piece", model.UnitPiece, 0},
		{"gram", model.UnitGram, 10},
		{"kilogram", model.UnitKilogram, 11},
		{"meter", model.UnitMeter, 22},
		{"liter", model.UnitLiter, 41},
		{"kilowatt hour", model.UnitKilowattHour, 50},
		{"day", model.UnitDay, 70},
		{"gigabyte", model.UnitGigabyte, 82},
		{"other", model.UnitOther, 255},
		{"unknown falls back to piece", model.MeasureUnit("FURLONG"), 0},
		{"empty falls back to piece", model.MeasureUnit(""), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MeasureCode(tt.in); got != tt.want {
				t.Errorf("MeasureCode(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTaxationCode(t *testing.T) {
	tests := []struct {
		name string
		in   model.TaxationSystem
		want string
	}{
		{"common", model.TaxCommon, "osn"},
		{"simplified", model.TaxSimplified, "usn_income"},
		{"simplified with expenses", model.TaxSimplifiedWithExpenses, "usn_income_outcome"},
		{"unified", model.TaxUnified, "envd"},
		{"patent", model.TaxPatent, "patent"},
		{"unified agricultural", model.TaxUnifiedAgricultural, "esn"},
		{"unknown falls back to osn", model.TaxationSystem("Imputed"), "osn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TaxationCode(tt.in); got != tt.want {
				t.Errorf("TaxationCode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOperationSegment(t *testing.T) {
	tests := []struct {
		name string
		in   model.FiscalOperation
		want string
	}{
		{"sell", model.OpSell, "sell"},
		{"sell refund", model.OpSellRefund, "sell_refund"},
		{"buy", model.OpBuy, "buy"},
		{"buy refund", model.OpBuyRefund, "buy_refund"},
		{"sell correction", model.OpSellCorrection, "sell_correction"},
		{"buy correction", model.OpBuyCorrection, "buy_correction"},
		{"sell refund correction", model.OpSellRefundCorrection, "sell_refund_correction"},
		{"buy refund correction", model.OpBuyRefundCorrection, "buy_refund_correction"},
		{"unknown falls back to sell", model.FiscalOperation("Donation"), "sell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OperationSegment(tt.in); got != tt.want {
				t.Errorf("OperationSegment(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAgentTypeCode(t *testing.T) {
	tests := []struct {
		name string
		in   model.AgentType
		want int
	}{
		{"bank payment agent", model.AgentBankPaymentAgent, 0},
		{"bank payment subagent", model.AgentBankPaymentSubagent, 1},
		{"payment agent", model.AgentPaymentAgent, 2},
		{"payment subagent", model.AgentPaymentSubagent, 3},
		{"attorney", model.AgentAttorney, 4},
		{"commission agent", model.AgentCommissionAgent, 5},
		{"agent", model.AgentAgent, 6},
		{"unknown falls back to agent", model.AgentType("BROKER"), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AgentTypeCode(tt.in); got != tt.want {
				t.Errorf("AgentTypeCode(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestPaymentTypeCode(t *testing.T) {
	tests := []struct {
		name string
		in   model.PaymentKind
		want int
	}{
		{"cash", model.PaymentCash, 0},
		{"card", model.PaymentCard, 1},
		{"prepaid", model.PaymentPrepaid, 2},
		{"credit", model.PaymentCredit, 3},
		{"other", model.PaymentOther, 4},
		{"unknown falls back to cashless", model.PaymentKind("Barter"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PaymentTypeCode(tt.in); got != tt.want {
				t.Errorf("PaymentTypeCode(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestStatusFromUpstream(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want model.ReceiptStatus
	}{
		{"wait is new", "wait", model.StatusNew},
		{"done is processed", "done", model.StatusProcessed},
		{"fail is error", "fail", model.StatusError},
		{"error is error", "error", model.StatusError},
		{"empty is unknown", "", model.StatusUnknown},
		{"unrecognized is unknown", "pending", model.StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFromUpstream(tt.in); got != tt.want {
				t.Errorf("StatusFromUpstream(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestStatusName(t *testing.T) {
	tests := []struct {
		in   model.ReceiptStatus
		want string
	}{
		{model.StatusNew, "New"},
		{model.StatusProcessed, "Processed"},
		{model.StatusError, "Error"},
		{model.StatusUnknown, "Unknown"},
	}

	for _, tt := range tests {
		if got := StatusName(tt.in); got != tt.want {
			t.Errorf("StatusName(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
