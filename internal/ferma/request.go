package ferma

import (
	"encoding/json"

	"github.com/ecomkassa/ferma-gateway/internal/model"
)

// AuthRequest is the body of POST /api/Authorization/CreateAuthToken.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Credential converts the request into the neutral credential form.
func (r AuthRequest) Credential() model.AuthCredential {
	return model.AuthCredential{Login: r.Login, Password: r.Password}
}

// ReceiptEnvelope is the body of POST /api/kkt/cloud/receipt. Two formats are
// accepted: the full Ferma format (Request set) and a simple passthrough
// format where Receipt already carries an eKomKassa-shaped body.
type ReceiptEnvelope struct {
	Request   *ReceiptRequest `json:"Request,omitempty"`
	Token     string          `json:"token,omitempty"`
	GroupCode string          `json:"group_code,omitempty"`

	// Simple format fields.
	Operation  string          `json:"operation,omitempty"`
	ExternalID string          `json:"external_id,omitempty"`
	Receipt    json.RawMessage `json:"receipt,omitempty"`
}

// ReceiptRequest is the full Ferma receipt request.
type ReceiptRequest struct {
	Inn             string          `json:"Inn"`
	Type            string          `json:"Type"`
	InvoiceId       string          `json:"InvoiceId"`
	RequestId       string          `json:"RequestId"`
	CallbackUrl     string          `json:"CallbackUrl"`
	CustomerReceipt CustomerReceipt `json:"CustomerReceipt"`
}

// CustomerReceipt is the receipt block of the full Ferma format.
type CustomerReceipt struct {
	TaxationSystem   string            `json:"TaxationSystem"`
	Email            string            `json:"Email"`
	Phone            string            `json:"Phone"`
	Items            []Item            `json:"Items"`
	CashlessPayments []CashlessPayment `json:"CashlessPayments"`
	PaymentAgentInfo *PaymentAgentInfo `json:"PaymentAgentInfo,omitempty"`
	CorrectionInfo   *CorrectionInfo   `json:"CorrectionInfo,omitempty"`
}

// Item is one Ferma receipt line.
type Item struct {
	Label         string  `json:"Label"`
	Price         float64 `json:"Price"`
	Quantity      float64 `json:"Quantity"`
	Amount        float64 `json:"Amount"`
	Vat           string  `json:"Vat"`
	PaymentMethod int     `json:"PaymentMethod"`
	Measure       string  `json:"Measure"`
}

// CashlessPayment is one Ferma cashless payment line.
type CashlessPayment struct {
	PaymentSum float64 `json:"PaymentSum"`
}

// CorrectionInfo is the Ferma correction block.
type CorrectionInfo struct {
	Type        string `json:"Type"`
	BaseDate    string `json:"BaseDate"`
	BaseNumber  string `json:"BaseNumber"`
	Description string `json:"Description"`
}

// PaymentAgentInfo is the Ferma payment-agent block.
type PaymentAgentInfo struct {
	AgentType             string `json:"AgentType"`
	PaymentAgentOperation string `json:"PaymentAgentOperation"`
	PaymentAgentPhone     string `json:"PaymentAgentPhone"`
	TransferAgentName     string `json:"TransferAgentName"`
	TransferAgentPhone    string `json:"TransferAgentPhone"`
	TransferAgentAddress  string `json:"TransferAgentAddress"`
	TransferAgentINN      string `json:"TransferAgentINN"`
	SupplierName          string `json:"SupplierName"`
	SupplierPhone         string `json:"SupplierPhone"`
	SupplierInn           string `json:"SupplierInn"`
}

// operationFromType resolves the Ferma Type field, including the historical
// alias spellings some integrators still send.
func operationFromType(t string) model.FiscalOperation {
	switch t {
	case "Income", "":
		return model.OpSell
	case "IncomeReturn":
		return model.OpSellRefund
	case "Outcome":
		return model.OpBuy
	case "OutcomeReturn":
		return model.OpBuyRefund
	case "IncomeCorrection", "SellCorrection":
		return model.OpSellCorrection
	case "OutcomeCorrection", "BuyCorrection":
		return model.OpBuyCorrection
	case "IncomeReturnCorrection", "SellRefundCorrection":
		return model.OpSellRefundCorrection
	case "OutcomeReturnCorrection", "BuyRefundCorrection":
		return model.OpBuyRefundCorrection
	default:
		return model.OpSell
	}
}

func correctionTypeFromString(t string) model.CorrectionType {
	switch t {
	case "INSTRUCTION", "Instruction":
		return model.CorrectionInstruction
	default:
		return model.CorrectionSelf
	}
}

// ToModel converts the full Ferma request into the neutral receipt model.
// Defaulting here mirrors the contract: missing identifiers and correction
// blocks are synthesized, never rejected.
func (r ReceiptRequest) ToModel() model.ReceiptRequest {
	cr := r.CustomerReceipt

	lines := make([]model.ReceiptLine, 0, len(cr.Items))
	for _, it := range cr.Items {
		lines = append(lines, model.ReceiptLine{
			Label:         it.Label,
			UnitPrice:     it.Price,
			Quantity:      it.Quantity,
			VatClass:      model.VatClass(it.Vat),
			MeasureUnit:   model.MeasureUnit(it.Measure),
			PaymentMethod: model.ItemPaymentMethod(it.PaymentMethod),
			LineAmount:    it.Amount,
		})
	}

	payments := make([]model.PaymentLine, 0, len(cr.CashlessPayments))
	for _, p := range cr.CashlessPayments {
		payments = append(payments, model.PaymentLine{
			Kind:   model.PaymentCard,
			Amount: p.PaymentSum,
		})
	}

	externalID := r.InvoiceId
	if externalID == "" {
		externalID = r.RequestId
	}

	req := model.ReceiptRequest{
		Operation:      operationFromType(r.Type),
		ExternalID:     externalID,
		TaxationSystem: model.TaxationSystem(cr.TaxationSystem),
		SellerINN:      r.Inn,
		PaymentAddress: r.CallbackUrl,
		Client:         model.ClientContact{Email: cr.Email, Phone: cr.Phone},
		Lines:          lines,
		Payments:       payments,
	}

	if req.Operation.IsCorrection() {
		ci := cr.CorrectionInfo
		if ci == nil {
			ci = &CorrectionInfo{}
		}
		baseNumber := ci.BaseNumber
		if baseNumber == "" {
			baseNumber = r.RequestId
		}
		req.Correction = &model.CorrectionInfo{
			Type:            correctionTypeFromString(ci.Type),
			BaseDate:        ci.BaseDate,
			BaseNumber:      baseNumber,
			BaseDescription: ci.Description,
		}
	}

	if ai := cr.PaymentAgentInfo; ai != nil {
		req.Agent = &model.AgentInfo{
			Type:                  model.AgentType(ai.AgentType),
			PaymentAgentOperation: ai.PaymentAgentOperation,
			PaymentAgentPhone:     ai.PaymentAgentPhone,
			TransferAgentName:     ai.TransferAgentName,
			TransferAgentPhone:    ai.TransferAgentPhone,
			TransferAgentAddress:  ai.TransferAgentAddress,
			TransferAgentINN:      ai.TransferAgentINN,
			SupplierName:          ai.SupplierName,
			SupplierPhone:         ai.SupplierPhone,
			SupplierINN:           ai.SupplierInn,
		}
	}

	return req
}
