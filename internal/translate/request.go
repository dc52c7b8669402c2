package translate

import (
	"fmt"
	"time"

	"github.com/ecomkassa/ferma-gateway/internal/atol"
	"github.com/ecomkassa/ferma-gateway/internal/model"
)

// DefaultGroupCode is the cash-register group used when the caller names
// none.
const DefaultGroupCode = "700"

// Atol v5 takes payment_object as a numeric code; 4 is the fixed value the
// gateway registers everything under.
const paymentObjectCode = 4

// Defaults substituted for omitted optional fields, kept from the historical
// contract.
const (
	defaultItemName       = "Товар"
	defaultCompanyEmail   = "shop@example.com"
	defaultCompanyINN     = "0000000000"
	defaultPaymentAddress = "https://example.com"
	defaultBaseNumber     = "1"
	defaultBaseName       = "Коррекция"
)

// DocumentCall describes one outbound document-registration call: which
// endpoint segment to hit and what body to send.
type DocumentCall struct {
	Segment string
	Payload atol.DocumentPayload
}

// StatusCall describes one outbound status lookup.
type StatusCall struct {
	GroupCode  string
	DocumentID string
}

// BuildAuthRequest validates credentials and produces the upstream auth
// payload.
func BuildAuthRequest(cred model.AuthCredential) (atol.AuthPayload, error) {
	if cred.Login == "" || cred.Password == "" {
		return atol.AuthPayload{}, model.NewValidationError("login and password required")
	}
	return atol.AuthPayload{Login: cred.Login, Pass: cred.Password}, nil
}

// BuildReceiptRequest translates a receipt request into the outbound call
// description. now supplies the payload timestamp and the synthesized
// external id, keeping the translator deterministic.
func BuildReceiptRequest(req model.ReceiptRequest, token string, now time.Time) (*DocumentCall, error) {
	if token == "" {
		return nil, model.NewValidationError("Token required")
	}
	if len(req.Lines) == 0 {
		return nil, model.NewValidationError("Items required")
	}

	items := translateItems(req)
	payments := translatePayments(req, items)
	company := translateCompany(req)

	externalID := req.ExternalID
	if externalID == "" {
		externalID = fmt.Sprintf("req-%d", now.UnixMilli())
	}

	payload := atol.DocumentPayload{
		Timestamp:  UpstreamTimestamp(now),
		ExternalID: externalID,
	}

	if req.Operation.IsCorrection() {
		payload.Correction = buildCorrection(req, company, items, payments, now)
	} else {
		var total float64
		for _, it := range items {
			total += it.Sum
		}
		payload.Receipt = &atol.Receipt{
			Client:    atol.ClientInfo{Email: req.Client.Email, Phone: req.Client.Phone},
			Company:   company,
			AgentInfo: translateAgent(req.Agent),
			Items:     items,
			Payments:  payments,
			Total:     total,
		}
	}

	return &DocumentCall{
		Segment: OperationSegment(req.Operation),
		Payload: payload,
	}, nil
}

// BuildStatusRequest validates a status query and produces the outbound
// lookup description.
func BuildStatusRequest(q model.StatusQuery) (*StatusCall, error) {
	if q.Token == "" {
		return nil, model.NewValidationError("AuthToken required")
	}
	if q.DocumentID == "" {
		return nil, model.NewValidationError("uuid required")
	}

	groupCode := q.GroupCode
	if groupCode == "" {
		groupCode = DefaultGroupCode
	}

	return &StatusCall{GroupCode: groupCode, DocumentID: q.DocumentID}, nil
}

func translateItems(req model.ReceiptRequest) []atol.Item {
	var supplier *atol.SupplierInfo
	if a := req.Agent; a != nil && (a.SupplierName != "" || a.SupplierPhone != "" || a.SupplierINN != "") {
		supplier = &atol.SupplierInfo{
			Name: a.SupplierName,
			INN:  a.SupplierINN,
		}
		if a.SupplierPhone != "" {
			supplier.Phones = []string{a.SupplierPhone}
		}
	}

	items := make([]atol.Item, 0, len(req.Lines))
	for _, line := range req.Lines {
		name := line.Label
		if name == "" {
			name = defaultItemName
		}
		quantity := line.Quantity
		if quantity == 0 {
			quantity = 1
		}
		items = append(items, atol.Item{
			Name:          name,
			Price:         line.UnitPrice,
			Quantity:      quantity,
			Sum:           line.Amount(),
			PaymentMethod: PaymentMethodName(line.PaymentMethod),
			PaymentObject: paymentObjectCode,
			Measure:       MeasureCode(line.MeasureUnit),
			Vat:           atol.Vat{Type: VatType(line.VatClass)},
			SupplierInfo:  supplier,
		})
	}
	return items
}

// translatePayments converts explicit payment lines, or falls back to one
// cashless payment covering the item total when the caller supplied none.
func translatePayments(req model.ReceiptRequest, items []atol.Item) []atol.Payment {
	if len(req.Payments) > 0 {
		payments := make([]atol.Payment, 0, len(req.Payments))
		for _, p := range req.Payments {
			payments = append(payments, atol.Payment{
				Type: PaymentTypeCode(p.Kind),
				Sum:  p.Amount,
			})
		}
		return payments
	}

	var total float64
	for _, it := range items {
		total += it.Sum
	}
	return []atol.Payment{{Type: PaymentTypeCode(model.PaymentCard), Sum: total}}
}

func translateCompany(req model.ReceiptRequest) atol.Company {
	email := req.Client.Email
	if email == "" {
		email = defaultCompanyEmail
	}
	inn := req.SellerINN
	if inn == "" {
		inn = defaultCompanyINN
	}
	address := req.PaymentAddress
	if address == "" {
		address = defaultPaymentAddress
	}
	return atol.Company{
		Email:          email,
		SNO:            TaxationCode(req.TaxationSystem),
		INN:            inn,
		PaymentAddress: address,
	}
}

func buildCorrection(req model.ReceiptRequest, company atol.Company, items []atol.Item, payments []atol.Payment, now time.Time) *atol.Correction {
	info := req.Correction
	if info == nil {
		info = &model.CorrectionInfo{Type: model.CorrectionSelf}
	}

	baseDate := info.BaseDate
	if baseDate == "" {
		baseDate = UpstreamDate(now)
	}
	baseNumber := info.BaseNumber
	if baseNumber == "" {
		baseNumber = defaultBaseNumber
	}
	baseName := info.BaseDescription
	if baseName == "" {
		baseName = defaultBaseName
	}

	vats := make([]atol.CorrectionVat, 0, len(items))
	for _, it := range items {
		vats = append(vats, atol.CorrectionVat{Type: it.Vat.Type, Sum: it.Sum})
	}

	return &atol.Correction{
		Company: company,
		CorrectionInfo: atol.CorrectionInfo{
			Type:       CorrectionTypeCode(info.Type),
			BaseDate:   baseDate,
			BaseNumber: baseNumber,
			BaseName:   baseName,
		},
		Payments: payments,
		Vats:     vats,
	}
}

func translateAgent(a *model.AgentInfo) *atol.AgentInfo {
	if a == nil {
		return nil
	}

	info := &atol.AgentInfo{Type: AgentTypeCode(a.Type)}

	if a.PaymentAgentOperation != "" || a.PaymentAgentPhone != "" {
		pa := &atol.PayingAgent{Operation: a.PaymentAgentOperation}
		if a.PaymentAgentPhone != "" {
			pa.Phones = []string{a.PaymentAgentPhone}
		}
		info.PayingAgent = pa
	}

	if a.TransferAgentName != "" || a.TransferAgentPhone != "" || a.TransferAgentAddress != "" || a.TransferAgentINN != "" {
		if a.TransferAgentPhone != "" {
			info.ReceivePaymentsOperator = &atol.PhonesOperator{Phones: []string{a.TransferAgentPhone}}
		}
		op := &atol.MoneyTransferOperator{
			Name:    a.TransferAgentName,
			Address: a.TransferAgentAddress,
			INN:     a.TransferAgentINN,
		}
		if a.TransferAgentPhone != "" {
			op.Phones = []string{a.TransferAgentPhone}
		}
		info.MoneyTransferOperator = op
	}

	return info
}
