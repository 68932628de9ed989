package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/request"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

// ValidCashFlowType contains the allowed cash flow types.
var ValidCashFlowType = map[string]bool{
	model.CashFlowDeposit: true, model.CashFlowWithdrawal: true, model.CashFlowFee: true,
}

// ValidCurrency contains the currencies the ledger accepts.
var ValidCurrency = map[string]bool{
	model.CurrencyCOP: true, model.CurrencyUSD: true,
}

// ValidFeeType contains the fee sub-categories.
var ValidFeeType = map[string]bool{
	model.FeeTypeDeposit:     true,
	model.FeeTypeTrading:     true,
	model.FeeTypeClosing:     true,
	model.FeeTypeMaintenance: true,
	model.FeeTypeWithdrawal:  true,
	model.FeeTypeOther:       true,
}

// ValidateCreateCashFlow validates a cash flow creation request.
//
// COP flows must carry a positive fx_rate. fee_type is only accepted on fee
// flows and related_trade_id must be a UUID when present.
func ValidateCreateCashFlow(req request.CreateCashFlowRequest) error {
	errors := make(map[string]string)

	validateDate(errors, "date", req.Date)
	validateCashFlowFields(errors, req.Type, req.Currency, req.Amount, req.FxRate, req.FeeType, req.RelatedTradeID)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateUpdateCashFlow validates the fields of an update request. The merged
// record is checked again by ValidateMergedCashFlow once the stored values are known.
func ValidateUpdateCashFlow(req request.UpdateCashFlowRequest) error {
	errors := make(map[string]string)

	if req.Date != nil {
		validateDate(errors, "date", *req.Date)
	}
	if req.Type != nil && !ValidCashFlowType[*req.Type] {
		errors["type"] = fmt.Sprintf("invalid type: %s", *req.Type)
	}
	if req.Currency != nil && !ValidCurrency[*req.Currency] {
		errors["currency"] = fmt.Sprintf("invalid currency: %s", *req.Currency)
	}
	if req.Amount != nil && !req.Amount.IsPositive() {
		errors["amount"] = "amount must be positive"
	}
	if req.FxRate != nil && !req.FxRate.IsPositive() {
		errors["fx_rate"] = "fx_rate must be positive"
	}
	if req.FeeType != nil && *req.FeeType != "" && !ValidFeeType[*req.FeeType] {
		errors["fee_type"] = fmt.Sprintf("invalid fee type: %s", *req.FeeType)
	}
	if req.RelatedTradeID != nil && *req.RelatedTradeID != "" {
		if err := ValidateUUID(*req.RelatedTradeID); err != nil {
			errors["related_trade_id"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateMergedCashFlow checks cross-field rules on a cash flow after an
// update has been applied to the stored record.
func ValidateMergedCashFlow(cf model.CashFlow) error {
	errors := make(map[string]string)
	validateCashFlowFields(errors, cf.Type, cf.Currency, cf.Amount, cf.FxRate, cf.FeeType, cf.RelatedTradeID)
	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func validateCashFlowFields(
	errors map[string]string,
	flowType, currency string,
	amount decimal.Decimal,
	fxRate *decimal.Decimal,
	feeType, relatedTradeID *string,
) {
	if !ValidCashFlowType[flowType] {
		errors["type"] = fmt.Sprintf("invalid type: %s", flowType)
	}

	if !ValidCurrency[currency] {
		errors["currency"] = fmt.Sprintf("invalid currency: %s", currency)
	}

	if !amount.IsPositive() {
		errors["amount"] = "amount must be positive"
	}

	switch {
	case fxRate != nil && !fxRate.IsPositive():
		errors["fx_rate"] = "fx_rate must be positive"
	case currency == model.CurrencyCOP && fxRate == nil:
		errors["fx_rate"] = "fx_rate is required for COP cash flows"
	}

	if feeType != nil && *feeType != "" {
		if flowType != model.CashFlowFee {
			errors["fee_type"] = "fee_type is only valid on fee cash flows"
		} else if !ValidFeeType[*feeType] {
			errors["fee_type"] = fmt.Sprintf("invalid fee type: %s", *feeType)
		}
	}

	if relatedTradeID != nil && *relatedTradeID != "" {
		if err := ValidateUUID(*relatedTradeID); err != nil {
			errors["related_trade_id"] = err.Error()
		}
	}
}
