package validation

import (
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/request"
)

// ValidateCreateFxRate validates an FX rate creation request.
func ValidateCreateFxRate(req request.CreateFxRateRequest) error {
	errors := make(map[string]string)

	validateDate(errors, "date", req.Date)
	if !req.Rate.IsPositive() {
		errors["rate"] = "rate must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateUpdateFxRate validates an FX rate update request.
func ValidateUpdateFxRate(req request.UpdateFxRateRequest) error {
	errors := make(map[string]string)

	if req.Date != nil {
		validateDate(errors, "date", *req.Date)
	}
	if req.Rate != nil && !req.Rate.IsPositive() {
		errors["rate"] = "rate must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateSetMarketPrice validates a manual market price entry.
func ValidateSetMarketPrice(req request.SetMarketPriceRequest) error {
	errors := make(map[string]string)

	if !req.Price.IsPositive() {
		errors["price"] = "price must be positive"
	}
	if req.Currency != "" && req.Currency != "USD" {
		errors["currency"] = "market prices must be in USD"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
