package validation

import (
	"fmt"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/request"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/model"
)

// ValidTradeSide contains the allowed trade sides.
var ValidTradeSide = map[string]bool{
	model.SideBuy: true, model.SideSell: true,
}

// ValidAssetType contains the allowed asset types.
var ValidAssetType = map[string]bool{
	model.AssetTypeStock: true, model.AssetTypeETF: true, model.AssetTypeCrypto: true,
}

// ValidateCreateTrade validates a trade creation request.
//
// Required fields:
//   - date: YYYY-MM-DD
//   - ticker: exchange symbol
//   - assetType: stock, etf or crypto
//   - side: buy or sell
//   - quantity: positive
//   - price: zero or positive
//
// fee is optional and must not be negative.
func ValidateCreateTrade(req request.CreateTradeRequest) error {
	errors := make(map[string]string)

	validateDate(errors, "date", req.Date)

	if err := ValidateTicker(req.Ticker); err != nil {
		errors["ticker"] = err.Error()
	}

	if !ValidAssetType[req.AssetType] {
		errors["asset_type"] = fmt.Sprintf("invalid asset type: %s", req.AssetType)
	}

	if !ValidTradeSide[req.Side] {
		errors["side"] = fmt.Sprintf("invalid side: %s", req.Side)
	}

	if !req.Quantity.IsPositive() {
		errors["quantity"] = "quantity must be positive"
	}

	if req.Price.IsNegative() {
		errors["price"] = "price must not be negative"
	}

	if req.Fee != nil && req.Fee.IsNegative() {
		errors["fee"] = "fee must not be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateTrade validates a trade update request. All fields are
// optional, but provided ones must meet the same constraints as create.
func ValidateUpdateTrade(req request.UpdateTradeRequest) error {
	errors := make(map[string]string)

	if req.Date != nil {
		validateDate(errors, "date", *req.Date)
	}
	if req.Ticker != nil {
		if err := ValidateTicker(*req.Ticker); err != nil {
			errors["ticker"] = err.Error()
		}
	}
	if req.AssetType != nil && !ValidAssetType[*req.AssetType] {
		errors["asset_type"] = fmt.Sprintf("invalid asset type: %s", *req.AssetType)
	}
	if req.Side != nil && !ValidTradeSide[*req.Side] {
		errors["side"] = fmt.Sprintf("invalid side: %s", *req.Side)
	}
	if req.Quantity != nil && !req.Quantity.IsPositive() {
		errors["quantity"] = "quantity must be positive"
	}
	if req.Price != nil && req.Price.IsNegative() {
		errors["price"] = "price must not be negative"
	}
	if req.Fee != nil && req.Fee.IsNegative() {
		errors["fee"] = "fee must not be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
