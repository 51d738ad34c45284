package validation

import (
	"strings"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/api/request"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
)

func ValidateCreateHolding(req request.CreateHoldingRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Ticker) == "" {
		errors["ticker"] = "ticker is required"
	} else if len(strings.TrimSpace(req.Ticker)) > 10 {
		errors["ticker"] = "ticker must be 10 characters or less"
	}

	if req.Shares <= 0 {
		errors["shares"] = "shares must be positive"
	}

	if req.Price <= 0 {
		errors["price"] = "price must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func ValidateUpdateHolding(req request.UpdateHoldingRequest) error {
	errors := make(map[string]string)

	if req.Shares <= 0 {
		errors["shares"] = "shares must be positive"
	}

	if req.Price <= 0 {
		errors["price"] = "price must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateImportHoldings checks the envelope of a bulk import. Row contents
// are validated by the import service, which reports per-row errors.
func ValidateImportHoldings(req request.ImportHoldingsRequest) error {
	errors := make(map[string]string)

	switch model.ImportMode(req.Mode) {
	case model.ImportModeMerge, model.ImportModeReplace:
	default:
		errors["mode"] = "mode must be merge or replace"
	}

	if len(req.Rows) == 0 {
		errors["rows"] = "at least one row is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
