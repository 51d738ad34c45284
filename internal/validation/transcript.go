package validation

import (
	"regexp"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/api/request"
)

var quarterPattern = regexp.MustCompile(`^\d{4}Q[1-4]$`)

func ValidateFetchTranscripts(req request.FetchTranscriptsRequest) error {
	errors := make(map[string]string)

	if req.Quarter == "" {
		errors["quarter"] = "quarter is required"
	} else if !quarterPattern.MatchString(req.Quarter) {
		errors["quarter"] = "quarter must look like 2025Q2"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
