package validation

import (
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/api/request"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
)

func validTolerance(tolerance string) bool {
	switch tolerance {
	case "", model.RiskConservative, model.RiskModerate, model.RiskAggressive:
		return true
	}
	return false
}

func validAssessmentMode(mode string) bool {
	switch mode {
	case "", model.AssessmentManual, model.AssessmentAI:
		return true
	}
	return false
}

func validateProfileFields(age int, income float64, tolerance, mode string, retirementYears int, obligations float64) map[string]string {
	errors := make(map[string]string)

	if age < 18 || age > 120 {
		errors["age"] = "age must be between 18 and 120"
	}

	if income < 0 {
		errors["income"] = "income cannot be negative"
	}

	if retirementYears < 0 {
		errors["retirementYears"] = "retirement years cannot be negative"
	}

	if obligations < 0 {
		errors["obligationsAmount"] = "obligations amount cannot be negative"
	}

	if !validTolerance(tolerance) {
		errors["riskTolerance"] = "risk tolerance must be conservative, moderate or aggressive"
	}

	if !validAssessmentMode(mode) {
		errors["riskAssessmentMode"] = "risk assessment mode must be manual or ai"
	}

	return errors
}

func ValidateCreateUser(req request.CreateUserRequest) error {
	errors := validateProfileFields(req.Age, req.Income, req.RiskTolerance, req.RiskAssessmentMode, req.RetirementYears, req.ObligationsAmount)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func ValidateUpdateProfile(req request.UpdateProfileRequest) error {
	errors := validateProfileFields(req.Age, req.Income, req.RiskTolerance, req.RiskAssessmentMode, req.RetirementYears, req.ObligationsAmount)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func ValidateClassifyRisk(req request.ClassifyRiskRequest) error {
	errors := make(map[string]string)

	if req.Age < 18 || req.Age > 120 {
		errors["age"] = "age must be between 18 and 120"
	}

	if req.Income < 0 {
		errors["income"] = "income cannot be negative"
	}

	if req.RetirementYears < 0 {
		errors["retirementYears"] = "retirement years cannot be negative"
	}

	if req.ObligationsAmount < 0 {
		errors["obligationsAmount"] = "obligations amount cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
