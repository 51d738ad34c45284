package request

// CreateUserRequest carries the risk profile fields for a new user.
type CreateUserRequest struct {
	Age                int     `json:"age"`
	Income             float64 `json:"income"`
	RiskTolerance      string  `json:"riskTolerance"`
	RiskAssessmentMode string  `json:"riskAssessmentMode"`
	RetirementYears    int     `json:"retirementYears"`
	ObligationsAmount  float64 `json:"obligationsAmount"`
}

// UpdateProfileRequest carries the risk profile fields for a profile update.
// The full profile is replaced; partial updates are not supported.
type UpdateProfileRequest struct {
	Age                int     `json:"age"`
	Income             float64 `json:"income"`
	RiskTolerance      string  `json:"riskTolerance"`
	RiskAssessmentMode string  `json:"riskAssessmentMode"`
	RetirementYears    int     `json:"retirementYears"`
	ObligationsAmount  float64 `json:"obligationsAmount"`
}
