package model

import "time"

// Risk tolerance categories produced by the classifier and stored on a user.
const (
	RiskConservative = "conservative"
	RiskModerate     = "moderate"
	RiskAggressive   = "aggressive"
)

// Risk assessment modes. In manual mode the user picks their own tolerance;
// in ai mode the classifier output is stored at assessment time.
const (
	AssessmentManual = "manual"
	AssessmentAI     = "ai"
)

// User represents a user and their risk profile from the database
type User struct {
	ID                 string    `json:"id"`
	Age                int       `json:"age"`
	Income             float64   `json:"income"`
	RiskTolerance      string    `json:"riskTolerance"`
	RiskAssessmentMode string    `json:"riskAssessmentMode"`
	RetirementYears    int       `json:"retirementYears"`
	ObligationsAmount  float64   `json:"obligationsAmount"`
	CreatedAt          time.Time `json:"createdAt"`
}
