package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
)

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	// Simple creation with defaults
//	user := testutil.NewUser().Build(t, db)
//
//	// Customized user
//	user := testutil.NewUser().
//	    WithAge(60).
//	    WithRiskTolerance(model.RiskConservative).
//	    Build(t, db)
type UserBuilder struct {
	ID                 string
	Age                int
	Income             float64
	RiskTolerance      string
	RiskAssessmentMode string
	RetirementYears    int
	ObligationsAmount  float64
	CreatedAt          time.Time
}

// NewUser creates a UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	return &UserBuilder{
		ID:                 MakeID(),
		Age:                35,
		Income:             80000,
		RiskTolerance:      model.RiskModerate,
		RiskAssessmentMode: model.AssessmentManual,
		RetirementYears:    30,
		ObligationsAmount:  1500,
		CreatedAt:          time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

// WithID sets a custom ID.
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.ID = id
	return b
}

// WithAge sets a custom age.
func (b *UserBuilder) WithAge(age int) *UserBuilder {
	b.Age = age
	return b
}

// WithIncome sets a custom income.
func (b *UserBuilder) WithIncome(income float64) *UserBuilder {
	b.Income = income
	return b
}

// WithRiskTolerance sets a custom risk tolerance.
func (b *UserBuilder) WithRiskTolerance(tolerance string) *UserBuilder {
	b.RiskTolerance = tolerance
	return b
}

// WithAssessmentMode sets a custom risk assessment mode.
func (b *UserBuilder) WithAssessmentMode(mode string) *UserBuilder {
	b.RiskAssessmentMode = mode
	return b
}

// WithRetirementYears sets a custom number of years to retirement.
func (b *UserBuilder) WithRetirementYears(years int) *UserBuilder {
	b.RetirementYears = years
	return b
}

// WithObligations sets a custom monthly obligations amount.
func (b *UserBuilder) WithObligations(amount float64) *UserBuilder {
	b.ObligationsAmount = amount
	return b
}

// Build creates the user in the database and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	query := `
		INSERT INTO users (id, age, income, risk_tolerance, risk_assessment_mode, retirement_years, obligations_amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Age, b.Income, b.RiskTolerance, b.RiskAssessmentMode, b.RetirementYears, b.ObligationsAmount, b.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return model.User{
		ID:                 b.ID,
		Age:                b.Age,
		Income:             b.Income,
		RiskTolerance:      b.RiskTolerance,
		RiskAssessmentMode: b.RiskAssessmentMode,
		RetirementYears:    b.RetirementYears,
		ObligationsAmount:  b.ObligationsAmount,
		CreatedAt:          b.CreatedAt,
	}
}

// HoldingBuilder provides a fluent interface for creating test holdings.
//
// Example usage:
//
//	holding := testutil.NewHolding(user.ID).
//	    WithTicker("AAPL").
//	    WithShares(10).
//	    WithAvgPrice(150).
//	    Build(t, db)
type HoldingBuilder struct {
	ID        string
	UserID    string
	Ticker    string
	Shares    float64
	AvgPrice  float64
	AssetType string
}

// NewHolding creates a HoldingBuilder with sensible defaults for the given user.
func NewHolding(userID string) *HoldingBuilder {
	return &HoldingBuilder{
		ID:        MakeID(),
		UserID:    userID,
		Ticker:    MakeTicker("TST"),
		Shares:    10,
		AvgPrice:  100,
		AssetType: "Common Stock",
	}
}

// WithID sets a custom ID.
func (b *HoldingBuilder) WithID(id string) *HoldingBuilder {
	b.ID = id
	return b
}

// WithTicker sets a custom ticker.
func (b *HoldingBuilder) WithTicker(ticker string) *HoldingBuilder {
	b.Ticker = ticker
	return b
}

// WithShares sets a custom share count.
func (b *HoldingBuilder) WithShares(shares float64) *HoldingBuilder {
	b.Shares = shares
	return b
}

// WithAvgPrice sets a custom average price.
func (b *HoldingBuilder) WithAvgPrice(price float64) *HoldingBuilder {
	b.AvgPrice = price
	return b
}

// WithAssetType sets a custom asset type.
func (b *HoldingBuilder) WithAssetType(assetType string) *HoldingBuilder {
	b.AssetType = assetType
	return b
}

// Build creates the holding in the database and returns it.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	query := `
		INSERT INTO holdings (id, user_id, ticker, shares, avg_price, asset_type)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.UserID, b.Ticker, b.Shares, b.AvgPrice, b.AssetType)
	if err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}

	return model.Holding{
		ID:        b.ID,
		UserID:    b.UserID,
		Ticker:    b.Ticker,
		Shares:    b.Shares,
		AvgPrice:  b.AvgPrice,
		AssetType: b.AssetType,
	}
}

// StockDataBuilder provides a fluent interface for creating cached market
// data rows.
type StockDataBuilder struct {
	Ticker       string
	CurrentPrice *float64
	Sector       string
	AssetType    string
	LastUpdated  time.Time
}

// NewStockData creates a StockDataBuilder with sensible defaults.
func NewStockData(ticker string) *StockDataBuilder {
	price := 100.0
	return &StockDataBuilder{
		Ticker:       ticker,
		CurrentPrice: &price,
		Sector:       "Technology",
		AssetType:    "Common Stock",
		LastUpdated:  time.Now().UTC(),
	}
}

// WithPrice sets a custom current price.
func (b *StockDataBuilder) WithPrice(price float64) *StockDataBuilder {
	b.CurrentPrice = &price
	return b
}

// WithoutPrice clears the current price.
func (b *StockDataBuilder) WithoutPrice() *StockDataBuilder {
	b.CurrentPrice = nil
	return b
}

// WithSector sets a custom sector.
func (b *StockDataBuilder) WithSector(sector string) *StockDataBuilder {
	b.Sector = sector
	return b
}

// WithAssetType sets a custom asset type.
func (b *StockDataBuilder) WithAssetType(assetType string) *StockDataBuilder {
	b.AssetType = assetType
	return b
}

// WithLastUpdated sets a custom refresh timestamp.
func (b *StockDataBuilder) WithLastUpdated(t time.Time) *StockDataBuilder {
	b.LastUpdated = t
	return b
}

// Build creates the stock data row in the database and returns it.
func (b *StockDataBuilder) Build(t *testing.T, db *sql.DB) model.StockData {
	t.Helper()

	query := `
		INSERT INTO stock_data (ticker, current_price, sector, asset_type, last_updated)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.Ticker, b.CurrentPrice, b.Sector, b.AssetType, b.LastUpdated)
	if err != nil {
		t.Fatalf("Failed to create test stock data: %v", err)
	}

	return model.StockData{
		Ticker:       b.Ticker,
		CurrentPrice: b.CurrentPrice,
		Sector:       b.Sector,
		AssetType:    b.AssetType,
		LastUpdated:  b.LastUpdated,
	}
}

// Convenience functions

// CreateUser creates a user with default profile values.
func CreateUser(t *testing.T, db *sql.DB) model.User {
	t.Helper()
	return NewUser().Build(t, db)
}

// CreateHolding creates a holding for the given user and ticker.
func CreateHolding(t *testing.T, db *sql.DB, userID, ticker string, shares, avgPrice float64) model.Holding {
	t.Helper()
	return NewHolding(userID).WithTicker(ticker).WithShares(shares).WithAvgPrice(avgPrice).Build(t, db)
}
