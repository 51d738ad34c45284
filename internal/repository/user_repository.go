package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
)

// UserRepository provides data access methods for the users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user with their risk profile fields.
func (r *UserRepository) Create(user model.User) (model.User, error) {
	query := `
		INSERT INTO users (id, age, income, risk_tolerance, risk_assessment_mode, retirement_years, obligations_amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		user.ID,
		user.Age,
		user.Income,
		user.RiskTolerance,
		user.RiskAssessmentMode,
		user.RetirementYears,
		user.ObligationsAmount,
		user.CreatedAt.UTC(),
	)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID.
// Returns apperrors.ErrUserNotFound when no row exists.
func (r *UserRepository) GetByID(userID string) (model.User, error) {
	query := `
		SELECT id, age, income, risk_tolerance, risk_assessment_mode, retirement_years, obligations_amount, created_at
		FROM users
		WHERE id = ?
	`

	var u model.User
	err := r.db.QueryRow(query, userID).Scan(
		&u.ID,
		&u.Age,
		&u.Income,
		&u.RiskTolerance,
		&u.RiskAssessmentMode,
		&u.RetirementYears,
		&u.ObligationsAmount,
		&u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to query user: %w", err)
	}

	return u, nil
}

// Update replaces a user's risk profile fields.
// Returns apperrors.ErrUserNotFound when no row was updated.
func (r *UserRepository) Update(user model.User) (model.User, error) {
	query := `
		UPDATE users
		SET age = ?, income = ?, risk_tolerance = ?, risk_assessment_mode = ?, retirement_years = ?, obligations_amount = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		user.Age,
		user.Income,
		user.RiskTolerance,
		user.RiskAssessmentMode,
		user.RetirementYears,
		user.ObligationsAmount,
		user.ID,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return model.User{}, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return model.User{}, apperrors.ErrUserNotFound
	}

	return user, nil
}
