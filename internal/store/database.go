package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"finsight-backend/internal/db"
)

// DatabaseStore persists financial contexts in PostgreSQL. Sessions stay in
// memory; contexts are the durable half of the advisor state.
type DatabaseStore struct {
	db *db.DB
}

// NewDatabaseStore creates a new database-backed context store
func NewDatabaseStore(database *db.DB) *DatabaseStore {
	return &DatabaseStore{db: database}
}

// PutContext saves or updates a user's financial context
func (ds *DatabaseStore) PutContext(ctx FinancialContext) error {
	if ctx.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	goals, err := json.Marshal(ctx.FinancialGoals)
	if err != nil {
		return fmt.Errorf("failed to encode financial goals: %w", err)
	}

	query := `
		INSERT INTO financial_contexts
			(user_id, monthly_income, monthly_expenses, savings_goal, debt_amount, risk_tolerance, financial_goals, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			monthly_income = EXCLUDED.monthly_income,
			monthly_expenses = EXCLUDED.monthly_expenses,
			savings_goal = EXCLUDED.savings_goal,
			debt_amount = EXCLUDED.debt_amount,
			risk_tolerance = EXCLUDED.risk_tolerance,
			financial_goals = EXCLUDED.financial_goals,
			updated_at = NOW()
	`

	_, err = ds.db.Exec(query,
		ctx.UserID,
		ctx.MonthlyIncome,
		ctx.MonthlyExpenses,
		ctx.SavingsGoal,
		ctx.DebtAmount,
		ctx.RiskTolerance,
		goals,
	)
	if err != nil {
		return fmt.Errorf("failed to save financial context: %w", err)
	}
	return nil
}

// GetContext retrieves a user's financial context. A missing row is not an
// error; it reports (zero value, false, nil).
func (ds *DatabaseStore) GetContext(userID string) (FinancialContext, bool, error) {
	if userID == "" {
		return FinancialContext{}, false, fmt.Errorf("user_id is required")
	}

	query := `
		SELECT user_id, monthly_income, monthly_expenses, savings_goal, debt_amount, risk_tolerance, financial_goals, updated_at
		FROM financial_contexts
		WHERE user_id = $1
	`

	var (
		ctx       FinancialContext
		goals     []byte
		updatedAt time.Time
	)
	err := ds.db.QueryRow(query, userID).Scan(
		&ctx.UserID,
		&ctx.MonthlyIncome,
		&ctx.MonthlyExpenses,
		&ctx.SavingsGoal,
		&ctx.DebtAmount,
		&ctx.RiskTolerance,
		&goals,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return FinancialContext{}, false, nil
	}
	if err != nil {
		return FinancialContext{}, false, fmt.Errorf("failed to get financial context: %w", err)
	}

	if len(goals) > 0 {
		if err := json.Unmarshal(goals, &ctx.FinancialGoals); err != nil {
			return FinancialContext{}, false, fmt.Errorf("failed to decode financial goals: %w", err)
		}
	}
	ctx.UpdatedAt = updatedAt
	return ctx, true, nil
}
