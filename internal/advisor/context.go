package advisor

import (
	"fmt"
	"time"

	"finsight-backend/internal/store"
)

// ContextOverrides carries request-supplied context fields. Nil pointers mean
// "leave the stored value alone"; present fields replace it.
type ContextOverrides struct {
	MonthlyIncome   *float64 `json:"monthly_income,omitempty"`
	MonthlyExpenses *float64 `json:"monthly_expenses,omitempty"`
	SavingsGoal     *float64 `json:"savings_goal,omitempty"`
	DebtAmount      *float64 `json:"debt_amount,omitempty"`
	RiskTolerance   *string  `json:"risk_tolerance,omitempty"`
	FinancialGoals  []string `json:"financial_goals,omitempty"`
}

// ContextManager merges stored financial context with per-request overrides
// and persists the result. Merge is shallow, last-write-wins per field; it
// never validates cross-field consistency.
type ContextManager struct {
	contexts store.ContextStore
}

func NewContextManager(contexts store.ContextStore) *ContextManager {
	return &ContextManager{contexts: contexts}
}

// Resolve loads the stored context for userID (empty if none), applies
// overrides, persists the merged context and returns it. Resolving twice with
// the same overrides is idempotent.
func (cm *ContextManager) Resolve(userID string, overrides ContextOverrides) (store.FinancialContext, error) {
	ctx, _, err := cm.contexts.GetContext(userID)
	if err != nil {
		return store.FinancialContext{}, fmt.Errorf("failed to load context: %w", err)
	}
	ctx.UserID = userID

	if overrides.MonthlyIncome != nil {
		ctx.MonthlyIncome = overrides.MonthlyIncome
	}
	if overrides.MonthlyExpenses != nil {
		ctx.MonthlyExpenses = overrides.MonthlyExpenses
	}
	if overrides.SavingsGoal != nil {
		ctx.SavingsGoal = overrides.SavingsGoal
	}
	if overrides.DebtAmount != nil {
		ctx.DebtAmount = overrides.DebtAmount
	}
	if overrides.RiskTolerance != nil {
		ctx.RiskTolerance = overrides.RiskTolerance
	}
	if overrides.FinancialGoals != nil {
		ctx.FinancialGoals = append([]string(nil), overrides.FinancialGoals...)
	}
	ctx.UpdatedAt = time.Now()

	if err := cm.contexts.PutContext(ctx); err != nil {
		return store.FinancialContext{}, fmt.Errorf("failed to persist context: %w", err)
	}
	return ctx, nil
}
