package store

import "time"

// Turn is one completed conversational exchange. Immutable once appended.
type Turn struct {
	UserID      string    `json:"user_id"`
	UserMessage string    `json:"user_message"`
	Response    string    `json:"ai_response"`
	Timestamp   time.Time `json:"timestamp"`
}

// FinancialContext holds a user's stored financial profile. All fields are
// optional; merge semantics are last-write-wins per supplied field.
type FinancialContext struct {
	UserID          string    `json:"user_id"`
	MonthlyIncome   *float64  `json:"monthly_income,omitempty"`
	MonthlyExpenses *float64  `json:"monthly_expenses,omitempty"`
	SavingsGoal     *float64  `json:"savings_goal,omitempty"`
	DebtAmount      *float64  `json:"debt_amount,omitempty"`
	RiskTolerance   *string   `json:"risk_tolerance,omitempty"`
	FinancialGoals  []string  `json:"financial_goals,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SessionSummary describes one session in a per-user listing.
type SessionSummary struct {
	SessionID    string    `json:"session_id"`
	LastMessage  string    `json:"last_message"`
	LastUpdated  time.Time `json:"last_updated"`
	MessageCount int       `json:"message_count"`
}

// SessionStore is the append-only, capped, per-session conversation log.
// Lookups on unknown sessions return empty results, never errors.
type SessionStore interface {
	Append(sessionID string, turn Turn)
	History(sessionID string, limit int) []Turn
	Delete(sessionID string)
	ListForUser(userID string) []SessionSummary
	Len() int
}

// ContextStore persists per-user financial contexts. A missing user yields
// (zero context, false), not an error.
type ContextStore interface {
	GetContext(userID string) (FinancialContext, bool, error)
	PutContext(ctx FinancialContext) error
}
