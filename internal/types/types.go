package types

import (
	"finsight-backend/internal/advisor"
	"finsight-backend/internal/store"
)

type ChatRequest struct {
	Message   string                   `json:"message"`
	UserID    string                   `json:"user_id,omitempty"`
	SessionID string                   `json:"session_id,omitempty"`
	Context   advisor.ContextOverrides `json:"context,omitempty"`
}

type ChatResponse struct {
	Success      bool     `json:"success"`
	Response     string   `json:"response"`
	Suggestions  []string `json:"suggestions"`
	QuickReplies []string `json:"quick_replies"`
	Intent       string   `json:"intent"`
	SessionID    string   `json:"session_id"`
	Timestamp    string   `json:"timestamp"`
}

type ContextRequest struct {
	UserID  string                   `json:"user_id"`
	Context advisor.ContextOverrides `json:"context"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HistoryResponse struct {
	Success   bool         `json:"success"`
	History   []store.Turn `json:"history"`
	SessionID string       `json:"session_id"`
}

type SessionsResponse struct {
	Success  bool                   `json:"success"`
	Sessions []store.SessionSummary `json:"sessions"`
}

type SuggestionsResponse struct {
	Success     bool     `json:"success"`
	Suggestions []string `json:"suggestions"`
}

type HealthResponse struct {
	Success        bool   `json:"success"`
	AIAvailable    bool   `json:"ai_available"`
	ActiveSessions int    `json:"active_sessions"`
	Timestamp      string `json:"timestamp"`
}

type EMIRequest struct {
	Principal    float64 `json:"principal"`
	AnnualRate   float64 `json:"annual_rate"`
	TenureMonths int     `json:"tenure_months"`
}

type FIRERequest struct {
	AnnualExpenses float64  `json:"annual_expenses"`
	CurrentSavings float64  `json:"current_savings"`
	MonthlySavings float64  `json:"monthly_savings"`
	ExpectedReturn *float64 `json:"expected_return,omitempty"`
	WithdrawalRate *float64 `json:"withdrawal_rate,omitempty"`
}

type HealthScoreRequest struct {
	MonthlyIncome   float64 `json:"monthly_income"`
	MonthlySpending float64 `json:"monthly_spending"`
}

type ErrorResponse struct {
	Success          bool   `json:"success"`
	Error            string `json:"error"`
	FallbackResponse string `json:"fallback_response,omitempty"`
}
