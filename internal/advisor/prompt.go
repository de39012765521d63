package advisor

import (
	"fmt"
	"strings"

	"finsight-backend/internal/store"
)

const (
	// Only the most recent turns are surfaced to the model, each clipped for
	// prompt economy.
	promptHistoryLimit    = 10
	promptHistoryMaxChars = 100
)

const systemPrompt = `You are FinSight AI, an expert financial advisor specializing in personal finance for students and young professionals.

Your expertise includes budgeting, savings strategies, student loans and debt management, investment basics, financial goal setting, and credit building.

Guidelines:
1. Always provide practical, actionable advice
2. Explain financial concepts in simple, easy-to-understand terms
3. Consider the user's specific financial situation and context
4. Be encouraging and supportive
5. Keep responses concise but comprehensive`

// buildPrompt assembles the contextual prompt: financial context summary,
// clipped recent history, then the current question.
func buildPrompt(message string, ctx store.FinancialContext, history []store.Turn) string {
	var parts []string

	if summary := contextSummary(ctx); summary != "" {
		parts = append(parts, "User's Financial Context: "+summary)
	}

	if len(history) > 0 {
		lines := make([]string, 0, len(history)*2)
		for _, t := range history {
			lines = append(lines, "User: "+truncate(t.UserMessage, promptHistoryMaxChars))
			lines = append(lines, "Assistant: "+truncate(t.Response, promptHistoryMaxChars))
		}
		parts = append(parts, "Recent Conversation: "+strings.Join(lines, " || "))
	}

	parts = append(parts, "Current Question: "+message)
	return strings.Join(parts, "\n\n")
}

func contextSummary(ctx store.FinancialContext) string {
	var info []string
	if ctx.MonthlyIncome != nil {
		info = append(info, fmt.Sprintf("Monthly Income: %s", formatMoney(*ctx.MonthlyIncome)))
	}
	if ctx.MonthlyExpenses != nil {
		info = append(info, fmt.Sprintf("Monthly Expenses: %s", formatMoney(*ctx.MonthlyExpenses)))
	}
	if ctx.SavingsGoal != nil {
		info = append(info, fmt.Sprintf("Savings Goal: %s", formatMoney(*ctx.SavingsGoal)))
	}
	if ctx.DebtAmount != nil {
		info = append(info, fmt.Sprintf("Current Debt: %s", formatMoney(*ctx.DebtAmount)))
	}
	if ctx.RiskTolerance != nil {
		info = append(info, "Risk Tolerance: "+*ctx.RiskTolerance)
	}
	if len(ctx.FinancialGoals) > 0 {
		info = append(info, "Goals: "+strings.Join(ctx.FinancialGoals, ", "))
	}
	return strings.Join(info, " | ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
