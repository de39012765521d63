package advisor

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finsight-backend/internal/store"
)

// Composed is the presentation layer derived from a raw advisory response.
type Composed struct {
	QuickReplies []string
	Suggestions  []string
}

type quickReplyRule struct {
	keywords []string
	replies  []string
}

// Scanned in priority order against the response text, not the user message.
var quickReplyRules = []quickReplyRule{
	{
		keywords: []string{"budget", "budgeting"},
		replies:  []string{"Show me budget templates", "How to track expenses?", "50/30/20 rule explanation"},
	},
	{
		keywords: []string{"save", "saving", "savings"},
		replies:  []string{"Emergency fund tips", "High-yield savings accounts", "Automatic savings strategies"},
	},
	{
		keywords: []string{"invest", "investment"},
		replies:  []string{"Investment basics for beginners", "Index funds vs ETFs", "How much should I invest?"},
	},
	{
		keywords: []string{"debt", "loan"},
		replies:  []string{"Debt payoff strategies", "Student loan options", "Debt consolidation advice"},
	},
}

var genericQuickReplies = []string{
	"Create a budget plan",
	"Investment advice",
	"Debt management tips",
	"Savings strategies",
}

// Compose derives quick replies from the response text and a surplus/deficit
// suggestion from the user's context when both income and expenses are known.
func Compose(rawText string, ctx store.FinancialContext) Composed {
	lower := strings.ToLower(rawText)

	replies := genericQuickReplies
	for _, rule := range quickReplyRules {
		if containsAny(lower, rule.keywords) {
			replies = rule.replies
			break
		}
	}

	suggestions := []string{}
	if ctx.MonthlyIncome != nil && ctx.MonthlyExpenses != nil {
		surplus := *ctx.MonthlyIncome - *ctx.MonthlyExpenses
		if surplus > 0 {
			suggestions = append(suggestions, fmt.Sprintf(
				"You have %s monthly surplus - consider increasing savings or investments",
				formatMoney(surplus)))
		} else if surplus < 0 {
			suggestions = append(suggestions,
				"Your expenses exceed income - let's work on budget optimization")
		}
	}

	return Composed{QuickReplies: replies, Suggestions: suggestions}
}

// formatMoney renders a dollar amount with thousands separators, e.g. $1,250.00.
func formatMoney(v float64) string {
	fixed := decimal.NewFromFloat(v).StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	whole := fixed[:len(fixed)-3]
	frac := fixed[len(fixed)-3:]
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-$" + b.String() + frac
	}
	return "$" + b.String() + frac
}
