package advisor

import "strings"

// Intent is the coarse topic label assigned to a user message.
type Intent string

const (
	IntentBudgeting Intent = "budgeting"
	IntentSaving    Intent = "saving"
	IntentInvesting Intent = "investing"
	IntentDebt      Intent = "debt"
	IntentPlanning  Intent = "planning"
	IntentIncome    Intent = "income"
	IntentEducation Intent = "education"
	IntentGeneral   Intent = "general"
)

type intentRule struct {
	intent   Intent
	keywords []string
}

// intentRules is scanned in order; the first rule with any keyword present
// wins, so priority is the table order, not keyword specificity.
var intentRules = []intentRule{
	{IntentBudgeting, []string{"budget", "expense", "spending", "track", "money management"}},
	{IntentSaving, []string{"save", "savings", "emergency fund", "goal"}},
	{IntentInvesting, []string{"invest", "investment", "stocks", "portfolio", "etf", "index fund"}},
	{IntentDebt, []string{"debt", "loan", "credit", "payment", "payoff"}},
	{IntentPlanning, []string{"plan", "goal", "future", "retirement", "financial plan"}},
	{IntentIncome, []string{"income", "salary", "job", "career", "money"}},
	{IntentEducation, []string{"learn", "explain", "what is", "how does", "help me understand"}},
	{IntentGeneral, []string{"hello", "hi", "help", "advice", "recommendation"}},
}

// Classify maps free text to an intent label. Total and deterministic:
// unmatched text falls through to general.
func Classify(text string) Intent {
	m := strings.ToLower(text)
	for _, rule := range intentRules {
		if containsAny(m, rule.keywords) {
			return rule.intent
		}
	}
	return IntentGeneral
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
