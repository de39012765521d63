package advisor

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FallbackLibrary holds one canned advisory paragraph per intent. Intents
// without an entry resolve to the general paragraph.
type FallbackLibrary struct {
	responses map[Intent]string
}

var defaultFallbacks = map[Intent]string{
	IntentBudgeting: "I'd be happy to help you with budgeting! A good starting point is the 50/30/20 rule: 50% for needs, 30% for wants, and 20% for savings. Would you like me to explain how to set this up?",
	IntentSaving:    "Building savings is crucial! Start with an emergency fund of 3-6 months of expenses. Even saving $25-50 per month makes a difference. What's your current savings goal?",
	IntentInvesting: "Investing can help grow your wealth over time. For beginners, I recommend starting with low-cost index funds or ETFs. Would you like to know more about getting started?",
	IntentDebt:      "Managing debt is important for financial health. Focus on high-interest debt first, consider the debt avalanche or snowball method. What type of debt are you dealing with?",
	IntentPlanning:  "Financial planning starts with setting clear goals. Whether it's an emergency fund, vacation, or retirement - having specific targets helps. What's your main financial goal?",
	IntentGeneral:   "I'm here to help with all your personal finance questions! I can assist with budgeting, saving, investing, debt management, and financial planning. What would you like to explore?",
}

// NewFallbackLibrary returns the built-in library.
func NewFallbackLibrary() *FallbackLibrary {
	responses := make(map[Intent]string, len(defaultFallbacks))
	for k, v := range defaultFallbacks {
		responses[k] = v
	}
	return &FallbackLibrary{responses: responses}
}

// LoadFallbackLibrary reads per-intent overrides from a YAML file and merges
// them over the built-in defaults.
func LoadFallbackLibrary(path string) (*FallbackLibrary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var overrides map[string]string
	if err := yaml.Unmarshal(b, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse fallback library %s: %w", path, err)
	}
	lib := NewFallbackLibrary()
	for k, v := range overrides {
		if v != "" {
			lib.responses[Intent(k)] = v
		}
	}
	return lib, nil
}

// Respond selects the paragraph for the message's intent.
func (l *FallbackLibrary) Respond(message string) (string, Intent) {
	intent := Classify(message)
	if text, ok := l.responses[intent]; ok {
		return text, intent
	}
	return l.responses[IntentGeneral], intent
}
