package calc

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ValidationError reports a calculator input that violates a precondition.
// Handlers map it to a 400 response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// fireMaxMonths caps the FIRE simulation at 50 years. Hitting the cap is a
// termination guarantee, not success; the result is flagged non-converged.
const fireMaxMonths = 600

type EMIResult struct {
	EMI           float64 `json:"emi"`
	TotalPayment  float64 `json:"total_payment"`
	TotalInterest float64 `json:"total_interest"`
}

// EMI computes the equated monthly installment for a loan.
// annualRatePercent of 0 is the no-interest edge case: principal / tenure.
func EMI(principal, annualRatePercent float64, tenureMonths int) (EMIResult, error) {
	if principal <= 0 {
		return EMIResult{}, &ValidationError{Field: "principal", Reason: "must be positive"}
	}
	if tenureMonths <= 0 {
		return EMIResult{}, &ValidationError{Field: "tenure_months", Reason: "must be positive"}
	}
	if annualRatePercent < 0 {
		return EMIResult{}, &ValidationError{Field: "annual_rate", Reason: "must not be negative"}
	}

	rate := annualRatePercent / 100 / 12
	n := float64(tenureMonths)
	var emi float64
	if rate == 0 {
		emi = principal / n
	} else {
		factor := math.Pow(1+rate, n)
		emi = principal * rate * factor / (factor - 1)
	}
	totalPayment := emi * n
	return EMIResult{
		EMI:           round2(emi),
		TotalPayment:  round2(totalPayment),
		TotalInterest: round2(totalPayment - principal),
	}, nil
}

type FIREResult struct {
	TargetCorpus float64 `json:"target_corpus"`
	MonthsNeeded int     `json:"months_needed"`
	YearsNeeded  float64 `json:"years_needed"`
	FinalBalance float64 `json:"final_balance"`
	Converged    bool    `json:"converged"`
}

// FIRE simulates compound monthly growth toward a retirement corpus sized by
// the withdrawal rate. The legacy "25x annual expenses" rule is the 4% special
// case of the same formula and is not implemented separately.
func FIRE(annualExpenses, currentSavings, monthlySavings, expectedReturnPercent, withdrawalRatePercent float64) (FIREResult, error) {
	if annualExpenses <= 0 {
		return FIREResult{}, &ValidationError{Field: "annual_expenses", Reason: "must be positive"}
	}
	if withdrawalRatePercent <= 0 {
		return FIREResult{}, &ValidationError{Field: "withdrawal_rate", Reason: "must be positive"}
	}
	if expectedReturnPercent < 0 {
		return FIREResult{}, &ValidationError{Field: "expected_return", Reason: "must not be negative"}
	}

	target := annualExpenses / (withdrawalRatePercent / 100)

	if currentSavings >= target {
		return FIREResult{
			TargetCorpus: round2(target),
			MonthsNeeded: 0,
			YearsNeeded:  0,
			FinalBalance: round2(currentSavings),
			Converged:    true,
		}, nil
	}
	if monthlySavings <= 0 {
		return FIREResult{}, &ValidationError{
			Field:  "monthly_savings",
			Reason: "cannot reach target without positive monthly contribution",
		}
	}

	monthlyReturn := expectedReturnPercent / 100 / 12
	balance := currentSavings
	months := 0
	for balance < target && months < fireMaxMonths {
		balance = balance*(1+monthlyReturn) + monthlySavings
		months++
	}

	return FIREResult{
		TargetCorpus: round2(target),
		MonthsNeeded: months,
		YearsNeeded:  round1(float64(months) / 12),
		FinalBalance: round2(balance),
		Converged:    balance >= target,
	}, nil
}

type HealthResult struct {
	Income      float64 `json:"income"`
	Spending    float64 `json:"spending"`
	Savings     float64 `json:"savings"`
	HealthScore float64 `json:"health_score"`
}

// HealthScore is the floor-60 composite: 60 + (savings/max(income,1))*40,
// clamped to [0,100]. The max(income,1) guard keeps a neutral baseline when
// income is zero or unknown.
func HealthScore(monthlyIncome, monthlySpending float64) HealthResult {
	savings := monthlyIncome - monthlySpending
	score := 60 + (savings/math.Max(monthlyIncome, 1))*40
	score = math.Min(100, math.Max(0, score))
	return HealthResult{
		Income:      round2(monthlyIncome),
		Spending:    round2(monthlySpending),
		Savings:     round2(savings),
		HealthScore: round2(score),
	}
}

// round2 rounds to 2 decimal places for presentation. Internal simulation
// math stays in full float precision; only outputs pass through here.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

func round1(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}
