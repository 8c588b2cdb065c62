package calc

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Withdrawal strategies for FinancialFreedom.
const (
	WithdrawalInflationAdjusted = "inflation_adjusted"
	WithdrawalFixed             = "fixed"
)

// Drawdown projections cap at 100 years.
const maxDrawdownMonths = 1200

// FinancialFreedomInput describes a savings drawdown scenario.
type FinancialFreedomInput struct {
	CurrentSavings           float64 `json:"current_savings" description:"Current savings or investment balance"`
	MonthlyExpenses          float64 `json:"monthly_expenses" description:"Monthly living expenses"`
	AnnualGrowthRate         float64 `json:"annual_growth_rate" description:"Expected return on investments as a percentage"`
	ExpectedInflationRate    float64 `json:"expected_inflation_rate,omitempty" description:"Expected inflation rate as a percentage"`
	AdditionalMonthlySavings float64 `json:"additional_monthly_savings,omitempty" description:"Optional ongoing monthly savings"`
	WithdrawalStrategy       string  `json:"withdrawal_strategy,omitempty" description:"Either inflation_adjusted or fixed"`
	TargetEndBalance         float64 `json:"target_end_balance,omitempty" description:"Desired remaining balance at the end"`
}

type drawdownYear struct {
	year            int
	balance         float64
	monthlyExpenses float64
}

// FinancialFreedom simulates a month-by-month drawdown until savings fall to
// the target balance, with expenses optionally rising each year with
// inflation.
func FinancialFreedom(in FinancialFreedomInput) (string, error) {
	if in.CurrentSavings <= 0 {
		return "", errors.New("current savings must be greater than zero")
	}
	if in.MonthlyExpenses <= 0 {
		return "", errors.New("monthly expenses must be greater than zero")
	}

	monthlyGrowth := in.AnnualGrowthRate / 100 / 12
	balance := in.CurrentSavings
	expenses := in.MonthlyExpenses
	months := 0
	currentYear := time.Now().Year()
	var projections []drawdownYear

	for balance > in.TargetEndBalance && months < maxDrawdownMonths {
		if months%12 == 0 {
			projections = append(projections, drawdownYear{
				year:            currentYear + months/12,
				balance:         balance,
				monthlyExpenses: expenses,
			})
		}

		balance += in.AdditionalMonthlySavings
		balance *= 1 + monthlyGrowth
		balance -= expenses

		if in.WithdrawalStrategy != WithdrawalFixed && (months+1)%12 == 0 {
			expenses *= 1 + in.ExpectedInflationRate/100
		}

		months++

		if balance <= in.TargetEndBalance {
			break
		}
	}

	years := float64(months) / 12
	inflationFactor := math.Pow(1+in.ExpectedInflationRate/100, years)
	realFinalBalance := balance / inflationFactor

	report := []string{
		"Financial Freedom Analysis",
		"",
		"Initial Information:",
		fmt.Sprintf("Current savings: %s", money(in.CurrentSavings)),
		fmt.Sprintf("Original monthly expenses: %s", money(in.MonthlyExpenses)),
		fmt.Sprintf("Annual growth rate: %s", percent(in.AnnualGrowthRate)),
		fmt.Sprintf("Inflation rate: %s", percent(in.ExpectedInflationRate)),
	}

	if in.AdditionalMonthlySavings > 0 {
		report = append(report, fmt.Sprintf("Additional monthly savings: %s", money(in.AdditionalMonthlySavings)))
	}

	report = append(report,
		"",
		"Projected Results:",
		fmt.Sprintf("Your savings will last: %.1f years (%d months)", years, months),
		fmt.Sprintf("Final balance (nominal): %s", money(balance)),
		fmt.Sprintf("Final balance (real %d dollars): %s", currentYear, money(realFinalBalance)),
		"",
		"Key Milestones:",
	)

	step := len(projections) / 8
	if step < 1 {
		step = 1
	}
	for i := 0; i < len(projections); i += step {
		p := projections[i]
		report = append(report, fmt.Sprintf("Year %d: Balance: %s, Monthly Expenses: %s",
			p.year, money(p.balance), money(p.monthlyExpenses)))
	}

	// Traditional 4% rule target.
	annualExpenses := in.MonthlyExpenses * 12
	targetNestEgg := annualExpenses * 25

	report = append(report,
		"",
		"Financial Independence Insights:",
		fmt.Sprintf("Annual expenses: %s", money(annualExpenses)),
		fmt.Sprintf("Target nest egg for traditional 4%% rule: %s", money(targetNestEgg)),
		fmt.Sprintf("Current savings ratio: %.1f%% of target", in.CurrentSavings/targetNestEgg*100),
	)

	return strings.Join(report, "\n"), nil
}
