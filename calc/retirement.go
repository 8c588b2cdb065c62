package calc

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// IRS 401(k) employee deferral limits, 2024 tax year.
const (
	baseContributionLimit = 23000
	catchUpAmount         = 7500
	catchUpAge            = 50
)

// Retirement401kInput captures a 401(k) plan with layered employer match
// limits: a percent-of-salary cap, an optional per-paycheck dollar cap and an
// optional annual cap.
type Retirement401kInput struct {
	CurrentAge              int      `json:"current_age" description:"Current age of the individual"`
	RetirementAge           int      `json:"retirement_age" description:"Expected retirement age"`
	AnnualSalary            float64  `json:"annual_salary" description:"Current annual salary"`
	ContributionPercentage  float64  `json:"contribution_percentage" description:"Percentage of salary contributed to the 401(k)"`
	EmployerMatchPercentage float64  `json:"employer_match_percentage" description:"Percentage of salary matched by the employer"`
	EmployerMatchLimit      float64  `json:"employer_match_limit" description:"Maximum percentage of salary the employer will match"`
	AnnualReturn            float64  `json:"annual_return" description:"Expected average annual return as a percentage"`
	Current401kBalance      float64  `json:"current_401k_balance,omitempty" description:"Current 401(k) balance"`
	SalaryIncreaseRate      float64  `json:"salary_increase_rate,omitempty" description:"Expected annual salary increase as a percentage"`
	ExpectedInflationRate   float64  `json:"expected_inflation_rate,omitempty" description:"Expected inflation rate as a percentage"`
	CatchUpContributions    *bool    `json:"catch_up_contributions,omitempty" description:"Whether to include catch-up contributions after 50"`
	EmployerMatchDollarCap  *float64 `json:"employer_match_dollar_limit,omitempty" description:"Maximum dollar amount the employer will match per paycheck"`
	EmployerAnnualMaxMatch  *float64 `json:"employer_annual_max_match,omitempty" description:"Maximum annual employer match"`
}

type yearTotal struct {
	age           int
	year          int
	salary        float64
	contribution  float64
	employerMatch float64
	balance       float64
}

// Retirement401k projects a 401(k) balance month by month until retirement,
// applying IRS deferral limits and every configured employer match cap.
func Retirement401k(in Retirement401kInput) (string, error) {
	if in.RetirementAge <= in.CurrentAge {
		return "", errors.New("retirement age must be greater than current age")
	}

	catchUp := true
	if in.CatchUpContributions != nil {
		catchUp = *in.CatchUpContributions
	}

	currentYear := time.Now().Year()
	yearsUntilRetirement := in.RetirementAge - in.CurrentAge
	balance := in.Current401kBalance
	var totalContributions, totalEmployerMatch float64
	var yearlyTotals []yearTotal

	monthlyReturn := in.AnnualReturn / 100 / 12

	for year := 0; year < yearsUntilRetirement; year++ {
		age := in.CurrentAge + year
		var yearContributions, yearMatch float64
		remainingAnnualMatch := math.Inf(1)
		if in.EmployerAnnualMaxMatch != nil {
			remainingAnnualMatch = *in.EmployerAnnualMaxMatch
		}

		annualLimit := float64(baseContributionLimit)
		if catchUp && age >= catchUpAge {
			annualLimit += catchUpAmount
		}

		annualSalary := in.AnnualSalary * math.Pow(1+in.SalaryIncreaseRate/100, float64(year))
		monthlySalary := annualSalary / 12
		monthlyContribution := monthlySalary * in.ContributionPercentage / 100

		for month := 0; month < 12; month++ {
			remainingLimit := annualLimit - yearContributions
			actualContribution := math.Min(monthlyContribution, remainingLimit)
			if actualContribution <= 0 {
				continue
			}

			matchEligible := math.Min(monthlySalary/12*in.EmployerMatchLimit/100, actualContribution)
			monthlyMatch := matchEligible * in.EmployerMatchPercentage / 100
			if in.EmployerMatchDollarCap != nil {
				monthlyMatch = math.Min(monthlyMatch, *in.EmployerMatchDollarCap)
			}
			monthlyMatch = math.Min(monthlyMatch, remainingAnnualMatch)
			remainingAnnualMatch -= monthlyMatch

			yearContributions += actualContribution
			yearMatch += monthlyMatch

			balance = (balance + actualContribution + monthlyMatch) * (1 + monthlyReturn)
		}

		totalContributions += yearContributions
		totalEmployerMatch += yearMatch

		yearlyTotals = append(yearlyTotals, yearTotal{
			age:           age,
			year:          currentYear + year,
			salary:        monthlySalary * 12,
			contribution:  yearContributions,
			employerMatch: yearMatch,
			balance:       balance,
		})
	}

	inflationFactor := math.Pow(1+in.ExpectedInflationRate/100, float64(yearsUntilRetirement))
	realFinalBalance := balance / inflationFactor

	report := []string{
		"401(k) Retirement Analysis",
		"",
		"Initial Information:",
		fmt.Sprintf("Current age: %d", in.CurrentAge),
		fmt.Sprintf("Retirement age: %d", in.RetirementAge),
		fmt.Sprintf("Starting salary: %s", money(in.AnnualSalary)),
		fmt.Sprintf("Current 401(k) balance: %s", money(in.Current401kBalance)),
		"",
		"Contribution Details:",
		fmt.Sprintf("Your contribution: %s of salary", percent(in.ContributionPercentage)),
		fmt.Sprintf("Employer match: %s up to %s of salary", percent(in.EmployerMatchPercentage), percent(in.EmployerMatchLimit)),
	}

	if in.EmployerMatchDollarCap != nil {
		report = append(report, fmt.Sprintf("Employer match dollar limit per paycheck: %s", money(*in.EmployerMatchDollarCap)))
	}
	if in.EmployerAnnualMaxMatch != nil {
		report = append(report, fmt.Sprintf("Employer annual maximum match: %s", money(*in.EmployerAnnualMaxMatch)))
	}

	report = append(report,
		fmt.Sprintf("Expected annual return: %s", percent(in.AnnualReturn)),
		fmt.Sprintf("Expected salary increase: %s", percent(in.SalaryIncreaseRate)),
		"",
		"Projected Results:",
		fmt.Sprintf("Total personal contributions: %s", money(totalContributions)),
		fmt.Sprintf("Total employer match: %s", money(totalEmployerMatch)),
		fmt.Sprintf("Total contributions: %s", money(totalContributions+totalEmployerMatch)),
		fmt.Sprintf("Final balance (nominal): %s", money(balance)),
		fmt.Sprintf("Final balance (real dollars): %s", money(realFinalBalance)),
		"",
		"Key Milestones:",
	)

	for i := 0; i < len(yearlyTotals); i += 5 {
		total := yearlyTotals[i]
		report = append(report, fmt.Sprintf("Age %d (%d): Balance: %s, Salary: %s",
			total.age, total.year, money(total.balance), money(total.salary)))
	}

	return strings.Join(report, "\n"), nil
}
