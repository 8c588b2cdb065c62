package calc

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// CompoundInterestInput describes an investment plan with an optional early
// stop age after which the balance only compounds.
type CompoundInterestInput struct {
	StartAge          int     `json:"start_age" description:"Age when starting to invest"`
	MonthlyInvestment float64 `json:"monthly_investment" description:"Monthly investment amount"`
	AnnualReturn      float64 `json:"annual_return" description:"Expected average annual return as a percentage, e.g. 8 for 8%"`
	FutureAge         int     `json:"future_age" description:"Age at which to calculate total returns"`
	StopInvestingAge  int     `json:"stop_investing_age,omitempty" description:"Optional age to stop monthly investments, defaults to future_age"`
	InitialInvestment float64 `json:"initial_investment,omitempty" description:"Optional initial lump sum investment"`
}

// CompoundInterest projects the value of recurring monthly investments.
// Contributions stop at StopInvestingAge but the balance keeps compounding
// until FutureAge.
func CompoundInterest(in CompoundInterestInput) (string, error) {
	if in.FutureAge < in.StartAge {
		return "", errors.New("future age must be greater than start age")
	}

	stopAge := in.StopInvestingAge
	if stopAge == 0 {
		stopAge = in.FutureAge
	}
	if stopAge < in.StartAge || stopAge > in.FutureAge {
		return "", errors.New("stop investing age must be between start age and future age")
	}

	totalYears := in.FutureAge - in.StartAge
	contributingYears := stopAge - in.StartAge
	growthOnlyYears := in.FutureAge - stopAge

	monthlyRate := in.AnnualReturn / 100 / 12
	contributingMonths := contributingYears * 12
	totalMonths := totalYears * 12

	var initialFV, monthlyFV float64
	if monthlyRate > 0 {
		initialFV = in.InitialInvestment * math.Pow(1+monthlyRate, float64(totalMonths))
		if contributingMonths > 0 {
			accumulated := in.MonthlyInvestment * (math.Pow(1+monthlyRate, float64(contributingMonths)) - 1) / monthlyRate
			monthlyFV = accumulated * math.Pow(1+monthlyRate, float64(growthOnlyYears*12))
		}
	} else {
		initialFV = in.InitialInvestment
		monthlyFV = in.MonthlyInvestment * float64(contributingMonths)
	}

	totalInvested := in.InitialInvestment + in.MonthlyInvestment*float64(contributingMonths)
	futureValue := initialFV + monthlyFV
	totalReturns := futureValue - totalInvested

	report := []string{
		"Investment Summary:",
		fmt.Sprintf("Initial investment: %s", money(in.InitialInvestment)),
		fmt.Sprintf("Monthly investment: %s (for %d years)", money(in.MonthlyInvestment), contributingYears),
		"Investment timeline:",
		fmt.Sprintf("- Start age: %d", in.StartAge),
		fmt.Sprintf("- Stop monthly investments: %d", stopAge),
		fmt.Sprintf("- Final calculation age: %d", in.FutureAge),
		fmt.Sprintf("- Total growth period: %d years", totalYears),
		fmt.Sprintf("Annual return rate: %s", percent(in.AnnualReturn)),
		"",
		"Results:",
		fmt.Sprintf("Total invested: %s", money(totalInvested)),
		fmt.Sprintf("Total returns: %s", money(totalReturns)),
		fmt.Sprintf("Final amount: %s", money(futureValue)),
	}

	if contributingYears > 0 && growthOnlyYears > 0 {
		report = append(report,
			"",
			"Key Milestones:",
			fmt.Sprintf("At age %d (when monthly investments stop):", stopAge),
			fmt.Sprintf("- Total invested: %s", money(totalInvested)),
			fmt.Sprintf("- Continues growing for %d more years", growthOnlyYears),
		)
	}

	return strings.Join(report, "\n"), nil
}
