package calc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{999.999, "$1,000.00"},
		{1234567.891, "$1,234,567.89"},
		{-45.5, "-$45.50"},
		{100, "$100.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, money(tt.in))
	}
}

func TestCompoundInterest_ZeroReturn(t *testing.T) {
	out, err := CompoundInterest(CompoundInterestInput{
		StartAge:          30,
		MonthlyInvestment: 100,
		AnnualReturn:      0,
		FutureAge:         40,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Total invested: $12,000.00")
	assert.Contains(t, out, "Final amount: $12,000.00")
	assert.Contains(t, out, "Total returns: $0.00")
}

func TestCompoundInterest_StopAgeGrowsUntilFutureAge(t *testing.T) {
	out, err := CompoundInterest(CompoundInterestInput{
		StartAge:          20,
		MonthlyInvestment: 500,
		AnnualReturn:      8,
		FutureAge:         60,
		StopInvestingAge:  30,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "- Stop monthly investments: 30")
	assert.Contains(t, out, "- Continues growing for 30 more years")
	assert.Contains(t, out, "Total invested: $60,000.00")
}

func TestCompoundInterest_Validation(t *testing.T) {
	_, err := CompoundInterest(CompoundInterestInput{StartAge: 40, FutureAge: 30})
	assert.Error(t, err)

	_, err = CompoundInterest(CompoundInterestInput{StartAge: 30, FutureAge: 40, StopInvestingAge: 50})
	assert.Error(t, err)
}

func TestRetirement401k_ZeroReturnArithmetic(t *testing.T) {
	out, err := Retirement401k(Retirement401kInput{
		CurrentAge:              30,
		RetirementAge:           31,
		AnnualSalary:            120000,
		ContributionPercentage:  10,
		EmployerMatchPercentage: 100,
		EmployerMatchLimit:      6,
		AnnualReturn:            0,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Total personal contributions: $12,000.00")
	assert.Contains(t, out, "Total employer match: $600.00")
	assert.Contains(t, out, "Final balance (nominal): $12,600.00")
}

func TestRetirement401k_ContributionLimit(t *testing.T) {
	// 40% of 120k is 48k, capped at the 23k deferral limit.
	out, err := Retirement401k(Retirement401kInput{
		CurrentAge:              30,
		RetirementAge:           31,
		AnnualSalary:            120000,
		ContributionPercentage:  40,
		EmployerMatchPercentage: 0,
		EmployerMatchLimit:      0,
		AnnualReturn:            0,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Total personal contributions: $23,000.00")
}

func TestRetirement401k_AnnualMatchCap(t *testing.T) {
	annualCap := 300.0
	out, err := Retirement401k(Retirement401kInput{
		CurrentAge:              30,
		RetirementAge:           31,
		AnnualSalary:            120000,
		ContributionPercentage:  10,
		EmployerMatchPercentage: 100,
		EmployerMatchLimit:      6,
		AnnualReturn:            0,
		EmployerAnnualMaxMatch:  &annualCap,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Total employer match: $300.00")
}

func TestRetirement401k_Validation(t *testing.T) {
	_, err := Retirement401k(Retirement401kInput{CurrentAge: 65, RetirementAge: 60})
	assert.Error(t, err)
}

func TestHomeAffordability_DesiredPriceOutOfReach(t *testing.T) {
	desired := 700000.0
	out, err := HomeAffordability(HomeAffordabilityInput{
		AnnualIncome:          100000,
		DownPayment:           50000,
		LoanTermYears:         30,
		InterestRate:          1,
		MonthlyDebt:           500,
		MonthlyHOAPMI:         200,
		DesiredHomePrice:      &desired,
		PropertyTaxRate:       1.1,
		HomeInsuranceRate:     0.5,
		MaxDTIRatio:           43,
		FrontEndDTIRatio:      28,
		MinDownPaymentPercent: 3.5,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Analysis for Desired Price: $700,000.00")
	assert.Contains(t, out, "Risk Level: "+RiskExtreme)
	assert.Contains(t, out, "below 20% - PMI required")
}

func TestHomeAffordability_ComfortableDefault(t *testing.T) {
	out, err := HomeAffordability(HomeAffordabilityInput{
		AnnualIncome:          200000,
		DownPayment:           150000,
		LoanTermYears:         30,
		InterestRate:          5,
		MonthlyDebt:           0,
		PropertyTaxRate:       1.1,
		HomeInsuranceRate:     0.5,
		MaxDTIRatio:           43,
		FrontEndDTIRatio:      28,
		MinDownPaymentPercent: 3.5,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Analysis for Maximum Comfortable Price")
	assert.Contains(t, out, "Risk Level: "+RiskComfortable)
}

func TestHomeAffordability_Validation(t *testing.T) {
	_, err := HomeAffordability(HomeAffordabilityInput{AnnualIncome: 0})
	assert.Error(t, err)
}

func TestLoan_ZeroInterest(t *testing.T) {
	out, err := Loan(LoanInput{
		LoanAmount:    12000,
		LoanTermYears: 1,
		InterestRate:  0,
		StartDate:     "2024-01-01",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Monthly Payment: $1,000.00")
	assert.Contains(t, out, "Total Interest: $0.00")
	assert.Contains(t, out, "Total Number of Payments: 12")
	assert.Contains(t, out, "Start Date: January 01, 2024")
	assert.Contains(t, out, "Estimated Payoff Date: December 01, 2024")
}

func TestLoan_InterestAccrues(t *testing.T) {
	out, err := Loan(LoanInput{
		LoanAmount:    300000,
		LoanTermYears: 30,
		InterestRate:  6.5,
		StartDate:     "2024-01-01",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Monthly Payment: $1,896.20")
	assert.Contains(t, out, "Estimated Payoff Date: December 01, 2053")
}

func TestLoan_Validation(t *testing.T) {
	_, err := Loan(LoanInput{LoanAmount: -1, LoanTermYears: 10})
	assert.Error(t, err)

	_, err = Loan(LoanInput{LoanAmount: 1000, LoanTermYears: 1, StartDate: "01/01/2024"})
	assert.Error(t, err)
}

func TestFinancialFreedom_FixedWithdrawals(t *testing.T) {
	out, err := FinancialFreedom(FinancialFreedomInput{
		CurrentSavings:     10000,
		MonthlyExpenses:    1000,
		AnnualGrowthRate:   0,
		WithdrawalStrategy: WithdrawalFixed,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "(10 months)")
}

func TestFinancialFreedom_GrowthOutpacesExpenses(t *testing.T) {
	// 7% on 1M vs 2k/month expenses never depletes; capped at 100 years.
	out, err := FinancialFreedom(FinancialFreedomInput{
		CurrentSavings:     1000000,
		MonthlyExpenses:    2000,
		AnnualGrowthRate:   7,
		WithdrawalStrategy: WithdrawalFixed,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "(1200 months)")
	assert.Contains(t, out, "Target nest egg for traditional 4% rule: $600,000.00")
}

func TestFinancialFreedom_Validation(t *testing.T) {
	_, err := FinancialFreedom(FinancialFreedomInput{CurrentSavings: 0, MonthlyExpenses: 100})
	assert.Error(t, err)

	_, err = FinancialFreedom(FinancialFreedomInput{CurrentSavings: 1000, MonthlyExpenses: 0})
	assert.Error(t, err)
}

func TestImpliedVolatility_RoundTrip(t *testing.T) {
	const (
		s     = 100.0
		k     = 100.0
		r     = 0.05
		tExp  = 30.0 / 365
		sigma = 0.30
	)
	call, put := blackScholes(s, k, r, tExp, sigma)

	ivCall, err := impliedVolatility(s, k, r, tExp, call, OptionCall)
	require.NoError(t, err)
	assert.InDelta(t, sigma, ivCall, 1e-3)

	ivPut, err := impliedVolatility(s, k, r, tExp, put, OptionPut)
	require.NoError(t, err)
	assert.InDelta(t, sigma, ivPut, 1e-3)
}

func TestBlackScholes_IntrinsicAtExpiry(t *testing.T) {
	call, put := blackScholes(110, 100, 0.05, 0, 0.3)
	assert.Equal(t, 10.0, call)
	assert.Equal(t, 0.0, put)
}

func TestOptionProfit(t *testing.T) {
	// Premium produced by the pricer itself so the implied vol solver has
	// an exact solution.
	_, put := blackScholes(100, 100, 0.05, 5.0/365, 0.30)

	out, err := OptionProfit(OptionProfitInput{
		CurrentPrice: 100,
		StrikePrice:  100,
		DaysToExpiry: 5,
		OptionType:   OptionPut,
		InitialPrice: put,
		Contracts:    1,
		InterestRate: 0.05,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Option Analysis:")
	assert.Contains(t, out, "Implied Volatility: 30.00%")
	assert.Contains(t, out, "Profit/Loss Matrix")
}

func TestOptionProfit_Validation(t *testing.T) {
	_, err := OptionProfit(OptionProfitInput{OptionType: "x"})
	assert.Error(t, err)

	_, err = OptionProfit(OptionProfitInput{OptionType: OptionPut, CurrentPrice: -1})
	assert.Error(t, err)
}

func TestWeather(t *testing.T) {
	assert.Equal(t, "It's 60 degrees and foggy.", Weather("sf"))
	assert.Equal(t, "It's 60 degrees and foggy.", Weather("San Francisco"))
	assert.Equal(t, "It's 90 degrees and sunny.", Weather("nyc"))
	assert.Equal(t, "nyc, sf", CoolestCities())
}

func TestDefaultRegistry(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)
	assert.Equal(t, 8, reg.Len())

	for _, name := range []string{
		"calculate_compound_interest",
		"calculate_401k_retirement",
		"calculate_home_affordability",
		"calculate_loan",
		"calculate_financial_freedom",
		"calculate_option_profit",
		"get_weather",
		"get_coolest_cities",
	} {
		_, ok := reg.Lookup(name)
		assert.True(t, ok, name)
	}
}

func TestToolCall_WeaklyTypedArguments(t *testing.T) {
	out, err := CompoundInterestTool().Call(context.Background(), map[string]any{
		"start_age":          "30",
		"monthly_investment": "100",
		"annual_return":      "0",
		"future_age":         "40",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Final amount: $12,000.00")
}
