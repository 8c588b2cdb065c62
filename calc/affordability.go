package calc

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Affordability risk labels, from comfortable to out of reach.
const (
	RiskComfortable = "You're good"
	RiskCautious    = "Okay but use caution"
	RiskRisky       = "Risky don't do it"
	RiskExtreme     = "Good luck with that"
)

// HomeAffordabilityInput models a purchase scenario. Zero-valued rate fields
// are filled with conventional defaults by the tool wrapper.
type HomeAffordabilityInput struct {
	AnnualIncome          float64  `json:"annual_income" description:"Annual pre-tax income"`
	DownPayment           float64  `json:"down_payment" description:"Available down payment"`
	LoanTermYears         int      `json:"loan_term_years" description:"Loan duration in years"`
	InterestRate          float64  `json:"interest_rate" description:"Annual interest rate as a percentage"`
	MonthlyDebt           float64  `json:"monthly_debt" description:"Monthly debt payments such as car loans and credit cards"`
	MonthlyHOAPMI         float64  `json:"monthly_hoa_pmi,omitempty" description:"Monthly HOA fees and PMI"`
	PropertyTaxRate       float64  `json:"property_tax_rate,omitempty" description:"Annual property tax rate as a percentage"`
	HomeInsuranceRate     float64  `json:"home_insurance_rate,omitempty" description:"Annual home insurance rate as a percentage"`
	DesiredHomePrice      *float64 `json:"desired_home_price,omitempty" description:"Optional desired home price to analyze"`
	MaxDTIRatio           float64  `json:"max_dti_ratio,omitempty" description:"Maximum debt-to-income ratio as a percentage"`
	FrontEndDTIRatio      float64  `json:"front_end_dti_ratio,omitempty" description:"Maximum housing expense ratio as a percentage"`
	MinDownPaymentPercent float64  `json:"min_down_payment_percent,omitempty" description:"Minimum required down payment as a percentage"`
}

type monthlyCosts struct {
	mortgage      float64
	propertyTax   float64
	insurance     float64
	hoaPMI        float64
	pmi           float64
	totalHousing  float64
	totalWithDebt float64
	frontEndRatio float64
	backEndRatio  float64
}

// HomeAffordability computes price bands for three debt-to-income
// thresholds by binary search and grades a desired price against them.
func HomeAffordability(in HomeAffordabilityInput) (string, error) {
	if in.AnnualIncome <= 0 || in.DownPayment < 0 {
		return "", errors.New("income must be positive and down payment cannot be negative")
	}

	monthlyIncome := in.AnnualIncome / 12

	costsFor := func(price float64) monthlyCosts {
		loanAmount := price - in.DownPayment
		monthlyRate := in.InterestRate / 100 / 12
		numPayments := float64(in.LoanTermYears * 12)

		var mortgage float64
		if monthlyRate == 0 {
			mortgage = loanAmount / numPayments
		} else {
			mortgage = loanAmount * (monthlyRate * math.Pow(1+monthlyRate, numPayments)) / (math.Pow(1+monthlyRate, numPayments) - 1)
		}

		propertyTax := price * in.PropertyTaxRate / 100 / 12
		insurance := price * in.HomeInsuranceRate / 100 / 12

		var pmi float64
		if in.DownPayment/price < 0.2 {
			pmi = loanAmount * 0.01 / 12
		}

		totalHousing := mortgage + propertyTax + insurance + in.MonthlyHOAPMI + pmi
		totalWithDebt := totalHousing + in.MonthlyDebt

		return monthlyCosts{
			mortgage:      mortgage,
			propertyTax:   propertyTax,
			insurance:     insurance,
			hoaPMI:        in.MonthlyHOAPMI,
			pmi:           pmi,
			totalHousing:  totalHousing,
			totalWithDebt: totalWithDebt,
			frontEndRatio: totalHousing / monthlyIncome * 100,
			backEndRatio:  totalWithDebt / monthlyIncome * 100,
		}
	}

	maxPriceFor := func(targetDTI float64) float64 {
		low, high := 0.0, in.AnnualIncome*5
		maxPrice := 0.0
		for high-low > 1000 {
			mid := (high + low) / 2
			if costsFor(mid).backEndRatio <= targetDTI {
				maxPrice = mid
				low = mid
			} else {
				high = mid
			}
		}
		return maxPrice
	}

	comfortableMax := maxPriceFor(in.FrontEndDTIRatio)
	cautiousMax := maxPriceFor(35)
	riskyMax := maxPriceFor(in.MaxDTIRatio)

	riskFor := func(price float64) string {
		switch {
		case price <= comfortableMax:
			return RiskComfortable
		case price <= cautiousMax:
			return RiskCautious
		case price <= riskyMax:
			return RiskRisky
		default:
			return RiskExtreme
		}
	}

	analysisPrice := comfortableMax
	analysisLabel := "Maximum Comfortable"
	if in.DesiredHomePrice != nil {
		analysisPrice = *in.DesiredHomePrice
		analysisLabel = "Desired"
	}
	costs := costsFor(analysisPrice)

	report := []string{
		"Home Affordability Analysis",
		"",
		"Affordability Ranges:",
		fmt.Sprintf("Up to %s - %s", money(comfortableMax), RiskComfortable),
		fmt.Sprintf("%s-%s - %s", money(comfortableMax), money(cautiousMax), RiskCautious),
		fmt.Sprintf("%s-%s - %s", money(cautiousMax), money(riskyMax), RiskRisky),
		fmt.Sprintf("Over %s - %s", money(riskyMax), RiskExtreme),
		"",
		fmt.Sprintf("Analysis for %s Price: %s", analysisLabel, money(analysisPrice)),
		fmt.Sprintf("Risk Level: %s", riskFor(analysisPrice)),
		"",
		"Monthly Payment Breakdown:",
		fmt.Sprintf("Principal & Interest: %s", money(costs.mortgage)),
		fmt.Sprintf("Property Tax: %s", money(costs.propertyTax)),
		fmt.Sprintf("Home Insurance: %s", money(costs.insurance)),
		fmt.Sprintf("HOA/PMI: %s", money(costs.hoaPMI)),
		fmt.Sprintf("Additional PMI: %s", money(costs.pmi)),
		fmt.Sprintf("Total Monthly Housing: %s", money(costs.totalHousing)),
		fmt.Sprintf("Total Monthly with Debt: %s", money(costs.totalWithDebt)),
		"",
		"Affordability Metrics:",
		fmt.Sprintf("Housing Expense Ratio: %.1f%% (Target: %s)", costs.frontEndRatio, percent(in.FrontEndDTIRatio)),
		fmt.Sprintf("Debt-to-Income Ratio: %.1f%% (Max: %s)", costs.backEndRatio, percent(in.MaxDTIRatio)),
	}

	downPaymentPercent := in.DownPayment / analysisPrice * 100
	if downPaymentPercent < 20 {
		report = append(report, fmt.Sprintf("Note: Down payment (%.1f%%) is below 20%% - PMI required", downPaymentPercent))
	}
	if downPaymentPercent < in.MinDownPaymentPercent {
		report = append(report, fmt.Sprintf("Warning: Down payment is below minimum required (%s)", percent(in.MinDownPaymentPercent)))
	}
	if costs.backEndRatio > in.MaxDTIRatio {
		report = append(report, "Warning: Debt-to-income ratio exceeds recommended maximum")
	}

	return strings.Join(report, "\n"), nil
}
