package calc

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// LoanInput describes a fixed-rate amortizing loan.
type LoanInput struct {
	LoanAmount    float64 `json:"loan_amount" description:"Principal loan amount"`
	LoanTermYears float64 `json:"loan_term_years" description:"Duration of the loan in years"`
	InterestRate  float64 `json:"interest_rate" description:"Annual interest rate as a percentage"`
	StartDate     string  `json:"start_date,omitempty" description:"Loan start date in YYYY-MM-DD format"`
}

type loanPayment struct {
	num       int
	date      time.Time
	payment   float64
	principal float64
	interest  float64
	balance   float64
}

// Loan computes the fixed monthly payment, the full amortization schedule
// and lifetime interest for the given terms.
func Loan(in LoanInput) (string, error) {
	if in.LoanAmount <= 0 || in.LoanTermYears <= 0 || in.InterestRate < 0 {
		return "", errors.New("invalid loan parameters")
	}

	monthlyRate := in.InterestRate / 100 / 12
	totalPayments := int(in.LoanTermYears * 12)

	var monthlyPayment float64
	if monthlyRate == 0 {
		monthlyPayment = in.LoanAmount / float64(totalPayments)
	} else {
		monthlyPayment = in.LoanAmount * (monthlyRate * math.Pow(1+monthlyRate, float64(totalPayments))) / (math.Pow(1+monthlyRate, float64(totalPayments)) - 1)
	}

	current := time.Now()
	if in.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", in.StartDate)
		if err != nil {
			return "", fmt.Errorf("start_date must use YYYY-MM-DD format: %w", err)
		}
		current = parsed
	}

	remaining := in.LoanAmount
	var totalInterest float64
	schedule := make([]loanPayment, 0, totalPayments)

	for num := 1; num <= totalPayments; num++ {
		interest := remaining * monthlyRate
		principal := monthlyPayment - interest

		totalInterest += interest
		remaining -= principal

		schedule = append(schedule, loanPayment{
			num:       num,
			date:      current,
			payment:   monthlyPayment,
			principal: principal,
			interest:  interest,
			balance:   math.Max(0, remaining),
		})

		current = current.AddDate(0, 1, 0)
	}

	payoffDate := schedule[len(schedule)-1].date
	totalPaid := in.LoanAmount + totalInterest

	report := []string{
		"Loan Analysis Summary",
		"",
		"Loan Details:",
		fmt.Sprintf("Loan Amount: %s", money(in.LoanAmount)),
		fmt.Sprintf("Interest Rate: %s", percent(in.InterestRate)),
		fmt.Sprintf("Loan Term: %g years", in.LoanTermYears),
		"",
		"Payment Information:",
		fmt.Sprintf("Monthly Payment: %s", money(monthlyPayment)),
		fmt.Sprintf("Total Number of Payments: %d", totalPayments),
		fmt.Sprintf("Start Date: %s", schedule[0].date.Format("January 02, 2006")),
		fmt.Sprintf("Estimated Payoff Date: %s", payoffDate.Format("January 02, 2006")),
		"",
		"Total Cost Breakdown:",
		fmt.Sprintf("Total Principal: %s", money(in.LoanAmount)),
		fmt.Sprintf("Total Interest: %s", money(totalInterest)),
		fmt.Sprintf("Total Amount Paid: %s", money(totalPaid)),
		"",
		"Amortization Schedule (First Year):",
	}

	firstYear := schedule
	if len(firstYear) > 12 {
		firstYear = firstYear[:12]
	}
	for _, p := range firstYear {
		report = append(report, fmt.Sprintf(
			"Payment %d - %s: Payment: %s (Principal: %s, Interest: %s), Remaining Balance: %s",
			p.num, p.date.Format("January 2006"), money(p.payment),
			money(p.principal), money(p.interest), money(p.balance)))
	}

	report = append(report,
		"",
		"Loan Statistics:",
		fmt.Sprintf("Interest to Principal Ratio: %.1f%%", totalInterest/in.LoanAmount*100),
		fmt.Sprintf("Monthly Payment as Percentage of Loan: %.2f%%", monthlyPayment/in.LoanAmount*100),
		fmt.Sprintf("Total Interest as Percentage of Loan: %.1f%%", totalInterest/in.LoanAmount*100),
	)

	return strings.Join(report, "\n"), nil
}
