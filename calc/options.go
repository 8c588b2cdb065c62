package calc

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Option types.
const (
	OptionPut  = "p"
	OptionCall = "c"
)

const (
	contractSize = 100
	// Price axis of the profit/loss matrix spans ±15% of the current
	// price in 1% steps.
	matrixPriceRange = 0.15
	matrixPriceStep  = 0.01
)

// OptionProfitInput describes a long option position to analyze.
type OptionProfitInput struct {
	CurrentPrice float64 `json:"current_price" description:"Current price of the underlying"`
	StrikePrice  float64 `json:"strike_price" description:"Option strike price"`
	DaysToExpiry int     `json:"days_to_expiry" description:"Days until the option expires"`
	OptionType   string  `json:"option_type" description:"p for put or c for call"`
	InitialPrice float64 `json:"initial_price" description:"Premium paid per share for the option"`
	Contracts    int     `json:"contracts,omitempty" description:"Number of contracts held"`
	InterestRate float64 `json:"interest_rate,omitempty" description:"Risk-free interest rate as a decimal, e.g. 0.05 for 5%"`
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// blackScholes prices a European call and put. sigma is annualized
// volatility as a decimal, t is time to expiry in years.
func blackScholes(s, k, r, t, sigma float64) (call, put float64) {
	if t <= 0 || sigma <= 0 {
		call = math.Max(s-k, 0)
		put = math.Max(k-s, 0)
		return call, put
	}

	sqrtT := math.Sqrt(t)
	d1 := (math.Log(s/k) + (r+sigma*sigma/2)*t) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	call = s*normCDF(d1) - k*math.Exp(-r*t)*normCDF(d2)
	put = k*math.Exp(-r*t)*normCDF(-d2) - s*normCDF(-d1)
	return call, put
}

// impliedVolatility solves for the volatility that reproduces the observed
// option price by bisection. Returns an error when no volatility in
// (0, 500%] fits.
func impliedVolatility(s, k, r, t, price float64, optionType string) (float64, error) {
	priceAt := func(sigma float64) float64 {
		call, put := blackScholes(s, k, r, t, sigma)
		if optionType == OptionPut {
			return put
		}
		return call
	}

	low, high := 1e-4, 5.0
	if price < priceAt(low) || price > priceAt(high) {
		return 0, errors.New("no implied volatility matches the observed option price")
	}

	for i := 0; i < 100; i++ {
		mid := (low + high) / 2
		if priceAt(mid) < price {
			low = mid
		} else {
			high = mid
		}
	}
	return (low + high) / 2, nil
}

// OptionProfit derives implied volatility from the premium paid, then tables
// projected profit/loss across underlying prices and calendar days until
// expiry.
func OptionProfit(in OptionProfitInput) (string, error) {
	if in.OptionType != OptionPut && in.OptionType != OptionCall {
		return "", errors.New("option_type must be 'p' for put or 'c' for call")
	}
	if in.CurrentPrice <= 0 || in.StrikePrice <= 0 || in.DaysToExpiry < 0 || in.InitialPrice < 0 {
		return "", errors.New("prices and days must be positive numbers")
	}
	contracts := in.Contracts
	if contracts == 0 {
		contracts = 1
	}
	if contracts < 1 {
		return "", errors.New("number of contracts must be at least 1")
	}

	tYears := float64(in.DaysToExpiry) / 365
	iv, err := impliedVolatility(in.CurrentPrice, in.StrikePrice, in.InterestRate, tYears, in.InitialPrice, in.OptionType)
	if err != nil {
		return "", err
	}

	totalCost := in.InitialPrice * contractSize * float64(contracts)

	var prices []float64
	for p := in.CurrentPrice * (1 - matrixPriceRange); p < in.CurrentPrice*(1+matrixPriceRange); p += in.CurrentPrice * matrixPriceStep {
		prices = append(prices, p)
	}

	valueAt := func(price float64, daysLeft int) float64 {
		if daysLeft == 0 {
			if in.OptionType == OptionPut {
				return math.Max(in.StrikePrice-price, 0)
			}
			return math.Max(price-in.StrikePrice, 0)
		}
		call, put := blackScholes(price, in.StrikePrice, in.InterestRate, float64(daysLeft)/365, iv)
		if in.OptionType == OptionPut {
			return put
		}
		return call
	}

	breakEven := in.StrikePrice + in.InitialPrice
	if in.OptionType == OptionPut {
		breakEven = in.StrikePrice - in.InitialPrice
	}

	var b strings.Builder
	b.WriteString("Option Analysis:\n")
	fmt.Fprintf(&b, "Initial price: $%.2f\n", in.InitialPrice)
	fmt.Fprintf(&b, "Total cost: $%.2f\n", totalCost)
	fmt.Fprintf(&b, "Break-even at expiry: $%.2f\n", breakEven)
	fmt.Fprintf(&b, "Implied Volatility: %.2f%%\n\n", iv*100)
	b.WriteString("Profit/Loss Matrix (rows=prices high to low, columns=days from today):\n")

	// Highest price first.
	for i := len(prices) - 1; i >= 0; i-- {
		price := prices[i]
		fmt.Fprintf(&b, "$%8.2f:", price)
		for day := 0; day <= in.DaysToExpiry; day++ {
			daysLeft := in.DaysToExpiry - day
			profitLoss := valueAt(price, daysLeft)*contractSize*float64(contracts) - totalCost
			fmt.Fprintf(&b, " %8.0f", math.Round(profitLoss))
		}
		b.WriteByte('\n')
	}

	return b.String(), nil
}
