package calc

import (
	"context"

	"github.com/mitchellh/mapstructure"

	"github.com/finchat/finchat/tool"
)

// decodeInput maps coerced tool arguments onto a typed calculator input.
// Weak typing tolerates models sending numbers as strings.
func decodeInput(name string, args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return tool.NewError(name, tool.CodeExecutionError, err.Error())
	}
	if err := decoder.Decode(args); err != nil {
		return tool.NewError(name, tool.CodeBadArgument, err.Error())
	}
	return nil
}

func withDefault(schema tool.Schema, param string, def any) tool.Schema {
	spec := schema[param]
	spec.Default = def
	schema[param] = spec
	return schema
}

func withEnum(schema tool.Schema, param string, values ...string) tool.Schema {
	spec := schema[param]
	spec.Enum = values
	schema[param] = spec
	return schema
}

// CompoundInterestTool projects recurring investments with compound growth.
func CompoundInterestTool() tool.Tool {
	schema := tool.FromStruct(CompoundInterestInput{})
	return tool.NewFuncTool(
		"calculate_compound_interest",
		"Calculate compound interest for investment over time with optional stop age and initial investment. Continues calculating returns until future_age even after stopping monthly investments.",
		schema,
		func(_ context.Context, args map[string]any) (string, error) {
			var in CompoundInterestInput
			if err := decodeInput("calculate_compound_interest", args, &in); err != nil {
				return "", err
			}
			out, err := CompoundInterest(in)
			if err != nil {
				return "", tool.NewError("calculate_compound_interest", tool.CodeBadArgument, err.Error())
			}
			return out, nil
		},
	)
}

// Retirement401kTool projects a 401(k) balance with employer match rules.
func Retirement401kTool() tool.Tool {
	schema := tool.FromStruct(Retirement401kInput{})
	schema = withDefault(schema, "salary_increase_rate", 2.0)
	schema = withDefault(schema, "expected_inflation_rate", 2.5)
	schema = withDefault(schema, "catch_up_contributions", true)
	return tool.NewFuncTool(
		"calculate_401k_retirement",
		"Calculate 401(k) retirement savings with comprehensive employer matching rules.",
		schema,
		func(_ context.Context, args map[string]any) (string, error) {
			var in Retirement401kInput
			if err := decodeInput("calculate_401k_retirement", args, &in); err != nil {
				return "", err
			}
			out, err := Retirement401k(in)
			if err != nil {
				return "", tool.NewError("calculate_401k_retirement", tool.CodeBadArgument, err.Error())
			}
			return out, nil
		},
	)
}

// HomeAffordabilityTool grades home prices into risk bands by DTI ratios.
func HomeAffordabilityTool() tool.Tool {
	schema := tool.FromStruct(HomeAffordabilityInput{})
	schema = withDefault(schema, "property_tax_rate", 1.1)
	schema = withDefault(schema, "home_insurance_rate", 0.5)
	schema = withDefault(schema, "max_dti_ratio", 43.0)
	schema = withDefault(schema, "front_end_dti_ratio", 28.0)
	schema = withDefault(schema, "min_down_payment_percent", 3.5)
	return tool.NewFuncTool(
		"calculate_home_affordability",
		"Calculate home affordability with risk levels based on income and debt ratios.",
		schema,
		func(_ context.Context, args map[string]any) (string, error) {
			var in HomeAffordabilityInput
			if err := decodeInput("calculate_home_affordability", args, &in); err != nil {
				return "", err
			}
			applyAffordabilityDefaults(&in)
			out, err := HomeAffordability(in)
			if err != nil {
				return "", tool.NewError("calculate_home_affordability", tool.CodeBadArgument, err.Error())
			}
			return out, nil
		},
	)
}

// applyAffordabilityDefaults fills conventional rates when a caller bypasses
// schema-level defaulting, e.g. direct Call in tests.
func applyAffordabilityDefaults(in *HomeAffordabilityInput) {
	if in.PropertyTaxRate == 0 {
		in.PropertyTaxRate = 1.1
	}
	if in.HomeInsuranceRate == 0 {
		in.HomeInsuranceRate = 0.5
	}
	if in.MaxDTIRatio == 0 {
		in.MaxDTIRatio = 43
	}
	if in.FrontEndDTIRatio == 0 {
		in.FrontEndDTIRatio = 28
	}
	if in.MinDownPaymentPercent == 0 {
		in.MinDownPaymentPercent = 3.5
	}
}

// LoanTool amortizes a fixed-rate loan.
func LoanTool() tool.Tool {
	schema := tool.FromStruct(LoanInput{})
	return tool.NewFuncTool(
		"calculate_loan",
		"Calculate loan payments, total interest, and generate an amortization schedule.",
		schema,
		func(_ context.Context, args map[string]any) (string, error) {
			var in LoanInput
			if err := decodeInput("calculate_loan", args, &in); err != nil {
				return "", err
			}
			out, err := Loan(in)
			if err != nil {
				return "", tool.NewError("calculate_loan", tool.CodeBadArgument, err.Error())
			}
			return out, nil
		},
	)
}

// FinancialFreedomTool simulates a savings drawdown.
func FinancialFreedomTool() tool.Tool {
	schema := tool.FromStruct(FinancialFreedomInput{})
	schema = withDefault(schema, "expected_inflation_rate", 2.5)
	schema = withDefault(schema, "withdrawal_strategy", WithdrawalInflationAdjusted)
	schema = withEnum(schema, "withdrawal_strategy", WithdrawalInflationAdjusted, WithdrawalFixed)
	return tool.NewFuncTool(
		"calculate_financial_freedom",
		"Calculate how long savings will last given expenses and growth rate.",
		schema,
		func(_ context.Context, args map[string]any) (string, error) {
			var in FinancialFreedomInput
			if err := decodeInput("calculate_financial_freedom", args, &in); err != nil {
				return "", err
			}
			out, err := FinancialFreedom(in)
			if err != nil {
				return "", tool.NewError("calculate_financial_freedom", tool.CodeBadArgument, err.Error())
			}
			return out, nil
		},
	)
}

// OptionProfitTool prices an option position across prices and dates.
func OptionProfitTool() tool.Tool {
	schema := tool.FromStruct(OptionProfitInput{})
	schema = withEnum(schema, "option_type", OptionPut, OptionCall)
	schema = withDefault(schema, "contracts", 1)
	schema = withDefault(schema, "interest_rate", 0.05)
	return tool.NewFuncTool(
		"calculate_option_profit",
		"Calculate option profit/loss matrix for different price points and dates.",
		schema,
		func(_ context.Context, args map[string]any) (string, error) {
			var in OptionProfitInput
			if err := decodeInput("calculate_option_profit", args, &in); err != nil {
				return "", err
			}
			if in.InterestRate == 0 {
				in.InterestRate = 0.05
			}
			out, err := OptionProfit(in)
			if err != nil {
				return "", tool.NewError("calculate_option_profit", tool.CodeBadArgument, err.Error())
			}
			return out, nil
		},
	)
}

// WeatherTool reports canned weather for a location.
func WeatherTool() tool.Tool {
	return tool.NewFuncTool(
		"get_weather",
		"Call to get the current weather.",
		tool.Schema{
			"location": {Type: tool.TypeString, Description: "City to look up", Required: true},
		},
		func(_ context.Context, args map[string]any) (string, error) {
			location, _ := args["location"].(string)
			return Weather(location), nil
		},
	)
}

// CoolestCitiesTool lists the coolest cities.
func CoolestCitiesTool() tool.Tool {
	return tool.NewFuncTool(
		"get_coolest_cities",
		"Get a list of coolest cities. No input required.",
		tool.Schema{},
		func(_ context.Context, _ map[string]any) (string, error) {
			return CoolestCities(), nil
		},
	)
}

// DefaultTools returns every calculator in registration order.
func DefaultTools() []tool.Tool {
	return []tool.Tool{
		CompoundInterestTool(),
		Retirement401kTool(),
		HomeAffordabilityTool(),
		LoanTool(),
		FinancialFreedomTool(),
		OptionProfitTool(),
		WeatherTool(),
		CoolestCitiesTool(),
	}
}

// DefaultRegistry assembles the full calculator registry.
func DefaultRegistry() (*tool.Registry, error) {
	return tool.NewRegistry(DefaultTools()...)
}
