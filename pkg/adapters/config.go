// Package adapters converts scenario configuration structures into the
// domain types the projection packages consume.
package adapters

import (
	"fmt"
	"time"

	"github.com/mgleason/proforma/internal/config"
	"github.com/mgleason/proforma/pkg/cashflow"
	"github.com/mgleason/proforma/pkg/datetime"
	"github.com/mgleason/proforma/pkg/debt"
	"github.com/mgleason/proforma/pkg/opex"
	"github.com/mgleason/proforma/pkg/rentroll"
	"github.com/mgleason/proforma/pkg/waterfall"
)

// TenantsToRentRoll converts the configured rent roll.
func TenantsToRentRoll(tenants []config.Tenant) []rentroll.Tenant {
	if tenants == nil {
		return nil
	}

	var converted []rentroll.Tenant
	for _, tenant := range tenants {
		converted = append(converted, rentroll.Tenant{
			Name:               tenant.Name,
			Area:               tenant.Area,
			InPlaceRent:        tenant.InPlaceRent,
			MarketRent:         tenant.MarketRent,
			LeaseEndMonth:      tenant.LeaseEndMonth,
			ApplyRolloverCosts: tenant.ApplyRolloverCosts,
			FreeRentMonths:     tenant.FreeRentMonths,
			FreeRentStartMonth: tenant.FreeRentStartMonth,
			BuildoutMonths:     tenant.BuildoutMonths,
			RentBumpRate:       tenant.RentBumpRate,
			LCRateYears1To5:    tenant.LCRateYears1To5,
			LCRateYears6Plus:   tenant.LCRateYears6Plus,
			NewLeaseTermYears:  tenant.NewLeaseTermYears,
			TIAllowance:        tenant.TIAllowance,
		})
	}
	return converted
}

// GrowthAssumptions extracts the rent escalation inputs.
func GrowthAssumptions(params config.Parameters) rentroll.GrowthAssumptions {
	return rentroll.GrowthAssumptions{
		AnnualRate:            params.RentGrowthRate,
		PostStabilizationRate: params.PostStabilizationGrowthRate,
		StabilizationMonth:    params.StabilizationMonth,
	}
}

// ExpenseAssumptions extracts the operating expense inputs.
func ExpenseAssumptions(params config.Parameters) opex.Assumptions {
	return opex.Assumptions{
		FixedPerArea:          params.FixedExpensePerArea,
		VariablePerArea:       params.VariableExpensePerArea,
		ManagementFeeRate:     params.ManagementFeeRate,
		ParkingExpenseRate:    params.ParkingExpenseRate,
		PropertyTaxAnnual:     params.PropertyTaxAnnual,
		PropertyTaxGrowth:     params.PropertyTaxGrowthRate,
		TaxStartMonth:         params.TaxStartMonth,
		CapitalReservePerArea: params.CapitalReservePerArea,
		ExpenseGrowth:         params.ExpenseGrowthRate,
	}
}

// LoansToTranches converts the configured capital stack. An empty rate mode
// defaults to fixed.
func LoansToTranches(loans []config.Loan) ([]debt.Loan, error) {
	if loans == nil {
		return nil, nil
	}

	var converted []debt.Loan
	for _, loan := range loans {
		mode := debt.RateModeFixed
		switch loan.RateMode {
		case "", "fixed":
		case "floating":
			mode = debt.RateModeFloating
		default:
			return nil, fmt.Errorf("loan %q rate mode %q is not fixed or floating", loan.Name, loan.RateMode)
		}

		converted = append(converted, debt.Loan{
			Name:               loan.Name,
			Principal:          loan.Principal,
			Mode:               mode,
			FixedRate:          loan.FixedRate,
			Spread:             loan.Spread,
			IOMonths:           loan.InterestOnlyMonths,
			AmortizationMonths: loan.AmortizationMonths,
			OriginationFeeRate: loan.OriginationFeeRate,
			ClosingCostRate:    loan.ClosingCostRate,
			Draws:              loan.Draws,
		})
	}
	return converted, nil
}

// RateCurve converts the configured index observations. Returns nil when no
// curve is configured.
func RateCurve(points []config.CurvePoint) (*debt.RateCurve, error) {
	if len(points) == 0 {
		return nil, nil
	}

	converted := make([]debt.CurvePoint, 0, len(points))
	for _, point := range points {
		date, err := datetime.ParseDate(point.Date)
		if err != nil {
			return nil, fmt.Errorf("rate curve date %q: %w", point.Date, err)
		}
		converted = append(converted, debt.CurvePoint{Date: date, Rate: point.Rate})
	}
	return debt.NewRateCurve(converted)
}

// AssemblyAssumptions extracts the cash-flow assembly inputs.
func AssemblyAssumptions(scenario config.Scenario, startDate time.Time) cashflow.Assumptions {
	return cashflow.Assumptions{
		StartDate:          startDate,
		HoldMonths:         scenario.HoldMonths,
		PurchasePrice:      scenario.PurchasePrice,
		ClosingCosts:       scenario.ClosingCosts,
		ExitCapRate:        scenario.Parameters.ExitCapRate,
		SalesCostRate:      scenario.Parameters.SalesCostRate,
		CapitalizeInterest: scenario.Parameters.CapitalizeInterest,
	}
}

// WaterfallConfig extracts the distribution structure.
func WaterfallConfig(w config.Waterfall) waterfall.Config {
	tiers := make([]waterfall.Tier, 0, len(w.Tiers))
	for _, tier := range w.Tiers {
		tiers = append(tiers, waterfall.Tier{
			Name:      tier.Name,
			PrefRate:  tier.PrefRate,
			LPSplit:   tier.LPSplit,
			GPSplit:   tier.GPSplit,
			GPPromote: tier.GPPromote,
		})
	}
	return waterfall.Config{
		Tiers: tiers,
		FinalSplit: waterfall.Tier{
			Name:      w.FinalSplit.Name,
			LPSplit:   w.FinalSplit.LPSplit,
			GPSplit:   w.FinalSplit.GPSplit,
			GPPromote: w.FinalSplit.GPPromote,
		},
		LPShare:           w.LPShare,
		GPShare:           w.GPShare,
		SimpleMonthlyRate: w.SimpleMonthlyRate,
	}
}
