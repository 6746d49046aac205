// Package testutil provides shared scenario fixtures for tests.
package testutil

import "github.com/mgleason/proforma/internal/config"

// WorthAveScenario returns the 225 Worth Ave acquisition underwriting: a
// 10,118 SF three-tenant retail building bought 2026-03-31 on a 120-month
// hold with a 40% LTC interest-only senior loan and a three-hurdle LP/GP
// waterfall. Values trace to the underwriting workbook for the property.
func WorthAveScenario() *config.Configuration {
	return &config.Configuration{
		Scenario: config.Scenario{
			Name:            "225 Worth Ave",
			AcquisitionDate: "2026-03-31",
			HoldMonths:      120,
			BuildingArea:    10118,
			PurchasePrice:   41500.0,
			ClosingCosts:    500.0,
			Parameters: config.Parameters{
				RentGrowthRate:        0.025,
				ExpenseGrowthRate:     0.025,
				FixedExpensePerArea:   36.0,
				ManagementFeeRate:     0.04,
				PropertyTaxAnnual:     622.5,
				PropertyTaxGrowthRate: 0.025,
				CapitalReservePerArea: 5.0,
				ExitCapRate:           0.05,
				SalesCostRate:         0.01,
			},
			Tenants: []config.Tenant{
				{
					Name:          "Peter Millar",
					Area:          2300,
					InPlaceRent:   201.45,
					MarketRent:    300.0,
					LeaseEndMonth: 83,
				},
				{
					Name:               "J McLaughlin",
					Area:               1868,
					InPlaceRent:        200.47,
					MarketRent:         300.0,
					LeaseEndMonth:      50,
					ApplyRolloverCosts: true,
					FreeRentMonths:     10,
					BuildoutMonths:     6,
					LCRateYears1To5:    0.06,
					LCRateYears6Plus:   0.03,
					NewLeaseTermYears:  10,
				},
				{
					Name:               "Gucci",
					Area:               5950,
					InPlaceRent:        187.65,
					MarketRent:         300.0,
					LeaseEndMonth:      210,
					ApplyRolloverCosts: true,
					FreeRentMonths:     10,
					BuildoutMonths:     6,
					LCRateYears1To5:    0.06,
					LCRateYears6Plus:   0.03,
					NewLeaseTermYears:  10,
				},
			},
			Loans: []config.Loan{
				{
					Name:               "Senior Acquisition Loan",
					Principal:          16937.18,
					FixedRate:          0.0525,
					InterestOnlyMonths: 120,
					AmortizationMonths: 360,
					OriginationFeeRate: 0.01,
					ClosingCostRate:    0.01025,
				},
			},
			Waterfall: config.Waterfall{
				LPShare: 0.90,
				GPShare: 0.10,
				Tiers: []config.Tier{
					{Name: "Hurdle I", PrefRate: 0.05, LPSplit: 0.90, GPSplit: 0.10},
					{Name: "Hurdle II", PrefRate: 0.05, LPSplit: 0.75, GPSplit: 0.0833, GPPromote: 0.1667},
					{Name: "Hurdle III", PrefRate: 0.05, LPSplit: 0.75, GPSplit: 0.0833, GPPromote: 0.1667},
				},
				FinalSplit: config.Tier{Name: "Final Split", LPSplit: 0.75, GPSplit: 0.0833, GPPromote: 0.1667},
			},
		},
	}
}
