// Package cashflow assembles the monthly projection: revenue and expense
// lines merged into NOI, the terminal sale valuation, and the unlevered and
// levered cash-flow series.
//
// The assembly is a single deterministic forward pass in strict dependency
// order. Rows are never mutated after the pass that produces them; each row
// derives only from scenario inputs and prior periods' closing balances.
package cashflow

import "time"

// MonthlyRow is one period of the projection. All monetary fields are in
// thousands. Periods beyond the hold exist only as a forward buffer for exit
// valuation and never carry cash-flow fields.
type MonthlyRow struct {
	Period int
	Date   time.Time

	// Revenue lines. FreeRent, Vacancy, and CollectionLoss are signed
	// deductions, zero or negative.
	BaseRent              float64
	FreeRent              float64
	ParkingIncome         float64
	StorageIncome         float64
	FixedReimbursement    float64
	VariableReimbursement float64
	PotentialRevenue      float64
	Vacancy               float64
	CollectionLoss        float64
	EffectiveRevenue      float64

	// Expense lines.
	FixedOpex      float64
	VariableOpex   float64
	ParkingExpense float64
	ManagementFee  float64
	PropertyTax    float64
	CapitalReserve float64
	TotalExpenses  float64

	NOI float64

	// Capital and transaction lines.
	AcquisitionCosts float64 // period 0 only
	CapitalCosts     float64 // rollover lease commissions + TI
	ExitProceeds     float64 // exit period only

	UnleveredCashFlow float64

	// Debt lines.
	LoanDraws           float64
	Interest            float64
	CapitalizedInterest float64
	Principal           float64
	DebtService         float64
	IssuanceCosts       float64
	LoanPayoff          float64 // exit period only
	LoanBalance         float64 // ending balance across tranches

	LeveredCashFlow float64
}
