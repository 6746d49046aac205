// Package opex projects monthly operating expense lines: fixed and variable
// opex, parking expense, management fee, stepped property tax, and the
// capital reserve.
package opex

import (
	"github.com/mgleason/proforma/pkg/constants"
	"github.com/mgleason/proforma/pkg/escalation"
	"go.uber.org/zap"
)

// Assumptions carries the scenario-level expense inputs. Per-area rates are
// annual amounts in whole currency units; PropertyTaxAnnual is already in
// the thousands reporting unit.
type Assumptions struct {
	FixedPerArea          float64
	VariablePerArea       float64
	ManagementFeeRate     float64 // fraction of effective revenue
	ParkingExpenseRate    float64 // fraction of parking income
	PropertyTaxAnnual     float64
	PropertyTaxGrowth     float64
	TaxStartMonth         int
	CapitalReservePerArea float64
	ExpenseGrowth         float64
}

// Lines holds the projected expense lines for one period, before the
// revenue-dependent management fee and parking expense.
type Lines struct {
	FixedOpex      float64
	VariableOpex   float64
	PropertyTax    float64
	CapitalReserve float64
}

// Projector computes the expense side of the monthly projection.
type Projector struct {
	logger *zap.Logger
	a      Assumptions
	area   float64
	// derivedEnabled is the workbook's circular-reference toggle scoped to
	// this run: when false the management-fee and property-tax lines do not
	// evaluate.
	derivedEnabled bool

	expense escalation.Series
	tax     escalation.Series
}

// NewProjector precomputes the expense and stepped tax escalation series for
// periods 0 through periods.
func NewProjector(logger *zap.Logger, a Assumptions, area float64, derivedEnabled bool, periods int) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{
		logger:         logger,
		a:              a,
		area:           area,
		derivedEnabled: derivedEnabled,
		expense:        escalation.Expense(a.ExpenseGrowth, periods),
		tax:            escalation.PropertyTax(a.PropertyTaxGrowth, a.TaxStartMonth, periods),
	}
}

// Project computes the escalating expense lines for a period. Period 0 is
// the acquisition period and carries no operating activity, so every line
// is forced to zero.
func (p *Projector) Project(period int) (Lines, error) {
	if period == 0 {
		return Lines{}, nil
	}

	factor, err := p.expense.At(period)
	if err != nil {
		return Lines{}, err
	}

	perArea := func(annualRate float64) float64 {
		return p.area * annualRate * factor / constants.MonthsPerYear / constants.CurrencyScale
	}

	lines := Lines{
		FixedOpex:      perArea(p.a.FixedPerArea),
		VariableOpex:   perArea(p.a.VariablePerArea),
		CapitalReserve: perArea(p.a.CapitalReservePerArea),
	}

	if p.derivedEnabled {
		taxFactor, err := p.tax.At(period)
		if err != nil {
			return Lines{}, err
		}
		lines.PropertyTax = p.a.PropertyTaxAnnual * taxFactor / constants.MonthsPerYear
	}

	return lines, nil
}

// ManagementFee computes the fee on a period's effective revenue. Period 0
// and a disabled derived-formula toggle both yield zero.
func (p *Projector) ManagementFee(period int, effectiveRevenue float64) float64 {
	if period == 0 || !p.derivedEnabled {
		return 0
	}
	return effectiveRevenue * p.a.ManagementFeeRate
}

// ParkingExpense computes the operating cost attributed to parking income.
func (p *Projector) ParkingExpense(period int, parkingIncome float64) float64 {
	if period == 0 {
		return 0
	}
	return parkingIncome * p.a.ParkingExpenseRate
}
