package cashflow

import (
	"github.com/mgleason/proforma/pkg/opex"
	"github.com/mgleason/proforma/pkg/rentroll"
	"go.uber.org/zap"
)

// Aggregator merges projected revenue and expenses into potential and
// effective revenue and NOI for one period at a time.
//
// The evaluation order is fixed: rental revenue and escalating expenses
// first, then fixed reimbursement, then the vacancy and collection
// deductions, then the management fee on that first-pass effective revenue,
// and only then the variable reimbursement that depends on the fee. Changing
// this order changes NOI.
type Aggregator struct {
	logger   *zap.Logger
	rents    *rentroll.Projector
	expenses *opex.Projector

	vacancyRate        float64
	collectionLossRate float64
}

// NewAggregator wires the revenue and expense projectors together.
func NewAggregator(logger *zap.Logger, rents *rentroll.Projector, expenses *opex.Projector,
	vacancyRate, collectionLossRate float64) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		logger:             logger,
		rents:              rents,
		expenses:           expenses,
		vacancyRate:        vacancyRate,
		collectionLossRate: collectionLossRate,
	}
}

// Fill computes the revenue, expense, and NOI fields of a row in place.
// row.Period and row.Date must already be set.
func (a *Aggregator) Fill(row *MonthlyRow) error {
	rev, err := a.rents.Project(row.Period)
	if err != nil {
		return err
	}
	lines, err := a.expenses.Project(row.Period)
	if err != nil {
		return err
	}

	row.BaseRent = rev.BaseRent
	row.FreeRent = rev.FreeRent
	row.ParkingIncome = rev.ParkingIncome
	row.StorageIncome = rev.StorageIncome
	row.FixedOpex = lines.FixedOpex
	row.VariableOpex = lines.VariableOpex
	row.PropertyTax = lines.PropertyTax
	row.CapitalReserve = lines.CapitalReserve

	// NNN recovery of the expenses known before any revenue dependency.
	row.FixedReimbursement = lines.FixedOpex + lines.PropertyTax

	potential := rev.Rental() + row.FixedReimbursement
	row.Vacancy = -a.vacancyRate * potential
	row.CollectionLoss = -a.collectionLossRate * rev.Rental()
	effective := potential + row.Vacancy + row.CollectionLoss

	// Revenue-dependent expenses evaluate against the first-pass effective
	// revenue, then feed the variable reimbursement.
	row.ManagementFee = a.expenses.ManagementFee(row.Period, effective)
	row.ParkingExpense = a.expenses.ParkingExpense(row.Period, rev.ParkingIncome)
	row.VariableReimbursement = lines.VariableOpex + row.ParkingExpense + row.ManagementFee

	row.PotentialRevenue = potential + row.VariableReimbursement
	row.EffectiveRevenue = effective + row.VariableReimbursement

	row.TotalExpenses = lines.FixedOpex + lines.VariableOpex + row.ParkingExpense +
		row.ManagementFee + lines.PropertyTax + lines.CapitalReserve
	row.NOI = row.EffectiveRevenue - row.TotalExpenses

	return nil
}
