package cashflow

import (
	"fmt"
	"time"

	"github.com/mgleason/proforma/pkg/constants"
	"github.com/mgleason/proforma/pkg/datetime"
	"github.com/mgleason/proforma/pkg/debt"
	"github.com/mgleason/proforma/pkg/rentroll"
	"go.uber.org/zap"
)

// Assumptions carries the scenario-level inputs the assembler needs beyond
// what the projectors already hold. Monetary amounts are in thousands.
type Assumptions struct {
	StartDate  time.Time
	HoldMonths int

	PurchasePrice float64
	ClosingCosts  float64

	ExitCapRate   float64
	SalesCostRate float64

	// CapitalizeInterest lets an interest shortfall during a tranche's IO
	// window accrue onto the balance instead of being paid in cash.
	CapitalizeInterest bool
}

// Statement is the assembled projection for one run.
type Statement struct {
	Rows []MonthlyRow // periods 0 through HoldMonths
	Exit Valuation

	Unlevered []float64
	Levered   []float64

	// TotalEquity is the cash invested at period 0: acquisition and loan
	// issuance costs net of loan proceeds.
	TotalEquity float64
}

// Assembler runs the forward pass that merges NOI, rollover capital costs,
// debt service, and the terminal sale into cash-flow series.
type Assembler struct {
	logger *zap.Logger
	a      Assumptions
	noi    *Aggregator
	rents  *rentroll.Projector

	loans    []debt.Loan
	trackers []*debt.Tracker
}

// NewAssembler builds one debt tracker per tranche. curve may be nil when no
// tranche floats.
func NewAssembler(logger *zap.Logger, a Assumptions, noi *Aggregator, rents *rentroll.Projector,
	loans []debt.Loan, curve *debt.RateCurve, accrueInterest bool) (*Assembler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if a.HoldMonths < 1 {
		return nil, fmt.Errorf("hold period must be at least 1 month, have %d", a.HoldMonths)
	}

	trackers := make([]*debt.Tracker, len(loans))
	for i, loan := range loans {
		tracker, err := debt.NewTracker(logger, loan, curve, accrueInterest)
		if err != nil {
			return nil, err
		}
		trackers[i] = tracker
	}

	return &Assembler{
		logger:   logger,
		a:        a,
		noi:      noi,
		rents:    rents,
		loans:    loans,
		trackers: trackers,
	}, nil
}

// Run executes the forward pass and returns the assembled statement. The
// projection extends 12 periods past the hold internally so the exit can be
// valued on forward NOI; those buffer rows are never surfaced.
func (asm *Assembler) Run() (*Statement, error) {
	hold := asm.a.HoldMonths
	periods := hold + constants.ForwardBufferMonths
	dates := datetime.MonthlyDates(asm.a.StartDate, periods)

	rows := make([]MonthlyRow, periods+1)
	for period := 0; period <= periods; period++ {
		rows[period].Period = period
		rows[period].Date = dates[period]
		if err := asm.noi.Fill(&rows[period]); err != nil {
			return nil, err
		}
	}

	exit, err := ValueExit(rows, hold, asm.a.ExitCapRate, asm.a.SalesCostRate)
	if err != nil {
		return nil, err
	}

	rolloverCosts, err := asm.rents.RolloverCosts(hold)
	if err != nil {
		return nil, err
	}

	statement := &Statement{
		Rows:      rows[:hold+1],
		Exit:      exit,
		Unlevered: make([]float64, hold+1),
		Levered:   make([]float64, hold+1),
	}

	for period := 0; period <= hold; period++ {
		row := &rows[period]

		if period == 0 {
			row.AcquisitionCosts = asm.a.PurchasePrice + asm.a.ClosingCosts
		}
		if cost, ok := rolloverCosts[period]; ok {
			row.CapitalCosts = cost.Total()
		}
		if period == hold {
			row.ExitProceeds = exit.NetProceeds
		}

		row.UnleveredCashFlow = row.NOI + row.ExitProceeds - row.AcquisitionCosts - row.CapitalCosts

		if err := asm.stepDebt(period, dates[period], row); err != nil {
			return nil, err
		}

		row.LeveredCashFlow = row.UnleveredCashFlow + row.LoanDraws -
			row.DebtService - row.IssuanceCosts - row.LoanPayoff

		statement.Unlevered[period] = row.UnleveredCashFlow
		statement.Levered[period] = row.LeveredCashFlow
	}

	statement.TotalEquity = -statement.Levered[0]
	if statement.TotalEquity <= 0 && len(asm.loans) > 0 {
		asm.logger.Warn("loan proceeds exceed acquisition cost at period 0",
			zap.String("op", "cashflow.Run"),
			zap.Float64("leveredCashFlow", statement.Levered[0]),
		)
	}

	asm.logger.Debug("assembled monthly statement",
		zap.String("op", "cashflow.Run"),
		zap.Int("periods", hold),
		zap.Float64("exitProceeds", exit.NetProceeds),
		zap.Float64("totalEquity", statement.TotalEquity),
	)

	return statement, nil
}

// stepDebt advances every tranche one period and folds the payments into the
// row, optionally capitalizing an IO-window interest shortfall.
func (asm *Assembler) stepDebt(period int, date time.Time, row *MonthlyRow) error {
	payments := make([]debt.Payment, len(asm.trackers))
	for i, tracker := range asm.trackers {
		payment, err := tracker.Step(period, date)
		if err != nil {
			return err
		}
		payments[i] = payment

		row.LoanDraws += payment.Draws
		row.Interest += payment.Interest
		row.Principal += payment.Principal
		row.DebtService += payment.DebtService
		row.IssuanceCosts += payment.IssuanceCosts
	}

	if asm.a.CapitalizeInterest && period > 0 {
		shortfall := -(row.UnleveredCashFlow + row.LoanDraws - row.DebtService - row.IssuanceCosts)
		for i, tracker := range asm.trackers {
			if shortfall <= 0 {
				break
			}
			if period > asm.loans[i].IOMonths {
				continue
			}
			capitalized := payments[i].Interest
			if capitalized > shortfall {
				capitalized = shortfall
			}
			if capitalized <= 0 {
				continue
			}
			tracker.Capitalize(capitalized)
			row.CapitalizedInterest += capitalized
			row.DebtService -= capitalized
			shortfall -= capitalized
		}
	}

	for _, tracker := range asm.trackers {
		row.LoanBalance += tracker.Balance()
	}
	if period == asm.a.HoldMonths {
		row.LoanPayoff = row.LoanBalance
	}

	return nil
}
