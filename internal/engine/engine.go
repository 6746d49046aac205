// Package engine is the calculation-run boundary: it validates a scenario,
// wires the projectors together, executes the single forward pass, and
// solves the returns and distribution summaries.
//
// A run is a pure function of its configuration. Failures anywhere in the
// pass surface as a structured error and no partial table is returned.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mgleason/proforma/internal/config"
	"github.com/mgleason/proforma/pkg/adapters"
	"github.com/mgleason/proforma/pkg/cashflow"
	"github.com/mgleason/proforma/pkg/constants"
	"github.com/mgleason/proforma/pkg/datetime"
	"github.com/mgleason/proforma/pkg/opex"
	"github.com/mgleason/proforma/pkg/rentroll"
	"github.com/mgleason/proforma/pkg/returns"
	"github.com/mgleason/proforma/pkg/waterfall"
	"go.uber.org/zap"
)

// Summary holds the solved return metrics for a run. Class-level metrics are
// populated only when a waterfall is configured.
type Summary struct {
	TotalEquity float64

	UnleveredIRR      float64
	LeveredIRR        float64
	UnleveredMultiple float64
	LeveredMultiple   float64
	Profit            float64
	CashOnCash        float64

	LPIRR      float64
	GPIRR      float64
	LPMultiple float64
	GPMultiple float64
}

// Result is the complete output of one calculation run. RunID identifies the
// run for logging and is the only field that differs between identical runs.
type Result struct {
	RunID    string
	Scenario string

	Statement *cashflow.Statement
	Annual    []cashflow.AnnualRow
	Returns   Summary
	Waterfall *waterfall.Result
}

// Run executes one scenario end to end.
func Run(logger *zap.Logger, conf *config.Configuration) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	scenario := conf.Scenario
	runID := uuid.New().String()
	logger.Info("starting calculation run",
		zap.String("op", "engine.Run"),
		zap.String("runId", runID),
		zap.String("scenario", scenario.Name),
		zap.Int("holdMonths", scenario.HoldMonths),
	)

	startDate, err := datetime.ParseDate(scenario.AcquisitionDate)
	if err != nil {
		return nil, fmt.Errorf("acquisition date: %w", err)
	}

	periods := scenario.HoldMonths + constants.ForwardBufferMonths
	derivedEnabled := !scenario.Parameters.DisableDerivedFormulas
	accrueInterest := !scenario.Parameters.DisableInterestAccrual

	rents := rentroll.NewProjector(logger,
		adapters.TenantsToRentRoll(scenario.Tenants),
		adapters.GrowthAssumptions(scenario.Parameters),
		scenario.Parameters.ParkingIncomeMonthly,
		scenario.Parameters.StorageIncomeMonthly,
		periods,
	)
	expenses := opex.NewProjector(logger,
		adapters.ExpenseAssumptions(scenario.Parameters),
		rents.TotalArea(),
		derivedEnabled,
		periods,
	)
	aggregator := cashflow.NewAggregator(logger, rents, expenses,
		scenario.Parameters.VacancyRate, scenario.Parameters.CollectionLossRate)

	loans, err := adapters.LoansToTranches(scenario.Loans)
	if err != nil {
		return nil, err
	}
	curve, err := adapters.RateCurve(scenario.RateCurve)
	if err != nil {
		return nil, err
	}

	assembler, err := cashflow.NewAssembler(logger,
		adapters.AssemblyAssumptions(scenario, startDate),
		aggregator, rents, loans, curve, accrueInterest)
	if err != nil {
		return nil, err
	}

	statement, err := assembler.Run()
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     runID,
		Scenario:  scenario.Name,
		Statement: statement,
		Annual:    cashflow.Annualize(statement.Rows),
	}

	dates := datetime.MonthlyDates(startDate, scenario.HoldMonths)
	if err := solveReturns(statement, dates, &result.Returns); err != nil {
		return nil, err
	}

	if scenario.Waterfall.Enabled() {
		engine, err := waterfall.NewEngine(logger, adapters.WaterfallConfig(scenario.Waterfall))
		if err != nil {
			return nil, err
		}
		result.Waterfall, err = engine.Distribute(statement.Levered, dates, statement.TotalEquity)
		if err != nil {
			return nil, err
		}
		if err := solveClassReturns(result.Waterfall, dates, &result.Returns); err != nil {
			return nil, err
		}
	}

	logger.Info("calculation run complete",
		zap.String("op", "engine.Run"),
		zap.String("runId", runID),
		zap.Float64("unleveredIRR", result.Returns.UnleveredIRR),
		zap.Float64("leveredIRR", result.Returns.LeveredIRR),
		zap.Float64("exitProceeds", statement.Exit.NetProceeds),
	)

	return result, nil
}

// solveReturns computes the property- and deal-level return metrics.
func solveReturns(statement *cashflow.Statement, dates []time.Time, summary *Summary) error {
	summary.TotalEquity = statement.TotalEquity

	unleveredIRR, err := returns.XIRR(statement.Unlevered, dates, constants.IRRDefaultGuess)
	if err != nil {
		return fmt.Errorf("unlevered IRR: %w", err)
	}
	leveredIRR, err := returns.XIRR(statement.Levered, dates, constants.IRRDefaultGuess)
	if err != nil {
		return fmt.Errorf("levered IRR: %w", err)
	}
	unleveredMultiple, err := returns.Multiple(statement.Unlevered)
	if err != nil {
		return fmt.Errorf("unlevered multiple: %w", err)
	}
	leveredMultiple, err := returns.Multiple(statement.Levered)
	if err != nil {
		return fmt.Errorf("levered multiple: %w", err)
	}
	cashOnCash, err := returns.CashOnCash(statement.Levered)
	if err != nil {
		return fmt.Errorf("cash on cash: %w", err)
	}

	summary.UnleveredIRR = unleveredIRR
	summary.LeveredIRR = leveredIRR
	summary.UnleveredMultiple = unleveredMultiple
	summary.LeveredMultiple = leveredMultiple
	summary.Profit = returns.Profit(statement.Levered)
	summary.CashOnCash = cashOnCash
	return nil
}

// solveClassReturns computes LP and GP metrics from the waterfall's
// per-class cash flows.
func solveClassReturns(distribution *waterfall.Result, dates []time.Time, summary *Summary) error {
	lpIRR, err := returns.XIRR(distribution.LPCashFlows, dates, constants.IRRDefaultGuess)
	if err != nil {
		return fmt.Errorf("LP IRR: %w", err)
	}
	gpIRR, err := returns.XIRR(distribution.GPCashFlows, dates, constants.IRRDefaultGuess)
	if err != nil {
		return fmt.Errorf("GP IRR: %w", err)
	}
	lpMultiple, err := returns.Multiple(distribution.LPCashFlows)
	if err != nil {
		return fmt.Errorf("LP multiple: %w", err)
	}
	gpMultiple, err := returns.Multiple(distribution.GPCashFlows)
	if err != nil {
		return fmt.Errorf("GP multiple: %w", err)
	}

	summary.LPIRR = lpIRR
	summary.GPIRR = gpIRR
	summary.LPMultiple = lpMultiple
	summary.GPMultiple = gpMultiple
	return nil
}
