package engine

import (
	"testing"

	"github.com/mgleason/proforma/internal/config"
	"github.com/mgleason/proforma/pkg/debt"
	"github.com/mgleason/proforma/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestWorthAveUnderwriting checks the full run against values traced from
// the 225 Worth Ave workbook.
func TestWorthAveUnderwriting(t *testing.T) {
	result, err := Run(zap.NewNop(), testutil.WorthAveScenario())
	require.NoError(t, err)

	require.Len(t, result.Statement.Rows, 121, "hold of 120 months plus acquisition period")

	// Month 1: three in-place tenants under NNN recovery.
	monthOne := result.Statement.Rows[1]
	assert.InDelta(t, 38.69+31.27+93.24, monthOne.BaseRent, 0.2)
	assert.InDelta(t, 158.97, monthOne.NOI, 0.5)
	assert.InDelta(t, 73.09, monthOne.Interest, 0.5)

	// Month 120: Peter Millar rolled to market at month 84, J McLaughlin at
	// month 57 after its buildout gap.
	assert.InDelta(t, 247.80, result.Statement.Rows[120].NOI, 1.5)

	// Exit: 12-month forward NOI with the reserve add-back, capped at 5%,
	// net of 1% sales cost.
	assert.InDelta(t, 3079.84, result.Statement.Exit.ForwardNOI, 15.0)
	assert.InDelta(t, 60980.82, result.Statement.Exit.NetProceeds, 120.0)
	assert.InDelta(t, 60980.82, result.Statement.Rows[120].ExitProceeds, 120.0)

	// Equity: purchase and closing plus loan issuance costs net of proceeds.
	assert.InDelta(t, 25405.78, result.Returns.TotalEquity, 50.0)

	// Interest-only for the entire hold, so the payoff is the full balance.
	assert.InDelta(t, 16937.18, result.Statement.Rows[120].LoanPayoff, 0.01)
	assert.Zero(t, result.Statement.Rows[60].Principal)

	assert.InDelta(t, 0.0857, result.Returns.UnleveredIRR, 0.005)
	assert.InDelta(t, 0.1009, result.Returns.LeveredIRR, 0.005)
	assert.Greater(t, result.Returns.LeveredIRR, result.Returns.UnleveredIRR,
		"positive leverage at a 5.25% rate against an 8.6% unlevered return")

	require.NotNil(t, result.Waterfall)
	assert.InDelta(t, 0.0939, result.Returns.LPIRR, 0.010)
	assert.InDelta(t, 0.1502, result.Returns.GPIRR, 0.015)
	assert.Greater(t, result.Returns.GPIRR, result.Returns.LeveredIRR, "promote concentrates upside in the GP")
	assert.Less(t, result.Returns.LPIRR, result.Returns.LeveredIRR)
}

func TestWaterfallConservation(t *testing.T) {
	result, err := Run(zap.NewNop(), testutil.WorthAveScenario())
	require.NoError(t, err)

	var positive float64
	for _, cashFlow := range result.Statement.Levered {
		if cashFlow > 0 {
			positive += cashFlow
		}
	}
	distributed := result.Waterfall.Summary.TotalToLP + result.Waterfall.Summary.TotalToGP
	assert.InDelta(t, positive, distributed, 0.01, "every positive dollar is distributed exactly once")
}

func TestRunIsDeterministic(t *testing.T) {
	first, err := Run(zap.NewNop(), testutil.WorthAveScenario())
	require.NoError(t, err)
	second, err := Run(zap.NewNop(), testutil.WorthAveScenario())
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Statement, second.Statement)
	assert.Equal(t, first.Annual, second.Annual)
	assert.Equal(t, first.Returns, second.Returns)
	assert.Equal(t, first.Waterfall, second.Waterfall)
}

func TestRunRejectsInvalidScenario(t *testing.T) {
	conf := testutil.WorthAveScenario()
	conf.Scenario.Parameters.ExitCapRate = 0

	result, err := Run(zap.NewNop(), conf)
	require.Error(t, err)
	assert.Nil(t, result, "no partial table on failure")

	var validationErr *config.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestRunSurfacesCurveOutOfRange(t *testing.T) {
	conf := testutil.WorthAveScenario()
	conf.Scenario.Loans[0].RateMode = "floating"
	conf.Scenario.Loans[0].Spread = 0.02
	// The curve stops years before the hold ends, so a lookup past the last
	// observation must fail the run instead of extrapolating.
	conf.Scenario.RateCurve = []config.CurvePoint{
		{Date: "2026-03-31", Rate: 0.043},
		{Date: "2027-03-31", Rate: 0.040},
	}

	result, err := Run(zap.NewNop(), conf)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, debt.ErrCurveOutOfRange)
}

func TestDerivedFormulaToggles(t *testing.T) {
	conf := testutil.WorthAveScenario()
	conf.Scenario.Parameters.DisableDerivedFormulas = true
	conf.Scenario.Parameters.DisableInterestAccrual = true

	result, err := Run(zap.NewNop(), conf)
	require.NoError(t, err)

	row := result.Statement.Rows[1]
	assert.Zero(t, row.PropertyTax)
	assert.Zero(t, row.ManagementFee)
	assert.Zero(t, row.Interest)

	baseline, err := Run(zap.NewNop(), testutil.WorthAveScenario())
	require.NoError(t, err)
	assert.Positive(t, baseline.Statement.Rows[1].PropertyTax)
	assert.Positive(t, baseline.Statement.Rows[1].ManagementFee)
	assert.Positive(t, baseline.Statement.Rows[1].Interest)
}

func TestAnnualRollupTiesToMonthly(t *testing.T) {
	result, err := Run(zap.NewNop(), testutil.WorthAveScenario())
	require.NoError(t, err)

	require.Len(t, result.Annual, 11, "acquisition year plus ten operating years")

	var monthlyNOI, annualNOI float64
	for _, row := range result.Statement.Rows {
		monthlyNOI += row.NOI
	}
	for _, year := range result.Annual {
		annualNOI += year.NOI
	}
	assert.InDelta(t, monthlyNOI, annualNOI, 1e-6)
}
