package waterfall

import (
	"testing"
	"time"

	"github.com/mgleason/proforma/pkg/datetime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func standardConfig() Config {
	return Config{
		Tiers: []Tier{
			{Name: "Hurdle I", PrefRate: 0.05, LPSplit: 0.90, GPSplit: 0.10},
		},
		FinalSplit:        Tier{Name: "Final", LPSplit: 0.75, GPSplit: 0.10, GPPromote: 0.15},
		LPShare:           0.90,
		GPShare:           0.10,
		SimpleMonthlyRate: true,
	}
}

func monthlySeries(n int) []time.Time {
	return datetime.MonthlyDates(datetime.MustParseTime("2006-01-02", "2026-03-31"), n-1)
}

func TestNewEngineValidation(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no tiers", func(c *Config) { c.Tiers = nil }},
		{"shares do not sum to one", func(c *Config) { c.LPShare = 0.80 }},
		{"negative split", func(c *Config) { c.Tiers[0].LPSplit = -0.1 }},
		{"tier splits sum past one", func(c *Config) { c.Tiers[0].GPSplit = 0.25 }},
		{"tier promote pushes splits past one", func(c *Config) { c.Tiers[0].GPPromote = 0.20 }},
		{"final split does not sum to one", func(c *Config) { c.FinalSplit.GPPromote = 0.50 }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := standardConfig()
			test.mutate(&cfg)
			_, err := NewEngine(logger, cfg)
			assert.Error(t, err)
		})
	}

	_, err := NewEngine(logger, standardConfig())
	assert.NoError(t, err)
}

func TestSinglePeriodDistribution(t *testing.T) {
	engine, err := NewEngine(zap.NewNop(), standardConfig())
	require.NoError(t, err)

	// 1000 of equity, one month later 1100 comes back. Pref accrues one
	// month at 5%/12 on each class's capital, the rest hits the final split.
	result, err := engine.Distribute([]float64{-1000.0, 1100.0}, monthlySeries(2), 1000.0)
	require.NoError(t, err)
	require.Len(t, result.Distributions, 2)

	dist := result.Distributions[1]
	assert.InDelta(t, 900.0, dist.LPCapitalReturn, 1e-9)
	assert.InDelta(t, 100.0, dist.GPCapitalReturn, 1e-9)
	assert.InDelta(t, 3.75, dist.LPPref, 1e-9)            // 900 * 0.05/12
	assert.InDelta(t, 100.0/240.0, dist.GPPref, 1e-9)     // 100 * 0.05/12
	assert.InDelta(t, 71.875, dist.LPProfit, 1e-9)        // 95.8333 * 0.75
	assert.InDelta(t, 9.5833333333, dist.GPProfit, 1e-9)  // 95.8333 * 0.10
	assert.InDelta(t, 14.375, dist.GPPromote, 1e-9)       // 95.8333 * 0.15

	assert.InDelta(t, 975.625, dist.TotalToLP, 1e-9)
	assert.InDelta(t, 124.375, dist.TotalToGP, 1e-9)
	assert.InDelta(t, 1100.0, dist.TotalToLP+dist.TotalToGP, 1e-9)

	assert.Zero(t, dist.LPUnreturned)
	assert.Zero(t, dist.GPUnreturned)
	assert.Empty(t, result.UnpaidPref)

	// Class cash flows carry the initial contribution at period 0.
	assert.InDelta(t, -900.0, result.LPCashFlows[0], 1e-9)
	assert.InDelta(t, -100.0, result.GPCashFlows[0], 1e-9)
	assert.InDelta(t, 975.625, result.LPCashFlows[1], 1e-9)
	assert.InDelta(t, 124.375, result.GPCashFlows[1], 1e-9)
}

func TestCompoundMonthlyPrefRate(t *testing.T) {
	cfg := standardConfig()
	cfg.SimpleMonthlyRate = false
	engine, err := NewEngine(zap.NewNop(), cfg)
	require.NoError(t, err)

	result, err := engine.Distribute([]float64{-1000.0, 1100.0}, monthlySeries(2), 1000.0)
	require.NoError(t, err)

	// (1.05)^(1/12) - 1 = 0.00407412 monthly.
	assert.InDelta(t, 900.0*0.0040741238, result.Distributions[1].LPPref, 1e-4)
}

func TestUnpaidPrefReportedAtTermination(t *testing.T) {
	engine, err := NewEngine(zap.NewNop(), standardConfig())
	require.NoError(t, err)

	// No cash ever comes back, so two months of accrual survive the hold.
	result, err := engine.Distribute([]float64{-1000.0, 0.0, 0.0}, monthlySeries(3), 1000.0)
	require.NoError(t, err)

	require.Len(t, result.UnpaidPref, 1)
	balance := result.UnpaidPref[0]
	assert.Equal(t, "Hurdle I", balance.Tier)
	assert.InDelta(t, 7.5, balance.LPBalance, 1e-9) // 2 * 900 * 0.05/12
	assert.InDelta(t, 100.0/120.0, balance.GPBalance, 1e-9)

	for _, dist := range result.Distributions {
		assert.Zero(t, dist.TotalToLP)
		assert.Zero(t, dist.TotalToGP)
	}
}

func TestDeeperTierAccruesOnPriorBalance(t *testing.T) {
	cfg := standardConfig()
	cfg.Tiers = append(cfg.Tiers, Tier{
		Name: "Hurdle II", PrefRate: 0.12, LPSplit: 0.80, GPSplit: 0.10, GPPromote: 0.10,
	})
	engine, err := NewEngine(zap.NewNop(), cfg)
	require.NoError(t, err)

	result, err := engine.Distribute([]float64{-1000.0, 0.0, 0.0}, monthlySeries(3), 1000.0)
	require.NoError(t, err)

	require.Len(t, result.UnpaidPref, 2)

	// Hurdle II only builds value off Hurdle I's unpaid balance: one month
	// of 12%/12 on the 3.75 that accrued to LP in the first month.
	second := result.UnpaidPref[1]
	assert.Equal(t, "Hurdle II", second.Tier)
	assert.InDelta(t, 3.75*0.01, second.LPBalance, 1e-9)
}

func TestLaterNegativeFlowIsContribution(t *testing.T) {
	engine, err := NewEngine(zap.NewNop(), standardConfig())
	require.NoError(t, err)

	result, err := engine.Distribute([]float64{-1000.0, -120.0, 1500.0}, monthlySeries(3), 1000.0)
	require.NoError(t, err)

	call := result.Distributions[1]
	assert.InDelta(t, 108.0, call.LPContribution, 1e-9)
	assert.InDelta(t, 12.0, call.GPContribution, 1e-9)
	assert.InDelta(t, -108.0, result.LPCashFlows[1], 1e-9)

	// Return of capital now covers the capital call as well.
	final := result.Distributions[2]
	assert.InDelta(t, 1120.0, final.LPCapitalReturn+final.GPCapitalReturn, 1e-9)
	assert.Zero(t, final.LPUnreturned)
}

func TestDistributionConservation(t *testing.T) {
	engine, err := NewEngine(zap.NewNop(), standardConfig())
	require.NoError(t, err)

	cashFlows := []float64{-5000.0, 40.0, 42.0, -15.0, 38.0, 55.0, 6200.0}
	result, err := engine.Distribute(cashFlows, monthlySeries(len(cashFlows)), 5000.0)
	require.NoError(t, err)

	var distributed, positive float64
	for i, cashFlow := range cashFlows {
		dist := result.Distributions[i]
		distributed += dist.TotalToLP + dist.TotalToGP
		if cashFlow > 0 {
			positive += cashFlow
		}
	}
	assert.InDelta(t, positive, distributed, 1e-6)
	assert.InDelta(t, positive, result.Summary.TotalToLP+result.Summary.TotalToGP, 1e-6)
}

func TestDistributeInputChecks(t *testing.T) {
	engine, err := NewEngine(zap.NewNop(), standardConfig())
	require.NoError(t, err)

	_, err = engine.Distribute([]float64{-100.0, 110.0}, monthlySeries(3), 100.0)
	assert.Error(t, err)

	_, err = engine.Distribute([]float64{-100.0, 110.0}, monthlySeries(2), 0.0)
	assert.Error(t, err)
}
