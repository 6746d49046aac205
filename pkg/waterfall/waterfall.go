// Package waterfall distributes levered cash flow across LP and GP equity
// classes through an ordered sequence of preferred-return hurdles and a
// terminal profit split.
//
// The engine is a state machine over the monthly series: every tier carries
// an accrued-but-unpaid preferred balance per class, the classes carry
// unreturned capital, and cash moves strictly in order: return of capital
// first, then each hurdle's pref and promote, then the final split on
// whatever remains. Unpaid pref surviving the hold is reported, never
// force-paid.
package waterfall

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mgleason/proforma/pkg/constants"
	"github.com/mgleason/proforma/pkg/mathutil"
	"go.uber.org/zap"
)

// ErrNegativeAvailable indicates a tier was asked to distribute negative
// cash, an invariant violation that aborts the run.
var ErrNegativeAvailable = errors.New("waterfall tier received negative available cash")

// Tier configures one hurdle (or the final split, where PrefRate is zero).
type Tier struct {
	Name      string
	PrefRate  float64 // annual preferred return
	LPSplit   float64 // LP share of distributions at this tier
	GPSplit   float64 // GP share of distributions at this tier
	GPPromote float64 // GP promote share at this tier
}

// Config is the full distribution structure.
type Config struct {
	Tiers      []Tier // hurdles, evaluated strictly in order
	FinalSplit Tier   // applied to residual cash after all hurdles clear
	LPShare    float64
	GPShare    float64

	// SimpleMonthlyRate selects annual/12 for the monthly pref rate instead
	// of the compound (1+annual)^(1/12)-1 convention.
	SimpleMonthlyRate bool
}

// TierDistribution is one tier's payout within a single period.
type TierDistribution struct {
	LPPref    float64
	GPPref    float64
	GPPromote float64
}

// Distribution is the full payout breakdown for one period.
type Distribution struct {
	Period   int
	Date     time.Time
	CashFlow float64

	LPContribution float64
	GPContribution float64

	LPCapitalReturn float64
	GPCapitalReturn float64
	LPPref          float64
	GPPref          float64
	LPProfit        float64
	GPProfit        float64
	GPPromote       float64

	TotalToLP float64
	TotalToGP float64

	LPUnreturned float64
	GPUnreturned float64

	Tiers map[string]TierDistribution
}

// TierBalance reports a tier's accrued-but-unpaid pref at termination.
type TierBalance struct {
	Tier      string
	LPBalance float64
	GPBalance float64
}

// Summary aggregates distributions across the hold.
type Summary struct {
	TotalToLP            float64
	TotalToGP            float64
	TotalLPCapitalReturn float64
	TotalGPCapitalReturn float64
	TotalLPPref          float64
	TotalGPPref          float64
	TotalLPProfit        float64
	TotalGPProfit        float64
	TotalGPPromote       float64
}

// Result is the outcome of one waterfall run.
type Result struct {
	Distributions []Distribution
	Summary       Summary
	UnpaidPref    []TierBalance

	// Per-class cash flows (contributions negative) for class-level IRRs.
	LPCashFlows []float64
	GPCashFlows []float64
}

// Engine runs the tiered distribution.
type Engine struct {
	logger *zap.Logger
	cfg    Config
}

// NewEngine validates the tier structure.
func NewEngine(logger *zap.Logger, cfg Config) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.Tiers) == 0 {
		return nil, errors.New("waterfall requires at least one tier")
	}
	if cfg.LPShare < 0 || cfg.GPShare < 0 || math.Abs(cfg.LPShare+cfg.GPShare-1.0) > 1e-9 {
		return nil, fmt.Errorf("LP and GP equity shares must be non-negative and sum to 1.0, have %.4f + %.4f",
			cfg.LPShare, cfg.GPShare)
	}
	for _, tier := range cfg.Tiers {
		if tier.LPSplit < 0 || tier.GPSplit < 0 || tier.GPPromote < 0 {
			return nil, fmt.Errorf("tier %s has negative splits", tier.Name)
		}
		if total := tier.LPSplit + tier.GPSplit + tier.GPPromote; total > 1.0+1e-9 {
			return nil, fmt.Errorf("tier %s splits sum past 1.0, have %.4f", tier.Name, total)
		}
	}
	finalTotal := cfg.FinalSplit.LPSplit + cfg.FinalSplit.GPSplit + cfg.FinalSplit.GPPromote
	if math.Abs(finalTotal-1.0) > 1e-4 {
		return nil, fmt.Errorf("final split shares must sum to 1.0, have %.4f", finalTotal)
	}
	return &Engine{logger: logger, cfg: cfg}, nil
}

// monthlyRate converts a tier's annual pref rate to the per-period rate.
func (e *Engine) monthlyRate(annual float64) float64 {
	if e.cfg.SimpleMonthlyRate {
		return annual / constants.MonthsPerYear
	}
	return math.Pow(1.0+annual, 1.0/constants.MonthsPerYear) - 1.0
}

// tierState carries one tier's accrued-but-unpaid pref per class.
type tierState struct {
	lpBalance float64
	gpBalance float64
}

// Distribute runs the waterfall over the levered cash-flow series. The
// period-0 investment is carried in totalEquity; subsequent negative flows
// are treated as additional pro-rata contributions.
func (e *Engine) Distribute(cashFlows []float64, dates []time.Time, totalEquity float64) (*Result, error) {
	if len(cashFlows) != len(dates) {
		return nil, fmt.Errorf("cash flows and dates differ in length: %d vs %d", len(cashFlows), len(dates))
	}
	if totalEquity <= 0 {
		return nil, fmt.Errorf("total equity must be positive, have %.2f", totalEquity)
	}

	lpEquity := totalEquity * e.cfg.LPShare
	gpEquity := totalEquity * e.cfg.GPShare
	lpUnreturned := lpEquity
	gpUnreturned := gpEquity

	states := make([]tierState, len(e.cfg.Tiers))

	result := &Result{
		Distributions: make([]Distribution, 0, len(cashFlows)),
		LPCashFlows:   make([]float64, len(cashFlows)),
		GPCashFlows:   make([]float64, len(cashFlows)),
	}

	for i, cashFlow := range cashFlows {
		dist := Distribution{
			Period:   i,
			Date:     dates[i],
			CashFlow: cashFlow,
			Tiers:    make(map[string]TierDistribution, len(e.cfg.Tiers)),
		}

		// Accrue pref on beginning balances before this period's cash moves.
		// The first tier accrues on the class's outstanding capital; each
		// deeper tier accrues on the unpaid balance cascading from the tier
		// above it, so a hurdle only builds value while its predecessor
		// stays unsatisfied. Deepest tier first, so every tier reads its
		// predecessor's beginning balance rather than one already carrying
		// this period's accrual.
		if i > 0 {
			for t := len(e.cfg.Tiers) - 1; t >= 0; t-- {
				rate := e.monthlyRate(e.cfg.Tiers[t].PrefRate)
				if t == 0 {
					states[0].lpBalance += lpUnreturned * rate
					states[0].gpBalance += gpUnreturned * rate
				} else {
					states[t].lpBalance += states[t-1].lpBalance * rate
					states[t].gpBalance += states[t-1].gpBalance * rate
				}
			}
		}

		// Negative flow after period 0 is an additional equity contribution.
		if cashFlow < 0 && i > 0 {
			dist.LPContribution = -cashFlow * e.cfg.LPShare
			dist.GPContribution = -cashFlow * e.cfg.GPShare
			lpUnreturned += dist.LPContribution
			gpUnreturned += dist.GPContribution
		}

		if cashFlow > 0 {
			if err := e.distributePositive(cashFlow, states, &dist, &lpUnreturned, &gpUnreturned); err != nil {
				return nil, err
			}
		}

		dist.TotalToLP = dist.LPCapitalReturn + dist.LPPref + dist.LPProfit
		dist.TotalToGP = dist.GPCapitalReturn + dist.GPPref + dist.GPProfit + dist.GPPromote
		dist.LPUnreturned = mathutil.Max(0, lpUnreturned)
		dist.GPUnreturned = mathutil.Max(0, gpUnreturned)

		result.LPCashFlows[i] = dist.TotalToLP - dist.LPContribution
		result.GPCashFlows[i] = dist.TotalToGP - dist.GPContribution
		if i == 0 {
			result.LPCashFlows[i] -= lpEquity
			result.GPCashFlows[i] -= gpEquity
		}

		result.Summary.TotalToLP += dist.TotalToLP
		result.Summary.TotalToGP += dist.TotalToGP
		result.Summary.TotalLPCapitalReturn += dist.LPCapitalReturn
		result.Summary.TotalGPCapitalReturn += dist.GPCapitalReturn
		result.Summary.TotalLPPref += dist.LPPref
		result.Summary.TotalGPPref += dist.GPPref
		result.Summary.TotalLPProfit += dist.LPProfit
		result.Summary.TotalGPProfit += dist.GPProfit
		result.Summary.TotalGPPromote += dist.GPPromote

		result.Distributions = append(result.Distributions, dist)
	}

	// Report, do not force-pay, whatever pref survives the hold.
	for t, tier := range e.cfg.Tiers {
		if mathutil.IsPositive(states[t].lpBalance) || mathutil.IsPositive(states[t].gpBalance) {
			result.UnpaidPref = append(result.UnpaidPref, TierBalance{
				Tier:      tier.Name,
				LPBalance: states[t].lpBalance,
				GPBalance: states[t].gpBalance,
			})
			e.logger.Debug("accrued pref unpaid at termination",
				zap.String("op", "waterfall.Distribute"),
				zap.String("tier", tier.Name),
				zap.Float64("lpBalance", states[t].lpBalance),
				zap.Float64("gpBalance", states[t].gpBalance),
			)
		}
	}

	return result, nil
}

// distributePositive pushes one period's positive cash through return of
// capital, the hurdles in order, and the final split.
func (e *Engine) distributePositive(cashFlow float64, states []tierState, dist *Distribution,
	lpUnreturned, gpUnreturned *float64) error {
	remaining := cashFlow

	// Return of capital, pro-rata by unreturned amounts.
	totalUnreturned := *lpUnreturned + *gpUnreturned
	if totalUnreturned > 0 {
		payment := mathutil.Min(remaining, totalUnreturned)
		lpShare := *lpUnreturned / totalUnreturned

		dist.LPCapitalReturn = payment * lpShare
		dist.GPCapitalReturn = payment * (1 - lpShare)
		*lpUnreturned -= dist.LPCapitalReturn
		*gpUnreturned -= dist.GPCapitalReturn
		if mathutil.IsZero(*lpUnreturned) {
			*lpUnreturned = 0
		}
		if mathutil.IsZero(*gpUnreturned) {
			*gpUnreturned = 0
		}
		remaining -= payment
	}

	// Hurdles, strictly in order. A tier sees no cash until every prior
	// tier's pref for this period is satisfied.
	for t, tier := range e.cfg.Tiers {
		if remaining < -constants.CurrencyTolerance {
			return fmt.Errorf("%w: tier %s, available %.4f", ErrNegativeAvailable, tier.Name, remaining)
		}
		if remaining <= 0 {
			break
		}

		tierDist := TierDistribution{}

		accrued := states[t].lpBalance + states[t].gpBalance
		if accrued > 0 {
			// Pay down accrued pref, capped by each class's split share of
			// the cash available to this tier.
			lpPayment := mathutil.Min(states[t].lpBalance, remaining*tier.LPSplit)
			gpPayment := mathutil.Min(states[t].gpBalance, remaining*tier.GPSplit)

			states[t].lpBalance -= lpPayment
			states[t].gpBalance -= gpPayment
			tierDist.LPPref = lpPayment
			tierDist.GPPref = gpPayment
			dist.LPPref += lpPayment
			dist.GPPref += gpPayment

			prefPaid := lpPayment + gpPayment
			remaining -= prefPaid

			// Promote earned alongside the pref, proportional to the
			// configured promote share of the tier's split.
			if tier.GPPromote > 0 && prefPaid > 0 {
				promote := mathutil.Min(remaining, prefPaid*tier.GPPromote/(tier.LPSplit+tier.GPSplit))
				tierDist.GPPromote = promote
				dist.GPPromote += promote
				remaining -= promote
			}
		}

		dist.Tiers[tier.Name] = tierDist
	}

	// Final split on the residual.
	if remaining > 0 {
		final := e.cfg.FinalSplit
		dist.LPProfit = remaining * final.LPSplit
		dist.GPProfit = remaining * final.GPSplit
		dist.GPPromote += remaining * final.GPPromote
	}

	return nil
}
