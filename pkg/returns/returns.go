// Package returns solves return metrics over cash-flow series: periodic IRR,
// date-weighted XIRR, NPV, equity multiple, profit, and cash-on-cash.
//
// The IRR solvers run Newton-Raphson from one or more starting guesses and
// fall back to a bounded bisection search before reporting failure. A
// non-converged estimate is never returned silently.
package returns

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mgleason/proforma/pkg/constants"
	"github.com/mgleason/proforma/pkg/datetime"
)

// ErrDegenerateCashFlows indicates a series that cannot have an IRR: fewer
// than two flows, or flows that never change sign.
var ErrDegenerateCashFlows = errors.New("cash flows must contain both positive and negative values")

// ErrNoConvergence indicates the root-finder exhausted Newton-Raphson and
// the bisection fallback without finding a root.
var ErrNoConvergence = errors.New("rate solver did not converge")

// NPV discounts periodic cash flows at a per-period rate.
func NPV(cashFlows []float64, rate float64) float64 {
	npv := 0.0
	for period, cf := range cashFlows {
		npv += cf / math.Pow(1.0+rate, float64(period))
	}
	return npv
}

// XNPV discounts dated cash flows at an annual rate using actual/365 year
// fractions from the first date.
func XNPV(cashFlows []float64, dates []time.Time, rate float64) float64 {
	base := dates[0]
	xnpv := 0.0
	for i, cf := range cashFlows {
		years := datetime.YearFraction(base, dates[i])
		xnpv += cf / math.Pow(1.0+rate, years)
	}
	return xnpv
}

// validate rejects series no rate can discount to zero.
func validate(cashFlows []float64) error {
	if len(cashFlows) < 2 {
		return fmt.Errorf("%w: need at least 2 cash flows, have %d", ErrDegenerateCashFlows, len(cashFlows))
	}
	hasPositive, hasNegative := false, false
	for _, cf := range cashFlows {
		if cf > 0 {
			hasPositive = true
		}
		if cf < 0 {
			hasNegative = true
		}
	}
	if !hasPositive || !hasNegative {
		return ErrDegenerateCashFlows
	}
	return nil
}

// IRR solves the periodic internal rate of return. The result is per
// period; annualize a monthly series with AnnualFromMonthly.
func IRR(cashFlows []float64, guess float64) (float64, error) {
	if err := validate(cashFlows); err != nil {
		return 0, err
	}
	if guess == 0 {
		guess = constants.IRRDefaultGuess
	}

	value := func(rate float64) float64 { return NPV(cashFlows, rate) }
	derivative := func(rate float64) float64 {
		d := 0.0
		for period, cf := range cashFlows {
			d -= float64(period) * cf / math.Pow(1.0+rate, float64(period+1))
		}
		return d
	}

	return solve(value, derivative, guess)
}

// XIRR solves the date-weighted internal rate of return, matching the
// workbook's XIRR semantics. The result is annual.
func XIRR(cashFlows []float64, dates []time.Time, guess float64) (float64, error) {
	if len(cashFlows) != len(dates) {
		return 0, fmt.Errorf("cash flows and dates differ in length: %d vs %d", len(cashFlows), len(dates))
	}
	if err := validate(cashFlows); err != nil {
		return 0, err
	}
	if guess == 0 {
		guess = constants.IRRDefaultGuess
	}

	base := dates[0]
	value := func(rate float64) float64 { return XNPV(cashFlows, dates, rate) }
	derivative := func(rate float64) float64 {
		d := 0.0
		for i, cf := range cashFlows {
			years := datetime.YearFraction(base, dates[i])
			d -= years * cf / math.Pow(1.0+rate, years+1.0)
		}
		return d
	}

	return solve(value, derivative, guess)
}

// solve runs Newton-Raphson from a ladder of starting guesses, then a
// bisection search over a wide bracket, and reports ErrNoConvergence only
// after both fail.
func solve(value, derivative func(float64) float64, guess float64) (float64, error) {
	guesses := []float64{guess, 0.05, 0.10, 0.15, 0.20, 0.01, -0.05, 0.30, 0.50}
	for _, g := range guesses {
		if rate, ok := newton(value, derivative, g); ok {
			return rate, nil
		}
	}

	if rate, ok := bisect(value); ok {
		return rate, nil
	}
	return 0, ErrNoConvergence
}

// newton attempts one Newton-Raphson run from a starting rate.
func newton(value, derivative func(float64) float64, guess float64) (float64, bool) {
	rate := guess
	for i := 0; i < constants.IRRMaxIterations; i++ {
		v := value(rate)
		d := derivative(rate)
		if math.Abs(d) < constants.IRRTolerance || math.IsNaN(d) || math.IsInf(d, 0) {
			return 0, false
		}

		next := rate - v/d
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return 0, false
		}

		// Keep the iterate inside the searchable range.
		if next < constants.IRRBracketLow {
			next = constants.IRRBracketLow
		} else if next > constants.IRRBracketHigh {
			next = constants.IRRBracketHigh
		}

		if math.Abs(next-rate) < constants.IRRTolerance {
			if next > constants.IRRBracketLow && next < constants.IRRBracketHigh {
				return next, true
			}
			return 0, false
		}
		rate = next
	}
	return 0, false
}

// bisect searches for a sign change over the bracket and halves toward the
// root. Returns false when the function never changes sign.
func bisect(value func(float64) float64) (float64, bool) {
	low, high := constants.IRRBracketLow, 1.0
	vLow := value(low)
	vHigh := value(high)

	if vLow*vHigh > 0 {
		for _, h := range []float64{2.0, 5.0, constants.IRRBracketHigh} {
			vHigh = value(h)
			if vLow*vHigh < 0 {
				high = h
				break
			}
		}
	}
	if vLow*vHigh > 0 {
		return 0, false
	}

	for i := 0; i < constants.IRRMaxIterations; i++ {
		mid := (low + high) / 2
		vMid := value(mid)
		if math.Abs(vMid) < constants.IRRTolerance {
			return mid, true
		}
		if vLow*vMid < 0 {
			high = mid
		} else {
			low = mid
			vLow = vMid
		}
	}
	return (low + high) / 2, true
}

// AnnualFromMonthly converts a monthly periodic rate to an annual rate.
func AnnualFromMonthly(monthly float64) float64 {
	return math.Pow(1.0+monthly, constants.MonthsPerYear) - 1.0
}

// Multiple is the equity multiple: total inflows over total outflows.
func Multiple(cashFlows []float64) (float64, error) {
	inflows, outflows := 0.0, 0.0
	for _, cf := range cashFlows {
		if cf > 0 {
			inflows += cf
		} else {
			outflows -= cf
		}
	}
	if outflows == 0 {
		return 0, fmt.Errorf("%w: no investment outflows", ErrDegenerateCashFlows)
	}
	return inflows / outflows, nil
}

// Profit is the undiscounted sum of the series.
func Profit(cashFlows []float64) float64 {
	total := 0.0
	for _, cf := range cashFlows {
		total += cf
	}
	return total
}

// CashOnCash is the average annual operating cash flow (excluding the
// acquisition and exit periods) over the initial investment.
func CashOnCash(cashFlows []float64) (float64, error) {
	if len(cashFlows) < 3 {
		return 0, fmt.Errorf("%w: need an acquisition, operations, and an exit period", ErrDegenerateCashFlows)
	}
	investment := -cashFlows[0]
	if investment <= 0 {
		return 0, fmt.Errorf("%w: first period must be a net investment", ErrDegenerateCashFlows)
	}

	operating := cashFlows[1 : len(cashFlows)-1]
	total := 0.0
	for _, cf := range operating {
		total += cf
	}
	annualized := total / float64(len(operating)) * constants.MonthsPerYear
	return annualized / investment, nil
}
