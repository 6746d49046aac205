// Package escalation produces per-period growth factor series for rent,
// operating expenses, and property tax.
//
// Rent and expense factors follow two deliberately different conventions
// carried over from the source workbook: rent compounds at a monthly rate
// (1 + annual/12 each period) while expenses compound at the monthly root of
// the annual rate ((1 + annual)^(1/12) each period). The two agree at period
// 0 and diverge thereafter; they are not interchangeable.
package escalation

import (
	"fmt"
	"math"

	"github.com/mgleason/proforma/pkg/constants"
)

// Series is an ordered sequence of growth factors indexed by period, with
// the base factor 1.0 at period 0.
type Series []float64

// At returns the factor for the given period, failing explicitly when the
// period is outside the computed range rather than extrapolating.
func (s Series) At(period int) (float64, error) {
	if period < 0 || period >= len(s) {
		return 0, fmt.Errorf("escalation: period %d outside computed range [0, %d]", period, len(s)-1)
	}
	return s[period], nil
}

// Rent builds the rent escalation series using monthly compounding:
// factor[t] = factor[t-1] * (1 + rate/12). When stabilizationMonth is
// positive, periods beyond that boundary compound at postStabilizationRate
// instead of annualRate.
func Rent(annualRate, postStabilizationRate float64, stabilizationMonth, periods int) Series {
	s := make(Series, periods+1)
	s[0] = 1.0
	for t := 1; t <= periods; t++ {
		rate := annualRate
		if stabilizationMonth > 0 && t > stabilizationMonth {
			rate = postStabilizationRate
		}
		s[t] = s[t-1] * (1.0 + rate/constants.MonthsPerYear)
	}
	return s
}

// Expense builds the expense escalation series using the monthly root of the
// annual rate: factor[t] = factor[t-1] * (1 + rate)^(1/12). After exactly 12
// periods the factor equals (1 + rate), unlike the rent convention.
func Expense(annualRate float64, periods int) Series {
	monthlyRoot := math.Pow(1.0+annualRate, 1.0/constants.MonthsPerYear)
	s := make(Series, periods+1)
	s[0] = 1.0
	for t := 1; t <= periods; t++ {
		s[t] = s[t-1] * monthlyRoot
	}
	return s
}

// PropertyTax builds the stepped tax series: factors hold flat for the 12
// periods following taxStart, then step up by (1 + annualGrowth) exactly once
// at each subsequent 12-period boundary. Periods before taxStart carry the
// base factor.
func PropertyTax(annualGrowth float64, taxStart, periods int) Series {
	s := make(Series, periods+1)
	for t := 0; t <= periods; t++ {
		if t <= taxStart {
			s[t] = 1.0
			continue
		}
		steps := (t - taxStart) / constants.MonthsPerYear
		s[t] = math.Pow(1.0+annualGrowth, float64(steps))
	}
	return s
}
