// Package debt provides loan amortization scheduling, actual/365 interest
// accrual, and floating-rate index curve lookups.
package debt

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mgleason/proforma/pkg/datetime"
)

// ErrCurveOutOfRange indicates a rate lookup for a date outside the span of
// the curve. Lookups never extrapolate silently.
var ErrCurveOutOfRange = errors.New("rate curve lookup outside curve range")

// CurvePoint is one observation on an index rate curve.
type CurvePoint struct {
	Date time.Time
	Rate float64
}

// RateCurve is an ordered mapping from calendar date to an index rate.
// Within the curve's span a lookup resolves to the most recent observation
// on or before the requested date.
type RateCurve struct {
	points []CurvePoint
}

// NewRateCurve sorts the observations by date and rejects duplicates so
// that lookups are monotonic in time.
func NewRateCurve(points []CurvePoint) (*RateCurve, error) {
	if len(points) == 0 {
		return nil, errors.New("rate curve requires at least one observation")
	}

	sorted := make([]CurvePoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Date.Equal(sorted[i-1].Date) {
			return nil, fmt.Errorf("rate curve has duplicate observation at %s",
				sorted[i].Date.Format(datetime.DateTimeLayout))
		}
	}

	return &RateCurve{points: sorted}, nil
}

// Rate returns the index rate applicable on the given date, failing with
// ErrCurveOutOfRange when the date falls before the first or after the last
// observation.
func (c *RateCurve) Rate(date time.Time) (float64, error) {
	first := c.points[0].Date
	last := c.points[len(c.points)-1].Date
	if date.Before(first) || date.After(last) {
		return 0, fmt.Errorf("%w: %s not in [%s, %s]", ErrCurveOutOfRange,
			date.Format(datetime.DateTimeLayout),
			first.Format(datetime.DateTimeLayout),
			last.Format(datetime.DateTimeLayout))
	}

	// Index of the first observation strictly after date, minus one.
	idx := sort.Search(len(c.points), func(i int) bool {
		return c.points[i].Date.After(date)
	})
	return c.points[idx-1].Rate, nil
}

// Span returns the first and last observation dates.
func (c *RateCurve) Span() (time.Time, time.Time) {
	return c.points[0].Date, c.points[len(c.points)-1].Date
}
