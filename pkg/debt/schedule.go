package debt

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mgleason/proforma/pkg/constants"
	"github.com/mgleason/proforma/pkg/datetime"
	"github.com/mgleason/proforma/pkg/mathutil"
	"go.uber.org/zap"
)

// ErrNegativeBalance indicates a tranche whose beginning balance would go
// negative. This is an invariant violation and the run is unrecoverable.
var ErrNegativeBalance = errors.New("loan balance went negative")

// RateMode selects fixed or floating interest for a tranche.
type RateMode string

const (
	RateModeFixed    RateMode = "fixed"
	RateModeFloating RateMode = "floating"
)

// Loan describes one debt tranche.
type Loan struct {
	Name      string
	Principal float64
	Mode      RateMode
	FixedRate float64 // annual, fixed mode
	Spread    float64 // over the index curve, floating mode

	// IOMonths is the interest-only window; amortization begins the period
	// after it ends.
	IOMonths int

	// AmortizationMonths is the full amortization term used to size the
	// level payment.
	AmortizationMonths int

	OriginationFeeRate float64 // fraction of principal, charged at the first draw
	ClosingCostRate    float64 // fraction of principal, charged at the first draw

	// Draws maps period index to a funding amount for construction-style
	// tranches. When empty the full principal funds in period 0.
	Draws map[int]float64
}

// draw returns the funding amount for a period.
func (l Loan) draw(period int) float64 {
	if len(l.Draws) == 0 {
		if period == 0 {
			return l.Principal
		}
		return 0
	}
	return l.Draws[period]
}

// firstDrawPeriod is the period in which the one-time fee and closing-cost
// deductions are booked.
func (l Loan) firstDrawPeriod() int {
	if len(l.Draws) == 0 {
		return 0
	}
	first := -1
	for period := range l.Draws {
		if first < 0 || period < first {
			first = period
		}
	}
	return first
}

// Payment is one row of a tranche's schedule.
type Payment struct {
	Period           int
	BeginningBalance float64
	Draws            float64
	EffectiveRate    float64
	Interest         float64
	Principal        float64
	DebtService      float64 // interest + scheduled principal
	IssuanceCosts    float64 // origination fee + closing costs, draw period only
	EndingBalance    float64
}

// Tracker steps one tranche through the projection one period at a time,
// carrying the balance forward. The cash-flow assembler drives it so that
// capitalized interest can feed back into the balance between periods.
type Tracker struct {
	logger *zap.Logger
	loan   Loan
	curve  *RateCurve
	// accrue is the workbook's circular-reference toggle applied to the
	// interest formula: when false, no interest accrues.
	accrue bool

	balance    float64
	lastPeriod int
}

// NewTracker prepares a tranche for stepping from period 0. curve may be nil
// for fixed-rate tranches.
func NewTracker(logger *zap.Logger, loan Loan, curve *RateCurve, accrueInterest bool) (*Tracker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loan.Mode == RateModeFloating && curve == nil {
		return nil, fmt.Errorf("loan %s is floating rate but no rate curve was supplied", loan.Name)
	}
	return &Tracker{
		logger:     logger,
		loan:       loan,
		curve:      curve,
		accrue:     accrueInterest,
		lastPeriod: -1,
	}, nil
}

// Balance returns the current outstanding balance.
func (tr *Tracker) Balance() float64 {
	return tr.balance
}

// Capitalize adds unpaid interest onto the outstanding balance.
func (tr *Tracker) Capitalize(amount float64) {
	tr.balance += amount
}

// Step advances the tranche by one period and returns its payment row.
// Periods must be visited strictly in order starting at 0.
func (tr *Tracker) Step(period int, date time.Time) (Payment, error) {
	if period != tr.lastPeriod+1 {
		return Payment{}, fmt.Errorf("loan %s stepped out of order: period %d after %d",
			tr.loan.Name, period, tr.lastPeriod)
	}
	tr.lastPeriod = period

	begin := tr.balance
	if mathutil.IsNegative(begin) {
		return Payment{}, fmt.Errorf("%w: loan %s at period %d (%.2f)",
			ErrNegativeBalance, tr.loan.Name, period, begin)
	}

	row := Payment{
		Period:           period,
		BeginningBalance: begin,
		Draws:            tr.loan.draw(period),
	}
	if period == tr.loan.firstDrawPeriod() {
		row.IssuanceCosts = tr.loan.Principal * (tr.loan.OriginationFeeRate + tr.loan.ClosingCostRate)
	}

	// Period 0 is the funding period; no accrual before operations begin.
	if period == 0 {
		tr.balance = begin + row.Draws
		row.EndingBalance = tr.balance
		return row, nil
	}

	rate, err := tr.effectiveRate(date)
	if err != nil {
		return Payment{}, err
	}
	row.EffectiveRate = rate

	if tr.accrue && begin+row.Draws > 0 {
		// Average of the pre-draw and post-draw balance, actual/365.
		avgBalance := begin + row.Draws/2
		days := datetime.DaysInPeriod(date)
		row.Interest = avgBalance * rate * float64(days) / constants.DaysPerYear
	}

	if period > tr.loan.IOMonths && begin > 0 {
		// Level payment from the outstanding balance over the remaining
		// amortization term at the current rate.
		elapsed := period - tr.loan.IOMonths - 1
		remaining := tr.loan.AmortizationMonths - elapsed
		if remaining < 1 {
			remaining = 1
		}
		payment := levelPayment(begin, rate, remaining)
		principal := payment - row.Interest
		if principal < 0 {
			principal = 0
		}
		if principal > begin+row.Draws {
			principal = begin + row.Draws
		}
		row.Principal = principal
	}

	row.DebtService = row.Interest + row.Principal
	tr.balance = begin + row.Draws - row.Principal
	if mathutil.IsZero(tr.balance) {
		tr.balance = 0
	}
	row.EndingBalance = tr.balance

	return row, nil
}

// effectiveRate resolves the annual rate in force on a date.
func (tr *Tracker) effectiveRate(date time.Time) (float64, error) {
	if tr.loan.Mode == RateModeFloating {
		index, err := tr.curve.Rate(date)
		if err != nil {
			return 0, fmt.Errorf("loan %s: %w", tr.loan.Name, err)
		}
		return index + tr.loan.Spread, nil
	}
	return tr.loan.FixedRate, nil
}

// levelPayment is the standard amortization payment for a principal over
// termMonths at an annual rate.
func levelPayment(principal, annualRate float64, termMonths int) float64 {
	if annualRate == 0 {
		return principal / float64(termMonths)
	}
	periodicRate := annualRate / constants.MonthsPerYear
	power := math.Pow(1.0+periodicRate, float64(termMonths))
	discountFactor := (power - 1.0) / power
	return principal * periodicRate / discountFactor
}

// Schedule steps a tranche across every supplied period date and returns
// the complete schedule. Convenience for callers that do not capitalize
// interest.
func (tr *Tracker) Schedule(dates []time.Time) ([]Payment, error) {
	payments := make([]Payment, 0, len(dates))
	for period, date := range dates {
		row, err := tr.Step(period, date)
		if err != nil {
			return nil, err
		}
		payments = append(payments, row)
	}
	return payments, nil
}
