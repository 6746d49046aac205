// Package rentroll projects per-tenant monthly revenue, free-rent
// deductions, and rollover-to-market transitions, along with parking and
// storage income.
//
// Per-area rents are quoted in whole currency units per year; all produced
// line items are in thousands, matching the reporting unit of the rest of
// the engine.
package rentroll

import (
	"fmt"

	"github.com/mgleason/proforma/pkg/constants"
	"github.com/mgleason/proforma/pkg/escalation"
	"go.uber.org/zap"
)

// Tenant describes one space on the rent roll. A Tenant is owned by a
// scenario snapshot and must not be mutated while a calculation is running.
type Tenant struct {
	Name        string
	Area        float64 // rentable area, must be positive
	InPlaceRent float64 // current rent per area per year
	MarketRent  float64 // market rent per area per year at period 0

	// LeaseEndMonth is the last period of the in-place lease (0-indexed).
	LeaseEndMonth int

	// ApplyRolloverCosts selects whether the buildout gap, free rent, and
	// LC/TI capital costs apply when the lease rolls to market. When false
	// the tenant transitions to market rent immediately with no costs.
	ApplyRolloverCosts bool

	// FreeRentMonths is the length of the free-rent window that follows the
	// buildout gap at rollover, or of the in-place window when
	// FreeRentStartMonth is set.
	FreeRentMonths int

	// FreeRentStartMonth, when positive, opens a free-rent window during the
	// original lease term starting at that period.
	FreeRentStartMonth int

	// BuildoutMonths is the zero-revenue construction gap immediately after
	// lease expiry, rollover-cost tenants only.
	BuildoutMonths int

	// RentBumpRate, when positive, replaces the scenario rent growth rate
	// for this tenant's escalation.
	RentBumpRate float64

	// Rollover cost assumptions.
	LCRateYears1To5   float64 // lease commission rate, new-lease years 1-5
	LCRateYears6Plus  float64 // lease commission rate, years 6 and beyond
	NewLeaseTermYears int     // term of the replacement lease
	TIAllowance       float64 // tenant improvement allowance per area
}

// GrowthAssumptions carries the scenario-level rent escalation inputs.
type GrowthAssumptions struct {
	AnnualRate            float64
	PostStabilizationRate float64
	StabilizationMonth    int
}

// Revenue holds the rental-only revenue lines for one period. Reimbursement
// revenue is assembled downstream because it depends on projected expenses.
type Revenue struct {
	BaseRent      float64 // gross tenant rent
	FreeRent      float64 // signed deduction, zero or negative
	ParkingIncome float64
	StorageIncome float64
}

// Rental returns the rental-only revenue subject to collection loss.
func (r Revenue) Rental() float64 {
	return r.BaseRent + r.FreeRent + r.ParkingIncome + r.StorageIncome
}

// Projector computes the revenue side of the monthly projection.
type Projector struct {
	logger   *zap.Logger
	tenants  []Tenant
	scenario escalation.Series
	byTenant []escalation.Series // aligned with tenants; nil means scenario series

	parkingMonthly float64 // fixed monthly parking income before escalation
	storageMonthly float64 // fixed monthly storage income before escalation
}

// NewProjector builds escalation series for the scenario and for every
// tenant carrying its own bump rate, covering periods 0 through periods.
func NewProjector(logger *zap.Logger, tenants []Tenant, growth GrowthAssumptions,
	parkingMonthly, storageMonthly float64, periods int) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Projector{
		logger:         logger,
		tenants:        tenants,
		scenario:       escalation.Rent(growth.AnnualRate, growth.PostStabilizationRate, growth.StabilizationMonth, periods),
		byTenant:       make([]escalation.Series, len(tenants)),
		parkingMonthly: parkingMonthly,
		storageMonthly: storageMonthly,
	}

	for i, tenant := range tenants {
		if tenant.RentBumpRate > 0 {
			p.byTenant[i] = escalation.Rent(tenant.RentBumpRate, tenant.RentBumpRate, 0, periods)
			logger.Debug("tenant carries its own rent bump rate",
				zap.String("op", "rentroll.NewProjector"),
				zap.String("tenant", tenant.Name),
				zap.Float64("rate", tenant.RentBumpRate),
			)
		}
	}

	return p
}

// tenantFactor returns the escalation factor governing a tenant at a period.
func (p *Projector) tenantFactor(idx, period int) (float64, error) {
	if s := p.byTenant[idx]; s != nil {
		return s.At(period)
	}
	return p.scenario.At(period)
}

// TenantRent computes the gross rent and the signed free-rent deduction for
// one tenant at one period. Period 0 is the acquisition period and always
// yields zero.
func (p *Projector) TenantRent(idx, period int) (gross, freeRent float64, err error) {
	if idx < 0 || idx >= len(p.tenants) {
		return 0, 0, fmt.Errorf("rentroll: tenant index %d outside rent roll of %d", idx, len(p.tenants))
	}
	if period == 0 {
		return 0, 0, nil
	}

	tenant := p.tenants[idx]
	factor, err := p.tenantFactor(idx, period)
	if err != nil {
		return 0, 0, err
	}

	monthly := func(ratePerArea float64) float64 {
		return tenant.Area * ratePerArea * factor / constants.MonthsPerYear / constants.CurrencyScale
	}

	if period <= tenant.LeaseEndMonth {
		gross = monthly(tenant.InPlaceRent)

		// In-place free-rent window nets the rent to zero via a separate
		// signed line, same shape as the rollover deduction.
		if tenant.FreeRentStartMonth > 0 {
			end := tenant.FreeRentStartMonth + tenant.FreeRentMonths
			if period >= tenant.FreeRentStartMonth && period < end {
				return gross, -gross, nil
			}
		}
		return gross, 0, nil
	}

	// After lease expiry.
	rolloverMonth := tenant.LeaseEndMonth + 1

	if !tenant.ApplyRolloverCosts {
		// Immediate transition to market rent, no gap, no free rent.
		return monthly(tenant.MarketRent), 0, nil
	}

	buildoutEnd := rolloverMonth + tenant.BuildoutMonths
	if period < buildoutEnd {
		// Construction gap: no revenue, no deduction.
		return 0, 0, nil
	}

	gross = monthly(tenant.MarketRent)

	freeRentEnd := buildoutEnd + tenant.FreeRentMonths
	if period < freeRentEnd {
		return gross, -gross, nil
	}
	return gross, 0, nil
}

// Project computes all rental-only revenue lines for a period.
func (p *Projector) Project(period int) (Revenue, error) {
	var rev Revenue
	if period == 0 {
		return rev, nil
	}

	for i := range p.tenants {
		gross, freeRent, err := p.TenantRent(i, period)
		if err != nil {
			return Revenue{}, err
		}
		rev.BaseRent += gross
		rev.FreeRent += freeRent
	}

	factor, err := p.scenario.At(period)
	if err != nil {
		return Revenue{}, err
	}
	rev.ParkingIncome = p.parkingMonthly * factor / constants.CurrencyScale
	rev.StorageIncome = p.storageMonthly * factor / constants.CurrencyScale

	return rev, nil
}

// TotalArea sums the rentable area across the rent roll.
func (p *Projector) TotalArea() float64 {
	area := 0.0
	for _, tenant := range p.tenants {
		area += tenant.Area
	}
	return area
}
