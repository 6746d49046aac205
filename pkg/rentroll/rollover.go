package rentroll

import (
	"math"

	"github.com/mgleason/proforma/pkg/constants"
	"go.uber.org/zap"
)

// RolloverCost is the one-time capital outflow booked in a tenant's
// rollover month.
type RolloverCost struct {
	LeaseCommission float64
	TIAllowance     float64
}

// Total returns the combined capital cost.
func (c RolloverCost) Total() float64 {
	return c.LeaseCommission + c.TIAllowance
}

// RolloverCosts maps the rollover month of every rollover-cost tenant whose
// lease expires inside the hold to its LC and TI capital costs. Tenants
// with the rollover-cost flag off never generate costs.
func (p *Projector) RolloverCosts(holdPeriods int) (map[int]RolloverCost, error) {
	costs := make(map[int]RolloverCost)

	for i, tenant := range p.tenants {
		if !tenant.ApplyRolloverCosts {
			continue
		}
		rolloverMonth := tenant.LeaseEndMonth + 1
		if rolloverMonth <= 0 || rolloverMonth > holdPeriods {
			continue
		}

		factor, err := p.tenantFactor(i, rolloverMonth)
		if err != nil {
			return nil, err
		}

		lc := p.leaseCommission(tenant, factor)
		ti := tenant.Area * tenant.TIAllowance * factor / constants.CurrencyScale

		p.logger.Debug("lease rollover capital costs",
			zap.String("op", "rentroll.RolloverCosts"),
			zap.String("tenant", tenant.Name),
			zap.Int("month", rolloverMonth),
			zap.Float64("leaseCommission", lc),
			zap.Float64("tiAllowance", ti),
		)

		entry := costs[rolloverMonth]
		entry.LeaseCommission += lc
		entry.TIAllowance += ti
		costs[rolloverMonth] = entry
	}

	return costs, nil
}

// leaseCommission computes the commission for the replacement lease year by
// year: each year's rent escalates from the year-1 market rent, year 1 is
// net of the free-rent months, and the commission rate drops after year 5.
func (p *Projector) leaseCommission(tenant Tenant, rolloverFactor float64) float64 {
	term := tenant.NewLeaseTermYears
	if term <= 0 {
		return 0
	}

	yearOneRent := tenant.Area * tenant.MarketRent * rolloverFactor
	growth := p.growthRateFor(tenant)

	total := 0.0
	for year := 1; year <= term; year++ {
		annualRent := yearOneRent * math.Pow(1.0+growth, float64(year-1))

		netRent := annualRent
		if year == 1 && tenant.FreeRentMonths > 0 {
			netRent = annualRent * float64(constants.MonthsPerYear-tenant.FreeRentMonths) / constants.MonthsPerYear
		}

		rate := tenant.LCRateYears1To5
		if year > 5 {
			rate = tenant.LCRateYears6Plus
		}
		total += netRent * rate
	}

	return total / constants.CurrencyScale
}

// growthRateFor returns the annual growth rate escalating a tenant's
// replacement-lease rent: the tenant's own bump rate when set, otherwise
// the first-year scenario rate implied by the scenario series.
func (p *Projector) growthRateFor(tenant Tenant) float64 {
	if tenant.RentBumpRate > 0 {
		return tenant.RentBumpRate
	}
	if len(p.scenario) > 1 {
		return (p.scenario[1] - 1.0) * constants.MonthsPerYear
	}
	return 0
}
