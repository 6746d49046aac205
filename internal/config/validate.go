package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/mgleason/proforma/pkg/datetime"
	"github.com/mgleason/proforma/pkg/mathutil"
)

// ValidationError aggregates every scenario problem found before any
// projection runs. A run never starts on a configuration carrying one.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid scenario: %s", strings.Join(e.Problems, "; "))
}

// Validate checks the scenario before projection. It reports every problem
// found rather than stopping at the first.
func (conf *Configuration) Validate() error {
	var problems []string
	fail := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	s := conf.Scenario

	if _, err := datetime.ParseDate(s.AcquisitionDate); err != nil {
		fail("acquisition date %q does not parse as %s", s.AcquisitionDate, DateTimeLayout)
	}
	if s.HoldMonths < 1 {
		fail("hold period must be at least 1 month, have %d", s.HoldMonths)
	}
	if s.BuildingArea <= 0 {
		fail("building area must be positive, have %.2f", s.BuildingArea)
	}
	if s.PurchasePrice <= 0 {
		fail("purchase price must be positive, have %.2f", s.PurchasePrice)
	}
	if len(s.Tenants) == 0 {
		fail("rent roll is empty")
	}

	totalArea := 0.0
	for _, tenant := range s.Tenants {
		if tenant.Area <= 0 {
			fail("tenant %q area must be positive, have %.2f", tenant.Name, tenant.Area)
		}
		if tenant.InPlaceRent < 0 || tenant.MarketRent < 0 {
			fail("tenant %q rents must be non-negative", tenant.Name)
		}
		if tenant.LeaseEndMonth < 0 {
			fail("tenant %q lease end month must be non-negative, have %d", tenant.Name, tenant.LeaseEndMonth)
		}
		if tenant.FreeRentMonths < 0 || tenant.BuildoutMonths < 0 {
			fail("tenant %q free-rent and buildout months must be non-negative", tenant.Name)
		}
		totalArea += tenant.Area
	}
	if s.BuildingArea > 0 && len(s.Tenants) > 0 &&
		!mathutil.WithinRelativeTolerance(totalArea, s.BuildingArea, 0.001, 1.0) {
		fail("tenant areas sum to %.2f but building area is %.2f", totalArea, s.BuildingArea)
	}

	if s.Parameters.VacancyRate < 0 || s.Parameters.VacancyRate >= 1 {
		fail("vacancy rate must be in [0, 1), have %.4f", s.Parameters.VacancyRate)
	}
	if s.Parameters.CollectionLossRate < 0 || s.Parameters.CollectionLossRate >= 1 {
		fail("collection loss rate must be in [0, 1), have %.4f", s.Parameters.CollectionLossRate)
	}
	if s.Parameters.ExitCapRate <= 0 {
		fail("exit cap rate must be positive, have %.4f", s.Parameters.ExitCapRate)
	}
	if s.Parameters.SalesCostRate < 0 || s.Parameters.SalesCostRate >= 1 {
		fail("sales cost rate must be in [0, 1), have %.4f", s.Parameters.SalesCostRate)
	}

	for _, loan := range s.Loans {
		if loan.Principal <= 0 {
			fail("loan %q principal must be positive, have %.2f", loan.Name, loan.Principal)
		}
		switch loan.RateMode {
		case "", "fixed":
		case "floating":
			if len(s.RateCurve) == 0 {
				fail("loan %q is floating rate but no rate curve is configured", loan.Name)
			}
		default:
			fail("loan %q rate mode %q is not fixed or floating", loan.Name, loan.RateMode)
		}
		if loan.AmortizationMonths <= 0 && loan.InterestOnlyMonths < s.HoldMonths {
			fail("loan %q amortizes during the hold but has no amortization term", loan.Name)
		}
	}

	for _, point := range s.RateCurve {
		if _, err := datetime.ParseDate(point.Date); err != nil {
			fail("rate curve date %q does not parse as %s", point.Date, DateTimeLayout)
		}
	}

	if s.Waterfall.Enabled() {
		if math.Abs(s.Waterfall.LPShare+s.Waterfall.GPShare-1.0) > 1e-9 {
			fail("waterfall LP and GP shares must sum to 1.0, have %.4f + %.4f",
				s.Waterfall.LPShare, s.Waterfall.GPShare)
		}
		finalTotal := s.Waterfall.FinalSplit.LPSplit + s.Waterfall.FinalSplit.GPSplit + s.Waterfall.FinalSplit.GPPromote
		if math.Abs(finalTotal-1.0) > 1e-4 {
			fail("waterfall final split must sum to 1.0, have %.4f", finalTotal)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
