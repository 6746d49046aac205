package rentroll

import (
	"math"
	"testing"
)

var benchmarkGrowth = GrowthAssumptions{AnnualRate: 0.025, PostStabilizationRate: 0.025}

// The three benchmark tenants from the reference model.
func benchmarkTenants() []Tenant {
	return []Tenant{
		{
			Name:          "Space A",
			Area:          2300,
			InPlaceRent:   201.45,
			MarketRent:    300.00,
			LeaseEndMonth: 83,
		},
		{
			Name:               "Space B",
			Area:               1868,
			InPlaceRent:        200.47,
			MarketRent:         300.00,
			LeaseEndMonth:      50,
			ApplyRolloverCosts: true,
			FreeRentMonths:     10,
			BuildoutMonths:     6,
		},
		{
			Name:               "Space C",
			Area:               5950,
			InPlaceRent:        187.65,
			MarketRent:         300.00,
			LeaseEndMonth:      210,
			ApplyRolloverCosts: true,
			FreeRentMonths:     10,
			BuildoutMonths:     6,
		},
	}
}

func TestTenantRentMonthOne(t *testing.T) {
	p := NewProjector(nil, benchmarkTenants(), benchmarkGrowth, 0, 0, 132)

	tests := []struct {
		name     string
		idx      int
		expected float64
	}{
		{name: "Space A", idx: 0, expected: 38.69},
		{name: "Space B", idx: 1, expected: 31.27},
		{name: "Space C", idx: 2, expected: 93.24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gross, freeRent, err := p.TenantRent(tt.idx, 1)
			if err != nil {
				t.Fatalf("TenantRent() returned error: %v", err)
			}
			if math.Abs(gross-tt.expected) > 0.05 {
				t.Errorf("month-1 rent = %.2f, expected %.2f", gross, tt.expected)
			}
			if freeRent != 0 {
				t.Errorf("month-1 free rent = %.2f, expected 0", freeRent)
			}
		})
	}
}

func TestTenantRentAcquisitionPeriodIsZero(t *testing.T) {
	p := NewProjector(nil, benchmarkTenants(), benchmarkGrowth, 0, 0, 132)

	for idx := range benchmarkTenants() {
		gross, freeRent, err := p.TenantRent(idx, 0)
		if err != nil {
			t.Fatalf("TenantRent() returned error: %v", err)
		}
		if gross != 0 || freeRent != 0 {
			t.Errorf("tenant %d period 0 = (%.2f, %.2f), expected zero", idx, gross, freeRent)
		}
	}
}

// Space B expires at month 50: months 51-56 are the buildout gap, months
// 57-66 carry market rent with an offsetting free-rent deduction, and month
// 67 onward pays market rent in full.
func TestTenantRolloverTimeline(t *testing.T) {
	p := NewProjector(nil, benchmarkTenants(), benchmarkGrowth, 0, 0, 132)
	const idx = 1

	tests := []struct {
		name         string
		period       int
		wantGross    bool
		wantFreeRent bool
	}{
		{name: "Last in-place month", period: 50, wantGross: true, wantFreeRent: false},
		{name: "First buildout month", period: 51, wantGross: false, wantFreeRent: false},
		{name: "Last buildout month", period: 56, wantGross: false, wantFreeRent: false},
		{name: "First free-rent month", period: 57, wantGross: true, wantFreeRent: true},
		{name: "Last free-rent month", period: 66, wantGross: true, wantFreeRent: true},
		{name: "First paying market month", period: 67, wantGross: true, wantFreeRent: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gross, freeRent, err := p.TenantRent(idx, tt.period)
			if err != nil {
				t.Fatalf("TenantRent() returned error: %v", err)
			}
			if tt.wantGross && gross <= 0 {
				t.Errorf("period %d gross = %.2f, expected positive", tt.period, gross)
			}
			if !tt.wantGross && gross != 0 {
				t.Errorf("period %d gross = %.2f, expected zero", tt.period, gross)
			}
			if tt.wantFreeRent {
				if math.Abs(freeRent+gross) > 1e-9 {
					t.Errorf("period %d free rent = %.2f, expected -gross %.2f", tt.period, freeRent, -gross)
				}
			} else if freeRent != 0 {
				t.Errorf("period %d free rent = %.2f, expected zero", tt.period, freeRent)
			}
		})
	}
}

// Space A has the rollover-cost flag off: market rent starts the month after
// expiry with no gap and no deduction.
func TestTenantRolloverWithoutCosts(t *testing.T) {
	p := NewProjector(nil, benchmarkTenants(), benchmarkGrowth, 0, 0, 132)

	gross, freeRent, err := p.TenantRent(0, 84)
	if err != nil {
		t.Fatalf("TenantRent() returned error: %v", err)
	}

	factor := math.Pow(1.0+0.025/12, 84)
	expected := 2300 * 300.0 * factor / 12 / 1000
	if math.Abs(gross-expected) > 0.01 {
		t.Errorf("month-84 market rent = %.2f, expected %.2f", gross, expected)
	}
	if freeRent != 0 {
		t.Errorf("free rent = %.2f, expected zero for no-cost rollover", freeRent)
	}
}

func TestTenantInPlaceFreeRentWindow(t *testing.T) {
	tenants := []Tenant{{
		Name:               "New lease",
		Area:               1000,
		InPlaceRent:        120,
		MarketRent:         150,
		LeaseEndMonth:      60,
		FreeRentStartMonth: 3,
		FreeRentMonths:     4,
	}}
	p := NewProjector(nil, tenants, benchmarkGrowth, 0, 0, 72)

	gross, freeRent, err := p.TenantRent(0, 4)
	if err != nil {
		t.Fatalf("TenantRent() returned error: %v", err)
	}
	if gross <= 0 || math.Abs(freeRent+gross) > 1e-9 {
		t.Errorf("in-place free rent window: got (%.2f, %.2f), expected gross with offsetting deduction", gross, freeRent)
	}

	// Outside the window the deduction is gone.
	_, freeRent, err = p.TenantRent(0, 7)
	if err != nil {
		t.Fatalf("TenantRent() returned error: %v", err)
	}
	if freeRent != 0 {
		t.Errorf("period 7 free rent = %.2f, expected zero", freeRent)
	}
}

func TestTenantRentBumpRateOverride(t *testing.T) {
	tenants := []Tenant{
		{Name: "Scenario rate", Area: 1000, InPlaceRent: 100, MarketRent: 100, LeaseEndMonth: 120},
		{Name: "Own bump rate", Area: 1000, InPlaceRent: 100, MarketRent: 100, LeaseEndMonth: 120, RentBumpRate: 0.05},
	}
	p := NewProjector(nil, tenants, benchmarkGrowth, 0, 0, 120)

	scenarioRent, _, err := p.TenantRent(0, 24)
	if err != nil {
		t.Fatalf("TenantRent() returned error: %v", err)
	}
	bumpedRent, _, err := p.TenantRent(1, 24)
	if err != nil {
		t.Fatalf("TenantRent() returned error: %v", err)
	}

	if bumpedRent <= scenarioRent {
		t.Errorf("5%% bump rent %.4f should exceed 2.5%% scenario rent %.4f", bumpedRent, scenarioRent)
	}
}

func TestProjectAncillaryIncome(t *testing.T) {
	p := NewProjector(nil, benchmarkTenants(), benchmarkGrowth, 12000, 3000, 132)

	rev, err := p.Project(1)
	if err != nil {
		t.Fatalf("Project() returned error: %v", err)
	}

	factor := 1.0 + 0.025/12
	if math.Abs(rev.ParkingIncome-12.0*factor) > 0.01 {
		t.Errorf("parking income = %.3f, expected %.3f", rev.ParkingIncome, 12.0*factor)
	}
	if math.Abs(rev.StorageIncome-3.0*factor) > 0.01 {
		t.Errorf("storage income = %.3f, expected %.3f", rev.StorageIncome, 3.0*factor)
	}

	// Period 0 carries no ancillary income.
	rev, err = p.Project(0)
	if err != nil {
		t.Fatalf("Project() returned error: %v", err)
	}
	if rev.ParkingIncome != 0 || rev.StorageIncome != 0 {
		t.Errorf("period 0 ancillary income = (%.2f, %.2f), expected zero", rev.ParkingIncome, rev.StorageIncome)
	}
}

func TestTotalArea(t *testing.T) {
	p := NewProjector(nil, benchmarkTenants(), benchmarkGrowth, 0, 0, 132)
	if got := p.TotalArea(); got != 10118 {
		t.Errorf("TotalArea() = %.0f, expected 10118", got)
	}
}
