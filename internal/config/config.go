// Package config defines the scenario configuration structures and the
// loading and validation of YAML scenario files.
package config

import (
	"fmt"

	"github.com/mgleason/proforma/pkg/constants"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected in scenario files and is also the
// output date format.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds everything needed for one proforma run.
type Configuration struct {
	Scenario Scenario
	Logging  LoggingConfig `yaml:"logging,omitempty"`
	Output   OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Scenario is one acquisition underwriting: the property, its rent roll,
// the capital stack, and the distribution structure. Monetary amounts are
// in thousands except per-area rates, which are whole currency per year.
type Scenario struct {
	Name            string
	AcquisitionDate string
	HoldMonths      int
	BuildingArea    float64
	PurchasePrice   float64
	ClosingCosts    float64

	Parameters Parameters
	Tenants    []Tenant
	Loans      []Loan
	RateCurve  []CurvePoint `yaml:"rateCurve,omitempty"`
	Waterfall  Waterfall    `yaml:"waterfall,omitempty"`
}

// Parameters holds the scenario-level operating and exit assumptions.
type Parameters struct {
	VacancyRate        float64
	CollectionLossRate float64

	RentGrowthRate              float64
	PostStabilizationGrowthRate float64
	StabilizationMonth          int
	ExpenseGrowthRate           float64

	FixedExpensePerArea    float64
	VariableExpensePerArea float64
	ManagementFeeRate      float64
	ParkingExpenseRate     float64
	PropertyTaxAnnual      float64
	PropertyTaxGrowthRate  float64
	TaxStartMonth          int
	CapitalReservePerArea  float64

	ParkingIncomeMonthly float64
	StorageIncomeMonthly float64

	ExitCapRate   float64
	SalesCostRate float64

	// The workbook's circular-reference toggle, scoped to this run. The
	// zero value keeps the derived formulas (management fee, property tax,
	// interest accrual) active.
	DisableDerivedFormulas bool
	DisableInterestAccrual bool

	CapitalizeInterest bool
}

// Tenant is one space on the rent roll.
type Tenant struct {
	Name               string
	Area               float64
	InPlaceRent        float64
	MarketRent         float64
	LeaseEndMonth      int
	ApplyRolloverCosts bool
	FreeRentMonths     int
	FreeRentStartMonth int
	BuildoutMonths     int
	RentBumpRate       float64
	LCRateYears1To5    float64
	LCRateYears6Plus   float64
	NewLeaseTermYears  int
	TIAllowance        float64
}

// Loan is one debt tranche.
type Loan struct {
	Name               string
	Principal          float64
	RateMode           string `yaml:"rateMode,omitempty"` // fixed (default) or floating
	FixedRate          float64
	Spread             float64
	InterestOnlyMonths int
	AmortizationMonths int
	OriginationFeeRate float64
	ClosingCostRate    float64
	Draws              map[int]float64 `yaml:"draws,omitempty"`
}

// CurvePoint is one observation on the floating-rate index curve.
type CurvePoint struct {
	Date string
	Rate float64
}

// Waterfall configures the LP/GP distribution structure. When no tiers are
// configured the run reports property-level returns only.
type Waterfall struct {
	LPShare           float64
	GPShare           float64
	SimpleMonthlyRate bool
	Tiers             []Tier
	FinalSplit        Tier
}

// Tier is one hurdle or the final split.
type Tier struct {
	Name      string
	PrefRate  float64
	LPSplit   float64
	GPSplit   float64
	GPPromote float64
}

// Enabled reports whether a distribution structure was configured.
func (w Waterfall) Enabled() bool {
	return len(w.Tiers) > 0
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}
