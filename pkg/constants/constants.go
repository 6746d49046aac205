// Package constants provides shared constants for the proforma engine.
package constants

// DateTimeLayout is the calendar-date format used in scenario files and in
// all formatted output.
const DateTimeLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DaysPerYear is the day-count denominator for actual/365 interest accrual
	DaysPerYear = 365.0

	// ForwardBufferMonths is how many periods beyond the hold are projected
	// solely to feed the forward-NOI exit valuation
	ForwardBufferMonths = 12

	// CurrencyTolerance is the tolerance for currency comparisons
	CurrencyTolerance = 0.01

	// CurrencyScale converts per-area amounts quoted in whole currency units
	// into the thousands unit used for every reported line item
	CurrencyScale = 1000.0

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Root-finder constants
const (
	// IRRMaxIterations caps the Newton-Raphson loop
	IRRMaxIterations = 100

	// IRRTolerance is the convergence threshold on the rate update
	IRRTolerance = 1e-7

	// IRRDefaultGuess is the starting rate when the caller supplies none
	IRRDefaultGuess = 0.10

	// IRRBracketLow and IRRBracketHigh bound the bisection fallback
	IRRBracketLow  = -0.99
	IRRBracketHigh = 10.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default scenario file name
	DefaultConfigFile = "scenario.yaml"

	// ExampleConfigFile is the example scenario file name
	ExampleConfigFile = "scenario.yaml.example"
)
