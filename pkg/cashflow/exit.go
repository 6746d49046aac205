package cashflow

import (
	"errors"
	"fmt"

	"github.com/mgleason/proforma/pkg/constants"
)

// ErrNonPositiveCapRate indicates an exit cap rate of zero or below, which
// would divide the forward NOI by zero or flip its sign.
var ErrNonPositiveCapRate = errors.New("exit cap rate must be positive")

// Valuation is the terminal sale computed at the exit period.
type Valuation struct {
	ExitPeriod     int
	ForwardNOI     float64 // 12-month forward NOI including the reserve add-back
	ReserveAddBack float64
	GrossValue     float64
	NetProceeds    float64
}

// ValueExit capitalizes the 12 months of NOI following the exit period into
// net sale proceeds. Capital reserves over the forward window are added back
// since the buyer underwrites its own reserves. rows must extend at least 12
// periods past exitPeriod.
func ValueExit(rows []MonthlyRow, exitPeriod int, capRate, salesCostRate float64) (Valuation, error) {
	if capRate <= 0 {
		return Valuation{}, fmt.Errorf("%w: have %.4f", ErrNonPositiveCapRate, capRate)
	}
	if exitPeriod+constants.ForwardBufferMonths >= len(rows) {
		return Valuation{}, fmt.Errorf("exit valuation needs %d forward periods past period %d, have %d rows",
			constants.ForwardBufferMonths, exitPeriod, len(rows))
	}

	val := Valuation{ExitPeriod: exitPeriod}
	for period := exitPeriod + 1; period <= exitPeriod+constants.ForwardBufferMonths; period++ {
		val.ForwardNOI += rows[period].NOI
		val.ReserveAddBack += rows[period].CapitalReserve
	}
	val.ForwardNOI += val.ReserveAddBack

	val.GrossValue = val.ForwardNOI / capRate
	val.NetProceeds = val.GrossValue * (1.0 - salesCostRate)
	return val, nil
}
