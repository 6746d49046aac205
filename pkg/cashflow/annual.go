package cashflow

import "time"

// AnnualRow aggregates twelve monthly rows for reporting. Year 0 is the
// acquisition period alone; year k covers periods 12(k-1)+1 through 12k,
// with the final year possibly partial.
type AnnualRow struct {
	Year      int
	StartDate time.Time
	EndDate   time.Time

	PotentialRevenue  float64
	EffectiveRevenue  float64
	TotalExpenses     float64
	NOI               float64
	CapitalCosts      float64
	DebtService       float64
	UnleveredCashFlow float64
	LeveredCashFlow   float64

	EndingLoanBalance float64
}

// Annualize rolls the monthly table up into hold-relative years.
func Annualize(rows []MonthlyRow) []AnnualRow {
	if len(rows) == 0 {
		return nil
	}

	annual := []AnnualRow{{
		Year:              0,
		StartDate:         rows[0].Date,
		EndDate:           rows[0].Date,
		CapitalCosts:      rows[0].CapitalCosts,
		DebtService:       rows[0].DebtService,
		UnleveredCashFlow: rows[0].UnleveredCashFlow,
		LeveredCashFlow:   rows[0].LeveredCashFlow,
		EndingLoanBalance: rows[0].LoanBalance,
	}}

	for _, row := range rows[1:] {
		year := (row.Period + 11) / 12
		if year >= len(annual) {
			annual = append(annual, AnnualRow{Year: year, StartDate: row.Date})
		}

		current := &annual[len(annual)-1]
		current.EndDate = row.Date
		current.PotentialRevenue += row.PotentialRevenue
		current.EffectiveRevenue += row.EffectiveRevenue
		current.TotalExpenses += row.TotalExpenses
		current.NOI += row.NOI
		current.CapitalCosts += row.CapitalCosts
		current.DebtService += row.DebtService
		current.UnleveredCashFlow += row.UnleveredCashFlow
		current.LeveredCashFlow += row.LeveredCashFlow
		current.EndingLoanBalance = row.LoanBalance
	}

	return annual
}
