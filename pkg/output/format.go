// Package output provides utilities for formatting and displaying run results.
package output

import (
	"fmt"

	"github.com/mgleason/proforma/internal/engine"
	"github.com/mgleason/proforma/pkg/constants"
	"github.com/mgleason/proforma/pkg/datetime"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable report:
// the annual table, the returns summary, and the waterfall summary when one
// was configured.
func PrettyFormat(result *engine.Result) {
	p := message.NewPrinter(language.English)

	fmt.Printf("--- Results for scenario %s ---\n", result.Scenario)
	fmt.Printf("Year | Effective Revenue | Expenses      | NOI           | Debt Service  | Levered CF\n")
	fmt.Printf("____ | _________________ | _____________ | _____________ | _____________ | _____________\n")
	for _, year := range result.Annual {
		_, _ = p.Printf("%4d | $%15.2f | $%12.2f | $%12.2f | $%12.2f | $%12.2f\n",
			year.Year, year.EffectiveRevenue, year.TotalExpenses, year.NOI,
			year.DebtService, year.LeveredCashFlow)
	}

	fmt.Printf("\n--- Exit ---\n")
	_, _ = p.Printf("Forward NOI:   $%.2f\n", result.Statement.Exit.ForwardNOI)
	_, _ = p.Printf("Gross value:   $%.2f\n", result.Statement.Exit.GrossValue)
	_, _ = p.Printf("Net proceeds:  $%.2f\n", result.Statement.Exit.NetProceeds)

	fmt.Printf("\n--- Returns ---\n")
	_, _ = p.Printf("Total equity:       $%.2f\n", result.Returns.TotalEquity)
	_, _ = p.Printf("Unlevered IRR:      %.2f%%\n", result.Returns.UnleveredIRR*constants.PercentageMultiplier)
	_, _ = p.Printf("Levered IRR:        %.2f%%\n", result.Returns.LeveredIRR*constants.PercentageMultiplier)
	_, _ = p.Printf("Unlevered multiple: %.2fx\n", result.Returns.UnleveredMultiple)
	_, _ = p.Printf("Levered multiple:   %.2fx\n", result.Returns.LeveredMultiple)
	_, _ = p.Printf("Profit:             $%.2f\n", result.Returns.Profit)
	_, _ = p.Printf("Cash on cash:       %.2f%%\n", result.Returns.CashOnCash*constants.PercentageMultiplier)

	if result.Waterfall == nil {
		return
	}

	fmt.Printf("\n--- Waterfall ---\n")
	summary := result.Waterfall.Summary
	_, _ = p.Printf("LP: capital $%.2f, pref $%.2f, profit $%.2f, total $%.2f, IRR %.2f%%\n",
		summary.TotalLPCapitalReturn, summary.TotalLPPref, summary.TotalLPProfit,
		summary.TotalToLP, result.Returns.LPIRR*constants.PercentageMultiplier)
	_, _ = p.Printf("GP: capital $%.2f, pref $%.2f, profit $%.2f, promote $%.2f, total $%.2f, IRR %.2f%%\n",
		summary.TotalGPCapitalReturn, summary.TotalGPPref, summary.TotalGPProfit,
		summary.TotalGPPromote, summary.TotalToGP, result.Returns.GPIRR*constants.PercentageMultiplier)
	for _, balance := range result.Waterfall.UnpaidPref {
		_, _ = p.Printf("Unpaid pref at exit (%s): LP $%.2f, GP $%.2f\n",
			balance.Tier, balance.LPBalance, balance.GPBalance)
	}
}

// CsvFormat outputs the monthly table in comma-separated value format.
func CsvFormat(result *engine.Result) {
	fmt.Printf(`"date","potential revenue","effective revenue","total expenses","noi",` +
		`"capital costs","exit proceeds","unlevered cf","draws","interest","principal",` +
		`"debt service","loan balance","levered cf"`)
	fmt.Printf("\n")
	for _, row := range result.Statement.Rows {
		fmt.Printf(`"%s"`, row.Date.Format(datetime.DateTimeLayout))
		for _, value := range []float64{
			row.PotentialRevenue, row.EffectiveRevenue, row.TotalExpenses, row.NOI,
			row.CapitalCosts, row.ExitProceeds, row.UnleveredCashFlow, row.LoanDraws,
			row.Interest, row.Principal, row.DebtService, row.LoanBalance, row.LeveredCashFlow,
		} {
			fmt.Printf(`,"%.2f"`, value)
		}
		fmt.Printf("\n")
	}
}
