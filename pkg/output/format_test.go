package output

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mgleason/proforma/internal/engine"
	"github.com/mgleason/proforma/pkg/cashflow"
	"github.com/mgleason/proforma/pkg/waterfall"
)

func sampleResult() *engine.Result {
	start := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	rows := []cashflow.MonthlyRow{
		{Period: 0, Date: start, UnleveredCashFlow: -1020.0, LeveredCashFlow: -547.2, LoanBalance: 480.0},
		{Period: 1, Date: start.AddDate(0, 1, 0), EffectiveRevenue: 11.5, TotalExpenses: 1.5,
			NOI: 10.0, UnleveredCashFlow: 10.0, LeveredCashFlow: 7.9, Interest: 2.1,
			DebtService: 2.1, LoanBalance: 480.0},
	}
	statement := &cashflow.Statement{
		Rows: rows,
		Exit: cashflow.Valuation{ForwardNOI: 122.4, GrossValue: 2448.0, NetProceeds: 2399.04},
	}
	return &engine.Result{
		Scenario:  "Sample Acquisition",
		Statement: statement,
		Annual:    cashflow.Annualize(rows),
		Returns: engine.Summary{
			TotalEquity:  547.2,
			UnleveredIRR: 0.0857, LeveredIRR: 0.1009,
			UnleveredMultiple: 2.1, LeveredMultiple: 2.8,
			Profit: 1500.0, CashOnCash: 0.05,
			LPIRR: 0.0939, GPIRR: 0.1502,
		},
		Waterfall: &waterfall.Result{
			Summary: waterfall.Summary{
				TotalToLP: 1800.0, TotalToGP: 300.0,
				TotalLPCapitalReturn: 492.48, TotalGPCapitalReturn: 54.72,
				TotalGPPromote: 120.0,
			},
			UnpaidPref: []waterfall.TierBalance{{Tier: "Hurdle II", LPBalance: 12.5, GPBalance: 1.4}},
		},
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestPrettyFormat(t *testing.T) {
	got := captureStdout(t, func() { PrettyFormat(sampleResult()) })

	for _, want := range []string{
		"--- Results for scenario Sample Acquisition ---",
		"Year | Effective Revenue",
		"Net proceeds:  $2,399.04",
		"Unlevered IRR:      8.57%",
		"Levered IRR:        10.09%",
		"--- Waterfall ---",
		"IRR 9.39%",
		"Unpaid pref at exit (Hurdle II): LP $12.50, GP $1.40",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("PrettyFormat output missing %q", want)
		}
	}
}

func TestPrettyFormatWithoutWaterfall(t *testing.T) {
	result := sampleResult()
	result.Waterfall = nil

	got := captureStdout(t, func() { PrettyFormat(result) })
	if strings.Contains(got, "--- Waterfall ---") {
		t.Error("PrettyFormat printed a waterfall section with none configured")
	}
}

func TestCsvFormat(t *testing.T) {
	got := captureStdout(t, func() { CsvFormat(sampleResult()) })

	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], `"date","potential revenue"`) {
		t.Errorf("CsvFormat header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], `"2026-03-31"`) {
		t.Errorf("CsvFormat first row = %q", lines[1])
	}
	if !strings.Contains(lines[2], `"10.00"`) {
		t.Errorf("CsvFormat NOI column missing: %q", lines[2])
	}
}
