package calculator

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"PropertyAssessor/internal/model"
)

func TestAnalyze_Scenario(t *testing.T) {
	a, err := Analyze(philadelphiaRowhouse())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Metrics.LoanPrincipal != 160000 {
		t.Errorf("expected principal 160000, got %.2f", a.Metrics.LoanPrincipal)
	}
	if !almostEqual(a.Metrics.MonthlyMortgagePayment, -763.86, 0.005) {
		t.Errorf("expected payment -763.86, got %.4f", a.Metrics.MonthlyMortgagePayment)
	}
	if !almostEqual(a.Metrics.MonthlyPropertyTax, 147, 1e-9) {
		t.Errorf("expected tax 147, got %.4f", a.Metrics.MonthlyPropertyTax)
	}
	if a.Metrics.CashInvested != 50000 {
		t.Errorf("expected cash invested 50000, got %.2f", a.Metrics.CashInvested)
	}
	if len(a.Projection) != 30 {
		t.Errorf("expected 30 projection points, got %d", len(a.Projection))
	}
}

func TestAnalyze_ShortTerms(t *testing.T) {
	for _, term := range []int{15, 5} {
		in := philadelphiaRowhouse()
		in.LoanTermYears = term
		a, err := Analyze(in)
		if err != nil {
			t.Fatalf("term %d: unexpected error: %v", term, err)
		}
		if len(a.Projection) != term {
			t.Errorf("term %d: expected %d points, got %d", term, term, len(a.Projection))
		}
		if a.Metrics.MonthlyMortgagePayment >= 0 {
			t.Errorf("term %d: expected outflow, got %.2f", term, a.Metrics.MonthlyMortgagePayment)
		}
	}
}

func TestAnalyze_CustomTaxRate(t *testing.T) {
	a, err := AnalyzeWithTaxRate(philadelphiaRowhouse(), 0.012)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(a.Metrics.MonthlyPropertyTax, 180, 1e-9) {
		t.Errorf("expected tax 180, got %.4f", a.Metrics.MonthlyPropertyTax)
	}
}

func TestAnalyze_InvalidInputs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.InvestmentInputs)
		field  string
	}{
		{"zero price", func(in *model.InvestmentInputs) { in.PurchasePrice = 0 }, "purchase_price"},
		{"zero market value", func(in *model.InvestmentInputs) { in.MarketValue = 0 }, "market_value"},
		{"down exceeds price", func(in *model.InvestmentInputs) { in.DownPayment = 250000 }, "down_payment"},
		{"negative rent", func(in *model.InvestmentInputs) { in.MonthlyRent = -1 }, "monthly_rent"},
		{"negative vacancy", func(in *model.InvestmentInputs) { in.VacancyRate = -0.05 }, "vacancy_rate"},
		{"unsupported term", func(in *model.InvestmentInputs) { in.LoanTermYears = 20 }, "loan_term_years"},
		{"zero term", func(in *model.InvestmentInputs) { in.LoanTermYears = 0 }, "loan_term_years"},
		{"zero cash invested", func(in *model.InvestmentInputs) {
			in.ClosingCostRate = 0
			in.DownPayment = 0
		}, "cash_invested"},
	}
	for _, tt := range tests {
		in := philadelphiaRowhouse()
		tt.mutate(&in)
		_, err := Analyze(in)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", tt.name, err)
			continue
		}
		var ie *InputError
		if errors.As(err, &ie) && ie.Field != tt.field {
			t.Errorf("%s: expected field %q, got %q", tt.name, tt.field, ie.Field)
		}
	}
}

func TestAnalyze_ParallelCallsAgree(t *testing.T) {
	want, _ := Analyze(philadelphiaRowhouse())

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Analyze(philadelphiaRowhouse())
			if err != nil || got.Metrics != want.Metrics {
				errs <- "parallel analysis diverged"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestAnalyze_TinyInterestRate(t *testing.T) {
	in := philadelphiaRowhouse()
	in.InterestRate = 1e-17
	a, err := Analyze(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !finite(a.Metrics.MonthlyMortgagePayment) || !finite(a.Metrics.CashOnCashReturnPct) {
		t.Errorf("expected finite metrics, got %+v", a.Metrics)
	}
	if _, err := json.Marshal(a); err != nil {
		t.Errorf("analysis should encode: %v", err)
	}
}

func TestAnalyze_ProjectionOverflowRejected(t *testing.T) {
	in := philadelphiaRowhouse()
	in.AnnualAppreciationRate = 1e20
	if _, err := Analyze(in); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for overflowing projection, got %v", err)
	}
}
