package calculator

import (
	"errors"
	"math"
	"testing"
)

func TestComputeMetrics_Scenario(t *testing.T) {
	in := philadelphiaRowhouse()
	payment, _ := MonthlyMortgagePayment(in.InterestRate, in.LoanTermYears, in.LoanPrincipal())
	exp := AggregateExpenses(in, MonthlyPropertyTax(in.TaxAssessedValue, DefaultPropertyTaxRate))

	m, err := ComputeMetrics(in, payment, exp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  float64
		want float64
		tol  float64
	}{
		{"loan principal", m.LoanPrincipal, 160000, 0},
		{"mortgage payment", m.MonthlyMortgagePayment, -763.86, 0.005},
		{"property tax", m.MonthlyPropertyTax, 147.00, 1e-9},
		{"cash invested", m.CashInvested, 50000, 0},
		{"total outflow", m.TotalMonthlyOutflow, 1558.86, 0.005},
		{"cash flow", m.MonthlyCashFlow, 241.14, 0.005},
		{"noi", m.NetOperatingIncome, 1185, 1e-9},
		{"cash on cash", m.CashOnCashReturnPct, 5.7873, 0.0001},
		{"cap rate", m.CapRatePct, 7.11, 1e-9},
		{"fifty percent margin", m.FiftyPercentRuleMargin, 136.14, 0.005},
		{"two percent", m.TwoPercentRulePct, 0.9, 1e-9},
	}
	for _, tt := range tests {
		if !almostEqual(tt.got, tt.want, tt.tol) {
			t.Errorf("%s: expected %.4f, got %.6f", tt.name, tt.want, tt.got)
		}
	}
	if !m.FiftyPercentRulePass {
		t.Error("expected 50% rule to pass")
	}
	if m.TwoPercentRulePass {
		t.Error("expected 2% rule to fail")
	}
}

func TestComputeMetrics_NoRounding(t *testing.T) {
	in := philadelphiaRowhouse()
	payment, _ := MonthlyMortgagePayment(in.InterestRate, in.LoanTermYears, in.LoanPrincipal())
	exp := AggregateExpenses(in, MonthlyPropertyTax(in.TaxAssessedValue, DefaultPropertyTaxRate))
	m, _ := ComputeMetrics(in, payment, exp)

	want := (in.MonthlyRent - (-payment + exp.Gross)) * 12 / 50000 * 100
	if m.CashOnCashReturnPct != want {
		t.Errorf("expected full precision %v, got %v", want, m.CashOnCashReturnPct)
	}
}

func TestComputeMetrics_TwoPercentRulePass(t *testing.T) {
	in := philadelphiaRowhouse()
	in.PurchasePrice = 80000
	in.DownPayment = 16000
	payment, _ := MonthlyMortgagePayment(in.InterestRate, in.LoanTermYears, in.LoanPrincipal())
	m, err := ComputeMetrics(in, payment, AggregateExpenses(in, 50))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.TwoPercentRulePass {
		t.Errorf("expected 2%% rule to pass at %.2f%%", m.TwoPercentRulePct)
	}
}

func TestComputeMetrics_ZeroCashInvested(t *testing.T) {
	in := philadelphiaRowhouse()
	in.ClosingCostRate = 0
	in.DownPayment = 0
	in.RehabCost = 0

	_, err := ComputeMetrics(in, -900, AggregateExpenses(in, 147))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	var ie *InputError
	if !errors.As(err, &ie) || ie.Field != "cash_invested" {
		t.Errorf("expected cash_invested field error, got %v", err)
	}
}

func TestComputeMetrics_ZeroMarketValue(t *testing.T) {
	in := philadelphiaRowhouse()
	in.MarketValue = 0

	m, err := ComputeMetrics(in, -763.86, AggregateExpenses(in, 147))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if math.IsNaN(m.CapRatePct) || math.IsInf(m.CapRatePct, 0) {
		t.Error("cap rate must not be NaN or Inf")
	}
}
