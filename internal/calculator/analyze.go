package calculator

import (
	"fmt"
	"math"
	"slices"

	"PropertyAssessor/internal/model"
)

// LoanTerms lists the supported loan terms in years (30 year fixed, 15 year fixed, 5/1 ARM).
var LoanTerms = []int{30, 15, 5}

// Validate checks the boundary invariants of a resolved input snapshot.
func Validate(in model.InvestmentInputs) error {
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"rehab_cost", in.RehabCost},
		{"down_payment", in.DownPayment},
		{"monthly_rent", in.MonthlyRent},
		{"tax_assessed_value", in.TaxAssessedValue},
		{"monthly_insurance", in.MonthlyInsurance},
		{"monthly_gas_electric", in.MonthlyGasElectric},
		{"monthly_water_sewer_garbage", in.MonthlyWaterSewerGarbage},
		{"monthly_hoa", in.MonthlyHOA},
		{"closing_cost_rate", in.ClosingCostRate},
		{"interest_rate", in.InterestRate},
		{"maintenance_rate", in.MaintenanceRate},
		{"capex_rate", in.CapexRate},
		{"vacancy_rate", in.VacancyRate},
		{"management_rate", in.ManagementRate},
	}

	if !finite(in.PurchasePrice) || in.PurchasePrice <= 0 {
		return invalid("purchase_price", "must be positive")
	}
	if !finite(in.MarketValue) || in.MarketValue <= 0 {
		return invalid("market_value", "must be positive")
	}
	if !finite(in.AnnualAppreciationRate) || in.AnnualAppreciationRate <= -1 {
		return invalid("annual_appreciation_rate", "must be greater than -1")
	}
	for _, m := range nonNegative {
		if !finite(m.value) || m.value < 0 {
			return invalid(m.name, "must not be negative")
		}
	}
	if in.DownPayment > in.PurchasePrice {
		return invalid("down_payment", "exceeds purchase price")
	}
	if !slices.Contains(LoanTerms, in.LoanTermYears) {
		return invalid("loan_term_years", "must be one of 5, 15, 30")
	}
	return nil
}

// Analyze runs the full calculator with the default property tax rate.
func Analyze(in model.InvestmentInputs) (*model.Analysis, error) {
	return AnalyzeWithTaxRate(in, DefaultPropertyTaxRate)
}

// AnalyzeWithTaxRate runs amortization, expense aggregation, metrics and projection in order.
func AnalyzeWithTaxRate(in model.InvestmentInputs, propertyTaxRate float64) (*model.Analysis, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	if propertyTaxRate < 0 {
		return nil, invalid("property_tax_rate", "must not be negative")
	}

	principal := in.LoanPrincipal()
	if principal < 0 {
		return nil, invalid("loan_principal", "is negative")
	}
	payment, err := MonthlyMortgagePayment(in.InterestRate, in.LoanTermYears, principal)
	if err != nil {
		return nil, err
	}

	exp := AggregateExpenses(in, MonthlyPropertyTax(in.TaxAssessedValue, propertyTaxRate))

	metrics, err := ComputeMetrics(in, payment, exp)
	if err != nil {
		return nil, err
	}

	proj, err := NewProjection(in, payment, exp.Gross)
	if err != nil {
		return nil, err
	}

	a := &model.Analysis{
		Inputs:     in,
		Metrics:    metrics,
		Expenses:   exp,
		Projection: proj.Points(),
	}
	if err := checkFinite(a); err != nil {
		return nil, err
	}
	return a, nil
}

// checkFinite rejects results that overflowed or divided by zero.
func checkFinite(a *model.Analysis) error {
	m := a.Metrics
	for _, v := range []float64{
		m.MonthlyMortgagePayment, m.MonthlyPropertyTax, m.GrossOperatingExpenses, m.TotalMonthlyOutflow,
		m.MonthlyCashFlow, m.NetOperatingIncome, m.CashOnCashReturnPct, m.CapRatePct,
		m.FiftyPercentRuleMargin, m.TwoPercentRulePct,
	} {
		if !finite(v) {
			return invalid("inputs", "produce a non-finite metric")
		}
	}
	for _, p := range a.Projection {
		if !finite(p.ProjectedPropertyValue) || !finite(p.ProjectedCashFlow) {
			return invalid("annual_appreciation_rate", fmt.Sprintf("overflows the projection in year %d", p.Year))
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
