package calculator

import "PropertyAssessor/internal/model"

// Rule thresholds.
const (
	FiftyPercentRuleShare   = 0.5
	TwoPercentRuleThreshold = 2.0
)

// CashInvested is the out-of-pocket cost: closing costs, down payment and rehab.
func CashInvested(in model.InvestmentInputs) float64 {
	return in.PurchasePrice*in.ClosingCostRate + in.DownPayment + in.RehabCost
}

// ComputeMetrics derives the headline figures from the inputs, the (negative) monthly
// mortgage payment and the aggregated expenses.
func ComputeMetrics(in model.InvestmentInputs, monthlyMortgagePayment float64, exp model.ExpenseBreakdown) (model.DerivedMetrics, error) {
	cashInvested := CashInvested(in)
	if cashInvested == 0 {
		return model.DerivedMetrics{}, invalid("cash_invested", "is zero")
	}
	if in.MarketValue == 0 {
		return model.DerivedMetrics{}, invalid("market_value", "is zero")
	}
	if in.PurchasePrice == 0 {
		return model.DerivedMetrics{}, invalid("purchase_price", "is zero")
	}

	m := model.DerivedMetrics{
		LoanPrincipal:          in.LoanPrincipal(),
		MonthlyMortgagePayment: monthlyMortgagePayment,
		MonthlyPropertyTax:     exp.PropertyTax,
		GrossOperatingExpenses: exp.Gross,
		NetOperatingExpenses:   exp.Net,
		CashInvested:           cashInvested,
	}

	m.TotalMonthlyOutflow = -monthlyMortgagePayment + exp.Gross
	m.MonthlyCashFlow = in.MonthlyRent - m.TotalMonthlyOutflow
	m.NetOperatingIncome = in.MonthlyRent - exp.Net

	m.CashOnCashReturnPct = m.MonthlyCashFlow * 12 / cashInvested * 100
	m.CapRatePct = m.NetOperatingIncome * 12 / in.MarketValue * 100

	// payment is already negative
	m.FiftyPercentRuleMargin = in.MonthlyRent*FiftyPercentRuleShare + monthlyMortgagePayment
	m.FiftyPercentRulePass = m.FiftyPercentRuleMargin > 0

	m.TwoPercentRulePct = in.MonthlyRent / in.PurchasePrice * 100
	m.TwoPercentRulePass = m.TwoPercentRulePct > TwoPercentRuleThreshold

	return m, nil
}
