package api

import (
	"PropertyAssessor/internal/model"

	"github.com/shopspring/decimal"
)

// Summary carries the headline figures rounded for display. The raw metrics stay unrounded.
type Summary struct {
	MonthlyCashFlow     decimal.Decimal `json:"monthly_cash_flow"`
	MonthlyMortgage     decimal.Decimal `json:"monthly_mortgage"`
	CashInvested        decimal.Decimal `json:"cash_invested"`
	NetOperatingIncome  decimal.Decimal `json:"net_operating_income"`
	CashOnCashReturnPct decimal.Decimal `json:"cash_on_cash_return_pct"`
	CapRatePct          decimal.Decimal `json:"cap_rate_pct"`
	TwoPercentRulePct   decimal.Decimal `json:"two_percent_rule_pct"`
	FiftyPercentRule    bool            `json:"fifty_percent_rule"`
	TwoPercentRule      bool            `json:"two_percent_rule"`
}

type analysisResponse struct {
	*model.Analysis
	Summary Summary `json:"summary"`
}

func round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func summarize(m model.DerivedMetrics) Summary {
	return Summary{
		MonthlyCashFlow:     round2(m.MonthlyCashFlow),
		MonthlyMortgage:     round2(m.MonthlyMortgagePayment).Neg(),
		CashInvested:        round2(m.CashInvested),
		NetOperatingIncome:  round2(m.NetOperatingIncome),
		CashOnCashReturnPct: round2(m.CashOnCashReturnPct),
		CapRatePct:          round2(m.CapRatePct),
		TwoPercentRulePct:   round2(m.TwoPercentRulePct),
		FiftyPercentRule:    m.FiftyPercentRulePass,
		TwoPercentRule:      m.TwoPercentRulePass,
	}
}

func newAnalysisResponse(a *model.Analysis) analysisResponse {
	return analysisResponse{Analysis: a, Summary: summarize(a.Metrics)}
}
