package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Record kinds.
const (
	KindInput      = "input"
	KindMetric     = "metric"
	KindExpense    = "expense"
	KindProjection = "projection"
)

// Projection series keys.
const (
	SeriesPropertyValue = "property_value"
	SeriesCashFlow      = "cash_flow"
)

// Record is one flat key/value entry of an analysis: one per metric, one per projection year and series.
type Record struct {
	Kind  string  `json:"kind"`
	Key   string  `json:"key"`
	Year  int     `json:"year,omitempty"`
	Value float64 `json:"value"`
}

// Field renders the record key as "kind:key" or "projection:year:key".
func (r Record) Field() string {
	if r.Kind == KindProjection {
		return fmt.Sprintf("%s:%d:%s", r.Kind, r.Year, r.Key)
	}
	return r.Kind + ":" + r.Key
}

// ParseRecord is the inverse of Record.Field.
func ParseRecord(field, value string) (Record, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return Record{}, fmt.Errorf("record %s: %w", field, err)
	}
	parts := strings.Split(field, ":")
	switch {
	case len(parts) == 3 && parts[0] == KindProjection:
		year, err := strconv.Atoi(parts[1])
		if err != nil {
			return Record{}, fmt.Errorf("record %s: bad year: %w", field, err)
		}
		return Record{Kind: KindProjection, Year: year, Key: parts[2], Value: v}, nil
	case len(parts) == 2:
		return Record{Kind: parts[0], Key: parts[1], Value: v}, nil
	default:
		return Record{}, fmt.Errorf("record %s: malformed field", field)
	}
}

type floatField struct {
	key string
	ptr *float64
}

type boolField struct {
	key string
	ptr *bool
}

func inputFields(in *InvestmentInputs) []floatField {
	return []floatField{
		{"purchase_price", &in.PurchasePrice},
		{"market_value", &in.MarketValue},
		{"rehab_cost", &in.RehabCost},
		{"annual_appreciation_rate", &in.AnnualAppreciationRate},
		{"closing_cost_rate", &in.ClosingCostRate},
		{"down_payment", &in.DownPayment},
		{"interest_rate", &in.InterestRate},
		{"monthly_rent", &in.MonthlyRent},
		{"tax_assessed_value", &in.TaxAssessedValue},
		{"monthly_insurance", &in.MonthlyInsurance},
		{"monthly_gas_electric", &in.MonthlyGasElectric},
		{"monthly_water_sewer_garbage", &in.MonthlyWaterSewerGarbage},
		{"monthly_hoa", &in.MonthlyHOA},
		{"maintenance_rate", &in.MaintenanceRate},
		{"capex_rate", &in.CapexRate},
		{"vacancy_rate", &in.VacancyRate},
		{"management_rate", &in.ManagementRate},
	}
}

func metricFields(m *DerivedMetrics) []floatField {
	return []floatField{
		{"loan_principal", &m.LoanPrincipal},
		{"monthly_mortgage_payment", &m.MonthlyMortgagePayment},
		{"monthly_property_tax", &m.MonthlyPropertyTax},
		{"gross_operating_expenses", &m.GrossOperatingExpenses},
		{"net_operating_expenses", &m.NetOperatingExpenses},
		{"total_monthly_outflow", &m.TotalMonthlyOutflow},
		{"monthly_cash_flow", &m.MonthlyCashFlow},
		{"net_operating_income", &m.NetOperatingIncome},
		{"cash_invested", &m.CashInvested},
		{"cash_on_cash_return_pct", &m.CashOnCashReturnPct},
		{"cap_rate_pct", &m.CapRatePct},
		{"fifty_percent_rule_margin", &m.FiftyPercentRuleMargin},
		{"two_percent_rule_pct", &m.TwoPercentRulePct},
	}
}

func metricFlags(m *DerivedMetrics) []boolField {
	return []boolField{
		{"fifty_percent_rule_pass", &m.FiftyPercentRulePass},
		{"two_percent_rule_pass", &m.TwoPercentRulePass},
	}
}

func expenseFields(e *ExpenseBreakdown) []floatField {
	return []floatField{
		{"property_tax", &e.PropertyTax},
		{"insurance", &e.Insurance},
		{"gas_electric", &e.GasElectric},
		{"water_sewer_garbage", &e.WaterSewerGarbage},
		{"hoa", &e.HOA},
		{"vacancy", &e.Vacancy},
		{"maintenance", &e.Maintenance},
		{"management", &e.Management},
		{"capex", &e.Capex},
		{"fixed", &e.Fixed},
		{"rent_proportional", &e.RentProportional},
		{"gross", &e.Gross},
		{"net", &e.Net},
	}
}

// Records flattens the analysis into key/value records.
func (a *Analysis) Records() []Record {
	recs := make([]Record, 0, 48+2*len(a.Projection))
	for _, f := range inputFields(&a.Inputs) {
		recs = append(recs, Record{Kind: KindInput, Key: f.key, Value: *f.ptr})
	}
	recs = append(recs, Record{Kind: KindInput, Key: "loan_term_years", Value: float64(a.Inputs.LoanTermYears)})

	for _, f := range metricFields(&a.Metrics) {
		recs = append(recs, Record{Kind: KindMetric, Key: f.key, Value: *f.ptr})
	}
	for _, f := range metricFlags(&a.Metrics) {
		v := 0.0
		if *f.ptr {
			v = 1
		}
		recs = append(recs, Record{Kind: KindMetric, Key: f.key, Value: v})
	}
	for _, f := range expenseFields(&a.Expenses) {
		recs = append(recs, Record{Kind: KindExpense, Key: f.key, Value: *f.ptr})
	}
	for _, p := range a.Projection {
		recs = append(recs,
			Record{Kind: KindProjection, Key: SeriesPropertyValue, Year: p.Year, Value: p.ProjectedPropertyValue},
			Record{Kind: KindProjection, Key: SeriesCashFlow, Year: p.Year, Value: p.ProjectedCashFlow},
		)
	}
	return recs
}

// AnalysisFromRecords rebuilds an analysis from its records. Unknown keys are ignored.
func AnalysisFromRecords(recs []Record) *Analysis {
	a := &Analysis{}

	floats := make(map[string]*float64)
	for _, f := range inputFields(&a.Inputs) {
		floats[KindInput+":"+f.key] = f.ptr
	}
	for _, f := range metricFields(&a.Metrics) {
		floats[KindMetric+":"+f.key] = f.ptr
	}
	for _, f := range expenseFields(&a.Expenses) {
		floats[KindExpense+":"+f.key] = f.ptr
	}
	flags := make(map[string]*bool)
	for _, f := range metricFlags(&a.Metrics) {
		flags[KindMetric+":"+f.key] = f.ptr
	}

	years := make(map[int]*ProjectionPoint)
	maxYear := 0
	for _, r := range recs {
		if r.Kind == KindProjection {
			p, ok := years[r.Year]
			if !ok {
				p = &ProjectionPoint{Year: r.Year}
				years[r.Year] = p
			}
			switch r.Key {
			case SeriesPropertyValue:
				p.ProjectedPropertyValue = r.Value
			case SeriesCashFlow:
				p.ProjectedCashFlow = r.Value
			}
			maxYear = max(maxYear, r.Year)
			continue
		}

		key := r.Kind + ":" + r.Key
		if ptr, ok := floats[key]; ok {
			*ptr = r.Value
		} else if ptr, ok := flags[key]; ok {
			*ptr = r.Value != 0
		} else if key == KindInput+":loan_term_years" {
			a.Inputs.LoanTermYears = int(r.Value)
		}
	}

	for y := 1; y <= maxYear; y++ {
		if p, ok := years[y]; ok {
			a.Projection = append(a.Projection, *p)
		}
	}
	return a
}
