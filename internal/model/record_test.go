package model

import (
	"strconv"
	"testing"
)

func sampleAnalysis() *Analysis {
	return &Analysis{
		Inputs: InvestmentInputs{PurchasePrice: 200000, MarketValue: 210000, LoanTermYears: 5, VacancyRate: 0.05},
		Metrics: DerivedMetrics{
			LoanPrincipal:        160000,
			CapRatePct:           7.11,
			FiftyPercentRulePass: true,
		},
		Expenses: ExpenseBreakdown{Gross: 795, Net: 615},
		Projection: []ProjectionPoint{
			{Year: 1, ProjectedPropertyValue: 214200, ProjectedCashFlow: 261.2},
			{Year: 2, ProjectedPropertyValue: 218484, ProjectedCashFlow: 281.7},
		},
	}
}

func TestRecords_OnePerMetricAndYear(t *testing.T) {
	recs := sampleAnalysis().Records()

	projection := 0
	for _, r := range recs {
		if r.Kind == KindProjection {
			projection++
		}
	}
	if projection != 4 {
		t.Errorf("expected 4 projection records (2 years x 2 series), got %d", projection)
	}
	want := 18 + 15 + 13 + 4
	if len(recs) != want {
		t.Errorf("expected %d records, got %d", want, len(recs))
	}
}

func TestAnalysisFromRecords_RoundTripsThroughFields(t *testing.T) {
	orig := sampleAnalysis()

	var recs []Record
	for _, r := range orig.Records() {
		parsed, err := ParseRecord(r.Field(), formatValue(r.Value))
		if err != nil {
			t.Fatalf("parse %s: %v", r.Field(), err)
		}
		recs = append(recs, parsed)
	}
	got := AnalysisFromRecords(recs)

	if got.Inputs != orig.Inputs {
		t.Errorf("inputs differ: %+v vs %+v", got.Inputs, orig.Inputs)
	}
	if got.Metrics != orig.Metrics {
		t.Errorf("metrics differ: %+v vs %+v", got.Metrics, orig.Metrics)
	}
	if got.Expenses != orig.Expenses {
		t.Errorf("expenses differ: %+v vs %+v", got.Expenses, orig.Expenses)
	}
	if len(got.Projection) != 2 || got.Projection[1] != orig.Projection[1] {
		t.Errorf("projection differs: %+v", got.Projection)
	}
}

func TestParseRecord_Malformed(t *testing.T) {
	bad := []struct{ field, value string }{
		{"metric:cap_rate_pct", "abc"},
		{"projection:x:cash_flow", "1"},
		{"nokind", "1"},
	}
	for _, b := range bad {
		if _, err := ParseRecord(b.field, b.value); err == nil {
			t.Errorf("%s=%s: expected error", b.field, b.value)
		}
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
