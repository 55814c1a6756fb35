package assessor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"PropertyAssessor/internal/cache"
	"PropertyAssessor/internal/calculator"
	"PropertyAssessor/internal/listing"
	"PropertyAssessor/internal/model"
	"PropertyAssessor/internal/store"
)

func screenListings() []model.Listing {
	return []model.Listing{
		{ZPID: 1, City: "Philadelphia", Price: 50000, Zestimate: 50000, RentZestimate: 1500},
		{ZPID: 2, City: "Philadelphia", Price: 60000, Zestimate: 60000, RentZestimate: 1500},
		{ZPID: 3, City: "Philadelphia", Price: 200000, Zestimate: 200000, RentZestimate: 1000},
		{ZPID: 4, City: "Philadelphia", Price: 80000, Zestimate: 80000, RentZestimate: -5},
	}
}

func TestService_Analyze(t *testing.T) {
	st := newMemStore(screenListings()...)
	svc := NewService(st, st, cache.NewMemoryCache(0, 0), nil, model.DefaultAssumptions())

	a, err := svc.Analyze(context.Background(), 1, Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ZPID != 1 || a.ID == "" {
		t.Errorf("expected zpid and id to be set, got %q / %d", a.ID, a.ZPID)
	}
	if len(a.Projection) != 30 {
		t.Errorf("expected 30 projection years, got %d", len(a.Projection))
	}
	if st.recorded() != 1 {
		t.Errorf("expected analysis to be recorded, got %d", st.recorded())
	}

	loaded, err := svc.LoadAnalysis(context.Background(), a.ID)
	if err != nil || loaded.ZPID != 1 {
		t.Errorf("expected recorded analysis, got %v / %v", loaded, err)
	}
}

func TestService_AnalyzeErrors(t *testing.T) {
	st := newMemStore(screenListings()...)
	svc := NewService(st, nil, nil, nil, model.DefaultAssumptions())

	if _, err := svc.Analyze(context.Background(), 999, Overrides{}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Analyze(context.Background(), 4, Overrides{}); !errors.Is(err, calculator.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for negative rent, got %v", err)
	}
	if _, err := svc.Analyze(context.Background(), 1, Overrides{LoanTermYears: ptr(20)}); !errors.Is(err, calculator.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for 20 year term, got %v", err)
	}
}

func TestService_AnalyzeInputsUsesCache(t *testing.T) {
	c := cache.NewMemoryCache(0, 0)
	svc := NewService(newMemStore(), nil, c, nil, model.DefaultAssumptions())
	in := ResolveInputs(&screenListings()[0], svc.Assumptions, Overrides{})

	first, err := svc.AnalyzeInputs(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.AnalyzeInputs(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("expected one cached analysis, got %d", c.Len())
	}
	if first.ID == second.ID {
		t.Error("expected each analysis to get its own id")
	}
	if first.Metrics != second.Metrics {
		t.Errorf("cached metrics differ:\n%+v\n%+v", first.Metrics, second.Metrics)
	}
}

func TestService_PropertyTaxRateAssumption(t *testing.T) {
	a := model.DefaultAssumptions()
	a.PropertyTaxRate = 0.012
	svc := NewService(newMemStore(), nil, nil, nil, a)
	in := ResolveInputs(&model.Listing{Price: 120000, Zestimate: 120000}, a, Overrides{})

	got, err := svc.AnalyzeInputs(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got.Metrics.MonthlyPropertyTax, 120) {
		t.Errorf("expected monthly tax 120, got %.4f", got.Metrics.MonthlyPropertyTax)
	}
}

func TestService_Screen(t *testing.T) {
	st := newMemStore(screenListings()...)
	svc := NewService(st, nil, nil, nil, model.DefaultAssumptions())
	svc.Workers = 3

	report, err := svc.Screen(context.Background(), store.Filter{}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Analyzed != 3 || report.Failed != 1 {
		t.Errorf("expected 3 analyzed / 1 failed, got %+v", report)
	}
	if report.Passing != 2 || len(report.Results) != 2 {
		t.Fatalf("expected 2 passing listings, got %d", len(report.Results))
	}
	if report.Results[0].Listing.ZPID != 1 || report.Results[1].Listing.ZPID != 2 {
		t.Errorf("expected ranking by cash on cash return, got %d then %d",
			report.Results[0].Listing.ZPID, report.Results[1].Listing.ZPID)
	}
	for _, r := range report.Results {
		if !r.Passes || !r.Metrics.FiftyPercentRulePass || !r.Metrics.TwoPercentRulePass {
			t.Errorf("listing %d should pass both rules: %+v", r.Listing.ZPID, r.Metrics)
		}
	}

	top, err := svc.Screen(context.Background(), store.Filter{}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top.Results) != 1 || top.Passing != 2 {
		t.Errorf("expected top 1 of 2 passing, got %d of %d", len(top.Results), top.Passing)
	}
}

func TestService_ScreenCancelled(t *testing.T) {
	svc := NewService(newMemStore(screenListings()...), nil, nil, nil, model.DefaultAssumptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Screen(ctx, store.Filter{}, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

const importCSV = `url,price,zestimate,rentZestimate,address/city,address/state,address/streetAddress,address/zipcode,homeType
https://www.zillow.com/homedetails/a/101_zpid/,90000,95000,1300,Philadelphia,PA,1 A St,19134,TOWNHOUSE
https://www.zillow.com/homedetails/b/102_zpid/,110000,0,1200,Philadelphia,PA,2 B St,19134,TOWNHOUSE
https://www.zillow.com/b/no-id/,100000,0,0,Philadelphia,PA,3 C St,19134,CONDO
`

func TestService_ImportIntoSQLite(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "listings.csv")
	if err := os.WriteFile(csvPath, []byte(importCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	db, err := store.NewSQLiteStore(filepath.Join(dir, "assessor.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer db.Close()

	svc := NewService(db, db, nil, listing.NewLoader(listing.NewFileSource(csvPath)), model.DefaultAssumptions())
	batch, err := svc.Import(context.Background())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if batch.RowCount != 2 {
		t.Errorf("expected 2 imported listings, got %d", batch.RowCount)
	}

	a, err := svc.Analyze(context.Background(), 102, Overrides{})
	if err != nil {
		t.Fatalf("analyze imported listing: %v", err)
	}
	if a.Inputs.MarketValue != 110000 {
		t.Errorf("expected market value to fall back to price, got %.2f", a.Inputs.MarketValue)
	}
	if _, err := db.LoadAnalysis(context.Background(), a.ID); err != nil {
		t.Errorf("expected analysis in sqlite: %v", err)
	}
}

func TestService_ImportWithoutSource(t *testing.T) {
	svc := NewService(newMemStore(), nil, nil, nil, model.DefaultAssumptions())
	if _, err := svc.Import(context.Background()); err == nil {
		t.Error("expected error without a listing source")
	}
}

func TestService_ZeroPropertyTaxRate(t *testing.T) {
	a := model.DefaultAssumptions()
	a.PropertyTaxRate = 0
	svc := NewService(newMemStore(), nil, nil, nil, a)
	in := ResolveInputs(&model.Listing{Price: 120000, Zestimate: 120000}, a, Overrides{})

	got, err := svc.AnalyzeInputs(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Metrics.MonthlyPropertyTax != 0 || got.Expenses.PropertyTax != 0 {
		t.Errorf("expected no property tax for a zero rate, got %.4f", got.Metrics.MonthlyPropertyTax)
	}
}
