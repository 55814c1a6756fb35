package assessor

import (
	"cmp"
	"context"
	"fmt"
	"log"
	"slices"
	"sync"

	"PropertyAssessor/internal/cache"
	"PropertyAssessor/internal/calculator"
	"PropertyAssessor/internal/listing"
	"PropertyAssessor/internal/model"
	"PropertyAssessor/internal/store"

	"github.com/google/uuid"
)

// Service resolves listings into calculator inputs and runs the metrics engine.
type Service struct {
	Listings    store.ListingStore
	Recorder    store.AnalysisRecorder
	Cache       cache.Cache
	Loader      *listing.Loader
	Assumptions model.Assumptions
	Workers     int
}

// NewService creates a new Service. A nil recorder or cache disables that concern.
func NewService(listings store.ListingStore, recorder store.AnalysisRecorder, c cache.Cache, loader *listing.Loader, a model.Assumptions) *Service {
	if recorder == nil {
		recorder = store.NewNoopRecorder()
	}
	if c == nil {
		c = cache.NewMemoryCache(0, 0)
	}
	return &Service{
		Listings:    listings,
		Recorder:    recorder,
		Cache:       c,
		Loader:      loader,
		Assumptions: a,
		Workers:     4,
	}
}

// Analyze evaluates one stored listing with the configured assumptions and overrides.
func (s *Service) Analyze(ctx context.Context, zpid int64, o Overrides) (*model.Analysis, error) {
	l, err := s.Listings.Get(ctx, zpid)
	if err != nil {
		return nil, fmt.Errorf("get listing %d: %w", zpid, err)
	}

	a, err := s.compute(ctx, ResolveInputs(l, s.Assumptions, o))
	if err != nil {
		return nil, fmt.Errorf("analyze listing %d: %w", zpid, err)
	}
	a.ZPID = zpid
	s.record(ctx, a)
	return a, nil
}

// AnalyzeInputs evaluates caller-provided inputs that are not tied to a listing.
func (s *Service) AnalyzeInputs(ctx context.Context, in model.InvestmentInputs) (*model.Analysis, error) {
	a, err := s.compute(ctx, in)
	if err != nil {
		return nil, err
	}
	s.record(ctx, a)
	return a, nil
}

// LoadAnalysis returns a previously recorded analysis.
func (s *Service) LoadAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	return s.Recorder.LoadAnalysis(ctx, id)
}

// compute returns a fresh copy of the analysis for in, served from cache when possible.
func (s *Service) compute(ctx context.Context, in model.InvestmentInputs) (*model.Analysis, error) {
	rate := s.Assumptions.PropertyTaxRate
	key := cache.Key(in, rate)
	if a, ok := s.Cache.Get(ctx, key); ok {
		a.ID = uuid.NewString()
		return a, nil
	}

	a, err := calculator.AnalyzeWithTaxRate(in, rate)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.Set(ctx, key, a); err != nil {
		log.Printf("[WARN] cache set %s: %v", key, err)
	}
	a.ID = uuid.NewString()
	return a, nil
}

func (s *Service) record(ctx context.Context, a *model.Analysis) {
	if err := s.Recorder.RecordAnalysis(ctx, a); err != nil {
		log.Printf("[WARN] record analysis %s: %v", a.ID, err)
	}
}

// ScreenReport summarizes one screening run.
type ScreenReport struct {
	Analyzed int                  `json:"analyzed"`
	Passing  int                  `json:"passing"`
	Failed   int                  `json:"failed"`
	Results  []model.ScreenResult `json:"results"`
}

// Screen analyzes every listing matching f and returns those passing both
// rules of thumb, best cash-on-cash return first. top <= 0 keeps all of them.
func (s *Service) Screen(ctx context.Context, f store.Filter, top int) (*ScreenReport, error) {
	listings, err := s.Listings.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}

	workers := max(s.Workers, 1)
	jobs := make(chan model.Listing)
	out := make(chan screenOutcome)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for l := range jobs {
				in := ResolveInputs(&l, s.Assumptions, Overrides{})
				a, err := s.compute(ctx, in)
				out <- screenOutcome{listing: l, analysis: a, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, l := range listings {
			select {
			case jobs <- l:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(out)
	}()

	report := &ScreenReport{}
	for o := range out {
		if o.err != nil {
			report.Failed++
			log.Printf("[WARN] screen listing %d: %v", o.listing.ZPID, o.err)
			continue
		}
		report.Analyzed++
		m := o.analysis.Metrics
		if !m.FiftyPercentRulePass || !m.TwoPercentRulePass {
			continue
		}
		report.Results = append(report.Results, model.ScreenResult{
			Listing: o.listing,
			Metrics: m,
			Passes:  true,
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(report.Results, func(a, b model.ScreenResult) int {
		if c := cmp.Compare(b.Metrics.CashOnCashReturnPct, a.Metrics.CashOnCashReturnPct); c != 0 {
			return c
		}
		return cmp.Compare(a.Listing.ZPID, b.Listing.ZPID)
	})
	report.Passing = len(report.Results)
	if top > 0 && len(report.Results) > top {
		report.Results = report.Results[:top]
	}
	log.Printf("[INFO] screen: %d analyzed, %d passing, %d failed", report.Analyzed, report.Passing, report.Failed)
	return report, nil
}

type screenOutcome struct {
	listing  model.Listing
	analysis *model.Analysis
	err      error
}

// Import reloads the listing export and replaces the stored data set.
func (s *Service) Import(ctx context.Context) (*model.ImportBatch, error) {
	if s.Loader == nil {
		return nil, fmt.Errorf("import: no listing source configured")
	}
	listings, stats, err := s.Loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}
	batch, err := s.Listings.ReplaceListings(ctx, s.Loader.Source.Name(), listings)
	if err != nil {
		return nil, fmt.Errorf("store listings: %w", err)
	}
	log.Printf("[INFO] import %s: %d listings from %s (%d rows unparseable, %d duplicates)",
		batch.ID, batch.RowCount, batch.Source, stats.Skipped, batch.Skipped)
	return batch, nil
}
