package assessor

import (
	"context"
	"sync"

	"PropertyAssessor/internal/model"
	"PropertyAssessor/internal/store"
)

// memStore is an in-memory ListingStore and AnalysisRecorder for tests.
type memStore struct {
	mu       sync.Mutex
	listings map[int64]model.Listing
	analyses map[string]*model.Analysis
}

func newMemStore(listings ...model.Listing) *memStore {
	m := &memStore{
		listings: make(map[int64]model.Listing),
		analyses: make(map[string]*model.Analysis),
	}
	for _, l := range listings {
		m.listings[l.ZPID] = l
	}
	return m
}

func (m *memStore) ReplaceListings(_ context.Context, source string, listings []model.Listing) (*model.ImportBatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings = make(map[int64]model.Listing)
	for _, l := range listings {
		m.listings[l.ZPID] = l
	}
	return &model.ImportBatch{ID: "batch", Source: source, RowCount: len(m.listings)}, nil
}

func (m *memStore) Get(_ context.Context, zpid int64) (*model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[zpid]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &l, nil
}

func (m *memStore) List(_ context.Context, _ store.Filter) ([]model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Listing, 0, len(m.listings))
	for _, l := range m.listings {
		out = append(out, l)
	}
	return out, nil
}

func (m *memStore) Count(_ context.Context, _ store.Filter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listings), nil
}

func (m *memStore) LatestImport(_ context.Context) (*model.ImportBatch, error) {
	return nil, store.ErrNotFound
}

func (m *memStore) RecordAnalysis(_ context.Context, a *model.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses[a.ID] = a
	return nil
}

func (m *memStore) LoadAnalysis(_ context.Context, id string) (*model.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.analyses[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return a, nil
}

func (m *memStore) recorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.analyses)
}
