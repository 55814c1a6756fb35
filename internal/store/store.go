package store

import (
	"context"
	"errors"

	"PropertyAssessor/internal/model"
)

// ErrNotFound is returned when no listing or analysis matches the lookup.
var ErrNotFound = errors.New("not found")

// Filter narrows and orders a listing query.
type Filter struct {
	City        string
	HomeType    string
	MinPrice    float64
	MaxPrice    float64
	MinBedrooms float64
	SortBy      string // one of SortColumns; defaults to zpid
	Desc        bool
	Limit       int
	Offset      int
}

// ListingStore persists the normalized listing data set.
type ListingStore interface {
	ReplaceListings(ctx context.Context, source string, listings []model.Listing) (*model.ImportBatch, error)
	Get(ctx context.Context, zpid int64) (*model.Listing, error)
	List(ctx context.Context, f Filter) ([]model.Listing, error)
	Count(ctx context.Context, f Filter) (int, error)
	LatestImport(ctx context.Context) (*model.ImportBatch, error)
}

// AnalysisRecorder keeps computed analyses as key/value records.
type AnalysisRecorder interface {
	RecordAnalysis(ctx context.Context, a *model.Analysis) error
	LoadAnalysis(ctx context.Context, id string) (*model.Analysis, error)
}
