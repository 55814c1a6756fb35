package listing

import (
	"context"
	"fmt"
	"log"

	"PropertyAssessor/internal/model"
)

// Loader pulls the listing export from a Source and cleans it.
type Loader struct {
	Source Source
}

// NewLoader creates a new Loader.
func NewLoader(src Source) *Loader {
	return &Loader{Source: src}
}

// Load fetches and parses the current listing export.
func (l *Loader) Load(ctx context.Context) ([]model.Listing, Stats, error) {
	rc, err := l.Source.Open(ctx)
	if err != nil {
		return nil, Stats{}, err
	}
	defer rc.Close()

	listings, stats, err := Parse(rc)
	if err != nil {
		return nil, stats, fmt.Errorf("parse %s: %w", l.Source.Name(), err)
	}
	log.Printf("[INFO] loaded %d listings from %s (%d rows, %d skipped)",
		len(listings), l.Source.Name(), stats.Rows, stats.Skipped)
	return listings, stats, nil
}
