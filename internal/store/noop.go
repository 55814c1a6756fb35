package store

import (
	"context"

	"PropertyAssessor/internal/model"
)

// NoopRecorder discards analyses. Used when analysis history is disabled.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAnalysis(_ context.Context, _ *model.Analysis) error { return nil }

func (n *NoopRecorder) LoadAnalysis(_ context.Context, _ string) (*model.Analysis, error) {
	return nil, ErrNotFound
}
