package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"PropertyAssessor/internal/model"
)

// Cache stores computed analyses keyed by their inputs.
type Cache interface {
	Get(ctx context.Context, key string) (*model.Analysis, bool)
	Set(ctx context.Context, key string, a *model.Analysis) error
}

// Key derives a stable cache key from the inputs and the property tax rate.
func Key(in model.InvestmentInputs, propertyTaxRate float64) string {
	data, _ := json.Marshal(in)
	h := sha256.New()
	h.Write(data)
	h.Write([]byte(strconv.FormatFloat(propertyTaxRate, 'g', -1, 64)))
	return "analysis:" + hex.EncodeToString(h.Sum(nil))[:32]
}

func encode(a *model.Analysis) map[string]string {
	recs := a.Records()
	fields := make(map[string]string, len(recs))
	for _, r := range recs {
		fields[r.Field()] = strconv.FormatFloat(r.Value, 'g', -1, 64)
	}
	return fields
}

func decode(fields map[string]string) (*model.Analysis, error) {
	recs := make([]model.Record, 0, len(fields))
	for f, v := range fields {
		r, err := model.ParseRecord(f, v)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return model.AnalysisFromRecords(recs), nil
}
