package calculator

import (
	"iter"
	"math"
	"slices"

	"PropertyAssessor/internal/model"
)

// Projection generates the yearly appreciation and cash-flow series over the loan term.
// Rent and operating expenses compound at the appreciation rate; the mortgage payment
// stays fixed.
type Projection struct {
	years       int
	rate        float64
	marketValue float64
	rent        float64
	expenses    float64
	payment     float64
}

// NewProjection builds a projection. monthlyMortgagePayment is negative-signed.
func NewProjection(in model.InvestmentInputs, monthlyMortgagePayment, grossOperatingExpenses float64) (Projection, error) {
	if in.LoanTermYears <= 0 {
		return Projection{}, invalid("loan_term_years", "must be positive")
	}
	return Projection{
		years:       in.LoanTermYears,
		rate:        in.AnnualAppreciationRate,
		marketValue: in.MarketValue,
		rent:        in.MonthlyRent,
		expenses:    grossOperatingExpenses,
		payment:     monthlyMortgagePayment,
	}, nil
}

// Len is the number of years in the series.
func (p Projection) Len() int { return p.years }

// At returns the point for year i (1-based). Year 1 already includes one year of growth.
func (p Projection) At(year int) model.ProjectionPoint {
	growth := math.Pow(1+p.rate, float64(year))
	rent := growth * p.rent
	expenses := growth * p.expenses
	return model.ProjectionPoint{
		Year:                   year,
		ProjectedPropertyValue: growth * p.marketValue,
		ProjectedCashFlow:      rent - (expenses + -p.payment),
	}
}

// All yields years 1..Len in order. Each call starts a fresh iteration.
func (p Projection) All() iter.Seq[model.ProjectionPoint] {
	return func(yield func(model.ProjectionPoint) bool) {
		for year := 1; year <= p.years; year++ {
			if !yield(p.At(year)) {
				return
			}
		}
	}
}

// Points materializes the whole series.
func (p Projection) Points() []model.ProjectionPoint {
	return slices.Collect(p.All())
}
