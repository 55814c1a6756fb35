package calculator

import (
	"math"

	"PropertyAssessor/internal/model"
)

// philadelphiaRowhouse is the reference scenario used across the calculator tests.
func philadelphiaRowhouse() model.InvestmentInputs {
	return model.InvestmentInputs{
		PurchasePrice:            200000,
		MarketValue:              200000,
		RehabCost:                0,
		AnnualAppreciationRate:   0.02,
		ClosingCostRate:          0.05,
		DownPayment:              40000,
		InterestRate:             0.04,
		LoanTermYears:            30,
		MonthlyRent:              1800,
		TaxAssessedValue:         180000,
		MonthlyInsurance:         100,
		MonthlyGasElectric:       0,
		MonthlyWaterSewerGarbage: 80,
		MonthlyHOA:               0,
		MaintenanceRate:          0.11,
		CapexRate:                0.10,
		VacancyRate:              0.05,
		ManagementRate:           0,
	}
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
