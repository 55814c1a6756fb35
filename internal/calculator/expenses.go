package calculator

import "PropertyAssessor/internal/model"

// DefaultPropertyTaxRate is the annual tax rate applied to the tax assessed value.
const DefaultPropertyTaxRate = 0.0098

// MonthlyPropertyTax converts an assessed value into a monthly tax amount.
func MonthlyPropertyTax(taxAssessedValue, annualRate float64) float64 {
	return taxAssessedValue * annualRate / 12
}

// AggregateExpenses sums the fixed and rent-proportional monthly costs.
// Rates are expected to be non-negative; this is not checked here.
func AggregateExpenses(in model.InvestmentInputs, monthlyPropertyTax float64) model.ExpenseBreakdown {
	e := model.ExpenseBreakdown{
		PropertyTax:       monthlyPropertyTax,
		Insurance:         in.MonthlyInsurance,
		GasElectric:       in.MonthlyGasElectric,
		WaterSewerGarbage: in.MonthlyWaterSewerGarbage,
		HOA:               in.MonthlyHOA,
		Vacancy:           in.VacancyRate * in.MonthlyRent,
		Maintenance:       in.MaintenanceRate * in.MonthlyRent,
		Management:        in.ManagementRate * in.MonthlyRent,
		Capex:             in.CapexRate * in.MonthlyRent,
	}

	e.Fixed = monthlyPropertyTax + in.MonthlyInsurance + in.MonthlyGasElectric +
		in.MonthlyWaterSewerGarbage + in.MonthlyHOA
	e.RentProportional = (in.VacancyRate + in.MaintenanceRate + in.ManagementRate) * in.MonthlyRent
	e.Net = e.Fixed + e.RentProportional
	e.Gross = e.Net + in.CapexRate*in.MonthlyRent
	return e
}
