package model

// Assumptions are the calculator defaults applied when resolving inputs from a listing.
// Rates are fractions.
type Assumptions struct {
	AnnualAppreciationRate float64 `yaml:"annual_appreciation_rate" json:"annual_appreciation_rate"`
	ClosingCostRate        float64 `yaml:"closing_cost_rate" json:"closing_cost_rate"`
	DownPaymentRate        float64 `yaml:"down_payment_rate" json:"down_payment_rate"`
	InterestRate           float64 `yaml:"interest_rate" json:"interest_rate"`
	LoanTermYears          int     `yaml:"loan_term_years" json:"loan_term_years"`
	RehabCost              float64 `yaml:"rehab_cost" json:"rehab_cost"`

	MonthlyInsurance         float64 `yaml:"monthly_insurance" json:"monthly_insurance"`
	MonthlyGasElectric       float64 `yaml:"monthly_gas_electric" json:"monthly_gas_electric"`
	MonthlyWaterSewerGarbage float64 `yaml:"monthly_water_sewer_garbage" json:"monthly_water_sewer_garbage"`

	MaintenanceRate float64 `yaml:"maintenance_rate" json:"maintenance_rate"`
	CapexRate       float64 `yaml:"capex_rate" json:"capex_rate"`
	VacancyRate     float64 `yaml:"vacancy_rate" json:"vacancy_rate"`
	ManagementRate  float64 `yaml:"management_rate" json:"management_rate"`

	PropertyTaxRate float64 `yaml:"property_tax_rate" json:"property_tax_rate"`
	// FallbackPrice is used when a listing has neither a price nor an estimate.
	FallbackPrice float64 `yaml:"fallback_price" json:"fallback_price"`
	// UseListingRates prefers the mortgage rate quoted on the listing for the chosen term.
	UseListingRates bool `yaml:"use_listing_rates" json:"use_listing_rates"`
}

// DefaultAssumptions mirrors the calculator's stock settings.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		AnnualAppreciationRate:   0.02,
		ClosingCostRate:          0.05,
		DownPaymentRate:          0.20,
		InterestRate:             0.02,
		LoanTermYears:            30,
		MonthlyInsurance:         110,
		MonthlyWaterSewerGarbage: 80,
		MaintenanceRate:          0.11,
		CapexRate:                0.10,
		VacancyRate:              0.05,
		PropertyTaxRate:          0.0098,
		FallbackPrice:            200000,
	}
}
