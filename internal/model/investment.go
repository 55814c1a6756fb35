package model

// InvestmentInputs is a resolved snapshot of everything the calculator needs for one property.
// All rates are fractions (0.05, not 5).
type InvestmentInputs struct {
	PurchasePrice          float64 `json:"purchase_price" yaml:"purchase_price"`
	MarketValue            float64 `json:"market_value" yaml:"market_value"`
	RehabCost              float64 `json:"rehab_cost" yaml:"rehab_cost"`
	AnnualAppreciationRate float64 `json:"annual_appreciation_rate" yaml:"annual_appreciation_rate"`
	ClosingCostRate        float64 `json:"closing_cost_rate" yaml:"closing_cost_rate"`

	DownPayment   float64 `json:"down_payment" yaml:"down_payment"`
	InterestRate  float64 `json:"interest_rate" yaml:"interest_rate"`
	LoanTermYears int     `json:"loan_term_years" yaml:"loan_term_years"`

	MonthlyRent      float64 `json:"monthly_rent" yaml:"monthly_rent"`
	TaxAssessedValue float64 `json:"tax_assessed_value" yaml:"tax_assessed_value"`

	MonthlyInsurance         float64 `json:"monthly_insurance" yaml:"monthly_insurance"`
	MonthlyGasElectric       float64 `json:"monthly_gas_electric" yaml:"monthly_gas_electric"`
	MonthlyWaterSewerGarbage float64 `json:"monthly_water_sewer_garbage" yaml:"monthly_water_sewer_garbage"`
	MonthlyHOA               float64 `json:"monthly_hoa" yaml:"monthly_hoa"`

	MaintenanceRate float64 `json:"maintenance_rate" yaml:"maintenance_rate"`
	CapexRate       float64 `json:"capex_rate" yaml:"capex_rate"`
	VacancyRate     float64 `json:"vacancy_rate" yaml:"vacancy_rate"`
	ManagementRate  float64 `json:"management_rate" yaml:"management_rate"`
}

// LoanPrincipal is the financed part of the purchase price.
func (in InvestmentInputs) LoanPrincipal() float64 {
	return in.PurchasePrice - in.DownPayment
}

// ExpenseBreakdown lists every monthly operating expense line.
type ExpenseBreakdown struct {
	PropertyTax       float64 `json:"property_tax"`
	Insurance         float64 `json:"insurance"`
	GasElectric       float64 `json:"gas_electric"`
	WaterSewerGarbage float64 `json:"water_sewer_garbage"`
	HOA               float64 `json:"hoa"`
	Vacancy           float64 `json:"vacancy"`
	Maintenance       float64 `json:"maintenance"`
	Management        float64 `json:"management"`
	Capex             float64 `json:"capex"`

	Fixed            float64 `json:"fixed"`
	RentProportional float64 `json:"rent_proportional"` // vacancy + maintenance + management
	Gross            float64 `json:"gross"`
	Net              float64 `json:"net"` // gross without capex
}

// ExpenseLine is a labelled monthly expense.
type ExpenseLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Lines returns the individual expenses in display order.
func (e ExpenseBreakdown) Lines() []ExpenseLine {
	return []ExpenseLine{
		{"Property Tax", e.PropertyTax},
		{"Insurance", e.Insurance},
		{"Gas/Electric", e.GasElectric},
		{"Water/Sewer/Garbage", e.WaterSewerGarbage},
		{"HOA Fees", e.HOA},
		{"Vacancy", e.Vacancy},
		{"Maintenance/Repairs", e.Maintenance},
		{"Management", e.Management},
		{"Cap-Ex", e.Capex},
	}
}

// DerivedMetrics holds the headline investment figures. Values are never rounded.
type DerivedMetrics struct {
	LoanPrincipal          float64 `json:"loan_principal"`
	MonthlyMortgagePayment float64 `json:"monthly_mortgage_payment"` // negative: an outflow
	MonthlyPropertyTax     float64 `json:"monthly_property_tax"`
	GrossOperatingExpenses float64 `json:"gross_operating_expenses"`
	NetOperatingExpenses   float64 `json:"net_operating_expenses"`
	TotalMonthlyOutflow    float64 `json:"total_monthly_outflow"`
	MonthlyCashFlow        float64 `json:"monthly_cash_flow"`
	NetOperatingIncome     float64 `json:"net_operating_income"`
	CashInvested           float64 `json:"cash_invested"`
	CashOnCashReturnPct    float64 `json:"cash_on_cash_return_pct"`
	CapRatePct             float64 `json:"cap_rate_pct"`
	FiftyPercentRuleMargin float64 `json:"fifty_percent_rule_margin"`
	FiftyPercentRulePass   bool    `json:"fifty_percent_rule_pass"`
	TwoPercentRulePct      float64 `json:"two_percent_rule_pct"`
	TwoPercentRulePass     bool    `json:"two_percent_rule_pass"`
}

// ProjectionPoint is one year of the appreciation series.
type ProjectionPoint struct {
	Year                   int     `json:"year"`
	ProjectedPropertyValue float64 `json:"projected_property_value"`
	ProjectedCashFlow      float64 `json:"projected_cash_flow"`
}

// Analysis is the full calculator output for one set of inputs.
type Analysis struct {
	ID         string            `json:"id,omitempty"`
	ZPID       int64             `json:"zpid,omitempty"`
	Inputs     InvestmentInputs  `json:"inputs"`
	Metrics    DerivedMetrics    `json:"metrics"`
	Expenses   ExpenseBreakdown  `json:"expenses"`
	Projection []ProjectionPoint `json:"projection"`
}
