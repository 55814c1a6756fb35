package assessor

import "PropertyAssessor/internal/model"

// Overrides are caller-supplied values that win over the listing and the assumptions.
// Rates are fractions.
type Overrides struct {
	PurchasePrice          *float64 `json:"purchase_price,omitempty"`
	MarketValue            *float64 `json:"market_value,omitempty"`
	RehabCost              *float64 `json:"rehab_cost,omitempty"`
	AnnualAppreciationRate *float64 `json:"annual_appreciation_rate,omitempty"`
	ClosingCostRate        *float64 `json:"closing_cost_rate,omitempty"`

	DownPayment   *float64 `json:"down_payment,omitempty"`
	InterestRate  *float64 `json:"interest_rate,omitempty"`
	LoanTermYears *int     `json:"loan_term_years,omitempty"`

	MonthlyRent      *float64 `json:"monthly_rent,omitempty"`
	TaxAssessedValue *float64 `json:"tax_assessed_value,omitempty"`

	MonthlyInsurance         *float64 `json:"monthly_insurance,omitempty"`
	MonthlyGasElectric       *float64 `json:"monthly_gas_electric,omitempty"`
	MonthlyWaterSewerGarbage *float64 `json:"monthly_water_sewer_garbage,omitempty"`
	MonthlyHOA               *float64 `json:"monthly_hoa,omitempty"`

	MaintenanceRate *float64 `json:"maintenance_rate,omitempty"`
	CapexRate       *float64 `json:"capex_rate,omitempty"`
	VacancyRate     *float64 `json:"vacancy_rate,omitempty"`
	ManagementRate  *float64 `json:"management_rate,omitempty"`
}

// ResolveInputs builds calculator inputs for a listing.
//
// Price falls back to the automated estimate and then to the configured fallback price.
// Market value falls back to the price, the tax assessed value to the market value.
// The down payment is a share of the resolved price unless overridden.
func ResolveInputs(l *model.Listing, a model.Assumptions, o Overrides) model.InvestmentInputs {
	price := l.Price
	if price == 0 {
		price = l.Zestimate
	}
	if price == 0 {
		price = a.FallbackPrice
	}
	setFloat(&price, o.PurchasePrice)

	marketValue := l.Zestimate
	if marketValue == 0 {
		marketValue = price
	}
	setFloat(&marketValue, o.MarketValue)

	taxAssessed := l.TaxAssessedValue
	if taxAssessed == 0 {
		taxAssessed = marketValue
	}
	setFloat(&taxAssessed, o.TaxAssessedValue)

	term := a.LoanTermYears
	if o.LoanTermYears != nil {
		term = *o.LoanTermYears
	}

	interest := a.InterestRate
	if a.UseListingRates {
		if r := listingRate(l, term); r > 0 {
			interest = r
		}
	}
	setFloat(&interest, o.InterestRate)

	in := model.InvestmentInputs{
		PurchasePrice:            price,
		MarketValue:              marketValue,
		RehabCost:                a.RehabCost,
		AnnualAppreciationRate:   a.AnnualAppreciationRate,
		ClosingCostRate:          a.ClosingCostRate,
		DownPayment:              price * a.DownPaymentRate,
		InterestRate:             interest,
		LoanTermYears:            term,
		MonthlyRent:              l.RentZestimate,
		TaxAssessedValue:         taxAssessed,
		MonthlyInsurance:         a.MonthlyInsurance,
		MonthlyGasElectric:       a.MonthlyGasElectric,
		MonthlyWaterSewerGarbage: a.MonthlyWaterSewerGarbage,
		MonthlyHOA:               l.MonthlyHOAFee,
		MaintenanceRate:          a.MaintenanceRate,
		CapexRate:                a.CapexRate,
		VacancyRate:              a.VacancyRate,
		ManagementRate:           a.ManagementRate,
	}
	o.Apply(&in)
	return in
}

// Apply copies every set override onto in. LoanTermYears, price, market value,
// tax assessed value and interest are applied as well so Apply works on raw inputs too.
func (o Overrides) Apply(in *model.InvestmentInputs) {
	setFloat(&in.PurchasePrice, o.PurchasePrice)
	setFloat(&in.MarketValue, o.MarketValue)
	setFloat(&in.RehabCost, o.RehabCost)
	setFloat(&in.AnnualAppreciationRate, o.AnnualAppreciationRate)
	setFloat(&in.ClosingCostRate, o.ClosingCostRate)
	setFloat(&in.DownPayment, o.DownPayment)
	setFloat(&in.InterestRate, o.InterestRate)
	if o.LoanTermYears != nil {
		in.LoanTermYears = *o.LoanTermYears
	}
	setFloat(&in.MonthlyRent, o.MonthlyRent)
	setFloat(&in.TaxAssessedValue, o.TaxAssessedValue)
	setFloat(&in.MonthlyInsurance, o.MonthlyInsurance)
	setFloat(&in.MonthlyGasElectric, o.MonthlyGasElectric)
	setFloat(&in.MonthlyWaterSewerGarbage, o.MonthlyWaterSewerGarbage)
	setFloat(&in.MonthlyHOA, o.MonthlyHOA)
	setFloat(&in.MaintenanceRate, o.MaintenanceRate)
	setFloat(&in.CapexRate, o.CapexRate)
	setFloat(&in.VacancyRate, o.VacancyRate)
	setFloat(&in.ManagementRate, o.ManagementRate)
}

// listingRate returns the quoted rate for the term as a fraction, or 0.
// Listings quote rates in percent.
func listingRate(l *model.Listing, term int) float64 {
	switch term {
	case 30:
		return l.ThirtyFixedRate / 100
	case 15:
		return l.FifteenFixedRate / 100
	case 5:
		return l.Arm5Rate / 100
	}
	return 0
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
