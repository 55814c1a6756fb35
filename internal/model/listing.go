package model

import "time"

// Listing is one normalized property record from the listing feed.
type Listing struct {
	ZPID int64  `json:"zpid"`
	URL  string `json:"url"`

	// page
	DaysOnMarket  float64 `json:"days_on_market"`
	PageViewCount int64   `json:"page_view_count"`
	FavoriteCount int64   `json:"favorite_count"`

	// address
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zipcode int64  `json:"zipcode"`
	Region  string `json:"region"`

	// physical
	Bedrooms           float64 `json:"bedrooms"`
	Bathrooms          float64 `json:"bathrooms"`
	LivingArea         float64 `json:"living_area"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	YearBuilt          int64   `json:"year_built"`
	HomeType           string  `json:"home_type"`
	HomeStatus         string  `json:"home_status"`
	IsNonOwnerOccupied bool    `json:"is_non_owner_occupied"`
	Flags              SubType `json:"flags"`

	// financial
	Price            float64 `json:"price"`
	Zestimate        float64 `json:"zestimate"`
	RentZestimate    float64 `json:"rent_zestimate"`
	PriceChange      float64 `json:"price_change"`
	TaxAssessedValue float64 `json:"tax_assessed_value"`
	TaxAssessedYear  int64   `json:"tax_assessed_year"`
	MonthlyHOAFee    float64 `json:"monthly_hoa_fee"`
	Arm5Rate         float64 `json:"arm5_rate"`
	FifteenFixedRate float64 `json:"fifteen_fixed_rate"`
	ThirtyFixedRate  float64 `json:"thirty_fixed_rate"`
	PropertyTaxRate  float64 `json:"property_tax_rate"`
}

// SubType carries the listing sub-type flags.
type SubType struct {
	FSBA        bool `json:"fsba"`
	FSBO        bool `json:"fsbo"`
	BankOwned   bool `json:"bank_owned"`
	ComingSoon  bool `json:"coming_soon"`
	ForAuction  bool `json:"for_auction"`
	Foreclosure bool `json:"foreclosure"`
	NewHome     bool `json:"new_home"`
	OpenHouse   bool `json:"open_house"`
	Pending     bool `json:"pending"`
}

// FullAddress formats the street address line.
func (l *Listing) FullAddress() string {
	return l.Address + " " + l.City + ", " + l.State
}

// ImportBatch records one listing import run.
type ImportBatch struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	RowCount   int       `json:"row_count"`
	Skipped    int       `json:"skipped"`
	ImportedAt time.Time `json:"imported_at"`
}

// ScreenResult is a listing that was run through the calculator during a screen.
type ScreenResult struct {
	Listing Listing        `json:"listing"`
	Metrics DerivedMetrics `json:"metrics"`
	Passes  bool           `json:"passes"`
}
