package listing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"

	"PropertyAssessor/internal/model"
)

// dropped are export columns that carry nested blobs or stale data.
var dropped = map[string]bool{
	"parentRegion":     true,
	"mortgageRates":    true,
	"datePriceChanged": true,
	"timeOnZillow":     true,
}

// renamed maps the slash-path headers of the export to flat column names.
var renamed = map[string]string{
	"address/city":                       "city",
	"address/state":                      "state",
	"address/streetAddress":              "address",
	"address/zipcode":                    "zipcode",
	"listing_sub_type/is_FSBA":           "is_fsba",
	"listing_sub_type/is_FSBO":           "is_fsbo",
	"listing_sub_type/is_bankOwned":      "is_bankOwned",
	"listing_sub_type/is_comingSoon":     "is_comingSoon",
	"listing_sub_type/is_forAuction":     "is_forAuction",
	"listing_sub_type/is_foreclosure":    "is_foreclosure",
	"listing_sub_type/is_newHome":        "is_newHome",
	"listing_sub_type/is_openHouse":      "is_openHouse",
	"listing_sub_type/is_pending":        "is_pending",
	"mortgageRates/arm5Rate":             "arm5_rate",
	"mortgageRates/fifteenYearFixedRate": "15fixed_rate",
	"mortgageRates/thirtyYearFixedRate":  "30fixed_rate",
	"parentRegion/name":                  "region",
	"rentZestimate":                      "restimate",
}

var zpidPattern = regexp.MustCompile(`/(\d+)_zpid`)

// ErrNoURLColumn is returned when the header lacks the url column zpids are derived from.
var ErrNoURLColumn = errors.New("listing csv has no url column")

// Stats summarizes a parse run.
type Stats struct {
	Rows    int
	Skipped int
}

// ExtractZPID pulls the numeric property id out of a listing URL.
func ExtractZPID(rawURL string) (int64, bool) {
	m := zpidPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Parse reads and cleans the listing export. Rows without a zpid are skipped.
// Missing numeric values default to 0, except days on market which defaults to the column mean.
func Parse(r io.Reader) ([]model.Listing, Stats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read header: %w", err)
	}
	cols := columnIndex(header)
	if _, ok := cols["url"]; !ok {
		return nil, Stats{}, ErrNoURLColumn
	}

	var (
		listings    []model.Listing
		missingDays []int
		stats       Stats
		daysSum     float64
		daysCount   int
	)

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read line %d: %w", line, err)
		}
		stats.Rows++

		row := rowReader{cols: cols, rec: rec}
		zpid, ok := ExtractZPID(row.str("url"))
		if !ok {
			log.Printf("[WARN] line %d: no zpid in url %q, skipping", line, row.str("url"))
			stats.Skipped++
			continue
		}

		l := row.listing(zpid)
		if days, ok := row.optFloat("daysOnZillow"); ok {
			l.DaysOnMarket = days
			daysSum += days
			daysCount++
		} else {
			missingDays = append(missingDays, len(listings))
		}
		listings = append(listings, l)
	}

	if daysCount > 0 && len(missingDays) > 0 {
		mean := daysSum / float64(daysCount)
		for _, i := range missingDays {
			listings[i].DaysOnMarket = mean
		}
	}

	return listings, stats, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if dropped[h] {
			continue
		}
		if to, ok := renamed[h]; ok {
			h = to
		}
		cols[h] = i
	}
	return cols
}

type rowReader struct {
	cols map[string]int
	rec  []string
}

func (r rowReader) str(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r rowReader) optFloat(col string) (float64, bool) {
	s := r.str(col)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (r rowReader) number(col string) float64 {
	v, _ := r.optFloat(col)
	return v
}

// integer accepts "1925" as well as pandas-style "1925.0".
func (r rowReader) integer(col string) int64 {
	return int64(r.number(col))
}

func (r rowReader) flag(col string) bool {
	s := r.str(col)
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v != 0
	}
	return false
}

func (r rowReader) listing(zpid int64) model.Listing {
	return model.Listing{
		ZPID: zpid,
		URL:  r.str("url"),

		PageViewCount: r.integer("pageViewCount"),
		FavoriteCount: r.integer("favoriteCount"),

		Address: r.str("address"),
		City:    r.str("city"),
		State:   r.str("state"),
		Zipcode: r.integer("zipcode"),
		Region:  r.str("region"),

		Bedrooms:           r.number("bedrooms"),
		Bathrooms:          r.number("bathrooms"),
		LivingArea:         r.number("livingArea"),
		Latitude:           r.number("latitude"),
		Longitude:          r.number("longitude"),
		YearBuilt:          r.integer("yearBuilt"),
		HomeType:           r.str("homeType"),
		HomeStatus:         r.str("homeStatus"),
		IsNonOwnerOccupied: r.flag("isNonOwnerOccupied"),
		Flags: model.SubType{
			FSBA:        r.flag("is_fsba"),
			FSBO:        r.flag("is_fsbo"),
			BankOwned:   r.flag("is_bankOwned"),
			ComingSoon:  r.flag("is_comingSoon"),
			ForAuction:  r.flag("is_forAuction"),
			Foreclosure: r.flag("is_foreclosure"),
			NewHome:     r.flag("is_newHome"),
			OpenHouse:   r.flag("is_openHouse"),
			Pending:     r.flag("is_pending"),
		},

		Price:            r.number("price"),
		Zestimate:        r.number("zestimate"),
		RentZestimate:    r.number("restimate"),
		PriceChange:      r.number("priceChange"),
		TaxAssessedValue: r.number("taxAssessedValue"),
		TaxAssessedYear:  r.integer("taxAssessedYear"),
		MonthlyHOAFee:    r.number("monthlyHoaFee"),
		Arm5Rate:         r.number("arm5_rate"),
		FifteenFixedRate: r.number("15fixed_rate"),
		ThirtyFixedRate:  r.number("30fixed_rate"),
		PropertyTaxRate:  r.number("propertyTaxRate"),
	}
}
