package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"PropertyAssessor/internal/model"
)

// SortColumns maps the accepted sort keys to columns.
var SortColumns = map[string]string{
	"zpid":           "p.zpid",
	"price":          "f.price",
	"zestimate":      "f.zestimate",
	"restimate":      "f.rent_zestimate",
	"bedrooms":       "ph.bedrooms",
	"bathrooms":      "ph.bathrooms",
	"living_area":    "ph.living_area",
	"year_built":     "ph.year_built",
	"days_on_market": "pg.days_on_market",
	"page_views":     "pg.page_view_count",
	"favorites":      "pg.favorite_count",
}

// SQLiteStore keeps listings in page/address/physical/financial tables linked by the property table.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the API read while an import is writing.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS page (
			url             TEXT PRIMARY KEY NOT NULL,
			days_on_market  REAL,
			page_view_count INTEGER,
			favorite_count  INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS address (
			address_id INTEGER PRIMARY KEY AUTOINCREMENT,
			city       TEXT,
			state      TEXT,
			address    TEXT,
			zipcode    INTEGER,
			region     TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS physical (
			physical_id           INTEGER PRIMARY KEY AUTOINCREMENT,
			bedrooms              REAL,
			bathrooms             REAL,
			living_area           REAL,
			latitude              REAL,
			longitude             REAL,
			year_built            INTEGER,
			home_type             TEXT,
			home_status           TEXT,
			is_non_owner_occupied INTEGER,
			is_fsba               INTEGER,
			is_fsbo               INTEGER,
			is_bank_owned         INTEGER,
			is_coming_soon        INTEGER,
			is_for_auction        INTEGER,
			is_foreclosure        INTEGER,
			is_new_home           INTEGER,
			is_open_house         INTEGER,
			is_pending            INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS financial (
			financial_id       INTEGER PRIMARY KEY AUTOINCREMENT,
			price              REAL,
			zestimate          REAL,
			rent_zestimate     REAL,
			price_change       REAL,
			tax_assessed_value REAL,
			tax_assessed_year  INTEGER,
			monthly_hoa_fee    REAL,
			arm5_rate          REAL,
			fifteen_fixed_rate REAL,
			thirty_fixed_rate  REAL,
			property_tax_rate  REAL
		)`,

		`CREATE TABLE IF NOT EXISTS property (
			zpid         INTEGER PRIMARY KEY,
			url          TEXT NOT NULL REFERENCES page (url) ON UPDATE CASCADE,
			address_id   INTEGER REFERENCES address (address_id) ON UPDATE CASCADE,
			physical_id  INTEGER REFERENCES physical (physical_id) ON UPDATE CASCADE,
			financial_id INTEGER REFERENCES financial (financial_id) ON UPDATE CASCADE,
			batch_id     TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS import_batches (
			id        TEXT PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			source    TEXT,
			row_count INTEGER,
			skipped   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_import_ts ON import_batches(timestamp)`,

		`CREATE TABLE IF NOT EXISTS analysis_records (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			analysis_id TEXT NOT NULL,
			zpid        INTEGER,
			timestamp   INTEGER NOT NULL,
			kind        TEXT NOT NULL,
			key         TEXT NOT NULL,
			year        INTEGER,
			value       REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_id ON analysis_records(analysis_id)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_zpid ON analysis_records(zpid)`,
	}

	for _, st := range stmts {
		if _, err := s.db.Exec(st); err != nil {
			return fmt.Errorf("exec %q: %w", st[:40], err)
		}
	}
	return nil
}

// ReplaceListings swaps the whole listing data set in one transaction.
// Duplicate zpids keep the last occurrence.
func (s *SQLiteStore) ReplaceListings(ctx context.Context, source string, listings []model.Listing) (*model.ImportBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unique := dedupe(listings)
	batch := &model.ImportBatch{
		ID:         uuid.NewString(),
		Source:     source,
		RowCount:   len(unique),
		Skipped:    len(listings) - len(unique),
		ImportedAt: time.Now(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"property", "page", "address", "physical", "financial"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return nil, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i := range unique {
		if err := insertListing(ctx, tx, &unique[i], batch.ID); err != nil {
			return nil, fmt.Errorf("insert zpid %d: %w", unique[i].ZPID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO import_batches
		(id, timestamp, source, row_count, skipped) VALUES (?,?,?,?,?)`,
		batch.ID, batch.ImportedAt.Unix(), batch.Source, batch.RowCount, batch.Skipped,
	); err != nil {
		return nil, fmt.Errorf("record import batch: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return batch, nil
}

func dedupe(listings []model.Listing) []model.Listing {
	pos := make(map[int64]int, len(listings))
	out := make([]model.Listing, 0, len(listings))
	for _, l := range listings {
		if i, ok := pos[l.ZPID]; ok {
			out[i] = l
			continue
		}
		pos[l.ZPID] = len(out)
		out = append(out, l)
	}
	return out
}

func insertListing(ctx context.Context, tx *sql.Tx, l *model.Listing, batchID string) error {
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO page
		(url, days_on_market, page_view_count, favorite_count) VALUES (?,?,?,?)`,
		l.URL, l.DaysOnMarket, l.PageViewCount, l.FavoriteCount,
	); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO address
		(city, state, address, zipcode, region) VALUES (?,?,?,?,?)`,
		l.City, l.State, l.Address, l.Zipcode, l.Region,
	)
	if err != nil {
		return err
	}
	addressID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	fl := l.Flags
	res, err = tx.ExecContext(ctx, `INSERT INTO physical
		(bedrooms, bathrooms, living_area, latitude, longitude, year_built, home_type, home_status,
		 is_non_owner_occupied, is_fsba, is_fsbo, is_bank_owned, is_coming_soon, is_for_auction,
		 is_foreclosure, is_new_home, is_open_house, is_pending)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		l.Bedrooms, l.Bathrooms, l.LivingArea, l.Latitude, l.Longitude, l.YearBuilt, l.HomeType, l.HomeStatus,
		l.IsNonOwnerOccupied, fl.FSBA, fl.FSBO, fl.BankOwned, fl.ComingSoon, fl.ForAuction,
		fl.Foreclosure, fl.NewHome, fl.OpenHouse, fl.Pending,
	)
	if err != nil {
		return err
	}
	physicalID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx, `INSERT INTO financial
		(price, zestimate, rent_zestimate, price_change, tax_assessed_value, tax_assessed_year,
		 monthly_hoa_fee, arm5_rate, fifteen_fixed_rate, thirty_fixed_rate, property_tax_rate)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		l.Price, l.Zestimate, l.RentZestimate, l.PriceChange, l.TaxAssessedValue, l.TaxAssessedYear,
		l.MonthlyHOAFee, l.Arm5Rate, l.FifteenFixedRate, l.ThirtyFixedRate, l.PropertyTaxRate,
	)
	if err != nil {
		return err
	}
	financialID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO property
		(zpid, url, address_id, physical_id, financial_id, batch_id) VALUES (?,?,?,?,?,?)`,
		l.ZPID, l.URL, addressID, physicalID, financialID, batchID,
	)
	return err
}

const listingSelect = `SELECT
	p.zpid, p.url,
	pg.days_on_market, pg.page_view_count, pg.favorite_count,
	a.address, a.city, a.state, a.zipcode, a.region,
	ph.bedrooms, ph.bathrooms, ph.living_area, ph.latitude, ph.longitude, ph.year_built,
	ph.home_type, ph.home_status, ph.is_non_owner_occupied,
	ph.is_fsba, ph.is_fsbo, ph.is_bank_owned, ph.is_coming_soon, ph.is_for_auction,
	ph.is_foreclosure, ph.is_new_home, ph.is_open_house, ph.is_pending,
	f.price, f.zestimate, f.rent_zestimate, f.price_change, f.tax_assessed_value, f.tax_assessed_year,
	f.monthly_hoa_fee, f.arm5_rate, f.fifteen_fixed_rate, f.thirty_fixed_rate, f.property_tax_rate
FROM property p
JOIN page pg ON pg.url = p.url
JOIN address a ON a.address_id = p.address_id
JOIN physical ph ON ph.physical_id = p.physical_id
JOIN financial f ON f.financial_id = p.financial_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*model.Listing, error) {
	var l model.Listing
	fl := &l.Flags
	err := row.Scan(
		&l.ZPID, &l.URL,
		&l.DaysOnMarket, &l.PageViewCount, &l.FavoriteCount,
		&l.Address, &l.City, &l.State, &l.Zipcode, &l.Region,
		&l.Bedrooms, &l.Bathrooms, &l.LivingArea, &l.Latitude, &l.Longitude, &l.YearBuilt,
		&l.HomeType, &l.HomeStatus, &l.IsNonOwnerOccupied,
		&fl.FSBA, &fl.FSBO, &fl.BankOwned, &fl.ComingSoon, &fl.ForAuction,
		&fl.Foreclosure, &fl.NewHome, &fl.OpenHouse, &fl.Pending,
		&l.Price, &l.Zestimate, &l.RentZestimate, &l.PriceChange, &l.TaxAssessedValue, &l.TaxAssessedYear,
		&l.MonthlyHOAFee, &l.Arm5Rate, &l.FifteenFixedRate, &l.ThirtyFixedRate, &l.PropertyTaxRate,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Get returns the listing with the given zpid, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, zpid int64) (*model.Listing, error) {
	row := s.db.QueryRowContext(ctx, listingSelect+" WHERE p.zpid = ?", zpid)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("zpid %d: %w", zpid, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get zpid %d: %w", zpid, err)
	}
	return l, nil
}

func whereClause(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.City != "" {
		conds = append(conds, "a.city = ? COLLATE NOCASE")
		args = append(args, f.City)
	}
	if f.HomeType != "" {
		conds = append(conds, "ph.home_type = ? COLLATE NOCASE")
		args = append(args, f.HomeType)
	}
	if f.MinPrice > 0 {
		conds = append(conds, "f.price >= ?")
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		conds = append(conds, "f.price <= ?")
		args = append(args, f.MaxPrice)
	}
	if f.MinBedrooms > 0 {
		conds = append(conds, "ph.bedrooms >= ?")
		args = append(args, f.MinBedrooms)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns listings matching the filter.
func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]model.Listing, error) {
	where, args := whereClause(f)

	col, ok := SortColumns[f.SortBy]
	if !ok {
		col = SortColumns["zpid"]
	}
	order := " ORDER BY " + col
	if f.Desc {
		order += " DESC"
	}
	if col != SortColumns["zpid"] {
		order += ", p.zpid"
	}

	query := listingSelect + where + order
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	var out []model.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// Count returns the number of listings matching the filter, ignoring paging.
func (s *SQLiteStore) Count(ctx context.Context, f Filter) (int, error) {
	where, args := whereClause(f)
	query := `SELECT COUNT(*) FROM property p
JOIN page pg ON pg.url = p.url
JOIN address a ON a.address_id = p.address_id
JOIN physical ph ON ph.physical_id = p.physical_id
JOIN financial f ON f.financial_id = p.financial_id` + where

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return n, nil
}

// LatestImport returns the most recent import batch, or ErrNotFound before the first import.
func (s *SQLiteStore) LatestImport(ctx context.Context) (*model.ImportBatch, error) {
	var (
		b  model.ImportBatch
		ts int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, timestamp, source, row_count, skipped
		FROM import_batches ORDER BY timestamp DESC, rowid DESC LIMIT 1`,
	).Scan(&b.ID, &ts, &b.Source, &b.RowCount, &b.Skipped)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest import: %w", err)
	}
	b.ImportedAt = time.Unix(ts, 0)
	return &b, nil
}

// RecordAnalysis writes one row per metric and per projection year.
func (s *SQLiteStore) RecordAnalysis(ctx context.Context, a *model.Analysis) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO analysis_records
		(analysis_id, zpid, timestamp, kind, key, year, value) VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, r := range a.Records() {
		if _, err := stmt.ExecContext(ctx, a.ID, a.ZPID, now, r.Kind, r.Key, r.Year, r.Value); err != nil {
			return fmt.Errorf("insert record %s: %w", r.Field(), err)
		}
	}
	return tx.Commit()
}

// LoadAnalysis rebuilds a recorded analysis.
func (s *SQLiteStore) LoadAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT zpid, kind, key, year, value
		FROM analysis_records WHERE analysis_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("load analysis: %w", err)
	}
	defer rows.Close()

	var (
		recs []model.Record
		zpid int64
	)
	for rows.Next() {
		var r model.Record
		if err := rows.Scan(&zpid, &r.Kind, &r.Key, &r.Year, &r.Value); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}

	a := model.AnalysisFromRecords(recs)
	a.ID = id
	a.ZPID = zpid
	return a, nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
