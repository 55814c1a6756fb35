package config

import (
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"PropertyAssessor/internal/calculator"
	"PropertyAssessor/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Listing struct {
		Source string `yaml:"source"` // file path or http(s) URL of the CSV export
	} `yaml:"listing"`
	Database struct {
		SQLitePath     string `yaml:"sqlite_path"`
		RecordAnalyses bool   `yaml:"record_analyses"`
	} `yaml:"database"`
	Cache struct {
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
		TTL           time.Duration `yaml:"ttl"`
		MaxEntries    int           `yaml:"max_entries"` // in-process cache only
	} `yaml:"cache"`
	HTTP struct {
		Addr        string   `yaml:"addr"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"http"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		ImportCron string `yaml:"import_cron"`
		ScreenCron string `yaml:"screen_cron"`
	} `yaml:"schedule"`
	Screen struct {
		City     string  `yaml:"city"`
		HomeType string  `yaml:"home_type"`
		MaxPrice float64 `yaml:"max_price"`
		Top      int     `yaml:"top"`
		Workers  int     `yaml:"workers"`
	} `yaml:"screen"`
	Assumptions model.Assumptions `yaml:"assumptions"`
	Proxy       string            `yaml:"proxy"`
}

// LoadDotEnv loads KEY=value pairs from path into the environment if the file exists.
func LoadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[WARN] load %s: %v", path, err)
		}
		return
	}
	log.Printf("[INFO] environment loaded from %s", path)
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{Assumptions: model.DefaultAssumptions()}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LISTING_SOURCE"); v != "" {
		cfg.Listing.Source = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Cache.RedisPassword = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_IMPORT"); v != "" {
		cfg.Schedule.ImportCron = v
	}
	if v := os.Getenv("CRON_SCREEN"); v != "" {
		cfg.Schedule.ScreenCron = v
	}
	if v := os.Getenv("PROPERTY_TAX_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("PROPERTY_TAX_RATE: %w", err)
		}
		cfg.Assumptions.PropertyTaxRate = rate
	}

	// Defaults
	if cfg.Listing.Source == "" {
		cfg.Listing.Source = "data/listings.csv"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/assessor.db"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 24 * time.Hour
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 10000
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.Schedule.ImportCron == "" {
		cfg.Schedule.ImportCron = "0 0 6 * * *"
	}
	if cfg.Schedule.ScreenCron == "" {
		cfg.Schedule.ScreenCron = "0 30 6 * * 1"
	}
	if cfg.Screen.Top == 0 {
		cfg.Screen.Top = 10
	}
	if cfg.Screen.Workers == 0 {
		cfg.Screen.Workers = 4
	}

	return cfg, nil
}

// Validate checks that all required fields are set and the assumptions are usable.
func (c *Config) Validate() error {
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	if c.Screen.Workers < 0 || c.Screen.Top < 0 {
		return fmt.Errorf("screen.workers and screen.top must not be negative")
	}

	a := c.Assumptions
	if !slices.Contains(calculator.LoanTerms, a.LoanTermYears) {
		return fmt.Errorf("assumptions.loan_term_years must be 5, 15 or 30, got %d", a.LoanTermYears)
	}
	if a.DownPaymentRate < 0 || a.DownPaymentRate > 1 {
		return fmt.Errorf("assumptions.down_payment_rate must be between 0 and 1")
	}
	rates := map[string]float64{
		"closing_cost_rate": a.ClosingCostRate,
		"interest_rate":     a.InterestRate,
		"maintenance_rate":  a.MaintenanceRate,
		"capex_rate":        a.CapexRate,
		"vacancy_rate":      a.VacancyRate,
		"management_rate":   a.ManagementRate,
		"property_tax_rate": a.PropertyTaxRate,
	}
	for name, v := range rates {
		if v < 0 {
			return fmt.Errorf("assumptions.%s must not be negative", name)
		}
		// percent values slipped in where fractions are expected
		if v >= 1 {
			return fmt.Errorf("assumptions.%s must be a fraction, got %g", name, v)
		}
	}
	if a.FallbackPrice <= 0 {
		return fmt.Errorf("assumptions.fallback_price must be positive")
	}
	return nil
}
