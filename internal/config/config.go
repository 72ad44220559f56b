package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/analysis"
)

type Config struct {
	// Backend selection
	DataBackend string

	// SQLite
	DBPath string

	// Memory backend
	MemorySeedDir string

	// Analysis
	AmountTolerance          decimal.Decimal
	MinOccurrences           int
	RecurringLookbackMonths  int
	BaselineLookbackMonths   int
	TrendMonths              int
	SpikeThresholdPct        decimal.Decimal
	SignificanceThresholdPct decimal.Decimal

	// Worker
	AnalysisInterval time.Duration
	AlertDedupTTL    time.Duration

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export
	GoogleSpreadsheetID   string
	ReportsSheetName      string
	GoogleOAuthClientFile string
	GoogleOAuthTokenFile  string
	GoogleOAuthClientJSON string
	GoogleOAuthTokenJSON  string

	// Logging
	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		DataBackend: getEnv("DATA_BACKEND", "sqlite"),

		DBPath:        getEnv("FINSIGHT_DB_PATH", "data/finsight.db"),
		MemorySeedDir: getEnv("MEMORY_SEED_DIR", "data"),

		AmountTolerance:          getEnvDecimal("AMOUNT_TOLERANCE", "0.10"),
		MinOccurrences:           getEnvInt("MIN_OCCURRENCES", 3),
		RecurringLookbackMonths:  getEnvInt("RECURRING_LOOKBACK_MONTHS", 6),
		BaselineLookbackMonths:   getEnvInt("BASELINE_LOOKBACK_MONTHS", 3),
		TrendMonths:              getEnvInt("TREND_MONTHS", 6),
		SpikeThresholdPct:        getEnvDecimal("SPIKE_THRESHOLD_PCT", "50"),
		SignificanceThresholdPct: getEnvDecimal("SIGNIFICANCE_THRESHOLD_PCT", "20"),

		AnalysisInterval: getEnvDuration("ANALYSIS_INTERVAL", 24*time.Hour),
		AlertDedupTTL:    getEnvDuration("ALERT_DEDUP_TTL", 72*time.Hour),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finsight.alerts"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "spending_alerts"),

		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		ReportsSheetName:      getEnv("REPORTS_SHEET_NAME", ""),
		GoogleOAuthClientFile: getEnv("GOOGLE_OAUTH_CLIENT_FILE", ""),
		GoogleOAuthTokenFile:  getEnv("GOOGLE_OAUTH_TOKEN_FILE", ""),
		GoogleOAuthClientJSON: getEnv("GOOGLE_OAUTH_CLIENT_JSON", ""),
		GoogleOAuthTokenJSON:  getEnv("GOOGLE_OAUTH_TOKEN_JSON", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// AnalysisConfig maps the environment knobs onto the engine configuration.
func (c *Config) AnalysisConfig() analysis.Config {
	return analysis.Config{
		AmountTolerance:          c.AmountTolerance,
		MinOccurrences:           c.MinOccurrences,
		RecurringLookbackMonths:  c.RecurringLookbackMonths,
		BaselineLookbackMonths:   c.BaselineLookbackMonths,
		TrendMonths:              c.TrendMonths,
		SpikeThresholdPct:        c.SpikeThresholdPct,
		SignificanceThresholdPct: c.SignificanceThresholdPct,
	}
}

// Validate checks the configuration and returns an error listing every
// problem found. Out-of-range values are rejected, never clamped.
func (c *Config) Validate() error {
	var problems []string

	switch c.DataBackend {
	case "sqlite":
		if c.DBPath == "" {
			problems = append(problems, "database path cannot be empty when using the sqlite backend")
		}
	case "memory":
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be 'sqlite' or 'memory'", c.DataBackend))
	}

	one := decimal.NewFromInt(1)
	if !c.AmountTolerance.IsPositive() || c.AmountTolerance.GreaterThanOrEqual(one) {
		problems = append(problems, fmt.Sprintf("invalid amount tolerance %s: must be between 0 and 1 exclusive", c.AmountTolerance))
	}
	if c.MinOccurrences < 1 {
		problems = append(problems, fmt.Sprintf("invalid min occurrences %d: must be at least 1", c.MinOccurrences))
	}
	months := []struct {
		name  string
		value int
	}{
		{"recurring lookback", c.RecurringLookbackMonths},
		{"baseline lookback", c.BaselineLookbackMonths},
		{"trend months", c.TrendMonths},
	}
	for _, m := range months {
		if m.value < 1 || m.value > 12 {
			problems = append(problems, fmt.Sprintf("invalid %s %d: must be between 1 and 12 months", m.name, m.value))
		}
	}
	if !c.SpikeThresholdPct.IsPositive() {
		problems = append(problems, fmt.Sprintf("invalid spike threshold %s: must be greater than zero", c.SpikeThresholdPct))
	}
	if !c.SignificanceThresholdPct.IsPositive() {
		problems = append(problems, fmt.Sprintf("invalid significance threshold %s: must be greater than zero", c.SignificanceThresholdPct))
	}

	if c.AnalysisInterval < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid analysis interval %v: must be at least 1 minute", c.AnalysisInterval))
	}
	if c.AlertDedupTTL < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid alert dedup TTL %v: must be at least 1 minute", c.AlertDedupTTL))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.GoogleSpreadsheetID != "" {
		if c.ReportsSheetName == "" {
			problems = append(problems, "reports sheet name is required when sheets export is configured")
		}

		hasClientFile := c.GoogleOAuthClientFile != ""
		hasClientJSON := c.GoogleOAuthClientJSON != ""
		if !hasClientFile && !hasClientJSON {
			problems = append(problems, "either GOOGLE_OAUTH_CLIENT_FILE or GOOGLE_OAUTH_CLIENT_JSON must be provided for sheets export")
		}

		hasTokenFile := c.GoogleOAuthTokenFile != ""
		hasTokenJSON := c.GoogleOAuthTokenJSON != ""
		if !hasTokenFile && !hasTokenJSON {
			problems = append(problems, "either GOOGLE_OAUTH_TOKEN_FILE or GOOGLE_OAUTH_TOKEN_JSON must be provided for sheets export")
		}

		if hasClientFile {
			if _, err := os.Stat(c.GoogleOAuthClientFile); os.IsNotExist(err) {
				problems = append(problems, fmt.Sprintf("Google OAuth client file does not exist: %s", c.GoogleOAuthClientFile))
			}
		}
		if hasTokenFile {
			if _, err := os.Stat(c.GoogleOAuthTokenFile); os.IsNotExist(err) {
				problems = append(problems, fmt.Sprintf("Google OAuth token file does not exist: %s", c.GoogleOAuthTokenFile))
			}
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(defaultValue)
}
