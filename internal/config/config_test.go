package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/analysis"
)

func validConfig() Config {
	return Config{
		DataBackend:              "sqlite",
		DBPath:                   "data/finsight.db",
		MemorySeedDir:            "data",
		AmountTolerance:          decimal.RequireFromString("0.10"),
		MinOccurrences:           3,
		RecurringLookbackMonths:  6,
		BaselineLookbackMonths:   3,
		TrendMonths:              6,
		SpikeThresholdPct:        decimal.NewFromInt(50),
		SignificanceThresholdPct: decimal.NewFromInt(20),
		AnalysisInterval:         24 * time.Hour,
		AlertDedupTTL:            72 * time.Hour,
		AMQPExchange:             "finsight.alerts",
		AMQPQueue:                "spending_alerts",
		LogLevel:                 "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid sqlite config",
			mutate: func(c *Config) {},
		},
		{
			name: "memory backend needs no database path",
			mutate: func(c *Config) {
				c.DataBackend = "memory"
				c.DBPath = ""
			},
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "postgres" },
			wantErr:     true,
			errorString: "invalid data backend 'postgres'",
		},
		{
			name:        "sqlite backend missing database path",
			mutate:      func(c *Config) { c.DBPath = "" },
			wantErr:     true,
			errorString: "database path cannot be empty",
		},
		{
			name:        "tolerance at zero",
			mutate:      func(c *Config) { c.AmountTolerance = decimal.Zero },
			wantErr:     true,
			errorString: "invalid amount tolerance",
		},
		{
			name:        "tolerance at one",
			mutate:      func(c *Config) { c.AmountTolerance = decimal.NewFromInt(1) },
			wantErr:     true,
			errorString: "invalid amount tolerance",
		},
		{
			name:        "min occurrences below one",
			mutate:      func(c *Config) { c.MinOccurrences = 0 },
			wantErr:     true,
			errorString: "invalid min occurrences",
		},
		{
			name:        "recurring lookback above twelve",
			mutate:      func(c *Config) { c.RecurringLookbackMonths = 13 },
			wantErr:     true,
			errorString: "invalid recurring lookback 13",
		},
		{
			name:        "baseline lookback below one",
			mutate:      func(c *Config) { c.BaselineLookbackMonths = 0 },
			wantErr:     true,
			errorString: "invalid baseline lookback 0",
		},
		{
			name:        "trend months above twelve",
			mutate:      func(c *Config) { c.TrendMonths = 24 },
			wantErr:     true,
			errorString: "invalid trend months 24",
		},
		{
			name:        "spike threshold at zero",
			mutate:      func(c *Config) { c.SpikeThresholdPct = decimal.Zero },
			wantErr:     true,
			errorString: "invalid spike threshold",
		},
		{
			name:        "negative significance threshold",
			mutate:      func(c *Config) { c.SignificanceThresholdPct = decimal.NewFromInt(-20) },
			wantErr:     true,
			errorString: "invalid significance threshold",
		},
		{
			name:        "analysis interval too short",
			mutate:      func(c *Config) { c.AnalysisInterval = 30 * time.Second },
			wantErr:     true,
			errorString: "invalid analysis interval 30s: must be at least 1 minute",
		},
		{
			name:        "alert dedup TTL too short",
			mutate:      func(c *Config) { c.AlertDedupTTL = 10 * time.Second },
			wantErr:     true,
			errorString: "invalid alert dedup TTL",
		},
		{
			name:        "invalid AMQP URL scheme",
			mutate:      func(c *Config) { c.AMQPURL = "http://localhost:5672/" },
			wantErr:     true,
			errorString: "invalid AMQP URL scheme 'http': must be 'amqp' or 'amqps'",
		},
		{
			name: "AMQP URL without exchange",
			mutate: func(c *Config) {
				c.AMQPURL = "amqp://localhost:5672/"
				c.AMQPExchange = ""
			},
			wantErr:     true,
			errorString: "AMQP exchange name cannot be empty when AMQP URL is provided",
		},
		{
			name: "AMQP URL without queue",
			mutate: func(c *Config) {
				c.AMQPURL = "amqp://localhost:5672/"
				c.AMQPQueue = ""
			},
			wantErr:     true,
			errorString: "AMQP queue name cannot be empty when AMQP URL is provided",
		},
		{
			name: "sheets export missing sheet name",
			mutate: func(c *Config) {
				c.GoogleSpreadsheetID = "123456789"
				c.GoogleOAuthClientJSON = "{}"
				c.GoogleOAuthTokenJSON = "{}"
			},
			wantErr:     true,
			errorString: "reports sheet name is required when sheets export is configured",
		},
		{
			name: "sheets export missing OAuth client",
			mutate: func(c *Config) {
				c.GoogleSpreadsheetID = "123456789"
				c.ReportsSheetName = "Reports"
				c.GoogleOAuthTokenJSON = "{}"
			},
			wantErr:     true,
			errorString: "either GOOGLE_OAUTH_CLIENT_FILE or GOOGLE_OAUTH_CLIENT_JSON must be provided for sheets export",
		},
		{
			name: "sheets export missing OAuth token",
			mutate: func(c *Config) {
				c.GoogleSpreadsheetID = "123456789"
				c.ReportsSheetName = "Reports"
				c.GoogleOAuthClientJSON = "{}"
			},
			wantErr:     true,
			errorString: "either GOOGLE_OAUTH_TOKEN_FILE or GOOGLE_OAUTH_TOKEN_JSON must be provided for sheets export",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else {
				if err != nil {
					t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestConfig_ValidateListsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.MinOccurrences = 0
	cfg.TrendMonths = 13

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Config.Validate() error = nil, want error")
	}
	for _, want := range []string{"invalid min occurrences 0", "invalid trend months 13"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), want)
		}
	}
}

func TestConfig_ValidateWithFiles(t *testing.T) {
	tmpDir := t.TempDir()

	clientFile := filepath.Join(tmpDir, "client.json")
	tokenFile := filepath.Join(tmpDir, "token.json")

	if err := os.WriteFile(clientFile, []byte(`{"client_id":"test"}`), 0644); err != nil {
		t.Fatalf("Failed to create test client file: %v", err)
	}
	if err := os.WriteFile(tokenFile, []byte(`{"access_token":"test"}`), 0644); err != nil {
		t.Fatalf("Failed to create test token file: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name: "valid sheets export with files",
			mutate: func(c *Config) {
				c.GoogleSpreadsheetID = "123456789"
				c.ReportsSheetName = "Reports"
				c.GoogleOAuthClientFile = clientFile
				c.GoogleOAuthTokenFile = tokenFile
			},
		},
		{
			name: "sheets export with non-existent client file",
			mutate: func(c *Config) {
				c.GoogleSpreadsheetID = "123456789"
				c.ReportsSheetName = "Reports"
				c.GoogleOAuthClientFile = "/non/existent/file.json"
				c.GoogleOAuthTokenJSON = "{}"
			},
			wantErr: true,
		},
		{
			name: "sheets export with non-existent token file",
			mutate: func(c *Config) {
				c.GoogleSpreadsheetID = "123456789"
				c.ReportsSheetName = "Reports"
				c.GoogleOAuthClientJSON = "{}"
				c.GoogleOAuthTokenFile = "/non/existent/file.json"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	keys := []string{
		"DATA_BACKEND", "FINSIGHT_DB_PATH", "MEMORY_SEED_DIR",
		"AMOUNT_TOLERANCE", "MIN_OCCURRENCES", "RECURRING_LOOKBACK_MONTHS",
		"BASELINE_LOOKBACK_MONTHS", "TREND_MONTHS", "SPIKE_THRESHOLD_PCT",
		"SIGNIFICANCE_THRESHOLD_PCT", "ANALYSIS_INTERVAL", "ALERT_DEDUP_TTL",
		"AMQP_URL", "AMQP_EXCHANGE", "AMQP_QUEUE", "LOG_LEVEL",
	}
	clearEnv := func(t *testing.T) {
		t.Helper()
		for _, key := range keys {
			t.Setenv(key, "")
		}
	}

	t.Run("default values", func(t *testing.T) {
		clearEnv(t)
		cfg := Load()

		if cfg.DataBackend != "sqlite" {
			t.Errorf("Load() DataBackend = %v, want sqlite", cfg.DataBackend)
		}
		if cfg.DBPath != "data/finsight.db" {
			t.Errorf("Load() DBPath = %v, want data/finsight.db", cfg.DBPath)
		}
		if cfg.MemorySeedDir != "data" {
			t.Errorf("Load() MemorySeedDir = %v, want data", cfg.MemorySeedDir)
		}
		if !cfg.AmountTolerance.Equal(decimal.RequireFromString("0.10")) {
			t.Errorf("Load() AmountTolerance = %v, want 0.10", cfg.AmountTolerance)
		}
		if cfg.MinOccurrences != 3 {
			t.Errorf("Load() MinOccurrences = %v, want 3", cfg.MinOccurrences)
		}
		if cfg.AnalysisInterval != 24*time.Hour {
			t.Errorf("Load() AnalysisInterval = %v, want 24h", cfg.AnalysisInterval)
		}
		if cfg.AlertDedupTTL != 72*time.Hour {
			t.Errorf("Load() AlertDedupTTL = %v, want 72h", cfg.AlertDedupTTL)
		}
		if cfg.AMQPExchange != "finsight.alerts" {
			t.Errorf("Load() AMQPExchange = %v, want finsight.alerts", cfg.AMQPExchange)
		}
		if cfg.AMQPQueue != "spending_alerts" {
			t.Errorf("Load() AMQPQueue = %v, want spending_alerts", cfg.AMQPQueue)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("Load() LogLevel = %v, want info", cfg.LogLevel)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("default config should validate, got %v", err)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATA_BACKEND", "memory")
		t.Setenv("FINSIGHT_DB_PATH", "/tmp/test.db")
		t.Setenv("AMOUNT_TOLERANCE", "0.25")
		t.Setenv("MIN_OCCURRENCES", "2")
		t.Setenv("ANALYSIS_INTERVAL", "1h")
		t.Setenv("LOG_LEVEL", "debug")

		cfg := Load()

		if cfg.DataBackend != "memory" {
			t.Errorf("Load() DataBackend = %v, want memory", cfg.DataBackend)
		}
		if cfg.DBPath != "/tmp/test.db" {
			t.Errorf("Load() DBPath = %v, want /tmp/test.db", cfg.DBPath)
		}
		if !cfg.AmountTolerance.Equal(decimal.RequireFromString("0.25")) {
			t.Errorf("Load() AmountTolerance = %v, want 0.25", cfg.AmountTolerance)
		}
		if cfg.MinOccurrences != 2 {
			t.Errorf("Load() MinOccurrences = %v, want 2", cfg.MinOccurrences)
		}
		if cfg.AnalysisInterval != time.Hour {
			t.Errorf("Load() AnalysisInterval = %v, want 1h", cfg.AnalysisInterval)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("AMOUNT_TOLERANCE", "lots")
		t.Setenv("MIN_OCCURRENCES", "several")
		t.Setenv("ANALYSIS_INTERVAL", "soon")

		cfg := Load()

		if !cfg.AmountTolerance.Equal(decimal.RequireFromString("0.10")) {
			t.Errorf("Load() AmountTolerance = %v, want 0.10 (default for invalid input)", cfg.AmountTolerance)
		}
		if cfg.MinOccurrences != 3 {
			t.Errorf("Load() MinOccurrences = %v, want 3 (default for invalid input)", cfg.MinOccurrences)
		}
		if cfg.AnalysisInterval != 24*time.Hour {
			t.Errorf("Load() AnalysisInterval = %v, want 24h (default for invalid input)", cfg.AnalysisInterval)
		}
	})
}

func TestAnalysisConfigBridge(t *testing.T) {
	cfg := validConfig()
	cfg.MinOccurrences = 4
	cfg.TrendMonths = 9

	got := cfg.AnalysisConfig()
	if got.MinOccurrences != 4 || got.TrendMonths != 9 {
		t.Fatalf("AnalysisConfig() = %+v, want fields carried over", got)
	}
	if !got.AmountTolerance.Equal(cfg.AmountTolerance) {
		t.Fatalf("AnalysisConfig() AmountTolerance = %v, want %v", got.AmountTolerance, cfg.AmountTolerance)
	}
	if _, err := analysis.New(got); err != nil {
		t.Fatalf("analysis.New(AnalysisConfig()) = %v, want engine", err)
	}
}
