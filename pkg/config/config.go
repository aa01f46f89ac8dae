package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Application settings
type Config struct {
	Server   ServerConfig
	Logging  LoggingConfig
	History  HistoryConfig
	Analysis AnalysisConfig
	Platform PlatformConfig
	Export   ExportConfig
}

// Server settings
type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
}

// HistoryConfig selects the history backend: json, sqlite or memory.
type HistoryConfig struct {
	Backend    string
	Path       string
	SQLitePath string
}

type AnalysisConfig struct {
	DefaultOrderCount int
	WorkerPoolSize    int
	MaxBatchRows      int
}

// PlatformConfig carries marketplace defaults: per-category commission
// rates and the thresholds used to flag risky scenarios.
type PlatformConfig struct {
	CommissionRates map[string]float64
	Risk            RiskConfig
}

type RiskConfig struct {
	LowProfit  float64
	HighRefund float64
	HighCost   float64
	HighAdCost float64
}

type ExportConfig struct {
	SinkURL            string
	SinkSecret         string
	RequestTimeout     time.Duration
	RateLimitPerSecond int
}

// Logging settings
type LoggingConfig struct {
	Level string
}

type configFile struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	History struct {
		Backend    string `yaml:"backend"`
		Path       string `yaml:"path"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"history"`
	Analysis struct {
		DefaultOrderCount int `yaml:"default_order_count"`
		WorkerPoolSize    int `yaml:"worker_pool_size"`
		MaxBatchRows      int `yaml:"max_batch_rows"`
	} `yaml:"analysis"`
	Platform struct {
		CommissionRates map[string]float64 `yaml:"commission_rates"`
		Risk            struct {
			LowProfit  float64 `yaml:"low_profit"`
			HighRefund float64 `yaml:"high_refund"`
			HighCost   float64 `yaml:"high_cost"`
			HighAdCost float64 `yaml:"high_ad_cost"`
		} `yaml:"risk"`
	} `yaml:"platform"`
	Export struct {
		SinkURL string `yaml:"sink_url"`
	} `yaml:"export"`
}

// DefaultCommissionRates is the category schedule used when no config
// file overrides it.
func DefaultCommissionRates() map[string]float64 {
	return map[string]float64{
		"general":  0.03,
		"digital":  0.05,
		"clothing": 0.04,
		"home":     0.035,
		"beauty":   0.06,
	}
}

// Load builds the configuration from defaults, an optional YAML file
// (CONFIG_FILE, default config.yaml) and finally environment variables.
func Load() (*Config, error) {
	return LoadFile(getEnv("CONFIG_FILE", "config.yaml"))
}

func LoadFile(path string) (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:           "8080",
			RequestTimeout: 30 * time.Second,
		},
		History: HistoryConfig{
			Backend:    "json",
			Path:       "data/analysis_history.json",
			SQLitePath: "data/history.db",
		},
		Analysis: AnalysisConfig{
			DefaultOrderCount: 100,
			WorkerPoolSize:    4,
			MaxBatchRows:      5000,
		},
		Platform: PlatformConfig{
			CommissionRates: DefaultCommissionRates(),
			Risk: RiskConfig{
				LowProfit:  0.10,
				HighRefund: 0.20,
				HighCost:   0.80,
				HighAdCost: 0.20,
			},
		},
		Export: ExportConfig{
			RequestTimeout:     10 * time.Second,
			RateLimitPerSecond: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}

	if path != "" {
		if err := applyFile(config, path); err != nil {
			return nil, err
		}
	}

	config.Server.Port = getEnv("PORT", config.Server.Port)
	config.Server.RequestTimeout = getDurationEnv("REQUEST_TIMEOUT", config.Server.RequestTimeout)
	config.Logging.Level = getEnv("LOG_LEVEL", config.Logging.Level)
	config.History.Backend = strings.ToLower(getEnv("HISTORY_BACKEND", config.History.Backend))
	config.History.Path = getEnv("HISTORY_PATH", config.History.Path)
	config.History.SQLitePath = getEnv("SQLITE_PATH", config.History.SQLitePath)
	config.Analysis.DefaultOrderCount = getIntEnv("DEFAULT_ORDER_COUNT", config.Analysis.DefaultOrderCount)
	config.Analysis.WorkerPoolSize = getIntEnv("WORKER_POOL_SIZE", config.Analysis.WorkerPoolSize)
	config.Analysis.MaxBatchRows = getIntEnv("MAX_BATCH_ROWS", config.Analysis.MaxBatchRows)
	config.Export.SinkURL = getEnv("SINK_URL", config.Export.SinkURL)
	config.Export.SinkSecret = getEnv("SINK_SECRET", config.Export.SinkSecret)
	config.Export.RequestTimeout = getDurationEnv("SINK_TIMEOUT", config.Export.RequestTimeout)
	config.Export.RateLimitPerSecond = getIntEnv("RATE_LIMIT_PER_SECOND", config.Export.RateLimitPerSecond)

	switch config.History.Backend {
	case "json", "sqlite", "memory":
	default:
		return nil, fmt.Errorf("unknown history backend %q", config.History.Backend)
	}

	return config, nil
}

func applyFile(config *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if f.Server.Port != "" {
		config.Server.Port = f.Server.Port
	}
	if f.History.Backend != "" {
		config.History.Backend = f.History.Backend
	}
	if f.History.Path != "" {
		config.History.Path = f.History.Path
	}
	if f.History.SQLitePath != "" {
		config.History.SQLitePath = f.History.SQLitePath
	}
	if f.Analysis.DefaultOrderCount > 0 {
		config.Analysis.DefaultOrderCount = f.Analysis.DefaultOrderCount
	}
	if f.Analysis.WorkerPoolSize > 0 {
		config.Analysis.WorkerPoolSize = f.Analysis.WorkerPoolSize
	}
	if f.Analysis.MaxBatchRows > 0 {
		config.Analysis.MaxBatchRows = f.Analysis.MaxBatchRows
	}
	for category, rate := range f.Platform.CommissionRates {
		config.Platform.CommissionRates[strings.ToLower(category)] = rate
	}
	if f.Platform.Risk.LowProfit > 0 {
		config.Platform.Risk.LowProfit = f.Platform.Risk.LowProfit
	}
	if f.Platform.Risk.HighRefund > 0 {
		config.Platform.Risk.HighRefund = f.Platform.Risk.HighRefund
	}
	if f.Platform.Risk.HighCost > 0 {
		config.Platform.Risk.HighCost = f.Platform.Risk.HighCost
	}
	if f.Platform.Risk.HighAdCost > 0 {
		config.Platform.Risk.HighAdCost = f.Platform.Risk.HighAdCost
	}
	if f.Export.SinkURL != "" {
		config.Export.SinkURL = f.Export.SinkURL
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
