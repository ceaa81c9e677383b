// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Model    ModelConfig    `mapstructure:"model"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address      string `mapstructure:"address"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // seconds
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig controls the write-through result cache. TTL is a deployment
// choice, not a correctness requirement of the engine.
type CacheConfig struct {
	KeyPrefix string `mapstructure:"key_prefix"`
	TTLHours  int    `mapstructure:"ttl_hours"`
}

// TTL returns the configured cache expiry as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// ModelConfig locates the optional trained estimator artifact. The artifact
// is read-only input; a missing or broken artifact means fallback scoring,
// never a startup failure.
type ModelConfig struct {
	Path       string `mapstructure:"path"`
	ReloadCron string `mapstructure:"reload_cron"` // empty disables scheduled reload
}

// AnalysisConfig holds the statistical thresholds of the pattern analyzer and
// insight generator.
type AnalysisConfig struct {
	MinDataPoints     int            `mapstructure:"min_data_points"`
	SeasonalityStdDev float64        `mapstructure:"seasonality_stddev"`
	Risk              RiskThresholds `mapstructure:"risk"`
}

// RiskThresholds gate the risk indicators in the insight generator.
type RiskThresholds struct {
	IncomeStability       float64 `mapstructure:"income_stability"`
	ExpenditureVolatility float64 `mapstructure:"expenditure_volatility"`
	LoanUtilization       float64 `mapstructure:"loan_utilization"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "credit-engine"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "1.0"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = "localhost:6379"
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = "credit_score"
	}
	if cfg.Cache.TTLHours == 0 {
		cfg.Cache.TTLHours = 24
	}
	if cfg.Model.Path == "" {
		cfg.Model.Path = "models/credit_scoring_model.json"
	}
	if cfg.Analysis.MinDataPoints == 0 {
		cfg.Analysis.MinDataPoints = 10
	}
	if cfg.Analysis.SeasonalityStdDev == 0 {
		cfg.Analysis.SeasonalityStdDev = 0.1
	}
	if cfg.Analysis.Risk.IncomeStability == 0 {
		cfg.Analysis.Risk.IncomeStability = 0.7
	}
	if cfg.Analysis.Risk.ExpenditureVolatility == 0 {
		cfg.Analysis.Risk.ExpenditureVolatility = 0.5
	}
	if cfg.Analysis.Risk.LoanUtilization == 0 {
		cfg.Analysis.Risk.LoanUtilization = 0.8
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Analysis.MinDataPoints < 2 {
		return fmt.Errorf("analysis.min_data_points must be at least 2, got %d", cfg.Analysis.MinDataPoints)
	}
	if cfg.Cache.TTLHours < 0 {
		return fmt.Errorf("cache.ttl_hours must not be negative, got %d", cfg.Cache.TTLHours)
	}
	if cfg.Analysis.Risk.IncomeStability < 0 || cfg.Analysis.Risk.IncomeStability > 1 {
		return fmt.Errorf("analysis.risk.income_stability must be in [0,1], got %f", cfg.Analysis.Risk.IncomeStability)
	}
	if cfg.Analysis.Risk.LoanUtilization < 0 || cfg.Analysis.Risk.LoanUtilization > 1 {
		return fmt.Errorf("analysis.risk.loan_utilization must be in [0,1], got %f", cfg.Analysis.Risk.LoanUtilization)
	}
	return nil
}

// Default returns a config with all defaults applied, for tests and for
// callers that embed the engine without a config file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
