package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"FundSentinel/internal/model"
)

// Config holds all application configuration. It is loaded once at startup
// and passed into components explicitly; nothing reads it ambiently.
type Config struct {
	Fund struct {
		ManagerURL   string   `yaml:"manager_url"`
		APIKey       string   `yaml:"api_key"`
		FundID       string   `yaml:"fund_id"`
		AssetCount   int      `yaml:"asset_count"`
		AssetSymbols []string `yaml:"asset_symbols"`
	} `yaml:"fund"`
	Rebalance struct {
		ThresholdBPS       int64   `yaml:"threshold_bps"`
		GasLimit           uint64  `yaml:"gas_limit"`
		CallTimeoutSeconds int     `yaml:"call_timeout_seconds"`
		FallbackWeightsBPS []int64 `yaml:"fallback_weights_bps"`
	} `yaml:"rebalance"`
	Signal struct {
		Source    string `yaml:"source"` // sentiment, rotation or static
		Sentiment struct {
			BaseURL string `yaml:"base_url"`
			APIKey  string `yaml:"api_key"`
		} `yaml:"sentiment"`
		Rotation struct {
			PeriodHours int       `yaml:"period_hours"`
			ProfilesBPS [][]int64 `yaml:"profiles_bps"`
		} `yaml:"rotation"`
		Static struct {
			WeightsBPS []int64 `yaml:"weights_bps"`
			SignalID   string  `yaml:"signal_id"`
			Rationale  string  `yaml:"rationale"`
		} `yaml:"static"`
	} `yaml:"signal"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Database struct {
		// SQLitePath is the ledger database file. The literal value
		// "memory" selects a non-durable in-memory ledger.
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

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
	if v := os.Getenv("FUND_MANAGER_URL"); v != "" {
		cfg.Fund.ManagerURL = v
	}
	if v := os.Getenv("FUND_MANAGER_API_KEY"); v != "" {
		cfg.Fund.APIKey = v
	}
	if v := os.Getenv("FUND_ID"); v != "" {
		cfg.Fund.FundID = v
	}
	if v := os.Getenv("FUND_ASSET_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fund.AssetCount = n
		}
	}
	if v := os.Getenv("DRIFT_THRESHOLD_BPS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Rebalance.ThresholdBPS = n
		}
	}
	if v := os.Getenv("GAS_LIMIT"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Rebalance.GasLimit = n
		}
	}
	if v := os.Getenv("SIGNAL_SOURCE"); v != "" {
		cfg.Signal.Source = v
	}
	if v := os.Getenv("SENTIMENT_BASE_URL"); v != "" {
		cfg.Signal.Sentiment.BaseURL = v
	}
	if v := os.Getenv("SENTIMENT_API_KEY"); v != "" {
		cfg.Signal.Sentiment.APIKey = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Rebalance.ThresholdBPS == 0 {
		cfg.Rebalance.ThresholdBPS = 200
	}
	if cfg.Rebalance.GasLimit == 0 {
		cfg.Rebalance.GasLimit = 500000
	}
	if cfg.Rebalance.CallTimeoutSeconds == 0 {
		cfg.Rebalance.CallTimeoutSeconds = 30
	}
	if cfg.Signal.Source == "" {
		cfg.Signal.Source = "sentiment"
	}
	if cfg.Signal.Rotation.PeriodHours == 0 {
		cfg.Signal.Rotation.PeriodHours = 24
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 0 * * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/signal_ledger.db"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and coherent. Failures
// here are configuration errors: fatal at startup, never per cycle.
func (c *Config) Validate() error {
	if c.Fund.ManagerURL == "" {
		return fmt.Errorf("fund.manager_url is required")
	}
	if c.Fund.APIKey == "" {
		return fmt.Errorf("fund.api_key is required")
	}
	if c.Fund.FundID == "" {
		return fmt.Errorf("fund.fund_id is required")
	}
	if c.Fund.AssetCount <= 0 {
		return fmt.Errorf("fund.asset_count must be positive")
	}
	if len(c.Fund.AssetSymbols) > 0 && len(c.Fund.AssetSymbols) != c.Fund.AssetCount {
		return fmt.Errorf("fund.asset_symbols has %d entries, asset_count is %d", len(c.Fund.AssetSymbols), c.Fund.AssetCount)
	}
	if c.Rebalance.ThresholdBPS < 0 {
		return fmt.Errorf("rebalance.threshold_bps must not be negative")
	}
	if w := c.FallbackWeights(); w != nil {
		if err := w.Validate(c.Fund.AssetCount); err != nil {
			return fmt.Errorf("rebalance.fallback_weights_bps: %w", err)
		}
	}

	switch c.Signal.Source {
	case "sentiment":
		if c.Signal.Sentiment.BaseURL == "" {
			return fmt.Errorf("signal.sentiment.base_url is required for the sentiment source")
		}
	case "rotation":
		if len(c.Signal.Rotation.ProfilesBPS) == 0 {
			return fmt.Errorf("signal.rotation.profiles_bps is required for the rotation source")
		}
		for i, p := range c.RotationProfiles() {
			if err := p.Validate(c.Fund.AssetCount); err != nil {
				return fmt.Errorf("signal.rotation.profiles_bps[%d]: %w", i, err)
			}
		}
	case "static":
		if err := c.StaticWeights().Validate(c.Fund.AssetCount); err != nil {
			return fmt.Errorf("signal.static.weights_bps: %w", err)
		}
	default:
		return fmt.Errorf("signal.source must be sentiment, rotation or static, got %q", c.Signal.Source)
	}
	return nil
}

// CallTimeout is the bound applied to each external call.
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.Rebalance.CallTimeoutSeconds) * time.Second
}

// FallbackWeights returns the configured fallback vector, or nil when the
// equal-split default should be used.
func (c *Config) FallbackWeights() model.WeightVector {
	if len(c.Rebalance.FallbackWeightsBPS) == 0 {
		return nil
	}
	return model.WeightVector(c.Rebalance.FallbackWeightsBPS).Clone()
}

// RotationProfiles converts the configured rotation profiles.
func (c *Config) RotationProfiles() []model.WeightVector {
	out := make([]model.WeightVector, len(c.Signal.Rotation.ProfilesBPS))
	for i, p := range c.Signal.Rotation.ProfilesBPS {
		out[i] = model.WeightVector(p).Clone()
	}
	return out
}

// StaticWeights returns the static source's vector.
func (c *Config) StaticWeights() model.WeightVector {
	return model.WeightVector(c.Signal.Static.WeightsBPS).Clone()
}
