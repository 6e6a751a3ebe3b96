package config

import (
	"fmt"
	"time"

	"golang-ai-trader/pkg/config"
)

// Trading holds the decision-and-risk pipeline configuration.
type Trading struct {
	Watchlist       []string      `mapstructure:"watchlist"`
	MinConfidence   float64       `mapstructure:"min_confidence"`
	MaxDailyTrades  int           `mapstructure:"max_daily_trades"`
	MaxPositionSize float64       `mapstructure:"max_position_size"`
	RiskTolerance   string        `mapstructure:"risk_tolerance"`
	InitialBalance  float64       `mapstructure:"initial_balance"`
	SymbolDelay     time.Duration `mapstructure:"symbol_delay"`
	CycleInterval   time.Duration `mapstructure:"cycle_interval"`
}

// Discovery holds the periodic candidate-scan configuration.
type Discovery struct {
	Enabled         bool          `mapstructure:"enabled"`
	PriceMin        float64       `mapstructure:"price_min"`
	PriceMax        float64       `mapstructure:"price_max"`
	MaxNewPositions int           `mapstructure:"max_new_positions"`
	IntervalCycles  int           `mapstructure:"interval_cycles"`
	BudgetPerTrade  float64       `mapstructure:"budget_per_trade"`
	ScanDelay       time.Duration `mapstructure:"scan_delay"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	Model               string        `mapstructure:"model"`
	BaseURL             string        `mapstructure:"base_url"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
	RateLimitCooldown   time.Duration `mapstructure:"rate_limit_cooldown"`
}

// Alpaca holds the brokerage API configuration.
type Alpaca struct {
	BaseURL   string `mapstructure:"base_url"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
}

// YahooFinance holds the configuration for the Yahoo Finance API.
type YahooFinance struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the trading service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	API          config.API      `mapstructure:"api"`
	Trading      Trading         `mapstructure:"trading"`
	Discovery    Discovery       `mapstructure:"discovery"`
	Gemini       Gemini          `mapstructure:"gemini"`
	Alpaca       Alpaca          `mapstructure:"alpaca"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	Telegram     Telegram        `mapstructure:"telegram"`
}

// Load loads the trader configuration from the given path and applies
// defaults for every optional knob. Missing credentials are a startup fault;
// the process must not begin a cycle without them.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Trading.Watchlist) == 0 {
		c.Trading.Watchlist = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "CRM", "PLD", "AVGO"}
	}
	if c.Trading.MinConfidence == 0 {
		c.Trading.MinConfidence = 0.70
	}
	if c.Trading.MaxDailyTrades == 0 {
		c.Trading.MaxDailyTrades = 10
	}
	if c.Trading.MaxPositionSize == 0 {
		c.Trading.MaxPositionSize = 0.10
	}
	if c.Trading.RiskTolerance == "" {
		c.Trading.RiskTolerance = "moderate"
	}
	if c.Trading.InitialBalance == 0 {
		c.Trading.InitialBalance = 100000
	}
	if c.Trading.SymbolDelay == 0 {
		c.Trading.SymbolDelay = 5 * time.Second
	}
	if c.Trading.CycleInterval == 0 {
		c.Trading.CycleInterval = 30 * time.Minute
	}

	if c.Discovery.PriceMin == 0 {
		c.Discovery.PriceMin = 2000
	}
	if c.Discovery.PriceMax == 0 {
		c.Discovery.PriceMax = 3000
	}
	if c.Discovery.MaxNewPositions == 0 {
		c.Discovery.MaxNewPositions = 3
	}
	if c.Discovery.IntervalCycles == 0 {
		c.Discovery.IntervalCycles = 2
	}
	if c.Discovery.BudgetPerTrade == 0 {
		c.Discovery.BudgetPerTrade = 10000
	}
	if c.Discovery.ScanDelay == 0 {
		c.Discovery.ScanDelay = 2 * time.Second
	}

	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-1.5-pro"
	}
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	if c.Gemini.MaxRequestPerMinute == 0 {
		c.Gemini.MaxRequestPerMinute = 10
	}
	if c.Gemini.MaxTokenPerMinute == 0 {
		c.Gemini.MaxTokenPerMinute = 100000
	}
	if c.Gemini.RateLimitCooldown == 0 {
		c.Gemini.RateLimitCooldown = 60 * time.Second
	}

	if c.Alpaca.BaseURL == "" {
		c.Alpaca.BaseURL = "https://paper-api.alpaca.markets"
	}

	if c.YahooFinance.BaseURL == "" {
		c.YahooFinance.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.YahooFinance.MaxRequestPerMinute == 0 {
		c.YahooFinance.MaxRequestPerMinute = 30
	}
}

func (c *Config) validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini.api_key is required")
	}
	if c.Alpaca.APIKey == "" || c.Alpaca.APISecret == "" {
		return fmt.Errorf("alpaca.api_key and alpaca.api_secret are required")
	}
	return nil
}
