package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ValueScope/internal/currency"
	"ValueScope/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Timeout    time.Duration `yaml:"timeout"`
		MaxRetries int           `yaml:"max_retries"`
		UserAgent  string        `yaml:"user_agent"`
	} `yaml:"data_source"`
	FX struct {
		Currencies  []string      `yaml:"currencies"`
		RefreshCron string        `yaml:"refresh_cron"`
		TTL         time.Duration `yaml:"ttl"`
	} `yaml:"fx"`
	Schedule struct {
		DigestCron string   `yaml:"digest_cron"`
		Watchlist  []string `yaml:"watchlist"`
	} `yaml:"schedule"`
	Defaults  Defaults `yaml:"defaults"`
	Annotator struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"annotator"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// Defaults seeds requests that do not specify a value.
type Defaults struct {
	Currency      string  `yaml:"currency"`
	Language      string  `yaml:"language"`
	HorizonYears  int     `yaml:"horizon_years"`
	InitialAmount float64 `yaml:"initial_amount"`
	MonthlyAmount float64 `yaml:"monthly_amount"`
}

// Request builds a request for ticker from the defaults.
func (d Defaults) Request(ticker string) model.Request {
	return model.Request{
		Ticker:          ticker,
		DisplayCurrency: d.Currency,
		Language:        model.ParseLanguage(d.Language),
		HorizonYears:    d.HorizonYears,
		InitialAmount:   d.InitialAmount,
		MonthlyAmount:   d.MonthlyAmount,
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
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
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Annotator.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("FX_REFRESH_CRON"); v != "" {
		cfg.FX.RefreshCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.DataSource.MaxRetries == 0 {
		c.DataSource.MaxRetries = 3
	}
	if len(c.FX.Currencies) == 0 {
		c.FX.Currencies = []string{"CAD", "KRW", "EUR", "GBP", "JPY"}
	}
	for i, code := range c.FX.Currencies {
		c.FX.Currencies[i] = strings.ToUpper(strings.TrimSpace(code))
	}
	if c.FX.RefreshCron == "" {
		c.FX.RefreshCron = "0 0 * * * *"
	}
	if c.FX.TTL == 0 {
		c.FX.TTL = time.Hour
	}
	if c.Schedule.DigestCron == "" {
		c.Schedule.DigestCron = "0 0 8 * * 1"
	}
	if c.Defaults.Currency == "" {
		c.Defaults.Currency = "USD"
	}
	c.Defaults.Currency = strings.ToUpper(c.Defaults.Currency)
	if c.Defaults.Language == "" {
		c.Defaults.Language = string(model.LangKO)
	}
	if c.Defaults.HorizonYears == 0 {
		c.Defaults.HorizonYears = 10
	}
	if c.Defaults.InitialAmount == 0 {
		c.Defaults.InitialAmount = 1000
	}
	if c.Defaults.MonthlyAmount == 0 {
		c.Defaults.MonthlyAmount = 200
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// Validate checks value ranges. Telegram settings are checked by ValidateBot.
func (c *Config) Validate() error {
	defaults := currency.DefaultRates()
	if !defaults.Has(c.Defaults.Currency) {
		return fmt.Errorf("defaults.currency %q is not a supported display currency", c.Defaults.Currency)
	}
	for _, code := range c.FX.Currencies {
		if !defaults.Has(code) {
			return fmt.Errorf("fx.currencies: %q has no default rate", code)
		}
	}
	if c.Defaults.HorizonYears < model.MinHorizonYears || c.Defaults.HorizonYears > model.MaxHorizonYears {
		return fmt.Errorf("defaults.horizon_years must be between %d and %d", model.MinHorizonYears, model.MaxHorizonYears)
	}
	if c.Defaults.InitialAmount < 0 || c.Defaults.MonthlyAmount < 0 {
		return fmt.Errorf("defaults amounts must not be negative")
	}
	if c.DataSource.Timeout <= 0 {
		return fmt.Errorf("data_source.timeout must be positive")
	}
	if c.DataSource.MaxRetries < 0 {
		return fmt.Errorf("data_source.max_retries must not be negative")
	}
	if c.FX.TTL <= 0 {
		return fmt.Errorf("fx.ttl must be positive")
	}
	return nil
}

// ValidateBot checks the settings required by the Telegram surface.
func (c *Config) ValidateBot() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}

// TelegramEnabled reports whether a bot token and chat are configured.
func (c *Config) TelegramEnabled() bool {
	return c.ValidateBot() == nil
}
