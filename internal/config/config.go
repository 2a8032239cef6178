package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"stock-move-alerts/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Quotes    QuotesConfig    `mapstructure:"quotes"`
	Alerting  AlertingConfig  `mapstructure:"alerting"`
	Crossover CrossoverConfig `mapstructure:"crossover"`
	Briefing  BriefingConfig  `mapstructure:"briefing"`
	Export    ExportConfig    `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity for the trade journal.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig covers the remote de-duplication store. Optional: an empty
// address degrades de-duplication to the process-local snapshot store.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// TelegramConfig describes the notification channel.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// QuotesConfig captures quote provider connectivity.
type QuotesConfig struct {
	YahooBaseURL   string        `mapstructure:"yahoo_base_url"`
	BinanceBaseURL string        `mapstructure:"binance_base_url"`
	NaverBaseURL   string        `mapstructure:"naver_base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// AlertingConfig defines the price-move alert pipeline tunables.
type AlertingConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	CheckInterval time.Duration `mapstructure:"check_interval"`
	Cooldown      time.Duration `mapstructure:"cooldown"`
	MinInterval   time.Duration `mapstructure:"min_interval"`
	SnapshotPath  string        `mapstructure:"snapshot_path"`
}

// CrossoverConfig tunes the moving-average tracker.
type CrossoverConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Symbol        string        `mapstructure:"symbol"`
	Period        int           `mapstructure:"period"`
	HistoryRange  string        `mapstructure:"history_range"`
	CheckInterval time.Duration `mapstructure:"check_interval"`
}

// BriefingConfig schedules the daily market summaries.
type BriefingConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	MorningAt string        `mapstructure:"morning_at"`
	EveningAt string        `mapstructure:"evening_at"`
	Timezone  string        `mapstructure:"timezone"`
	MarkerTTL time.Duration `mapstructure:"marker_ttl"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxDataPoints int `mapstructure:"max_data_points"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STOCKWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "stockwatch")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")

	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.api_base", "https://api.telegram.org")

	v.SetDefault("quotes.yahoo_base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("quotes.binance_base_url", "https://api.binance.com")
	v.SetDefault("quotes.naver_base_url", "https://m.stock.naver.com")
	v.SetDefault("quotes.request_timeout", "10s")
	v.SetDefault("quotes.user_agent", "stockwatch/1.0")

	v.SetDefault("alerting.enabled", true)
	v.SetDefault("alerting.check_interval", "5m")
	v.SetDefault("alerting.cooldown", "24h")
	v.SetDefault("alerting.min_interval", "30m")
	v.SetDefault("alerting.snapshot_path", "data/alert_history.json")

	v.SetDefault("crossover.enabled", true)
	v.SetDefault("crossover.symbol", "TQQQ")
	v.SetDefault("crossover.period", 193)
	v.SetDefault("crossover.history_range", "3y")
	v.SetDefault("crossover.check_interval", "15m")

	v.SetDefault("briefing.enabled", true)
	v.SetDefault("briefing.morning_at", "08:00")
	v.SetDefault("briefing.evening_at", "18:00")
	v.SetDefault("briefing.timezone", "Asia/Seoul")
	v.SetDefault("briefing.marker_ttl", "12h")

	v.SetDefault("export.max_data_points", 100000)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Alerting.CheckInterval <= 0 {
		return fmt.Errorf("alerting.check_interval must be greater than zero")
	}
	if c.Alerting.Cooldown <= 0 {
		return fmt.Errorf("alerting.cooldown must be greater than zero")
	}
	if c.Alerting.MinInterval < 0 {
		return fmt.Errorf("alerting.min_interval cannot be negative")
	}
	if c.Crossover.Period <= 0 {
		return fmt.Errorf("crossover.period must be greater than zero")
	}
	if c.Crossover.Enabled && c.Crossover.CheckInterval <= 0 {
		return fmt.Errorf("crossover.check_interval must be greater than zero")
	}
	if c.Crossover.Symbol == "" {
		return fmt.Errorf("crossover.symbol is required")
	}
	if c.Briefing.Enabled {
		if _, err := time.Parse("15:04", c.Briefing.MorningAt); err != nil {
			return fmt.Errorf("briefing.morning_at must be HH:MM: %w", err)
		}
		if _, err := time.Parse("15:04", c.Briefing.EveningAt); err != nil {
			return fmt.Errorf("briefing.evening_at must be HH:MM: %w", err)
		}
		if _, err := time.LoadLocation(c.Briefing.Timezone); err != nil {
			return fmt.Errorf("briefing.timezone: %w", err)
		}
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	if c.Export.MaxDataPoints <= 0 {
		return fmt.Errorf("export.max_data_points must be greater than zero")
	}
	return nil
}
