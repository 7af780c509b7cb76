package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/irfndi/paragon-ai-go/internal/analytics"
)

type Config struct {
	Environment string           `mapstructure:"environment"`
	LogLevel    string           `mapstructure:"log_level"`
	Server      ServerConfig     `mapstructure:"server"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Redis       RedisConfig      `mapstructure:"redis"`
	MarketData  MarketDataConfig `mapstructure:"market_data"`
	Analysis    AnalysisConfig   `mapstructure:"analysis"`
	Reasoning   ReasoningConfig  `mapstructure:"reasoning"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	Credits     CreditsConfig    `mapstructure:"credits"`
	Telemetry   TelemetryConfig  `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	DatabaseURL string `mapstructure:"database_url"`
	MaxConns    int32  `mapstructure:"max_conns"`
}

// DSN returns DatabaseURL when set, otherwise a keyword/value connection string.
func (c DatabaseConfig) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MarketDataConfig struct {
	Provider     string        `mapstructure:"provider"`
	BinanceURL   string        `mapstructure:"binance_url"`
	CCXTURL      string        `mapstructure:"ccxt_url"`
	CCXTExchange string        `mapstructure:"ccxt_exchange"`
	Interval     string        `mapstructure:"interval"`
	Limit        int           `mapstructure:"limit"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	Timeout      time.Duration `mapstructure:"timeout"`
	WarmSymbols  []string      `mapstructure:"warm_symbols"`
	WarmSchedule string        `mapstructure:"warm_schedule"`
}

type AnalysisConfig struct {
	RSIPeriod            int     `mapstructure:"rsi_period"`
	MACDFast             int     `mapstructure:"macd_fast"`
	MACDSlow             int     `mapstructure:"macd_slow"`
	MACDSignal           int     `mapstructure:"macd_signal"`
	EMAPeriods           []int   `mapstructure:"ema_periods"`
	VolumeSpikeThreshold float64 `mapstructure:"volume_spike_threshold"`
	ATRPeriod            int     `mapstructure:"atr_period"`
	IncrementalMACD      bool    `mapstructure:"incremental_macd"`
}

// Params converts the analysis section into indicator parameters.
func (c AnalysisConfig) Params() analytics.Params {
	periods := make([]int, len(c.EMAPeriods))
	copy(periods, c.EMAPeriods)
	return analytics.Params{
		RSIPeriod:            c.RSIPeriod,
		MACDFast:             c.MACDFast,
		MACDSlow:             c.MACDSlow,
		MACDSignal:           c.MACDSignal,
		EMAPeriods:           periods,
		VolumeSpikeThreshold: c.VolumeSpikeThreshold,
		ATRPeriod:            c.ATRPeriod,
		IncrementalMACD:      c.IncrementalMACD,
	}
}

type ReasoningConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	APIURL      string        `mapstructure:"api_url"`
	APIKey      string        `mapstructure:"api_key" json:"-" yaml:"-"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
	Temperature float64       `mapstructure:"temperature"`

	// consecutive failures before the service is skipped for BreakerCooldown
	BreakerFailures int           `mapstructure:"breaker_failures"`
	BreakerCooldown time.Duration `mapstructure:"breaker_cooldown"`
}

type RateLimitConfig struct {
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

type CreditsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	CostPerAnalysis int  `mapstructure:"cost_per_analysis"`

	// AdminAPIKey unlocks POST /api/v1/admin/credits/:wallet; empty disables it.
	AdminAPIKey string `mapstructure:"admin_api_key" json:"-" yaml:"-"`
}

type TelemetryConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("reasoning.api_key", "REASONING_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind REASONING_API_KEY environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks cross-field constraints that defaults cannot guarantee.
func (c *Config) Validate() error {
	a := c.Analysis
	if a.RSIPeriod <= 0 || a.MACDFast <= 0 || a.MACDSlow <= 0 || a.MACDSignal <= 0 || a.ATRPeriod <= 0 {
		return errors.New("analysis periods must be positive")
	}
	if a.MACDFast >= a.MACDSlow {
		return fmt.Errorf("analysis.macd_fast (%d) must be below analysis.macd_slow (%d)", a.MACDFast, a.MACDSlow)
	}
	for _, p := range a.EMAPeriods {
		if p <= 0 {
			return fmt.Errorf("analysis.ema_periods contains non-positive period %d", p)
		}
	}
	if a.VolumeSpikeThreshold <= 0 {
		return errors.New("analysis.volume_spike_threshold must be positive")
	}

	if c.MarketData.Limit <= 0 {
		return errors.New("market_data.limit must be positive")
	}
	if c.MarketData.CacheTTL < 0 || c.MarketData.Timeout <= 0 {
		return errors.New("market_data durations must be positive")
	}

	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("rate_limit.max_requests and rate_limit.window must be positive")
	}

	if c.Credits.CostPerAnalysis < 0 {
		return errors.New("credits.cost_per_analysis must not be negative")
	}

	if c.Reasoning.Enabled && c.Reasoning.APIKey == "" {
		return errors.New("REASONING_API_KEY environment variable is required when reasoning is enabled")
	}

	switch c.Telemetry.Exporter {
	case "stdout", "otlp":
	default:
		return fmt.Errorf("telemetry.exporter must be stdout or otlp, got %q", c.Telemetry.Exporter)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Environment
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")

	// Server
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "paragon_ai")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.database_url", "")
	v.SetDefault("database.max_conns", 10)

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Market data
	v.SetDefault("market_data.provider", "binance")
	v.SetDefault("market_data.binance_url", "")
	v.SetDefault("market_data.ccxt_url", "http://localhost:3001")
	v.SetDefault("market_data.ccxt_exchange", "binance")
	v.SetDefault("market_data.interval", "15m")
	v.SetDefault("market_data.limit", 200)
	v.SetDefault("market_data.cache_ttl", "10s")
	v.SetDefault("market_data.timeout", "15s")
	v.SetDefault("market_data.warm_symbols", []string{"BTCUSDT", "ETHUSDT"})
	v.SetDefault("market_data.warm_schedule", "@every 1m")

	// Analysis
	v.SetDefault("analysis.rsi_period", analytics.DefaultRSIPeriod)
	v.SetDefault("analysis.macd_fast", analytics.DefaultMACDFast)
	v.SetDefault("analysis.macd_slow", analytics.DefaultMACDSlow)
	v.SetDefault("analysis.macd_signal", analytics.DefaultMACDSignal)
	v.SetDefault("analysis.ema_periods", analytics.DefaultEMAPeriods)
	v.SetDefault("analysis.volume_spike_threshold", analytics.DefaultVolumeSpikeThreshold)
	v.SetDefault("analysis.atr_period", analytics.DefaultATRPeriod)
	v.SetDefault("analysis.incremental_macd", false)

	// Reasoning service
	v.SetDefault("reasoning.enabled", false)
	v.SetDefault("reasoning.api_url", "https://api.openai.com/v1")
	v.SetDefault("reasoning.api_key", "")
	v.SetDefault("reasoning.model", "gpt-4o-mini")
	v.SetDefault("reasoning.timeout", "30s")
	v.SetDefault("reasoning.max_retries", 2)
	v.SetDefault("reasoning.temperature", 0.3)
	v.SetDefault("reasoning.breaker_failures", 5)
	v.SetDefault("reasoning.breaker_cooldown", "60s")

	// Rate limit
	v.SetDefault("rate_limit.max_requests", 10)
	v.SetDefault("rate_limit.window", "60s")

	// Credits
	v.SetDefault("credits.enabled", false)
	v.SetDefault("credits.cost_per_analysis", 1)
	v.SetDefault("credits.admin_api_key", "")

	// Telemetry
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.exporter", "stdout")
	v.SetDefault("telemetry.otlp_endpoint", "http://localhost:4318")
	v.SetDefault("telemetry.service_name", "paragon-ai")
	v.SetDefault("telemetry.sample_rate", 1.0)
}
