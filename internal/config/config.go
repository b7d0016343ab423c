package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/eugenenazirov/chat-bubbles/internal/chat"
	"github.com/eugenenazirov/chat-bubbles/internal/packer"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"
	defaultRenderWidth    = 390
	defaultRenderHeight   = 600
	defaultMaxUploadBytes = 32 << 20
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > config file > Environment variables > Defaults
type Config struct {
	Port                 string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int

	LogLevel  string
	LogFormat string

	Layout LayoutConfig
	Stats  StatsConfig
	Render RenderConfig
}

// LayoutConfig carries the packing engine defaults.
type LayoutConfig struct {
	Padding         float64
	Friction        float64
	VelocityScale   float64
	MaxIterations   int
	DensityFactor   float64
	FallbackDivisor float64
	MaxFill         float64
}

// PackerConfig converts the section into engine parameters.
func (l LayoutConfig) PackerConfig() packer.Config {
	return packer.Config{
		Padding:              l.Padding,
		Friction:             l.Friction,
		InitialVelocityScale: l.VelocityScale,
		MaxIterations:        l.MaxIterations,
		DensityFactor:        l.DensityFactor,
		FallbackDivisor:      l.FallbackDivisor,
		MaxFill:              l.MaxFill,
	}
}

// StatsConfig controls chat aggregation.
type StatsConfig struct {
	TopWords      int
	MinWordLength int
	Locale        string
}

// RenderConfig controls image output and upload limits.
type RenderConfig struct {
	Width          int
	Height         int
	MaxUploadBytes int64
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	RateLimitRPS   *float64
	RateLimitBurst *int
	LogLevel       *string
	LogFormat      *string
	Locale         *string
	TopWords       *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > config file > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Apply environment variables first so the config file can override them
	applyEnvConfig(&cfg)

	if overrides != nil && overrides.ConfigFile != "" {
		fileCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
		if err := applyFileConfig(&cfg, fileCfg); err != nil {
			return Config{}, fmt.Errorf("apply config file: %w", err)
		}
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	engine := packer.DefaultConfig()
	return Config{
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
		LogLevel:             defaultLogLevel,
		LogFormat:            defaultLogFormat,
		Layout: LayoutConfig{
			Padding:         engine.Padding,
			Friction:        engine.Friction,
			VelocityScale:   engine.InitialVelocityScale,
			MaxIterations:   engine.MaxIterations,
			DensityFactor:   engine.DensityFactor,
			FallbackDivisor: engine.FallbackDivisor,
			MaxFill:         engine.MaxFill,
		},
		Stats: StatsConfig{
			TopWords:      chat.DefaultTopWords,
			MinWordLength: chat.DefaultMinWordLength,
			Locale:        string(chat.LocaleEnglish),
		},
		Render: RenderConfig{
			Width:          defaultRenderWidth,
			Height:         defaultRenderHeight,
			MaxUploadBytes: defaultMaxUploadBytes,
		},
	}
}

// applyEnvConfig applies environment variable configuration. Malformed values are ignored.
func applyEnvConfig(cfg *Config) {
	if port := env("PORT"); port != "" {
		cfg.Port = port
	}

	if rps := env("RATE_LIMIT_RPS"); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := env("RATE_LIMIT_BURST"); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}

	if level := env("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if format := env("LOG_FORMAT"); format != "" {
		cfg.LogFormat = format
	}

	if locale := env("STATS_LOCALE"); locale != "" {
		cfg.Stats.Locale = locale
	}

	if top := env("STATS_TOP_WORDS"); top != "" {
		if value, err := strconv.Atoi(top); err == nil && value > 0 {
			cfg.Stats.TopWords = value
		}
	}

	if iterations := env("LAYOUT_MAX_ITERATIONS"); iterations != "" {
		if value, err := strconv.Atoi(iterations); err == nil && value > 0 {
			cfg.Layout.MaxIterations = value
		}
	}

	if limit := env("MAX_UPLOAD_BYTES"); limit != "" {
		if value, err := strconv.ParseInt(limit, 10, 64); err == nil && value > 0 {
			cfg.Render.MaxUploadBytes = value
		}
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.LogFormat != nil && *overrides.LogFormat != "" {
		cfg.LogFormat = *overrides.LogFormat
	}

	if overrides.Locale != nil && *overrides.Locale != "" {
		cfg.Stats.Locale = *overrides.Locale
	}

	if overrides.TopWords != nil && *overrides.TopWords > 0 {
		cfg.Stats.TopWords = *overrides.TopWords
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	switch cfg.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log format must be json or console, got %q", cfg.LogFormat)
	}
	if err := cfg.Layout.PackerConfig().Validate(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	if _, err := chat.ParseLocale(cfg.Stats.Locale); err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	if cfg.Stats.TopWords <= 0 {
		return fmt.Errorf("stats: top words must be positive, got %d", cfg.Stats.TopWords)
	}
	if cfg.Stats.MinWordLength < 0 {
		return fmt.Errorf("stats: min word length must be >= 0, got %d", cfg.Stats.MinWordLength)
	}
	if cfg.Render.Width <= 0 || cfg.Render.Height <= 0 {
		return fmt.Errorf("render: size must be positive, got %dx%d", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Render.MaxUploadBytes <= 0 {
		return fmt.Errorf("render: max upload bytes must be positive, got %d", cfg.Render.MaxUploadBytes)
	}
	return nil
}
