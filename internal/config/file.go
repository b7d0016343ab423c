package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// fileConfig represents the configuration file structure shared by YAML and TOML.
// Pointer fields distinguish "absent" from zero values.
type fileConfig struct {
	Server  fileServer  `yaml:"server" toml:"server"`
	Logging fileLogging `yaml:"logging" toml:"logging"`
	Layout  fileLayout  `yaml:"layout" toml:"layout"`
	Stats   fileStats   `yaml:"stats" toml:"stats"`
	Render  fileRender  `yaml:"render" toml:"render"`
}

type fileServer struct {
	Port                 string        `yaml:"port" toml:"port"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period" toml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout" toml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout" toml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout" toml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging" toml:"enable_request_logging"`
	RateLimit            fileRateLimit `yaml:"rate_limit" toml:"rate_limit"`
}

type fileRateLimit struct {
	RPS   *float64 `yaml:"rps" toml:"rps"`
	Burst *int     `yaml:"burst" toml:"burst"`
}

type fileLogging struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

type fileLayout struct {
	Padding         *float64 `yaml:"padding" toml:"padding"`
	Friction        *float64 `yaml:"friction" toml:"friction"`
	VelocityScale   *float64 `yaml:"velocity_scale" toml:"velocity_scale"`
	MaxIterations   *int     `yaml:"max_iterations" toml:"max_iterations"`
	DensityFactor   *float64 `yaml:"density_factor" toml:"density_factor"`
	FallbackDivisor *float64 `yaml:"fallback_divisor" toml:"fallback_divisor"`
	MaxFill         *float64 `yaml:"max_fill" toml:"max_fill"`
}

type fileStats struct {
	TopWords      *int   `yaml:"top_words" toml:"top_words"`
	MinWordLength *int   `yaml:"min_word_length" toml:"min_word_length"`
	Locale        string `yaml:"locale" toml:"locale"`
}

type fileRender struct {
	Width          *int   `yaml:"width" toml:"width"`
	Height         *int   `yaml:"height" toml:"height"`
	MaxUploadBytes *int64 `yaml:"max_upload_bytes" toml:"max_upload_bytes"`
}

// loadFromFile loads configuration from a YAML or TOML file, chosen by extension.
func loadFromFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parse TOML: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", ext)
	}

	return &fileCfg, nil
}

// applyFileConfig applies file configuration to the Config struct.
func applyFileConfig(cfg *Config, fileCfg *fileConfig) error {
	srv := fileCfg.Server
	if srv.Port != "" {
		cfg.Port = srv.Port
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"shutdown_grace_period", srv.ShutdownGracePeriod, &cfg.ShutdownGracePeriod},
		{"read_header_timeout", srv.ReadHeaderTimeout, &cfg.ReadHeaderTimeout},
		{"write_timeout", srv.WriteTimeout, &cfg.WriteTimeout},
		{"idle_timeout", srv.IdleTimeout, &cfg.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("server.%s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	setIfPresent(&cfg.EnableRequestLogging, srv.EnableRequestLogging)
	setIfPresent(&cfg.RateLimitRPS, srv.RateLimit.RPS)
	setIfPresent(&cfg.RateLimitBurst, srv.RateLimit.Burst)

	if fileCfg.Logging.Level != "" {
		cfg.LogLevel = fileCfg.Logging.Level
	}
	if fileCfg.Logging.Format != "" {
		cfg.LogFormat = fileCfg.Logging.Format
	}

	layout := fileCfg.Layout
	setIfPresent(&cfg.Layout.Padding, layout.Padding)
	setIfPresent(&cfg.Layout.Friction, layout.Friction)
	setIfPresent(&cfg.Layout.VelocityScale, layout.VelocityScale)
	setIfPresent(&cfg.Layout.MaxIterations, layout.MaxIterations)
	setIfPresent(&cfg.Layout.DensityFactor, layout.DensityFactor)
	setIfPresent(&cfg.Layout.FallbackDivisor, layout.FallbackDivisor)
	setIfPresent(&cfg.Layout.MaxFill, layout.MaxFill)

	setIfPresent(&cfg.Stats.TopWords, fileCfg.Stats.TopWords)
	setIfPresent(&cfg.Stats.MinWordLength, fileCfg.Stats.MinWordLength)
	if fileCfg.Stats.Locale != "" {
		cfg.Stats.Locale = fileCfg.Stats.Locale
	}

	setIfPresent(&cfg.Render.Width, fileCfg.Render.Width)
	setIfPresent(&cfg.Render.Height, fileCfg.Render.Height)
	setIfPresent(&cfg.Render.MaxUploadBytes, fileCfg.Render.MaxUploadBytes)

	return nil
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
