package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config captures the transcode configuration resolved from defaults, optional
// files, and environment overrides.
type Config struct {
	// LineMode is the default for --lines and for API requests that omit line_mode.
	LineMode     bool      `yaml:"line_mode"`
	HTTPAddr     string    `yaml:"http_addr"`
	GRPCAddr     string    `yaml:"grpc_addr"`
	MaxConns     int       `yaml:"max_conns"`
	MaxBodyBytes int64     `yaml:"max_body_bytes"`
	Log          LogConfig `yaml:"log"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `yaml:"level"`
	// Format: console or json
	Format string `yaml:"format"`
	// File is an optional log file written in addition to stderr.
	File     string         `yaml:"file"`
	Rotation RotationConfig `yaml:"rotation"`
}

// RotationConfig controls rotation of LogConfig.File.
type RotationConfig struct {
	Enable     bool `yaml:"enable"`
	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days"`
	Compress   bool `yaml:"compress"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LineMode:     false,
		HTTPAddr:     "127.0.0.1:8710",
		GRPCAddr:     "127.0.0.1:8711",
		MaxConns:     128,
		MaxBodyBytes: 1 << 20,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Rotation: RotationConfig{
				Enable:     false,
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
	}
}

// Load resolves the configuration using defaults, configuration files, and
// environment overrides. The lookup order for configuration files is:
//  1. ~/.transcode/config.yml
//  2. ./transcode.yml
//
// Environment variables prefixed with TRANSCODE_ have the highest precedence.
func Load() (Config, error) {
	cfg := Default()

	if err := loadHomeConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadLocalConfig(&cfg); err != nil {
		return Config{}, err
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile resolves the configuration from defaults, the file at path, and
// environment overrides. Unlike Load, a missing file is an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(&cfg, data); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	if c.MaxConns < 0 {
		return fmt.Errorf("max_conns must not be negative, got %d", c.MaxConns)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	return nil
}

func loadHomeConfig(cfg *Config) error {
	home, err := os.UserHomeDir()
	if err != nil {
		// no home directory, nothing to load
		return nil
	}
	return loadOptionalFile(cfg, filepath.Join(home, ".transcode", "config.yml"))
}

func loadLocalConfig(cfg *Config) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	return loadOptionalFile(cfg, filepath.Join(wd, "transcode.yml"))
}

func loadOptionalFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyFileConfig decodes YAML over cfg; keys absent from the file keep
// their current values.
func applyFileConfig(cfg *Config, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	cfg.HTTPAddr = strings.TrimSpace(cfg.HTTPAddr)
	cfg.GRPCAddr = strings.TrimSpace(cfg.GRPCAddr)
	cfg.Log.File = strings.TrimSpace(cfg.Log.File)
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if val := strings.TrimSpace(os.Getenv("TRANSCODE_LINE_MODE")); val != "" {
		parsed, err := parseBool(val)
		if err != nil {
			return fmt.Errorf("TRANSCODE_LINE_MODE: %w", err)
		}
		cfg.LineMode = parsed
	}
	if val := strings.TrimSpace(os.Getenv("TRANSCODE_HTTP_ADDR")); val != "" {
		cfg.HTTPAddr = val
	}
	if val := strings.TrimSpace(os.Getenv("TRANSCODE_GRPC_ADDR")); val != "" {
		cfg.GRPCAddr = val
	}
	if val := strings.TrimSpace(os.Getenv("TRANSCODE_MAX_CONNS")); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("TRANSCODE_MAX_CONNS: %w", err)
		}
		cfg.MaxConns = parsed
	}
	if val := strings.TrimSpace(os.Getenv("TRANSCODE_MAX_BODY_BYTES")); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("TRANSCODE_MAX_BODY_BYTES: %w", err)
		}
		cfg.MaxBodyBytes = parsed
	}
	if val := strings.TrimSpace(os.Getenv("TRANSCODE_LOG_LEVEL")); val != "" {
		cfg.Log.Level = val
	}
	if val := strings.TrimSpace(os.Getenv("TRANSCODE_LOG_FORMAT")); val != "" {
		cfg.Log.Format = val
	}
	if val := strings.TrimSpace(os.Getenv("TRANSCODE_LOG_FILE")); val != "" {
		cfg.Log.File = val
	}
	if val := strings.TrimSpace(os.Getenv("TRANSCODE_LOG_ROTATE")); val != "" {
		parsed, err := parseBool(val)
		if err != nil {
			return fmt.Errorf("TRANSCODE_LOG_ROTATE: %w", err)
		}
		cfg.Log.Rotation.Enable = parsed
	}
	return nil
}

func parseBool(val string) (bool, error) {
	v := strings.TrimSpace(strings.ToLower(val))
	switch v {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean: %s", val)
	}
}
