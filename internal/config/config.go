package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/five82/flotilla/internal/orchestrator"
)

// Config is the dashboard configuration after defaults have been applied.
type Config struct {
	APIURL       string
	PollInterval time.Duration
	SettleDelay  time.Duration
	LogFile      string
	LogLevel     logrus.Level
	Timeouts     orchestrator.Timeouts
}

const (
	defaultConfigPath   = "~/.config/flotilla/config.toml"
	defaultAPIURL       = "http://127.0.0.1:8080"
	defaultLogFile      = "~/.local/state/flotilla/flotilla.log"
	defaultPollInterval = 5 * time.Second
	defaultSettleDelay  = time.Second
)

// DefaultPath returns the default config file location, unexpanded.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:       defaultAPIURL,
		PollInterval: defaultPollInterval,
		SettleDelay:  defaultSettleDelay,
		LogFile:      mustExpand(defaultLogFile),
		LogLevel:     logrus.InfoLevel,
		Timeouts:     orchestrator.DefaultTimeouts(),
	}
}

type rawTimeouts struct {
	List       float64 `toml:"list"`
	Lifecycle  float64 `toml:"lifecycle"`
	Launch     float64 `toml:"launch"`
	Diagnostic float64 `toml:"diagnostic"`
}

type rawConfig struct {
	APIURL        string      `toml:"api_url"`
	PollInterval  float64     `toml:"poll_interval"`
	SettleDelayMS int         `toml:"settle_delay_ms"`
	LogFile       string      `toml:"log_file"`
	LogLevel      string      `toml:"log_level"`
	Timeouts      rawTimeouts `toml:"timeouts"`
}

// Load reads the config at path (or the default location), falling back to
// defaults when the file is missing or a value is empty.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if raw.PollInterval > 0 {
		cfg.PollInterval = seconds(raw.PollInterval)
	}
	if raw.SettleDelayMS > 0 {
		cfg.SettleDelay = time.Duration(raw.SettleDelayMS) * time.Millisecond
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: log_level: %w", err)
		}
		cfg.LogLevel = level
	}

	if raw.Timeouts.List > 0 {
		cfg.Timeouts.List = seconds(raw.Timeouts.List)
	}
	if raw.Timeouts.Lifecycle > 0 {
		cfg.Timeouts.Lifecycle = seconds(raw.Timeouts.Lifecycle)
	}
	if raw.Timeouts.Launch > 0 {
		cfg.Timeouts.Launch = seconds(raw.Timeouts.Launch)
	}
	if raw.Timeouts.Diagnostic > 0 {
		cfg.Timeouts.Diagnostic = seconds(raw.Timeouts.Diagnostic)
	}

	return cfg, nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// expandPath resolves a leading ~ and returns an absolute path.
func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
