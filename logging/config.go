// Package logging configures the process-wide logrus logger.
package logging

import (
	"os"
	"strconv"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

const (
	EnvLogLevel   = "PALLETCHAIN_LOG_LEVEL"
	EnvLogFormat  = "PALLETCHAIN_LOG_FORMAT"
	EnvLogNoColor = "PALLETCHAIN_LOG_NOCOLOR"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Config is the resolved logger setup.
type Config struct {
	Level   log.Level
	JSON    bool
	NoColor bool
}

var configureOnce sync.Once

// ConfigureRuntime sets up process logging for the binaries. An empty level
// keeps the profile default.
func ConfigureRuntime(level string) {
	Configure(ProfileRuntime, level)
}

func ConfigureTests() {
	Configure(ProfileTest, "")
}

// Configure applies the profile defaults, then level (if non-empty), then the
// environment overrides. Only the first call has any effect.
func Configure(profile Profile, level string) {
	configureOnce.Do(func() {
		cfg := DefaultConfig(profile)
		if lvl, ok := ParseLevel(level); ok {
			cfg.Level = lvl
		}
		ApplyEnvOverrides(&cfg)
		Apply(log.StandardLogger(), cfg)
	})
}

func DefaultConfig(profile Profile) Config {
	switch profile {
	case ProfileTest:
		return Config{Level: log.DebugLevel, NoColor: true}
	default:
		return Config{Level: log.InfoLevel}
	}
}

// Apply configures logger according to cfg.
func Apply(logger *log.Logger, cfg Config) {
	logger.SetLevel(cfg.Level)
	if cfg.JSON {
		logger.SetFormatter(&log.JSONFormatter{})
		return
	}
	logger.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   cfg.NoColor,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
}

func ApplyEnvOverrides(cfg *Config) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogFormat))) {
	case "json":
		cfg.JSON = true
	case "text":
		cfg.JSON = false
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

// ParseLevel maps a level name to a logrus level. The second result is false
// for empty or unknown names.
func ParseLevel(raw string) (log.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return log.InfoLevel, false
	case "trace":
		return log.TraceLevel, true
	case "debug", "dbg", "d":
		return log.DebugLevel, true
	case "info":
		return log.InfoLevel, true
	case "warn", "warning":
		return log.WarnLevel, true
	case "error":
		return log.ErrorLevel, true
	case "fatal":
		return log.FatalLevel, true
	case "disabled", "off", "none":
		return log.PanicLevel, true
	default:
		return log.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
