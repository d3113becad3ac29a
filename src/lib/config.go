package lib

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultPort                   = 8080
	DefaultSessionIdleTimeout     = time.Hour
	DefaultSessionCleanupInterval = 10 * time.Minute
	DefaultTerminalCols           = 80
	DefaultTerminalRows           = 24
)

// Config holds the runtime settings of the shell API. Values come from the
// environment (optionally loaded from a .env file by main) with the defaults
// above.
type Config struct {
	Host string
	Port int

	LogLevel  logrus.Level
	LogFormat string

	SessionIdleTimeout     time.Duration
	SessionCleanupInterval time.Duration
	TerminalCols           uint16
	TerminalRows           uint16

	MCPEnabled bool
}

// LoadConfig reads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Host:                   os.Getenv("HOST"),
		Port:                   DefaultPort,
		LogLevel:               logrus.InfoLevel,
		LogFormat:              "text",
		SessionIdleTimeout:     DefaultSessionIdleTimeout,
		SessionCleanupInterval: DefaultSessionCleanupInterval,
		TerminalCols:           DefaultTerminalCols,
		TerminalRows:           DefaultTerminalRows,
		MCPEnabled:             true,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = port
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		v = strings.ToLower(v)
		if v != "text" && v != "json" {
			return nil, fmt.Errorf("invalid LOG_FORMAT %q (expected text or json)", v)
		}
		cfg.LogFormat = v
	}

	var err error
	if cfg.SessionIdleTimeout, err = durationEnv("SESSION_IDLE_TIMEOUT", cfg.SessionIdleTimeout); err != nil {
		return nil, err
	}
	if cfg.SessionCleanupInterval, err = durationEnv("SESSION_CLEANUP_INTERVAL", cfg.SessionCleanupInterval); err != nil {
		return nil, err
	}
	if cfg.TerminalCols, err = uint16Env("TERMINAL_COLS", cfg.TerminalCols); err != nil {
		return nil, err
	}
	if cfg.TerminalRows, err = uint16Env("TERMINAL_ROWS", cfg.TerminalRows); err != nil {
		return nil, err
	}

	if v := os.Getenv("MCP_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MCP_ENABLED %q", v)
		}
		cfg.MCPEnabled = enabled
	}

	return cfg, nil
}

// ConfigureLogging applies the level and format to the global logrus logger.
func (c *Config) ConfigureLogging() {
	logrus.SetLevel(c.LogLevel)
	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// durationEnv accepts Go durations ("90s", "1h") or a plain number of seconds.
func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("invalid %s %q: must be positive", key, v)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return d, nil
}

func uint16Env(key string, def uint16) (uint16, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 16)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return uint16(n), nil
}
