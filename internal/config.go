package internal

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

const (
	// DefaultAddr is the listen address of the HTTP API.
	DefaultAddr = ":5000"
	// DefaultAirportCode is shown by the board and ticker when no airport is given.
	DefaultAirportCode = "UKBB"
	// DefaultRefreshInterval is how often the board and ticker poll the feed.
	DefaultRefreshInterval = 30 * time.Second
	// PasswordEnv overrides the operator password.
	PasswordEnv = "ATC_PASSWORD"

	minRefreshInterval = 5 * time.Second
)

// RunMode selects what the program does after startup.
type RunMode int

const (
	// ModeServer serves the HTTP API.
	ModeServer RunMode = iota
	// ModeBoard shows the terminal board for one airport.
	ModeBoard
	// ModeTicker prints the arrival sequence of one airport.
	ModeTicker
)

func (m RunMode) String() string {
	switch m {
	case ModeBoard:
		return "board"
	case ModeTicker:
		return "ticker"
	default:
		return "server"
	}
}

// Polling reports whether the mode refreshes the feed on RefreshInterval.
func (m RunMode) Polling() bool {
	return m == ModeBoard || m == ModeTicker
}

// Config holds every runtime setting. Flags populate it, the environment may override the
// password.
type Config struct {
	Mode             RunMode
	Addr             string
	FeedURL          string
	FeedTimeout      time.Duration
	OperatorPassword string
	LogLevel         string
	LogDir           string
	AirportsCSV      string
	AirportCode      string
	RefreshInterval  time.Duration
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Mode:             ModeServer,
		Addr:             DefaultAddr,
		FeedURL:          DefaultFeedURL,
		FeedTimeout:      DefaultFeedTimeout,
		OperatorPassword: DefaultOperatorPassword,
		LogLevel:         "info",
		LogDir:           ".",
		AirportsCSV:      "",
		AirportCode:      DefaultAirportCode,
		RefreshInterval:  DefaultRefreshInterval,
	}
}

// ApplyEnv overrides settings from the process environment.
func (c *Config) ApplyEnv() {
	if password, ok := os.LookupEnv(PasswordEnv); ok && password != "" {
		c.OperatorPassword = password
	}
}

// Validate rejects settings the program cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("listen address is empty: %w", ErrValidation)
	case c.FeedURL == "":
		return fmt.Errorf("feed url is empty: %w", ErrValidation)
	case c.FeedTimeout <= 0:
		return fmt.Errorf("feed timeout %s: %w", c.FeedTimeout, ErrValidation)
	case c.OperatorPassword == "":
		return fmt.Errorf("operator password is empty: %w", ErrValidation)
	case c.Mode.Polling() && c.RefreshInterval < minRefreshInterval:
		return fmt.Errorf("refresh interval %s below %s: %w", c.RefreshInterval, minRefreshInterval, ErrValidation)
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// LogValue keeps the operator password out of the logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("mode", c.Mode.String()),
		slog.String("addr", c.Addr),
		slog.String("feed_url", c.FeedURL),
		slog.Duration("feed_timeout", c.FeedTimeout),
		slog.String("log_level", c.LogLevel),
		slog.String("log_dir", c.LogDir),
		slog.String("airports_csv", c.AirportsCSV),
		slog.String("airport", c.AirportCode),
		slog.Duration("interval", c.RefreshInterval),
	)
}
