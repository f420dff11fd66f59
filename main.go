// Package main provides the slot tool: an HTTP service for departure slot coordination with
// live arrival sequencing, plus a terminal board and a ticker for a single airport.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/UkrCIH/vACC-Ukraine-Slot-Tool/internal"
	"github.com/UkrCIH/vACC-Ukraine-Slot-Tool/server"
	"github.com/UkrCIH/vACC-Ukraine-Slot-Tool/tickerapp"
	"github.com/UkrCIH/vACC-Ukraine-Slot-Tool/tuiapp"
)

const (
	// thisAppName is the name of this application as shown on notifications.
	thisAppName = "slottool"
)

type runMode struct {
	board  bool
	ticker bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", thisAppName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := internal.DefaultConfig()
	var mode runMode

	setupCommandLineFlags(&cfg, &mode)

	// Parse all arguments provided to the program on launch.
	pflag.Parse()
	cfg.ApplyEnv()

	switch {
	case mode.board && mode.ticker:
		return fmt.Errorf("--board and --ticker are exclusive: %w", internal.ErrValidation)
	case mode.board:
		cfg.Mode = internal.ModeBoard
	case mode.ticker:
		cfg.Mode = internal.ModeTicker
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := internal.ParseLevel(cfg.LogLevel)

	// The board owns the terminal, so its logs go to the file only.
	var console io.Writer = os.Stderr
	if cfg.Mode == internal.ModeBoard {
		console = nil
	}

	logger, logCloser, err := internal.NewLogger(internal.LogParams{
		ConsoleOut: console,
		Dir:        cfg.LogDir,
		Level:      level,
	})
	if err != nil {
		return err
	}
	defer logCloser.Close()

	slog.SetDefault(logger)
	logger.Info("starting", slog.Any("config", cfg))

	registry, err := internal.LoadAirportRegistry(cfg.AirportsCSV)
	if err != nil {
		return err
	}

	feed := internal.NewFeedClient(cfg.FeedURL, cfg.FeedTimeout, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Mode.Polling() {
		airport, err := registry.Lookup(cfg.AirportCode)
		if err != nil {
			return err
		}

		if cfg.Mode == internal.ModeTicker {
			tickerapp.Run(ctx, thisAppName, airport, feed, cfg.RefreshInterval, os.Stdout, logger)
			return nil
		}

		return tuiapp.Run(ctx, airport, feed, cfg.RefreshInterval, logger)
	}

	srv := server.New(
		registry,
		feed,
		internal.NewDepartureStore(),
		internal.NewOperatorSessions(cfg.OperatorPassword),
		logger)

	return server.Run(ctx, cfg.Addr, srv.Routes(), logger)
}

func setupCommandLineFlags(cfg *internal.Config, mode *runMode) {
	pflag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address of the HTTP API")
	pflag.StringVar(&cfg.FeedURL, "feed-url", cfg.FeedURL, "URL of the VATSIM v3 data feed")
	pflag.DurationVar(&cfg.FeedTimeout, "feed-timeout", cfg.FeedTimeout, "timeout of a single feed fetch")
	pflag.StringVarP(&cfg.AirportCode, "airport", "a", cfg.AirportCode, "airport shown by the board and ticker")
	pflag.StringVar(&cfg.AirportsCSV, "airports-csv", cfg.AirportsCSV,
		"CSV file (code,name,latitude,longitude) replacing the built-in airports")
	pflag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	pflag.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "directory of the rotated log file")
	pflag.DurationVar(&cfg.RefreshInterval, "interval", cfg.RefreshInterval, "refresh interval of board and ticker")

	// Whether to launch the board or ticker instead of the HTTP API.
	pflag.BoolVarP(&mode.board, "board", "b", false, "show the arrival and departure board in the terminal")
	pflag.Lookup("board").NoOptDefVal = "true"

	pflag.BoolVarP(&mode.ticker, "ticker", "t", false,
		"print the arrival sequence on the command line without TUI")
	pflag.Lookup("ticker").NoOptDefVal = "true"
}
