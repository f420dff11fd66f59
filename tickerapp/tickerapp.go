// Package tickerapp launches the ticker application which writes the arrival sequence of one
// airport to stdout on every refresh and raises a desktop notification for each new
// separation conflict. Output can be piped into other programs and processed further.
// This is in contrast to the board, which works more like htop.
package tickerapp

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/UkrCIH/vACC-Ukraine-Slot-Tool/internal"
)

// Run polls feed every interval until ctx is cancelled.
func Run(
	ctx context.Context,
	appName string,
	airport internal.Airport,
	feed internal.FeedSource,
	interval time.Duration,
	consoleOut io.Writer,
	logger *slog.Logger,
) {
	notify := NewNotify(appName, consoleOut)
	notify.Stdout.Printf("%s watching %s (%s) every %s\n", appName, airport.Code, airport.Name, interval)

	tracker := newConflictTracker()

	// Create a traffic update ticker that fires in a given interval
	trafficUpdateTicker := time.NewTicker(interval)
	defer trafficUpdateTicker.Stop()

	// Run once in the beginning.
	refresh(ctx, notify, tracker, feed, airport, logger)

	for {
		select {
		case <-trafficUpdateTicker.C:
			refresh(ctx, notify, tracker, feed, airport, logger)
		case <-ctx.Done():
			logger.Info("Shutdown signal received, stopping ticker.")
			return
		}
	}
}

// refresh fetches one snapshot and reports it. A failed fetch is logged and the previous
// conflict state is kept.
func refresh(
	ctx context.Context,
	notify *Notify,
	tracker *conflictTracker,
	feed internal.FeedSource,
	airport internal.Airport,
	logger *slog.Logger,
) {
	traffic, err := internal.FetchTraffic(ctx, feed, airport, time.Now())
	if err != nil {
		logger.Error("ticker refresh failed", slog.Any("error", err))
		return
	}

	notify.PrintTraffic(traffic)
	notify.EmitConflictNotifications(airport, tracker.update(traffic.Arrivals))
}
