package tuiapp

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/UkrCIH/vACC-Ukraine-Slot-Tool/internal"
)

type UpdateTickMsg time.Time

func updateTick() tea.Cmd {
	return tea.Every(
		time.Second,
		func(t time.Time) tea.Msg {
			return UpdateTickMsg(t)
		},
	)
}

type TrafficQueryTickMsg time.Time

func trafficQueryTick(interval time.Duration) tea.Cmd {
	return tea.Every(
		interval,
		func(t time.Time) tea.Msg {
			return TrafficQueryTickMsg(t)
		},
	)
}

// TrafficMsg carries the outcome of one feed refresh.
type TrafficMsg struct {
	traffic *internal.AirportTraffic
	err     error
}

func requestTrafficCmd(ctx context.Context, feed internal.FeedSource, airport internal.Airport) tea.Cmd {
	return func() tea.Msg {
		traffic, err := internal.FetchTraffic(ctx, feed, airport, time.Now())
		return TrafficMsg{traffic: traffic, err: err}
	}
}
