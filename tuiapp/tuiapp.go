// Package tuiapp provides the board: a terminal view of the arrival sequence and the ground
// departures of one airport, refreshed from the live feed.
// Layout:
// +-------------------------------------------------+
// | UKBB  Kyiv Boryspil                             |
// | Last update: 12:00:00 (3 seconds ago)           |
// |                                                 |
// | Arrivals                                        |
// | ETA CALLSIGN TYPE FROM DST ALT SPD SEP STATUS   |
// | ...                                             |
// | Departures                                      |
// | CALLSIGN TYPE DEST SOURCE                       |
// | ...                                             |
// +-------------------------------------------------+
// .
package tuiapp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/UkrCIH/vACC-Ukraine-Slot-Tool/internal"
)

type Theme struct {
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Green     lipgloss.AdaptiveColor
	Amber     lipgloss.AdaptiveColor
	Red       lipgloss.AdaptiveColor
}

func defaultTheme() Theme {
	return Theme{
		Primary:   lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"},
		Secondary: lipgloss.AdaptiveColor{Light: "#969B86", Dark: "#696969"},
		Highlight: lipgloss.AdaptiveColor{Light: "#8b2def", Dark: "#8b2def"},
		Border:    lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"},
		Green:     lipgloss.AdaptiveColor{Light: "#008000", Dark: "#00FF00"},
		Amber:     lipgloss.AdaptiveColor{Light: "#B36B00", Dark: "#FFBF00"},
		Red:       lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF0000"},
	}
}

// statusStyle colors a separation status.
func (t Theme) statusStyle(status internal.SeparationStatus) lipgloss.Style {
	style := lipgloss.NewStyle()

	switch status {
	case internal.SeparationConflict:
		return style.Foreground(t.Red).Bold(true)
	case internal.SeparationMonitor:
		return style.Foreground(t.Amber)
	default:
		return style.Foreground(t.Green)
	}
}

// Run shows the board for airport until the user quits or ctx is cancelled.
func Run(
	ctx context.Context,
	airport internal.Airport,
	feed internal.FeedSource,
	interval time.Duration,
	logger *slog.Logger,
) error {
	m := newModel(airport, interval, requestTrafficCmd(ctx, feed, airport), defaultTheme(), logger)

	// Create a new Bubble Tea program with the model and enable alternate screen
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	logger.Info("board started", slog.String("airport", airport.Code), slog.Duration("interval", interval))

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tuiapp.Run: %w", err)
	}

	return nil
}
