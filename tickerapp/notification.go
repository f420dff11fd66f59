package tickerapp

import (
	"fmt"
	"io"
	"log" //nolint:depguard // Don't feel like using slog
	"os"

	"github.com/gen2brain/beeep"

	"github.com/UkrCIH/vACC-Ukraine-Slot-Tool/internal"
)

const (
	// appIconPath is the file path to the icon png for this application.
	appIconPath = "./assets/icon.png"
)

// alertFunc raises a desktop notification.
type alertFunc func(title, message string) error

type Notify struct {
	Stdout *log.Logger
	alert  alertFunc
}

func NewNotify(appName string, consoleOut io.Writer) *Notify {
	beeep.AppName = appName //nolint:reassign // This is the only way to set app name in beeep.

	icon := resolveIcon(appIconPath)

	return &Notify{
		Stdout: log.New(consoleOut, "", 0),
		alert: func(title, message string) error {
			return beeep.Notify(title, message, icon)
		},
	}
}

// resolveIcon returns path if the icon file exists, else no icon so the platform default is used.
func resolveIcon(path string) string {
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return ""
	}

	return path
}

// PrintTraffic writes one line per arrival in sequence order, then the departure count.
func (notify *Notify) PrintTraffic(traffic *internal.AirportTraffic) {
	notify.Stdout.Printf("=== %s %s at %s ===\n",
		traffic.Airport.Code,
		traffic.Airport.Name,
		traffic.Fetched.Format("15:04:05"))

	for i := range traffic.Arrivals {
		notify.Stdout.Println(arrivalToString(&traffic.Arrivals[i]))
	}

	notify.Stdout.Printf("%d arrivals, %d departures\n", len(traffic.Arrivals), len(traffic.Departures))
}

// EmitConflictNotifications prints and raises a notification for each new conflict. A failed
// desktop notification is reported on the console only.
func (notify *Notify) EmitConflictNotifications(airport internal.Airport, pairs []conflictPair) {
	for _, pair := range pairs {
		msgBody := fmt.Sprintf("%s behind %s, %.1f nm", pair.follower, pair.leader, pair.separation)
		notify.Stdout.Printf("CONFLICT %s: %s\n", airport.Code, msgBody)

		if err := notify.alert("Separation Conflict "+airport.Code, msgBody); err != nil {
			notify.Stdout.Printf("notification failed: %v\n", err)
		}
	}
}

// arrivalToString generates a one-liner consisting of the most relevant information about the
// given arrival.
func arrivalToString(arrival *internal.ArrivalView) string {
	separation := "  -  "
	if arrival.DistanceSeparationNm != nil {
		separation = fmt.Sprintf("%5.1f", *arrival.DistanceSeparationNm)
	}

	eta := "  -- "
	if arrival.ETAKnown() {
		eta = fmt.Sprintf("%5.1f", arrival.ETAMinutes)
	}

	return fmt.Sprintf("ETA %s CS %-8s TID %-4s FROM %-4s DST %5.1f ALT %5d SPD %3d SEP %s %s",
		eta,
		arrival.Callsign,
		arrival.AircraftType,
		arrival.Departure,
		arrival.DistanceNm,
		arrival.Altitude,
		arrival.Groundspeed,
		separation,
		arrival.SeparationStatus)
}
