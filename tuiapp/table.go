package tuiapp

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"

	"github.com/UkrCIH/vACC-Ukraine-Slot-Tool/internal"
)

// Error types

var errColumnMismatch = errors.New("number of columns does not match number of format columns")

// Automated Table Formatting

type tableColumnSizingOption int

const (
	// fixed column width, regardless of table width.
	fixed tableColumnSizingOption = iota
	// relative column with, given as percentage of the total table width.
	relative
	// fill columns receive any remaining table space, evenly distributed.
	fill
)

type columnFormat struct {
	option tableColumnSizingOption
	value  float32
}

type tableFormat struct {
	columnSizes        []columnFormat
	fixedWidth         int     // fixedWidth is the total space taken up by all fixed-width columns.
	fillWidthCount     int     // fillWidthCount indicates how many columns have fill width.
	totalRelativeWidth float32 // how much width is taken by relative columns.
}

func newTableFormat(items ...columnFormat) tableFormat {
	var totalRelativeWidth float32
	fixedWidth := 0
	fillWidthCount := 0

	for _, item := range items {
		switch item.option {
		case relative:
			totalRelativeWidth += item.value
		case fixed:
			fixedWidth += int(item.value)
		case fill:
			fillWidthCount++
		}
	}

	return tableFormat{
		columnSizes:        items,
		fixedWidth:         fixedWidth,
		fillWidthCount:     fillWidthCount,
		totalRelativeWidth: totalRelativeWidth,
	}
}

// Integrated Formatted Table Type

type autoFormatTable struct {
	table  table.Model
	format tableFormat
}

// resize distributes newWidth over the columns. One cell of separator space is reserved per
// column plus one for the border.
func (aft *autoFormatTable) resize(newWidth int) error {
	columns := aft.table.Columns()
	columnCount := len(columns)

	if columnCount != len(aft.format.columnSizes) {
		return fmt.Errorf(
			"table.resize: %w -> %d in table, %d in tableFormat",
			errColumnMismatch,
			columnCount,
			len(aft.format.columnSizes))
	}

	adjustedWidth := max(0, newWidth-1-columnCount)
	totalRelativeWidth := int(float32(adjustedWidth) * aft.format.totalRelativeWidth)
	totalFillWidth := adjustedWidth - totalRelativeWidth - aft.format.fixedWidth

	fillPerColumn := 0
	if aft.format.fillWidthCount > 0 {
		fillPerColumn = max(0, totalFillWidth/aft.format.fillWidthCount)
	}

	resized := make([]table.Column, columnCount)
	for idx, column := range columns {
		format := aft.format.columnSizes[idx]
		switch format.option {
		case fixed:
			column.Width = int(format.value)
		case relative:
			column.Width = int(format.value * float32(adjustedWidth))
		case fill:
			column.Width = fillPerColumn
		}

		resized[idx] = column
	}

	aft.table.SetColumns(resized)
	aft.table.SetWidth(adjustedWidth)

	return nil
}

func (aft *autoFormatTable) SetHeight(height int) {
	aft.table.SetHeight(height)
}

func newArrivalsTable(tableStyle table.Styles) autoFormatTable {
	etaLen := 6
	callsignLen := 10
	typeLen := 6
	codeLen := 6
	altLen := 7
	spdLen := 5
	sepLen := 6
	initialTableHeight := 5
	format := newTableFormat(
		columnFormat{fixed, float32(etaLen)},
		columnFormat{fixed, float32(callsignLen)},
		columnFormat{fixed, float32(typeLen)},
		columnFormat{fixed, float32(codeLen)},
		columnFormat{fixed, float32(altLen)},
		columnFormat{fixed, float32(altLen)},
		columnFormat{fixed, float32(spdLen)},
		columnFormat{fixed, float32(sepLen)},
		columnFormat{fill, 0.0},
	)

	arrivalsTbl := table.New(
		// table header
		table.WithColumns(
			[]table.Column{
				{Title: "ETA", Width: etaLen},
				{Title: "CALLSIGN", Width: callsignLen},
				{Title: "TYPE", Width: typeLen},
				{Title: "FROM", Width: codeLen},
				{Title: "DST", Width: altLen},
				{Title: "ALT", Width: altLen},
				{Title: "SPD", Width: spdLen},
				{Title: "SEP", Width: sepLen},
				{Title: "STATUS", Width: 0},
			},
		),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(initialTableHeight),
		table.WithStyles(tableStyle),
	)

	return autoFormatTable{
		table:  arrivalsTbl,
		format: format,
	}
}

func newDeparturesTable(tableStyle table.Styles) autoFormatTable {
	callsignLen := 10
	typeLen := 6
	codeLen := 6
	initialTableHeight := 5
	format := newTableFormat(
		columnFormat{fixed, float32(callsignLen)},
		columnFormat{fixed, float32(typeLen)},
		columnFormat{fixed, float32(codeLen)},
		columnFormat{fill, 0.0},
	)

	departuresTbl := table.New(
		// table header
		table.WithColumns(
			[]table.Column{
				{Title: "CALLSIGN", Width: callsignLen},
				{Title: "TYPE", Width: typeLen},
				{Title: "DEST", Width: codeLen},
				{Title: "SOURCE", Width: 0},
			},
		),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(initialTableHeight),
		table.WithStyles(tableStyle),
	)

	return autoFormatTable{
		table:  departuresTbl,
		format: format,
	}
}

func arrivalToRow(arrival *internal.ArrivalView, theme Theme) table.Row {
	return table.Row{
		formatETA(arrival),
		arrival.Callsign,
		arrival.AircraftType,
		arrival.Departure,
		fmt.Sprintf("%5.1f", arrival.DistanceNm),
		strconv.Itoa(arrival.Altitude),
		strconv.Itoa(arrival.Groundspeed),
		formatSeparation(arrival.DistanceSeparationNm),
		theme.statusStyle(arrival.SeparationStatus).Render(string(arrival.SeparationStatus)),
	}
}

func departureToRow(departure *internal.DepartureView) table.Row {
	return table.Row{
		departure.Callsign,
		departure.AircraftType,
		departure.Arrival,
		departure.Source.String(),
	}
}

// formatETA renders minutes, or "--" for aircraft without groundspeed.
func formatETA(arrival *internal.ArrivalView) string {
	if !arrival.ETAKnown() {
		return "--"
	}

	return fmt.Sprintf("%.1f", arrival.ETAMinutes)
}

func formatSeparation(separation *float64) string {
	if separation == nil {
		return "-"
	}

	return fmt.Sprintf("%.1f", *separation)
}
