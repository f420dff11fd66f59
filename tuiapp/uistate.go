package tuiapp

// focusedTable names the table receiving scroll keys.
type focusedTable int

const (
	focusArrivals focusedTable = iota
	focusDepartures
)

// next cycles the focus between the two tables.
func (f focusedTable) next() focusedTable {
	if f == focusArrivals {
		return focusDepartures
	}

	return focusArrivals
}
