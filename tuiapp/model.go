package tuiapp

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/UkrCIH/vACC-Ukraine-Slot-Tool/internal"
)

const (
	// headerHeight is the number of lines taken by the header and table titles.
	headerHeight = 8
	minTableRows = 3
)

// Model implements the bubbletea.Model interface, which requires three methods:
// - Init() Cmd
// - Update(Msg) (Model, Cmd)
// - View() string
// This forms the base for the board.
type model struct {
	width  int
	height int

	baseStyle lipgloss.Style
	viewStyle lipgloss.Style
	theme     Theme

	arrivalsTbl   autoFormatTable
	departuresTbl autoFormatTable
	tableStyle    table.Styles
	focus         focusedTable

	airport       internal.Airport
	interval      time.Duration
	requestCmd    tea.Cmd
	traffic       *internal.AirportTraffic
	lastUpdate    time.Time
	lastFetchErr  error
	currentMoment time.Time
	logger        *slog.Logger
}

func newModel(
	airport internal.Airport,
	interval time.Duration,
	requestCmd tea.Cmd,
	theme Theme,
	logger *slog.Logger,
) *model {
	tableStyle := table.DefaultStyles()
	tableStyle.Selected = lipgloss.NewStyle().Background(theme.Highlight)

	departuresStyle := tableStyle
	departuresStyle.Selected = lipgloss.NewStyle()

	return &model{
		baseStyle:     lipgloss.NewStyle(),
		viewStyle:     lipgloss.NewStyle(),
		theme:         theme,
		arrivalsTbl:   newArrivalsTable(tableStyle),
		departuresTbl: newDeparturesTable(departuresStyle),
		tableStyle:    tableStyle,
		focus:         focusArrivals,
		airport:       airport,
		interval:      interval,
		requestCmd:    requestCmd,
		currentMoment: time.Now(),
		logger:        logger,
	}
}

// Init fires the first refresh immediately and starts both tickers.
func (m *model) Init() tea.Cmd {
	return tea.Batch(m.requestCmd, updateTick(), trafficQueryTick(m.interval))
}

// Update takes a tea.Msg as input and uses a type switch to handle different types of messages.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { //nolint:ireturn // required by interface
	switch thisMsg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = thisMsg.Height
		m.width = thisMsg.Width
		m.resizeTables()

	case tea.KeyMsg:
		switch thisMsg.String() {
		case "tab":
			m.switchFocus()
		case "up", "k":
			m.focusedTable().MoveUp(1)
		case "down", "j":
			m.focusedTable().MoveDown(1)
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case UpdateTickMsg:
		m.currentMoment = time.Time(thisMsg)
		return m, updateTick()

	case TrafficQueryTickMsg:
		return m, tea.Batch(m.requestCmd, trafficQueryTick(m.interval))

	case TrafficMsg:
		m.applyTraffic(thisMsg)
	}

	return m, nil
}

// applyTraffic refreshes the tables. A failed fetch keeps the previous rows.
func (m *model) applyTraffic(msg TrafficMsg) {
	if msg.err != nil {
		m.lastFetchErr = msg.err
		m.logger.Warn("board refresh failed", slog.Any("error", msg.err))

		return
	}

	m.lastFetchErr = nil
	m.traffic = msg.traffic
	m.lastUpdate = msg.traffic.Fetched

	arrivalRows := make([]table.Row, 0, len(msg.traffic.Arrivals))
	for i := range msg.traffic.Arrivals {
		arrivalRows = append(arrivalRows, arrivalToRow(&msg.traffic.Arrivals[i], m.theme))
	}

	departureRows := make([]table.Row, 0, len(msg.traffic.Departures))
	for i := range msg.traffic.Departures {
		departureRows = append(departureRows, departureToRow(&msg.traffic.Departures[i]))
	}

	m.arrivalsTbl.table.SetRows(arrivalRows)
	m.departuresTbl.table.SetRows(departureRows)
}

func (m *model) focusedTable() *table.Model {
	if m.focus == focusDepartures {
		return &m.departuresTbl.table
	}

	return &m.arrivalsTbl.table
}

func (m *model) switchFocus() {
	unfocused := m.tableStyle
	unfocused.Selected = m.baseStyle

	m.focusedTable().SetStyles(unfocused)
	m.focusedTable().Blur()

	m.focus = m.focus.next()

	m.focusedTable().SetStyles(m.tableStyle)
	m.focusedTable().Focus()
}

// resizeTables splits the height below the header between both tables, arrivals first.
func (m *model) resizeTables() {
	for _, aft := range []*autoFormatTable{&m.arrivalsTbl, &m.departuresTbl} {
		if err := aft.resize(m.width); err != nil {
			m.logger.Error("table resize failed", slog.Any("error", err))
		}
	}

	available := max(2*minTableRows, m.height-headerHeight)
	arrivalRows := max(minTableRows, available*2/3)
	m.arrivalsTbl.SetHeight(arrivalRows)
	m.departuresTbl.SetHeight(max(minTableRows, available-arrivalRows))
}

func (m *model) View() string {
	column := m.baseStyle.Width(m.width).Padding(1, 0, 0, 0).Render

	return m.baseStyle.
		Width(m.width).
		Height(m.height).
		Render(
			lipgloss.JoinVertical(lipgloss.Left,
				column(m.viewHeader()),
				column(m.viewArrivals()),
				column(m.viewDepartures()),
			),
		)
}

// viewHeader shows the airport, the age of the data and a conflict counter.
func (m *model) viewHeader() string {
	title := m.baseStyle.Bold(true).Render(fmt.Sprintf("%s  %s", m.airport.Code, m.airport.Name))

	status := "waiting for first update"
	if m.traffic != nil {
		status = fmt.Sprintf("Last update: %s (%d seconds ago)",
			m.lastUpdate.Format(time.TimeOnly),
			int(m.currentMoment.Sub(m.lastUpdate).Seconds()))
	}

	lines := []string{title, status}

	if m.traffic != nil {
		if conflicts := m.traffic.ConflictCount(); conflicts > 0 {
			lines = append(lines, m.theme.statusStyle(internal.SeparationConflict).
				Render(fmt.Sprintf("%d arrivals below 3 nm separation", conflicts)))
		}
	}

	if m.lastFetchErr != nil {
		lines = append(lines, m.baseStyle.Foreground(m.theme.Red).Render("feed unavailable, showing previous data"))
	}

	return m.viewStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *model) viewArrivals() string {
	return m.viewStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.baseStyle.Bold(true).Render("Arrivals"),
		m.arrivalsTbl.table.View()))
}

func (m *model) viewDepartures() string {
	return m.viewStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.baseStyle.Bold(true).Render("Departures"),
		m.departuresTbl.table.View()))
}
