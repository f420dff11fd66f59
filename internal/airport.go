package internal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/skypies/geo"
)

const (
	airportCsvHeaderLen = 4
	// TestAirportCode is the non-operational entry used for trying the system out.
	// It resolves through Lookup but is never listed publicly.
	TestAirportCode = "ZZZT"
)

var (
	errParseCSV         = errors.New("error parsing CSV")
	errHeaderLen        = errors.New("unexpected header length")
	errDuplicateAirport = errors.New("duplicate airport code")
)

// Airport is one entry of the static airport registry.
type Airport struct {
	Code     string
	Name     string
	Position geo.Latlong
}

// AirportSummary is the public listing shape of an airport.
type AirportSummary struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func curatedAirports() []Airport {
	return []Airport{
		{Code: "UKBB", Name: "Kyiv Boryspil International", Position: geo.Latlong{Lat: 50.3450, Long: 30.8947}},
		{Code: "UKKK", Name: "Kyiv Zhuliany International", Position: geo.Latlong{Lat: 50.4017, Long: 30.4497}},
		{Code: "UKLL", Name: "Lviv Danylo Halytskyi International", Position: geo.Latlong{Lat: 49.8125, Long: 23.9561}},
		{Code: "UKOO", Name: "Odesa International", Position: geo.Latlong{Lat: 46.4268, Long: 30.6765}},
		{Code: "UKHH", Name: "Kharkiv International", Position: geo.Latlong{Lat: 49.9248, Long: 36.2900}},
		{Code: "UKDD", Name: "Dnipro International", Position: geo.Latlong{Lat: 48.3572, Long: 35.1006}},
		{Code: "UKFF", Name: "Simferopol International", Position: geo.Latlong{Lat: 45.0522, Long: 33.9751}},
	}
}

func testAirport() Airport {
	return Airport{Code: TestAirportCode, Name: "Test Aerodrome", Position: geo.Latlong{Lat: 50.0, Long: 30.0}}
}

// AirportRegistry maps airport codes to airports. It is read-only after construction and
// safe for concurrent use.
type AirportRegistry struct {
	airports []Airport
	byCode   map[string]int
}

// NewAirportRegistry builds a registry from the given curated airports and appends the
// test aerodrome.
func NewAirportRegistry(airports []Airport) (*AirportRegistry, error) {
	registry := &AirportRegistry{
		airports: make([]Airport, 0, len(airports)+1),
		byCode:   make(map[string]int, len(airports)+1),
	}

	for _, airport := range append(slices.Clone(airports), testAirport()) {
		code := strings.ToUpper(strings.TrimSpace(airport.Code))
		if _, exists := registry.byCode[code]; exists {
			return nil, fmt.Errorf("newAirportRegistry: %w: %s", errDuplicateAirport, code)
		}

		airport.Code = code
		registry.byCode[code] = len(registry.airports)
		registry.airports = append(registry.airports, airport)
	}

	return registry, nil
}

// DefaultAirportRegistry returns the built-in registry.
func DefaultAirportRegistry() *AirportRegistry {
	registry, err := NewAirportRegistry(curatedAirports())
	if err != nil {
		panic(err) // the built-in table has unique codes
	}

	return registry
}

// LoadAirportRegistry returns the built-in registry when csvPath is empty and otherwise
// replaces the curated set with the airports listed in the CSV file.
func LoadAirportRegistry(csvPath string) (*AirportRegistry, error) {
	if csvPath == "" {
		return DefaultAirportRegistry(), nil
	}

	airports, err := parseAirportCsv(csvPath)
	if err != nil {
		return nil, fmt.Errorf("loadAirportRegistry: %w: %w", errParseCSV, err)
	}

	return NewAirportRegistry(airports)
}

// Lookup resolves a code, case-insensitively, including the test aerodrome.
func (r *AirportRegistry) Lookup(code string) (Airport, error) {
	idx, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Airport{}, fmt.Errorf("airport %q: %w", code, ErrNotFound)
	}

	return r.airports[idx], nil
}

// Public lists the curated airports in registry order, without the test aerodrome.
func (r *AirportRegistry) Public() []AirportSummary {
	summaries := make([]AirportSummary, 0, len(r.airports))
	for _, airport := range r.airports {
		if airport.Code == TestAirportCode {
			continue
		}

		summaries = append(summaries, AirportSummary{Code: airport.Code, Name: airport.Name})
	}

	return summaries
}

// parseAirportCsv reads a CSV file with the columns code,name,latitude,longitude.
func parseAirportCsv(filePath string) ([]Airport, error) {
	file, fileErr := os.Open(filePath)
	if fileErr != nil {
		return nil, fmt.Errorf("parseAirportCsv: failed to open file: %w", fileErr)
	}
	defer file.Close()

	return readAirportCsv(file)
}

func readAirportCsv(in io.Reader) ([]Airport, error) {
	reader := csv.NewReader(in)

	// Read the header row
	headers, headerErr := reader.Read()
	if headerErr != nil {
		return nil, fmt.Errorf("readAirportCsv: failed to read header: %w", headerErr)
	}

	if len(headers) != airportCsvHeaderLen {
		return nil, fmt.Errorf("readAirportCsv: %w", errHeaderLen)
	}

	var airports []Airport

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break // End of file
		}

		if err != nil {
			return nil, fmt.Errorf("readAirportCsv: failed to read record: %w", err)
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if latErr != nil {
			return nil, fmt.Errorf("readAirportCsv: %s: bad latitude: %w", record[0], latErr)
		}

		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if lonErr != nil {
			return nil, fmt.Errorf("readAirportCsv: %s: bad longitude: %w", record[0], lonErr)
		}

		airports = append(airports, Airport{
			Code:     record[0],
			Name:     strings.TrimSpace(record[1]),
			Position: geo.Latlong{Lat: lat, Long: lon},
		})
	}

	return airports, nil
}
