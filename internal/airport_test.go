package internal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAirportRegistryLookup(t *testing.T) {
	registry := DefaultAirportRegistry()

	tests := []struct {
		code     string
		expected string
		wantErr  error
	}{
		{code: "UKBB", expected: "UKBB"},
		{code: "ukll", expected: "UKLL"},
		{code: " ukoo ", expected: "UKOO"},
		{code: "ZZZT", expected: TestAirportCode},
		{code: "EGLL", wantErr: ErrNotFound},
		{code: "", wantErr: ErrNotFound},
	}

	for _, test := range tests {
		t.Run(test.code, func(t *testing.T) {
			airport, err := registry.Lookup(test.code)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("Lookup(%q) error = %v, want %v", test.code, err, test.wantErr)
			}

			if airport.Code != test.expected {
				t.Errorf("Lookup(%q) = %s, want %s", test.code, airport.Code, test.expected)
			}
		})
	}
}

func TestAirportRegistryPublic(t *testing.T) {
	public := DefaultAirportRegistry().Public()

	if len(public) != len(curatedAirports()) {
		t.Errorf("Public() lists %d airports, want %d", len(public), len(curatedAirports()))
	}

	for _, summary := range public {
		if summary.Code == TestAirportCode {
			t.Errorf("Public() must not list the test aerodrome")
		}
	}

	if public[0].Code != "UKBB" {
		t.Errorf("Public() should keep registry order, first is %s", public[0].Code)
	}
}

func TestNewAirportRegistryDuplicate(t *testing.T) {
	airports := []Airport{
		{Code: "UKBB", Name: "one"},
		{Code: "ukbb", Name: "two"},
	}

	if _, err := NewAirportRegistry(airports); !errors.Is(err, errDuplicateAirport) {
		t.Errorf("expected errDuplicateAirport, got %v", err)
	}
}

func TestReadAirportCsv(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   bool
	}{
		{
			name:      "valid",
			input:     "code,name,latitude,longitude\nUKBB,Boryspil,50.345,30.8947\nukll, Lviv ,49.8125,23.9561\n",
			wantCount: 2,
		},
		{name: "header only", input: "code,name,latitude,longitude\n", wantCount: 0},
		{name: "short header", input: "code,name\nUKBB,Boryspil\n", wantErr: true},
		{name: "bad latitude", input: "code,name,latitude,longitude\nUKBB,Boryspil,north,30.8\n", wantErr: true},
		{name: "ragged row", input: "code,name,latitude,longitude\nUKBB,Boryspil,50.3\n", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			airports, err := readAirportCsv(strings.NewReader(test.input))
			if (err != nil) != test.wantErr {
				t.Fatalf("readAirportCsv() error = %v, wantErr %v", err, test.wantErr)
			}

			if len(airports) != test.wantCount {
				t.Errorf("readAirportCsv() returned %d airports, want %d", len(airports), test.wantCount)
			}
		})
	}
}

func TestLoadAirportRegistryFromCsv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airports.csv")
	content := "code,name,latitude,longitude\nukbb,Boryspil,50.345,30.8947\n"

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	registry, err := LoadAirportRegistry(path)
	if err != nil {
		t.Fatalf("LoadAirportRegistry() error = %v", err)
	}

	if public := registry.Public(); len(public) != 1 || public[0].Code != "UKBB" {
		t.Errorf("Public() = %v, want only UKBB", public)
	}

	if _, err := registry.Lookup(TestAirportCode); err != nil {
		t.Errorf("test aerodrome must always resolve, got %v", err)
	}

	if _, err := registry.Lookup("UKLL"); !errors.Is(err, ErrNotFound) {
		t.Errorf("CSV should replace the curated set, UKLL lookup = %v", err)
	}

	if _, err := LoadAirportRegistry(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
