package internal

import (
	"math"

	"github.com/skypies/geo"
)

// Inspired by https://github.com/LucaTheHacker/go-haversine

// Constants

const (
	earthRadiusKilometers float64 = 6371                   // Radius of Earth in kilometers
	nauticalMilesPerKm            = geo.KNauticalMilePerKM // fixed km -> nm conversion factor, 0.539957
	degToRad              float64 = math.Pi / 180
)

// Conversion function

func degreesToRadian(d float64) float64 {
	return d * degToRad
}

func toRadians(c geo.Latlong) geo.Latlong {
	return geo.Latlong{
		Lat:  degreesToRadian(c.Lat),
		Long: degreesToRadian(c.Long),
	}
}

// distance type

type DistanceStruct struct {
	C float64 // central angle in radians, multiply by a radius to obtain distance.
}

func newDistanceStruct(distance float64) DistanceStruct {
	return DistanceStruct{C: distance}
}

func (d DistanceStruct) Kilometers() float64 {
	return d.C * earthRadiusKilometers
}

func (d DistanceStruct) NauticalMiles() float64 {
	return d.Kilometers() * nauticalMilesPerKm
}

// Distance calculates the central angle between p and q using the haversine formula.
//
//nolint:mnd // readability of mathmatic formula
func Distance(p, q geo.Latlong) DistanceStruct {
	fromPos := toRadians(p)
	toPos := toRadians(q)

	deltaLat := toPos.Lat - fromPos.Lat
	deltaLon := toPos.Long - fromPos.Long

	a := math.Pow(math.Sin(deltaLat/2), 2) +
		math.Cos(fromPos.Lat)*
			math.Cos(toPos.Lat)*
			math.Pow(math.Sin(deltaLon/2), 2)
	// rounding can push a past 1 for antipodal points
	c := 2 * math.Asin(math.Sqrt(math.Min(a, 1)))

	return newDistanceStruct(c)
}

// GreatCircleDistance returns the great-circle distance between two points in nautical miles.
func GreatCircleDistance(lat1, lon1, lat2, lon2 float64) float64 {
	return Distance(
		geo.Latlong{Lat: lat1, Long: lon1},
		geo.Latlong{Lat: lat2, Long: lon2},
	).NauticalMiles()
}

// distanceNM is GreatCircleDistance for positions already held as geo.Latlong.
func distanceNM(p, q geo.Latlong) float64 {
	return Distance(p, q).NauticalMiles()
}

// roundTenth rounds to one decimal place.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10 //nolint:mnd // one decimal
}
