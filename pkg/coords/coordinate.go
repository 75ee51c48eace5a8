// Package coords parses and formats geographic coordinates entered by hand.
package coords

import (
	"fmt"
	"math"
)

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Coordinate is a validated latitude/longitude pair in decimal degrees.
// The zero value is the point (0, 0).
type Coordinate struct {
	lat float64
	lon float64
}

// New checks the range invariants and returns the coordinate. It is the only
// way to build a non-zero Coordinate.
func New(lat, lon float64) (Coordinate, error) {
	if k := check(lat, lon); k != 0 {
		return Coordinate{}, &ParseError{Kind: k}
	}
	return Coordinate{lat: lat, lon: lon}, nil
}

// check reports the first violated invariant, latitude before longitude.
func check(lat, lon float64) ErrorKind {
	switch {
	case math.IsNaN(lat) || math.IsNaN(lon):
		return NotANumber
	case lat < MinLatitude || lat > MaxLatitude:
		return LatitudeOutOfRange
	case lon < MinLongitude || lon > MaxLongitude:
		return LongitudeOutOfRange
	}
	return 0
}

func (c Coordinate) Latitude() float64  { return c.lat }
func (c Coordinate) Longitude() float64 { return c.lon }

func (c Coordinate) String() string { return Format(c) }

// Format renders c as "lat, lon" with five decimals each.
func Format(c Coordinate) string {
	return fmt.Sprintf("%.5f, %.5f", c.lat, c.lon)
}
