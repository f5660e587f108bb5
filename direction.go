package tradler

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Direction is a compass octant, or the empty string when no direction was
// reported. Composite octants are the concatenation of their axis components
// ("N"+"W" = "NW").
type Direction string

const (
	North     Direction = "N"
	NorthEast Direction = "NE"
	East      Direction = "E"
	SouthEast Direction = "SE"
	South     Direction = "S"
	SouthWest Direction = "SW"
	West      Direction = "W"
	NorthWest Direction = "NW"
)

// ErrInvalidDirection is returned for direction strings outside the eight
// compass octants.
var ErrInvalidDirection = errors.New("invalid direction")

var validDirections = map[Direction]bool{
	North: true, NorthEast: true, East: true, SouthEast: true,
	South: true, SouthWest: true, West: true, NorthWest: true,
}

// ParseDirection normalizes a direction string to one of the eight octants.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if !validDirections[d] {
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
	return d, nil
}

// vertical returns the north/south component: 1 for north, -1 for south,
// 0 when the axis has no component.
func (d Direction) vertical() int {
	switch {
	case strings.ContainsRune(string(d), 'N'):
		return 1
	case strings.ContainsRune(string(d), 'S'):
		return -1
	}
	return 0
}

// horizontal returns the east/west component: 1 for east, -1 for west,
// 0 when the axis has no component.
func (d Direction) horizontal() int {
	switch {
	case strings.ContainsRune(string(d), 'E'):
		return 1
	case strings.ContainsRune(string(d), 'W'):
		return -1
	}
	return 0
}

// Agrees reports whether d, as a classified direction, is consistent with a
// reported direction. Each axis the reported direction names must not be
// contradicted; an axis classified as neutral (no component) is compatible
// with anything, so the empty classification agrees with every report.
func (d Direction) Agrees(reported Direction) bool {
	if v, rv := d.vertical(), reported.vertical(); v != 0 && rv != 0 && v != rv {
		return false
	}
	if h, rh := d.horizontal(), reported.horizontal(); h != 0 && rh != 0 && h != rh {
		return false
	}
	return true
}

// wrapLongitude folds a raw longitude difference into (-180, 180] so that it
// represents the shorter angular path across the date line.
func wrapLongitude(d float64) float64 {
	for d > 180 {
		d -= 360
	}
	for d <= -180 {
		d += 360
	}
	return d
}

// Classify returns the compass octant of "to" as seen from "from", using
// independent sign tests on the latitude and wraparound-adjusted longitude
// differences. Differences within tol degrees of zero leave that axis out of
// the result; when both axes are within tol the result is the empty
// Direction.
//
// This is a rectangular approximation rather than a geodesic bearing, an
// accepted accuracy trade-off near the poles. See InitialBearing for the
// higher-fidelity alternative.
func Classify(from, to Country, tol float64) Direction {
	dLat := to.Latitude - from.Latitude
	dLng := wrapLongitude(to.Longitude - from.Longitude)

	var ns, ew string
	if dLat > tol {
		ns = "N"
	} else if dLat < -tol {
		ns = "S"
	}
	if dLng > tol {
		ew = "E"
	} else if dLng < -tol {
		ew = "W"
	}
	return Direction(ns + ew)
}

// InitialBearing returns the true great-circle initial bearing from one
// country's centroid to another's, in degrees clockwise from north in
// [0, 360). It is the drop-in substitute for Classify when geodesic accuracy
// matters more than the rectangular approximation's simplicity.
func InitialBearing(from, to Country) float64 {
	φ1 := from.Latitude * math.Pi / 180
	φ2 := to.Latitude * math.Pi / 180
	dλ := wrapLongitude(to.Longitude-from.Longitude) * math.Pi / 180

	y := math.Sin(dλ) * math.Cos(φ2)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(dλ)
	θ := math.Atan2(y, x)

	return math.Mod(θ*180/math.Pi+360, 360)
}
