package tradler

import (
	"fmt"
	"math"
	"strings"
)

// EarthRadiusKm is the mean radius of Earth in kilometers, the sphere radius
// used for all great-circle distances.
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// points given in decimal degrees, computed on a sphere of radius
// EarthRadiusKm.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	φ1 := lat1 * math.Pi / 180
	φ2 := lat2 * math.Pi / 180
	dφ := (lat2 - lat1) * math.Pi / 180
	dλ := (lng2 - lng1) * math.Pi / 180

	sinDφ := math.Sin(dφ / 2)
	sinDλ := math.Sin(dλ / 2)

	a := sinDφ*sinDφ + math.Cos(φ1)*math.Cos(φ2)*sinDλ*sinDλ
	// clamp to account for floating point error before the inverse trig
	a = math.Max(0, math.Min(1, a))

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DistanceMatrix is the symmetric pairwise great-circle distance table for a
// centroid table, in kilometers. Immutable after construction.
type DistanceMatrix struct {
	names []string
	index map[string]int // lowercase name -> row
	d     [][]float64
}

// NewDistanceMatrix computes the full pairwise distance matrix for the given
// countries. Each unordered pair is computed once and mirrored; the diagonal
// is zero. Fails if any centroid is out of coordinate range.
func NewDistanceMatrix(countries []Country) (*DistanceMatrix, error) {
	m := &DistanceMatrix{
		names: make([]string, len(countries)),
		index: make(map[string]int, len(countries)),
		d:     make([][]float64, len(countries)),
	}
	for i, c := range countries {
		if err := validateCoordinates(c.Latitude, c.Longitude); err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
		key := strings.ToLower(c.Name)
		if _, ok := m.index[key]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCountry, c.Name)
		}
		m.names[i] = c.Name
		m.index[key] = i
		m.d[i] = make([]float64, len(countries))
	}

	for i := range countries {
		for j := i + 1; j < len(countries); j++ {
			km := Haversine(countries[i].Latitude, countries[i].Longitude,
				countries[j].Latitude, countries[j].Longitude)
			m.d[i][j] = km
			m.d[j][i] = km
		}
	}
	return m, nil
}

// matrixFromDistances rebuilds a DistanceMatrix around distances restored
// from the cache. The caller guarantees the shape matches the table.
func matrixFromDistances(countries []Country, d [][]float64) *DistanceMatrix {
	m := &DistanceMatrix{
		names: make([]string, len(countries)),
		index: make(map[string]int, len(countries)),
		d:     d,
	}
	for i, c := range countries {
		m.names[i] = c.Name
		m.index[strings.ToLower(c.Name)] = i
	}
	return m
}

// Size returns the number of countries in the matrix.
func (m *DistanceMatrix) Size() int {
	return len(m.names)
}

// Names returns the country names in matrix row order.
func (m *DistanceMatrix) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Distance returns the great-circle distance in kilometers between two
// countries by name (case-insensitive).
func (m *DistanceMatrix) Distance(a, b string) (float64, error) {
	ai, ok := m.index[strings.ToLower(strings.TrimSpace(a))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCountry, a)
	}
	bi, ok := m.index[strings.ToLower(strings.TrimSpace(b))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCountry, b)
	}
	return m.d[ai][bi], nil
}

// Row returns a copy of the distance row for one country: its distance to
// every country in matrix order.
func (m *DistanceMatrix) Row(name string) ([]float64, error) {
	i, ok := m.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCountry, name)
	}
	out := make([]float64, len(m.d[i]))
	copy(out, m.d[i])
	return out, nil
}
