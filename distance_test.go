package tradler

import (
	"errors"
	"math"
	"testing"
)

func TestHaversineKnownDistances(t *testing.T) {
	tr := newWorldTradler(t)

	// Reference values computed independently with R=6371 km on the same
	// centroid table.
	cases := []struct {
		a, b string
		want float64
	}{
		{"Thailand", "Eritrea", 6533.39},
		{"Norway", "Sweden", 561.28},
		{"France", "Germany", 815.83},
	}
	for _, tc := range cases {
		got, err := tr.Distance(tc.a, tc.b)
		if err != nil {
			t.Fatalf("Distance(%s, %s): %v", tc.a, tc.b, err)
		}
		if math.Abs(got-tc.want) > 0.01 {
			t.Errorf("Distance(%s, %s) = %f, want %f", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestMatrixSymmetryAndDiagonal(t *testing.T) {
	tr := newWorldTradler(t)
	m := tr.Matrix()
	n := m.Size()

	for i := 0; i < n; i++ {
		if m.d[i][i] != 0 {
			t.Errorf("d[%d][%d] = %f, want 0", i, i, m.d[i][i])
		}
		for j := i + 1; j < n; j++ {
			if m.d[i][j] != m.d[j][i] {
				t.Errorf("d[%d][%d] = %f but d[%d][%d] = %f", i, j, m.d[i][j], j, i, m.d[j][i])
			}
			if m.d[i][j] < 0 {
				t.Errorf("d[%d][%d] = %f, want non-negative", i, j, m.d[i][j])
			}
		}
	}
}

func TestMatrixTriangleInequality(t *testing.T) {
	tr := newWorldTradler(t)
	m := tr.Matrix()
	n := m.Size()

	// Spot-check triples across the table. Allow a small epsilon for
	// floating point accumulation; great-circle distances on a sphere
	// satisfy the inequality exactly.
	const eps = 1e-6
	for i := 0; i < n; i += 7 {
		for j := 1; j < n; j += 11 {
			for k := 2; k < n; k += 13 {
				if m.d[i][k] > m.d[i][j]+m.d[j][k]+eps {
					t.Fatalf("triangle inequality violated for (%s, %s, %s): %f > %f + %f",
						m.names[i], m.names[j], m.names[k], m.d[i][k], m.d[i][j], m.d[j][k])
				}
			}
		}
	}
}

func TestHaversineIdenticalAndAntipodal(t *testing.T) {
	if d := Haversine(15.87, 100.99, 15.87, 100.99); d != 0 {
		t.Errorf("identical points: got %f, want 0", d)
	}

	// Antipodal points sit at half the circumference; the clamp keeps the
	// trig argument in domain even when rounding pushes it past 1.
	want := math.Pi * EarthRadiusKm
	if d := Haversine(0, 0, 0, 180); math.Abs(d-want) > 0.001 {
		t.Errorf("antipodal points: got %f, want %f", d, want)
	}
	if d := Haversine(90, 0, -90, 0); math.Abs(d-want) > 0.001 {
		t.Errorf("pole to pole: got %f, want %f", d, want)
	}
}

func TestNewDistanceMatrixRejectsBadCoordinates(t *testing.T) {
	cases := [][]Country{
		{{Name: "A", Latitude: 91, Longitude: 0}},
		{{Name: "A", Latitude: 0, Longitude: -181}},
		{{Name: "A", Latitude: math.NaN(), Longitude: 0}},
		{{Name: "A", Latitude: 0, Longitude: math.Inf(1)}},
	}
	for _, countries := range cases {
		if _, err := NewDistanceMatrix(countries); !errors.Is(err, ErrBadCoordinates) {
			t.Errorf("NewDistanceMatrix(%+v): got %v, want ErrBadCoordinates", countries, err)
		}
	}
}

func TestNewDistanceMatrixRejectsDuplicateNames(t *testing.T) {
	countries := []Country{
		{Name: "Atlantis", Latitude: 1, Longitude: 1},
		{Name: "atlantis", Latitude: 2, Longitude: 2},
	}
	if _, err := NewDistanceMatrix(countries); !errors.Is(err, ErrDuplicateCountry) {
		t.Errorf("got %v, want ErrDuplicateCountry", err)
	}
}

func TestMatrixRowIsACopy(t *testing.T) {
	tr := newWorldTradler(t)
	m := tr.Matrix()

	row, err := m.Row("Thailand")
	if err != nil {
		t.Fatal(err)
	}
	row[0] += 1000

	again, err := m.Row("Thailand")
	if err != nil {
		t.Fatal(err)
	}
	if again[0] == row[0] {
		t.Error("Row returned a reference to internal state")
	}
}

func TestMatrixUnknownName(t *testing.T) {
	tr := newWorldTradler(t)
	if _, err := tr.Matrix().Distance("Thailand", "Narnia"); !errors.Is(err, ErrUnknownCountry) {
		t.Errorf("got %v, want ErrUnknownCountry", err)
	}
	if _, err := tr.Matrix().Row("Narnia"); !errors.Is(err, ErrUnknownCountry) {
		t.Errorf("got %v, want ErrUnknownCountry", err)
	}
}
