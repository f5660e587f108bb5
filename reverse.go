package tradler

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// s2CellLevel determines the granularity of the S2 spatial index used for
// nearest-country lookup. Level 4 cells are roughly 600km across: country
// centroids are sparse (a few hundred points worldwide), so coarse cells keep
// the index small while the cell-plus-neighbors search usually finds a
// candidate on the first try. If it finds none (open ocean, polar queries),
// the lookup falls back to a linear scan.
const s2CellLevel = 4

// buildCellIndex creates the S2 cell index over country centroids.
func (t *Tradler) buildCellIndex() {
	t.cellIndex = make(map[s2.CellID][]int)
	for i, c := range t.Countries {
		ll := s2.LatLngFromDegrees(c.Latitude, c.Longitude)
		cell := s2.CellIDFromLatLng(ll).Parent(s2CellLevel)
		t.cellIndex[cell] = append(t.cellIndex[cell], i)
	}
}

// cellAndNeighbors returns the given cell plus its edge and corner neighbors.
func (t *Tradler) cellAndNeighbors(cell s2.CellID) []s2.CellID {
	cells := make([]s2.CellID, 0, 9)
	cells = append(cells, cell)

	edgeNeighbors := cell.EdgeNeighbors()
	for i := 0; i < 4; i++ {
		cells = append(cells, edgeNeighbors[i])
	}

	seen := make(map[s2.CellID]bool)
	for _, c := range cells {
		seen[c] = true
	}
	for i := 0; i < 4; i++ {
		for _, corner := range edgeNeighbors[i].EdgeNeighbors() {
			if !seen[corner] {
				cells = append(cells, corner)
				seen[corner] = true
			}
		}
	}
	return cells
}

// NearestCountry returns the country whose centroid is closest to the given
// coordinates. Useful for turning a point on the map into a guess. Ties are
// broken alphabetically for determinism.
func (t *Tradler) NearestCountry(lat, lng float64) (Country, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return Country{}, err
	}

	queryLL := s2.LatLngFromDegrees(lat, lng)
	queryCell := s2.CellIDFromLatLng(queryLL).Parent(s2CellLevel)

	bestIdx := -1
	bestDist := math.Inf(1)
	consider := func(idx int) {
		c := t.Countries[idx]
		dist := float64(queryLL.Distance(s2.LatLngFromDegrees(c.Latitude, c.Longitude)))
		if dist < bestDist || (dist == bestDist && bestIdx >= 0 && c.Name < t.Countries[bestIdx].Name) {
			bestIdx = idx
			bestDist = dist
		}
	}

	for _, cell := range t.cellAndNeighbors(queryCell) {
		for _, idx := range t.cellIndex[cell] {
			consider(idx)
		}
	}
	if bestIdx < 0 {
		for idx := range t.Countries {
			consider(idx)
		}
	}

	if bestIdx < 0 {
		return Country{}, fmt.Errorf("%w: empty table", ErrUnknownCountry)
	}
	return t.Countries[bestIdx], nil
}
