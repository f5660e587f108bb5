package tradler

import (
	"strings"
	"sync"
	"testing"
)

// newSyntheticTradler builds a session directly from a hand-written centroid
// table, bypassing dataset loading and caching.
func newSyntheticTradler(t *testing.T, countries []Country) *Tradler {
	t.Helper()

	m, err := NewDistanceMatrix(countries)
	if err != nil {
		t.Fatalf("NewDistanceMatrix: %v", err)
	}
	idx := make(map[string]int, len(countries))
	for i, c := range countries {
		idx[strings.ToLower(c.Name)] = i
	}
	tr := &Tradler{Countries: countries, nameIndex: idx, matrix: m, config: defaultConfig()}
	tr.buildCellIndex()
	return tr
}

// Shared real-dataset session for tests. Built once; the matrix computation
// for ~250 countries is fast but there is no point repeating it per test.
var (
	worldTradler     *Tradler
	worldTradlerErr  error
	worldTradlerOnce sync.Once
)

func newWorldTradler(t *testing.T) *Tradler {
	t.Helper()
	worldTradlerOnce.Do(func() {
		worldTradler, worldTradlerErr = NewTradler(WithCacheDir(t.TempDir()))
	})
	if worldTradlerErr != nil {
		t.Fatalf("NewTradler: %v", worldTradlerErr)
	}
	return worldTradler
}
