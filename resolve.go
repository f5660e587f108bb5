package tradler

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxFuzzyDistance caps ResolveOptions.Fuzzy to keep mistyped queries from
// matching wildly unrelated names.
const maxFuzzyDistance = 3

// maxResolveInputLen limits the query length fed to edit-distance
// calculations.
const maxResolveInputLen = 256

// ResolveOptions configures country name resolution.
type ResolveOptions struct {
	Fuzzy int // Max edit distance for typo tolerance (0 = exact only, 1-2 recommended)
}

// Resolve maps a user-supplied name to a country in the table. It accepts the
// canonical name (case-insensitive) and the ISO alpha-2/alpha-3 codes. With
// Fuzzy > 0, a query within that Levenshtein distance of exactly one best
// name also resolves, so "Thialand" still finds Thailand.
//
// Rank performs strict lookups; Resolve is the lenient front door for input
// coming from a human.
func (t *Tradler) Resolve(name string, opts ...ResolveOptions) (Country, error) {
	n := strings.TrimSpace(name)
	if runes := []rune(n); len(runes) > maxResolveInputLen {
		n = string(runes[:maxResolveInputLen])
	}
	if n == "" {
		return Country{}, fmt.Errorf("%w: %q", ErrUnknownCountry, name)
	}

	options := ResolveOptions{}
	if len(opts) > 0 {
		options = opts[0]
	}
	if options.Fuzzy > maxFuzzyDistance {
		options.Fuzzy = maxFuzzyDistance
	}

	if c, ok := t.Country(n); ok {
		return c, nil
	}

	if len(n) == 2 || len(n) == 3 {
		code := strings.ToUpper(n)
		for _, c := range t.Countries {
			if c.ISO == code || c.ISO3 == code {
				return c, nil
			}
		}
	}

	if options.Fuzzy > 0 {
		if c, ok := t.fuzzyResolve(n, options.Fuzzy); ok {
			return c, nil
		}
	}
	return Country{}, fmt.Errorf("%w: %q", ErrUnknownCountry, name)
}

// fuzzyResolve scans for the unique country name closest to the query within
// maxDist edit distance. Ties at the best distance are ambiguous and do not
// resolve.
func (t *Tradler) fuzzyResolve(n string, maxDist int) (Country, bool) {
	query := strings.ToLower(n)
	best := maxDist + 1
	bestIdx := -1
	ambiguous := false

	for i, c := range t.Countries {
		dist := levenshtein.ComputeDistance(query, strings.ToLower(c.Name))
		if dist < best {
			best = dist
			bestIdx = i
			ambiguous = false
		} else if dist == best {
			ambiguous = true
		}
	}

	if bestIdx < 0 || ambiguous {
		return Country{}, false
	}
	return t.Countries[bestIdx], true
}
