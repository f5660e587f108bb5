package tradler

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Hint is one piece of player feedback: a previously guessed country, the
// reported great-circle distance from it to the hidden target in kilometers,
// and optionally the reported compass direction toward the target. Leave
// Direction empty when the puzzle reported none.
type Hint struct {
	Guess     string
	Distance  float64
	Direction Direction
}

// ScoreEntry is one candidate country with its aggregate error across all
// hints, in kilometers. Lower is better.
type ScoreEntry struct {
	Country string
	Error   float64
}

var (
	// ErrNegativeDistance is returned for hints reporting a distance below zero.
	ErrNegativeDistance = errors.New("negative hint distance")

	// ErrNegativeTolerance is returned when the direction tolerance is below zero.
	ErrNegativeTolerance = errors.New("negative direction tolerance")
)

// DefaultPenalty is the multiplier applied to a hint's error term when the
// candidate lies in the wrong direction from the guess. 10 keeps wrong-way
// candidates in play but well behind; use math.Inf(1) to eliminate them
// outright (they stay in the output with an infinite score).
const DefaultPenalty = 10.0

type rankConfig struct {
	penalty float64
	tol     float64
}

// RankOption is a functional option for Rank.
type RankOption func(*rankConfig)

// WithPenalty sets the direction-mismatch multiplier. Values below 1 weaken
// direction filtering instead of strengthening it; math.Inf(1) turns it into
// a hard exclusion.
func WithPenalty(p float64) RankOption {
	return func(c *rankConfig) {
		c.penalty = p
	}
}

// WithTolerance sets how many degrees of latitude/longitude difference are
// treated as neutral when classifying a candidate's direction from a guess.
func WithTolerance(deg float64) RankOption {
	return func(c *rankConfig) {
		c.tol = deg
	}
}

// Rank scores every country in the table against the given hints and returns
// the full table sorted by ascending aggregate error, ties broken
// alphabetically.
//
// Per hint, a candidate's error term is |actual − reported| distance,
// multiplied by the penalty when the candidate's classified direction from
// the guess disagrees with the reported one; terms are summed across hints.
// A candidate equal to a guessed country is scored like any other (its
// actual distance is zero), so excluding already-guessed countries is the
// caller's choice.
//
// All hints are validated before any scoring: an unknown guess name, a
// negative distance, or a direction outside the eight octants fails the
// whole ranking with no partial result.
func (t *Tradler) Rank(hints []Hint, opts ...RankOption) ([]ScoreEntry, error) {
	cfg := rankConfig{penalty: DefaultPenalty}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.tol < 0 {
		return nil, fmt.Errorf("%w: %v", ErrNegativeTolerance, cfg.tol)
	}

	guessIdx := make([]int, len(hints))
	reported := make([]Direction, len(hints))
	for i, h := range hints {
		gi, ok := t.nameIndex[strings.ToLower(strings.TrimSpace(h.Guess))]
		if !ok {
			return nil, fmt.Errorf("hint %d: %w: %q", i, ErrUnknownCountry, h.Guess)
		}
		if h.Distance < 0 || math.IsNaN(h.Distance) {
			return nil, fmt.Errorf("hint %d: %w: %v", i, ErrNegativeDistance, h.Distance)
		}
		if h.Direction != "" {
			d, err := ParseDirection(string(h.Direction))
			if err != nil {
				return nil, fmt.Errorf("hint %d: %w", i, err)
			}
			reported[i] = d
		}
		guessIdx[i] = gi
	}

	totals := make([]float64, len(t.Countries))
	for i, h := range hints {
		gi := guessIdx[i]
		from := t.Countries[gi]
		row := t.matrix.d[gi]

		for ci, candidate := range t.Countries {
			e := math.Abs(row[ci] - h.Distance)
			if reported[i] != "" && !Classify(from, candidate, cfg.tol).Agrees(reported[i]) {
				if math.IsInf(cfg.penalty, 1) {
					// avoid 0 * Inf = NaN when the base error is exactly zero
					e = math.Inf(1)
				} else {
					e *= cfg.penalty
				}
			}
			totals[ci] += e
		}
	}

	entries := make([]ScoreEntry, len(t.Countries))
	for i, c := range t.Countries {
		entries[i] = ScoreEntry{Country: c.Name, Error: totals[i]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Error != entries[j].Error {
			return entries[i].Error < entries[j].Error
		}
		return strings.ToLower(entries[i].Country) < strings.ToLower(entries[j].Country)
	})
	return entries, nil
}
