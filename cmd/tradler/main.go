// Command tradler ranks candidate countries for a Tradle-style puzzle from
// distance/direction hints.
//
// Hints come either from positional arguments in GUESS:KM[:DIR] form:
//
//	tradler "Thailand:7705:NW" "Eritrea:4985"
//
// or from a YAML file:
//
//	tradler -f hints.yaml
//
// where hints.yaml looks like:
//
//	penalty: 10
//	tol: 0
//	hints:
//	  - guess: Thailand
//	    km: 7705
//	    direction: NW
//	  - guess: Eritrea
//	    km: 4985
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"tradler"
)

type hintsFile struct {
	Penalty *float64 `yaml:"penalty"`
	Tol     *float64 `yaml:"tol"`
	Hints   []struct {
		Guess     string  `yaml:"guess"`
		Km        float64 `yaml:"km"`
		Direction string  `yaml:"direction"`
	} `yaml:"hints"`
}

func main() {
	var (
		file    = flag.String("f", "", "YAML file with hints (overrides positional hints)")
		penalty = flag.Float64("penalty", tradler.DefaultPenalty, "multiplier for direction mismatches (use 'inf' via -hard for hard exclusion)")
		hard    = flag.Bool("hard", false, "eliminate direction mismatches outright (infinite penalty)")
		tol     = flag.Float64("tol", 0, "degrees of direction tolerance")
		top     = flag.Int("top", 10, "number of candidates to print (0 = all)")
		fuzzy   = flag.Int("fuzzy", 1, "typo tolerance for guess names (edit distance, 0 = exact)")
	)
	flag.Parse()

	t, err := tradler.GetDefaultTradler()
	if err != nil {
		fatal("loading country data: %v", err)
	}

	var hints []tradler.Hint
	p, tl := *penalty, *tol

	if *file != "" {
		raw, err := os.ReadFile(*file)
		if err != nil {
			fatal("%v", err)
		}
		var hf hintsFile
		if err := yaml.Unmarshal(raw, &hf); err != nil {
			fatal("parsing %s: %v", *file, err)
		}
		if hf.Penalty != nil {
			p = *hf.Penalty
		}
		if hf.Tol != nil {
			tl = *hf.Tol
		}
		for _, h := range hf.Hints {
			hints = append(hints, tradler.Hint{Guess: h.Guess, Distance: h.Km, Direction: tradler.Direction(h.Direction)})
		}
	} else {
		for _, arg := range flag.Args() {
			h, err := parseHintArg(arg)
			if err != nil {
				fatal("%v", err)
			}
			hints = append(hints, h)
		}
	}

	if len(hints) == 0 {
		fmt.Fprintln(os.Stderr, "no hints given")
		flag.Usage()
		os.Exit(2)
	}
	if *hard {
		p = math.Inf(1)
	}

	// Resolve guess names leniently (ISO codes, typos) before the strict Rank.
	for i := range hints {
		c, err := t.Resolve(hints[i].Guess, tradler.ResolveOptions{Fuzzy: *fuzzy})
		if err != nil {
			fatal("%v", err)
		}
		hints[i].Guess = c.Name
	}

	ranked, err := t.Rank(hints, tradler.WithPenalty(p), tradler.WithTolerance(tl))
	if err != nil {
		fatal("%v", err)
	}

	n := *top
	if n <= 0 || n > len(ranked) {
		n = len(ranked)
	}
	for i := 0; i < n; i++ {
		fmt.Printf("%3d. %-32s %12.1f km\n", i+1, ranked[i].Country, ranked[i].Error)
	}
}

// parseHintArg parses GUESS:KM or GUESS:KM:DIR.
func parseHintArg(arg string) (tradler.Hint, error) {
	parts := strings.Split(arg, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return tradler.Hint{}, fmt.Errorf("bad hint %q: want GUESS:KM[:DIR]", arg)
	}
	km, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return tradler.Hint{}, fmt.Errorf("bad hint %q: %v", arg, err)
	}
	h := tradler.Hint{Guess: strings.TrimSpace(parts[0]), Distance: km}
	if len(parts) == 3 {
		h.Direction = tradler.Direction(strings.TrimSpace(parts[2]))
	}
	return h, nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
