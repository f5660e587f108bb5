// Package tradler ranks candidate countries for a geography-guessing puzzle
// given a sequence of player hints. Each hint names a previously guessed
// country, a reported great-circle distance to the hidden target, and an
// optional compass direction. Candidates are scored by how well the distances
// between country centroids agree with the reported hints, with a penalty
// applied when a candidate lies in the wrong direction from a guess.
package tradler

import (
	"bufio"
	"bytes"
	"embed"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"io/fs"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/TomiHiltunen/geohash-golang"
	"github.com/golang/geo/s2"
)

//go:embed data/countries.tsv
var embeddedData embed.FS

// embeddedDataFile is the path of the country centroid dataset inside the
// embedded filesystem. A file with the same base name in the configured data
// directory overrides it.
const embeddedDataFile = "data/countries.tsv"

var (
	// ErrUnknownCountry is returned when a name does not resolve to an entry
	// in the loaded country table.
	ErrUnknownCountry = errors.New("unknown country")

	// ErrBadCoordinates is returned for latitudes outside [-90, 90] or
	// longitudes outside [-180, 180], and for NaN/Inf inputs.
	ErrBadCoordinates = errors.New("coordinates out of range")

	// ErrDuplicateCountry is returned when the dataset contains two entries
	// with the same (case-insensitive) name.
	ErrDuplicateCountry = errors.New("duplicate country name")
)

// Country is a single entry of the centroid table: a canonical name, ISO
// codes, and a representative (centroid) coordinate in degrees.
type Country struct {
	Name      string
	ISO       string // ISO 3166-1 alpha-2
	ISO3      string // ISO 3166-1 alpha-3
	Latitude  float64
	Longitude float64
}

// Config contains configuration options for Tradler initialization.
type Config struct {
	DataDir  string // Directory checked for a countries.tsv override (default: "./tradler-data")
	CacheDir string // Directory for the matrix cache file (default: "./tradler-cache")
	DataFile string // Optional extra TSV merged over the base dataset
}

// Option is a functional option for configuring Tradler.
type Option func(*Config)

// WithDataDir sets the directory checked for a countries.tsv override.
func WithDataDir(dir string) Option {
	return func(c *Config) {
		c.DataDir = dir
	}
}

// WithCacheDir sets the directory for the distance matrix cache file.
func WithCacheDir(dir string) Option {
	return func(c *Config) {
		c.CacheDir = dir
	}
}

// WithDataFile merges an additional TSV dataset over the embedded one.
// Rows with a known name replace that country's coordinates; rows whose
// centroid geohash collides with an existing entry are treated as aliases
// and skipped.
func WithDataFile(path string) Option {
	return func(c *Config) {
		c.DataFile = path
	}
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	return &Config{
		DataDir:  "./tradler-data",
		CacheDir: "./tradler-cache",
	}
}

// Tradler holds the loaded country table and the derived distance matrix.
// All state is immutable after construction; safe for concurrent use.
type Tradler struct {
	Countries []Country           // centroid table, dataset order
	nameIndex map[string]int      // lowercase name -> index into Countries
	matrix    *DistanceMatrix     // pairwise great-circle distances, km
	cellIndex map[s2.CellID][]int // S2 cell index for nearest-country lookup
	config    *Config
}

// Singleton pattern for the default Tradler instance.
var (
	defaultTradler     *Tradler
	defaultTradlerOnce sync.Once
	defaultTradlerErr  error
)

// GetDefaultTradler returns a shared Tradler instance, initializing it on
// first call.
func GetDefaultTradler() (*Tradler, error) {
	defaultTradlerOnce.Do(func() {
		defaultTradler, defaultTradlerErr = NewTradler()
	})
	return defaultTradler, defaultTradlerErr
}

// NewTradler creates a Tradler with the country dataset loaded and the
// distance matrix computed (or read from the on-disk cache when its
// fingerprint still matches the dataset).
//
// Example:
//
//	t, err := NewTradler()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ranked, err := t.Rank([]Hint{{Guess: "Thailand", Distance: 7705, Direction: NorthWest}})
func NewTradler(opts ...Option) (*Tradler, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	t := &Tradler{config: cfg}
	if err := t.loadCountries(); err != nil {
		return nil, fmt.Errorf("loading country data: %w", err)
	}

	fp := fingerprint(t.Countries)
	cachePath := filepath.Join(cfg.CacheDir, "matrix.dmp")

	if d, err := loadMatrixCache(cachePath, fp, len(t.Countries)); err == nil {
		t.matrix = matrixFromDistances(t.Countries, d)
	} else {
		m, err := NewDistanceMatrix(t.Countries)
		if err != nil {
			return nil, fmt.Errorf("building distance matrix: %w", err)
		}
		t.matrix = m
		if err := storeMatrixCache(cfg.CacheDir, cachePath, fp, m.d); err != nil {
			log.Printf("warning: failed to store matrix cache: %v", err)
		}
	}

	t.buildCellIndex()
	return t, nil
}

// Matrix returns the precomputed distance matrix.
func (t *Tradler) Matrix() *DistanceMatrix {
	return t.matrix
}

// Country returns the entry for a country name (case-insensitive exact match).
func (t *Tradler) Country(name string) (Country, bool) {
	i, ok := t.nameIndex[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Country{}, false
	}
	return t.Countries[i], true
}

// Distance returns the great-circle distance in kilometers between the
// centroids of two countries.
func (t *Tradler) Distance(a, b string) (float64, error) {
	ai, ok := t.nameIndex[strings.ToLower(strings.TrimSpace(a))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCountry, a)
	}
	bi, ok := t.nameIndex[strings.ToLower(strings.TrimSpace(b))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCountry, b)
	}
	return t.matrix.d[ai][bi], nil
}

// geohashDedupePrecision gives ~1km cells: fine enough that no two real
// countries collide, coarse enough to collapse alias rows for the same point.
const geohashDedupePrecision = 6

// loadCountries parses the base dataset (filesystem override or embedded
// copy), merges the optional extra data file, and builds the name index.
func (t *Tradler) loadCountries() error {
	seen := make(map[string]bool) // centroid geohash -> present

	fh, cleanup, err := openOptionallyEmbeddedFile(filepath.Join(t.config.DataDir, "countries.tsv"))
	if err != nil {
		return err
	}
	defer cleanup()
	if err := t.mergeDataset(fh, seen); err != nil {
		return err
	}

	if t.config.DataFile != "" {
		fi, err := os.Open(t.config.DataFile)
		if err != nil {
			return fmt.Errorf("opening data file: %w", err)
		}
		defer fi.Close()
		if err := t.mergeDataset(fi, seen); err != nil {
			return fmt.Errorf("merging %s: %w", t.config.DataFile, err)
		}
	}

	if len(t.Countries) == 0 {
		return errors.New("empty country dataset")
	}
	return nil
}

// mergeDataset reads one TSV dataset into the table. Known names replace the
// existing entry; new names whose centroid geohash is already present are
// aliases of an existing point and skipped.
//
// Row format: name<tab>iso2<tab>iso3<tab>lat<tab>lng. Lines starting with
// '#' and rows with unparseable coordinates are skipped, matching the lenient
// scanning used for raw geo data dumps.
func (t *Tradler) mergeDataset(r io.Reader, seen map[string]bool) error {
	if t.nameIndex == nil {
		t.nameIndex = make(map[string]int)
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 5 {
			continue
		}

		lat, errLat := strconv.ParseFloat(fields[3], 64)
		lng, errLng := strconv.ParseFloat(fields[4], 64)
		if errLat != nil || errLng != nil {
			continue
		}
		if err := validateCoordinates(lat, lng); err != nil {
			return fmt.Errorf("%s: %w", fields[0], err)
		}

		c := Country{
			Name:      strings.TrimSpace(fields[0]),
			ISO:       strings.TrimSpace(fields[1]),
			ISO3:      strings.TrimSpace(fields[2]),
			Latitude:  lat,
			Longitude: lng,
		}
		if c.Name == "" {
			continue
		}

		key := strings.ToLower(c.Name)
		gh := geohash.EncodeWithPrecision(lat, lng, geohashDedupePrecision)

		if i, ok := t.nameIndex[key]; ok {
			t.Countries[i] = c
			seen[gh] = true
			continue
		}
		if seen[gh] {
			continue
		}
		seen[gh] = true
		t.nameIndex[key] = len(t.Countries)
		t.Countries = append(t.Countries, c)
	}
	return scanner.Err()
}

// validateCoordinates rejects NaN/Inf and out-of-range degrees.
func validateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return fmt.Errorf("%w: (%v, %v)", ErrBadCoordinates, lat, lng)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return fmt.Errorf("%w: (%v, %v)", ErrBadCoordinates, lat, lng)
	}
	return nil
}

// openOptionallyEmbeddedFile opens a filesystem file if present, falling back
// to the embedded dataset. The filesystem-first order lets a fresh data drop
// override the compiled-in copy without a rebuild.
func openOptionallyEmbeddedFile(file string) (fs.File, func() error, error) {
	if fh, err := os.Open(file); err == nil {
		return fh, fh.Close, nil
	}
	fh, err := embeddedData.Open(embeddedDataFile)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", embeddedDataFile, err)
	}
	return fh, fh.Close, nil
}

// fingerprint hashes the centroid table so a cached matrix can be tied to the
// exact dataset it was computed from.
func fingerprint(countries []Country) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, c := range countries {
		io.WriteString(h, c.Name)
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(c.Latitude))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(c.Longitude))
		h.Write(buf[:])
	}
	return h.Sum64()
}

// matrixCache is the gob payload written to disk.
type matrixCache struct {
	Fingerprint uint64
	Distances   [][]float64
}

// errStaleCache reports a cache whose fingerprint or shape no longer matches
// the loaded dataset.
var errStaleCache = errors.New("stale matrix cache")

func loadMatrixCache(path string, fp uint64, n int) ([][]float64, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var mc matrixCache
	if err := gob.NewDecoder(fh).Decode(&mc); err != nil {
		return nil, err
	}
	if mc.Fingerprint != fp || len(mc.Distances) != n {
		return nil, errStaleCache
	}
	for _, row := range mc.Distances {
		if len(row) != n {
			return nil, errStaleCache
		}
	}
	return mc.Distances, nil
}

func storeMatrixCache(cacheDir, path string, fp uint64, d [][]float64) error {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	b := new(bytes.Buffer)
	if err := gob.NewEncoder(b).Encode(matrixCache{Fingerprint: fp, Distances: d}); err != nil {
		return err
	}
	return os.WriteFile(path, b.Bytes(), 0644)
}

// RegenerateCache recomputes the distance matrix from the current dataset and
// rewrites the on-disk cache, bypassing any existing cache file.
func RegenerateCache(opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	t := &Tradler{config: cfg}
	if err := t.loadCountries(); err != nil {
		return fmt.Errorf("loading country data: %w", err)
	}
	m, err := NewDistanceMatrix(t.Countries)
	if err != nil {
		return fmt.Errorf("building distance matrix: %w", err)
	}

	cachePath := filepath.Join(cfg.CacheDir, "matrix.dmp")
	if err := storeMatrixCache(cfg.CacheDir, cachePath, fingerprint(t.Countries), m.d); err != nil {
		return fmt.Errorf("storing matrix cache: %w", err)
	}
	return nil
}
