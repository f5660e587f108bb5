// Command update-cache recomputes the country distance matrix and rewrites
// the on-disk cache.
//
// Usage:
//
//	go run ./cmd/update-cache
//
// This reads the embedded dataset (or ./tradler-data/countries.tsv when
// present) and writes to ./tradler-cache/.
package main

import (
	"fmt"
	"os"

	"tradler"
)

func main() {
	fmt.Println("Regenerating distance matrix cache...")

	if err := tradler.RegenerateCache(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Cache regenerated successfully.")
}
