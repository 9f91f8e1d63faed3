// apps/go-server/internal/flavor/flavor.go
//
// Cosmetic host names for grid nodes.
//
// Responsibilities:
//   - Load "<category> <name>" lines from FLAVOR_FILE or the embedded defaults.
//   - Hand out a name for a node category using the caller's seeded rng, so a
//     board generated from a seed always gets the same names.
//
// Names are flavor only; nothing in the game reads them back.
//
// Initialization behavior (Init):
//   1. If FLAVOR_FILE is set, read it.
//   2. Otherwise fall back to assets/hosts.txt.
//   3. Categories with no names fall back to "<category>-<nn>".
//
// Initialization is run once (sync.Once).

package flavor

import (
	"bufio"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/robalobadob/netbreach/apps/go-server/assets"
)

var (
	initOnce   sync.Once
	byCategory map[string][]string
	initialErr error
)

// Init loads host names exactly once.
func Init() error {
	initOnce.Do(func() {
		var lines []string
		if path := os.Getenv("FLAVOR_FILE"); path != "" {
			lines, initialErr = readFile(path)
		} else {
			lines, initialErr = assets.HostLines()
		}
		if initialErr != nil {
			return
		}
		byCategory = parse(lines)
	})
	return initialErr
}

func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// parse groups "<category> <name>" lines; malformed lines are skipped.
func parse(lines []string) map[string][]string {
	m := make(map[string][]string)
	for _, l := range lines {
		fields := strings.Fields(l)
		if len(fields) != 2 {
			continue
		}
		m[fields[0]] = append(m[fields[0]], fields[1])
	}
	for k := range m {
		sort.Strings(m[k])
	}
	return m
}

// Host returns a cosmetic host name for a node category.
func Host(category string, rng *rand.Rand) string {
	_ = Init()
	names := byCategory[strings.ToLower(category)]
	if len(names) == 0 {
		return fmt.Sprintf("%s-%02d", strings.ToLower(category), rng.IntN(100))
	}
	return names[rng.IntN(len(names))]
}

// Stats returns the number of names loaded per category.
func Stats() map[string]int {
	_ = Init()
	out := make(map[string]int, len(byCategory))
	for k, v := range byCategory {
		out[k] = len(v)
	}
	return out
}
