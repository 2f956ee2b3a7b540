// Package plates loads the on-disk license-plate whitelist
// (plates.txt, spec §7) and exposes the two independent views the spec
// requires: the Controller's authorised-plates map (Whitelist, read on
// every entrance authorisation decision) and the Simulator's biased
// selection pool (Pool, read by the arrival generator). Both are loaded
// separately from the same file per spec §3, mirroring the original
// project's plates-hash-table.c, which normalises every entry to upper
// case on insert and skips malformed lines without error.
package plates

import (
	"bufio"
	"math/rand"
	"os"
	"regexp"
	"strings"
	"sync"
)

// plateFormat matches spec §7's plates.txt line shape: three digits
// followed by three letters, e.g. 206WHS.
var plateFormat = regexp.MustCompile(`^[0-9]{3}[A-Z]{3}$`)

// Valid reports whether plate (already upper-cased) matches the
// NNNLLL format spec §7 requires of a whitelist entry.
func Valid(plate string) bool {
	return plateFormat.MatchString(plate)
}

// Whitelist is the Controller-private authorised-plates map: a
// case-insensitive set, read-mostly after startup but lock-protected
// since entrance workers consult it concurrently (spec §4).
type Whitelist struct {
	mu  sync.RWMutex
	set map[string]struct{}
}

// LoadWhitelist reads path and builds a Whitelist, silently skipping
// any line that is empty or does not match the NNNLLL format once
// upper-cased — including the length-5/7 boundary cases spec §8 calls
// out explicitly.
func LoadWhitelist(path string) (*Whitelist, error) {
	entries, err := readPlateFile(path)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(entries))
	for _, p := range entries {
		set[p] = struct{}{}
	}
	return &Whitelist{set: set}, nil
}

// Authorised reports whether plate (in any case) is on the whitelist.
func (w *Whitelist) Authorised(plate string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.set[strings.ToUpper(plate)]
	return ok
}

// Len reports the number of authorised plates.
func (w *Whitelist) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.set)
}

// Pool is the Simulator-private pool of authorised plates used for
// biased random selection: spec §5 has the arrival generator draw from
// this pool with probability CHANCE, and from the unconstrained NNNLLL
// space otherwise.
type Pool struct {
	mu      sync.Mutex
	rng     *rand.Rand
	entries []string
}

// LoadPool reads path independently of any Whitelist over the same
// file, per spec §3's "separately from the Controller" wording.
func LoadPool(path string, rng *rand.Rand) (*Pool, error) {
	entries, err := readPlateFile(path)
	if err != nil {
		return nil, err
	}
	return &Pool{rng: rng, entries: entries}, nil
}

// Pick returns a uniformly random plate from the pool. It panics if the
// pool is empty; callers are expected to only invoke it when CHANCE-gated
// selection has already established the pool is in use, and an empty
// plates.txt with CHANCE > 0 is a configuration error, not a runtime one.
func (p *Pool) Pick() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.entries[p.rng.Intn(len(p.entries))]
}

// Len reports the number of plates available for biased selection.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// readPlateFile parses an ASCII plates.txt: one entry per line,
// upper-cased, validated against the NNNLLL format, malformed or blank
// lines skipped silently (spec §8's "malformed input" boundary
// behaviour).
func readPlateFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.ToUpper(strings.TrimSpace(sc.Text()))
		if line == "" {
			continue
		}
		if !Valid(line) {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
