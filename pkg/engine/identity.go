package engine

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// kind distinguishes the two identity prefixes. Image and container IDs
// share a numeric pool (spec.md §3) but are disjoint by prefix.
type kind string

const (
	kindImage     kind = "img"
	kindContainer kind = "ps"

	poolMin = 42
	poolMax = 254
)

// allocate mints an opaque identifier of the given kind: a uniform random
// integer in [42, 254], formatted as "<prefix>_NNN", retried against the
// snapshot store on collision. There is no persistent counter — the pool
// is small enough that birthday-bound collisions are rare and cheaply
// retried (spec.md §4.1).
func (e *Engine) allocate(k kind) (string, error) {
	for attempt := 0; attempt < 1000; attempt++ {
		n := poolMin + rand.Intn(poolMax-poolMin+1)
		id := fmt.Sprintf("%s_%03d", k, n)
		exists, err := e.snapshotExists(id)
		if err != nil {
			return "", kernelRefusalErr(id, err)
		}
		if !exists {
			return id, nil
		}
	}
	return "", preconditionErr("", fmt.Errorf("identity pool for %q exhausted after 1000 attempts", k))
}

// suffix extracts the three-digit numeric body from an ID of the form
// "<prefix>_NNN".
func suffix(id string) (n int, err error) {
	i := strings.LastIndex(id, "_")
	if i < 0 {
		return 0, fmt.Errorf("malformed id %q: no '_' separator", id)
	}
	num, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return 0, fmt.Errorf("malformed id %q: %w", id, err)
	}
	return num, nil
}
