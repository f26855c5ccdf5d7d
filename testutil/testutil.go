// Package testutil provides shared helpers for tests: seeded random sources
// and brute-force oracles.
package testutil

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// NewRNG returns a deterministic random generator for tests.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RandomPoints generates n points with coordinates uniform in [-scale, scale).
func RandomPoints(rng *rand.Rand, n int, scale float64) []r3.Vec {
	pts := make([]r3.Vec, n)
	for i := range pts {
		pts[i] = r3.Vec{
			X: (rng.Float64()*2 - 1) * scale,
			Y: (rng.Float64()*2 - 1) * scale,
			Z: (rng.Float64()*2 - 1) * scale,
		}
	}
	return pts
}

// BruteNearest returns the index of the point in pts nearest to q and the
// distance to it. It is the oracle nearest-neighbor implementation tests
// compare the spatial index against.
func BruteNearest(pts []r3.Vec, q r3.Vec) (int, float64) {
	best := -1
	bestDist := math.Inf(1)
	for i, p := range pts {
		if d := r3.Norm(r3.Sub(p, q)); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}
