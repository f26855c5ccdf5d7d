// Package geom provides the small amount of geometry shared by the model and
// its tests. Positions are gonum r3 vectors; 2D runs simply keep Z at zero.
package geom

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Lerp moves from a toward b by the fixed distance d.
func Lerp(a, b r3.Vec, d float64) r3.Vec {
	return r3.Add(a, r3.Scale(d, r3.Unit(r3.Sub(b, a))))
}

// RandomInUnitSphere returns a uniformly distributed point inside the unit
// sphere, by rejection sampling from the enclosing cube. With dims == 2 the Z
// coordinate is pinned to zero and the sample is drawn from the unit disc.
func RandomInUnitSphere(rng *rand.Rand, dims int) r3.Vec {
	for {
		p := r3.Vec{
			X: uniform(rng, -1, 1),
			Y: uniform(rng, -1, 1),
		}
		if dims == 3 {
			p.Z = uniform(rng, -1, 1)
		}
		if r3.Norm2(p) < 1 {
			return p
		}
	}
}

// RandomUnit returns a uniformly distributed unit vector.
func RandomUnit(rng *rand.Rand, dims int) r3.Vec {
	return r3.Unit(RandomInUnitSphere(rng, dims))
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
