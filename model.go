package dlaf

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/dlaf/internal/geom"
	"github.com/hupe1980/dlaf/spatial"
)

// Model holds the aggregate: the simulation parameters, the spatial index
// over committed particles and the bounding radius. Add is the single
// mutation point and must only be called from the coordinator's execution
// context; the walk methods only read, and the round barriers guarantee that
// no Add overlaps any walk.
type Model struct {
	opts Options
	sink Sink

	index *spatial.Index

	// boundingRadius is the radius of the sphere, centered at the origin,
	// guaranteed to contain all particles plus one attraction distance of
	// margin. Monotonically non-decreasing; written only between rounds.
	boundingRadius float64
}

// New creates a Model with the given options applied on top of
// DefaultOptions.
func New(optFns ...func(o *Options)) (*Model, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if err := opts.validate(); err != nil {
		return nil, err
	}

	sink := opts.Sink
	if sink == nil {
		sink = discardSink{}
	}

	return &Model{
		opts:  opts,
		sink:  sink,
		index: spatial.New(),
	}, nil
}

// Count returns the number of committed particles.
func (m *Model) Count() int { return m.index.Len() }

// BoundingRadius returns the current bounding radius.
func (m *Model) BoundingRadius() float64 { return m.boundingRadius }

// Add commits a new particle with the given parent, assigning the next
// sequential identity, growing the bounding radius and emitting the particle
// to the sink. An emit failure aborts the run.
func (m *Model) Add(pos r3.Vec, parent int) (Particle, error) {
	p := Particle{
		ID:     m.index.Len(),
		Parent: parent,
		Pos:    pos,
	}
	m.index.Insert(pos, p.ID)

	if r := r3.Norm(pos) + m.opts.AttractionDistance; r > m.boundingRadius {
		m.boundingRadius = r
	}

	if err := m.sink.Emit(p); err != nil {
		return Particle{}, fmt.Errorf("emit particle %d: %w", p.ID, err)
	}
	return p, nil
}

// RandomStartingPosition returns a uniformly-random point on the surface of
// the sphere of radius BoundingRadius.
func (m *Model) RandomStartingPosition(rng *rand.Rand) r3.Vec {
	return r3.Scale(m.boundingRadius, geom.RandomUnit(rng, m.opts.Dimension))
}

// ShouldReset reports whether a walking particle has wandered implausibly
// far and should be restarted instead of walked indefinitely.
func (m *Model) ShouldReset(p r3.Vec) bool {
	return r3.Norm(p) > m.boundingRadius*2
}

// ShouldJoin reports whether a walking particle within attraction distance of
// parent sticks. Sampled independently per encounter.
func (m *Model) ShouldJoin(rng *rand.Rand, p r3.Vec, parent int) bool {
	return rng.Float64() <= m.opts.Stickiness
}

// PlaceParticle computes the final resting position of a joining particle:
// exactly ParticleSpacing away from its parent, along the line from the
// parent toward the candidate.
func (m *Model) PlaceParticle(p, parent r3.Vec) r3.Vec {
	return geom.Lerp(parent, p, m.opts.ParticleSpacing)
}

// MotionVector returns a unit-length random direction for one walk step.
func (m *Model) MotionVector(rng *rand.Rand, p r3.Vec) r3.Vec {
	return geom.RandomUnit(rng, m.opts.Dimension)
}

// Walk diffuses one new particle: it starts on the bounding sphere and walks
// until it joins the structure, returning the final position and the parent
// identity. The walk has no iteration bound; with Stickiness > 0 it
// terminates with probability 1. Cancelling ctx ends it early.
//
// Walk only reads the index and may run concurrently with other walks, but
// never concurrently with Add.
func (m *Model) Walk(ctx context.Context, rng *rand.Rand) (r3.Vec, int, error) {
	p := m.RandomStartingPosition(rng)

	for {
		if err := ctx.Err(); err != nil {
			return r3.Vec{}, 0, err
		}

		// distance to the nearest committed particle
		parentPos, parentID, d := m.index.Nearest(p)

		// close enough to attempt a join
		if d < m.opts.AttractionDistance {
			if !m.ShouldJoin(rng, p, parentID) {
				// push the particle clear of the attraction zone
				p = geom.Lerp(parentPos, p, m.opts.AttractionDistance+m.opts.MinMoveDistance)
				continue
			}

			return m.PlaceParticle(p, parentPos), parentID, nil
		}

		// move randomly; the step may safely be as long as the slack to the
		// nearest particle since nothing can be encountered within it
		step := math.Max(m.opts.MinMoveDistance, d-m.opts.AttractionDistance)
		p = r3.Add(p, r3.Scale(step, m.MotionVector(rng, p)))

		if m.ShouldReset(p) {
			p = m.RandomStartingPosition(rng)
		}
	}
}
