package dlaf

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/dlaf/record"
)

// NoParent marks a particle without a parent. Only seed particles carry it.
const NoParent = -1

// Particle is one committed member of the aggregate. Its ID equals its
// insertion index into the spatial index and is assigned at commit time.
// Particles are immutable once committed and are never deleted.
type Particle struct {
	ID     int
	Parent int
	Pos    r3.Vec
}

// Record returns the particle's on-wire form. NoParent maps to the uint32
// sentinel record.NoParent.
func (p Particle) Record() record.Record {
	return record.Record{
		ParentID: uint32(int32(p.Parent)),
		X:        float32(p.Pos.X),
		Y:        float32(p.Pos.Y),
		Z:        float32(p.Pos.Z),
	}
}

// Sink receives every committed particle, in commit order, exactly once.
// A Sink error is fatal to the run: there is no retry anywhere in the core.
type Sink interface {
	Emit(p Particle) error
}

// discardSink drops all particles. Used when no sink is configured.
type discardSink struct{}

func (discardSink) Emit(Particle) error { return nil }
