package dlaf

// Options contains the simulation parameters of a Model. All parameters are
// fixed at construction; nothing is reconfigurable at runtime.
type Options struct {
	// ParticleSpacing is the distance between particles that have joined
	// together.
	ParticleSpacing float64

	// AttractionDistance is how close a walking particle must come to an
	// existing particle before it attempts to join.
	AttractionDistance float64

	// MinMoveDistance is the minimum distance a particle moves in one step of
	// its random walk.
	MinMoveDistance float64

	// Stickiness is the probability that a join attempt within attraction
	// distance succeeds. Must be in [0, 1]; walks terminate almost surely
	// only when it is > 0.
	Stickiness float64

	// Dimension selects 2D or 3D growth. 2D pins the Z coordinate to zero.
	Dimension int

	// Sink receives every committed particle in commit order. If nil,
	// particles are discarded.
	Sink Sink
}

// DefaultOptions contains the default simulation parameters.
var DefaultOptions = Options{
	ParticleSpacing:    1,
	AttractionDistance: 3,
	MinMoveDistance:    1,
	Stickiness:         1,
	Dimension:          3,
}

func (o *Options) validate() error {
	if o.ParticleSpacing <= 0 {
		return &ErrInvalidParameter{Name: "particle spacing", Value: o.ParticleSpacing}
	}
	if o.AttractionDistance <= 0 {
		return &ErrInvalidParameter{Name: "attraction distance", Value: o.AttractionDistance}
	}
	if o.MinMoveDistance <= 0 {
		return &ErrInvalidParameter{Name: "min move distance", Value: o.MinMoveDistance}
	}
	if o.Stickiness < 0 || o.Stickiness > 1 {
		return &ErrInvalidParameter{Name: "stickiness", Value: o.Stickiness}
	}
	if o.Dimension != 2 && o.Dimension != 3 {
		return &ErrInvalidDimension{Dimension: o.Dimension}
	}
	return nil
}

// RunOptions contains configuration for a Coordinator.
type RunOptions struct {
	// Workers is the number of concurrent walk workers. If <= 0,
	// runtime.GOMAXPROCS(0) is used.
	Workers int

	// BatchSize is the number of candidates collected per round before
	// conflict resolution. A round's batch may exceed this by up to
	// Workers-1 items, since each worker only observes the threshold after
	// appending its in-flight result.
	BatchSize int

	// Seed is the base seed for the per-worker random generators. Worker i
	// uses Seed+i+1, so runs with the same seed draw the same walks per
	// worker (commit order still depends on scheduling unless Deterministic
	// is set).
	Seed int64

	// Deterministic sorts each batch by (worker, sequence) before conflict
	// resolution, removing the arrival-order sensitivity of acceptance
	// decisions.
	Deterministic bool

	// Logger receives round progress. If nil, logging is disabled.
	Logger *Logger

	// OnRound, if set, is called after every committed round with that
	// round's statistics.
	OnRound func(RoundStats)
}

// DefaultRunOptions contains the default coordinator configuration.
var DefaultRunOptions = RunOptions{
	Workers:   16,
	BatchSize: 128,
	Seed:      1,
}
