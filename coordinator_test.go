package dlaf

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// runRounds runs a coordinator until the given number of rounds have
// committed, then cancels. It returns the emitted particles and the per-round
// statistics.
func runRounds(t *testing.T, rounds int, modelFns []func(*Options), runFns []func(*RunOptions)) ([]Particle, []RoundStats, *Model) {
	t.Helper()

	s := &memSink{}
	modelFns = append(modelFns, func(o *Options) { o.Sink = s })

	m, err := New(modelFns...)
	require.NoError(t, err)

	_, err = m.LoadSeeds(strings.NewReader(""))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var (
		mu    sync.Mutex
		stats []RoundStats
	)
	runFns = append(runFns, func(o *RunOptions) {
		o.OnRound = func(rs RoundStats) {
			mu.Lock()
			stats = append(stats, rs)
			done := len(stats) >= rounds
			mu.Unlock()
			if done {
				cancel()
			}
		}
	})

	coord := NewCoordinator(m, runFns...)
	err = coord.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	return s.all(), append([]RoundStats(nil), stats...), m
}

func TestCoordinatorRun(t *testing.T) {
	particles, stats, m := runRounds(t, 3,
		nil,
		[]func(*RunOptions){func(o *RunOptions) {
			o.Workers = 4
			o.BatchSize = 8
			o.Seed = 7
		}},
	)
	require.GreaterOrEqual(t, len(stats), 3)

	// sequential identities across the whole run, seed included
	total := 1 // origin seed
	for _, rs := range stats {
		assert.Equal(t, rs.Batch, rs.Committed+rs.Rejected)
		assert.GreaterOrEqual(t, rs.Batch, 8)
		total += rs.Committed
	}
	require.Len(t, particles, total)
	for i, p := range particles {
		require.Equal(t, i, p.ID)
	}

	// every committed particle rests exactly one spacing from its parent
	for _, p := range particles[1:] {
		require.GreaterOrEqual(t, p.Parent, 0)
		require.Less(t, p.Parent, p.ID, "parents commit before children")
		parent := particles[p.Parent]
		assert.InDelta(t, m.opts.ParticleSpacing, r3.Norm(r3.Sub(p.Pos, parent.Pos)), 1e-9)
	}

	// bounding radius covers all particles with attraction margin
	for _, p := range particles {
		assert.GreaterOrEqual(t, m.BoundingRadius(), r3.Norm(p.Pos)+m.opts.AttractionDistance)
	}

	// same-round commits never violate the conflict threshold
	minDist := 5 * m.opts.AttractionDistance
	offset := 1
	for _, rs := range stats {
		roundParticles := particles[offset : offset+rs.Committed]
		for i := 0; i < len(roundParticles); i++ {
			for j := 0; j < i; j++ {
				d := r3.Norm(r3.Sub(roundParticles[i].Pos, roundParticles[j].Pos))
				assert.GreaterOrEqual(t, d, minDist,
					"round %d: particles %d and %d too close", rs.Round, roundParticles[i].ID, roundParticles[j].ID)
			}
		}
		offset += rs.Committed
	}
}

func TestCoordinatorDeterministicBatches(t *testing.T) {
	particles, stats, _ := runRounds(t, 2,
		nil,
		[]func(*RunOptions){func(o *RunOptions) {
			o.Workers = 3
			o.BatchSize = 6
			o.Deterministic = true
		}},
	)
	require.GreaterOrEqual(t, len(stats), 2)
	for i, p := range particles {
		assert.Equal(t, i, p.ID)
	}
}

func TestCoordinator2D(t *testing.T) {
	particles, _, _ := runRounds(t, 2,
		[]func(*Options){func(o *Options) { o.Dimension = 2 }},
		[]func(*RunOptions){func(o *RunOptions) {
			o.Workers = 2
			o.BatchSize = 4
		}},
	)
	for _, p := range particles {
		assert.Zero(t, p.Pos.Z, "2D growth must stay in the plane")
	}
}

// failSink fails every emit after the first.
type failSink struct {
	mu    sync.Mutex
	emits int
	err   error
}

func (s *failSink) Emit(Particle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emits++
	if s.emits > 1 {
		return s.err
	}
	return nil
}

func TestCoordinatorSinkFailureIsFatal(t *testing.T) {
	errBoom := errors.New("disk gone")
	s := &failSink{err: errBoom}

	m, err := New(func(o *Options) { o.Sink = s })
	require.NoError(t, err)
	_, err = m.LoadSeeds(strings.NewReader("")) // first emit succeeds
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	coord := NewCoordinator(m, func(o *RunOptions) {
		o.Workers = 2
		o.BatchSize = 4
	})

	err = coord.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
}

func TestNewCoordinatorDefaults(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	c := NewCoordinator(m, func(o *RunOptions) {
		o.Workers = 0
		o.BatchSize = 0
	})
	assert.Equal(t, runtime.GOMAXPROCS(0), c.opts.Workers)
	assert.Equal(t, DefaultRunOptions.BatchSize, c.opts.BatchSize)
	assert.NotNil(t, c.opts.Logger)

	// conflict threshold is (5 x attraction distance)^2
	want := 5 * DefaultOptions.AttractionDistance
	assert.InDelta(t, want*want, c.threshold, 1e-12)
}
