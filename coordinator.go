package dlaf

import (
	"context"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/dlaf/internal/barrier"
)

// RoundStats describes the outcome of one committed round.
type RoundStats struct {
	Round     uint64
	Batch     int // candidates collected this round
	Committed int
	Rejected  int // discarded as same-round conflicts
}

// batchItem is one candidate produced by a completed walk. It lives only
// within a round: it is either promoted to a Particle or discarded before
// the next round begins.
type batchItem struct {
	pos    r3.Vec
	parent int
	worker int
	seq    uint64
}

// Coordinator drives a fixed pool of workers in synchronized rounds. Each
// round, workers independently walk candidates against the frozen index and
// append them to a shared batch; between rounds the coordinator resolves
// conflicts and commits the survivors. The index is therefore read-only
// while walks run and written only single-threaded between rounds, with no
// per-entry locking anywhere.
type Coordinator struct {
	model *Model
	opts  RunOptions

	// workers and the coordinator rendezvous at start before producing and
	// at end before committing, so no candidate of round R ever observes a
	// particle committed during round R.
	start *barrier.Barrier
	end   *barrier.Barrier

	mu    sync.Mutex
	items []batchItem

	// threshold is the squared minimum distance allowed between two
	// candidates committed within the same round.
	threshold float64

	accepted []r3.Vec // scratch, coordinator-only
	logEvery rate.Sometimes
}

// NewCoordinator creates a Coordinator for m with the given options applied
// on top of DefaultRunOptions.
func NewCoordinator(m *Model, optFns ...func(o *RunOptions)) *Coordinator {
	opts := DefaultRunOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultRunOptions.BatchSize
	}
	if opts.Logger == nil {
		opts.Logger = NoopLogger()
	}

	attraction := m.opts.AttractionDistance

	return &Coordinator{
		model:     m,
		opts:      opts,
		start:     barrier.New(opts.Workers + 1),
		end:       barrier.New(opts.Workers + 1),
		items:     make([]batchItem, 0, opts.BatchSize+opts.Workers),
		threshold: (5 * attraction) * (5 * attraction),
		logEvery:  rate.Sometimes{First: 1, Interval: time.Second},
	}
}

// Run executes rounds until ctx is cancelled or a commit fails. It returns
// ctx's error on cancellation; a sink write failure or any other worker
// failure is returned as-is and ends the whole run, matching the
// no-retry-anywhere error model.
func (c *Coordinator) Run(ctx context.Context) error {
	c.opts.Logger.LogRunStart(ctx, c.opts.Workers, c.opts.BatchSize)

	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < c.opts.Workers; i++ {
		i := i
		rng := rand.New(rand.NewSource(c.opts.Seed + int64(i) + 1))
		g.Go(func() error {
			return c.runWorker(ctx, i, rng)
		})
	}

	g.Go(func() error {
		return c.coordinate(ctx)
	})

	return g.Wait()
}

// runWorker cycles forever through AwaitRoundStart -> Walking -> AwaitRoundEnd.
func (c *Coordinator) runWorker(ctx context.Context, id int, rng *rand.Rand) error {
	var seq uint64

	for {
		if err := c.start.Wait(ctx); err != nil {
			return err
		}

		for {
			pos, parent, err := c.model.Walk(ctx, rng)
			if err != nil {
				return err
			}

			c.mu.Lock()
			c.items = append(c.items, batchItem{pos: pos, parent: parent, worker: id, seq: seq})
			seq++
			full := len(c.items) >= c.opts.BatchSize
			c.mu.Unlock()

			if full {
				break
			}
		}

		if err := c.end.Wait(ctx); err != nil {
			return err
		}
	}
}

// coordinate opens and closes rounds and commits each batch. It is the only
// writer to the model.
func (c *Coordinator) coordinate(ctx context.Context) error {
	for round := uint64(1); ; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := c.start.Wait(ctx); err != nil {
			return err
		}
		if err := c.end.Wait(ctx); err != nil {
			return err
		}

		stats, err := c.commitBatch(round)
		if err != nil {
			return err
		}

		c.logEvery.Do(func() {
			c.opts.Logger.LogRound(ctx, stats, c.model.Count())
		})
		if c.opts.OnRound != nil {
			c.opts.OnRound(stats)
		}
	}
}

// commitBatch resolves conflicts among the round's candidates and commits the
// survivors in order. It runs strictly between rounds: every worker is parked
// at the start barrier, so the batch buffer and the model are the
// coordinator's alone.
func (c *Coordinator) commitBatch(round uint64) (RoundStats, error) {
	items := c.items

	if c.opts.Deterministic {
		sort.Slice(items, func(i, j int) bool {
			if items[i].worker != items[j].worker {
				return items[i].worker < items[j].worker
			}
			return items[i].seq < items[j].seq
		})
	}

	stats := RoundStats{Round: round, Batch: len(items)}

	accepted := c.accepted[:0]
	for _, it := range items {
		ok := true
		for _, a := range accepted {
			if r3.Norm2(r3.Sub(it.pos, a)) < c.threshold {
				ok = false
				break
			}
		}
		if !ok {
			// discarded silently; nothing in the structure changed for it,
			// so an equivalent candidate will be resimulated in a later round
			stats.Rejected++
			continue
		}

		if _, err := c.model.Add(it.pos, it.parent); err != nil {
			return stats, err
		}
		accepted = append(accepted, it.pos)
		stats.Committed++
	}

	c.accepted = accepted[:0]
	c.items = c.items[:0]

	return stats, nil
}
