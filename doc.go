// Package dlaf grows a branching aggregate of particles through a
// parallelized diffusion-limited-aggregation process.
//
// Particles are released on the surface of a sphere bounding the current
// structure, perform random walks until they wander within attraction
// distance of an existing particle, and stick there with a configurable
// probability. Walks run concurrently on a fixed pool of workers against an
// index that is frozen for the duration of a round; a coordinator commits
// each round's batch between rounds, rejecting candidates that landed too
// close to one another.
//
// # Quick Start
//
//	out, _ := sink.New(os.Stdout)
//	model, _ := dlaf.New(func(o *dlaf.Options) {
//	    o.Sink = out
//	})
//	model.LoadSeeds(os.Stdin) // falls back to a single origin seed
//
//	coord := dlaf.NewCoordinator(model)
//	coord.Run(ctx) // runs until ctx is cancelled
//
// Every committed particle, seeds included, is emitted to the sink as a
// fixed-width binary record in commit order. The run is perpetual: it ends
// only when the context is cancelled or a write fails.
package dlaf
