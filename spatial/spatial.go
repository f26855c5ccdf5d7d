// Package spatial provides the nearest-neighbor index over committed particle
// positions.
//
// The index is exact (never approximate), supports incremental insertion and
// never removes or rebalances entries; the only contract is correct nearest
// queries after every Insert. It is backed by a gonum k-d tree, which degrades
// gracefully under the strongly non-uniform insertion order a growing
// aggregate produces.
package spatial

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// Compile-time checks for the kdtree plumbing.
var _ kdtree.Interface = entries(nil)
var _ kdtree.Comparable = entry{}

// Entry is one indexed particle position.
type Entry struct {
	Pos r3.Vec
	ID  int
}

// entry adapts an Entry to the kdtree.Comparable contract. Distances are
// squared Euclidean, matching kdtree.Point.
type entry struct {
	pos r3.Vec
	id  int
}

func (e entry) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(entry)
	switch d {
	case 0:
		return e.pos.X - q.pos.X
	case 1:
		return e.pos.Y - q.pos.Y
	default:
		return e.pos.Z - q.pos.Z
	}
}

func (e entry) Dims() int { return 3 }

func (e entry) Distance(c kdtree.Comparable) float64 {
	q := c.(entry)
	return r3.Norm2(r3.Sub(e.pos, q.pos))
}

// entries implements kdtree.Interface for bulk construction.
type entries []entry

func (e entries) Index(i int) kdtree.Comparable         { return e[i] }
func (e entries) Len() int                              { return len(e) }
func (e entries) Slice(start, end int) kdtree.Interface { return e[start:end] }
func (e entries) Pivot(d kdtree.Dim) int {
	return plane{entries: e, Dim: d}.Pivot()
}

// plane is a sorting helper over one dimension.
type plane struct {
	entries
	kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	a, b := p.entries[i], p.entries[j]
	switch p.Dim {
	case 0:
		return a.pos.X < b.pos.X
	case 1:
		return a.pos.Y < b.pos.Y
	default:
		return a.pos.Z < b.pos.Z
	}
}

func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.entries = p.entries[start:end]
	return p
}

func (p plane) Swap(i, j int) {
	p.entries[i], p.entries[j] = p.entries[j], p.entries[i]
}

// Index is an exact nearest-neighbor index over particle positions.
// Insert-only; entries are never modified or removed.
//
// Concurrency: Insert must be externally serialized with all other calls.
// Nearest is safe for concurrent use between Inserts, which is exactly the
// discipline the round coordinator enforces.
type Index struct {
	tree *kdtree.Tree
	n    int
}

// New creates an index seeded with the given entries. A balanced tree is
// built from the seeds; later Inserts extend it in place.
func New(seeds ...Entry) *Index {
	es := make(entries, len(seeds))
	for i, s := range seeds {
		es[i] = entry{pos: s.Pos, id: s.ID}
	}
	return &Index{tree: kdtree.New(es, false), n: len(seeds)}
}

// Insert adds one entry.
func (ix *Index) Insert(pos r3.Vec, id int) {
	ix.tree.Insert(entry{pos: pos, id: id}, false)
	ix.n++
}

// Len returns the number of entries.
func (ix *Index) Len() int { return ix.n }

// Nearest returns the entry closest to q in Euclidean distance, along with
// that distance.
//
// Precondition: the index is non-empty. The model guarantees this by seeding
// at least one particle before any walk runs; an empty-index query panics.
func (ix *Index) Nearest(q r3.Vec) (pos r3.Vec, id int, dist float64) {
	c, d2 := ix.tree.Nearest(entry{pos: q})
	e := c.(entry)
	return e.pos, e.id, math.Sqrt(d2)
}
