package dlaf

import (
	"errors"
	"io"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/dlaf/record"
)

// LoadSeeds reads seed records from r until end of stream and commits each
// one in file order. A record truncated mid-struct ends the stream without
// error; already-read seeds stand. If the stream yields no records, a single
// origin seed with no parent is committed instead, so the model always holds
// at least one particle before any walk runs.
//
// Returns the number of particles committed.
func (m *Model) LoadSeeds(r io.Reader) (int, error) {
	rd := record.NewReader(r)

	n := 0
	for {
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, err
		}

		pos := r3.Vec{X: float64(rec.X), Y: float64(rec.Y), Z: float64(rec.Z)}
		if _, err := m.Add(pos, int(int32(rec.ParentID))); err != nil {
			return n, err
		}
		n++
	}

	if n == 0 {
		if _, err := m.Add(r3.Vec{}, NoParent); err != nil {
			return 0, err
		}
		n = 1
	}

	return n, nil
}
