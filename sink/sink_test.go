package sink

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/dlaf"
	"github.com/hupe1980/dlaf/record"
)

func testParticles() []dlaf.Particle {
	return []dlaf.Particle{
		{ID: 0, Parent: dlaf.NoParent, Pos: r3.Vec{}},
		{ID: 1, Parent: 0, Pos: r3.Vec{X: 1.5, Y: -2.25}},
		{ID: 2, Parent: 1, Pos: r3.Vec{X: 3, Y: 4, Z: 5}},
	}
}

func TestEmit(t *testing.T) {
	var buf bytes.Buffer

	s, err := New(&buf)
	require.NoError(t, err)

	want := testParticles()
	for _, p := range want {
		require.NoError(t, s.Emit(p))
	}
	require.NoError(t, s.Flush())
	require.Equal(t, len(want)*record.Size, buf.Len())

	rd := record.NewReader(&buf)
	for _, p := range want {
		got, err := rd.Read()
		require.NoError(t, err)
		assert.Equal(t, p.Record(), got)
	}
	_, err = rd.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestEmitCompressed(t *testing.T) {
	var buf bytes.Buffer

	s, err := New(&buf, func(o *Options) {
		o.Compress = true
	})
	require.NoError(t, err)

	want := testParticles()
	for _, p := range want {
		require.NoError(t, s.Emit(p))
	}
	require.NoError(t, s.Close())

	dec, err := zstd.NewReader(&buf)
	require.NoError(t, err)
	defer dec.Close()

	rd := record.NewReader(dec)
	for _, p := range want {
		got, err := rd.Read()
		require.NoError(t, err)
		assert.Equal(t, p.Record(), got)
	}
	_, err = rd.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestCloseIdempotent(t *testing.T) {
	var buf bytes.Buffer

	s, err := New(&buf)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Emit(dlaf.Particle{}), ErrClosed)
	assert.ErrorIs(t, s.Flush(), ErrClosed)
}
