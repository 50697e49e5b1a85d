package srec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextChunkSingleSegment(t *testing.T) {
	path := writeFirmware(t,
		s1Line(0x0000, []byte{0x01, 0x02, 0x03, 0x04}),
		s1Line(0x0004, []byte{0x05, 0x06}),
	)
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.OpenSegment(0))

	addr, data, err := r.NextChunk()
	require.NoError(t, err)
	require.Equal(t, uint32(0x0000), addr)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, data)

	_, data, err = r.NextChunk()
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestNextChunkStopsAtSegmentBoundary(t *testing.T) {
	path := writeFirmware(t,
		s1Line(0x0000, []byte{0x01, 0x02}),
		s1Line(0x1000, []byte{0xAA, 0xBB}),
	)
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, 2, r.SegmentCount())
	require.NoError(t, r.OpenSegment(0))

	addr, data, err := r.NextChunk()
	require.NoError(t, err)
	require.Equal(t, uint32(0x0000), addr)
	require.Equal(t, []byte{0x01, 0x02}, data)

	_, data, err = r.NextChunk()
	require.NoError(t, err)
	require.Empty(t, data)

	require.NoError(t, r.OpenSegment(1))
	addr, data, err = r.NextChunk()
	require.NoError(t, err)
	require.Equal(t, uint32(0x1000), addr)
	require.Equal(t, []byte{0xAA, 0xBB}, data)
}

func TestNextChunkRespectsChunkMax(t *testing.T) {
	// One segment built from many small records whose combined length
	// exceeds DefaultChunkMax, forcing NextChunk to split it across calls.
	var lines []string
	total := DefaultChunkMax + 8
	for i := 0; i < total; i += 4 {
		n := 4
		if total-i < 4 {
			n = total - i
		}
		data := make([]byte, n)
		for j := range data {
			data[j] = byte(i + j)
		}
		lines = append(lines, s1Line(uint16(i), data))
	}

	path := writeFirmware(t, lines...)
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, 1, r.SegmentCount())
	require.NoError(t, r.OpenSegment(0))

	addr, data, err := r.NextChunk()
	require.NoError(t, err)
	require.Equal(t, uint32(0), addr)
	require.LessOrEqual(t, len(data), DefaultChunkMax)

	firstLen := len(data)
	addr2, data2, err := r.NextChunk()
	require.NoError(t, err)
	require.Equal(t, uint32(firstLen), addr2)
	require.Equal(t, total-firstLen, len(data2))

	_, data3, err := r.NextChunk()
	require.NoError(t, err)
	require.Empty(t, data3)
}

func TestNextChunkWithoutOpenSegment(t *testing.T) {
	path := writeFirmware(t, s1Line(0x0000, []byte{0x01}))
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	_, _, err = r.NextChunk()
	require.ErrorIs(t, err, ErrNoSegment)
}

func TestOpenWithChunkMaxRespectsConfiguredCeiling(t *testing.T) {
	path := writeFirmware(t,
		s1Line(0x0000, []byte{0x01, 0x02, 0x03, 0x04}),
		s1Line(0x0004, []byte{0x05, 0x06, 0x07, 0x08}),
	)
	r, err := OpenWithChunkMax(path, 4)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.OpenSegment(0))

	addr, data, err := r.NextChunk()
	require.NoError(t, err)
	require.Equal(t, uint32(0), addr)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, data)

	addr2, data2, err := r.NextChunk()
	require.NoError(t, err)
	require.Equal(t, uint32(4), addr2)
	require.Equal(t, []byte{0x05, 0x06, 0x07, 0x08}, data2)
}

func TestOpenWithChunkMaxNonPositiveFallsBackToDefault(t *testing.T) {
	path := writeFirmware(t, s1Line(0x0000, []byte{0x01}))
	r, err := OpenWithChunkMax(path, 0)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, DefaultChunkMax, r.chunkMax)
}
