package srec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFirmware(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "firmware.srec")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpenSingleSegment(t *testing.T) {
	path := writeFirmware(t,
		"S0030000FC",
		s1Line(0x0000, []byte{0x01, 0x02, 0x03, 0x04}),
		s1Line(0x0004, []byte{0x05, 0x06}),
		"S9030000FC",
	)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, 1, r.SegmentCount())
	base, length, err := r.SegmentInfo(0)
	require.NoError(t, err)
	require.Equal(t, uint32(0), base)
	require.Equal(t, uint32(6), length)
}

func TestOpenTwoNonContiguousSegmentsUnsorted(t *testing.T) {
	// Second segment written first in the file, first segment second: the
	// reader must still report them sorted by base address.
	path := writeFirmware(t,
		s1Line(0x1000, []byte{0xAA, 0xBB}),
		s1Line(0x0000, []byte{0x01, 0x02, 0x03}),
	)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, 2, r.SegmentCount())
	base0, len0, err := r.SegmentInfo(0)
	require.NoError(t, err)
	require.Equal(t, uint32(0x0000), base0)
	require.Equal(t, uint32(3), len0)

	base1, len1, err := r.SegmentInfo(1)
	require.NoError(t, err)
	require.Equal(t, uint32(0x1000), base1)
	require.Equal(t, uint32(2), len1)
}

func TestOpenChecksumCorruptionIsFatal(t *testing.T) {
	good := s1Line(0x0000, []byte{0x01, 0x02})
	corrupted := good[:len(good)-2] + "00"
	path := writeFirmware(t, corrupted)

	_, err := Open(path)
	require.ErrorIs(t, err, ErrBadChecksum)
}

func TestSegmentInfoOutOfRange(t *testing.T) {
	path := writeFirmware(t, s1Line(0x0000, []byte{0x01}))
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	_, _, err = r.SegmentInfo(1)
	require.ErrorIs(t, err, ErrSegmentIndex)
}

func TestOpenSegmentOutOfRange(t *testing.T) {
	path := writeFirmware(t, s1Line(0x0000, []byte{0x01}))
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	require.ErrorIs(t, r.OpenSegment(3), ErrSegmentIndex)
}
