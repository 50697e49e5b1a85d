package srec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineValidS1(t *testing.T) {
	line := s1Line(0x0100, []byte{0x01, 0x02, 0x03, 0x04})
	addr, data, isData, err := parseLine(line + "\n")
	require.NoError(t, err)
	assert.True(t, isData)
	assert.Equal(t, uint32(0x0100), addr)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, data)
}

func TestParseLineNonDataRecord(t *testing.T) {
	addr, data, isData, err := parseLine("S0030000FC\n")
	require.NoError(t, err)
	assert.False(t, isData)
	assert.Zero(t, addr)
	assert.Nil(t, data)
}

func TestParseLineBlankAndShort(t *testing.T) {
	for _, line := range []string{"", "\n", "S", "X1040000FF\n"} {
		_, _, isData, err := parseLine(line)
		assert.NoError(t, err)
		assert.False(t, isData)
	}
}

func TestParseLineBadChecksum(t *testing.T) {
	line := s1Line(0x0000, []byte{0xAA})
	corrupted := line[:len(line)-2] + "00"
	_, _, _, err := parseLine(corrupted)
	assert.ErrorIs(t, err, ErrBadChecksum)
}

func TestParseLineNonHexDigit(t *testing.T) {
	_, _, _, err := parseLine("S1040000ZZ00\n")
	assert.ErrorIs(t, err, ErrBadLine)
}

func TestParseLineTruncated(t *testing.T) {
	_, _, _, err := parseLine("S113")
	assert.ErrorIs(t, err, ErrBadLine)
}

func TestParseLineS2S3AddressWidth(t *testing.T) {
	line2 := sLine('2', 3, 0x000100, []byte{0x0A})
	addr, data, isData, err := parseLine(line2 + "\n")
	require.NoError(t, err)
	assert.True(t, isData)
	assert.Equal(t, uint32(0x000100), addr)
	assert.Equal(t, []byte{0x0A}, data)

	line3 := sLine('3', 4, 0x00000100, []byte{0x0A, 0x0B})
	addr, data, isData, err = parseLine(line3 + "\n")
	require.NoError(t, err)
	assert.True(t, isData)
	assert.Equal(t, uint32(0x00000100), addr)
	assert.Equal(t, []byte{0x0A, 0x0B}, data)
}
