package xcp

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHelpers(t *testing.T) {
	// mta models the slave's memory transfer address: SET_MTA sets it and
	// each UPLOAD advances it past the bytes returned.
	mta := 0
	tr := newFakeTransport(func(req []byte) []byte {
		switch req[0] {
		case 0xFF:
			return connectResponse(true, 0x00, 8, 8)
		case 0xFD:
			return []byte{0xFF, 0, 0, 0, 0, 0}
		case 0xD2:
			return []byte{0xFF, 0, 0, 8, 0, 0, 0}
		case 0xF6:
			mta = int(binary.LittleEndian.Uint32(req[4:8]))
			return []byte{0xFF}
		case 0xF5:
			n := int(req[1])
			resp := make([]byte, 1+n)
			resp[0] = 0xFF
			payload := []byte{0x42, 0x01, 0x02, 0x03, 0x04, 'h', 'i', 0x00}
			copy(resp[1:], payload[mta:mta+n])
			mta += n
			return resp
		default:
			return nil
		}
	})
	c := NewClient(tr, fastSettings())
	require.NoError(t, c.Start())

	u8, err := c.ReadUint8(0)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), u8)

	s, err := c.ReadString(0, 8)
	require.NoError(t, err)
	assert.Equal(t, string([]byte{0x42, 0x01, 0x02, 0x03, 0x04, 'h', 'i'}), s)
}
