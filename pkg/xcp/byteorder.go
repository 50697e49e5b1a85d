package xcp

import "encoding/binary"

// order returns the byte order to use for multi-byte wire fields, per the
// negotiated session state: little-endian iff bit 0 of the CONNECT
// response's comm mode byte is 0. Every multi-byte field after CONNECT is
// encoded or decoded through this helper; the CONNECT response's own
// max_dto field is decoded in connect, before the session's order is set.
func (s *session) order() binary.ByteOrder {
	if s.slaveIntel {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (s *session) putUint32(buf []byte, v uint32) {
	s.order().PutUint32(buf, v)
}

func (s *session) uint32(buf []byte) uint32 {
	return s.order().Uint32(buf)
}

func (s *session) putUint16(buf []byte, v uint16) {
	s.order().PutUint16(buf, v)
}

func (s *session) uint16(buf []byte) uint16 {
	return s.order().Uint16(buf)
}
