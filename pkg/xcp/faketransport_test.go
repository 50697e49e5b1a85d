package xcp

import (
	"encoding/binary"
	"sync"
	"time"
)

// fakeTransport is an in-memory Transport double: it lets protocol tests
// run without a real CAN interface. Now() reports real elapsed time so that
// exchange's busy-wait timeout logic runs unmodified against short
// (millisecond-scale) test timeouts.
type fakeTransport struct {
	mu sync.Mutex

	start time.Time

	// handler computes a response for a given request, or nil to mean "drop
	// this request" (no response ever arrives).
	handler func(req []byte) []byte

	pending []byte
	have    bool

	transmitted [][]byte

	keyFunc func(seed []byte) ([]byte, error)
}

func newFakeTransport(handler func(req []byte) []byte) *fakeTransport {
	return &fakeTransport{handler: handler, start: time.Now()}
}

func (f *fakeTransport) Now() uint32 {
	return uint32(time.Since(f.start).Milliseconds())
}

func (f *fakeTransport) TransmitPacket(pkt []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := append([]byte(nil), pkt...)
	f.transmitted = append(f.transmitted, cp)
	if f.handler == nil {
		return nil
	}
	resp := f.handler(cp)
	if resp != nil {
		f.pending = resp
		f.have = true
	}
	return nil
}

func (f *fakeTransport) TryReceivePacket() ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.have {
		return nil, false
	}
	f.have = false
	return f.pending, true
}

func (f *fakeTransport) ComputeKey(seed []byte) ([]byte, error) {
	if f.keyFunc == nil {
		return nil, ErrNoKeyComputation
	}
	return f.keyFunc(seed)
}

func (f *fakeTransport) transmitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.transmitted)
}

// connectResponse builds a positive CONNECT response, little-endian iff
// littleEndian is true, with the given maxCTO/maxDTO.
func connectResponse(littleEndian bool, resource, maxCTO byte, maxDTO uint16) []byte {
	commMode := byte(0x00)
	if !littleEndian {
		commMode = 0x01
	}
	resp := make([]byte, 8)
	resp[0] = pidPositiveResponse
	resp[1] = resource
	resp[2] = commMode
	resp[3] = maxCTO
	if littleEndian {
		binary.LittleEndian.PutUint16(resp[4:6], maxDTO)
	} else {
		binary.BigEndian.PutUint16(resp[4:6], maxDTO)
	}
	resp[6] = 0x01
	resp[7] = 0x01
	return resp
}
