// Package xcp implements the subset of the XCP v1.0 master protocol needed
// to program an OpenBLT-compatible bootloader: CONNECT, GET_STATUS,
// PROGRAM_START, SET_MTA, PROGRAM_CLEAR, PROGRAM / PROGRAM_MAX, UPLOAD and
// PROGRAM_RESET.
package xcp

// MaxPacket is the hard upper bound on any XCP packet length, master or
// slave side. A CONNECT response announcing a larger max_dto is rejected.
const MaxPacket = 255

// Transport is the capability set the XCP master requires from its host.
// Implementations live outside this package (pkg/can.FrameTransport wraps a
// real or virtual CAN bus); the master only ever calls these four methods
// and never assumes anything about how packets are carried.
type Transport interface {
	// Now returns monotonic milliseconds. Arithmetic on the result must be
	// done modulo 2^32; implementations are free to wrap.
	Now() uint32

	// TransmitPacket hands one packet to the transport. It may block
	// briefly on bus arbitration but must not block waiting for a
	// response.
	TransmitPacket(pkt []byte) error

	// TryReceivePacket is non-blocking. It returns the next complete
	// response packet if one is available.
	TryReceivePacket() ([]byte, bool)

	// ComputeKey derives an unlock key from a seed supplied by the slave.
	// Called at most once per Start, only when the slave reports the PGM
	// resource locked. Implementations that cannot compute a key should
	// return a non-nil error; Start then fails with ErrLocked.
	ComputeKey(seed []byte) ([]byte, error)
}
