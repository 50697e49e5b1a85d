package can

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// MaxPacket mirrors xcp.MaxPacket: an XCP packet never exceeds 255 bytes, so
// its length always fits the first byte of the first CAN frame.
const MaxPacket = 255

// KeyComputer computes an unlock key from a seed provided by the slave.
// Plugged into FrameTransport by the embedding application; the
// bootloader's seed/key algorithm is deployment-specific and out of scope
// here.
type KeyComputer func(seed []byte) ([]byte, error)

// FrameTransport adapts a Bus (socketcan, the virtual bus, ...) into the
// xcp.Transport capability set (Now/TransmitPacket/TryReceivePacket/
// ComputeKey), framing each XCP packet onto one or more 8-byte CAN frames.
// Framing is intentionally simple, not ISO-TP: the first frame's byte 0
// carries the total payload length and bytes 1-7 carry the first 7 payload
// bytes; continuation frames carry up to 8 more payload bytes each.
type FrameTransport struct {
	bus       Bus
	txID      uint32
	rxID      uint32
	keyFunc   KeyComputer
	start     time.Time
	mu        sync.Mutex
	assembled []byte // payload accumulated so far for the in-flight response
	wantLen   int    // total payload length announced by the first frame, -1 if idle
	queue     chan []byte
}

// NewFrameTransport creates a transport over bus using txID for master-to-
// slave frames and rxID for slave-to-master frames. keyFunc may be nil if
// the deployment never requires unlocking the PGM resource.
func NewFrameTransport(bus Bus, txID, rxID uint32, keyFunc KeyComputer) (*FrameTransport, error) {
	t := &FrameTransport{
		bus:     bus,
		txID:    txID,
		rxID:    rxID,
		keyFunc: keyFunc,
		start:   time.Now(),
		wantLen: -1,
		queue:   make(chan []byte, 1),
	}
	if err := bus.Subscribe(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Now returns monotonic milliseconds since the transport was created.
func (t *FrameTransport) Now() uint32 {
	return uint32(time.Since(t.start).Milliseconds())
}

// TransmitPacket frames pkt onto one or more CAN frames and sends them in
// order.
func (t *FrameTransport) TransmitPacket(pkt []byte) error {
	if len(pkt) > MaxPacket {
		return ErrPacketTooLarge
	}
	first := NewFrame(t.txID, 0, 8)
	first.Data[0] = byte(len(pkt))
	n := copy(first.Data[1:], pkt)
	if err := t.bus.Send(first); err != nil {
		return err
	}
	remaining := pkt[n:]
	for len(remaining) > 0 {
		frame := NewFrame(t.txID, 0, 8)
		chunk := copy(frame.Data[:], remaining)
		if err := t.bus.Send(frame); err != nil {
			return err
		}
		remaining = remaining[chunk:]
	}
	return nil
}

// TryReceivePacket returns the next fully reassembled response packet, if
// one has arrived since the last call.
func (t *FrameTransport) TryReceivePacket() ([]byte, bool) {
	select {
	case pkt := <-t.queue:
		return pkt, true
	default:
		return nil, false
	}
}

// ComputeKey delegates to the configured KeyComputer.
func (t *FrameTransport) ComputeKey(seed []byte) ([]byte, error) {
	if t.keyFunc == nil {
		return nil, ErrNoKeyComputation
	}
	return t.keyFunc(seed)
}

// Handle implements FrameListener. It runs at the bus's delivery context
// (a goroutine for socketcan, the caller of Send for the virtual bus) and
// feeds the single-slot queue TryReceivePacket drains.
func (t *FrameTransport) Handle(frame Frame) {
	if frame.ID != t.rxID {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.wantLen < 0 {
		want := int(frame.Data[0])
		t.wantLen = want
		t.assembled = append([]byte(nil), frame.Data[1:min(7, want)+1]...)
	} else {
		need := t.wantLen - len(t.assembled)
		n := min(int(frame.DLC), need)
		t.assembled = append(t.assembled, frame.Data[:n]...)
	}

	if len(t.assembled) >= t.wantLen {
		pkt := t.assembled[:t.wantLen]
		t.wantLen = -1
		t.assembled = nil
		select {
		case t.queue <- pkt:
		default:
			log.Warnf("[CAN] dropping stray/duplicate response frame, queue full")
		}
	}
}
