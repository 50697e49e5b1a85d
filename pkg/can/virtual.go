package can

import "sync"

// VirtualBus is an in-process CAN bus used for tests and for driving an
// update against a simulated bootloader without real hardware. Two
// VirtualBuses sharing the same VirtualWire loop frames back to each other,
// the same way a real CAN bus would.
func init() {
	RegisterInterface("virtual", NewVirtualBus)
	RegisterInterface("virtualcan", NewVirtualBus)
}

// VirtualWire is the shared medium between VirtualBus endpoints.
type VirtualWire struct {
	mu    sync.Mutex
	peers []*VirtualBus
}

func NewVirtualWire() *VirtualWire {
	return &VirtualWire{}
}

func (w *VirtualWire) attach(b *VirtualBus) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.peers = append(w.peers, b)
}

func (w *VirtualWire) publish(from *VirtualBus, frame Frame) {
	w.mu.Lock()
	peers := append([]*VirtualBus(nil), w.peers...)
	w.mu.Unlock()
	for _, peer := range peers {
		if peer == from {
			continue
		}
		peer.deliver(frame)
	}
}

// VirtualBus is a Bus implementation backed by a VirtualWire rather than
// real hardware. Channel is only used to look up/create a named wire via
// NewVirtualBus so that two independently constructed buses can find each
// other.
type VirtualBus struct {
	wire     *VirtualWire
	listener FrameListener
}

var (
	virtualWiresMu sync.Mutex
	virtualWires   = make(map[string]*VirtualWire)
)

// NewVirtualBus returns a Bus attached to the named virtual wire, creating
// the wire on first use. Matches the NewInterfaceFunc signature so it can be
// registered with RegisterInterface.
func NewVirtualBus(channel string) (Bus, error) {
	virtualWiresMu.Lock()
	wire, ok := virtualWires[channel]
	if !ok {
		wire = NewVirtualWire()
		virtualWires[channel] = wire
	}
	virtualWiresMu.Unlock()
	bus := &VirtualBus{wire: wire}
	wire.attach(bus)
	return bus, nil
}

func (b *VirtualBus) Connect(...any) error {
	return nil
}

func (b *VirtualBus) Disconnect() error {
	return nil
}

func (b *VirtualBus) Send(frame Frame) error {
	b.wire.publish(b, frame)
	return nil
}

func (b *VirtualBus) Subscribe(listener FrameListener) error {
	b.listener = listener
	return nil
}

func (b *VirtualBus) deliver(frame Frame) {
	if b.listener != nil {
		b.listener.Handle(frame)
	}
}
