// Package socketcan adapts github.com/brutella/can's Linux SocketCAN
// binding to the can.Bus interface, so FrameTransport can carry XCP traffic
// over a real CAN interface (e.g. can0) in addition to the virtual bus.
package socketcan

import (
	sockcan "github.com/brutella/can"
	can "github.com/feaser/libmicroblt/pkg/can"
)

func init() {
	can.RegisterInterface("socketcan", NewSocketCanBus)
}

// SocketcanBus wraps a brutella/can bus so it satisfies can.Bus.
type SocketcanBus struct {
	bus        *sockcan.Bus
	rxCallback can.FrameListener
}

func (socketcan *SocketcanBus) Connect(...any) error {
	go socketcan.bus.ConnectAndPublish()
	return nil
}

func (socketcan *SocketcanBus) Disconnect() error {
	return socketcan.bus.Disconnect()
}

func (socketcan *SocketcanBus) Send(frame can.Frame) error {
	return socketcan.bus.Publish(
		sockcan.Frame{
			ID:     frame.ID,
			Length: frame.DLC,
			Flags:  frame.Flags,
			Res0:   0,
			Res1:   0,
			Data:   frame.Data,
		})
}

// Subscribe registers this bus as brutella/can's single receive callback
// and remembers rxCallback as the one FrameListener Handle forwards to.
func (socketcan *SocketcanBus) Subscribe(rxCallback can.FrameListener) error {
	socketcan.rxCallback = rxCallback
	socketcan.bus.Subscribe(socketcan)
	return nil
}

// Handle satisfies brutella/can's receive callback and forwards the frame
// to the subscribed can.FrameListener (FrameTransport) as a can.Frame.
func (socketcan *SocketcanBus) Handle(frame sockcan.Frame) {
	socketcan.rxCallback.Handle(can.Frame{ID: frame.ID, DLC: frame.Length, Flags: frame.Flags, Data: frame.Data})
}

func NewSocketCanBus(name string) (can.Bus, error) {
	bus, err := sockcan.NewBusForInterfaceWithName(name)
	return &SocketcanBus{bus: bus}, err
}
