package can

import "errors"

var (
	ErrPacketTooLarge    = errors.New("can: packet exceeds MaxPacket")
	ErrNoKeyComputation  = errors.New("can: no key computation mechanism is wired to this transport")
)
