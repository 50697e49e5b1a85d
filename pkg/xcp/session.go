package xcp

// Settings groups the six XCP timeouts (T1, T3-T7) and the connect-mode byte that
// configure a Client. Defaults match the OpenBLT host-side XCP loader
// defaults.
type Settings struct {
	// T1 bounds a plain command response: GET_STATUS, SET_MTA, UPLOAD.
	TimeoutT1 uint32
	// T3 bounds PROGRAM_START.
	TimeoutT3 uint32
	// T4 bounds PROGRAM_CLEAR.
	TimeoutT4 uint32
	// T5 bounds PROGRAM, PROGRAM_MAX and PROGRAM_RESET.
	TimeoutT5 uint32
	// T6 bounds a single CONNECT exchange.
	TimeoutT6 uint32
	// T7 is the busy-wait granularity; implementations MAY sleep this long
	// between polls, correctness never depends on it.
	TimeoutT7 uint32
	// ConnectMode is the slave-specific CONNECT mode byte (e.g. node id).
	ConnectMode uint8
	// ConnectRetries bounds the number of CONNECT exchanges attempted by
	// Start before giving up.
	ConnectRetries int
	// MaxPacket caps the packet size this Client will accept during CONNECT/
	// PROGRAM_START negotiation and clamp PROGRAM_START's max_prog_cto to. It
	// can only ever narrow the protocol's own hard ceiling (the package
	// MaxPacket constant); a deployment constrained to a smaller CAN buffer
	// or wanting smaller bursts sets this below 255.
	MaxPacket uint8
}

// DefaultSettings returns the OpenBLT host-side XCP loader's default
// timeouts and the protocol's maximum packet size.
func DefaultSettings() Settings {
	return Settings{
		TimeoutT1:      1000,
		TimeoutT3:      2000,
		TimeoutT4:      10000,
		TimeoutT5:      1000,
		TimeoutT6:      50,
		TimeoutT7:      2000,
		ConnectMode:    0,
		ConnectRetries: 5,
		MaxPacket:      MaxPacket,
	}
}

// session holds the state that is valid only while a Client is connected:
// the negotiated byte order and packet sizes. A fresh zero-value session is
// disconnected.
type session struct {
	connected  bool
	slaveIntel bool
	maxCTO     uint8
	maxProgCTO uint8
	maxDTO     uint8
}
