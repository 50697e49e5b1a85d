package update

import (
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/feaser/libmicroblt/pkg/xcp"
)

// Config holds the update procedure's configuration surface: the six XCP
// timeouts, the connect mode byte, the CONNECT retry budget, and the two
// protocol ceilings (MaxPacket, ChunkMax), loaded from a structured text
// file via gopkg.in/ini.v1, the same way object dictionary entries are
// loaded from an EDS file elsewhere in this stack. Settings() and
// srec.OpenWithChunkMax are where MaxPacket and ChunkMax actually take
// effect.
type Config struct {
	TimeoutT1 uint32
	TimeoutT3 uint32
	TimeoutT4 uint32
	TimeoutT5 uint32
	TimeoutT6 uint32
	TimeoutT7 uint32

	ConnectMode    uint8
	ConnectRetries int

	// MaxPacket caps the XCP packet size Settings() negotiates down to; see
	// xcp.Settings.MaxPacket. ChunkMax is the srec.Reader chunk ceiling an
	// update applies via srec.OpenWithChunkMax; the orchestrator itself
	// never sees it, only whoever constructs the Reader.
	MaxPacket int
	ChunkMax  int
}

// DefaultConfig returns the documented default timeouts and ceilings.
func DefaultConfig() Config {
	return Config{
		TimeoutT1:      1000,
		TimeoutT3:      2000,
		TimeoutT4:      10000,
		TimeoutT5:      1000,
		TimeoutT6:      50,
		TimeoutT7:      2000,
		ConnectMode:    0,
		ConnectRetries: 5,
		MaxPacket:      255,
		ChunkMax:       512,
	}
}

// LoadConfig reads the Configuration surface from an ini file at path. An
// empty path returns DefaultConfig unchanged. Keys absent from the file
// fall back to their documented default rather than failing.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	sec := f.Section("xcp")

	cfg.TimeoutT1 = uint32(sec.Key("timeoutT1").MustUint(uint(cfg.TimeoutT1)))
	cfg.TimeoutT3 = uint32(sec.Key("timeoutT3").MustUint(uint(cfg.TimeoutT3)))
	cfg.TimeoutT4 = uint32(sec.Key("timeoutT4").MustUint(uint(cfg.TimeoutT4)))
	cfg.TimeoutT5 = uint32(sec.Key("timeoutT5").MustUint(uint(cfg.TimeoutT5)))
	cfg.TimeoutT6 = uint32(sec.Key("timeoutT6").MustUint(uint(cfg.TimeoutT6)))
	cfg.TimeoutT7 = uint32(sec.Key("timeoutT7").MustUint(uint(cfg.TimeoutT7)))
	cfg.ConnectMode = uint8(sec.Key("connectMode").MustUint(uint(cfg.ConnectMode)))
	cfg.ConnectRetries = sec.Key("CONNECT_RETRIES").MustInt(cfg.ConnectRetries)
	cfg.MaxPacket = sec.Key("MAX_PACKET").MustInt(cfg.MaxPacket)
	cfg.ChunkMax = sec.Key("CHUNK_MAX").MustInt(cfg.ChunkMax)

	return cfg, nil
}

// Settings projects the timeout/retry/packet-size fields onto xcp.Settings.
func (c Config) Settings() xcp.Settings {
	maxPacket := c.MaxPacket
	if maxPacket <= 0 || maxPacket > xcp.MaxPacket {
		maxPacket = xcp.MaxPacket
	}
	return xcp.Settings{
		TimeoutT1:      c.TimeoutT1,
		TimeoutT3:      c.TimeoutT3,
		TimeoutT4:      c.TimeoutT4,
		TimeoutT5:      c.TimeoutT5,
		TimeoutT6:      c.TimeoutT6,
		TimeoutT7:      c.TimeoutT7,
		ConnectMode:    c.ConnectMode,
		ConnectRetries: c.ConnectRetries,
		MaxPacket:      uint8(maxPacket),
	}
}
