package xcp

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// positive response PID, common to every command.
const pidPositiveResponse = 0xFF

// Client is the XCP v1.0 master. It owns exactly one session for as long as
// it is connected, and exposes that session through a uniform
// Start/Stop/Clear/Write/Read facade.
type Client struct {
	transport Transport
	settings  Settings
	session   session
}

// NewClient creates an XCP master bound to the given transport. Settings
// are copied; zero-value fields are NOT defaulted here -- callers should
// start from DefaultSettings().
func NewClient(transport Transport, settings Settings) *Client {
	return &Client{transport: transport, settings: settings}
}

// Connected reports whether the session is currently connected.
func (c *Client) Connected() bool {
	return c.session.connected
}

// MaxProgCTO returns the negotiated programming-mode command size. Only
// meaningful once connected and after PROGRAM_START.
func (c *Client) MaxProgCTO() uint8 {
	return c.session.maxProgCTO
}

// Start runs the connection sequence: bounded CONNECT retries, GET_STATUS
// to read protected resources, an unlock attempt if the PGM resource is
// protected, then PROGRAM_START.
func (c *Client) Start() error {
	var err error
	for attempt := 0; attempt < c.settings.ConnectRetries; attempt++ {
		err = c.connect()
		if err == nil {
			break
		}
		log.Warnf("[XCP] CONNECT attempt %d/%d failed: %v", attempt+1, c.settings.ConnectRetries, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectRetriesUsedUp, err)
	}

	protected, err := c.getStatus()
	if err != nil {
		return err
	}
	if protected&resourcePGM != 0 {
		if err := c.unlock(); err != nil {
			return err
		}
	}

	if err := c.programStart(); err != nil {
		return err
	}
	log.Infof("[XCP] session started, max_prog_cto=%d", c.session.maxProgCTO)
	return nil
}

// unlock asks the transport's KeyComputer for a key. This repo does not wire
// an actual GET_SEED/UNLOCK command exchange (OpenBLT bootloaders built
// without resource protection never require it); when the slave reports
// PGM protected and the transport cannot compute a key, Start fails with
// ErrLocked rather than guessing a policy.
func (c *Client) unlock() error {
	_, err := c.transport.ComputeKey(nil)
	if err != nil {
		return ErrLocked
	}
	return nil
}

// Stop ends programming mode and resets the slave. It is idempotent and
// never propagates an error; cleanup failures are only logged.
func (c *Client) Stop() {
	if !c.session.connected {
		return
	}
	if err := c.program(nil); err != nil {
		log.Warnf("[XCP] PROGRAM(0) during stop failed: %v", err)
	}
	if err := c.programReset(); err != nil {
		log.Warnf("[XCP] PROGRAM_RESET during stop failed: %v", err)
	}
	c.session.connected = false
}

// Clear erases length bytes starting at address: SET_MTA then PROGRAM_CLEAR.
func (c *Client) Clear(address uint32, length uint32) error {
	if !c.session.connected {
		return ErrNotConnected
	}
	if err := c.setMTA(address); err != nil {
		return err
	}
	return c.programClear(length)
}

// Write programs buffer starting at address: SET_MTA then a run of
// PROGRAM_MAX bursts with a PROGRAM-carried residual, minimising the number
// of length-carrying commands.
func (c *Client) Write(address uint32, buffer []byte) error {
	if !c.session.connected {
		return ErrNotConnected
	}
	if err := c.setMTA(address); err != nil {
		return err
	}
	if c.session.maxProgCTO < 2 {
		return ErrOutOfRange
	}
	p := int(c.session.maxProgCTO) - 1
	remaining := buffer
	for len(remaining) > 0 {
		r := len(remaining)
		n := r % p
		if n == 0 {
			if err := c.programMax(remaining[:p]); err != nil {
				return err
			}
			remaining = remaining[p:]
		} else {
			if err := c.program(remaining[:n]); err != nil {
				return err
			}
			remaining = remaining[n:]
		}
	}
	return nil
}

// Read fills out from address: SET_MTA then repeated UPLOADs until out is
// filled.
func (c *Client) Read(address uint32, out []byte) error {
	if !c.session.connected {
		return ErrNotConnected
	}
	if err := c.setMTA(address); err != nil {
		return err
	}
	if c.session.maxDTO < 2 {
		return ErrOutOfRange
	}
	chunk := int(c.session.maxDTO) - 1
	remaining := out
	for len(remaining) > 0 {
		n := chunk
		if n > len(remaining) {
			n = len(remaining)
		}
		data, err := c.upload(uint8(n))
		if err != nil {
			return err
		}
		copy(remaining[:n], data)
		remaining = remaining[n:]
	}
	return nil
}
