package xcp

import (
	"encoding/binary"
	"time"

	log "github.com/sirupsen/logrus"
)

const resourcePGM uint8 = 0x10

// exchange sends req and polls the transport until a response arrives or
// timeoutMs elapses; a response that is not positive is a protocol error.
// Every command except PROGRAM_RESET (see programReset) waits through this
// busy-wait loop: a synchronous call per command, since this host has no
// embedded-RTOS cooperative scheduling constraint to respect.
func (c *Client) exchange(cmd Command, timeoutMs uint32, req []byte) ([]byte, error) {
	if err := c.transport.TransmitPacket(req); err != nil {
		return nil, err
	}
	start := c.transport.Now()
	for {
		if pkt, ok := c.transport.TryReceivePacket(); ok {
			if len(pkt) < 1 || pkt[0] != pidPositiveResponse {
				return nil, newProtocolError(cmd)
			}
			return pkt, nil
		}
		if c.transport.Now()-start > timeoutMs {
			return nil, newTimeout(cmd)
		}
		time.Sleep(time.Millisecond)
	}
}

// connect sends one CONNECT request and, on a valid positive response,
// negotiates byte order and packet sizes. No session state is mutated on
// failure.
func (c *Client) connect() error {
	req := []byte{0xFF, c.settings.ConnectMode}
	resp, err := c.exchange(CmdConnect, c.settings.TimeoutT6, req)
	if err != nil {
		return err
	}
	if len(resp) != 8 {
		return newProtocolError(CmdConnect)
	}
	resource := resp[1]
	commMode := resp[2]
	slaveIntel := commMode&0x01 == 0
	var maxDTO uint16
	if slaveIntel {
		maxDTO = binary.LittleEndian.Uint16(resp[4:6])
	} else {
		maxDTO = binary.BigEndian.Uint16(resp[4:6])
	}
	maxCTO := resp[3]
	if maxDTO > MaxPacket {
		return newProtocolError(CmdConnect)
	}
	_ = resource

	c.session.slaveIntel = slaveIntel
	c.session.maxCTO = clampPacket(maxCTO, c.settings.MaxPacket)
	c.session.maxDTO = clampPacket(uint8(maxDTO), c.settings.MaxPacket)
	c.session.connected = true
	log.Debugf("[XCP][RX] CONNECT ok: slave_intel=%v max_cto=%d max_dto=%d", slaveIntel, c.session.maxCTO, c.session.maxDTO)
	return nil
}

// getStatus returns the protected-resources byte from GET_STATUS.
func (c *Client) getStatus() (uint8, error) {
	req := []byte{0xFD}
	resp, err := c.exchange(CmdGetStatus, c.settings.TimeoutT1, req)
	if err != nil {
		return 0, err
	}
	if len(resp) != 6 {
		return 0, newProtocolError(CmdGetStatus)
	}
	protected := resp[2]
	log.Debugf("[XCP][RX] GET_STATUS protected_resources=x%02x", protected)
	return protected, nil
}

// programStart enters programming mode and records max_prog_cto.
func (c *Client) programStart() error {
	req := []byte{0xD2}
	resp, err := c.exchange(CmdProgramStart, c.settings.TimeoutT3, req)
	if err != nil {
		return err
	}
	if len(resp) != 7 {
		return newProtocolError(CmdProgramStart)
	}
	maxProgCTO := resp[3]
	c.session.maxProgCTO = clampPacket(maxProgCTO, c.settings.MaxPacket)
	log.Debugf("[XCP][RX] PROGRAM_START max_prog_cto=%d", c.session.maxProgCTO)
	return nil
}

// setMTA positions the slave's memory transfer address.
func (c *Client) setMTA(address uint32) error {
	req := make([]byte, 8)
	req[0] = 0xF6
	req[1] = 0 // address extension, unsupported
	c.session.putUint32(req[4:8], address)
	resp, err := c.exchange(CmdSetMTA, c.settings.TimeoutT1, req)
	if err != nil {
		return err
	}
	if len(resp) != 1 {
		return newProtocolError(CmdSetMTA)
	}
	return nil
}

// programClear erases length bytes starting at the current MTA.
func (c *Client) programClear(length uint32) error {
	req := make([]byte, 8)
	req[0] = 0xD1
	req[1] = 0 // mode: absolute
	c.session.putUint32(req[4:8], length)
	resp, err := c.exchange(CmdProgramClear, c.settings.TimeoutT4, req)
	if err != nil {
		return err
	}
	if len(resp) != 1 {
		return newProtocolError(CmdProgramClear)
	}
	return nil
}

// program writes up to max_prog_cto-2 bytes using the length-carrying
// PROGRAM command. data == nil/empty terminates the programming session.
func (c *Client) program(data []byte) error {
	if len(data)+2 > int(c.session.maxProgCTO) {
		return ErrOutOfRange
	}
	req := make([]byte, 2+len(data))
	req[0] = 0xD0
	req[1] = uint8(len(data))
	copy(req[2:], data)
	resp, err := c.exchange(CmdProgram, c.settings.TimeoutT5, req)
	if err != nil {
		return err
	}
	if len(resp) != 1 {
		return newProtocolError(CmdProgram)
	}
	return nil
}

// programMax writes exactly max_prog_cto-1 bytes using the more efficient
// PROGRAM_MAX command, usable only when the burst fills the buffer.
func (c *Client) programMax(data []byte) error {
	if len(data) != int(c.session.maxProgCTO)-1 {
		return ErrOutOfRange
	}
	req := make([]byte, 1+len(data))
	req[0] = 0xC9
	copy(req[1:], data)
	resp, err := c.exchange(CmdProgramMax, c.settings.TimeoutT5, req)
	if err != nil {
		return err
	}
	if len(resp) != 1 {
		return newProtocolError(CmdProgramMax)
	}
	return nil
}

// upload reads n bytes of memory from the current MTA.
func (c *Client) upload(n uint8) ([]byte, error) {
	if int(n)+1 > int(c.session.maxDTO) {
		return nil, ErrOutOfRange
	}
	req := []byte{0xF5, n}
	resp, err := c.exchange(CmdUpload, c.settings.TimeoutT1, req)
	if err != nil {
		return nil, err
	}
	if len(resp) != 1+int(n) {
		return nil, newProtocolError(CmdUpload)
	}
	return resp[1:], nil
}

// programReset asks the slave to reset and launch the new firmware. A
// missing response is not an error: the slave may reset before it can
// answer.
func (c *Client) programReset() error {
	req := []byte{0xCF}
	if err := c.transport.TransmitPacket(req); err != nil {
		return err
	}
	start := c.transport.Now()
	for c.transport.Now()-start <= c.settings.TimeoutT5 {
		if _, ok := c.transport.TryReceivePacket(); ok {
			break
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}

// clampPacket caps v to ceiling, the configured Settings.MaxPacket. ceiling
// is itself a uint8 and so can never exceed the protocol's absolute 255-byte
// limit.
func clampPacket(v, ceiling uint8) uint8 {
	if v > ceiling {
		return ceiling
	}
	return v
}
