package xcp

import "bytes"

// ReadUint8, ReadUint16 and ReadUint32 are typed convenience wrappers over
// Read, useful for reading back bootloader status/version words without
// hand building a byte slice at every call site.

func (c *Client) ReadUint8(address uint32) (uint8, error) {
	var buf [1]byte
	if err := c.Read(address, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (c *Client) ReadUint16(address uint32) (uint16, error) {
	var buf [2]byte
	if err := c.Read(address, buf[:]); err != nil {
		return 0, err
	}
	return c.session.order().Uint16(buf[:]), nil
}

func (c *Client) ReadUint32(address uint32) (uint32, error) {
	var buf [4]byte
	if err := c.Read(address, buf[:]); err != nil {
		return 0, err
	}
	return c.session.order().Uint32(buf[:]), nil
}

// ReadString reads n bytes starting at address and returns them as a
// NUL-trimmed string, for bootloader identification strings exposed at a
// fixed memory location.
func (c *Client) ReadString(address uint32, n int) (string, error) {
	buf := make([]byte, n)
	if err := c.Read(address, buf); err != nil {
		return "", err
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf), nil
}
