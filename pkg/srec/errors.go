package srec

import "errors"

// Sentinel errors for the package, grouped in one place.
var (
	ErrIO           = errors.New("srec: I/O error reading firmware file")
	ErrBadLine      = errors.New("srec: malformed S-record line")
	ErrBadChecksum  = errors.New("srec: S-record checksum mismatch")
	ErrNoSegment    = errors.New("srec: no segment is open")
	ErrSegmentIndex = errors.New("srec: segment index out of range")
)
