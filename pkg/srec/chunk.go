package srec

import (
	"fmt"
	"io"
)

// NextChunk returns the next run of up to the reader's chunkMax contiguous
// data bytes from the currently open segment, advancing the read position.
// A zero length return with a nil error signals the end of the segment.
//
// Grounded on SRecReaderSegmentGetNextData: data lines are consumed until
// either the segment's declared length is reached, accumulating the chunk
// would exceed chunkMax, or a line belonging to the next segment is seen --
// in the latter two cases the file position is rewound to the start of
// that line so the next call (or the next OpenSegment) picks it up cleanly.
func (r *Reader) NextChunk() (address uint32, data []byte, err error) {
	if r.openIdx < 0 {
		return 0, nil, ErrNoSegment
	}
	seg := r.segments[r.openIdx]

	var buf []byte
	var chunkAddr uint32
	haveAddr := false

	for {
		lineOff := r.curOff
		line, rerr := r.cur.ReadString('\n')
		r.curOff += int64(len(line))
		if rerr != nil && rerr != io.EOF {
			return 0, nil, fmt.Errorf("%w: %v", ErrIO, rerr)
		}
		if len(line) == 0 && rerr == io.EOF {
			break
		}

		addr, lineData, isData, perr := parseLine(line)
		if perr != nil {
			// The line parsed cleanly at Open time; failing now means the
			// file changed underneath us or the read itself is broken.
			return 0, nil, fmt.Errorf("%w: line unreadable on second pass", ErrIO)
		}
		if !isData {
			if rerr == io.EOF {
				break
			}
			continue
		}

		outOfSegment := addr < seg.BaseAddress ||
			uint64(addr)+uint64(len(lineData)) > uint64(seg.BaseAddress)+uint64(seg.Length)
		if outOfSegment {
			if err := r.seekTo(lineOff); err != nil {
				return 0, nil, err
			}
			break
		}

		if !haveAddr {
			chunkAddr = addr
			haveAddr = true
		} else if addr != chunkAddr+uint32(len(buf)) {
			return 0, nil, fmt.Errorf("%w: non-contiguous data within segment", ErrBadLine)
		}

		if len(buf)+len(lineData) > r.chunkMax {
			if err := r.seekTo(lineOff); err != nil {
				return 0, nil, err
			}
			break
		}

		buf = append(buf, lineData...)

		if rerr == io.EOF {
			break
		}
	}

	return chunkAddr, buf, nil
}
