// Package srec reads Motorola S-record firmware files, grouping their data
// records into contiguous memory segments that a programming session can
// iterate chunk by chunk. Grounded on original_source/source/srecreader.c,
// with the C module's fixed-size linked list and memory pool replaced by a
// growable []Segment slice, the idiomatic Go equivalent of "a growable
// contiguous sequence" for bookkeeping this small.
package srec

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
)

// DefaultChunkMax bounds the number of payload bytes NextChunk returns in a
// single call, mirroring srecreader.c's CHUNK_MAX. Open uses this value;
// OpenWithChunkMax lets a caller configure a different ceiling.
const DefaultChunkMax = 512

// Segment describes one contiguous range of firmware data found in the
// file, in the order records appeared, before final sorting by address.
type Segment struct {
	BaseAddress uint32
	Length      uint32

	fileOffset int64 // byte offset of the segment's first contributing line
}

// Reader parses an S-record file into segments and streams each segment's
// data back in bounded chunks.
type Reader struct {
	file     *os.File
	segments []Segment

	openIdx  int // index into segments of the currently open segment, -1 if none
	cur      *bufio.Reader
	curOff   int64
	chunkMax int
}

// Open parses path and builds the segment table, chunking NextChunk reads at
// DefaultChunkMax. The file is kept open for subsequent OpenSegment/
// NextChunk calls; call Close when done.
func Open(path string) (*Reader, error) {
	return OpenWithChunkMax(path, DefaultChunkMax)
}

// OpenWithChunkMax is Open with a caller-chosen NextChunk ceiling, for
// deployments whose transport favors a different burst size than the
// default.
func OpenWithChunkMax(path string, chunkMax int) (*Reader, error) {
	if chunkMax <= 0 {
		chunkMax = DefaultChunkMax
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	r := &Reader{file: f, openIdx: -1, chunkMax: chunkMax}
	if err := r.scan(); err != nil {
		f.Close()
		return nil, err
	}
	sort.Slice(r.segments, func(i, j int) bool {
		return r.segments[i].BaseAddress < r.segments[j].BaseAddress
	})
	return r, nil
}

// scan performs the single pass over the file that builds r.segments,
// mirroring the stitching loop in SRecReaderFileOpen: a data line either
// extends the most recently extended segment (fast path), extends some
// other existing segment found by a full scan, or starts a brand new one.
func (r *Reader) scan() error {
	br := bufio.NewReader(r.file)
	var offset int64
	current := -1

	for {
		lineOff := offset
		line, rerr := br.ReadString('\n')
		offset += int64(len(line))
		if rerr != nil && rerr != io.EOF {
			return fmt.Errorf("%w: %v", ErrIO, rerr)
		}

		if len(line) > 0 {
			addr, data, isData, perr := parseLine(line)
			if perr != nil {
				return perr
			}
			if isData && len(data) > 0 {
				switch {
				case current >= 0 && addr == r.segments[current].BaseAddress+r.segments[current].Length:
					r.segments[current].Length += uint32(len(data))
				default:
					found := -1
					for i := range r.segments {
						if addr == r.segments[i].BaseAddress+r.segments[i].Length {
							found = i
							break
						}
					}
					if found >= 0 {
						r.segments[found].Length += uint32(len(data))
						current = found
					} else {
						r.segments = append(r.segments, Segment{
							BaseAddress: addr,
							Length:      uint32(len(data)),
							fileOffset:  lineOff,
						})
						current = len(r.segments) - 1
					}
				}
			}
		}

		if rerr == io.EOF {
			break
		}
	}
	return nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	r.openIdx = -1
	r.cur = nil
	return r.file.Close()
}

// SegmentCount returns the number of contiguous segments found in the file.
func (r *Reader) SegmentCount() int {
	return len(r.segments)
}

// SegmentInfo reports the base address and length of segment i.
func (r *Reader) SegmentInfo(i int) (base, length uint32, err error) {
	if i < 0 || i >= len(r.segments) {
		return 0, 0, ErrSegmentIndex
	}
	seg := r.segments[i]
	return seg.BaseAddress, seg.Length, nil
}

// OpenSegment positions the reader at the start of segment i's data so that
// subsequent NextChunk calls stream it.
func (r *Reader) OpenSegment(i int) error {
	if i < 0 || i >= len(r.segments) {
		return ErrSegmentIndex
	}
	if err := r.seekTo(r.segments[i].fileOffset); err != nil {
		return err
	}
	r.openIdx = i
	return nil
}

func (r *Reader) seekTo(offset int64) error {
	if _, err := r.file.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	r.cur = bufio.NewReader(r.file)
	r.curOff = offset
	return nil
}
