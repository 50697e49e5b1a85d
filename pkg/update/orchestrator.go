// Package update composes the S-record reader and the XCP master into the
// end-to-end firmware update procedure.
package update

import (
	log "github.com/sirupsen/logrus"
)

// FirmwareReader is the subset of *srec.Reader the orchestrator needs.
type FirmwareReader interface {
	SegmentCount() int
	SegmentInfo(i int) (base, length uint32, err error)
	OpenSegment(i int) error
	NextChunk() (address uint32, data []byte, err error)
	Close() error
}

// Programmer is the subset of *xcp.Client the orchestrator needs.
type Programmer interface {
	Start() error
	Stop()
	Clear(address, length uint32) error
	Write(address uint32, buffer []byte) error
}

// Orchestrator runs one firmware update over a FirmwareReader and a
// Programmer, neither of which it owns beyond the run: Run() always leaves
// both in a closed/disconnected state.
type Orchestrator struct {
	Firmware FirmwareReader
	Prog     Programmer
}

// NewOrchestrator builds an Orchestrator over the given reader and
// programmer.
func NewOrchestrator(fw FirmwareReader, prog Programmer) *Orchestrator {
	return &Orchestrator{Firmware: fw, Prog: prog}
}

// Run performs one firmware update, a linear procedure:
//
//	Connect -> Erase all segments -> Program all segments -> Disconnect+Reset -> Close firmware
//
// On any failure, it captures the first error, still attempts Stop (best
// effort, its own errors are only logged) and Close, and returns the first
// error encountered.
func (o *Orchestrator) Run() (err error) {
	defer func() {
		o.Prog.Stop()
		if cerr := o.Firmware.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err = o.Prog.Start(); err != nil {
		log.Errorf("[UPDATE] connect failed: %v", err)
		return err
	}
	log.Infof("[UPDATE] connected")

	count := o.Firmware.SegmentCount()
	for i := 0; i < count; i++ {
		base, length, serr := o.Firmware.SegmentInfo(i)
		if serr != nil {
			err = serr
			return err
		}
		log.Debugf("[UPDATE] erasing segment %d: base=0x%08X length=%d", i, base, length)
		if cerr := o.Prog.Clear(base, length); cerr != nil {
			log.Errorf("[UPDATE] erase of segment %d failed: %v", i, cerr)
			err = cerr
			return err
		}
	}

	for i := 0; i < count; i++ {
		if oerr := o.Firmware.OpenSegment(i); oerr != nil {
			err = oerr
			return err
		}
		for {
			addr, data, cerr := o.Firmware.NextChunk()
			if cerr != nil {
				log.Errorf("[UPDATE] reading segment %d failed: %v", i, cerr)
				err = cerr
				return err
			}
			if len(data) == 0 {
				break
			}
			if werr := o.Prog.Write(addr, data); werr != nil {
				log.Errorf("[UPDATE] programming at 0x%08X failed: %v", addr, werr)
				err = werr
				return err
			}
		}
		log.Debugf("[UPDATE] programmed segment %d", i)
	}

	log.Infof("[UPDATE] update complete, %d segment(s) programmed", count)
	return nil
}
