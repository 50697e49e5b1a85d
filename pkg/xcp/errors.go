package xcp

import (
	"errors"
	"fmt"
)

// Sentinel errors for the package, grouped in one place.
var (
	ErrLocked               = errors.New("xcp: PGM resource is protected and no key mechanism could unlock it")
	ErrOutOfRange           = errors.New("xcp: length does not fit the negotiated packet size")
	ErrNotConnected         = errors.New("xcp: operation requires an active session")
	ErrConnectRetriesUsedUp = errors.New("xcp: CONNECT did not succeed within the configured number of retries")
	ErrNoKeyComputation     = errors.New("xcp: no key computation mechanism is wired to this transport")
)

// Kind identifies why a Command failed.
type Kind uint8

const (
	// KindTimeout means no response arrived within the command's timeout.
	KindTimeout Kind = iota
	// KindProtocol means a response arrived but had the wrong length or a
	// negative response PID, or a negotiated size was out of range.
	KindProtocol
)

func (k Kind) String() string {
	if k == KindTimeout {
		return "timeout"
	}
	return "protocol error"
}

// Command identifies an XCP command for error reporting.
type Command uint8

const (
	CmdConnect Command = iota
	CmdGetStatus
	CmdProgramStart
	CmdSetMTA
	CmdProgramClear
	CmdProgram
	CmdProgramMax
	CmdUpload
	CmdProgramReset
)

func (c Command) String() string {
	switch c {
	case CmdConnect:
		return "CONNECT"
	case CmdGetStatus:
		return "GET_STATUS"
	case CmdProgramStart:
		return "PROGRAM_START"
	case CmdSetMTA:
		return "SET_MTA"
	case CmdProgramClear:
		return "PROGRAM_CLEAR"
	case CmdProgram:
		return "PROGRAM"
	case CmdProgramMax:
		return "PROGRAM_MAX"
	case CmdUpload:
		return "UPLOAD"
	case CmdProgramReset:
		return "PROGRAM_RESET"
	default:
		return "UNKNOWN"
	}
}

// CommandError reports that a specific command failed, and how.
type CommandError struct {
	Cmd  Command
	Kind Kind
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("xcp: %s: %s", e.Cmd, e.Kind)
}

// Is lets errors.Is(err, &CommandError{Cmd: cmd, Kind: kind}) match any
// CommandError with the same command and kind.
func (e *CommandError) Is(target error) bool {
	other, ok := target.(*CommandError)
	if !ok {
		return false
	}
	return e.Cmd == other.Cmd && e.Kind == other.Kind
}

func newTimeout(cmd Command) error {
	return &CommandError{Cmd: cmd, Kind: KindTimeout}
}

func newProtocolError(cmd Command) error {
	return &CommandError{Cmd: cmd, Kind: KindProtocol}
}
