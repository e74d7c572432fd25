package binlog

import (
	"fmt"

	"github.com/pkg/errors"
)

// FaultKind classifies why a replication connection stopped, per the
// error taxonomy of the decoding pipeline: transport and protocol
// errors are always fatal, decode errors are fatal unless the event
// carries LOG_EVENT_IGNORABLE_F, semantic errors indicate upstream
// corruption, and enrichment errors never fault the connection.
type FaultKind int

const (
	// FaultTransport is a socket close, read/write error, or timeout.
	FaultTransport FaultKind = iota
	// FaultProtocol is a server ERR packet or malformed packet framing.
	FaultProtocol
	// FaultDecode is a buffer underflow or unrecognized mandatory field.
	FaultDecode
	// FaultSemantic is a row event referencing an unknown table id, or
	// similar evidence of a prior decode inconsistency.
	FaultSemantic
)

func (k FaultKind) String() string {
	switch k {
	case FaultTransport:
		return "transport"
	case FaultProtocol:
		return "protocol"
	case FaultDecode:
		return "decode"
	case FaultSemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// Fault wraps an error with the taxonomy of §7, so a caller can decide
// whether to retry, alert, or simply log and move on.
type Fault struct {
	Kind FaultKind
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("binlog: %s fault: %v", f.Kind, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

func fault(kind FaultKind, err error) error {
	if err == nil {
		return nil
	}
	return &Fault{Kind: kind, Err: err}
}

func faultf(kind FaultKind, format string, args ...interface{}) error {
	return &Fault{Kind: kind, Err: errors.Errorf(format, args...)}
}

// ErrMalformedPacket indicates a packet that does not conform to the
// client/server protocol framing rules.
var ErrMalformedPacket = errors.New("binlog: malformed packet")
