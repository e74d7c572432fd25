package binlog

import (
	"fmt"
)

const (
	encodedSIDLength        = 16
	logicalTimestampTypeCode = 2
)

// GtidEvent marks the start of a new transaction (or a standalone
// statement) tagged with its global transaction identifier.
//
// https://dev.mysql.com/doc/internals/en/gtid-event.html
type GtidEvent struct {
	CommitFlag       bool
	SIDHigh          uint64
	SIDLow           uint64
	GNO              int64
	LastCommitted    int64
	SequenceNumber   int64
	HasTimestamps    bool
}

// GTID renders the event's global transaction identifier in the
// conventional `SID:GNO` text form, using a plain hex-with-dashes UUID
// rendering of the 16-byte SID rather than pulling in a UUID library.
func (e GtidEvent) GTID() string {
	var sid [16]byte
	for i := 0; i < 8; i++ {
		sid[i] = byte(e.SIDHigh >> uint(56-8*i))
	}
	for i := 0; i < 8; i++ {
		sid[8+i] = byte(e.SIDLow >> uint(56-8*i))
	}
	return fmt.Sprintf("%x-%x-%x-%x-%x:%d",
		sid[0:4], sid[4:6], sid[6:8], sid[8:10], sid[10:16], e.GNO)
}

func (e *GtidEvent) decode(r *logBuffer) error {
	e.CommitFlag = r.int1() != 0
	e.SIDHigh = r.int8()
	e.SIDLow = r.int8()
	e.GNO = int64(r.int8())
	if r.err != nil {
		return r.err
	}
	if b, err := r.peek(); err == nil && b == logicalTimestampTypeCode {
		r.skip(1)
		e.LastCommitted = int64(r.int8())
		e.SequenceNumber = int64(r.int8())
		e.HasTimestamps = true
	}
	return r.err
}

// AnonymousGtidEvent has the same wire layout as GtidEvent but marks a
// transaction that was not assigned a persistent GTID (GTID mode off,
// or a session with gtid_next=ANONYMOUS).
type AnonymousGtidEvent struct {
	GtidEvent
}

func (e *AnonymousGtidEvent) decode(r *logBuffer) error {
	return e.GtidEvent.decode(r)
}

// PreviousGtidsEvent opens every binlog file and records the GTID set
// already applied before it. The binary GTID-set encoding
// (n_sids, then per-SID a 16-byte UUID and an interval count/list) is
// MySQL-internal and not needed to stream events correctly, so the raw
// bytes are retained rather than parsed: a consumer building a
// GTID-aware PositionStore can decode them itself.
type PreviousGtidsEvent struct {
	Raw []byte
}

func (e *PreviousGtidsEvent) decode(r *logBuffer) error {
	e.Raw = r.bytesEOF()
	return r.err
}

// XaPrepareEvent is written when an XA transaction reaches PREPARE,
// serving the same role XidEvent serves for ordinary commits.
//
// https://dev.mysql.com/doc/internals/en/xa-prepare-event.html
type XaPrepareEvent struct {
	OnePhase bool
	FormatID int32
	Gtrid    []byte
	Bqual    []byte
}

const myXIDDataSize = 128

func (e *XaPrepareEvent) decode(r *logBuffer) error {
	e.OnePhase = r.int1() != 0
	e.FormatID = int32(r.int4())
	gtridLen := int32(r.int4())
	bqualLen := int32(r.int4())
	if r.err != nil {
		return r.err
	}
	if gtridLen < 0 || gtridLen > 64 || bqualLen < 0 || bqualLen > 64 ||
		gtridLen+bqualLen > myXIDDataSize {
		return faultf(FaultDecode, "xa_prepare: implausible gtrid/bqual length %d/%d", gtridLen, bqualLen)
	}
	e.Gtrid = r.bytes(int(gtridLen))
	e.Bqual = r.bytes(int(bqualLen))
	return r.err
}

// ViewChangeEvent is MySQL Group Replication's marker for a new group
// membership view; replication clients outside a Group Replication
// topology only ever need to skip it.
//
// https://dev.mysql.com/doc/dev/mysql-server/latest/classView__change__log__event.html
type ViewChangeEvent struct {
	ViewID string
	SeqNumber uint64
}

const viewIDLen = 40

func (e *ViewChangeEvent) decode(r *logBuffer) error {
	e.ViewID = trimNUL(r.string(viewIDLen))
	e.SeqNumber = r.int8()
	return r.err
}

func trimNUL(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return s[:i]
		}
	}
	return s
}

// TransactionContextEvent precedes a transaction's events when the
// server is configured for transaction-write-set extraction
// (transaction_write_set_extraction != OFF). Only the fields needed to
// skip the event correctly are decoded; the write-set payload itself
// is not needed to stream row events and is discarded.
type TransactionContextEvent struct {
	ServerUUID string
	ThreadID   uint32
}

func (e *TransactionContextEvent) decode(r *logBuffer) error {
	serverUUIDLen := r.int1()
	e.ServerUUID = r.string(int(serverUUIDLen))
	e.ThreadID = r.int4()
	// remaining bytes: gtid specification + read/write set hashes, not
	// needed by this decoder. drain() (called by the event dispatcher
	// after decode) discards them.
	return r.err
}

// TransactionPayloadEvent (MySQL 8.0.20+) wraps a sub-stream of
// ordinary events, optionally compressed, emitted as a unit at the end
// of a group-commit batch. Decompression is out of scope: the payload
// is surfaced as opaque bytes and Compressed tells a consumer whether
// it needs zstd to make sense of them.
//
// https://dev.mysql.com/doc/dev/mysql-server/latest/classbinary__log_1_1Transaction__payload__event.html
type TransactionPayloadEvent struct {
	Compressed     bool
	CompressionType uint64
	UncompressedSize uint64
	Payload        []byte
}

const (
	tpeOTWPayloadField  = 1
	tpeOTWUncompressedSizeField = 5
	tpeOTWDefaultCompressionTypeField = 2
)

func (e *TransactionPayloadEvent) decode(r *logBuffer) error {
	for {
		fieldType, _ := r.intPacked()
		if r.err != nil {
			return r.err
		}
		if fieldType == 0 {
			break
		}
		fieldLen, _ := r.intPacked()
		if r.err != nil {
			return r.err
		}
		switch fieldType {
		case tpeOTWPayloadField:
			e.Payload = r.bytes(int(fieldLen))
		case tpeOTWUncompressedSizeField:
			e.UncompressedSize, _ = r.intPacked()
		case tpeOTWDefaultCompressionTypeField:
			e.CompressionType, _ = r.intPacked()
			e.Compressed = e.CompressionType != 0
		default:
			r.skip(int(fieldLen))
		}
		if r.err != nil {
			return r.err
		}
	}
	return r.err
}
