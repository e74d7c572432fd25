package binlog

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// EventType represents Binlog Event Type.
type EventType uint8

// Event Type Constants.
//
// https://dev.mysql.com/doc/internals/en/binlog-event-type.html
// https://dev.mysql.com/doc/internals/en/event-meanings.html
const (
	UNKNOWN_EVENT            EventType = 0x00 // should never occur. used when event cannot be recognized.
	START_EVENT_V3           EventType = 0x01 // descriptor event written to binlog beginning. deprecated.
	QUERY_EVENT              EventType = 0x02 // written when an updating statement is done.
	STOP_EVENT               EventType = 0x03 // written when mysqld stops.
	ROTATE_EVENT             EventType = 0x04 // written when mysqld switches to a new binary log file.
	INTVAR_EVENT             EventType = 0x05 // if stmt uses AUTO_INCREMENT col or LAST_INSERT_ID().
	LOAD_EVENT               EventType = 0x06 // used for LOAD DATA INFILE statements in MySQL 3.23.
	SLAVE_EVENT              EventType = 0x07 // not used.
	CREATE_FILE_EVENT        EventType = 0x08 // used for LOAD DATA INFILE statements in MySQL 4.0 and 4.1.
	APPEND_BLOCK_EVENT       EventType = 0x09 // used for LOAD DATA INFILE statements in MySQL 4.0 and 4.1.
	EXEC_LOAD_EVENT          EventType = 0x0a // used for LOAD DATA INFILE statements in MySQL 4.0 and 4.1.
	DELETE_FILE_EVENT        EventType = 0x0b // used for LOAD DATA INFILE statements in MySQL 4.0 and 4.1.
	NEW_LOAD_EVENT           EventType = 0x0c // used for LOAD DATA INFILE statements in MySQL 4.0 and 4.1.
	RAND_EVENT               EventType = 0x0d // if stmt uses RAND().
	USER_VAR_EVENT           EventType = 0x0e // if stmt uses a user variable.
	FORMAT_DESCRIPTION_EVENT EventType = 0x0f // descriptor event written to binlog beginning.
	XID_EVENT                EventType = 0x10 // for XA commit transaction.
	BEGIN_LOAD_QUERY_EVENT   EventType = 0x11 // used for LOAD DATA INFILE statements in MySQL 5.0.
	EXECUTE_LOAD_QUERY_EVENT EventType = 0x12 // used for LOAD DATA INFILE statements in MySQL 5.0.
	TABLE_MAP_EVENT          EventType = 0x13 // precedes rbr event. contains table definition.
	WRITE_ROWS_EVENTv0       EventType = 0x14 // logs inserts of rows in a single table.
	UPDATE_ROWS_EVENTv0      EventType = 0x15 // logs updates of rows in a single table.
	DELETE_ROWS_EVENTv0      EventType = 0x16 // logs deletions of rows in a single table.
	WRITE_ROWS_EVENTv1       EventType = 0x17 // logs inserts of rows in a single table.
	UPDATE_ROWS_EVENTv1      EventType = 0x18 // logs updates of rows in a single table.
	DELETE_ROWS_EVENTv1      EventType = 0x19 // logs inserts of rows in a single table.
	INCIDENT_EVENT           EventType = 0x1a // used to log an out of the ordinary event that occurred on the master.
	HEARTBEAT_EVENT          EventType = 0x1b // to signal that master is still alive. not written to file.
	IGNORABLE_EVENT          EventType = 0x1c
	ROWS_QUERY_EVENT         EventType = 0x1d
	WRITE_ROWS_EVENTv2       EventType = 0x1e // logs inserts of rows in a single table.
	UPDATE_ROWS_EVENTv2      EventType = 0x1f // logs updates of rows in a single table.
	DELETE_ROWS_EVENTv2      EventType = 0x20 // logs inserts of rows in a single table.
	GTID_EVENT               EventType = 0x21
	ANONYMOUS_GTID_EVENT     EventType = 0x22
	PREVIOUS_GTIDS_EVENT     EventType = 0x23
	TRANSACTION_CONTEXT_EVENT EventType = 0x24
	VIEW_CHANGE_EVENT        EventType = 0x25
	XA_PREPARE_EVENT         EventType = 0x26
	PARTIAL_UPDATE_ROWS_EVENT EventType = 0x27
	TRANSACTION_PAYLOAD_EVENT EventType = 0x28
	HEARTBEAT_LOG_EVENT_V2   EventType = 0x29

	// LOGICAL_TIMESTAMP_TYPE_CODE marks the optional last_committed/
	// sequence_number trailer of a GTID_EVENT (§4.F).
	LOGICAL_TIMESTAMP_TYPE_CODE = 2

	// LOG_EVENT_IGNORABLE_F, set in EventHeader.Flags, tells the decoder
	// that an unrecognized or unhandled event type may be skipped
	// instead of faulting the connection (§7).
	LOG_EVENT_IGNORABLE_F uint16 = 0x80
	// LOG_EVENT_STMT_END_F, set in a row event's flags, signals the end
	// of a statement: the table-map cache entries it used may be
	// dropped (§3 table map lifecycle).
	LOG_EVENT_STMT_END_F uint16 = 0x01
)

// Event represents Binlog Event.
type Event struct {
	Header EventHeader
	Data   interface{} // one of XXXEvent
}

var eventTypeNames = map[EventType]string{
	UNKNOWN_EVENT:            "unknown",
	START_EVENT_V3:           "startV3",
	QUERY_EVENT:              "query",
	STOP_EVENT:               "stop",
	ROTATE_EVENT:             "rotate",
	INTVAR_EVENT:             "inVar",
	LOAD_EVENT:               "load",
	SLAVE_EVENT:              "slave",
	CREATE_FILE_EVENT:        "createFile",
	APPEND_BLOCK_EVENT:       "appendBlock",
	EXEC_LOAD_EVENT:          "execLoad",
	DELETE_FILE_EVENT:        "deleteFile",
	NEW_LOAD_EVENT:           "newLoad",
	RAND_EVENT:               "rand",
	USER_VAR_EVENT:           "userVar",
	FORMAT_DESCRIPTION_EVENT: "formatDescription",
	XID_EVENT:                "xid",
	BEGIN_LOAD_QUERY_EVENT:   "beginLoadQuery",
	EXECUTE_LOAD_QUERY_EVENT: "executeLoadQuery",
	TABLE_MAP_EVENT:          "tableMap",
	WRITE_ROWS_EVENTv0:       "writeRowsV0",
	UPDATE_ROWS_EVENTv0:      "updateRowsV0",
	DELETE_ROWS_EVENTv0:      "deleteRowsV0",
	WRITE_ROWS_EVENTv1:       "writeRowsV1",
	UPDATE_ROWS_EVENTv1:      "updateRowsV1",
	DELETE_ROWS_EVENTv1:      "deleteRowsV1",
	INCIDENT_EVENT:           "incident",
	HEARTBEAT_EVENT:          "heartbeat",
	IGNORABLE_EVENT:          "ignorable",
	ROWS_QUERY_EVENT:         "rowsQuery",
	WRITE_ROWS_EVENTv2:       "writeRowsV2",
	UPDATE_ROWS_EVENTv2:      "updateRowsV2",
	DELETE_ROWS_EVENTv2:      "deleteRowsV2",
	GTID_EVENT:                "gtid",
	ANONYMOUS_GTID_EVENT:      "anonymousGTID",
	PREVIOUS_GTIDS_EVENT:      "previousGTID",
	TRANSACTION_CONTEXT_EVENT: "transactionContext",
	VIEW_CHANGE_EVENT:         "viewChange",
	XA_PREPARE_EVENT:          "xaPrepare",
	PARTIAL_UPDATE_ROWS_EVENT: "partialUpdateRowsV2",
	TRANSACTION_PAYLOAD_EVENT: "transactionPayload",
	HEARTBEAT_LOG_EVENT_V2:    "heartbeatV2",
}

func (t EventType) String() string {
	if s, ok := eventTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("0x%02x", uint8(t))
}

// IsWriteRows tells if this EventType WRITE_ROWS_EVENT.
// MySQL has multiple versions of WRITE_ROWS_EVENT.
func (t EventType) IsWriteRows() bool {
	return t == WRITE_ROWS_EVENTv0 || t == WRITE_ROWS_EVENTv1 || t == WRITE_ROWS_EVENTv2
}

// IsUpdateRows tells if this EventType UPDATE_ROWS_EVENT.
// MySQL has multiple versions of UPDATE_ROWS_EVENT.
func (t EventType) IsUpdateRows() bool {
	return t == UPDATE_ROWS_EVENTv0 || t == UPDATE_ROWS_EVENTv1 || t == UPDATE_ROWS_EVENTv2 || t == PARTIAL_UPDATE_ROWS_EVENT
}

// IsDeleteRows tells if this EventType DELETE_ROWS_EVENT.
// MySQL has multiple versions of DELETE_ROWS_EVENT.
func (t EventType) IsDeleteRows() bool {
	return t == DELETE_ROWS_EVENTv0 || t == DELETE_ROWS_EVENTv1 || t == DELETE_ROWS_EVENTv2
}

// EventHeader represents Binlog Event Header.
//
// https://dev.mysql.com/doc/internals/en/binlog-event-header.html
// https://dev.mysql.com/doc/internals/en/event-header-fields.html
type EventHeader struct {
	Timestamp uint32    // seconds since unix epoch
	EventType EventType // binlog event type
	ServerID  uint32    // server-id of the originating mysql-server
	EventSize uint32    // size of the event (header + post-header + body)
	LogFile   string    // logfile of the next event
	NextPos   uint32    // position of the next event
	Flags     uint16    // flags
}

func (h *EventHeader) decode(r *logBuffer) error {
	h.Timestamp = r.int4()
	h.EventType = EventType(r.int1())
	h.ServerID = r.int4()
	h.EventSize = r.int4()
	if r.fde.BinlogVersion > 1 {
		h.NextPos = r.int4()
		h.Flags = r.int2()
	}
	return r.err
}

// FormatDescriptionEvent is written to the beginning of the each binary log file.
// This event is used as of MySQL 5.0; it supersedes START_EVENT_V3.
//
// https://dev.mysql.com/doc/internals/en/format-description-event.html
type FormatDescriptionEvent struct {
	BinlogVersion          uint16 // version of this binlog format
	ServerVersion          string // version of the MySQL Server that created the binlog
	CreateTimestamp        uint32 // seconds since Unix epoch when the binlog was created
	EventHeaderLength      uint8  // length of the Binlog Event Header of next events
	EventTypeHeaderLengths []byte // post-header lengths for different event-types
}

func (e *FormatDescriptionEvent) decode(r *logBuffer, eventSize uint32) error {
	e.BinlogVersion = r.int2()
	e.ServerVersion = r.string(50)
	if i := strings.IndexByte(e.ServerVersion, 0); i != -1 {
		e.ServerVersion = e.ServerVersion[:i]
	}
	e.CreateTimestamp = r.int4()
	e.EventHeaderLength = r.int1()
	if err := r.ensure(int(FORMAT_DESCRIPTION_EVENT)); err != nil {
		return err
	}
	fmeSize := r.buffer()[FORMAT_DESCRIPTION_EVENT-1]
	r.checksum = int(eventSize - 19 /*eventHeader*/ - uint32(fmeSize) - 1 /*checksumType*/)
	r.limit -= r.checksum
	e.EventTypeHeaderLengths = r.bytesEOF()
	e.EventTypeHeaderLengths = e.EventTypeHeaderLengths[:len(e.EventTypeHeaderLengths)-1] // exclude checksum type
	return r.err
}

func (e *FormatDescriptionEvent) postHeaderLength(typ EventType, def int) int {
	if len(e.EventTypeHeaderLengths) >= int(typ) {
		return int(e.EventTypeHeaderLengths[typ-1])
	}
	return def
}

// RotateEvent is written when mysqld switches to a new binary log file.
// This occurs when someone issues a FLUSH LOGS statement or
// the current binary log file becomes too large.
// The maximum size is determined by max_binlog_size.
//
// https://dev.mysql.com/doc/internals/en/rotate-event.html
type RotateEvent struct {
	Position   uint64 // position of next event
	NextBinlog string // name of next binlog file
}

func (e *RotateEvent) decode(r *logBuffer) error {
	if r.fde.BinlogVersion > 1 {
		e.Position = r.int8()
	}
	e.NextBinlog = r.stringEOF()
	return r.err
}

// QueryEvent is written when an updating statement is done.
// The query event is used to send text query right the binlog.
//
// https://dev.mysql.com/doc/internals/en/query-event.html
//
// Field order and StatusVars parsing follow the documented layout
// thread_id(4) exec_time(4) db_len(1) error_code(2) status_vars_len(2),
// resolving Open Question (b): the source this spec was distilled from
// positioned the buffer inconsistently before reading these fields.
type QueryEvent struct {
	SlaveProxyID  uint32
	ExecutionTime uint32
	ErrorCode     uint16
	StatusVars    QueryStatusVars
	Schema        string
	Query         string
}

// QueryStatusVars is the decoded form of a QueryEvent's status-variable
// block (§4.F). Fields are left at their zero value when the
// corresponding status-var code was absent.
type QueryStatusVars struct {
	Flags2               uint32
	Flags2Set            bool
	SQLMode              uint64
	SQLModeSet           bool
	Catalog              string
	AutoIncrementInc     uint16
	AutoIncrementOffset  uint16
	CharsetClient         uint16
	CharsetConn           uint16
	CharsetServer         uint16
	CharsetSet           bool
	TimeZone             string
	LCTimeNames          uint16
	CharsetDatabase      uint16
	TableMapForUpdate    uint64
	MasterDataWritten    uint32
	InvokerUser          string
	InvokerHost          string
	Microseconds         uint32
	UpdatedDBs           []string
	UpdatedDBsTruncated  bool
	ExplicitDefaultsForTS uint8
	DDLLoggedWithXID     uint64
	DefaultCollationUTF8MB4 uint16
	SQLRequirePrimaryKey uint8
}

// status-var codes. https://dev.mysql.com/doc/internals/en/query-event.html
const (
	qFlags2Code                    = 0x00
	qSQLModeCode                   = 0x01
	qCatalogCode                   = 0x02 // deprecated nz form
	qAutoIncrementCode             = 0x03
	qCharsetCode                   = 0x04
	qTimeZoneCode                  = 0x05
	qCatalogNZCode                 = 0x06
	qLCTimeNamesCode               = 0x07
	qCharsetDatabaseCode           = 0x08
	qTableMapForUpdateCode         = 0x09
	qMasterDataWrittenCode         = 0x0a
	qInvokerCode                   = 0x0b
	qUpdatedDBNamesCode            = 0x0c
	qMicrosecondsCode              = 0x0d
	qCommitTSCode                  = 0x0e
	qCommitTS2Code                 = 0x0f
	qExplicitDefaultsForTSCode     = 0x10
	qDDLLoggedWithXIDCode          = 0x11
	qDefaultCollationUTF8MB4Code   = 0x12
	qSQLRequirePrimaryKeyCode      = 0x13
	qDefaultTableEncryptionCode    = 0x14

	overMaxDBs = 254 // sentinel: too many updated db names to enumerate
)

func (e *QueryEvent) decode(r *logBuffer) error {
	e.SlaveProxyID = r.int4()
	e.ExecutionTime = r.int4()
	schemaLen := r.int1()
	if r.err != nil {
		return r.err
	}
	e.ErrorCode = r.int2()
	statusVarsLen := r.int2()
	if r.err != nil {
		return r.err
	}
	statusVars := r.bytes(int(statusVarsLen))
	e.Schema = r.string(int(schemaLen))
	r.skip(1)
	e.Query = r.stringEOF()
	if r.err != nil {
		return r.err
	}
	vars, err := decodeQueryStatusVars(statusVars)
	if err != nil {
		return err
	}
	e.StatusVars = vars
	return r.err
}

func decodeQueryStatusVars(buf []byte) (QueryStatusVars, error) {
	var v QueryStatusVars
	b := &byteCursor{buf: buf}
	for b.remaining() > 0 {
		code, ok := b.readByte()
		if !ok {
			break
		}
		switch code {
		case qFlags2Code:
			n, ok := b.readUint32()
			if !ok {
				return v, io.ErrUnexpectedEOF
			}
			v.Flags2, v.Flags2Set = n, true
		case qSQLModeCode:
			n, ok := b.readUint64()
			if !ok {
				return v, io.ErrUnexpectedEOF
			}
			v.SQLMode, v.SQLModeSet = n, true
		case qCatalogNZCode:
			s, ok := b.readLengthPrefixedString()
			if !ok {
				return v, io.ErrUnexpectedEOF
			}
			v.Catalog = s
		case qAutoIncrementCode:
			inc, ok1 := b.readUint16()
			off, ok2 := b.readUint16()
			if !ok1 || !ok2 {
				return v, io.ErrUnexpectedEOF
			}
			v.AutoIncrementInc, v.AutoIncrementOffset = inc, off
		case qCharsetCode:
			c, ok1 := b.readUint16()
			cn, ok2 := b.readUint16()
			cs, ok3 := b.readUint16()
			if !ok1 || !ok2 || !ok3 {
				return v, io.ErrUnexpectedEOF
			}
			v.CharsetClient, v.CharsetConn, v.CharsetServer, v.CharsetSet = c, cn, cs, true
		case qTimeZoneCode:
			s, ok := b.readLengthPrefixedString()
			if !ok {
				return v, io.ErrUnexpectedEOF
			}
			v.TimeZone = s
		case qLCTimeNamesCode:
			n, ok := b.readUint16()
			if !ok {
				return v, io.ErrUnexpectedEOF
			}
			v.LCTimeNames = n
		case qCharsetDatabaseCode:
			n, ok := b.readUint16()
			if !ok {
				return v, io.ErrUnexpectedEOF
			}
			v.CharsetDatabase = n
		case qTableMapForUpdateCode:
			n, ok := b.readUint64()
			if !ok {
				return v, io.ErrUnexpectedEOF
			}
			v.TableMapForUpdate = n
		case qMasterDataWrittenCode:
			n, ok := b.readUint32()
			if !ok {
				return v, io.ErrUnexpectedEOF
			}
			v.MasterDataWritten = n
		case qInvokerCode:
			user, ok1 := b.readLengthPrefixedString()
			host, ok2 := b.readLengthPrefixedString()
			if !ok1 || !ok2 {
				return v, io.ErrUnexpectedEOF
			}
			v.InvokerUser, v.InvokerHost = user, host
		case qUpdatedDBNamesCode:
			count, ok := b.readByte()
			if !ok {
				return v, io.ErrUnexpectedEOF
			}
			if int(count) == overMaxDBs {
				// Open Question (c): do not attempt to read names.
				v.UpdatedDBs = nil
				v.UpdatedDBsTruncated = true
				continue
			}
			dbs := make([]string, 0, count)
			for i := 0; i < int(count); i++ {
				s, ok := b.readNullTerminatedString()
				if !ok {
					return v, io.ErrUnexpectedEOF
				}
				dbs = append(dbs, s)
			}
			v.UpdatedDBs = dbs
		case qMicrosecondsCode:
			n, ok := b.readUint24()
			if !ok {
				return v, io.ErrUnexpectedEOF
			}
			v.Microseconds = n
		case qCommitTSCode, qCommitTS2Code:
			// deprecated, never shipped in a GA release; skip remaining bytes.
			return v, nil
		case qExplicitDefaultsForTSCode:
			n, ok := b.readByte()
			if !ok {
				return v, io.ErrUnexpectedEOF
			}
			v.ExplicitDefaultsForTS = n
		case qDDLLoggedWithXIDCode:
			n, ok := b.readUint64()
			if !ok {
				return v, io.ErrUnexpectedEOF
			}
			v.DDLLoggedWithXID = n
		case qDefaultCollationUTF8MB4Code:
			n, ok := b.readUint16()
			if !ok {
				return v, io.ErrUnexpectedEOF
			}
			v.DefaultCollationUTF8MB4 = n
		case qSQLRequirePrimaryKeyCode:
			n, ok := b.readByte()
			if !ok {
				return v, io.ErrUnexpectedEOF
			}
			v.SQLRequirePrimaryKey = n
		case qDefaultTableEncryptionCode:
			if _, ok := b.readByte(); !ok {
				return v, io.ErrUnexpectedEOF
			}
		default:
			// unknown status-var code: the region is length-bounded but
			// individual var lengths beyond this point are no longer
			// inferable, so stop parsing (§4.F).
			return v, nil
		}
	}
	return v, nil
}

// byteCursor is a tiny scratch cursor over an already-materialized byte
// slice, used only for QueryEvent's status-var block: that block is
// short, already fully read off the wire, and parsed independently of
// the rest of the event, so reusing logBuffer here would be overkill.
type byteCursor struct {
	buf []byte
	off int
}

func (b *byteCursor) remaining() int { return len(b.buf) - b.off }

func (b *byteCursor) readByte() (byte, bool) {
	if b.remaining() < 1 {
		return 0, false
	}
	v := b.buf[b.off]
	b.off++
	return v, true
}

func (b *byteCursor) readUint16() (uint16, bool) {
	if b.remaining() < 2 {
		return 0, false
	}
	v := uint16(b.buf[b.off]) | uint16(b.buf[b.off+1])<<8
	b.off += 2
	return v, true
}

func (b *byteCursor) readUint24() (uint32, bool) {
	if b.remaining() < 3 {
		return 0, false
	}
	v := uint32(b.buf[b.off]) | uint32(b.buf[b.off+1])<<8 | uint32(b.buf[b.off+2])<<16
	b.off += 3
	return v, true
}

func (b *byteCursor) readUint32() (uint32, bool) {
	if b.remaining() < 4 {
		return 0, false
	}
	v := uint32(b.buf[b.off]) | uint32(b.buf[b.off+1])<<8 | uint32(b.buf[b.off+2])<<16 | uint32(b.buf[b.off+3])<<24
	b.off += 4
	return v, true
}

func (b *byteCursor) readUint64() (uint64, bool) {
	if b.remaining() < 8 {
		return 0, false
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b.buf[b.off+i]) << (uint(i) * 8)
	}
	b.off += 8
	return v, true
}

func (b *byteCursor) readLengthPrefixedString() (string, bool) {
	n, ok := b.readByte()
	if !ok || b.remaining() < int(n) {
		return "", false
	}
	s := string(b.buf[b.off : b.off+int(n)])
	b.off += int(n)
	return s, true
}

func (b *byteCursor) readNullTerminatedString() (string, bool) {
	i := bytes.IndexByte(b.buf[b.off:], 0)
	if i == -1 {
		return "", false
	}
	s := string(b.buf[b.off : b.off+i])
	b.off += i + 1
	return s, true
}

// IncidentEvent used to log an out of the ordinary event that
// occurred on the master. It notifies the slave that something
// happened on the master that might cause data to be in an
// inconsistent state.
//
// https://dev.mysql.com/doc/internals/en/incident-event.html
type IncidentEvent struct {
	Type    uint16
	Message string
}

func (e *IncidentEvent) decode(r *logBuffer) error {
	e.Type = r.int2()
	size := r.int1()
	e.Message = r.string(int(size))
	return r.err
}

// RandEvent is written every time a statement uses the RAND() function.
// It precedes other events for the statement. Indicates the seed values
// to use for generating a random number with RAND() in the next statement.
// This is written only before a QUERY_EVENT and is not used with row-based logging.
//
// https://dev.mysql.com/doc/internals/en/rand-event.html
type RandEvent struct {
	Seed1 uint64
	Seed2 uint64
}

func (e *RandEvent) decode(r *logBuffer) error {
	e.Seed1 = r.int8()
	e.Seed2 = r.int8()
	return r.err
}

// StopEvent signals last event in the file.
//
// https://dev.mysql.com/doc/internals/en/stop-event.html
type StopEvent struct{}

// IntVarEvent written every time a statement uses an AUTO_INCREMENT column
// or the LAST_INSERT_ID() function. It precedes other events for the statement.
// This is written only before a QUERY_EVENT and is not used with row-based logging.
//
// https://dev.mysql.com/doc/internals/en/intvar-event.html
type IntVarEvent struct {
	// Type indicates subtype.
	//
	// INSERT_ID_EVENT(0x02) indicates the value to use for an AUTO_INCREMENT column in the next statement.
	//
	// LAST_INSERT_ID_EVENT(0x01) indicates the value to use for the LAST_INSERT_ID() function in the next statement.
	Type  uint8
	Value uint64
}

func (e *IntVarEvent) decode(r *logBuffer) error {
	e.Type = r.int1()
	e.Value = r.int8()
	return r.err
}

// UserVarEvent is written every time a statement uses a user variable.
// It precedes other events for the statement. Indicates the value to
// use for the user variable in the next statement. This is written only
// before a QUERY_EVENT and is not used with row-based logging.
//
// https://dev.mysql.com/doc/internals/en/user-var-event.html
type UserVarEvent struct {
	Name     string
	Null     bool
	Type     uint8
	Charset  uint32
	Value    []byte
	Unsigned bool
}

func (e *UserVarEvent) decode(r *logBuffer) error {
	nameLen := r.int4()
	if r.err != nil {
		return r.err
	}
	e.Name = r.string(int(nameLen))
	e.Null = r.int1() == 0
	if r.err != nil {
		return r.err
	}
	if !e.Null {
		e.Type = r.int1()
		e.Charset = r.int4()
		valueLen := r.int4()
		if r.err != nil {
			return r.err
		}
		e.Value = r.bytes(int(valueLen))
		if r.more() {
			e.Unsigned = (r.int1() | 0x01) != 0
		}
	}
	return r.err
}

// HeartbeatEvent sent by a master to a slave to let the slave
// know that the master is still alive. Not written to log files.
//
// https://dev.mysql.com/doc/internals/en/heartbeat-event.html
type HeartbeatEvent struct{}

// UnknownEvent should never occur. It is never written to a binary log.
// If an event is read from a binary log that cannot be recognized as
// something else, it is treated as UNKNOWN_EVENT.
type UnknownEvent struct{}

// SlaveEvent is reserved by the protocol and never emitted.
type SlaveEvent struct{}

// IgnorableEvent is any event carrying LOG_EVENT_IGNORABLE_F that this
// decoder does not otherwise recognize; its payload is discarded.
type IgnorableEvent struct{}

// XidEvent is written whenever a COMMIT occurs for a transaction that
// uses a transactional storage engine.
//
// https://dev.mysql.com/doc/internals/en/xid-event.html
type XidEvent struct {
	XID uint64
}

func (e *XidEvent) decode(r *logBuffer) error {
	e.XID = r.int8()
	return r.err
}
