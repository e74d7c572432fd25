package binlog

// Pre-5.0 `LOAD DATA INFILE` event family. Superseded by the row-based
// events for anything written by a modern master, but still named
// explicitly as in-scope event types, so they get real decode logic
// rather than a stub.

// LoadEvent describes a LOAD DATA INFILE statement replicated as a
// single block, the predecessor of the CREATE_FILE/APPEND_BLOCK/
// EXEC_LOAD split used by later versions.
type LoadEvent struct {
	SlaveProxyID uint32
	ExecTime     uint32
	SkipLines    uint32
	TableNameLen uint8
	SchemaLen    uint8
	NumFields    uint32
	FieldTerm    byte
	Enclosed     byte
	LineTerm     byte
	LineStart    byte
	Escaped      byte
	OptFlags     byte
	EmptyFlags   byte
	Fields       []string
	Table        string
	Schema       string
	FileName     string
}

func (e *LoadEvent) decode(r *logBuffer) error {
	e.SlaveProxyID = r.int4()
	e.ExecTime = r.int4()
	e.SkipLines = r.int4()
	e.TableNameLen = r.int1()
	e.SchemaLen = r.int1()
	e.NumFields = r.int4()
	e.FieldTerm = r.int1()
	e.Enclosed = r.int1()
	e.LineTerm = r.int1()
	e.LineStart = r.int1()
	e.Escaped = r.int1()
	e.OptFlags = r.int1()
	e.EmptyFlags = r.int1()
	if r.err != nil {
		return r.err
	}
	fieldLens := make([]byte, e.NumFields)
	for i := range fieldLens {
		fieldLens[i] = r.int1()
	}
	for _, l := range fieldLens {
		e.Fields = append(e.Fields, r.string(int(l)+1))
	}
	e.Table = r.string(int(e.TableNameLen) + 1)
	e.Schema = r.string(int(e.SchemaLen) + 1)
	e.FileName = r.stringEOF()
	return r.err
}

// CreateFileEvent announces a temporary data file a slave should
// create to stage a LOAD DATA INFILE before EXEC_LOAD_EVENT applies it.
type CreateFileEvent struct {
	FileID uint32
	Data   []byte
}

func (e *CreateFileEvent) decode(r *logBuffer) error {
	e.FileID = r.int4()
	e.Data = r.bytesEOF()
	return r.err
}

// AppendBlockEvent carries one chunk of a staged LOAD DATA INFILE file,
// identified by the FileID a prior CreateFileEvent assigned.
type AppendBlockEvent struct {
	FileID uint32
	Data   []byte
}

func (e *AppendBlockEvent) decode(r *logBuffer) error {
	e.FileID = r.int4()
	e.Data = r.bytesEOF()
	return r.err
}

// ExecLoadEvent tells a slave to apply the staged file identified by
// FileID as the LOAD DATA INFILE described by an earlier LoadEvent.
type ExecLoadEvent struct {
	FileID uint32
}

func (e *ExecLoadEvent) decode(r *logBuffer) error {
	e.FileID = r.int4()
	return r.err
}

// DeleteFileEvent tells a slave to discard a staged file without
// applying it, typically because the master-side LOAD failed.
type DeleteFileEvent struct {
	FileID uint32
}

func (e *DeleteFileEvent) decode(r *logBuffer) error {
	e.FileID = r.int4()
	return r.err
}

// BeginLoadQueryEvent opens a LOAD DATA INFILE staged via the
// BEGIN/EXECUTE_LOAD_QUERY pair introduced to let the data reuse
// QueryEvent's status-var machinery (charset, sql_mode, ...).
type BeginLoadQueryEvent struct {
	FileID uint32
	Data   []byte
}

func (e *BeginLoadQueryEvent) decode(r *logBuffer) error {
	e.FileID = r.int4()
	e.Data = r.bytesEOF()
	return r.err
}

const (
	loadDupError   = 0
	loadDupIgnore  = 1
	loadDupReplace = 2
)

// ExecuteLoadQueryEvent closes out a LOAD DATA INFILE staged by
// BeginLoadQueryEvent, rewriting the statement's file-name placeholder
// (the FnPosStart:FnPosEnd span of Query) with the staged file path
// before executing it.
type ExecuteLoadQueryEvent struct {
	QueryEvent
	FileID       uint32
	FnPosStart   uint32
	FnPosEnd     uint32
	DupHandling  byte
}

func (e *ExecuteLoadQueryEvent) decode(r *logBuffer) error {
	if err := e.QueryEvent.decode(r); err != nil {
		return err
	}
	e.FileID = r.int4()
	e.FnPosStart = r.int4()
	e.FnPosEnd = r.int4()
	e.DupHandling = r.int1()
	if r.err != nil {
		return r.err
	}
	if e.DupHandling > loadDupReplace {
		return faultf(FaultDecode, "execute_load_query: invalid dup_handling %d", e.DupHandling)
	}
	return nil
}
