package binlog

import "fmt"

// okPacket is the server's OK response, terminating a command sequence
// successfully.
//
// https://dev.mysql.com/doc/internals/en/packet-OK_Packet.html
type okPacket struct {
	AffectedRows uint64
	LastInsertID uint64
	StatusFlags  uint16
	Warnings     uint16
	Info         string
}

func (p *okPacket) decode(r *logBuffer, capabilities uint32) error {
	r.skip(1) // 0x00 header
	p.AffectedRows = r.intN()
	p.LastInsertID = r.intN()
	if capabilities&CLIENT_PROTOCOL_41 != 0 {
		p.StatusFlags = r.int2()
		p.Warnings = r.int2()
	}
	p.Info = r.stringEOF()
	return r.err
}

// errPacket is the server's ERR response: §4.B / §7's Protocol fault.
//
// https://dev.mysql.com/doc/internals/en/packet-ERR_Packet.html
type errPacket struct {
	Code         uint16
	SQLStateMark byte
	SQLState     string
	Message      string
}

func (p *errPacket) decode(r *logBuffer, capabilities uint32) error {
	r.skip(1) // 0xff header
	p.Code = r.int2()
	if capabilities&CLIENT_PROTOCOL_41 != 0 {
		p.SQLStateMark = r.int1()
		p.SQLState = r.string(5)
	}
	p.Message = r.stringEOF()
	return r.err
}

func (p *errPacket) Error() string {
	return fmt.Sprintf("ERROR %d (%s): %s", p.Code, p.SQLState, p.Message)
}

// eofPacket marks the end of a sequence of rows (or column defs) in a
// CLIENT_DEPRECATE_EOF-less exchange.
//
// https://dev.mysql.com/doc/internals/en/packet-EOF_Packet.html
type eofPacket struct {
	Warnings    uint16
	StatusFlags uint16
}

const eofStatusMoreResultsExist = 0x0008

func (p *eofPacket) decode(r *logBuffer, capabilities uint32) error {
	r.skip(1) // 0xfe header
	if capabilities&CLIENT_PROTOCOL_41 != 0 {
		p.Warnings = r.int2()
		p.StatusFlags = r.int2()
	}
	return r.err
}

// columnDef is one entry of a resultset's column-definition block.
//
// https://dev.mysql.com/doc/internals/en/com-query-response.html#packet-Protocol::ColumnDefinition41
type columnDef struct {
	Catalog      string
	Schema       string
	Table        string
	OrgTable     string
	Name         string
	OrgName      string
	Charset      uint16
	ColumnLength uint32
	Type         ColumnType
	Flags        uint16
	Decimals     byte
}

func (c *columnDef) decode(r *logBuffer) error {
	c.Catalog = r.stringN()
	c.Schema = r.stringN()
	c.Table = r.stringN()
	c.OrgTable = r.stringN()
	c.Name = r.stringN()
	c.OrgName = r.stringN()
	r.intN() // length of fixed-length fields, always 0x0c
	c.Charset = r.int2()
	c.ColumnLength = r.int4()
	c.Type = ColumnType(r.int1())
	c.Flags = r.int2()
	c.Decimals = r.int1()
	r.skip(2) // filler
	return r.err
}

// resultSet is the decoded form of a COM_QUERY text-protocol response,
// the shape `SHOW CREATE TABLE` comes back in.
type resultSet struct {
	Columns []columnDef
	Rows    [][]string
}

func (rs *resultSet) decode(r *logBuffer, capabilities uint32) error {
	n := r.intN()
	if r.err != nil {
		return r.err
	}
	rs.Columns = make([]columnDef, n)
	for i := range rs.Columns {
		if err := rs.Columns[i].decode(r); err != nil {
			return err
		}
	}
	if capabilities&CLIENT_DEPRECATE_EOF == 0 {
		var eof eofPacket
		if err := eof.decode(r, capabilities); err != nil {
			return err
		}
	}
	for {
		b, err := r.peek()
		if err != nil {
			return err
		}
		if b == 0xfe {
			var eof eofPacket
			return eof.decode(r, capabilities)
		}
		row := make([]string, n)
		for i := range row {
			v, err := r.peek()
			if err != nil {
				return err
			}
			if v == 0xfb {
				r.skip(1)
				continue
			}
			row[i] = r.stringN()
		}
		if r.err != nil {
			return r.err
		}
		rs.Rows = append(rs.Rows, row)
	}
}
