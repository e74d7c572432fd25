// Package binlog implements a MySQL replication client: it speaks the
// replication subprotocol of the MySQL client/server wire protocol
// (handshake, authentication, COM_REGISTER_SLAVE, COM_BINLOG_DUMP and
// COM_BINLOG_DUMP_GTID) and decodes the binlog event stream a master
// sends in response, including row-based replication's before/after
// row images.
//
// A typical consumer dials a Decoder, authenticates, seeks to a
// starting position (by file/offset or by GTID set), and then either
// pulls events one at a time with NextEvent/NextRow or hands an
// EventSink to Stream and lets the decode loop drive it:
//
//	dec, err := binlog.Dial("tcp", "127.0.0.1:3306")
//	if err != nil {
//		return err
//	}
//	defer dec.Close()
//	if err := dec.Authenticate("repl", "secret"); err != nil {
//		return err
//	}
//	if err := dec.Seek(1000, "binlog.000001", 4); err != nil {
//		return err
//	}
//	for {
//		ev, err := dec.NextEvent()
//		if err != nil {
//			return err
//		}
//		// ev.Data holds the decoded event (RowsEvent, QueryEvent, ...).
//	}
//
// Faults are reported via the Fault type, which classifies failures as
// transport, protocol, decode, or semantic so a caller can decide which
// are worth retrying. See FaultKind.
package binlog
