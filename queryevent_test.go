package binlog

import (
	"reflect"
	"testing"
)

func TestDecodeQueryStatusVars(t *testing.T) {
	var buf []byte
	buf = append(buf, qFlags2Code)
	buf = append(buf, 0x01, 0x00, 0x00, 0x00) // Flags2 = 1

	buf = append(buf, qAutoIncrementCode)
	buf = append(buf, 0x01, 0x00) // increment = 1
	buf = append(buf, 0x00, 0x00) // offset = 0

	buf = append(buf, qUpdatedDBNamesCode)
	buf = append(buf, 0x02) // two updated dbs
	buf = append(buf, 'a', 0, 'b', 0)

	got, err := decodeQueryStatusVars(buf)
	if err != nil {
		t.Fatal(err)
	}
	want := QueryStatusVars{
		Flags2:              1,
		Flags2Set:           true,
		AutoIncrementInc:    1,
		AutoIncrementOffset: 0,
		UpdatedDBs:          []string{"a", "b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeQueryStatusVars_TruncatedUpdatedDBs(t *testing.T) {
	buf := []byte{qUpdatedDBNamesCode, byte(overMaxDBs)}
	got, err := decodeQueryStatusVars(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.UpdatedDBsTruncated || got.UpdatedDBs != nil {
		t.Fatalf("got %#v", got)
	}
}

func TestDecodeQueryStatusVars_Truncated(t *testing.T) {
	buf := []byte{qSQLModeCode, 1, 2, 3} // short by 5 bytes
	if _, err := decodeQueryStatusVars(buf); err == nil {
		t.Fatal("expected an error for a truncated status var")
	}
}

func TestQueryEvent_decode(t *testing.T) {
	var raw []byte
	raw = append(raw, 100, 0, 0, 0) // SlaveProxyID
	raw = append(raw, 0, 0, 0, 0)   // ExecutionTime
	raw = append(raw, byte(len("mydb")))
	raw = append(raw, 0, 0) // ErrorCode

	var statusVars []byte
	statusVars = append(statusVars, qFlags2Code, 0, 0, 0, 0)
	raw = append(raw, byte(len(statusVars)), 0) // status vars len

	raw = append(raw, statusVars...)
	raw = append(raw, []byte("mydb")...)
	raw = append(raw, 0) // schema NUL terminator
	raw = append(raw, []byte("SELECT 1")...)

	r := newTestBuffer(raw)
	var e QueryEvent
	if err := e.decode(r); err != nil {
		t.Fatal(err)
	}
	if e.SlaveProxyID != 100 || e.Schema != "mydb" || e.Query != "SELECT 1" {
		t.Fatalf("got %#v", e)
	}
	if !e.StatusVars.Flags2Set {
		t.Fatal("expected Flags2Set")
	}
}
