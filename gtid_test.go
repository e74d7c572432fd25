package binlog

import (
	"testing"
)

func TestGtidEvent_decode(t *testing.T) {
	raw := []byte{
		1,                                              // commit flag
		1, 0, 0, 0, 0, 0, 0, 0, // SIDHigh = 1
		2, 0, 0, 0, 0, 0, 0, 0, // SIDLow = 2
		42, 0, 0, 0, 0, 0, 0, 0, // GNO = 42
		logicalTimestampTypeCode,
		5, 0, 0, 0, 0, 0, 0, 0, // last committed
		6, 0, 0, 0, 0, 0, 0, 0, // sequence number
	}
	r := newTestBuffer(raw)
	var e GtidEvent
	if err := e.decode(r); err != nil {
		t.Fatal(err)
	}
	if !e.CommitFlag {
		t.Fatal("expected commit flag set")
	}
	if e.SIDHigh != 1 || e.SIDLow != 2 || e.GNO != 42 {
		t.Fatalf("got %#v", e)
	}
	if !e.HasTimestamps || e.LastCommitted != 5 || e.SequenceNumber != 6 {
		t.Fatalf("got %#v", e)
	}
}

func TestGtidEvent_decode_NoTimestamps(t *testing.T) {
	raw := []byte{
		0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		1, 0, 0, 0, 0, 0, 0, 0,
	}
	r := newTestBuffer(raw)
	var e GtidEvent
	if err := e.decode(r); err != nil {
		t.Fatal(err)
	}
	if e.HasTimestamps {
		t.Fatal("did not expect timestamps when the buffer ends early")
	}
}

func TestGtidEvent_GTID(t *testing.T) {
	e := GtidEvent{SIDHigh: 0x3e11fa4771ca11e1, SIDLow: 0x9e33c80aa9429562, GNO: 7}
	got := e.GTID()
	want := "3e11fa47-71ca-11e1-9e33-c80aa9429562:7"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestXaPrepareEvent_decode_ImplausibleLength(t *testing.T) {
	raw := []byte{
		0,                // one phase
		1, 0, 0, 0,       // format id
		200, 0, 0, 0,     // gtrid len way too large
		1, 0, 0, 0,       // bqual len
	}
	r := newTestBuffer(raw)
	var e XaPrepareEvent
	err := e.decode(r)
	if err == nil {
		t.Fatal("expected an error for an implausible gtrid length")
	}
	var f *Fault
	if !asFault(err, &f) || f.Kind != FaultDecode {
		t.Fatalf("expected a FaultDecode, got %v", err)
	}
}

func TestXaPrepareEvent_decode(t *testing.T) {
	raw := []byte{
		1,          // one phase
		1, 0, 0, 0, // format id
		3, 0, 0, 0, // gtrid len
		2, 0, 0, 0, // bqual len
	}
	raw = append(raw, []byte("abc")...)
	raw = append(raw, []byte("de")...)
	r := newTestBuffer(raw)
	var e XaPrepareEvent
	if err := e.decode(r); err != nil {
		t.Fatal(err)
	}
	if !e.OnePhase || string(e.Gtrid) != "abc" || string(e.Bqual) != "de" {
		t.Fatalf("got %#v", e)
	}
}

// asFault is a small helper so tests can assert on the *Fault
// wrapping that the decode pipeline uses throughout (§7) without
// importing errors.As at every call site.
func asFault(err error, target **Fault) bool {
	if f, ok := err.(*Fault); ok {
		*target = f
		return true
	}
	return false
}
