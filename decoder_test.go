package binlog

import (
	"bytes"
	"testing"
)

func TestEncodeUUID(t *testing.T) {
	got, err := encodeUUID("3E11FA47-71CA-11E1-9E33-C80AA9429562")
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x3e, 0x11, 0xfa, 0x47, 0x71, 0xca, 0x11, 0xe1, 0x9e, 0x33, 0xc8, 0x0a, 0xa9, 0x42, 0x95, 0x62}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestEncodeUUID_Invalid(t *testing.T) {
	if _, err := encodeUUID("not-a-uuid"); err == nil {
		t.Fatal("expected an error for a malformed UUID")
	}
}

func TestParseInterval(t *testing.T) {
	cases := []struct {
		in         string
		start, end uint64
	}{
		{"1-5", 1, 5},
		{"7", 7, 7},
		{"1-1", 1, 1},
	}
	for _, tc := range cases {
		start, end, err := parseInterval(tc.in)
		if err != nil {
			t.Fatal(err)
		}
		if start != tc.start || end != tc.end {
			t.Fatalf("parseInterval(%q) = %d,%d want %d,%d", tc.in, start, end, tc.start, tc.end)
		}
	}
}

func TestEncodeGTIDSet_SingleUUIDSingleInterval(t *testing.T) {
	got, err := encodeGTIDSet("3E11FA47-71CA-11E1-9E33-C80AA9429562:1-5")
	if err != nil {
		t.Fatal(err)
	}
	uuid, _ := encodeUUID("3E11FA47-71CA-11E1-9E33-C80AA9429562")
	var want []byte
	want = append(want, le64(1)...) // n_sids
	want = append(want, uuid...)
	want = append(want, le64(1)...) // n_intervals
	want = append(want, le64(1)...) // start
	want = append(want, le64(6)...) // end+1
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestEncodeGTIDSet_MultipleIntervalsAndUUIDs(t *testing.T) {
	got, err := encodeGTIDSet("3E11FA47-71CA-11E1-9E33-C80AA9429562:1-5:8,00000000-0000-0000-0000-000000000001:3")
	if err != nil {
		t.Fatal(err)
	}
	uuid1, _ := encodeUUID("3E11FA47-71CA-11E1-9E33-C80AA9429562")
	uuid2, _ := encodeUUID("00000000-0000-0000-0000-000000000001")
	var want []byte
	want = append(want, le64(2)...) // n_sids
	want = append(want, uuid1...)
	want = append(want, le64(2)...) // n_intervals for first sid
	want = append(want, le64(1)...)
	want = append(want, le64(6)...)
	want = append(want, le64(8)...)
	want = append(want, le64(9)...)
	want = append(want, uuid2...)
	want = append(want, le64(1)...) // n_intervals for second sid
	want = append(want, le64(3)...)
	want = append(want, le64(4)...)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestEncodeGTIDSet_Empty(t *testing.T) {
	got, err := encodeGTIDSet("")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, le64(0)) {
		t.Fatalf("got %x, want n_sids=0", got)
	}
}

func TestEncodeGTIDSet_Invalid(t *testing.T) {
	if _, err := encodeGTIDSet("not-a-valid-group"); err == nil {
		t.Fatal("expected an error for a group without a colon")
	}
}

func TestDecoder_AbortTransitionsToFaulted(t *testing.T) {
	d := &Decoder{log: packageLogger}
	err := d.abort(FaultTransport, bytes.ErrTooLarge)
	if err == nil {
		t.Fatal("expected abort to return an error")
	}
	if d.state != stateFaulted {
		t.Fatalf("got state %v, want stateFaulted", d.state)
	}
	// a faulted Decoder returns the same fault without touching the
	// connection again.
	got, err2 := d.NextEvent()
	if err2 != err || got.Data != nil {
		t.Fatalf("got %#v, %v; want the same fault and a zero Event", got, err2)
	}
}

func TestDecoder_AbortNilIsNoop(t *testing.T) {
	d := &Decoder{log: packageLogger}
	if err := d.abort(FaultTransport, nil); err != nil {
		t.Fatalf("abort with a nil error should return nil, got %v", err)
	}
	if d.state == stateFaulted {
		t.Fatal("a nil error should not fault the connection")
	}
}
