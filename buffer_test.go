package binlog

import (
	"bytes"
	"io"
	"testing"
)

// newTestBuffer builds a logBuffer reading directly from raw (no packet
// framing): readMore() calls r.rd.Read, so any io.Reader works as a
// decode-time source for exercising the typed accessors in isolation.
func newTestBuffer(raw []byte) *logBuffer {
	return &logBuffer{rd: bytes.NewReader(raw), limit: -1}
}

func TestLogBuffer_Ints(t *testing.T) {
	r := newTestBuffer([]byte{
		0x2a,                   // int1
		0x34, 0x12,             // int2 = 0x1234
		0x78, 0x56, 0x34,       // int3 = 0x345678
		0x04, 0x03, 0x02, 0x01, // int4 = 0x01020304
	})
	if got := r.int1(); got != 0x2a {
		t.Fatalf("int1: got %#x", got)
	}
	if got := r.int2(); got != 0x1234 {
		t.Fatalf("int2: got %#x", got)
	}
	if got := r.int3(); got != 0x345678 {
		t.Fatalf("int3: got %#x", got)
	}
	if got := r.int4(); got != 0x01020304 {
		t.Fatalf("int4: got %#x", got)
	}
	if r.err != nil {
		t.Fatal(r.err)
	}
}

func TestLogBuffer_IntN(t *testing.T) {
	cases := []struct {
		raw  []byte
		want uint64
	}{
		{[]byte{0x05}, 5},
		{[]byte{0xfc, 0x00, 0x01}, 256},
		{[]byte{0xfd, 0x00, 0x00, 0x01}, 1 << 16},
		{[]byte{0xfe, 0x00, 0x00, 0x00, 0x01, 0, 0, 0}, 1 << 24},
	}
	for _, tc := range cases {
		r := newTestBuffer(tc.raw)
		got := r.intN()
		if r.err != nil {
			t.Fatal(r.err)
		}
		if got != tc.want {
			t.Fatalf("intN(%v): got %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestLogBuffer_StringNull(t *testing.T) {
	raw := append([]byte("hello"), 0)
	raw = append(append(raw, []byte("world")...), 0)
	r := newTestBuffer(raw)

	if got := r.stringNull(); got != "hello" {
		t.Fatalf("got %q, want hello", got)
	}
	if got := r.stringNull(); got != "world" {
		t.Fatalf("got %q, want world", got)
	}
}

func TestLogBuffer_BytesEOF(t *testing.T) {
	raw := []byte("the rest of the buffer")
	r := newTestBuffer(raw)
	r.skip(4) // "the "
	if got := r.stringEOF(); got != "rest of the buffer" {
		t.Fatalf("got %q", got)
	}
}

func TestLogBuffer_NewLimitShieldsTrailer(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	r := newTestBuffer(raw)
	r.newLimit(4)
	if got := r.bytes(4); !bytes.Equal(got, raw[:4]) {
		t.Fatalf("got %v", got)
	}
	if _, err := r.peek(); err == nil {
		t.Fatal("expected peek past the limit to fail")
	}
	r.err = nil
	r.newLimit(-1)
	if got := r.bytes(2); !bytes.Equal(got, raw[4:6]) {
		t.Fatalf("got %v", got)
	}
}

func TestLogBuffer_DrainConsumesRemainder(t *testing.T) {
	raw := []byte{1, 2, 3, 4, 5}
	r := newTestBuffer(raw)
	r.newLimit(5)
	r.skip(2)
	if err := r.drain(); err != nil {
		t.Fatal(err)
	}
	if len(r.buffer()) != 0 {
		t.Fatalf("drain left %d bytes", len(r.buffer()))
	}
}

func TestLogBuffer_EnsurePastEOF(t *testing.T) {
	r := newTestBuffer([]byte{1, 2})
	r.newLimit(2)
	r.bytes(2)
	if _, err := r.peek(); err != io.ErrUnexpectedEOF {
		t.Fatalf("got %v, want io.ErrUnexpectedEOF", err)
	}
}
