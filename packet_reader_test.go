package binlog

import (
	"bytes"
	"io"
	"io/ioutil"
	"testing"
)

func TestPacketReader_LessThanMaxPacketSize(t *testing.T) {
	first, firstPayload := newTestPacket(10, 0)
	last, _ := newTestPacket(0, 1)
	var seq uint8
	r := &packetReader{rd: io.MultiReader(
		bytes.NewReader(first),
		bytes.NewReader(last),
		bytes.NewReader(make([]byte, 10)),
	), seq: &seq}
	got, err := ioutil.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, firstPayload) {
		t.Log(" got: ", got)
		t.Log("want: ", firstPayload)
		t.Fatal("payload did not match")
	}
}

func TestPacketReader_EqualToMaxPayloadSize(t *testing.T) {
	first, firstPayload := newTestPacket(maxPacketSize, 0)
	last, _ := newTestPacket(0, 1)
	var seq uint8
	r := &packetReader{rd: io.MultiReader(
		bytes.NewReader(first),
		bytes.NewReader(last),
		bytes.NewReader(make([]byte, 10)),
	), seq: &seq}
	got, err := ioutil.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, firstPayload) {
		t.Fatal("payload did not match")
	}
}

func TestPacketReader_MultipleOfMaxPayloadSize(t *testing.T) {
	first, firstPayload := newTestPacket(maxPacketSize, 0)
	second, secondPayload := newTestPacket(maxPacketSize, 1)
	last, _ := newTestPacket(0, 2)
	var seq uint8
	r := &packetReader{rd: io.MultiReader(
		bytes.NewReader(first),
		bytes.NewReader(second),
		bytes.NewReader(last),
		bytes.NewReader(make([]byte, 10)),
	), seq: &seq}
	got, err := ioutil.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got[:maxPacketSize], firstPayload) {
		t.Fatal("first payload did not match")
	}
	if !bytes.Equal(got[maxPacketSize:], secondPayload) {
		t.Fatal("second payload did not match")
	}
}

func TestPacketReader_ResetAllowsNextPacket(t *testing.T) {
	first, firstPayload := newTestPacket(5, 3)
	second, secondPayload := newTestPacket(6, 4)
	var seq uint8 = 3
	rd := io.MultiReader(bytes.NewReader(first), bytes.NewReader(second))
	r := &packetReader{rd: rd, seq: &seq}

	got, err := ioutil.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, firstPayload) {
		t.Fatal("first payload did not match")
	}
	if seq != 4 {
		t.Fatalf("seq after first packet: got %d, want 4", seq)
	}

	r.reset()
	got, err = ioutil.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, secondPayload) {
		t.Fatal("second payload did not match")
	}
	if seq != 5 {
		t.Fatalf("seq after second packet: got %d, want 5", seq)
	}
}

// Helpers ---

func newTestPacket(size int, seq byte) (packet, payload []byte) {
	b := make([]byte, headerSize+maxPacketSize)
	b[0] = byte(size)
	b[1] = byte(size >> 8)
	b[2] = byte(size >> 16)
	b[3] = seq
	b[4] = 2*seq + 1
	b[len(b)-1] = 2*seq + 2
	return b, b[4 : 4+size]
}

func newTestPacketData(data []byte, seq byte) []byte {
	b := make([]byte, headerSize+len(data))
	b[0] = byte(len(data))
	b[1] = byte(len(data) >> 8)
	b[2] = byte(len(data) >> 16)
	b[3] = seq
	copy(b[4:], data)
	return b
}
