package binlog

import (
	"testing"
	"time"
)

func TestColumn_decodeValue_Integers(t *testing.T) {
	cases := []struct {
		name string
		col  Column
		raw  []byte
		want interface{}
	}{
		{"tiny signed", Column{Type: TypeTiny}, []byte{0xe8}, int8(-24)},
		{"tiny unsigned", Column{Type: TypeTiny, Unsigned: true}, []byte{0xe8}, uint8(0xe8)},
		{"short signed", Column{Type: TypeShort}, []byte{0xff, 0xff}, int16(-1)},
		{"long signed", Column{Type: TypeLong}, []byte{0x04, 0x03, 0x02, 0x01}, int32(0x01020304)},
		{"long unsigned", Column{Type: TypeLong, Unsigned: true}, []byte{0xff, 0xff, 0xff, 0xff}, uint32(0xffffffff)},
		{"longlong signed", Column{Type: TypeLongLong}, []byte{1, 0, 0, 0, 0, 0, 0, 0}, int64(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestBuffer(tc.raw)
			got, err := tc.col.decodeValue(r)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("got %#v (%T), want %#v (%T)", got, got, tc.want, tc.want)
			}
		})
	}
}

func TestColumn_decodeValue_Varchar(t *testing.T) {
	// Meta < 256 selects a 1-byte length prefix.
	col := Column{Type: TypeVarchar, Meta: 255}
	raw := append([]byte{5}, []byte("hello")...)
	r := newTestBuffer(raw)
	got, err := col.decodeValue(r)
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestColumn_decodeValue_VarcharWideMeta(t *testing.T) {
	// Meta >= 256 selects a 2-byte length prefix.
	col := Column{Type: TypeVarchar, Meta: 1000}
	raw := append([]byte{3, 0}, []byte("abc")...)
	r := newTestBuffer(raw)
	got, err := col.decodeValue(r)
	if err != nil {
		t.Fatal(err)
	}
	if got != "abc" {
		t.Fatalf("got %q", got)
	}
}

func TestColumn_decodeValue_Date(t *testing.T) {
	col := Column{Type: TypeDate}
	r := newTestBuffer([]byte{78, 202, 15}) // 2021-02-14, little-endian int3
	got, err := col.decodeValue(r)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2021, time.February, 14, 0, 0, 0, 0, time.UTC)
	gotTime, ok := got.(time.Time)
	if !ok || !gotTime.Equal(want) {
		t.Fatalf("got %#v, want %v", got, want)
	}
}

func TestColumn_decodeValue_Bit(t *testing.T) {
	// bit(5): 1 byte, big-endian within the field.
	col := Column{Type: TypeBit, Meta: 5} // bytes=0, bits=5 -> (0*8)+5=5 -> ceil(5/8)=1 byte
	r := newTestBuffer([]byte{0x1f})
	got, err := col.decodeValue(r)
	if err != nil {
		t.Fatal(err)
	}
	if got != uint64(0x1f) {
		t.Fatalf("got %#v", got)
	}
}

func TestColumn_decodeValue_Enum(t *testing.T) {
	col := Column{Type: TypeEnum, Meta: 1, Values: []string{"x-small", "small"}}
	r := newTestBuffer([]byte{1})
	got, err := col.decodeValue(r)
	if err != nil {
		t.Fatal(err)
	}
	e, ok := got.(Enum)
	if !ok || e.Val != 1 {
		t.Fatalf("got %#v", got)
	}
}

func TestColumn_decodeValue_EnumInvalidLength(t *testing.T) {
	col := Column{Type: TypeEnum, Meta: 3}
	r := newTestBuffer([]byte{1})
	if _, err := col.decodeValue(r); err == nil {
		t.Fatal("expected error for invalid enum meta length")
	}
}
