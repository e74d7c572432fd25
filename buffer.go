package binlog

import (
	"bytes"
	"hash"
	"hash/crc32"
	"io"
)

const (
	headerSize    = 4
	maxPacketSize = 1<<24 - 1
)

// logBuffer is the random-access byte view every decoder in this package
// reads from: a packet-framed socket reader on one side, typed
// little/big-endian accessors on the other. It doubles as the decode-time
// context (current format description, table-map cache, checksum state)
// since every per-event decoder needs that context and threading it as a
// second parameter everywhere would just be noise.
type logBuffer struct {
	rd    io.Reader
	err   error
	buf   []byte // contents are the bytes buf[off:]
	off   int    // read at &buf[off], write at &buf[len(buf)]
	limit int

	// decode context, shared across the life of a connection
	binlogFile string
	binlogPos  uint32
	fde        FormatDescriptionEvent
	tmeCache   map[uint64]*TableMapEvent
	tme        *TableMapEvent
	re         RowsEvent
	checksum   int       // 0 or 4 (CRC32), per master_binlog_checksum
	hash       hash.Hash // accumulates bytes of the event being read, when checksum>0
}

func newLogBuffer(r io.Reader, seq *uint8) *logBuffer {
	return &logBuffer{
		rd:       &packetReader{rd: r, seq: seq},
		tmeCache: make(map[uint64]*TableMapEvent),
		limit:    -1,
	}
}

// resetForEvent rearms the buffer to read the next framed packet sequence
// from conn, wiring a fresh CRC32 accumulator when checksums are enabled.
func (r *logBuffer) resetForEvent(conn io.Reader, seq *uint8) {
	pr := &packetReader{rd: conn, seq: seq}
	r.limit = -1
	if r.checksum > 0 {
		r.hash = crc32.NewIEEE()
		r.rd = io.TeeReader(pr, r.hash)
	} else {
		r.rd = pr
	}
}

func (r *logBuffer) Read(p []byte) (int, error) {
	if len(r.buffer()) == 0 {
		if err := r.readMore(); err != nil {
			return 0, err
		}
	}
	n := copy(p, r.buffer())
	r.skip(n)
	return n, nil
}

func (r *logBuffer) readMore() error {
	if r.err != nil {
		return r.err
	}
	if r.limit >= 0 && len(r.buf)-r.off >= r.limit {
		return io.EOF
	}
	if len(r.buf) == cap(r.buf) {
		if r.off > 0 {
			copy(r.buf, r.buf[r.off:])
			r.buf = r.buf[0 : len(r.buf)-r.off]
			r.off = 0
		} else {
			buf := make([]byte, cap(r.buf)+1<<20)
			copy(buf, r.buf[r.off:])
			r.buf = buf[:len(r.buf)-r.off]
			r.off = 0
		}
	}
	n, err := r.rd.Read(r.buf[len(r.buf):cap(r.buf)])
	r.buf = r.buf[:len(r.buf)+n]
	if err == io.EOF {
		return io.EOF
	}
	r.err = err
	return r.err
}

// buffer returns the bytes available for reading, bounded by the current
// limit (the origin+limit window of §4.A).
func (r *logBuffer) buffer() []byte {
	buf := r.buf[r.off:]
	if r.limit >= 0 && len(buf) > r.limit {
		return buf[:r.limit]
	}
	return buf
}

func (r *logBuffer) ensure(n int) error {
	if r.limit >= 0 && n > r.limit {
		r.err = io.ErrUnexpectedEOF
		return r.err
	}
	for r.err == nil && n > len(r.buffer()) {
		if r.readMore() == io.EOF {
			r.err = io.ErrUnexpectedEOF
			break
		}
	}
	return r.err
}

func (r *logBuffer) peek() (byte, error) {
	if err := r.ensure(1); err != nil {
		return 0, err
	}
	return r.buffer()[0], nil
}

// newLimit shrinks or re-extends the buffer's logical window without
// copying, per §4.A's new_limit contract. Used to shield per-event
// decoders from a trailing CRC32 footer.
func (r *logBuffer) newLimit(n int) {
	r.limit = n
}

func (r *logBuffer) skip(n int) error {
	if r.err != nil {
		return r.err
	}
	if r.limit >= 0 && n > r.limit {
		r.err = io.ErrUnexpectedEOF
		return r.err
	}
	for n > 0 {
		if len(r.buffer()) == 0 {
			if r.readMore() == io.EOF {
				r.err = io.ErrUnexpectedEOF
			}
			if r.err != nil {
				return r.err
			}
		}
		m := n
		if m > len(r.buffer()) {
			m = len(r.buffer())
		}
		r.off += m
		n -= m
		if r.limit >= 0 {
			r.limit -= m
		}
	}
	return nil
}

// drain consumes and discards whatever remains in the current limited
// window, used after a per-event decoder to realign on the next event
// boundary regardless of whether it consumed its full declared length.
func (r *logBuffer) drain() error {
	if r.err == io.ErrUnexpectedEOF {
		r.err = nil
	}
	for r.err == nil {
		r.skip(len(r.buffer()))
		if r.readMore() == io.EOF {
			return nil
		}
	}
	return r.err
}

func (r *logBuffer) more() bool {
	if r.err != nil {
		return false
	}
	if len(r.buffer()) > 0 || r.limit > 0 {
		return true
	}
	return r.readMore() == nil
}

// int accessors ---

func (r *logBuffer) int1() byte {
	if err := r.ensure(1); err != nil {
		return 0
	}
	v := r.buffer()[0]
	r.skip(1)
	return v
}

func (r *logBuffer) int2() uint16 {
	if err := r.ensure(2); err != nil {
		return 0
	}
	buf := r.buffer()
	v := uint16(buf[0]) | uint16(buf[1])<<8
	r.skip(2)
	return v
}

func (r *logBuffer) int3() uint32 {
	if err := r.ensure(3); err != nil {
		return 0
	}
	buf := r.buffer()
	v := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16
	r.skip(3)
	return v
}

func (r *logBuffer) int4() uint32 {
	if err := r.ensure(4); err != nil {
		return 0
	}
	buf := r.buffer()
	v := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	r.skip(4)
	return v
}

func (r *logBuffer) int6() uint64 {
	if err := r.ensure(6); err != nil {
		return 0
	}
	buf := r.buffer()
	v := uint64(buf[0]) | uint64(buf[1])<<8 | uint64(buf[2])<<16 |
		uint64(buf[3])<<24 | uint64(buf[4])<<32 | uint64(buf[5])<<40
	r.skip(6)
	return v
}

func (r *logBuffer) int8() uint64 {
	if err := r.ensure(8); err != nil {
		return 0
	}
	buf := r.buffer()
	v := uint64(buf[0]) | uint64(buf[1])<<8 | uint64(buf[2])<<16 | uint64(buf[3])<<24 |
		uint64(buf[4])<<32 | uint64(buf[5])<<40 | uint64(buf[6])<<48 | uint64(buf[7])<<56
	r.skip(8)
	return v
}

func (r *logBuffer) intFixed(n int) uint64 {
	if err := r.ensure(n); err != nil {
		return 0
	}
	buf := r.buffer()[:n]
	var v uint64
	for i, b := range buf {
		v |= uint64(b) << (uint(i) * 8)
	}
	r.skip(n)
	return v
}

// intN reads a MySQL length-encoded integer (§4.A packed_i64):
// lead byte <0xfb literal, 0xfb is a NULL sentinel handled by callers
// that need it, 0xfc/0xfd/0xfe select a 2/3/8-byte follow-on.
func (r *logBuffer) intN() uint64 {
	b := r.int1()
	if r.err != nil {
		return 0
	}
	switch b {
	case 0xfc:
		return uint64(r.int2())
	case 0xfd:
		return uint64(r.int3())
	case 0xfe:
		return r.int8()
	default:
		return uint64(b)
	}
}

// intPacked reads the same length-encoded integer as intN but also
// reports how many bytes were consumed, needed by the table-map optional
// metadata TLVs (§4.F) to track a byte budget while reading.
func (r *logBuffer) intPacked() (uint64, int) {
	b := r.int1()
	if r.err != nil {
		return 0, 1
	}
	switch b {
	case 0xfc:
		return uint64(r.int2()), 3
	case 0xfd:
		return uint64(r.int3()), 4
	case 0xfe:
		return r.int8(), 9
	default:
		return uint64(b), 1
	}
}

// bytes, strings ---

func (r *logBuffer) bytesInternal(len int) []byte {
	if err := r.ensure(len); err != nil {
		return nil
	}
	v := r.buffer()[:len]
	r.skip(len)
	return v
}

func (r *logBuffer) bytes(len int) []byte {
	return append([]byte(nil), r.bytesInternal(len)...)
}

func (r *logBuffer) string(len int) string {
	return string(r.bytesInternal(len))
}

func (r *logBuffer) bytesNullInternal() []byte {
	if r.err != nil {
		return nil
	}
	i := 0
	for {
		if i == len(r.buffer()) {
			if r.readMore() != nil {
				return nil
			}
		}
		j := bytes.IndexByte(r.buffer()[i:], 0)
		if j != -1 {
			v := r.buffer()[:i+j]
			r.skip(i + j + 1)
			return v
		}
		i = len(r.buffer())
	}
}

func (r *logBuffer) bytesNull() []byte {
	return append([]byte(nil), r.bytesNullInternal()...)
}

func (r *logBuffer) stringNull() string {
	return string(r.bytesNullInternal())
}

func (r *logBuffer) bytesEOFInternal() []byte {
	for {
		if r.err != nil {
			return nil
		}
		if r.readMore() == io.EOF {
			v := r.buffer()
			r.skip(len(v))
			return v
		}
	}
}

func (r *logBuffer) bytesEOF() []byte {
	return append([]byte(nil), r.bytesEOFInternal()...)
}

func (r *logBuffer) stringEOF() string {
	return string(r.bytesEOFInternal())
}

func (r *logBuffer) stringN() string {
	l := r.intN()
	if r.err != nil {
		return ""
	}
	return r.string(int(l))
}
