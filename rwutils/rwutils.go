package rwutils

import (
	"encoding/binary"
	"io"

	"github.com/zeebo/errs/v2"

	"github.com/histdb/tuplevec/buffer"
	"github.com/histdb/tuplevec/varint"
)

var le = binary.LittleEndian

// RW is implemented by values that serialize themselves with W and R.
type RW interface {
	AppendTo(w *W)
	ReadFrom(r *R)
}

// W buffers little endian writes into an io.Writer. The first error sticks
// and is returned by Done.
type W struct {
	buf []byte
	err error
	w   io.Writer
}

const minBuf = 64

func (w *W) Init(wr io.Writer, buf []byte) {
	if cap(buf) < minBuf {
		buf = make([]byte, 0, 4096)
	}
	*w = W{
		buf: buf[:0],
		w:   wr,
	}
}

func (w *W) Done() error {
	w.flush()
	return w.err
}

// Invalid records err unless an error is already recorded.
func (w *W) Invalid(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *W) reserve(n int) {
	if len(w.buf)+n > cap(w.buf) {
		w.flush()
	}
}

func (w *W) Uint64(x uint64) { w.reserve(8); w.buf = le.AppendUint64(w.buf, x) }
func (w *W) Uint32(x uint32) { w.reserve(4); w.buf = le.AppendUint32(w.buf, x) }
func (w *W) Uint8(x uint8)   { w.reserve(1); w.buf = append(w.buf, x) }
func (w *W) Varint(x uint64) { w.reserve(9); w.buf = varint.Append(w.buf, x) }

func (w *W) Bytes(buf []byte) {
	if len(w.buf)+len(buf) > cap(w.buf) {
		w.flush()
		if len(buf) > cap(w.buf) {
			if w.err == nil {
				_, w.err = w.w.Write(buf)
			}
			return
		}
	}
	w.buf = append(w.buf, buf...)
}

//go:noinline
func (w *W) flush() {
	if w.err == nil && len(w.buf) > 0 {
		_, w.err = w.w.Write(w.buf)
	}
	w.buf = w.buf[:0]
}

// R reads what W wrote from a byte slice. Reads after the first error return
// zero values, and Done reports the error.
type R struct {
	buf buffer.T
	err error
}

func (r *R) Init(buf []byte) {
	*r = R{
		buf: buffer.OfLen(buf),
	}
}

// Done returns the unread bytes and the first error.
func (r *R) Done() ([]byte, error) {
	return r.buf.Suffix(), r.err
}

func (r *R) Err() error        { return r.err }
func (r *R) Remaining() int    { return int(r.buf.Remaining()) }
func (r *R) Invalid(err error) { r.fail(err) }

func (r *R) Uint64() (x uint64) {
	if r.err == nil {
		if r.buf.Remaining() >= 8 {
			x = le.Uint64(r.buf.Front8()[:])
			r.buf = r.buf.Advance(8)
		} else {
			r.bad(8)
		}
	}
	return
}

func (r *R) Uint32() (x uint32) {
	if r.err == nil {
		if r.buf.Remaining() >= 4 {
			x = le.Uint32(r.buf.Front4()[:])
			r.buf = r.buf.Advance(4)
		} else {
			r.bad(4)
		}
	}
	return
}

func (r *R) Uint8() (x uint8) {
	if r.err == nil {
		if r.buf.Remaining() >= 1 {
			x = *r.buf.Front()
			r.buf = r.buf.Advance(1)
		} else {
			r.bad(1)
		}
	}
	return
}

func (r *R) Varint() (x uint64) {
	if r.err == nil {
		var ok bool
		x, r.buf, ok = varint.Consume(r.buf)
		if !ok {
			r.fail(errs.Errorf("invalid varint"))
		}
	}
	return
}

// Bytes aliases the next n bytes of the input.
func (r *R) Bytes(n int) (x []byte) {
	if r.err == nil {
		if n >= 0 && r.buf.Remaining() >= uintptr(n) {
			x = r.buf.FrontN(n)
			r.buf = r.buf.Advance(uintptr(n))
		} else {
			r.bad(n)
		}
	}
	return
}

func (r *R) bad(n int) {
	r.fail(errs.Errorf("short buffer: needed %d bytes", n))
}

func (r *R) fail(err error) {
	if r.err == nil {
		r.err = err
	}
	r.buf = r.buf.Advance(r.buf.Remaining())
}
