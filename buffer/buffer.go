package buffer

import "unsafe"

type (
	ptr  = unsafe.Pointer
	uptr = uintptr
)

// T is a read cursor over a byte slice that does no bounds checks of its
// own. Callers check Remaining before reaching past the front.
type T struct {
	base ptr
	pos  uptr
	cap  uptr
}

func OfLen(n []byte) T {
	return T{
		base: ptr(unsafe.SliceData(n)),
		cap:  uptr(len(n)),
	}
}

func (buf T) Remaining() uptr { return buf.cap - buf.pos }

func (buf T) Advance(n uptr) T {
	buf.pos += n
	return buf
}

func (buf T) at(n uptr) ptr { return unsafe.Add(buf.base, buf.pos+n) }

func (buf T) Front() *byte     { return (*byte)(buf.at(0)) }
func (buf T) Front4() *[4]byte { return (*[4]byte)(buf.at(0)) }
func (buf T) Front8() *[8]byte { return (*[8]byte)(buf.at(0)) }

func (buf T) Index8(n uptr) *[8]byte { return (*[8]byte)(buf.at(n)) }

// FrontN aliases the next n bytes.
func (buf T) FrontN(n int) []byte {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(buf.at(0)), n)
}

// Suffix aliases the bytes not yet consumed.
func (buf T) Suffix() []byte { return buf.FrontN(int(buf.Remaining())) }
