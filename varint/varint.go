package varint

import (
	"encoding/binary"
	"math/bits"

	"github.com/histdb/tuplevec/buffer"
)

var le = binary.LittleEndian

// The encoding stores the length in unary in the low bits of the first byte:
// n-1 one bits then a zero, followed by the value in the remaining 8n-n
// bits. Values needing more than 56 bits use a 0xff byte and 8 raw bytes.

// Len is the number of bytes Append writes for val.
func Len(val uint64) int {
	return int(575*uintptr(bits.Len64(val))/4096 + 1)
}

// Append encodes val onto the end of dst.
func Append(dst []byte, val uint64) []byte {
	n := Len(val)
	if n == 9 {
		dst = append(dst, 0xff)
		return le.AppendUint64(dst, val)
	}

	enc := val<<n + 1<<((n-1)&63) - 1
	var tmp [8]byte
	le.PutUint64(tmp[:], enc)
	return append(dst, tmp[:n]...)
}

// Consume decodes a value from the front of buf. It reports false if buf is
// empty or the encoding runs past its end.
func Consume(buf buffer.T) (uint64, buffer.T, bool) {
	rem := buf.Remaining()
	if rem == 0 {
		return 0, buf, false
	}

	n := uintptr(bits.TrailingZeros8(^*buf.Front())) + 1
	switch {
	case n > rem:
		return 0, buf, false

	case n == 9:
		return le.Uint64(buf.Index8(1)[:]), buf.Advance(9), true

	case rem >= 8:
		dec := le.Uint64(buf.Front8()[:]) >> n
		dec &= 1<<((8*n-n)&63) - 1
		return dec, buf.Advance(n), true
	}

	// fewer than 8 bytes remain, so only read the ones that belong to us.
	var tmp [8]byte
	copy(tmp[:], buf.FrontN(int(n)))
	dec := le.Uint64(tmp[:]) >> n
	dec &= 1<<((8*n-n)&63) - 1
	return dec, buf.Advance(n), true
}
