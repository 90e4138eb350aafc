package tuplevec

import (
	"encoding/binary"

	"github.com/zeebo/errs/v2"
	"github.com/zeebo/xxh3"
)

func (v *Impl) pointers() bool {
	for _, d := range v.descs {
		if d.HasPointers() {
			return true
		}
	}
	return false
}

// Digest hashes the length and the raw bytes of every column. Containers
// with equal rows of padding free types have equal digests. It fails with
// ErrPointerColumns if any column holds pointers.
func (v *Impl) Digest() (uint64, error) {
	if v.pointers() {
		return 0, errs.Errorf("%w: cannot digest", ErrPointerColumns)
	}

	h := xxh3.New()
	_, _ = h.Write(binary.LittleEndian.AppendUint64(nil, uint64(v.size)))
	for _, c := range v.cols {
		_, _ = h.Write(c.bytes(v.size))
	}
	return h.Sum64(), nil
}
