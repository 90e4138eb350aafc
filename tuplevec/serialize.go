package tuplevec

import (
	"math"

	"github.com/zeebo/errs/v2"

	"github.com/histdb/tuplevec/rwutils"
)

const encodingVersion = 1

// AppendTo writes a header describing the columns, the raw bytes of each
// column in host byte order and the Digest of the rows. Containers with
// pointer columns record ErrPointerColumns on w instead.
func (v *Impl) AppendTo(w *rwutils.W) {
	if v.pointers() {
		w.Invalid(errs.Errorf("%w: cannot encode", ErrPointerColumns))
		return
	}
	if uint64(v.size) > math.MaxUint32 {
		w.Invalid(errs.Errorf("row count too large: %d", v.size))
		return
	}

	w.Uint8(encodingVersion)
	w.Varint(uint64(len(v.descs)))
	for _, d := range v.descs {
		w.Varint(uint64(d.Size))
	}
	w.Uint32(uint32(v.size))

	for _, c := range v.cols {
		w.Bytes(c.bytes(v.size))
	}

	sum, _ := v.Digest()
	w.Uint64(sum)
}

// ReadFrom replaces the contents with rows written by AppendTo. The header
// must match the columns of v. Errors are recorded on r and leave v empty.
func (v *Impl) ReadFrom(r *rwutils.R) {
	v.Clear()

	if v.pointers() {
		r.Invalid(errs.Errorf("%w: cannot decode", ErrPointerColumns))
		return
	}

	if ver := r.Uint8(); r.Err() == nil && ver != encodingVersion {
		r.Invalid(errs.Errorf("unknown encoding version: %d", ver))
	}
	if n := r.Varint(); r.Err() == nil && n != uint64(len(v.descs)) {
		r.Invalid(errs.Errorf("column count mismatch: read %d want %d", n, len(v.descs)))
	}

	var row uint64
	for i, d := range v.descs {
		if n := r.Varint(); r.Err() == nil && n != uint64(d.Size) {
			r.Invalid(errs.Errorf("column %d size mismatch: read %d want %d", i, n, d.Size))
		}
		row += uint64(d.Size)
	}

	rows := uint64(r.Uint32())
	switch {
	case r.Err() != nil:
		return
	case rows > math.MaxInt32:
		r.Invalid(errs.Errorf("row count too large: %d", rows))
		return
	case rows*row > uint64(r.Remaining()):
		r.Invalid(errs.Errorf("short buffer: %d rows of %d bytes", rows, row))
		return
	case !v.CanOverflow() && int(rows) > v.FixedRows():
		r.Invalid(errs.Errorf("%w: %d rows with %d inline", ErrCapacityExceeded, rows, v.FixedRows()))
		return
	}

	v.Reserve(int(rows))
	v.size = int(rows)
	for i, c := range v.cols {
		copy(c.bytes(v.size), r.Bytes(v.size*int(v.descs[i].Size)))
	}

	sum := r.Uint64()
	if r.Err() != nil {
		v.Clear()
	} else if got, _ := v.Digest(); got != sum {
		v.Clear()
		r.Invalid(errs.Errorf("%w: read %x computed %x", ErrChecksum, sum, got))
	}
}
