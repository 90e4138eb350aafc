// Package snapshot stores containers as a single optionally compressed block:
//
//	[magic "TVS1"][codec u8][raw size u32][stored size u32][stored bytes]
//
// The raw bytes are whatever the value writes with its AppendTo method.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/zeebo/errs/v2"

	"github.com/histdb/tuplevec/alloc"
	"github.com/histdb/tuplevec/rwutils"
)

var (
	ErrCorrupt      = errs.Errorf("corrupt snapshot")
	ErrUnknownCodec = errs.Errorf("unknown codec")
	ErrTooLarge     = errs.Errorf("snapshot too large")
)

const (
	magic      = "TVS1"
	headerSize = len(magic) + 1 + 4 + 4
)

var le = binary.LittleEndian

// Write encodes v and writes it to w compressed with c. If compression does
// not make the payload smaller it is stored uncompressed.
func Write(w io.Writer, v rwutils.RW, c Codec) error {
	var (
		buf bytes.Buffer
		rw  rwutils.W
	)

	rw.Init(&buf, nil)
	v.AppendTo(&rw)
	if err := rw.Done(); err != nil {
		return err
	}

	raw := buf.Bytes()
	if uint64(len(raw)) > math.MaxUint32 {
		return errs.Errorf("%w: %d bytes", ErrTooLarge, len(raw))
	}

	stored, used, err := compress(raw, c)
	if err != nil {
		return err
	}

	alloc.Logger().Debug("snapshot: write",
		"codec", used, "raw", len(raw), "stored", len(stored))

	hdr := make([]byte, 0, headerSize)
	hdr = append(hdr, magic...)
	hdr = append(hdr, byte(used))
	hdr = le.AppendUint32(hdr, uint32(len(raw)))
	hdr = le.AppendUint32(hdr, uint32(len(stored)))

	if _, err := w.Write(hdr); err != nil {
		return errs.Wrap(err)
	}
	if _, err := w.Write(stored); err != nil {
		return errs.Wrap(err)
	}
	return nil
}

// Read reads one snapshot from r into v. The whole payload must be consumed
// by v's ReadFrom.
func Read(r io.Reader, v rwutils.RW) error {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return errs.Errorf("%w: reading header: %w", ErrCorrupt, err)
	}

	if string(hdr[:len(magic)]) != magic {
		return errs.Errorf("%w: bad magic %q", ErrCorrupt, hdr[:len(magic)])
	}
	c := Codec(hdr[len(magic)])
	if c >= numCodecs {
		return errs.Errorf("%w: codec %d", ErrUnknownCodec, c)
	}
	size := le.Uint32(hdr[len(magic)+1:])
	stored := make([]byte, le.Uint32(hdr[len(magic)+5:]))

	if _, err := io.ReadFull(r, stored); err != nil {
		return errs.Errorf("%w: reading payload: %w", ErrCorrupt, err)
	}

	raw, err := decompress(stored, c, int(size))
	if err != nil {
		return err
	}

	var rr rwutils.R
	rr.Init(raw)
	v.ReadFrom(&rr)

	rest, err := rr.Done()
	if err != nil {
		return err
	} else if len(rest) > 0 {
		return errs.Errorf("%w: %d trailing bytes", ErrCorrupt, len(rest))
	}
	return nil
}
