package snapshot

import (
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/errs/v2"
)

// Codec selects how the payload of a snapshot is compressed.
type Codec uint8

const (
	None Codec = iota
	LZ4
	Zstd

	numCodecs
)

func (c Codec) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	}
	return "unknown"
}

var (
	zstdEncoders sync.Pool
	zstdDecoders sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoders.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoders.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// compress returns the stored form of raw and the codec actually used. Data
// that does not shrink is stored as is.
func compress(raw []byte, c Codec) ([]byte, Codec, error) {
	if len(raw) == 0 {
		return raw, None, nil
	}

	var out []byte
	switch c {
	case None:
		return raw, None, nil

	case LZ4:
		out = make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, out, nil)
		if err != nil {
			return nil, 0, errs.Wrap(err)
		}
		out = out[:n]

	case Zstd:
		enc := getZstdEncoder()
		out = enc.EncodeAll(raw, nil)
		zstdEncoders.Put(enc)

	default:
		return nil, 0, errs.Errorf("%w: codec %d", ErrUnknownCodec, c)
	}

	if len(out) == 0 || len(out) >= len(raw) {
		return raw, None, nil
	}
	return out, c, nil
}

func decompress(stored []byte, c Codec, size int) ([]byte, error) {
	switch c {
	case None:
		if len(stored) != size {
			return nil, errs.Errorf("%w: stored %d bytes for %d", ErrCorrupt, len(stored), size)
		}
		return stored, nil

	case LZ4:
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(stored, out)
		if err != nil {
			return nil, errs.Errorf("%w: %w", ErrCorrupt, err)
		} else if n != size {
			return nil, errs.Errorf("%w: decompressed %d bytes for %d", ErrCorrupt, n, size)
		}
		return out, nil

	case Zstd:
		dec := getZstdDecoder()
		defer zstdDecoders.Put(dec)

		out, err := dec.DecodeAll(stored, make([]byte, 0, size))
		if err != nil {
			return nil, errs.Errorf("%w: %w", ErrCorrupt, err)
		} else if len(out) != size {
			return nil, errs.Errorf("%w: decompressed %d bytes for %d", ErrCorrupt, len(out), size)
		}
		return out, nil
	}

	return nil, errs.Errorf("%w: codec %d", ErrUnknownCodec, c)
}
