package snapshot

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/mwc"

	"github.com/histdb/tuplevec/testhelp"
	"github.com/histdb/tuplevec/tuplevec"
)

type vec = tuplevec.T3[uint64, float32, uint8]

func sample(rng *mwc.T, n int) *vec {
	v := tuplevec.New3[uint64, float32, uint8]()
	for range n {
		// small keys so the payload compresses.
		v.PushBack(rng.Uint64n(16), float32(rng.Uint32n(4)), uint8(rng.Uint32()))
	}
	return v
}

func TestRoundTrip(t *testing.T) {
	rng := mwc.Rand()

	for _, c := range []Codec{None, LZ4, Zstd} {
		t.Run(c.String(), func(t *testing.T) {
			for _, n := range []int{0, 1, 1000} {
				v := sample(rng, n)

				var buf bytes.Buffer
				assert.NoError(t, Write(&buf, v, c))
				assert.Equal(t, string(buf.Bytes()[:len(magic)]), magic)
				if c != None && n == 1000 {
					assert.Equal(t, Codec(buf.Bytes()[len(magic)]), c)
				}

				var got vec
				assert.NoError(t, Read(&buf, &got))
				assert.That(t, tuplevec.Equal3(v, &got))
				assert.Equal(t, buf.Len(), 0)

				dv, err := v.Digest()
				assert.NoError(t, err)
				dg, err := got.Digest()
				assert.NoError(t, err)
				assert.Equal(t, dv, dg)
			}
		})
	}
}

func TestIncompressible(t *testing.T) {
	rng := mwc.Rand()

	v := tuplevec.New2[uint64, uint64]()
	for range 64 {
		v.PushBack(rng.Uint64(), rng.Uint64())
	}

	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, v, LZ4))
	assert.Equal(t, Codec(buf.Bytes()[len(magic)]), None)

	got := tuplevec.New2[uint64, uint64]()
	assert.NoError(t, Read(&buf, got))
	assert.That(t, tuplevec.Equal2(v, got))
}

func TestFile(t *testing.T) {
	fh, done := testhelp.Tempfile(t)
	defer done()

	rng := mwc.Rand()
	a, b := sample(rng, 100), sample(rng, 200)

	assert.NoError(t, Write(fh, a, Zstd))
	assert.NoError(t, Write(fh, b, LZ4))

	_, err := fh.Seek(0, io.SeekStart)
	assert.NoError(t, err)

	var ga, gb vec
	assert.NoError(t, Read(fh, &ga))
	assert.NoError(t, Read(fh, &gb))
	assert.That(t, tuplevec.Equal3(a, &ga))
	assert.That(t, tuplevec.Equal3(b, &gb))

	assert.Error(t, Read(fh, &ga))
}

func TestCorrupt(t *testing.T) {
	rng := mwc.Rand()

	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, sample(rng, 500), Zstd))
	good := buf.Bytes()

	check := func(data []byte, target error) {
		t.Helper()
		var got vec
		err := Read(bytes.NewReader(data), &got)
		assert.Error(t, err)
		if target != nil {
			assert.That(t, errors.Is(err, target))
		}
	}

	check(nil, ErrCorrupt)
	check(good[:headerSize-1], ErrCorrupt)
	check(good[:len(good)-1], ErrCorrupt)

	bad := bytes.Clone(good)
	bad[0] = 'X'
	check(bad, ErrCorrupt)

	bad = bytes.Clone(good)
	bad[len(magic)] = 200
	check(bad, ErrUnknownCodec)

	bad = bytes.Clone(good)
	bad[headerSize+4] ^= 0xff
	check(bad, nil)

	// the payload must match the container it is read into.
	var other bytes.Buffer
	assert.NoError(t, Write(&other, tuplevec.New2[uint64, uint64](), None))
	check(other.Bytes(), nil)
}

func TestPointerColumns(t *testing.T) {
	v := tuplevec.New2[int, string]()
	v.PushBack(1, "a")

	var buf bytes.Buffer
	err := Write(&buf, v, None)
	assert.That(t, errors.Is(err, tuplevec.ErrPointerColumns))
	assert.Equal(t, buf.Len(), 0)
}
