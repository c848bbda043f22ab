package value

import (
	"encoding/binary"
	"math"

	"github.com/dchest/siphash"
)

// hashKeys are fixed, arbitrary (not secret): they exist purely to
// get a stable pseudo-random distribution, not to hide anything.
const (
	hk0, hk1 = 0x5eed, 0xc0ffee
)

// HashKey returns a content hash of v, stable across Clone and across
// process runs. Bag.Equal uses it to bucket candidate matches before
// falling back to the O(n^2) pairwise comparison, so that large bags
// of scalars don't degrade to quadratic behavior in the common case
// where most elements are distinguishable by hash alone.
func HashKey(v Value) uint64 {
	h := newHasher()
	h.write(v)
	return h.sum()
}

type hasher struct {
	buf []byte
}

func newHasher() *hasher { return &hasher{buf: make([]byte, 0, 64)} }

func (h *hasher) write(v Value) {
	switch t := v.(type) {
	case Null:
		h.tag(0)
	case Missing:
		h.tag(1)
	case Bool:
		h.tag(2)
		if t {
			h.byte(1)
		} else {
			h.byte(0)
		}
	case Number:
		h.tag(3)
		h.u64(math.Float64bits(float64(t)))
	case String:
		h.tag(4)
		h.bytes([]byte(t))
	case Array:
		h.tag(5)
		for _, e := range t {
			h.write(e)
		}
	case Bag:
		h.tag(6)
		// Bag equality ignores order, so the hash must too: XOR the
		// per-element hashes instead of folding them in sequence.
		var acc uint64
		for _, e := range t {
			acc ^= HashKey(e)
		}
		h.u64(acc)
	case Object:
		h.tag(7)
		var acc uint64
		for _, e := range t {
			sub := newHasher()
			sub.bytes([]byte(e.Key))
			sub.write(e.Value)
			acc ^= sub.sum()
		}
		h.u64(acc)
	default:
		h.tag(255)
	}
}

func (h *hasher) tag(b byte)    { h.buf = append(h.buf, b) }
func (h *hasher) byte(b byte)   { h.buf = append(h.buf, b) }
func (h *hasher) bytes(b []byte) {
	var lenb [8]byte
	binary.LittleEndian.PutUint64(lenb[:], uint64(len(b)))
	h.buf = append(h.buf, lenb[:]...)
	h.buf = append(h.buf, b...)
}
func (h *hasher) u64(u uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], u)
	h.buf = append(h.buf, b[:]...)
}

func (h *hasher) sum() uint64 {
	return siphash.Hash(hk0, hk1, h.buf)
}
