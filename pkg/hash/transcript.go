// Package hash implements the domain-separated Fiat-Shamir transcript used
// to turn the batched DLEQ proof's sigma protocol into a non-interactive
// one.
package hash

import (
	"encoding/binary"

	"github.com/zeebo/blake3"

	"github.com/luxfi/dlcve/pkg/curve"
)

// Transcript accumulates domain-separated data and produces a
// Fiat-Shamir challenge scalar or raw digest over it.
type Transcript struct {
	h *blake3.Hasher
}

// New returns a Transcript seeded with a fixed domain-separation label. The
// caller should use one of the two protocol tags ("venc-dleqs" for the
// verifiable-encryption scheme, "dlc-dleqs" for the oracle-attested variant).
func New(label string) *Transcript {
	h := blake3.New()
	h.Write([]byte(label))
	return &Transcript{h: h}
}

// WriteBytes absorbs raw bytes, length-prefixed so that concatenated writes
// cannot be reinterpreted as a different sequence of fields.
func (t *Transcript) WriteBytes(b []byte) *Transcript {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(b)))
	t.h.Write(lenBuf[:])
	t.h.Write(b)
	return t
}

// WritePoint absorbs a group element.
func (t *Transcript) WritePoint(p *curve.Point) *Transcript {
	b, err := p.MarshalBinary()
	if err != nil {
		panic("hash: point marshal failed: " + err.Error())
	}
	return t.WriteBytes(b)
}

// WriteScalar absorbs a field element.
func (t *Transcript) WriteScalar(s *curve.Scalar) *Transcript {
	b, err := s.MarshalBinary()
	if err != nil {
		panic("hash: scalar marshal failed: " + err.Error())
	}
	return t.WriteBytes(b)
}

// WriteUint32 absorbs a bucket index or other small integer.
func (t *Transcript) WriteUint32(v uint32) *Transcript {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return t.WriteBytes(buf[:])
}

// Sum finalizes the transcript into a 32-byte digest without consuming the
// Transcript; further writes continue to extend the same sponge state.
func (t *Transcript) Sum() [32]byte {
	var out [32]byte
	t.h.Clone().Digest().Read(out[:])
	return out
}

// Challenge finalizes the transcript into a uniformly distributed scalar
// challenge, reducing a wide digest mod q to avoid modular bias.
func (t *Transcript) Challenge() *curve.Scalar {
	var wide [64]byte
	t.h.Clone().Digest().Read(wide[:])
	return curve.Secp256k1{}.NewScalar().SetWideBytes(wide[:])
}
