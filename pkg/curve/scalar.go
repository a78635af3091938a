package curve

import (
	"crypto/subtle"
	"fmt"

	"github.com/cronokirby/saferith"
	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Scalar is an element of Z_q, the scalar field of the group. It is backed
// by a saferith.Nat so that arithmetic on secret values runs in constant
// time regardless of which curve a future Curve implementation targets.
type Scalar struct {
	nat *saferith.Nat
}

// SetUint64 sets s to the reduction of v mod q and returns s.
func (s *Scalar) SetUint64(v uint64) *Scalar {
	s.nat = new(saferith.Nat).SetUint64(v)
	return s
}

// SetNat sets s to the reduction of n mod q and returns s.
func (s *Scalar) SetNat(n *saferith.Nat) *Scalar {
	s.nat = new(saferith.Nat).Mod(n, order)
	return s
}

// SetWideBytes reduces a wide (e.g. 64-byte) big-endian buffer mod q,
// avoiding the modular bias of reducing a buffer only as wide as q itself.
func (s *Scalar) SetWideBytes(b []byte) *Scalar {
	s.nat = new(saferith.Nat).Mod(new(saferith.Nat).SetBytes(b), order)
	return s
}

// Add returns s + other mod q.
func (s *Scalar) Add(other *Scalar) *Scalar {
	return &Scalar{nat: new(saferith.Nat).ModAdd(s.nat, other.nat, order)}
}

// Sub returns s - other mod q.
func (s *Scalar) Sub(other *Scalar) *Scalar {
	return &Scalar{nat: new(saferith.Nat).ModSub(s.nat, other.nat, order)}
}

// Mul returns s * other mod q.
func (s *Scalar) Mul(other *Scalar) *Scalar {
	return &Scalar{nat: new(saferith.Nat).ModMul(s.nat, other.nat, order)}
}

// Negate returns -s mod q.
func (s *Scalar) Negate() *Scalar {
	return &Scalar{nat: new(saferith.Nat).ModNeg(s.nat, order)}
}

// Invert returns the multiplicative inverse of s mod q. The behavior is
// undefined if s is zero.
func (s *Scalar) Invert() *Scalar {
	return &Scalar{nat: new(saferith.Nat).ModInverse(s.nat, order)}
}

// IsZero reports whether s is the additive identity.
func (s *Scalar) IsZero() bool {
	zero := make([]byte, 32)
	return subtle.ConstantTimeCompare(s.bytesBE(), zero) == 1
}

// Equal reports whether s and other represent the same element of Z_q.
func (s *Scalar) Equal(other *Scalar) bool {
	return subtle.ConstantTimeCompare(s.bytesBE(), other.bytesBE()) == 1
}

func (s *Scalar) bytesBE() []byte {
	raw := s.nat.Bytes()
	out := make([]byte, 32)
	copy(out[32-len(raw):], raw)
	return out
}

// MarshalBinary encodes s as a canonical 32-byte little-endian integer.
func (s *Scalar) MarshalBinary() ([]byte, error) {
	be := s.bytesBE()
	out := make([]byte, 32)
	for i := 0; i < 32; i++ {
		out[i] = be[31-i]
	}
	return out, nil
}

// UnmarshalBinary decodes a canonical 32-byte little-endian scalar, reducing
// it mod q.
func (s *Scalar) UnmarshalBinary(b []byte) error {
	if len(b) != 32 {
		return fmt.Errorf("curve: scalar must be 32 bytes, got %d", len(b))
	}
	be := make([]byte, 32)
	for i := 0; i < 32; i++ {
		be[i] = b[31-i]
	}
	s.nat = new(saferith.Nat).Mod(new(saferith.Nat).SetBytes(be), order)
	return nil
}

// toModNScalar converts s to the decred secp256k1 representation used for
// the underlying elliptic-curve group operations.
func (s *Scalar) toModNScalar() *secp.ModNScalar {
	be := s.bytesBE()
	var m secp.ModNScalar
	m.SetByteSlice(be)
	return &m
}

// Act returns s * p.
func (s *Scalar) Act(p *Point) *Point {
	k := s.toModNScalar()
	var result secp.JacobianPoint
	secp.ScalarMultNonConst(k, &p.pt, &result)
	result.ToAffine()
	return &Point{pt: result}
}

// ActOnBase returns s * g.
func (s *Scalar) ActOnBase() *Point {
	k := s.toModNScalar()
	var result secp.JacobianPoint
	secp.ScalarBaseMultNonConst(k, &result)
	result.ToAffine()
	return &Point{pt: result}
}
