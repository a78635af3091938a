package curve

import (
	"fmt"

	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Point is an element of G, represented in affine coordinates.
type Point struct {
	pt secp.JacobianPoint
}

// Add returns p + q.
func (p *Point) Add(q *Point) *Point {
	var result secp.JacobianPoint
	secp.AddNonConst(&p.pt, &q.pt, &result)
	result.ToAffine()
	return &Point{pt: result}
}

// Negate returns -p.
func (p *Point) Negate() *Point {
	r := p.pt
	r.Y.Negate(1)
	r.Y.Normalize()
	return &Point{pt: r}
}

// Sub returns p - q.
func (p *Point) Sub(q *Point) *Point {
	return p.Add(q.Negate())
}

// IsIdentity reports whether p is the point at infinity.
func (p *Point) IsIdentity() bool {
	return p.pt.X.IsZero() && p.pt.Y.IsZero()
}

// Equal reports whether p and q represent the same point.
func (p *Point) Equal(q *Point) bool {
	return p.pt.X.Equals(&q.pt.X) && p.pt.Y.Equals(&q.pt.Y)
}

// MarshalBinary encodes p in standard 33-byte compressed form (a leading
// parity byte plus the 32-byte x-coordinate). The wire codec that frames
// this alongside other fields is an external concern; this method only
// guarantees a lossless round trip of the point itself.
func (p *Point) MarshalBinary() ([]byte, error) {
	if p.IsIdentity() {
		return make([]byte, 33), nil
	}
	x, y := p.pt.X, p.pt.Y
	pub := secp.NewPublicKey(&x, &y)
	return pub.SerializeCompressed(), nil
}

// UnmarshalBinary decodes a point produced by MarshalBinary. An all-zero
// input decodes back to the identity.
func (p *Point) UnmarshalBinary(b []byte) error {
	if len(b) != 33 {
		return fmt.Errorf("curve: point must be 33 bytes, got %d", len(b))
	}
	allZero := true
	for _, v := range b {
		if v != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		p.pt = secp.JacobianPoint{}
		return nil
	}
	pub, err := secp.ParsePubKey(b)
	if err != nil {
		return fmt.Errorf("curve: invalid point encoding: %w", err)
	}
	pub.AsJacobian(&p.pt)
	return nil
}
