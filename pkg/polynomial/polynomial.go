// Package polynomial implements scalar and point polynomials over Z_q and G,
// and Lagrange coefficient computation at x=0, used by the threshold
// oracle-attestation variant to reconstruct a shared secret from t-of-n
// signature shares.
package polynomial

import (
	"github.com/luxfi/dlcve/pkg/curve"
	"github.com/luxfi/dlcve/pkg/partyrand"
)

// ScalarPoly is a polynomial over Z_q, stored lowest-degree coefficient
// first.
type ScalarPoly struct {
	coeffs []*curve.Scalar
}

// NewScalarPoly wraps coeffs (lowest degree first) as a polynomial.
func NewScalarPoly(coeffs []*curve.Scalar) *ScalarPoly {
	return &ScalarPoly{coeffs: coeffs}
}

// RandomScalarPoly draws a polynomial of n coefficients from stream.
func RandomScalarPoly(n int, stream *partyrand.Stream) *ScalarPoly {
	return &ScalarPoly{coeffs: stream.Scalars(n)}
}

// Len returns the number of coefficients.
func (p *ScalarPoly) Len() int { return len(p.coeffs) }

// Coefficients returns the polynomial's coefficients, lowest degree first.
func (p *ScalarPoly) Coefficients() []*curve.Scalar { return p.coeffs }

// Eval evaluates the polynomial at x via Horner's method.
func (p *ScalarPoly) Eval(x uint32) *curve.Scalar {
	g := curve.Secp256k1{}
	xs := g.NewScalar().SetUint64(uint64(x))
	sum := g.NewScalar().SetUint64(0)
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		sum = sum.Mul(xs).Add(p.coeffs[i])
	}
	return sum
}

// ToPointPoly returns the polynomial with every coefficient lifted to
// coeff*g.
func (p *ScalarPoly) ToPointPoly() *PointPoly {
	out := make([]*curve.Point, len(p.coeffs))
	for i, c := range p.coeffs {
		out[i] = c.ActOnBase()
	}
	return &PointPoly{points: out}
}

// PushFront prepends a coefficient, raising the polynomial's degree by one.
func (p *ScalarPoly) PushFront(s *curve.Scalar) {
	p.coeffs = append([]*curve.Scalar{s}, p.coeffs...)
}

// PopFront removes the constant term.
func (p *ScalarPoly) PopFront() {
	p.coeffs = p.coeffs[1:]
}

// PointPoly is a polynomial over G, stored lowest-degree coefficient first.
type PointPoly struct {
	points []*curve.Point
}

// Len returns the number of coefficients.
func (p *PointPoly) Len() int { return len(p.points) }

// Points returns the polynomial's coefficients, lowest degree first.
func (p *PointPoly) Points() []*curve.Point { return p.points }

// Eval evaluates the polynomial at x via a multi-scalar-like accumulation.
func (p *PointPoly) Eval(x uint32) *curve.Point {
	g := curve.Secp256k1{}
	xs := g.NewScalar().SetUint64(uint64(x))
	xpow := g.NewScalar().SetUint64(1)
	sum := g.NewPoint()
	for i, pt := range p.points {
		if i > 0 {
			xpow = xpow.Mul(xs)
		}
		sum = sum.Add(xpow.Act(pt))
	}
	return sum
}

// PushFront prepends a coefficient.
func (p *PointPoly) PushFront(pt *curve.Point) {
	p.points = append([]*curve.Point{pt}, p.points...)
}

// PopFront removes the constant term.
func (p *PointPoly) PopFront() {
	p.points = p.points[1:]
}

// Lagrange returns, for each id in ids, the Lagrange basis coefficient
// lambda_id(0) = prod_{j != id} j/(j-id), evaluated in Z_q. ids are
// 1-indexed oracle/party identifiers; the returned slice is parallel to
// ids. Summing the coefficients for any subset of a fixed node set always
// yields 1, since the basis polynomials partition unity at x=0.
func Lagrange(ids []uint32) []*curve.Scalar {
	g := curve.Secp256k1{}
	coeffs := make([]*curve.Scalar, len(ids))
	for i, id := range ids {
		num := g.NewScalar().SetUint64(1)
		den := g.NewScalar().SetUint64(1)
		xi := g.NewScalar().SetUint64(uint64(id))
		for j, jd := range ids {
			if j == i {
				continue
			}
			xj := g.NewScalar().SetUint64(uint64(jd))
			num = num.Mul(xj)
			den = den.Mul(xj.Sub(xi))
		}
		coeffs[i] = num.Mul(den.Invert())
	}
	return coeffs
}
