// Package padmap implements the invertible mapping between Z_q and G used
// to disguise one-time pads as uniformly random group elements: a random
// curve point masks a scalar by hashing the point and XORing the digest
// against the scalar's byte encoding.
package padmap

import (
	"github.com/zeebo/blake3"

	"github.com/luxfi/dlcve/pkg/curve"
	"github.com/luxfi/dlcve/pkg/partyrand"
)

// ToG draws a fresh random point and returns it alongside a 32-byte pad that
// recovers r from the point via ToZq. The point is indistinguishable
// from a random group element to anyone who does not know the pad.
func ToG(r *curve.Scalar, stream *partyrand.Stream) (*curve.Point, [32]byte) {
	point := stream.Scalar().ActOnBase()
	pointBytes, err := point.MarshalBinary()
	if err != nil {
		panic("padmap: point marshal failed: " + err.Error())
	}
	digest := blake3.Sum256(pointBytes)

	rBytes, err := r.MarshalBinary()
	if err != nil {
		panic("padmap: scalar marshal failed: " + err.Error())
	}

	var pad [32]byte
	for i := range pad {
		pad[i] = digest[i] ^ rBytes[i]
	}
	return point, pad
}

// ToZq inverts ToG: given the point and pad it produced, it recovers r.
func ToZq(point *curve.Point, pad [32]byte) (*curve.Scalar, error) {
	pointBytes, err := point.MarshalBinary()
	if err != nil {
		return nil, err
	}
	digest := blake3.Sum256(pointBytes)

	var rBytes [32]byte
	for i := range rBytes {
		rBytes[i] = digest[i] ^ pad[i]
	}
	r := curve.Secp256k1{}.NewScalar()
	if err := r.UnmarshalBinary(rBytes[:]); err != nil {
		return nil, err
	}
	return r, nil
}
