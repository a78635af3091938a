package curve

import (
	"encoding/binary"
	"math/big"

	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/zeebo/blake3"
)

var fieldPrime = func() *big.Int {
	p, ok := new(big.Int).SetString(
		"FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F", 16)
	if !ok {
		panic("curve: failed to parse secp256k1 field prime")
	}
	return p
}()

// HashToPoint deterministically derives a point on the curve from label via
// try-and-increment: hash label‖counter to a candidate x-coordinate and
// accept the first one for which x^3+7 is a quadratic residue mod p. This
// is a one-time, public computation (deriving the fixed auxiliary base h),
// so it is done with math/big rather than constant-time field arithmetic.
func HashToPoint(label []byte) *Point {
	for counter := uint32(0); ; counter++ {
		var ctr [4]byte
		binary.BigEndian.PutUint32(ctr[:], counter)
		digest := blake3.Sum256(append(append([]byte{}, label...), ctr[:]...))

		x := new(big.Int).SetBytes(digest[:])
		x.Mod(x, fieldPrime)

		rhs := new(big.Int).Exp(x, big.NewInt(3), fieldPrime)
		rhs.Add(rhs, big.NewInt(7))
		rhs.Mod(rhs, fieldPrime)

		exp := new(big.Int).Add(fieldPrime, big.NewInt(1))
		exp.Rsh(exp, 2)
		y := new(big.Int).Exp(rhs, exp, fieldPrime)

		check := new(big.Int).Mul(y, y)
		check.Mod(check, fieldPrime)
		if check.Cmp(rhs) != 0 {
			continue
		}

		var fx, fy secp.FieldVal
		fx.SetByteSlice(pad32(x.Bytes()))
		fy.SetByteSlice(pad32(y.Bytes()))

		var pt secp.JacobianPoint
		pt.X = fx
		pt.Y = fy
		pt.Z.SetInt(1)
		return &Point{pt: pt}
	}
}

func pad32(b []byte) []byte {
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}
