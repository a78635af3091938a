// Package curve implements the prime-order group G (secp256k1) over which
// the verifiable-encryption protocol operates: scalars in Z_q, points in G,
// a fixed generator g, and an independent auxiliary base h used as the
// ElGamal base.
package curve

import (
	"math/big"
	"sync"

	"github.com/cronokirby/saferith"
)

// order is the order q of the secp256k1 group.
var order = newOrderModulus()

func newOrderModulus() *saferith.Modulus {
	n, ok := new(big.Int).SetString(
		"FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)
	if !ok {
		panic("curve: failed to parse secp256k1 group order")
	}
	return saferith.ModulusFromBytes(n.Bytes())
}

// Secp256k1 is the group used throughout this module. It carries no state;
// every operation is a pure function of its scalar/point arguments.
type Secp256k1 struct{}

// Name returns the group's identifying string.
func (Secp256k1) Name() string { return "secp256k1" }

// NewScalar returns the additive identity of Z_q.
func (Secp256k1) NewScalar() *Scalar {
	return &Scalar{nat: new(saferith.Nat).SetUint64(0)}
}

// NewPoint returns the identity element of G.
func (Secp256k1) NewPoint() *Point {
	return &Point{}
}

// Generator returns the fixed base point g.
func (Secp256k1) Generator() *Point {
	return generator()
}

var gOnce sync.Once
var gPoint *Point

func generator() *Point {
	gOnce.Do(func() {
		one := Secp256k1{}.NewScalar().SetUint64(1)
		gPoint = one.ActOnBase()
	})
	return gPoint
}

// elGamalBase is the auxiliary generator h used as the ElGamal base. It is
// derived once, deterministically, via hash-to-curve so that no party
// (including the implementation's author) knows its discrete log with
// respect to g.
var hOnce sync.Once
var hPoint *Point

// ElGamalBase returns the independent auxiliary base h.
func ElGamalBase() *Point {
	hOnce.Do(func() {
		hPoint = HashToPoint([]byte("dlcve/elgamal-base"))
	})
	return hPoint
}
