// Package dleq implements a batched discrete-log-equality proof: one
// compact Fiat-Shamir proof that, for every bucket i, the same witness
// scalar w_i satisfies both P1_i = w_i*G and P2_i = w_i*G2_i. Party A uses
// it to prove every bucket's ElGamal ciphertext was built from the same
// pad opening committed to earlier, without revealing any w_i.
package dleq

import (
	"errors"

	"github.com/luxfi/dlcve/pkg/curve"
	"github.com/luxfi/dlcve/pkg/hash"
	"github.com/luxfi/dlcve/pkg/partyrand"
)

// ErrProofInvalid is returned by Verify when the batched proof does not
// check out against the supplied statements.
var ErrProofInvalid = errors.New("dleq: proof does not verify")

// Statement is one bucket's discrete-log-equality claim: P1 = w*G1 and
// P2 = w*G2, for a shared witness w.
type Statement struct {
	G1, P1 *curve.Point
	G2, P2 *curve.Point
}

// Proof is a compact batched proof over N statements: a single
// Fiat-Shamir challenge and one response scalar per statement. The
// per-statement commitments are not transmitted; the verifier
// recomputes them from the response, the challenge, and the statement.
type Proof struct {
	Challenge *curve.Scalar
	Responses []*curve.Scalar
}

// Prove constructs a batched proof that witnesses[i] satisfies
// statements[i] for every i, binding the proof to label (one of the
// scheme's two domain-separation tags) and to every statement's points.
// No other session context is absorbed into the transcript.
func Prove(label string, statements []Statement, witnesses []*curve.Scalar, stream *partyrand.Stream) (*Proof, error) {
	if len(statements) != len(witnesses) {
		return nil, errors.New("dleq: statement/witness count mismatch")
	}
	n := len(statements)
	nonces := make([]*curve.Scalar, n)
	t := hash.New(label)
	for i, st := range statements {
		k := stream.Scalar()
		nonces[i] = k
		r1 := k.Act(st.G1)
		r2 := k.Act(st.G2)
		t.WriteUint32(uint32(i))
		t.WritePoint(st.G1).WritePoint(st.P1)
		t.WritePoint(st.G2).WritePoint(st.P2)
		t.WritePoint(r1).WritePoint(r2)
	}
	c := t.Challenge()

	responses := make([]*curve.Scalar, n)
	for i, w := range witnesses {
		responses[i] = nonces[i].Add(c.Mul(w))
	}
	return &Proof{Challenge: c, Responses: responses}, nil
}

// Verify checks a batched proof against statements, recomputing the same
// transcript the prover built and comparing the resulting challenge.
func Verify(label string, statements []Statement, proof *Proof) error {
	if proof == nil {
		return ErrProofInvalid
	}
	n := len(statements)
	if len(proof.Responses) != n {
		return ErrProofInvalid
	}

	t := hash.New(label)
	for i, st := range statements {
		z := proof.Responses[i]
		// R1' = z*G1 - c*P1, R2' = z*G2 - c*P2
		r1 := z.Act(st.G1).Sub(proof.Challenge.Act(st.P1))
		r2 := z.Act(st.G2).Sub(proof.Challenge.Act(st.P2))
		t.WriteUint32(uint32(i))
		t.WritePoint(st.G1).WritePoint(st.P1)
		t.WritePoint(st.G2).WritePoint(st.P2)
		t.WritePoint(r1).WritePoint(r2)
	}
	c := t.Challenge()
	if !c.Equal(proof.Challenge) {
		return ErrProofInvalid
	}
	return nil
}
