// Package protocol implements the four-message cut-and-choose verifiable
// encryption exchange between Party A (the encrypter) and Party B (the
// receiver), parameterized over an Anticipation strategy that supplies the
// per-outcome public points and eventual secret reconstruction.
package protocol

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/luxfi/dlcve/pkg/curve"
	"github.com/luxfi/dlcve/pkg/dleq"
)

// Commit is Party A's binding commitment to one pad slot: a Pedersen-like
// commitment pair C to the pad-mapped chain value, the chain point R, and
// the XOR pad recovering the chain scalar from the pad-mapped point on
// decommitment.
type Commit struct {
	C0, C1 *curve.Point
	R      *curve.Point
	Pad    [32]byte
}

func (c *Commit) toWire() (wireCommit, error) {
	var w wireCommit
	var err error
	if w.C0, err = c.C0.MarshalBinary(); err != nil {
		return w, err
	}
	if w.C1, err = c.C1.MarshalBinary(); err != nil {
		return w, err
	}
	if w.R, err = c.R.MarshalBinary(); err != nil {
		return w, err
	}
	w.Pad = c.Pad[:]
	return w, nil
}

func (c *Commit) fromWire(w wireCommit) error {
	c.C0 = curve.Secp256k1{}.NewPoint()
	c.C1 = curve.Secp256k1{}.NewPoint()
	c.R = curve.Secp256k1{}.NewPoint()
	if err := c.C0.UnmarshalBinary(w.C0); err != nil {
		return err
	}
	if err := c.C1.UnmarshalBinary(w.C1); err != nil {
		return err
	}
	if err := c.R.UnmarshalBinary(w.R); err != nil {
		return err
	}
	if len(w.Pad) != 32 {
		return fmt.Errorf("protocol: pad must be 32 bytes, got %d", len(w.Pad))
	}
	copy(c.Pad[:], w.Pad)
	return nil
}

type wireCommit struct {
	C0, C1 []byte
	R      []byte
	Pad    []byte
}

// Message1 is Party A's first message: M commitments, one per pad slot.
type Message1 struct {
	Commits []Commit
}

// MarshalBinary CBOR-encodes the message, wrapping each group element in
// its own binary encoding the way the teacher's round broadcasts wrap
// commitments before framing them in CBOR.
func (m *Message1) MarshalBinary() ([]byte, error) {
	wire := make([]wireCommit, len(m.Commits))
	for i := range m.Commits {
		w, err := m.Commits[i].toWire()
		if err != nil {
			return nil, err
		}
		wire[i] = w
	}
	return cbor.Marshal(wire)
}

// UnmarshalBinary decodes a Message1 produced by MarshalBinary.
func (m *Message1) UnmarshalBinary(b []byte) error {
	var wire []wireCommit
	if err := cbor.Unmarshal(b, &wire); err != nil {
		return err
	}
	m.Commits = make([]Commit, len(wire))
	for i := range wire {
		if err := m.Commits[i].fromWire(wire[i]); err != nil {
			return err
		}
	}
	return nil
}

// Message2 is Party B's challenge: a uniformly random subset of slots to
// open, and a uniformly random bijection from the remaining slots onto
// the NB bucketed positions.
type Message2 struct {
	Openings      []uint32
	BucketMapping []uint32
}

type wireMessage2 struct {
	Openings      []uint32
	BucketMapping []uint32
}

// MarshalBinary CBOR-encodes the message.
func (m *Message2) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(wireMessage2{Openings: m.Openings, BucketMapping: m.BucketMapping})
}

// UnmarshalBinary decodes a Message2 produced by MarshalBinary.
func (m *Message2) UnmarshalBinary(b []byte) error {
	var w wireMessage2
	if err := cbor.Unmarshal(b, &w); err != nil {
		return err
	}
	m.Openings, m.BucketMapping = w.Openings, w.BucketMapping
	return nil
}

// Encryption is one bucket member's ElGamal ciphertext of its pad-mapped
// chain value under the bucket's anticipated key, plus the padded secret
// that the anticipated point's eventual preimage unmasks.
type Encryption struct {
	Point  *curve.Point
	Padded *curve.Scalar
}

// Message3 is Party A's response: the batched DLEQ proof over every
// bucket member, one ciphertext+padded-secret pair per member, and the
// decommitment openings for the challenged slots.
type Message3 struct {
	Proof       *dleq.Proof
	Encryptions []Encryption
	Openings    []*curve.Scalar
}

type wireMessage3 struct {
	Challenge   []byte
	Responses   [][]byte
	EncPoints   [][]byte
	EncPadded   [][]byte
	Openings    [][]byte
}

// MarshalBinary CBOR-encodes the message.
func (m *Message3) MarshalBinary() ([]byte, error) {
	var w wireMessage3
	var err error
	if w.Challenge, err = m.Proof.Challenge.MarshalBinary(); err != nil {
		return nil, err
	}
	w.Responses = make([][]byte, len(m.Proof.Responses))
	for i, r := range m.Proof.Responses {
		if w.Responses[i], err = r.MarshalBinary(); err != nil {
			return nil, err
		}
	}
	w.EncPoints = make([][]byte, len(m.Encryptions))
	w.EncPadded = make([][]byte, len(m.Encryptions))
	for i, e := range m.Encryptions {
		if w.EncPoints[i], err = e.Point.MarshalBinary(); err != nil {
			return nil, err
		}
		if w.EncPadded[i], err = e.Padded.MarshalBinary(); err != nil {
			return nil, err
		}
	}
	w.Openings = make([][]byte, len(m.Openings))
	for i, o := range m.Openings {
		if w.Openings[i], err = o.MarshalBinary(); err != nil {
			return nil, err
		}
	}
	return cbor.Marshal(w)
}

// UnmarshalBinary decodes a Message3 produced by MarshalBinary.
func (m *Message3) UnmarshalBinary(b []byte) error {
	var w wireMessage3
	if err := cbor.Unmarshal(b, &w); err != nil {
		return err
	}
	g := curve.Secp256k1{}

	challenge := g.NewScalar()
	if err := challenge.UnmarshalBinary(w.Challenge); err != nil {
		return err
	}
	responses := make([]*curve.Scalar, len(w.Responses))
	for i, rb := range w.Responses {
		responses[i] = g.NewScalar()
		if err := responses[i].UnmarshalBinary(rb); err != nil {
			return err
		}
	}
	m.Proof = &dleq.Proof{Challenge: challenge, Responses: responses}

	if len(w.EncPoints) != len(w.EncPadded) {
		return fmt.Errorf("protocol: mismatched encryption field lengths")
	}
	m.Encryptions = make([]Encryption, len(w.EncPoints))
	for i := range w.EncPoints {
		pt := g.NewPoint()
		if err := pt.UnmarshalBinary(w.EncPoints[i]); err != nil {
			return err
		}
		sc := g.NewScalar()
		if err := sc.UnmarshalBinary(w.EncPadded[i]); err != nil {
			return err
		}
		m.Encryptions[i] = Encryption{Point: pt, Padded: sc}
	}

	m.Openings = make([]*curve.Scalar, len(w.Openings))
	for i, ob := range w.Openings {
		m.Openings[i] = g.NewScalar()
		if err := m.Openings[i].UnmarshalBinary(ob); err != nil {
			return err
		}
	}
	return nil
}
