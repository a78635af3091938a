package protocol

import (
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/dlcve/pkg/curve"
	"github.com/luxfi/dlcve/pkg/dleq"
	"github.com/luxfi/dlcve/pkg/oracle"
	"github.com/luxfi/dlcve/pkg/padmap"
	"github.com/luxfi/dlcve/pkg/params"
	"github.com/luxfi/dlcve/pkg/partyrand"
)

// domainVEnc labels the single-shot variant's DLEQ transcript; domainDLC
// labels the transcripts of the threshold and bitwise variants (see
// TranscriptLabel).
const (
	domainVEnc = "venc-dleqs"
	domainDLC  = "dlc-dleqs"
)

type secretSlot struct {
	ri, riPrime *curve.Scalar
	riMapped    *curve.Point
}

// Alice1 is Party A after generating its first-round commitments. It owns
// the M pad secrets until Respond consumes it.
type Alice1 struct {
	params  *params.Params
	secrets []secretSlot
	commits []Commit
}

// NewAlice runs A.init: samples M pad secrets and commits to each,
// returning the party's round-1 state and the message it sends to B.
func NewAlice(p *params.Params, numBuckets int, stream *partyrand.Stream) (*Alice1, *Message1) {
	m := p.M(numBuckets)
	secrets := make([]secretSlot, m)
	commits := make([]Commit, m)

	for i := 0; i < m; i++ {
		ri := stream.Scalar()
		riMapped, pad := padmap.ToG(ri, stream)
		riPrime := stream.Scalar()

		c0 := riPrime.ActOnBase()
		c1 := riPrime.Act(p.ElGamalBase).Add(riMapped)
		r := ri.ActOnBase()

		secrets[i] = secretSlot{ri: ri, riPrime: riPrime, riMapped: riMapped}
		commits[i] = Commit{C0: c0, C1: c1, R: r, Pad: pad}
	}

	a := &Alice1{params: p, secrets: secrets, commits: commits}
	msg := &Message1{Commits: append([]Commit(nil), commits...)}
	return a, msg
}

// Respond runs A.respond: it validates Message2, partitions the M slots
// into opened and bucketed pools, ElGamal-encrypts each bucketed pad
// under its bucket's anticipated key alongside a batched DLEQ proof, and
// emits Message3. Consuming Respond invalidates a; the Go type system
// cannot enforce move-out-of-self, so callers must discard a after this
// call returns.
func (a *Alice1) Respond(msg2 *Message2, anticipation oracle.Anticipation, stream *partyrand.Stream) (*Message3, error) {
	numBuckets := anticipation.NumBuckets()
	nb := a.params.NB(numBuckets)
	numOpenings := a.params.NumOpenings(numBuckets)

	if len(msg2.Openings) != numOpenings {
		return nil, ErrWrongOpeningCount
	}
	for _, idx := range msg2.BucketMapping {
		if int(idx) >= nb {
			return nil, ErrBucketOutOfRange
		}
	}
	if err := checkPermutation(msg2.BucketMapping, nb); err != nil {
		return nil, err
	}

	opened := make(map[uint32]bool, len(msg2.Openings))
	for _, idx := range msg2.Openings {
		opened[idx] = true
	}

	openings := make([]*curve.Scalar, 0, numOpenings)
	closedCommits := make([]Commit, 0, nb)
	closedSecrets := make([]secretSlot, 0, nb)
	for i := 0; i < len(a.commits); i++ {
		if opened[uint32(i)] {
			openings = append(openings, a.secrets[i].riPrime)
			continue
		}
		closedCommits = append(closedCommits, a.commits[i])
		closedSecrets = append(closedSecrets, a.secrets[i])
	}
	if len(closedCommits) != nb {
		return nil, ErrWrongOpeningCount
	}

	bucketCommits := make([]Commit, nb)
	bucketSecrets := make([]secretSlot, nb)
	for slot, from := range msg2.BucketMapping {
		if int(from) >= len(closedCommits) {
			return nil, ErrBucketOutOfRange
		}
		bucketCommits[slot] = closedCommits[from]
		bucketSecrets[slot] = closedSecrets[from]
	}

	bucketSize := a.params.BucketSize
	statements := make([]dleq.Statement, nb)
	witnesses := make([]*curve.Scalar, nb)
	encryptions := make([]Encryption, nb)

	g := errgroup.Group{}
	for bucket := 0; bucket < numBuckets; bucket++ {
		bucket := bucket
		K := anticipation.EncryptionKey(bucket)
		y := anticipation.MaskFor(bucket)
		g.Go(func() error {
			for j := 0; j < bucketSize; j++ {
				idx := bucket*bucketSize + j
				slot := bucketSecrets[idx]
				commit := bucketCommits[idx]

				riEncryption := slot.riPrime.Act(K).Add(slot.riMapped)
				padded := slot.ri.Add(y)

				encSub := riEncryption.Sub(commit.C1)
				sigSub := K.Sub(a.params.ElGamalBase)

				statements[idx] = dleq.Statement{
					G1: curve.Secp256k1{}.Generator(), P1: commit.C0,
					G2: sigSub, P2: encSub,
				}
				witnesses[idx] = slot.riPrime
				encryptions[idx] = Encryption{Point: riEncryption, Padded: padded}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	proof, err := dleq.Prove(TranscriptLabel(anticipation), statements, witnesses, stream)
	if err != nil {
		return nil, err
	}

	return &Message3{Proof: proof, Encryptions: encryptions, Openings: openings}, nil
}

// TranscriptLabel selects the domain-separation tag for the batched DLEQ
// transcript: the single-shot verifiable-encryption variant gets its own
// label, distinct from the one shared by both signer-anticipated variants
// (threshold and bitwise), so a proof produced for one can never be
// replayed as valid for another per spec.md §6's "MUST NOT reuse tags
// across variants".
func TranscriptLabel(a oracle.Anticipation) string {
	switch a.(type) {
	case *oracle.Threshold, *oracle.Bitwise:
		return domainDLC
	default:
		return domainVEnc
	}
}

func checkPermutation(mapping []uint32, n int) error {
	if len(mapping) != n {
		return ErrNotAPermutation
	}
	seen := make([]bool, n)
	for _, v := range mapping {
		if int(v) >= n || seen[v] {
			return ErrNotAPermutation
		}
		seen[v] = true
	}
	return nil
}
