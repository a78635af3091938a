package protocol

import (
	"math/rand"

	"github.com/luxfi/dlcve/pkg/curve"
	"github.com/luxfi/dlcve/pkg/dleq"
	"github.com/luxfi/dlcve/pkg/oracle"
	"github.com/luxfi/dlcve/pkg/padmap"
	"github.com/luxfi/dlcve/pkg/params"
	"github.com/luxfi/dlcve/pkg/partyrand"
)

// Bob1 is Party B after receiving Message1 and choosing its challenge.
type Bob1 struct {
	params  *params.Params
	commits []Commit
	msg2    *Message2
}

// NewBob runs B.init: validates Message1's commitment count, samples a
// random opening subset and a random bucket permutation, and emits
// Message2.
func NewBob(msg1 *Message1, p *params.Params, numBuckets int, stream *partyrand.Stream) (*Bob1, *Message2, error) {
	m := p.M(numBuckets)
	if len(msg1.Commits) != m {
		return nil, nil, ErrWrongCommitCount
	}
	nb := p.NB(numBuckets)
	numOpenings := p.NumOpenings(numBuckets)

	rng := deterministicShuffleSource(stream)

	indices := rng.Perm(m)
	openings := make([]uint32, numOpenings)
	for i := 0; i < numOpenings; i++ {
		openings[i] = uint32(indices[i])
	}

	mapping := rng.Perm(nb)
	bucketMapping := make([]uint32, nb)
	for i, v := range mapping {
		bucketMapping[i] = uint32(v)
	}

	msg2 := &Message2{Openings: openings, BucketMapping: bucketMapping}
	b := &Bob1{params: p, commits: append([]Commit(nil), msg1.Commits...), msg2: msg2}
	return b, msg2, nil
}

// deterministicShuffleSource builds a math/rand source from the party's
// own reproducible randomness stream, so the random opening subset and
// bucket permutation are themselves reproducible for seeded test vectors
// while still being unpredictable to Party A ahead of time.
func deterministicShuffleSource(stream *partyrand.Stream) *rand.Rand {
	var seed [8]byte
	stream.Bytes(seed[:])
	var s int64
	for i, b := range seed {
		s |= int64(b) << (8 * i)
	}
	if s < 0 {
		s = -s
	}
	return rand.New(rand.NewSource(s))
}

// bucketEntry is one bucket member after Bob applies the bucket mapping:
// the commitment it came from and the ciphertext Alice supplied for it.
type bucketEntry struct {
	commit Commit
	enc    Encryption
}

// Bob2 is Party B after verifying Message3: it holds, per bucket, the
// verified ciphertexts and the bucket's anticipated key, ready for
// post-attestation recovery.
type Bob2 struct {
	params     *params.Params
	buckets    [][]bucketEntry
	anticipate oracle.Anticipation
}

// Verify runs B's round-4 processing of Message3: checks every opened
// decommitment, verifies the batched DLEQ proof over every bucket member,
// and retains the resulting ciphertexts for later decryption. Consuming
// Verify invalidates b.
func (b *Bob1) Verify(msg3 *Message3, anticipation oracle.Anticipation) (*Bob2, error) {
	numBuckets := anticipation.NumBuckets()
	nb := b.params.NB(numBuckets)

	if len(msg3.Openings) != len(b.msg2.Openings) {
		return nil, ErrWrongOpeningCount
	}

	opened := make(map[uint32]bool, len(b.msg2.Openings))
	for _, idx := range b.msg2.Openings {
		opened[idx] = true
	}

	closedCommits := make([]Commit, 0, nb)
	openIdx := 0
	for i, commit := range b.commits {
		if opened[uint32(i)] {
			riPrime := msg3.Openings[openIdx]
			openIdx++
			if err := verifyDecommitment(commit, riPrime, b.params.ElGamalBase); err != nil {
				return nil, err
			}
			continue
		}
		closedCommits = append(closedCommits, commit)
	}
	if len(closedCommits) != nb {
		return nil, ErrWrongOpeningCount
	}
	if len(msg3.Encryptions) != nb {
		return nil, ErrWrongOpeningCount
	}

	if err := checkPermutation(b.msg2.BucketMapping, nb); err != nil {
		return nil, err
	}

	bucketCommits := make([]Commit, nb)
	bucketEncs := make([]Encryption, nb)
	for slot, from := range b.msg2.BucketMapping {
		bucketCommits[slot] = closedCommits[from]
		bucketEncs[slot] = msg3.Encryptions[slot]
	}

	bucketSize := b.params.BucketSize
	statements := make([]dleq.Statement, nb)
	for idx := 0; idx < nb; idx++ {
		bucket := idx / bucketSize
		K := anticipation.EncryptionKey(bucket)
		Y := anticipation.ExpectedImage(bucket)
		commit := bucketCommits[idx]
		enc := bucketEncs[idx]

		// Y + R == padded*g: the padded value is consistent with this
		// bucket's expected public image even before its discrete log is
		// known (Y coincides with K for the single-shot variant, and is a
		// separate point-lifted polynomial evaluation for threshold/bitwise).
		if !Y.Add(commit.R).Equal(enc.Padded.ActOnBase()) {
			return nil, ErrConsistency
		}

		encSub := enc.Point.Sub(commit.C1)
		sigSub := K.Sub(b.params.ElGamalBase)
		statements[idx] = dleq.Statement{
			G1: curve.Secp256k1{}.Generator(), P1: commit.C0,
			G2: sigSub, P2: encSub,
		}
	}
	if err := dleq.Verify(TranscriptLabel(anticipation), statements, msg3.Proof); err != nil {
		return nil, err
	}

	buckets := make([][]bucketEntry, numBuckets)
	for bucket := 0; bucket < numBuckets; bucket++ {
		entries := make([]bucketEntry, bucketSize)
		for j := 0; j < bucketSize; j++ {
			idx := bucket*bucketSize + j
			entries[j] = bucketEntry{commit: bucketCommits[idx], enc: bucketEncs[idx]}
		}
		buckets[bucket] = entries
	}

	return &Bob2{params: b.params, buckets: buckets, anticipate: anticipation}, nil
}

func verifyDecommitment(commit Commit, riPrime *curve.Scalar, elGamalBase *curve.Point) error {
	if !riPrime.ActOnBase().Equal(commit.C0) {
		return ErrDecommitment
	}
	riMapped := commit.C1.Sub(riPrime.Act(elGamalBase))
	if riMapped.IsIdentity() {
		return ErrEncryptedZero
	}
	ri, err := padmap.ToZq(riMapped, commit.Pad)
	if err != nil {
		return err
	}
	if !ri.ActOnBase().Equal(commit.R) {
		return ErrDecommitment
	}
	return nil
}

// NumBuckets returns the number of buckets b2 holds ciphertexts for.
func (b2 *Bob2) NumBuckets() int { return len(b2.buckets) }

// RecoverBucket attempts to decrypt bucket's ciphertexts against
// attestation (the revealed discrete log of the bucket's anticipated
// key), returning the unmasked value padded - r_i of the first member
// whose result y satisfies y*g == the bucket's ExpectedImage. Only one
// honest member per bucket is required.
func (b2 *Bob2) RecoverBucket(bucket int, attestation *curve.Scalar) (*curve.Scalar, error) {
	K := b2.anticipate.EncryptionKey(bucket)
	if !attestation.ActOnBase().Equal(K) {
		return nil, ErrAttestationMismatch
	}
	expected := b2.anticipate.ExpectedImage(bucket)
	for _, entry := range b2.buckets[bucket] {
		riMapped := entry.enc.Point.Sub(attestation.Act(entry.commit.C0))
		if riMapped.IsIdentity() {
			continue
		}
		ri, err := padmap.ToZq(riMapped, entry.commit.Pad)
		if err != nil {
			continue
		}
		y := entry.enc.Padded.Sub(ri)
		if y.ActOnBase().Equal(expected) {
			return y, nil
		}
	}
	return nil, ErrRecoveryExhausted
}
