package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/dlcve/pkg/curve"
	"github.com/luxfi/dlcve/pkg/oracle"
	"github.com/luxfi/dlcve/pkg/params"
	"github.com/luxfi/dlcve/pkg/partyrand"
	"github.com/luxfi/dlcve/protocol"
)

func newTestOracle(skSeed, nonceSeed uint64) *oracle.Oracle {
	g := curve.Secp256k1{}
	return oracle.New(g.NewScalar().SetUint64(skSeed), g.NewScalar().SetUint64(nonceSeed))
}

// runSingleShot drives a full four-message exchange for the single-shot
// variant and returns the verified Bob2 state plus the oracle used, for
// the caller to attest against.
func runSingleShot(t *testing.T, nOutcomes, bucketSize int, closedProportion float64) (*protocol.Bob2, *oracle.Oracle, *params.Params, []*curve.Scalar) {
	t.Helper()
	o := newTestOracle(42, 84)
	p := &params.Params{
		OracleKey: o.PublicKey(), OracleNonce: o.PublicNonce(),
		ElGamalBase: curve.ElGamalBase(),
		NOutcomes:   nOutcomes, BucketSize: bucketSize, ClosedProportion: closedProportion,
	}

	secrets := make([]*curve.Scalar, nOutcomes)
	for i := range secrets {
		secrets[i] = o.Attest(uint32(i))
	}
	anticipation := &oracle.SingleShot{Params: p, Secrets: secrets}

	aliceStream := partyrand.FromSeed([]byte("alice-seed"))
	bobStream := partyrand.FromSeed([]byte("bob-seed"))

	alice, msg1 := protocol.NewAlice(p, anticipation.NumBuckets(), aliceStream)
	bob, msg2, err := protocol.NewBob(msg1, p, anticipation.NumBuckets(), bobStream)
	require.NoError(t, err)

	msg3, err := alice.Respond(msg2, anticipation, aliceStream)
	require.NoError(t, err)

	bob2, err := bob.Verify(msg3, anticipation)
	require.NoError(t, err)

	return bob2, o, p, secrets
}

// Scenario 1: single verifiable encryption, s=30, n_encryptions=1.
func TestScenarioSingleEncryption(t *testing.T) {
	B, p := params.Calibrate(30, 1)
	assert.Equal(t, 0.5, p)
	bob2, o, _, secrets := runSingleShot(t, 1, B, p)

	attestation := o.Attest(0)
	recovered, err := bob2.RecoverBucket(0, attestation)
	require.NoError(t, err)
	assert.True(t, recovered.Equal(secrets[0]))
}

// Scenario 2: n_encryptions=16, every bucket decrypts exactly its target.
func TestScenarioMultipleOutcomes(t *testing.T) {
	n := 16
	B, p := params.Calibrate(30, n)
	bob2, o, _, secrets := runSingleShot(t, n, B, p)

	for i := 0; i < n; i++ {
		attestation := o.Attest(uint32(i))
		recovered, err := bob2.RecoverBucket(i, attestation)
		require.NoError(t, err)
		assert.True(t, recovered.Equal(secrets[i]))
	}
}

// Scenario 5: adversarial opening — an out-of-range bucket mapping entry
// makes Respond return the out-of-range error.
func TestScenarioAdversarialBucketMapping(t *testing.T) {
	o := newTestOracle(1, 2)
	p := &params.Params{
		OracleKey: o.PublicKey(), OracleNonce: o.PublicNonce(),
		ElGamalBase: curve.ElGamalBase(),
		NOutcomes:   2, BucketSize: 2, ClosedProportion: 0.5,
	}
	secrets := []*curve.Scalar{o.Attest(0), o.Attest(1)}
	anticipation := &oracle.SingleShot{Params: p, Secrets: secrets}

	aliceStream := partyrand.FromSeed([]byte("adversarial-alice"))
	bobStream := partyrand.FromSeed([]byte("adversarial-bob"))

	alice, msg1 := protocol.NewAlice(p, anticipation.NumBuckets(), aliceStream)
	_, msg2, err := protocol.NewBob(msg1, p, anticipation.NumBuckets(), bobStream)
	require.NoError(t, err)

	nb := p.NB(anticipation.NumBuckets())
	msg2.BucketMapping[0] = uint32(nb)

	_, err = alice.Respond(msg2, anticipation, aliceStream)
	assert.ErrorIs(t, err, protocol.ErrBucketOutOfRange)
}

// Scenario 6: malicious ciphertext — overwriting the first padded value
// after Respond makes Bob's Verify reject.
func TestScenarioTamperedPaddedValue(t *testing.T) {
	o := newTestOracle(3, 4)
	p := &params.Params{
		OracleKey: o.PublicKey(), OracleNonce: o.PublicNonce(),
		ElGamalBase: curve.ElGamalBase(),
		NOutcomes:   2, BucketSize: 2, ClosedProportion: 0.5,
	}
	secrets := []*curve.Scalar{o.Attest(0), o.Attest(1)}
	anticipation := &oracle.SingleShot{Params: p, Secrets: secrets}

	aliceStream := partyrand.FromSeed([]byte("tamper-alice"))
	bobStream := partyrand.FromSeed([]byte("tamper-bob"))

	alice, msg1 := protocol.NewAlice(p, anticipation.NumBuckets(), aliceStream)
	bob, msg2, err := protocol.NewBob(msg1, p, anticipation.NumBuckets(), bobStream)
	require.NoError(t, err)

	msg3, err := alice.Respond(msg2, anticipation, aliceStream)
	require.NoError(t, err)

	msg3.Encryptions[0].Padded = msg3.Encryptions[0].Padded.Add(curve.Secp256k1{}.NewScalar().SetUint64(1))

	_, err = bob.Verify(msg3, anticipation)
	assert.ErrorIs(t, err, protocol.ErrConsistency)
}

// Negative property: tampering with a commitment after Message1 makes
// Message3 verification fail.
func TestTamperedCommitmentFailsVerification(t *testing.T) {
	o := newTestOracle(5, 6)
	p := &params.Params{
		OracleKey: o.PublicKey(), OracleNonce: o.PublicNonce(),
		ElGamalBase: curve.ElGamalBase(),
		NOutcomes:   2, BucketSize: 2, ClosedProportion: 0.5,
	}
	secrets := []*curve.Scalar{o.Attest(0), o.Attest(1)}
	anticipation := &oracle.SingleShot{Params: p, Secrets: secrets}

	aliceStream := partyrand.FromSeed([]byte("tamper-commit-alice"))
	bobStream := partyrand.FromSeed([]byte("tamper-commit-bob"))

	alice, msg1 := protocol.NewAlice(p, anticipation.NumBuckets(), aliceStream)
	// Tamper with commitment 0 in the message Bob receives. If Bob opens
	// index 0, its decommitment check fails; otherwise the commitment lands
	// in a bucket and breaks that bucket's DLEQ statement.
	msg1.Commits[0].C0 = msg1.Commits[0].C0.Add(curve.Secp256k1{}.Generator())

	bob, msg2, err := protocol.NewBob(msg1, p, anticipation.NumBuckets(), bobStream)
	require.NoError(t, err)

	msg3, err := alice.Respond(msg2, anticipation, aliceStream)
	// Alice responds from her own copy of the commitments, so the
	// corrupted commitment surfaces in Bob's Verify.
	if err == nil {
		_, err = bob.Verify(msg3, anticipation)
	}
	assert.Error(t, err)
}

// Threshold scenario 3: n_oracles=5, threshold=3; reconstruction from the
// shares of 3 oracles (taken directly from MaskFor) succeeds, from 2 fails.
func TestThresholdReconstructionScenario(t *testing.T) {
	nOracles, threshold := 5, 3
	g := curve.Secp256k1{}
	target := g.NewScalar().SetUint64(555)

	oracles := make([]*oracle.Oracle, nOracles)
	oracleKeys := make([]*curve.Point, nOracles)
	oracleNonces := make([]*curve.Point, nOracles)
	for i := 0; i < nOracles; i++ {
		oracles[i] = newTestOracle(uint64(100+i), uint64(200+i))
		oracleKeys[i] = oracles[i].PublicKey()
		oracleNonces[i] = oracles[i].PublicNonce()
	}

	stream := partyrand.FromSeed([]byte("threshold-scenario"))
	th := oracle.NewThreshold(&params.Params{}, oracleKeys, oracleNonces, []*curve.Scalar{target}, threshold, stream)

	shares := make(map[uint32]*curve.Scalar)
	for oi := 0; oi < 3; oi++ {
		shares[uint32(oi+1)] = th.MaskFor(oi)
	}
	recon, err := oracle.ReconstructThreshold(shares, threshold)
	require.NoError(t, err)
	assert.True(t, recon.Equal(target))

	partial := map[uint32]*curve.Scalar{1: shares[1], 2: shares[2]}
	_, err = oracle.ReconstructThreshold(partial, threshold)
	assert.Error(t, err)
}
