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

// Scenario 3: n_oracles=5, threshold=3, n_outcomes=8. Attesting outcomes
// {0, 3, 7} with exactly 3 oracles each reconstructs the corresponding
// target secret; withholding one attestation (only 2 oracles) fails.
func TestScenarioThresholdEndToEnd(t *testing.T) {
	nOracles, threshold, nOutcomes := 5, 3, 8
	g := curve.Secp256k1{}

	oracles := make([]*oracle.Oracle, nOracles)
	oracleKeys := make([]*curve.Point, nOracles)
	oracleNonces := make([]*curve.Point, nOracles)
	for i := 0; i < nOracles; i++ {
		oracles[i] = oracle.New(g.NewScalar().SetUint64(uint64(1000+i)), g.NewScalar().SetUint64(uint64(2000+i)))
		oracleKeys[i] = oracles[i].PublicKey()
		oracleNonces[i] = oracles[i].PublicNonce()
	}

	secrets := make([]*curve.Scalar, nOutcomes)
	for i := range secrets {
		secrets[i] = g.NewScalar().SetUint64(uint64(9000 + i))
	}

	p := &params.Params{
		ElGamalBase:      curve.ElGamalBase(),
		NOutcomes:        nOutcomes,
		BucketSize:       3,
		ClosedProportion: 0.6,
	}

	polyStream := partyrand.FromSeed([]byte("threshold-e2e-polys"))
	th := oracle.NewThreshold(p, oracleKeys, oracleNonces, secrets, threshold, polyStream)

	aliceStream := partyrand.FromSeed([]byte("threshold-e2e-alice"))
	bobStream := partyrand.FromSeed([]byte("threshold-e2e-bob"))

	alice, msg1 := protocol.NewAlice(p, th.NumBuckets(), aliceStream)
	bob, msg2, err := protocol.NewBob(msg1, p, th.NumBuckets(), bobStream)
	require.NoError(t, err)

	msg3, err := alice.Respond(msg2, th, aliceStream)
	require.NoError(t, err)

	bob2, err := bob.Verify(msg3, th)
	require.NoError(t, err)

	for _, outcome := range []int{0, 3, 7} {
		shares := make(map[uint32]*curve.Scalar)
		for oi := 0; oi < threshold; oi++ {
			attestation := oracles[oi].Attest(uint32(outcome))
			bucket := th.BucketIndex(outcome, oi)
			recovered, err := bob2.RecoverBucket(bucket, attestation)
			require.NoError(t, err)
			shares[uint32(oi+1)] = recovered
		}
		recon, err := oracle.ReconstructThreshold(shares, threshold)
		require.NoError(t, err)
		assert.True(t, recon.Equal(secrets[outcome]), "outcome %d", outcome)
	}

	// Only threshold-1 attesting oracles must fail to reconstruct.
	outcome := 0
	shares := make(map[uint32]*curve.Scalar)
	for oi := 0; oi < threshold-1; oi++ {
		attestation := oracles[oi].Attest(uint32(outcome))
		bucket := th.BucketIndex(outcome, oi)
		recovered, err := bob2.RecoverBucket(bucket, attestation)
		require.NoError(t, err)
		shares[uint32(oi+1)] = recovered
	}
	_, err = oracle.ReconstructThreshold(shares, threshold)
	assert.Error(t, err)
}
