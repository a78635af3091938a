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

// Scenario 4: n_outcomes=1024 (10 bits), n_oracles=2, threshold=2. Full
// attestation (both oracles, every bit) on outcome 517 reconstructs
// target_secret[517].
func TestScenarioBitwiseEndToEnd(t *testing.T) {
	nBits, nOracles, threshold := 10, 2, 2
	nOutcomes := 1 << nBits
	g := curve.Secp256k1{}

	oracles := make([]*oracle.Oracle, nOracles)
	oracleKeys := make([]*curve.Point, nOracles)
	oracleNonces := make([][]*curve.Point, nOracles)
	for i := 0; i < nOracles; i++ {
		nonces := make([]*curve.Scalar, nBits)
		for b := 0; b < nBits; b++ {
			nonces[b] = g.NewScalar().SetUint64(uint64(5000 + i*100 + b))
		}
		oracles[i] = oracle.NewBitOracle(g.NewScalar().SetUint64(uint64(4000+i)), nonces)
		oracleKeys[i] = oracles[i].PublicKey()
		oracleNonces[i] = oracles[i].PublicNonces()
	}

	secrets := make([]*curve.Scalar, nOutcomes)
	for i := range secrets {
		secrets[i] = g.NewScalar().SetUint64(uint64(70000 + i))
	}

	p := &params.Params{
		ElGamalBase:      curve.ElGamalBase(),
		NOutcomes:        nOutcomes,
		BucketSize:       3,
		ClosedProportion: 0.6,
	}

	polyStream := partyrand.FromSeed([]byte("bitwise-e2e-polys"))
	bw := oracle.NewBitwise(p, oracleKeys, oracleNonces, secrets, nBits, threshold, polyStream)

	aliceStream := partyrand.FromSeed([]byte("bitwise-e2e-alice"))
	bobStream := partyrand.FromSeed([]byte("bitwise-e2e-bob"))

	alice, msg1 := protocol.NewAlice(p, bw.NumBuckets(), aliceStream)
	bob, msg2, err := protocol.NewBob(msg1, p, bw.NumBuckets(), bobStream)
	require.NoError(t, err)

	msg3, err := alice.Respond(msg2, bw, aliceStream)
	require.NoError(t, err)

	bob2, err := bob.Verify(msg3, bw)
	require.NoError(t, err)

	outcome := 517

	shares := make(map[uint32]*curve.Scalar)
	for oi := 0; oi < nOracles; oi++ {
		oi := oi
		share, err := bw.ReconstructOracleShare(uint32(outcome), oi, func(bit, value, bucket int) (*curve.Scalar, error) {
			attestation := oracles[oi].AttestBit(bit, value)
			return bob2.RecoverBucket(bucket, attestation)
		})
		require.NoError(t, err)
		shares[uint32(oi+1)] = share
	}

	recon, err := oracle.ReconstructBitwise(shares, threshold)
	require.NoError(t, err)
	assert.True(t, recon.Equal(secrets[outcome]))
}
