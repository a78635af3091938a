package padmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/dlcve/pkg/curve"
	"github.com/luxfi/dlcve/pkg/padmap"
	"github.com/luxfi/dlcve/pkg/partyrand"
)

func TestToGToZqInverts(t *testing.T) {
	stream := partyrand.FromSeed([]byte("padmap-test-seed"))
	g := curve.Secp256k1{}
	r := g.NewScalar().SetUint64(424242)

	point, pad := padmap.ToG(r, stream)
	recovered, err := padmap.ToZq(point, pad)
	require.NoError(t, err)
	assert.True(t, recovered.Equal(r))
}

func TestToGProducesDistinctPointsEachCall(t *testing.T) {
	stream := partyrand.FromSeed([]byte("padmap-test-seed-2"))
	g := curve.Secp256k1{}
	r := g.NewScalar().SetUint64(1)

	p1, _ := padmap.ToG(r, stream)
	p2, _ := padmap.ToG(r, stream)
	assert.False(t, p1.Equal(p2))
}

func TestToZqWithWrongPadFailsToRecoverOriginal(t *testing.T) {
	stream := partyrand.FromSeed([]byte("padmap-test-seed-3"))
	g := curve.Secp256k1{}
	r := g.NewScalar().SetUint64(77)

	point, pad := padmap.ToG(r, stream)
	pad[0] ^= 0xFF

	recovered, err := padmap.ToZq(point, pad)
	require.NoError(t, err)
	assert.False(t, recovered.Equal(r))
}
