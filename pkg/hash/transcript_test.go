package hash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luxfi/dlcve/pkg/curve"
	"github.com/luxfi/dlcve/pkg/hash"
)

func TestChallengeIsDeterministic(t *testing.T) {
	g := curve.Secp256k1{}
	p := g.NewScalar().SetUint64(5).ActOnBase()

	t1 := hash.New("venc-dleqs")
	t1.WritePoint(p).WriteUint32(3)
	c1 := t1.Challenge()

	t2 := hash.New("venc-dleqs")
	t2.WritePoint(p).WriteUint32(3)
	c2 := t2.Challenge()

	assert.True(t, c1.Equal(c2))
}

func TestChallengeDependsOnLabel(t *testing.T) {
	g := curve.Secp256k1{}
	p := g.NewScalar().SetUint64(5).ActOnBase()

	t1 := hash.New("venc-dleqs")
	t1.WritePoint(p)
	c1 := t1.Challenge()

	t2 := hash.New("dlc-dleqs")
	t2.WritePoint(p)
	c2 := t2.Challenge()

	assert.False(t, c1.Equal(c2))
}

func TestChallengeDependsOnFieldOrder(t *testing.T) {
	g := curve.Secp256k1{}
	p := g.NewScalar().SetUint64(5).ActOnBase()
	q := g.NewScalar().SetUint64(9).ActOnBase()

	t1 := hash.New("venc-dleqs")
	t1.WritePoint(p).WritePoint(q)
	c1 := t1.Challenge()

	t2 := hash.New("venc-dleqs")
	t2.WritePoint(q).WritePoint(p)
	c2 := t2.Challenge()

	assert.False(t, c1.Equal(c2))
}
