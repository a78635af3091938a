// Package params implements the cut-and-choose workload parameters and
// the calibration search that picks a bucket size and closed proportion
// achieving a target statistical security level.
package params

import (
	"math"

	"github.com/luxfi/dlcve/pkg/curve"
)

// Params fully describes one run of the protocol: the oracle public
// material anticipated keys are derived from, and the cut-and-choose
// shape (bucket size, closed proportion) calibrated to a target security
// level.
type Params struct {
	OracleKey   *curve.Point
	OracleNonce *curve.Point
	ElGamalBase *curve.Point

	NOutcomes        int
	BucketSize       int
	ClosedProportion float64
}

// NB returns the number of closed (bucketed) slots for a variant with
// numBuckets buckets: bucket size times bucket count. numBuckets is
// supplied by the active Anticipation strategy, since the single-shot,
// threshold, and bitwise variants partition the outcome space into a
// different number of buckets.
func (p *Params) NB(numBuckets int) int {
	return p.BucketSize * numBuckets
}

// M returns the total number of pad slots Party A commits to for a
// variant with numBuckets buckets.
func (p *Params) M(numBuckets int) int {
	return int(math.Ceil(float64(p.NB(numBuckets)) / p.ClosedProportion))
}

// NumOpenings returns the number of slots Party B challenges open for a
// variant with numBuckets buckets.
func (p *Params) NumOpenings(numBuckets int) int {
	return p.M(numBuckets) - p.NB(numBuckets)
}

// AnticipateAt returns the anticipated key for outcome index (0-based):
// oracleKey + (index+1)*oracleNonce, the point whose discrete log the
// oracle will reveal via its attestation formula for that outcome.
func (p *Params) AnticipateAt(index uint32) *curve.Point {
	g := curve.Secp256k1{}
	scalar := g.NewScalar().SetUint64(uint64(index) + 1)
	return p.OracleKey.Add(scalar.Act(p.OracleNonce))
}

// IterAnticipations returns the anticipated key for every outcome, in
// outcome order.
func (p *Params) IterAnticipations() []*curve.Point {
	out := make([]*curve.Point, p.NOutcomes)
	for i := range out {
		out[i] = p.AnticipateAt(uint32(i))
	}
	return out
}

// Calibrate searches the feasible (bucket size, closed proportion) space
// for the configuration that minimizes ceil(B*N/p) while still achieving
// statistical security level s against a workload of N encryption slots
// (approximately n_encryptions * n_oracles, already adjusted by the
// caller for outcome-choice and bitwise attenuation). It returns the
// chosen bucket size and closed proportion; the caller installs these
// into Params.BucketSize / Params.ClosedProportion.
func Calibrate(s int, n int) (bucketSize int, closedProportion float64) {
	if n <= 1 {
		// A single slot can't be cut-and-choose diluted by closed-bucket
		// padding, so the entire security margin has to come from bucket
		// size: every opened copy must fail independently with
		// probability 1/2, so B == s.
		return s, 0.5
	}

	logN := math.Log2(float64(n))
	bestCost := math.Inf(1)
	bestB := 0
	bestP := 0.0

	for pInt := 500; pInt <= 998; pInt++ {
		p := float64(pInt) / 1000.0
		if float64(n) < 1/(1-p) {
			continue
		}
		denom := math.Log2(float64(n)*(1-p)) - math.Log2(p)/(1-p)
		if denom <= 0 {
			continue
		}
		bRaw := (float64(s) + logN - math.Log2(p)) / denom
		b := int(math.Ceil(bRaw))
		if b < 1 {
			b = 1
		}
		cost := math.Ceil(float64(b) * float64(n) / p)
		if cost < bestCost {
			bestCost = cost
			bestB = b
			bestP = p
		}
	}
	if bestB == 0 {
		// No candidate proportion satisfied the feasibility bound; fall
		// back to the most conservative proportion in the search range.
		bestB = s
		bestP = 0.998
	}
	return bestB, bestP
}
