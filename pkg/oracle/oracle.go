// Package oracle models the external signer whose future attestation
// discloses the discrete log of an anticipated key, and the three
// Anticipation strategies (single-shot, threshold, bitwise) that map an
// outcome space onto the buckets Party A encrypts to.
package oracle

import (
	"github.com/luxfi/dlcve/pkg/curve"
	"github.com/luxfi/dlcve/pkg/params"
	"github.com/luxfi/dlcve/pkg/partyrand"
	"github.com/luxfi/dlcve/pkg/polynomial"
)

// Oracle holds a signing key and one or more nonces and computes
// attestation scalars. It is the reference implementation of the
// "external collaborator" signer the protocol treats as an oracle. A
// single-nonce Oracle (New) serves the single-shot and threshold
// variants, which reuse one nonce across outcomes by varying the
// attestation coefficient; the bitwise variant needs a distinct nonce
// per bit position (NewBitOracle), since each bit position is attested
// independently of the others.
type Oracle struct {
	sk        *curve.Scalar
	nonces    []*curve.Scalar
	pk        *curve.Point
	pubNonces []*curve.Point
}

// New constructs a single-nonce Oracle from a signing key and nonce
// scalar, for the single-shot and threshold variants.
func New(sk, nonce *curve.Scalar) *Oracle {
	return NewBitOracle(sk, []*curve.Scalar{nonce})
}

// NewBitOracle constructs an Oracle with one nonce per bit position, for
// the bitwise (numeric decomposition) variant.
func NewBitOracle(sk *curve.Scalar, nonces []*curve.Scalar) *Oracle {
	pubNonces := make([]*curve.Point, len(nonces))
	for i, n := range nonces {
		pubNonces[i] = n.ActOnBase()
	}
	return &Oracle{sk: sk, nonces: nonces, pk: sk.ActOnBase(), pubNonces: pubNonces}
}

// PublicKey returns the oracle's public key sk*g.
func (o *Oracle) PublicKey() *curve.Point { return o.pk }

// PublicNonce returns the oracle's single public nonce commitment
// nonce*g, for the single-shot and threshold variants.
func (o *Oracle) PublicNonce() *curve.Point { return o.pubNonces[0] }

// PublicNonces returns the oracle's full sequence of public nonce
// commitments, one per bit position, for the bitwise variant.
func (o *Oracle) PublicNonces() []*curve.Point { return o.pubNonces }

// Attest computes the attestation scalar for outcome index: the unique
// scalar sigma such that sigma*g = pk + (index+1)*nonce*g.
func (o *Oracle) Attest(index uint32) *curve.Scalar {
	return o.attestWith(o.nonces[0], index)
}

// AttestBit computes the attestation scalar for bit position bit taking
// value v: the unique scalar sigma such that sigma*g = pk + (v+1)*nonce_bit*g.
func (o *Oracle) AttestBit(bit int, v int) *curve.Scalar {
	return o.attestWith(o.nonces[bit], uint32(v))
}

func (o *Oracle) attestWith(nonce *curve.Scalar, index uint32) *curve.Scalar {
	g := curve.Secp256k1{}
	coeff := g.NewScalar().SetUint64(uint64(index) + 1)
	return nonce.Mul(coeff).Add(o.sk)
}

// Anticipation supplies, for every bucket the cut-and-choose core
// encrypts to, the public key the bucket's ciphertext is ElGamal-encrypted
// under (EncryptionKey), the public image the masked plaintext must
// equal once unmasked (ExpectedImage, checked at Bob.Verify time before
// any secret is known), and the plaintext value Party A masks into that
// bucket (MaskFor). For the single-shot variant these two points
// coincide, since the masked value is by construction the discrete log
// of the anticipated key itself; the threshold and bitwise variants
// diverge, masking Shamir shares (or additive mask shares) whose public
// image is instead a point-lifted polynomial evaluation, transmitted
// alongside Message3 in a full deployment (here modeled as already-known
// public data on the shared Anticipation value, per spec.md §3's
// "optional polys" field).
type Anticipation interface {
	// NumBuckets returns how many buckets this variant partitions the
	// closed pool into.
	NumBuckets() int
	// EncryptionKey returns the public anticipated key bucket i's
	// ciphertext is ElGamal-encrypted under.
	EncryptionKey(i int) *curve.Point
	// ExpectedImage returns the public point bucket i's unmasked
	// plaintext must equal the discrete log of, checked before any
	// secret is known.
	ExpectedImage(i int) *curve.Point
	// MaskFor returns the secret value Party A masks under bucket i's
	// encryption key.
	MaskFor(i int) *curve.Scalar
}

// SingleShot anticipates one key per outcome and masks outcome i's own
// target secret, the direct generalization of the original scheme where
// Party A's "target secret" for a bucket is Bob's ultimate payout. The
// target secret is, by construction, the discrete log of the anticipated
// key: EncryptionKey and ExpectedImage coincide.
type SingleShot struct {
	Params  *params.Params
	Secrets []*curve.Scalar // len NOutcomes
}

func (s *SingleShot) NumBuckets() int { return s.Params.NOutcomes }

func (s *SingleShot) EncryptionKey(i int) *curve.Point { return s.Params.AnticipateAt(uint32(i)) }

func (s *SingleShot) ExpectedImage(i int) *curve.Point { return s.EncryptionKey(i) }

func (s *SingleShot) MaskFor(i int) *curve.Scalar { return s.Secrets[i] }

// Threshold anticipates one key per (outcome, oracle) pair and masks each
// with a Shamir share of the outcome's target secret, reconstructable from
// any t of the n shares via Lagrange interpolation at 0. Each oracle
// reuses its single nonce across outcomes, attesting outcome i with
// coefficient i+1 exactly as the single-shot variant does; the bucket's
// ExpectedImage is the point-lifted share polynomial evaluated at the
// oracle's index, a public commitment independent of any oracle
// attestation, so Bob can check it before any oracle has spoken.
type Threshold struct {
	Params       *params.Params
	OracleKeys   []*curve.Point // len NOracles, per-oracle public keys
	OracleNonces []*curve.Point
	Secrets      []*curve.Scalar // len NOutcomes, the target secret per outcome
	T            int             // reconstruction threshold
	polys        []*polynomial.ScalarPoly
	pointPolys   []*polynomial.PointPoly
}

// NewThreshold builds sharing polynomials for every outcome, one random
// degree-(t-1) polynomial per outcome whose constant term is its target
// secret, plus each polynomial's point-lifted counterpart for the public
// consistency check.
func NewThreshold(p *params.Params, oracleKeys, oracleNonces []*curve.Point, secrets []*curve.Scalar, t int, stream *partyrand.Stream) *Threshold {
	polys := make([]*polynomial.ScalarPoly, len(secrets))
	pointPolys := make([]*polynomial.PointPoly, len(secrets))
	for i, secret := range secrets {
		poly := polynomial.RandomScalarPoly(t-1, stream)
		poly.PushFront(secret)
		polys[i] = poly
		pointPolys[i] = poly.ToPointPoly()
	}
	return &Threshold{
		Params: p, OracleKeys: oracleKeys, OracleNonces: oracleNonces,
		Secrets: secrets, T: t, polys: polys, pointPolys: pointPolys,
	}
}

func (th *Threshold) NumBuckets() int { return th.Params.NOutcomes * len(th.OracleKeys) }

// bucketCoords splits a flat bucket index into its (outcome, oracle)
// coordinates, outcome-major: the oracles of one outcome occupy
// consecutive indices.
func (th *Threshold) bucketCoords(i int) (outcome, oracleIdx int) {
	nOracles := len(th.OracleKeys)
	return i / nOracles, i % nOracles
}

// BucketIndex is the inverse of bucketCoords, letting a caller holding a
// recovered (outcome, oracle) attestation address the right bucket.
func (th *Threshold) BucketIndex(outcome, oracleIdx int) int {
	return outcome*len(th.OracleKeys) + oracleIdx
}

// EncryptionKey returns the oracle's own per-outcome anticipated key:
// pk_oracle + (outcome+1)*nonce_oracle, exactly the point whose discrete
// log the oracle's Attest(outcome) discloses.
func (th *Threshold) EncryptionKey(i int) *curve.Point {
	outcome, oracleIdx := th.bucketCoords(i)
	g := curve.Secp256k1{}
	coeff := g.NewScalar().SetUint64(uint64(outcome) + 1)
	return th.OracleKeys[oracleIdx].Add(coeff.Act(th.OracleNonces[oracleIdx]))
}

// ExpectedImage returns the outcome's point-lifted share polynomial
// evaluated at the oracle's 1-based index: the public image of the
// Shamir share masked into this bucket, independent of EncryptionKey.
func (th *Threshold) ExpectedImage(i int) *curve.Point {
	outcome, oracleIdx := th.bucketCoords(i)
	return th.pointPolys[outcome].Eval(uint32(oracleIdx + 1))
}

func (th *Threshold) MaskFor(i int) *curve.Scalar {
	outcome, oracleIdx := th.bucketCoords(i)
	return th.polys[outcome].Eval(uint32(oracleIdx + 1))
}

// ReconstructThreshold recombines >=t (oracleIndex+1, share) pairs into
// the outcome's target secret via Lagrange interpolation at 0.
func ReconstructThreshold(shares map[uint32]*curve.Scalar, t int) (*curve.Scalar, error) {
	if len(shares) < t {
		return nil, errInsufficientShares
	}
	ids := make([]uint32, 0, len(shares))
	for id := range shares {
		ids = append(ids, id)
	}
	coeffs := polynomial.Lagrange(ids)
	g := curve.Secp256k1{}
	sum := g.NewScalar().SetUint64(0)
	for i, id := range ids {
		sum = sum.Add(coeffs[i].Mul(shares[id]))
	}
	return sum, nil
}

// Bitwise anticipates one key per (bit position, bit value, oracle)
// triple and masks each with an independent random mask (not itself tied
// to any outcome's target secret). Per spec.md §4.6, once an oracle's
// masks are recovered for every bit of an outcome's bit pattern, their
// sum gives that oracle's "pad," which combines with a separately
// published per-(outcome, oracle) pad-table entry to yield that oracle's
// Shamir share of the outcome's actual target secret (shared the same
// way Threshold shares it: one degree-(t-1) polynomial per outcome).
type Bitwise struct {
	Params       *params.Params
	OracleKeys   []*curve.Point
	OracleNonces [][]*curve.Point // OracleNonces[oracleIdx][bit]
	Secrets      []*curve.Scalar  // len NOutcomes
	NBits        int
	T            int

	masks       [][2][]*curve.Scalar // masks[bit][value][oracleIdx], independently random
	maskImages  [][2][]*curve.Point  // point-lifted masks, public
	secretPolys []*polynomial.ScalarPoly // secretPolys[outcome], constant term = Secrets[outcome]
	padTable    map[int]map[int]*curve.Scalar // padTable[outcome][oracleIdx+1]
}

// NewBitwise draws, for every (bit position, bit value, oracle) triple,
// an independent random mask (the value actually ElGamal-encrypted into
// that bucket) and its point-lifted image (public, since nothing beyond
// that one oracle ever needs to recombine it). Separately it builds a
// per-outcome degree-(t-1) polynomial whose constant term is that
// outcome's target secret (exactly as in Threshold). The pad-table entry
// for (outcome, oracle) is the oracle's secret share of that polynomial
// minus the sum of its per-bit masks along the outcome's bit pattern, so
// that once an oracle's bit attestations disclose those masks, adding the
// pad-table entry back recovers the oracle's Shamir share of the secret.
func NewBitwise(p *params.Params, oracleKeys []*curve.Point, oracleNonces [][]*curve.Point, secrets []*curve.Scalar, nBits, t int, stream *partyrand.Stream) *Bitwise {
	nOracles := len(oracleKeys)
	bw := &Bitwise{
		Params: p, OracleKeys: oracleKeys, OracleNonces: oracleNonces,
		Secrets: secrets, NBits: nBits, T: t,
	}

	bw.masks = make([][2][]*curve.Scalar, nBits)
	bw.maskImages = make([][2][]*curve.Point, nBits)
	for bit := 0; bit < nBits; bit++ {
		for v := 0; v < 2; v++ {
			maskRow := stream.Scalars(nOracles)
			imgRow := make([]*curve.Point, nOracles)
			for oi, m := range maskRow {
				imgRow[oi] = m.ActOnBase()
			}
			bw.masks[bit][v] = maskRow
			bw.maskImages[bit][v] = imgRow
		}
	}

	bw.secretPolys = make([]*polynomial.ScalarPoly, len(secrets))
	for i, secret := range secrets {
		poly := polynomial.RandomScalarPoly(t-1, stream)
		poly.PushFront(secret)
		bw.secretPolys[i] = poly
	}

	g := curve.Secp256k1{}
	bw.padTable = make(map[int]map[int]*curve.Scalar, len(secrets))
	for outcome := range secrets {
		bits := ToBits(uint32(outcome), nBits)
		row := make(map[int]*curve.Scalar, nOracles)
		for oi := 0; oi < nOracles; oi++ {
			oracleID := oi + 1
			share := bw.secretPolys[outcome].Eval(uint32(oracleID))
			maskSum := g.NewScalar().SetUint64(0)
			for bit, v := range bits {
				maskSum = maskSum.Add(bw.masks[bit][v][oi])
			}
			row[oracleID] = share.Sub(maskSum)
		}
		bw.padTable[outcome] = row
	}
	return bw
}

// NumBuckets returns nBits * 2 * nOracles: one bucket per (bit, value,
// oracle) triple.
func (bw *Bitwise) NumBuckets() int { return bw.NBits * 2 * len(bw.OracleKeys) }

func (bw *Bitwise) coords(i int) (bit, value, oracleIdx int) {
	nOracles := len(bw.OracleKeys)
	oracleIdx = i % nOracles
	rest := i / nOracles
	value = rest % 2
	bit = rest / 2
	return
}

// BucketIndex is the inverse of coords.
func (bw *Bitwise) BucketIndex(bit, value, oracleIdx int) int {
	return (bit*2+value)*len(bw.OracleKeys) + oracleIdx
}

// EncryptionKey returns pk_oracle + (value+1)*nonce_{oracle,bit}, the
// point whose discrete log the oracle's AttestBit(bit, value) discloses.
func (bw *Bitwise) EncryptionKey(i int) *curve.Point {
	bit, value, oracleIdx := bw.coords(i)
	g := curve.Secp256k1{}
	coeff := g.NewScalar().SetUint64(uint64(value) + 1)
	return bw.OracleKeys[oracleIdx].Add(coeff.Act(bw.OracleNonces[oracleIdx][bit]))
}

// ExpectedImage returns the (bit, value, oracle) mask's public point-lifted
// image, known in advance since only the mask's corresponding oracle ever
// needs to recover the mask itself.
func (bw *Bitwise) ExpectedImage(i int) *curve.Point {
	bit, value, oracleIdx := bw.coords(i)
	return bw.maskImages[bit][value][oracleIdx]
}

func (bw *Bitwise) MaskFor(i int) *curve.Scalar {
	bit, value, oracleIdx := bw.coords(i)
	return bw.masks[bit][value][oracleIdx]
}

// PadTable returns the published (outcome, oracle) pad-table entry: the
// oracle's share of the outcome's target secret minus the sum of its
// per-bit masks along the outcome's bit pattern. This is ordinary data,
// not a secret by itself (it reveals nothing without the mask sum, which
// only the corresponding oracle's bit attestations disclose), and in a
// full deployment would ride alongside Message3 per spec.md §3's
// "oracle-specific pads for threshold/bitwise variants" field.
func (bw *Bitwise) PadTable(outcome, oracleIdx int) *curve.Scalar {
	return bw.padTable[outcome][oracleIdx+1]
}

// ToBits decomposes outcome into nBits little-endian bits (bit 0 first).
// This is the single source of truth for bit ordering: NewBitwise consumes
// it to build the pad table, and ReconstructOracleShare below consumes the
// same function to recover against it, so the two ends of the protocol
// cannot independently drift onto different bit-order conventions.
func ToBits(outcome uint32, nBits int) []int {
	bits := make([]int, nBits)
	for i := 0; i < nBits; i++ {
		bits[i] = int((outcome >> uint(i)) & 1)
	}
	return bits
}

// ReconstructOracleShare recovers oracle oracleIdx's Shamir share of
// outcome's target secret. It walks outcome's bit pattern via the same
// ToBits helper NewBitwise used to build the pad table, calling recoverMask
// once per bit position with that bit's value and bucket index so the
// caller only has to turn a bucket index into a recovered mask (typically
// via Bob2.RecoverBucket against the oracle's AttestBit(bit, value)) — the
// bit-order convention itself is not something the caller can get wrong,
// since it never threads its own bit loop through the reconstruction.
func (bw *Bitwise) ReconstructOracleShare(outcome uint32, oracleIdx int, recoverMask func(bit, value, bucket int) (*curve.Scalar, error)) (*curve.Scalar, error) {
	bits := ToBits(outcome, bw.NBits)
	g := curve.Secp256k1{}
	sum := g.NewScalar().SetUint64(0)
	for bit, value := range bits {
		bucket := bw.BucketIndex(bit, value, oracleIdx)
		mask, err := recoverMask(bit, value, bucket)
		if err != nil {
			return nil, err
		}
		sum = sum.Add(mask)
	}
	return sum.Add(bw.PadTable(int(outcome), oracleIdx)), nil
}

// ReconstructBitwise Lagrange-reconstructs the target secret from >=t
// per-oracle shares, each produced by Bitwise.ReconstructOracleShare.
func ReconstructBitwise(shares map[uint32]*curve.Scalar, t int) (*curve.Scalar, error) {
	return ReconstructThreshold(shares, t)
}

var errInsufficientShares = insufficientSharesError{}

type insufficientSharesError struct{}

func (insufficientSharesError) Error() string {
	return "oracle: insufficient shares for threshold reconstruction"
}
