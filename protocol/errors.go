package protocol

import "errors"

var (
	// ErrWrongCommitCount is returned when Message1 does not carry exactly
	// params.M() commitments.
	ErrWrongCommitCount = errors.New("protocol: wrong number of commitments")

	// ErrWrongOpeningCount is returned when Message2 does not request
	// exactly params.NumOpenings() openings.
	ErrWrongOpeningCount = errors.New("protocol: wrong number of openings")

	// ErrBucketOutOfRange is returned when a bucket mapping entry falls
	// outside 0..NB.
	ErrBucketOutOfRange = errors.New("protocol: bucket mapping index out of range")

	// ErrNotAPermutation is returned when a bucket mapping is not a
	// bijection over 0..NB.
	ErrNotAPermutation = errors.New("protocol: bucket mapping is not a permutation")

	// ErrDecommitment is returned when an opened pad's chain scalar does
	// not reproduce the committed chain point, or the commitment's R
	// component does not match.
	ErrDecommitment = errors.New("protocol: decommitment check failed")

	// ErrEncryptedZero is returned when an opened slot's decommitment yields
	// the group identity as its pad-mapped point, which map_G_to_Zq cannot
	// invert. RecoverBucket skips a bucket member whose decryption yields
	// the identity instead of returning this error.
	ErrEncryptedZero = errors.New("protocol: pad-mapped point was the identity")

	// ErrConsistency is returned when a padded-secret check against its
	// anticipated point fails during Bob's verification of Message3.
	ErrConsistency = errors.New("protocol: padded value inconsistent with anticipated point")

	// ErrInsufficientShares describes too few attestations for Lagrange
	// reconstruction. No function in this package returns it;
	// oracle.ReconstructThreshold reports that case with its own error.
	ErrInsufficientShares = errors.New("protocol: insufficient attestations for threshold reconstruction")

	// ErrRecoveryExhausted is returned when no bucket member's ciphertext
	// recovers a secret consistent with its anticipated point.
	ErrRecoveryExhausted = errors.New("protocol: no ciphertext in bucket recovered a consistent secret")

	// ErrAttestationMismatch is returned when a supplied oracle attestation
	// does not match the anticipated point for its index.
	ErrAttestationMismatch = errors.New("protocol: attestation does not match anticipated point")
)
