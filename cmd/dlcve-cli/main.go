package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/luxfi/dlcve/pkg/curve"
	"github.com/luxfi/dlcve/pkg/oracle"
	"github.com/luxfi/dlcve/pkg/params"
	"github.com/luxfi/dlcve/pkg/partyrand"
	"github.com/luxfi/dlcve/protocol"
)

var (
	security      int
	nOutcomes     int
	bucketSize    int
	closedProp    float64
	autoCalibrate bool
	attestOutcome int
	seedHex       string

	rootCmd = &cobra.Command{
		Use:   "dlcve-cli",
		Short: "CLI for the verifiable-encryption-to-anticipated-signature protocol",
		Long: `A CLI tool for running and benchmarking the cut-and-choose verifiable
encryption protocol against an oracle-anticipated signature.`,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run a full single-shot protocol exchange",
		RunE:  runSingleShot,
	}

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Benchmark protocol round generation",
		RunE:  runBench,
	}

	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Display calibrated parameters for a given security level and workload",
		RunE:  runInfo,
	}
)

func init() {
	rootCmd.PersistentFlags().IntVarP(&security, "security", "s", 30, "target statistical security level")
	rootCmd.PersistentFlags().IntVarP(&nOutcomes, "outcomes", "n", 1, "number of oracle outcomes")
	rootCmd.PersistentFlags().IntVarP(&bucketSize, "bucket-size", "b", 0, "bucket size (0 = auto-calibrate)")
	rootCmd.PersistentFlags().Float64VarP(&closedProp, "closed-proportion", "p", 0, "closed proportion (0 = auto-calibrate)")
	rootCmd.PersistentFlags().BoolVar(&autoCalibrate, "auto", true, "calibrate (bucket size, closed proportion) from security level")

	runCmd.Flags().IntVar(&attestOutcome, "attest", 0, "outcome index the oracle attests to")
	runCmd.Flags().StringVar(&seedHex, "seed", "", "seed string for reproducible randomness (empty = crypto/rand)")

	benchCmd.Flags().Int("iterations", 10, "number of iterations")

	rootCmd.AddCommand(runCmd, benchCmd, infoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildParams() (*params.Params, int) {
	B, p := bucketSize, closedProp
	if autoCalibrate && (B == 0 || p == 0) {
		B, p = params.Calibrate(security, nOutcomes)
	}
	elGamalBase := curve.ElGamalBase()
	return &params.Params{
		ElGamalBase:      elGamalBase,
		NOutcomes:        nOutcomes,
		BucketSize:       B,
		ClosedProportion: p,
	}, nOutcomes
}

func newStream(seed string) (*partyrand.Stream, error) {
	if seed == "" {
		return partyrand.FromCryptoRand()
	}
	return partyrand.FromSeed([]byte(seed)), nil
}

// partySeed derives a per-party sub-seed from --seed so Alice and Bob never
// draw from the same randomness stream. Empty seed passes through unchanged
// since newStream falls back to crypto/rand in that case anyway.
func partySeed(seed, party string) string {
	if seed == "" {
		return seed
	}
	return seed + "/" + party
}

func runSingleShot(cmd *cobra.Command, args []string) error {
	oracleSK := curve.Secp256k1{}.NewScalar().SetUint64(42)
	oracleNonce := curve.Secp256k1{}.NewScalar().SetUint64(84)
	o := oracle.New(oracleSK, oracleNonce)

	p, _ := buildParams()
	p.OracleKey = o.PublicKey()
	p.OracleNonce = o.PublicNonce()

	aliceStream, err := newStream(partySeed(seedHex, "alice"))
	if err != nil {
		return err
	}
	bobStream, err := newStream(partySeed(seedHex, "bob"))
	if err != nil {
		return err
	}

	secrets := make([]*curve.Scalar, nOutcomes)
	for i := range secrets {
		secrets[i] = o.Attest(uint32(i))
	}
	anticipation := &oracle.SingleShot{Params: p, Secrets: secrets}

	fmt.Println("alice round 1")
	alice, msg1 := protocol.NewAlice(p, anticipation.NumBuckets(), aliceStream)

	fmt.Println("bob round 2")
	bob, msg2, err := protocol.NewBob(msg1, p, anticipation.NumBuckets(), bobStream)
	if err != nil {
		return fmt.Errorf("bob init: %w", err)
	}

	fmt.Println("alice round 3")
	msg3, err := alice.Respond(msg2, anticipation, aliceStream)
	if err != nil {
		return fmt.Errorf("alice respond: %w", err)
	}

	fmt.Println("bob round 4")
	bob2, err := bob.Verify(msg3, anticipation)
	if err != nil {
		return fmt.Errorf("bob verify: %w", err)
	}

	attestation := o.Attest(uint32(attestOutcome))
	sig, err := bob2.RecoverBucket(attestOutcome, attestation)
	if err != nil {
		return fmt.Errorf("recover: %w", err)
	}

	sigBytes, err := sig.MarshalBinary()
	if err != nil {
		return err
	}
	fmt.Printf("recovered secret for outcome %d: %x\n", attestOutcome, sigBytes)
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	iterations, _ := cmd.Flags().GetInt("iterations")

	p, _ := buildParams()
	oracleSK := curve.Secp256k1{}.NewScalar().SetUint64(7)
	oracleNonce := curve.Secp256k1{}.NewScalar().SetUint64(11)
	o := oracle.New(oracleSK, oracleNonce)
	p.OracleKey = o.PublicKey()
	p.OracleNonce = o.PublicNonce()

	secrets := make([]*curve.Scalar, nOutcomes)
	for i := range secrets {
		secrets[i] = o.Attest(uint32(i))
	}
	anticipation := &oracle.SingleShot{Params: p, Secrets: secrets}

	fmt.Printf("bucket size %d, closed proportion %.3f, M=%d, NB=%d\n",
		p.BucketSize, p.ClosedProportion, p.M(anticipation.NumBuckets()), p.NB(anticipation.NumBuckets()))

	var totalInit, totalRespond time.Duration
	for i := 0; i < iterations; i++ {
		stream, err := partyrand.FromCryptoRand()
		if err != nil {
			return err
		}
		start := time.Now()
		alice, msg1 := protocol.NewAlice(p, anticipation.NumBuckets(), stream)
		totalInit += time.Since(start)

		bStream, err := partyrand.FromCryptoRand()
		if err != nil {
			return err
		}
		_, msg2, err := protocol.NewBob(msg1, p, anticipation.NumBuckets(), bStream)
		if err != nil {
			return err
		}

		start = time.Now()
		if _, err := alice.Respond(msg2, anticipation, stream); err != nil {
			return err
		}
		totalRespond += time.Since(start)
	}

	fmt.Printf("avg init: %v, avg respond: %v (over %d iterations)\n",
		totalInit/time.Duration(iterations), totalRespond/time.Duration(iterations), iterations)
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	B, p := params.Calibrate(security, nOutcomes)
	fmt.Printf("security level: %d\n", security)
	fmt.Printf("outcomes: %d\n", nOutcomes)
	fmt.Printf("calibrated bucket size: %d\n", B)
	fmt.Printf("calibrated closed proportion: %.3f\n", p)

	par := &params.Params{BucketSize: B, ClosedProportion: p, NOutcomes: nOutcomes}
	fmt.Printf("NB: %d\n", par.NB(nOutcomes))
	fmt.Printf("M: %d\n", par.M(nOutcomes))
	fmt.Printf("num openings: %d\n", par.NumOpenings(nOutcomes))
	return nil
}
