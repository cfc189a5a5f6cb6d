// Command starkfri-demo runs two end-to-end scenarios against package
// starkfri's Prove/Verify surface: a Fibonacci-recurrence trace (the
// scenario used throughout the test suite, here run at full scale) and an
// elliptic-curve double-and-add scalar multiplication, printing each
// proof's size and verification result.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/big"

	"github.com/vybium/stark-fri-core/internal/starkfri/air"
	"github.com/vybium/stark-fri-core/internal/starkfri/field"
	"github.com/vybium/stark-fri-core/internal/starkfri/hashing"
	"github.com/vybium/stark-fri-core/pkg/starkfri"
)

// fibonacciModulus is p = 2^32 - 3*2^25 + 1, a 2-adicity-25 prime shared by
// both scenarios below.
const fibonacciModulus = 4194304001

func main() {
	steps := flag.Int("steps", 8192, "fibonacci trace length, must be a power of two")
	extension := flag.Int("extension", 8, "low-degree-extension blow-up factor")
	queries := flag.Int("queries", 24, "number of fiat-shamir query positions")
	remainder := flag.Int("remainder", 256, "fri fold-termination remainder size")
	hashName := flag.String("hash", "blake2s256", "digest backend: sha256 or blake2s256")
	pointMulBits := flag.Int("pointmul-bits", 256, "scalar bit-length for the elliptic-curve scenario")
	scalar := flag.String("scalar", "904625697166532776746648320380374280100293470930272690489102837043110636675", "scalar multiplied into the elliptic-curve scenario's base point, decimal")
	flag.Parse()

	backend := hashing.Blake2s256
	switch *hashName {
	case "blake2s256":
	case "sha256":
		backend = hashing.SHA256
	default:
		log.Fatalf("unknown hash backend %q, want sha256 or blake2s256", *hashName)
	}

	fmt.Println("=== fibonacci scenario ===")
	if err := runFibonacci(*steps, *extension, *queries, *remainder, backend); err != nil {
		log.Fatalf("fibonacci scenario failed: %v", err)
	}

	fmt.Println()
	fmt.Println("=== elliptic-curve point-multiplication scenario ===")
	if err := runPointMul(*pointMulBits, *extension, *queries, *remainder, backend, *scalar); err != nil {
		log.Fatalf("point-multiplication scenario failed: %v", err)
	}
}

func runFibonacci(steps, extension, queries, remainder int, backend hashing.Backend) error {
	f, err := field.NewFromUint64(fibonacciModulus)
	if err != nil {
		return err
	}
	a := air.NewFibonacci2AIR(steps, f.One(), f.One())

	cfg := starkfri.DefaultConfig().
		WithFieldModulus(big.NewInt(fibonacciModulus)).
		WithTraceLength(steps).
		WithExtensionFactor(extension).
		WithNumQueries(queries).
		WithMaxRemainderSize(remainder).
		WithHashBackend(backend)

	proof, err := starkfri.Prove(cfg, a)
	if err != nil {
		return fmt.Errorf("prove: %w", err)
	}
	encoded := starkfri.Encode(proof)
	fmt.Printf("proof size: %d bytes (%d steps, claimed degree %d)\n", len(encoded), steps, proof.ClaimedDegree)

	ok, err := starkfri.Verify(cfg, a, proof)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	fmt.Printf("verified: %t\n", ok)
	return nil
}

func runPointMul(bits, extension, queries, remainder int, backend hashing.Backend, scalarDecimal string) error {
	scalar, ok := new(big.Int).SetString(scalarDecimal, 10)
	if !ok {
		return fmt.Errorf("scalar %q is not a valid decimal integer", scalarDecimal)
	}

	f, err := field.NewFromUint64(fibonacciModulus)
	if err != nil {
		return err
	}
	curveA := f.NewElementFromInt64(2)
	baseX := f.NewElementFromInt64(5)
	baseY := f.NewElementFromInt64(17)

	scalarBits := make([]int, bits)
	for i := range scalarBits {
		scalarBits[i] = int(scalar.Bit(i))
	}
	a := air.NewPointMulAIR(curveA, baseX, baseY, scalarBits)

	cfg := starkfri.DefaultConfig().
		WithFieldModulus(big.NewInt(fibonacciModulus)).
		WithTraceLength(a.TraceLength()).
		WithExtensionFactor(extension).
		WithNumQueries(queries).
		WithMaxRemainderSize(remainder).
		WithHashBackend(backend)

	proof, err := starkfri.Prove(cfg, a)
	if err != nil {
		return fmt.Errorf("prove: %w", err)
	}
	encoded := starkfri.Encode(proof)
	fmt.Printf("proof size: %d bytes (%d steps, claimed degree %d)\n", len(encoded), a.TraceLength(), proof.ClaimedDegree)

	ok2, err := starkfri.Verify(cfg, a, proof)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	fmt.Printf("verified: %t\n", ok2)
	return nil
}
