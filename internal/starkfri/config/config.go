// Package config defines the security-parameter bundle shared by the
// combinator, FRI, and outer-STARK layers: WithX setters returning
// *Config, a Validate rejecting inconsistent parameters, and a
// Default entry point.
package config

import (
	"math/big"

	"github.com/vybium/stark-fri-core/internal/starkfri/errors"
	"github.com/vybium/stark-fri-core/internal/starkfri/field"
	"github.com/vybium/stark-fri-core/internal/starkfri/hashing"
)

// Config bundles every security-relevant knob a Prove/Verify call needs.
type Config struct {
	// FieldModulus defines the prime field all arithmetic runs over.
	FieldModulus *big.Int

	// TraceLength is the number of steps in the computation trace.
	TraceLength int

	// ExtensionFactor is the blow-up between TraceLength and the low-degree
	// evaluation domain; the evaluation domain has size
	// TraceLength * ExtensionFactor. Validate requires a power of two
	// greater than 1, so the domain size is a power of two but not
	// necessarily a power of four (the default 1024 * 8 = 8192 is not).
	ExtensionFactor int

	// NumQueries is the number of independent FRI query positions drawn
	// from the Fiat-Shamir transcript.
	NumQueries int

	// MaxRemainderSize is the codeword length at or below which the FRI prover
	// stops folding and sends the remainder directly instead of committing
	// another layer.
	MaxRemainderSize int

	// HashBackend selects the digest function used by every Merkle
	// commitment and Fiat-Shamir draw in the proof.
	HashBackend hashing.Backend

	// Debug is set by WithDebug and copied by Clone, but no prover or
	// verifier code reads it: setting it enables no extra check, and the
	// prover never re-verifies its own FRI remainder.
	Debug bool
}

// Default returns the configuration used by the Fibonacci demo scenario:
// a 2^32 - 3*2^25 + 1 field with 2-adicity 25, extension factor 8, and a
// 256-element remainder bound.
func Default() *Config {
	return &Config{
		FieldModulus:     big.NewInt(4194304001),
		TraceLength:      1024,
		ExtensionFactor:  8,
		NumQueries:       24,
		MaxRemainderSize: 256,
		HashBackend:      hashing.Blake2s256,
		Debug:            false,
	}
}

// Validate rejects any configuration the core could not soundly prove or
// verify against. An ExtensionFactor of 3 is rejected here because it is
// not a power of two; GetRootOfUnity and fri.Commit both reject domain
// sizes that are not powers of two.
func (c *Config) Validate() error {
	if c.FieldModulus == nil || c.FieldModulus.Cmp(big.NewInt(2)) <= 0 {
		return errors.New(errors.Configuration, "field modulus must be greater than 2")
	}
	if c.TraceLength <= 0 {
		return errors.New(errors.Configuration, "trace length must be positive")
	}
	if !field.IsPowerOfTwo(c.TraceLength) {
		return errors.Newf(errors.Configuration, "trace length must be a power of two, got %d", c.TraceLength)
	}
	if c.ExtensionFactor <= 1 || !field.IsPowerOfTwo(c.ExtensionFactor) {
		return errors.Newf(errors.Configuration, "extension factor must be a power of two greater than 1, got %d", c.ExtensionFactor)
	}
	if c.NumQueries <= 0 {
		return errors.New(errors.Configuration, "number of queries must be positive")
	}
	if c.MaxRemainderSize <= 0 || !field.IsPowerOfTwo(c.MaxRemainderSize) {
		return errors.Newf(errors.Configuration, "max remainder size must be a power of two, got %d", c.MaxRemainderSize)
	}
	if c.HashBackend != hashing.SHA256 && c.HashBackend != hashing.Blake2s256 {
		return errors.Newf(errors.Configuration, "hash backend must be %q or %q, got %q", hashing.SHA256, hashing.Blake2s256, c.HashBackend)
	}
	domainSize := c.TraceLength * c.ExtensionFactor
	if domainSize < c.MaxRemainderSize {
		return errors.Newf(errors.Configuration, "evaluation domain size (%d) must be at least the max remainder size (%d)", domainSize, c.MaxRemainderSize)
	}
	return nil
}

// EvaluationDomainSize returns TraceLength * ExtensionFactor.
func (c *Config) EvaluationDomainSize() int { return c.TraceLength * c.ExtensionFactor }

// WithFieldModulus sets the field modulus.
func (c *Config) WithFieldModulus(modulus *big.Int) *Config {
	c.FieldModulus = new(big.Int).Set(modulus)
	return c
}

// WithTraceLength sets the trace length.
func (c *Config) WithTraceLength(length int) *Config {
	c.TraceLength = length
	return c
}

// WithExtensionFactor sets the blow-up factor between the trace and the
// low-degree evaluation domain.
func (c *Config) WithExtensionFactor(factor int) *Config {
	c.ExtensionFactor = factor
	return c
}

// WithNumQueries sets the number of FRI query positions.
func (c *Config) WithNumQueries(n int) *Config {
	c.NumQueries = n
	return c
}

// WithMaxRemainderSize sets the fold-termination threshold.
func (c *Config) WithMaxRemainderSize(size int) *Config {
	c.MaxRemainderSize = size
	return c
}

// WithHashBackend sets the digest function.
func (c *Config) WithHashBackend(backend hashing.Backend) *Config {
	c.HashBackend = backend
	return c
}

// WithDebug sets the Debug flag, which no prover or verifier code reads.
func (c *Config) WithDebug(debug bool) *Config {
	c.Debug = debug
	return c
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	return &Config{
		FieldModulus:     new(big.Int).Set(c.FieldModulus),
		TraceLength:      c.TraceLength,
		ExtensionFactor:  c.ExtensionFactor,
		NumQueries:       c.NumQueries,
		MaxRemainderSize: c.MaxRemainderSize,
		HashBackend:      c.HashBackend,
		Debug:            c.Debug,
	}
}
