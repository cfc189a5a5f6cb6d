package config

import (
	"testing"

	"github.com/vybium/stark-fri-core/internal/starkfri/hashing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestValidateRejectsNonPowerOfTwoExtensionFactor(t *testing.T) {
	c := Default().WithExtensionFactor(3)
	if err := c.Validate(); err == nil {
		t.Error("expected an error for an extension factor of 3")
	}
}

func TestValidateRejectsNonPositiveQueries(t *testing.T) {
	c := Default().WithNumQueries(0)
	if err := c.Validate(); err == nil {
		t.Error("expected an error for zero queries")
	}
}

func TestValidateRejectsUnknownHashBackend(t *testing.T) {
	c := Default().WithHashBackend(hashing.Backend("md5"))
	if err := c.Validate(); err == nil {
		t.Error("expected an error for an unsupported hash backend")
	}
}

func TestValidateRejectsDomainSmallerThanRemainder(t *testing.T) {
	c := Default().WithTraceLength(16).WithExtensionFactor(2).WithMaxRemainderSize(256)
	if err := c.Validate(); err == nil {
		t.Error("expected an error when the evaluation domain is smaller than the remainder bound")
	}
}

func TestWithersAreChainableAndCloneIsIndependent(t *testing.T) {
	base := Default()
	derived := base.Clone().WithNumQueries(40).WithDebug(true)

	if base.NumQueries == derived.NumQueries {
		t.Error("Clone should produce an independent config")
	}
	if !derived.Debug {
		t.Error("WithDebug(true) did not take effect")
	}
	if err := derived.Validate(); err != nil {
		t.Errorf("derived config should remain valid: %v", err)
	}
}
