package starkfri

import (
	"github.com/vybium/stark-fri-core/internal/starkfri/config"
	"github.com/vybium/stark-fri-core/internal/starkfri/hashing"
)

// Config is the public security-options surface, re-exported from the
// internal config package so callers never import internal/.
type Config = config.Config

// DefaultConfig returns the default security options.
func DefaultConfig() *Config { return config.Default() }

// Hash backend identifiers accepted by Config.WithHashBackend.
const (
	SHA256     = hashing.SHA256
	Blake2s256 = hashing.Blake2s256
)
