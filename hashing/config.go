package hashing

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/go-logr/logr"
)

const (
	// DefaultIterations is the PBKDF2 round count used when a caller does not
	// supply one.
	DefaultIterations = 10000

	// DefaultSaltLen is the random salt length in bytes used when a caller
	// does not supply one.
	DefaultSaltLen = 32

	// DefaultKeyLen is the derived key length in bytes used when a caller
	// does not supply one.
	DefaultKeyLen = 32

	// MinIterations is the floor applied to every resolved round count.
	// Stored hashes below it are reported by NeedsRehash.
	MinIterations = 10000

	// MinSaltLen is the floor applied to every resolved salt length.
	MinSaltLen = 32

	// MinKeyLen is the floor applied to every resolved key length.
	MinKeyLen = 32
)

// Config configures a [Pbkdf2Hasher].
//
// Defaults and minimums are independent: raising a minimum later does not
// silently change the default, and a default below its minimum is clamped
// up at resolution time. Each hasher holds its own copy, so differently
// configured hashers can coexist during a migration between parameter sets.
type Config struct {
	// Iterations is the default PBKDF2 round count.
	Iterations int
	// SaltLen is the default salt length in bytes.
	SaltLen int
	// KeyLen is the default derived key length in bytes.
	KeyLen int

	// MinIterations is the lowest round count Make will use and the
	// threshold below which NeedsRehash reports true.
	MinIterations int
	// MinSaltLen is the lowest salt length Make will use.
	MinSaltLen int
	// MinKeyLen is the lowest derived key length Make will use.
	MinKeyLen int

	// Digest is the PBKDF2 pseudo-random function. Default: [DigestSHA256].
	Digest Digest

	// RehashOnLengthDrift makes NeedsRehash also report hashes whose stored
	// salt or key is shorter than the current minimums. When false only the
	// iteration count is compared, as the Gponster PHP package does.
	RehashOnLengthDrift bool

	// Rand is the source of salt bytes. Nil means crypto/rand.Reader.
	// It must be a cryptographically secure generator.
	Rand io.Reader

	// Logger receives diagnostics about malformed stored hashes at V(1).
	// Passwords and hash contents are never logged. The zero value discards.
	Logger logr.Logger
}

// DefaultConfig returns the recommended configuration: the documented
// defaults and minimums, SHA-256 as the PRF and length drift detection on.
func DefaultConfig() Config {
	return Config{
		Iterations:          DefaultIterations,
		SaltLen:             DefaultSaltLen,
		KeyLen:              DefaultKeyLen,
		MinIterations:       MinIterations,
		MinSaltLen:          MinSaltLen,
		MinKeyLen:           MinKeyLen,
		Digest:              DigestSHA256,
		RehashOnLengthDrift: true,
	}
}

// LegacyConfig returns a configuration compatible with hashes produced by the
// Gponster PHP package: SHA-1 as the PRF and iteration-only rehash
// detection. Use it to verify existing hashes, not to create new ones.
func LegacyConfig() Config {
	cfg := DefaultConfig()
	cfg.Digest = DigestSHA1
	cfg.RehashOnLengthDrift = false
	return cfg
}

func validateConfig(cfg Config) error {
	fields := []struct {
		name  string
		value int
	}{
		{"iterations", cfg.Iterations},
		{"salt_len", cfg.SaltLen},
		{"key_len", cfg.KeyLen},
		{"min_iterations", cfg.MinIterations},
		{"min_salt_len", cfg.MinSaltLen},
		{"min_key_len", cfg.MinKeyLen},
	}
	for _, f := range fields {
		if f.value < 1 {
			return fmt.Errorf("%w: pbkdf2 %s must be ≥ 1, got %d", ErrInvalidOption, f.name, f.value)
		}
	}
	if _, err := cfg.Digest.HashFunc(); err != nil {
		return err
	}
	return nil
}

// withDefaults fills the optional fields of cfg.
func (cfg Config) withDefaults() Config {
	if cfg.Digest == "" {
		cfg.Digest = DigestSHA256
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.Reader
	}
	if cfg.Logger.GetSink() == nil {
		cfg.Logger = logr.Discard()
	}
	return cfg
}
