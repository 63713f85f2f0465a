package hashing

import (
	"crypto/subtle"
	"hash"

	"github.com/go-logr/logr"
	"golang.org/x/crypto/pbkdf2"
)

// Pbkdf2Hasher hashes passwords with PBKDF2 (RFC 8018) and stores them as
//
//	<iterations>::<base64 salt>::<base64 derived key>
//
// The iteration count, salt and key travel with the hash, so a hash remains
// verifiable after the hasher's defaults change. The key length is inferred
// from the stored key. The PRF digest is not stored and must match the
// hasher's [Config.Digest].
//
// # Thread safety
//
// Pbkdf2Hasher is immutable after construction and safe for concurrent use.
// Make, Check and NeedsRehash are CPU-bound and cost grows linearly with the
// iteration count; callers that need to bound latency should run them on a
// worker pool of their own.
type Pbkdf2Hasher struct {
	cfg     Config
	newHash func() hash.Hash
	log     logr.Logger
}

// NewPbkdf2Hasher constructs a Pbkdf2Hasher. Use [DefaultConfig] for the
// recommended settings or [LegacyConfig] to verify hashes written by the
// Gponster PHP package.
//
// Returns [ErrInvalidOption] if any default or minimum is below 1, or
// [ErrUnknownDigest] for an unsupported digest.
func NewPbkdf2Hasher(cfg Config) (*Pbkdf2Hasher, error) {
	cfg = cfg.withDefaults()
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	newHash, err := cfg.Digest.HashFunc()
	if err != nil {
		return nil, err
	}
	return &Pbkdf2Hasher{
		cfg:     cfg,
		newHash: newHash,
		log:     cfg.Logger.WithName("pbkdf2").WithValues("digest", cfg.Digest.String()),
	}, nil
}

// Driver returns [DriverPbkdf2].
func (h *Pbkdf2Hasher) Driver() DriverName { return DriverPbkdf2 }

// Config returns the hasher's configuration with optional fields filled in.
func (h *Pbkdf2Hasher) Config() Config { return h.cfg }

// Make hashes password and returns the encoded string. Parameters come from
// opts merged over the configured defaults and are clamped to the configured
// minimums. An empty password is valid input.
//
// The only error is [ErrRandomSource].
func (h *Pbkdf2Hasher) Make(password string, opts Options) (string, error) {
	p := h.Resolve(opts)
	salt, err := h.GenerateSalt(p.SaltLen)
	if err != nil {
		return "", err
	}
	key := h.DeriveKey(password, salt, p.Iterations, p.KeyLen)
	return encodeHash(p.Iterations, salt, key), nil
}

// Check reports whether password matches hashedValue. A malformed hash
// yields false, exactly like a wrong password. opts is accepted for parity
// with the Laravel contract and is not used: every parameter needed for
// verification is read from the hash itself.
func (h *Pbkdf2Hasher) Check(password, hashedValue string, _ Options) bool {
	parsed, err := decodeHash(hashedValue)
	if err != nil {
		h.log.V(1).Info("rejecting malformed hash", "op", "check", "reason", err.Error())
		return false
	}
	computed := h.DeriveKey(password, parsed.salt, parsed.iterations, len(parsed.key))
	return subtle.ConstantTimeCompare(computed, parsed.key) == 1
}

// NeedsRehash reports whether hashedValue should be regenerated.
//
// It returns true when the hash is malformed, when its iteration count is
// below the configured minimum (or an explicit "iterations" option), and,
// if [Config.RehashOnLengthDrift] is set, when its salt or key is shorter
// than the configured minimums (or explicit "salt_len"/"key_len" options).
func (h *Pbkdf2Hasher) NeedsRehash(hashedValue string, opts Options) bool {
	parsed, err := decodeHash(hashedValue)
	if err != nil {
		h.log.V(1).Info("malformed hash needs rehash", "op", "needs_rehash", "reason", err.Error())
		return true
	}
	t := h.rehashThresholds(opts)
	if parsed.iterations < t.Iterations {
		return true
	}
	if h.cfg.RehashOnLengthDrift {
		return len(parsed.salt) < t.SaltLen || len(parsed.key) < t.KeyLen
	}
	return false
}

// Info parses hashedValue and returns its parameters.
//
// Returned [HashInfo].Params:
//   - "iterations" → int
//   - "salt_len"   → int
//   - "key_len"    → int
func (h *Pbkdf2Hasher) Info(hashedValue string) (HashInfo, error) {
	parsed, err := decodeHash(hashedValue)
	if err != nil {
		return HashInfo{}, err
	}
	return HashInfo{
		Driver: DriverPbkdf2,
		Params: map[string]any{
			OptIterations: parsed.iterations,
			OptSaltLen:    len(parsed.salt),
			OptKeyLen:     len(parsed.key),
		},
	}, nil
}

// DeriveKey runs PBKDF2 with the hasher's digest. The result depends only on
// its arguments and the digest.
func (h *Pbkdf2Hasher) DeriveKey(password string, salt []byte, iterations, keyLen int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, keyLen, h.newHash)
}
