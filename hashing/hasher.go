package hashing

import "strings"

// DriverName identifies a hashing driver.
// Using a named string type prevents accidental confusion with plain strings.
type DriverName string

const (
	// DriverPbkdf2 selects the PBKDF2 driver built from [DefaultConfig].
	DriverPbkdf2 DriverName = "pbkdf2"
	// DriverPbkdf2Legacy selects the PBKDF2 driver built from [LegacyConfig],
	// which verifies hashes written by the Gponster PHP package (SHA-1 PRF).
	DriverPbkdf2Legacy DriverName = "pbkdf2-legacy"
)

// Options carries per-call parameter overrides, mirroring the loosely typed
// option arrays accepted by Laravel hashers.
//
// Recognised keys:
//
//	"iterations"              → PBKDF2 rounds
//	"salt_len" / "saltLength" → salt length in bytes
//	"key_len"  / "keyLength"  → derived key length in bytes
//
// Values may be any integer type, a float, or a numeric string. Unrecognised
// keys are ignored, and missing or non-positive values fall back to the
// hasher's configured defaults. A nil Options is valid.
type Options map[string]any

// Hasher is the core interface satisfied by password-hashing drivers.
//
// All implementations must be safe for concurrent use by multiple goroutines.
//
// Check and NeedsRehash never fail: a stored value that cannot be parsed is
// reported the same way as a wrong password (Check returns false) and as a
// hash due for replacement (NeedsRehash returns true). Make fails only when
// the random source is unavailable or the driver is verify-only.
type Hasher interface {
	// Make hashes a plaintext password and returns the encoded hash string.
	// A fresh cryptographic salt is generated for every call, so two calls
	// with the same password will produce different outputs.
	Make(password string, opts Options) (string, error)

	// Check reports whether password matches the previously encoded hash.
	// Comparison is performed in constant time.
	Check(password, hashedValue string, opts Options) bool

	// NeedsRehash reports whether hashedValue was produced with parameters
	// weaker than the hasher's current minimums. Callers should re-hash the
	// password on the next successful login when this returns true.
	NeedsRehash(hashedValue string, opts Options) bool

	// Info extracts metadata from an encoded hash string without verifying it.
	// Useful for auditing, migration tooling, or logging.
	Info(hashedValue string) (HashInfo, error)

	// Driver returns the algorithm family implemented by this hasher.
	Driver() DriverName
}

// HashInfo carries metadata parsed from an encoded hash string.
type HashInfo struct {
	// Driver is the hashing algorithm that produced the hash.
	Driver DriverName

	// Params holds parameters recovered from the hash string.
	//
	// For PBKDF2:
	//   "iterations" → int
	//   "salt_len"   → int (decoded salt length in bytes)
	//   "key_len"    → int (decoded derived key length in bytes)
	//
	// See [BcryptVerifier.Info] and [Argon2Verifier.Info] for the others.
	Params map[string]any
}

// DetectDriver inspects a hash string and returns the [DriverName] of the
// algorithm family that produced it. It is a best-effort structural check
// and does not verify the hash itself.
//
// The second return value is false when the hash format is not recognised.
func DetectDriver(hashedValue string) (DriverName, bool) {
	switch {
	case strings.HasPrefix(hashedValue, "$2a$"),
		strings.HasPrefix(hashedValue, "$2b$"),
		strings.HasPrefix(hashedValue, "$2y$"):
		return DriverBcrypt, true
	case strings.HasPrefix(hashedValue, "$argon2id$"):
		return DriverArgon2id, true
	case strings.HasPrefix(hashedValue, "$argon2i$"):
		return DriverArgon2i, true
	}
	parts, ok := splitEncoded(hashedValue)
	if !ok || !isDecimal(parts[0]) {
		return "", false
	}
	return DriverPbkdf2, true
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
