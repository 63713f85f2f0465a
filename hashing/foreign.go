package hashing

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DriverBcrypt identifies Modular Crypt Format bcrypt hashes ($2a$, $2b$,
	// $2y$), the default format of Laravel applications.
	DriverBcrypt DriverName = "bcrypt"
	// DriverArgon2i identifies $argon2i$ PHC strings.
	DriverArgon2i DriverName = "argon2i"
	// DriverArgon2id identifies $argon2id$ PHC strings.
	DriverArgon2id DriverName = "argon2id"
)

// ──────────────────────────────────────────────────────────────────────────────
// BcryptVerifier
// ──────────────────────────────────────────────────────────────────────────────

// BcryptVerifier checks passwords against existing bcrypt hashes so they can
// be migrated to PBKDF2 through a [Manager]. It never produces hashes: Make
// returns [ErrVerifyOnly] and NeedsRehash always reports true.
//
// Register it next to the PBKDF2 default and call [Manager.Rehash] on login:
//
//	m.RegisterDriver(hashing.DriverBcrypt, hashing.NewBcryptVerifier(logger))
type BcryptVerifier struct {
	log logr.Logger
}

// NewBcryptVerifier returns a BcryptVerifier. A zero logger discards.
func NewBcryptVerifier(log logr.Logger) *BcryptVerifier {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &BcryptVerifier{log: log.WithName("bcrypt")}
}

// Driver returns [DriverBcrypt].
func (v *BcryptVerifier) Driver() DriverName { return DriverBcrypt }

// Make always fails with [ErrVerifyOnly].
func (v *BcryptVerifier) Make(string, Options) (string, error) {
	return "", fmt.Errorf("%w: bcrypt", ErrVerifyOnly)
}

// Check reports whether password matches the bcrypt hash. Passwords longer
// than 72 bytes are compared on their first 72 bytes, as bcrypt does.
func (v *BcryptVerifier) Check(password, hashedValue string, _ Options) bool {
	if d, ok := DetectDriver(hashedValue); !ok || d != DriverBcrypt {
		v.log.V(1).Info("rejecting malformed hash", "op", "check")
		return false
	}
	pw := []byte(password)
	if len(pw) > 72 {
		pw = pw[:72]
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedValue), pw) == nil
}

// NeedsRehash always returns true.
func (v *BcryptVerifier) NeedsRehash(string, Options) bool { return true }

// Info returns the work factor stored in a bcrypt hash.
//
// Returned [HashInfo].Params:
//   - "cost" → int
func (v *BcryptVerifier) Info(hashedValue string) (HashInfo, error) {
	if d, ok := DetectDriver(hashedValue); !ok || d != DriverBcrypt {
		return HashInfo{}, fmt.Errorf("%w: not a bcrypt hash", ErrInvalidHash)
	}
	cost, err := bcrypt.Cost([]byte(hashedValue))
	if err != nil {
		return HashInfo{}, fmt.Errorf("%w: bcrypt: %v", ErrInvalidHash, err)
	}
	return HashInfo{Driver: DriverBcrypt, Params: map[string]any{"cost": cost}}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Argon2Verifier
// ──────────────────────────────────────────────────────────────────────────────

// Argon2Verifier checks passwords against existing Argon2 PHC strings of one
// variant. Like [BcryptVerifier] it only serves migrations to PBKDF2.
type Argon2Verifier struct {
	variant DriverName
	log     logr.Logger
}

// NewArgon2Verifier returns a verifier for variant, which must be
// [DriverArgon2i] or [DriverArgon2id].
func NewArgon2Verifier(variant DriverName, log logr.Logger) (*Argon2Verifier, error) {
	if variant != DriverArgon2i && variant != DriverArgon2id {
		return nil, fmt.Errorf("%w: argon2 variant %q", ErrInvalidOption, variant)
	}
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Argon2Verifier{variant: variant, log: log.WithName(string(variant))}, nil
}

// Driver returns the verifier's Argon2 variant.
func (v *Argon2Verifier) Driver() DriverName { return v.variant }

// Make always fails with [ErrVerifyOnly].
func (v *Argon2Verifier) Make(string, Options) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrVerifyOnly, v.variant)
}

// Check recomputes the Argon2 key with the parameters stored in hashedValue
// and compares it in constant time.
func (v *Argon2Verifier) Check(password, hashedValue string, _ Options) bool {
	p, err := v.decode(hashedValue)
	if err != nil {
		v.log.V(1).Info("rejecting malformed hash", "op", "check", "reason", err.Error())
		return false
	}
	var key []byte
	if p.variant == DriverArgon2id {
		key = argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))
	} else {
		key = argon2.Key([]byte(password), p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))
	}
	return subtle.ConstantTimeCompare(key, p.key) == 1
}

// NeedsRehash always returns true.
func (v *Argon2Verifier) NeedsRehash(string, Options) bool { return true }

// Info returns the parameters stored in a PHC string.
//
// Returned [HashInfo].Params:
//   - "version", "memory" (KiB), "time", "threads", "key_len" → int
func (v *Argon2Verifier) Info(hashedValue string) (HashInfo, error) {
	p, err := v.decode(hashedValue)
	if err != nil {
		return HashInfo{}, err
	}
	return HashInfo{
		Driver: p.variant,
		Params: map[string]any{
			"version": p.version,
			"memory":  int(p.memory),
			"time":    int(p.time),
			"threads": int(p.threads),
			"key_len": len(p.key),
		},
	}, nil
}

func (v *Argon2Verifier) decode(hashedValue string) (phcHash, error) {
	p, err := decodePHC(hashedValue)
	if err != nil {
		return p, err
	}
	if p.variant != v.variant {
		return p, fmt.Errorf("%w: hash is %s, not %s", ErrInvalidHash, p.variant, v.variant)
	}
	return p, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// PHC string parsing
// ──────────────────────────────────────────────────────────────────────────────

type phcHash struct {
	variant DriverName
	version int
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

// decodePHC parses
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
//
// Salt and key use unpadded standard base64. Errors wrap [ErrInvalidHash].
func decodePHC(s string) (phcHash, error) {
	var p phcHash
	parts := strings.Split(s, "$")
	if len(parts) != 6 || parts[0] != "" {
		return p, fmt.Errorf("%w: expected 5 PHC segments", ErrInvalidHash)
	}
	switch DriverName(parts[1]) {
	case DriverArgon2i, DriverArgon2id:
		p.variant = DriverName(parts[1])
	default:
		return p, fmt.Errorf("%w: unknown argon2 variant", ErrInvalidHash)
	}

	version, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return p, fmt.Errorf("%w: missing version", ErrInvalidHash)
	}
	n, err := strconv.Atoi(version)
	if err != nil || n != argon2.Version {
		return p, fmt.Errorf("%w: unsupported argon2 version", ErrInvalidHash)
	}
	p.version = n

	var seen int
	for _, kv := range strings.Split(parts[3], ",") {
		k, val, ok := strings.Cut(kv, "=")
		if !ok {
			return p, fmt.Errorf("%w: malformed argon2 parameter", ErrInvalidHash)
		}
		switch k {
		case "m":
			var m uint64
			m, err = strconv.ParseUint(val, 10, 32)
			p.memory = uint32(m)
		case "t":
			var t uint64
			t, err = strconv.ParseUint(val, 10, 32)
			p.time = uint32(t)
		case "p":
			var t uint64
			t, err = strconv.ParseUint(val, 10, 8)
			p.threads = uint8(t)
		default:
			continue
		}
		if err != nil {
			return p, fmt.Errorf("%w: non-numeric argon2 %s", ErrInvalidHash, k)
		}
		seen++
	}
	if seen != 3 || p.time == 0 || p.threads == 0 {
		return p, fmt.Errorf("%w: argon2 needs positive m, t and p", ErrInvalidHash)
	}

	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return p, fmt.Errorf("%w: invalid argon2 salt encoding", ErrInvalidHash)
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(p.key) == 0 {
		return p, fmt.Errorf("%w: invalid argon2 key encoding", ErrInvalidHash)
	}
	return p, nil
}
