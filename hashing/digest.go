package hashing

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Digest names the hash function used as the PBKDF2 pseudo-random function.
//
// The digest is a property of the hasher instance and is not written into the
// encoded hash, so a hash can only be verified by a hasher configured with
// the same digest that produced it. Use a [Manager] with one driver per digest
// when several generations of hashes coexist.
type Digest string

const (
	// DigestSHA1 is HMAC-SHA-1, the PRF used by the Gponster Laravel package.
	// Only use it to verify legacy hashes.
	DigestSHA1 Digest = "sha1"
	// DigestSHA256 is HMAC-SHA-256 (the default).
	DigestSHA256 Digest = "sha256"
	// DigestSHA512 is HMAC-SHA-512.
	DigestSHA512 Digest = "sha512"
	// DigestSHA3_256 is HMAC-SHA3-256.
	DigestSHA3_256 Digest = "sha3-256"
	// DigestSHA3_512 is HMAC-SHA3-512.
	DigestSHA3_512 Digest = "sha3-512"
	// DigestBLAKE2b256 is HMAC over unkeyed BLAKE2b-256.
	DigestBLAKE2b256 Digest = "blake2b-256"
	// DigestBLAKE2b512 is HMAC over unkeyed BLAKE2b-512.
	DigestBLAKE2b512 Digest = "blake2b-512"
)

var digests = map[Digest]func() hash.Hash{
	DigestSHA1:       sha1.New,
	DigestSHA256:     sha256.New,
	DigestSHA512:     sha512.New,
	DigestSHA3_256:   sha3.New256,
	DigestSHA3_512:   sha3.New512,
	DigestBLAKE2b256: newBLAKE2b256,
	DigestBLAKE2b512: newBLAKE2b512,
}

// Digests returns every supported digest name, strongest family last.
func Digests() []Digest {
	return []Digest{
		DigestSHA1,
		DigestSHA256,
		DigestSHA512,
		DigestSHA3_256,
		DigestSHA3_512,
		DigestBLAKE2b256,
		DigestBLAKE2b512,
	}
}

// HashFunc returns the constructor for d, or [ErrUnknownDigest].
func (d Digest) HashFunc() (func() hash.Hash, error) {
	fn, ok := digests[d]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDigest, string(d))
	}
	return fn, nil
}

// String implements fmt.Stringer.
func (d Digest) String() string { return string(d) }

// blake2b only fails for keys longer than 64 bytes; these are unkeyed.
func newBLAKE2b256() hash.Hash {
	h, _ := blake2b.New256(nil)
	return h
}

func newBLAKE2b512() hash.Hash {
	h, _ := blake2b.New512(nil)
	return h
}
