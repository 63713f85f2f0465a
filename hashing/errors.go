package hashing

import "errors"

// Sentinel errors returned by hashing operations.
//
// Use [errors.Is] for comparisons:
//
//	info, err := hasher.Info(hash)
//	if errors.Is(err, hashing.ErrInvalidHash) {
//	    // hash string is malformed
//	}
var (
	// ErrInvalidHash is returned by Info when a hash string cannot be parsed
	// because it has missing fields, a non-numeric iteration count, or invalid
	// encoding. Check and NeedsRehash never return it; they report malformed
	// input through their boolean result instead.
	ErrInvalidHash = errors.New("hashing: invalid or unrecognised hash string")

	// ErrInvalidOption is returned when a constructor is called with a
	// parameter value that falls outside the allowed range (e.g., a
	// non-positive minimum iteration count).
	ErrInvalidOption = errors.New("hashing: invalid option value")

	// ErrUnknownDigest is returned when a [Config] names a digest that this
	// package does not implement.
	ErrUnknownDigest = errors.New("hashing: unknown digest")

	// ErrRandomSource is returned when the cryptographic random source fails
	// or returns fewer bytes than requested. There is no fallback to a
	// non-cryptographic generator.
	ErrRandomSource = errors.New("hashing: random source unavailable")

	// ErrVerifyOnly is returned by Make on drivers that only verify existing
	// hashes during a migration, such as [BcryptVerifier].
	ErrVerifyOnly = errors.New("hashing: driver can only verify existing hashes")

	// ErrDriverNotFound is returned by [Manager.Driver] or indirectly by
	// [Manager.Make] / [Manager.Check] when the requested driver has not been
	// registered.
	ErrDriverNotFound = errors.New("hashing: driver not found")

	// ErrEmptyDriverName is returned by [Manager.RegisterDriver] when the
	// supplied driver name is an empty string.
	ErrEmptyDriverName = errors.New("hashing: driver name must not be empty")

	// ErrNilHasher is returned by [Manager.RegisterDriver] when a nil [Hasher]
	// is supplied.
	ErrNilHasher = errors.New("hashing: hasher must not be nil")
)
