// Package hashing provides framework-agnostic PBKDF2 password hashing
// modelled after the Laravel hasher contract (make / check / needsRehash).
//
// # Architecture
//
// The central abstraction is the [Hasher] interface. [Pbkdf2Hasher] is the
// driver shipped with this package; callers depend on the interface so the
// algorithm can be swapped without touching calling code.
//
// The [Manager] is a named driver registry and dispatcher, equivalent to
// Laravel's HashManager. It lets differently configured PBKDF2 hashers
// coexist, which is how hashes written by the Gponster PHP package (SHA-1)
// are verified and upgraded to the current configuration (SHA-256).
// [BcryptVerifier] and [Argon2Verifier] are verify-only drivers for moving
// bcrypt and Argon2 hashes onto PBKDF2 through the same Manager.
//
// # Quick start
//
//	h, err := hashing.NewPbkdf2Hasher(hashing.DefaultConfig())
//	if err != nil { log.Fatal(err) }
//
//	hash, _ := h.Make("my-secret-password", nil)
//	ok      := h.Check("my-secret-password", hash, nil) // true
//
// # Hash format
//
// Hashes are three fields joined by "::":
//
//	10000::<base64 salt>::<base64 derived key>
//
// The iteration count, salt and derived key are self-contained, and the key
// length is inferred from the stored key, so verification never depends on
// the hasher's current defaults. The PRF digest is not encoded; it is part of
// the hasher's [Config].
//
// # Parameters
//
// Defaults and minimums live in [Config]. Per-call [Options] may raise or
// lower the defaults but every value is clamped up to the configured minimum:
//
//	h.Make(pw, hashing.Options{"iterations": 1}) // uses Config.MinIterations
//
// # Rehash on login
//
// Call [Manager.Rehash] (or [Hasher.NeedsRehash]) after every successful
// login and persist the new hash when one is returned:
//
//	newHash, v, err := m.Rehash(password, stored, nil)
//	if err == nil && v.OK && newHash != "" {
//	    persist(userID, newHash)
//	}
//
// # Failure model
//
// A malformed stored hash behaves like a wrong password: Check returns false
// and NeedsRehash returns true. Make fails only with [ErrRandomSource], or
// [ErrVerifyOnly] on a verify-only driver.
package hashing
