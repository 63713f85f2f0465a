package hashing

import (
	"fmt"
	"io"
)

// GenerateSalt returns n bytes read from the hasher's cryptographic random
// source. The bytes are used raw; they are not restricted to a printable
// alphabet.
//
// A failing or short-reading source is reported as [ErrRandomSource].
func (h *Pbkdf2Hasher) GenerateSalt(n int) ([]byte, error) {
	return randomSalt(h.cfg.Rand, n)
}

// randomSalt returns n bytes from r.
func randomSalt(r io.Reader, n int) ([]byte, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: salt length must be ≥ 1, got %d", ErrInvalidOption, n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("%w: pbkdf2: failed to generate salt: %w", ErrRandomSource, err)
	}
	return b, nil
}
