package hashing

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// Delimiter separates the fields of an encoded PBKDF2 hash:
//
//	<iterations>::<base64 salt>::<base64 derived key>
const Delimiter = "::"

// encodedHash holds the values decoded from a hash string.
type encodedHash struct {
	iterations int
	salt       []byte
	key        []byte
}

// encodeHash serialises a PBKDF2 result. Salt and key use the standard base64
// alphabet with padding, matching PHP's base64_encode.
func encodeHash(iterations int, salt, key []byte) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(iterations))
	b.WriteString(Delimiter)
	b.WriteString(base64.StdEncoding.EncodeToString(salt))
	b.WriteString(Delimiter)
	b.WriteString(base64.StdEncoding.EncodeToString(key))
	return b.String()
}

// splitEncoded splits s on [Delimiter] and reports whether it has at least
// the three fields of a well-formed hash. Fields past the third are ignored.
func splitEncoded(s string) ([]string, bool) {
	parts := strings.Split(s, Delimiter)
	return parts, len(parts) >= 3
}

// decodeHash parses s. Every failure wraps [ErrInvalidHash]; error messages
// describe the structure only and never echo the hash contents.
func decodeHash(s string) (*encodedHash, error) {
	parts, ok := splitEncoded(s)
	if !ok {
		return nil, fmt.Errorf("%w: expected 3 %q-separated fields, got %d",
			ErrInvalidHash, Delimiter, len(parts))
	}

	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations < 1 {
		return nil, fmt.Errorf("%w: iteration count is not a positive integer", ErrInvalidHash)
	}

	salt, err := decodeBase64(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid salt base64: %v", ErrInvalidHash, err)
	}

	key, err := decodeBase64(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid derived key base64: %v", ErrInvalidHash, err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: empty derived key", ErrInvalidHash)
	}

	return &encodedHash{iterations: iterations, salt: salt, key: key}, nil
}

// decodeBase64 accepts padded and unpadded standard base64.
func decodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return b, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
		return raw, nil
	}
	return nil, err
}
