// Package kdfx implements the password-stretching operation: PBKDF2 over an
// HMAC pseudorandom function, turning a password and a salt into a
// fixed-length verifier.
//
// The package holds no state; Derive may be called concurrently as long as
// each caller owns its input and output buffers. The cost of a call is
// intentionally high and grows linearly with the iteration count; callers
// wanting bounded latency must abandon the result themselves, since partial
// iteration output is cryptographically meaningless.
package kdfx

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"math"

	"golang.org/x/crypto/pbkdf2"

	"github.com/dmitrijs2005/credstore/internal/common"
)

// Digest identifies the hash function backing the HMAC pseudorandom function.
// The identifier travels with every stored credential record so that old
// records remain verifiable after the default digest changes.
type Digest string

const (
	SHA1   Digest = "sha1"
	SHA256 Digest = "sha256"
	SHA512 Digest = "sha512"
)

// New returns the hash constructor for the digest, or an error wrapping
// common.ErrFormat for unknown identifiers.
func (d Digest) New() (func() hash.Hash, error) {
	switch d {
	case SHA1:
		return sha1.New, nil
	case SHA256:
		return sha256.New, nil
	case SHA512:
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("%w: unknown digest %q", common.ErrFormat, string(d))
	}
}

// Size returns the digest output length in bytes.
func (d Digest) Size() (int, error) {
	h, err := d.New()
	if err != nil {
		return 0, err
	}
	return h().Size(), nil
}

// Derive stretches password and salt into exactly keyLen bytes using PBKDF2
// with the given iteration count and digest.
//
// The result is deterministic: identical inputs always produce identical
// output. Empty password and empty salt are accepted; rejecting weak inputs
// is a policy decision that belongs to the caller. Invalid parameters
// (iterations < 1, keyLen < 1, keyLen beyond what the PRF can stretch to,
// unknown digest) yield an error wrapping common.ErrDerivation. Error text
// never includes the password or salt bytes.
func Derive(password, salt []byte, iterations int, digest Digest, keyLen int) ([]byte, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("%w: iteration count must be >= 1, got %d", common.ErrDerivation, iterations)
	}
	if keyLen < 1 {
		return nil, fmt.Errorf("%w: output length must be > 0, got %d", common.ErrDerivation, keyLen)
	}

	h, err := digest.New()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDerivation, err)
	}

	// PBKDF2 caps the output at hLen * (2^32 - 1) bytes.
	hLen := h().Size()
	if uint64(keyLen) > uint64(hLen)*math.MaxUint32 {
		return nil, fmt.Errorf("%w: output length %d exceeds PRF stretch limit", common.ErrDerivation, keyLen)
	}

	return pbkdf2.Key(password, salt, iterations, keyLen, h), nil
}
