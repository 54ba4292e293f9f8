package secretstore

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/dmitrijs2005/credstore/internal/common"
)

// SystemEntropy reads random bytes from the operating system CSPRNG
// (crypto/rand). It is the production Entropy implementation.
type SystemEntropy struct {
	// Reader defaults to crypto/rand.Reader; tests substitute a failing
	// reader to exercise the error path.
	Reader io.Reader
}

func NewSystemEntropy() *SystemEntropy {
	return &SystemEntropy{Reader: rand.Reader}
}

// Random returns exactly n random bytes. Any failure or short read of the
// underlying source is reported as common.ErrEntropy; no partially filled
// buffer ever escapes.
func (e *SystemEntropy) Random(n int) ([]byte, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: requested %d bytes", common.ErrEntropy, n)
	}

	r := e.Reader
	if r == nil {
		r = rand.Reader
	}

	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEntropy, err)
	}

	return b, nil
}
