// Package credential implements enrollment and verification of password
// credentials. A credential is never stored as a password: only the salt,
// the derivation parameters, and the derived verifier are persisted, in a
// tagged, versioned encoding that stays verifiable after the defaults for
// new enrollments change.
package credential

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/credstore/internal/common"
	"github.com/dmitrijs2005/credstore/internal/kdfx"
)

// recordVersion tags the persisted encoding. Bump it only for layout
// changes; parameter changes (digest, iterations) are carried per record.
const recordVersion = 1

// Record is one stored credential: everything needed to re-run the
// derivation for a presented password, except the password itself.
//
// A Record is immutable once created. A password change produces a new
// Record with a fresh salt; the old one is deleted, never edited.
type Record struct {
	ID         string
	Digest     kdfx.Digest
	Iterations int
	Salt       []byte
	Verifier   []byte
}

// Encode renders the record in its persisted form:
//
//	$pbkdf2-<digest>$v=<version>$i=<iterations>$<salt b64>$<verifier b64>
//
// The identifier is not part of the encoding; it is the key the record is
// stored under.
func (r *Record) Encode() string {
	return fmt.Sprintf("$pbkdf2-%s$v=%d$i=%d$%s$%s",
		r.Digest,
		recordVersion,
		r.Iterations,
		base64.RawStdEncoding.EncodeToString(r.Salt),
		base64.RawStdEncoding.EncodeToString(r.Verifier),
	)
}

// ParseRecord decodes the persisted form. Malformed input of any kind
// (wrong shape, unknown digest, bad version, bad base64, missing salt or
// verifier, non-positive iterations) yields an error wrapping
// common.ErrFormat, never a panic.
func ParseRecord(id, encoded string) (*Record, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, fmt.Errorf("%w: expected 5 '$'-separated fields", common.ErrFormat)
	}

	digestID, ok := strings.CutPrefix(parts[1], "pbkdf2-")
	if !ok {
		return nil, fmt.Errorf("%w: unknown scheme %q", common.ErrFormat, parts[1])
	}
	digest := kdfx.Digest(digestID)
	if _, err := digest.Size(); err != nil {
		return nil, err
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != recordVersion {
		return nil, fmt.Errorf("%w: unsupported record version %q", common.ErrFormat, parts[2])
	}

	var iterations int
	if _, err := fmt.Sscanf(parts[3], "i=%d", &iterations); err != nil || iterations < 1 {
		return nil, fmt.Errorf("%w: invalid iteration count %q", common.ErrFormat, parts[3])
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, fmt.Errorf("%w: salt is not valid base64", common.ErrFormat)
	}

	verifier, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, fmt.Errorf("%w: verifier is not valid base64", common.ErrFormat)
	}

	r := &Record{
		ID:         id,
		Digest:     digest,
		Iterations: iterations,
		Salt:       salt,
		Verifier:   verifier,
	}
	if err := r.validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// validate checks the structural invariants shared by parsed and in-memory
// records.
func (r *Record) validate() error {
	if _, err := r.Digest.Size(); err != nil {
		return err
	}
	if r.Iterations < 1 {
		return fmt.Errorf("%w: iteration count %d", common.ErrFormat, r.Iterations)
	}
	if len(r.Salt) == 0 {
		return fmt.Errorf("%w: empty salt", common.ErrFormat)
	}
	if len(r.Verifier) == 0 {
		return fmt.Errorf("%w: empty verifier", common.ErrFormat)
	}
	return nil
}
