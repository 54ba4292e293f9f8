package credential

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/credstore/internal/common"
	"github.com/dmitrijs2005/credstore/internal/kdfx"
	"github.com/dmitrijs2005/credstore/internal/secretstore"
)

// Policy bundles the derivation parameters applied to new enrollments.
// Existing records keep the parameters they were created with.
type Policy struct {
	// Digest backs the HMAC pseudorandom function for new records.
	Digest kdfx.Digest

	// Iterations is the work factor for new records. Revisit it
	// periodically as hardware improves.
	Iterations int

	// SaltLength is the number of random salt bytes per record.
	SaltLength int

	// VerifierLength is the derived output length in bytes.
	VerifierLength int

	// MaxPasswordLength bounds accepted passwords so a hostile caller
	// cannot force unbounded CPU or memory use. Minimum-length rules are
	// deliberately not enforced here; that is the caller's policy.
	MaxPasswordLength int
}

// DefaultPolicy returns the current recommended enrollment parameters.
func DefaultPolicy() Policy {
	return Policy{
		Digest:            kdfx.SHA256,
		Iterations:        600_000,
		SaltLength:        16,
		VerifierLength:    32,
		MaxPasswordLength: 1024,
	}
}

func (p Policy) validate() error {
	if _, err := p.Digest.Size(); err != nil {
		return err
	}
	if p.Iterations < 1 || p.SaltLength < 1 || p.VerifierLength < 1 || p.MaxPasswordLength < 1 {
		return fmt.Errorf("%w: non-positive policy parameter", common.ErrDerivation)
	}
	return nil
}

// Service enrolls and verifies password credentials against a secret store.
//
// Construction is side-effect-free: no salt is generated and nothing is
// written until Enroll is called. The service holds no mutable state, so a
// single instance may serve concurrent callers.
type Service struct {
	policy  Policy
	entropy secretstore.Entropy
	store   secretstore.Store
}

// NewService wires a service from its policy and collaborators.
func NewService(p Policy, entropy secretstore.Entropy, store secretstore.Store) (*Service, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &Service{policy: p, entropy: entropy, store: store}, nil
}

// Enroll creates a credential record for password under id (a fresh UUID
// when id is empty) and persists it.
//
// The salt comes from the secret store's entropy source; if that source
// cannot supply the full salt, enrollment fails with common.ErrEntropy and
// no weaker fallback is attempted. An existing record under the same id is
// never overwritten; the store reports common.ErrConflict instead.
func (s *Service) Enroll(ctx context.Context, id string, password []byte) (*Record, error) {
	if len(password) > s.policy.MaxPasswordLength {
		return nil, fmt.Errorf("%w: password exceeds maximum length %d",
			common.ErrDerivation, s.policy.MaxPasswordLength)
	}

	if id == "" {
		id = uuid.NewString()
	}

	salt, err := s.entropy.Random(s.policy.SaltLength)
	if err != nil {
		return nil, err
	}

	verifier, err := kdfx.Derive(password, salt, s.policy.Iterations, s.policy.Digest, s.policy.VerifierLength)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		ID:         id,
		Digest:     s.policy.Digest,
		Iterations: s.policy.Iterations,
		Salt:       salt,
		Verifier:   verifier,
	}

	if err := s.store.Save(ctx, rec.ID, []byte(rec.Encode())); err != nil {
		return nil, err
	}

	return rec, nil
}

// Verify re-derives a candidate verifier for password using the record's own
// salt, iteration count, and digest, and compares it to the stored verifier
// in constant time.
//
// The result is the match outcome only; neither verifier is ever returned.
// A malformed record yields (false, error wrapping common.ErrFormat): callers
// treat it as a non-match toward the user and keep the error for a separate
// diagnostic channel, so the two failure kinds stay indistinguishable in the
// authentication response.
func (s *Service) Verify(rec *Record, password []byte) (bool, error) {
	if rec == nil {
		return false, fmt.Errorf("%w: nil record", common.ErrFormat)
	}
	if err := rec.validate(); err != nil {
		return false, err
	}
	if len(password) > s.policy.MaxPasswordLength {
		return false, fmt.Errorf("%w: password exceeds maximum length %d",
			common.ErrDerivation, s.policy.MaxPasswordLength)
	}

	candidate, err := kdfx.Derive(password, rec.Salt, rec.Iterations, rec.Digest, len(rec.Verifier))
	if err != nil {
		return false, err
	}
	defer common.Wipe(candidate)

	return subtle.ConstantTimeCompare(candidate, rec.Verifier) == 1, nil
}

// VerifyStored loads the record stored under id and verifies password
// against it. A missing record surfaces common.ErrNotFound; a record that
// fails to parse surfaces common.ErrFormat, in both cases with a false
// match result.
func (s *Service) VerifyStored(ctx context.Context, id string, password []byte) (bool, error) {
	data, err := s.store.Load(ctx, id)
	if err != nil {
		return false, err
	}

	rec, err := ParseRecord(id, string(data))
	if err != nil {
		return false, err
	}

	return s.Verify(rec, password)
}

// Revoke removes the credential stored under id. Enrolling a new password
// for the same identifier is Revoke followed by Enroll, which guarantees a
// fresh salt for the replacement record.
func (s *Service) Revoke(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
