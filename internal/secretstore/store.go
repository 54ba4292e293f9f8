// Package secretstore provides the secure collaborators of the credential
// service: a cryptographic entropy source for salt material and a keyed
// byte store for persisted credential records.
//
// Every backend maps its failures onto the shared sentinel errors in the
// common package, so callers branch with errors.Is and never depend on a
// concrete backend.
package secretstore

import "context"

// Store persists opaque secret material keyed by credential identifier.
//
// Save must be write-once per identifier: a second Save for the same id
// fails with common.ErrConflict instead of silently overwriting, so
// concurrent enrollment of the same credential cannot race to
// last-writer-wins. Saves for distinct identifiers are independent and do
// not contend. Write failures surface as common.ErrStoreIO and are never
// swallowed.
type Store interface {
	// Save stores data under id, rejecting duplicates with common.ErrConflict.
	Save(ctx context.Context, id string, data []byte) error

	// Load returns the data stored under id, or common.ErrNotFound.
	Load(ctx context.Context, id string) ([]byte, error)

	// Delete removes the data stored under id, or returns common.ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// Entropy supplies cryptographically secure random bytes.
//
// Random either returns exactly n bytes or an error wrapping
// common.ErrEntropy; it never returns a short or deterministic result.
type Entropy interface {
	Random(n int) ([]byte, error)
}
