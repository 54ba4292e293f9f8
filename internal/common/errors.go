// Package common defines the sentinel errors and small helpers shared across
// credstore components. Callers should use errors.Is to match the errors.
package common

import "errors"

var (

	// derivation-specific errors
	ErrDerivation = errors.New("derivation failed")

	// entropy source errors
	ErrEntropy = errors.New("insufficient entropy")

	// secret store errors
	ErrStoreIO  = errors.New("store i/o error")
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("credential already stored")

	// stored record errors
	ErrFormat = errors.New("malformed credential record")
)
