package common

// Wipe overwrites the contents of b with zeros. Call it on buffers that held
// passwords or derived key material once they are no longer needed.
//
// A nil slice is a no-op.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
