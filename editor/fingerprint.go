package editor

import "github.com/cespare/xxhash/v2"

// Fingerprint is a digest of buffer contents used to detect changes against
// a saved baseline. It is not a cryptographic hash.
type Fingerprint struct {
	sum uint64
	n   int
}

// FingerprintOf returns the fingerprint of text. Equal text always yields an
// equal fingerprint.
func FingerprintOf(text string) Fingerprint {
	return Fingerprint{sum: xxhash.Sum64String(text), n: len(text)}
}

// Sum returns the 64-bit hash component, for use as a cache key.
func (f Fingerprint) Sum() uint64 {
	return f.sum
}

// Len returns the byte length of the fingerprinted text.
func (f Fingerprint) Len() int {
	return f.n
}
