package service

import "crypto/rand"

// Ambiguous characters (I, L, O, U, 1, 0) are excluded so customers can
// transcribe the reference into a bank transfer note without mistakes.
const referenceAlphabet = "ABCDEFGHJKMNPQRSTVWXYZ23456789"

const referenceLength = 10

// NewReference returns a fresh order reference, e.g. "DNCV-K7QH2MWXRB".
// Uniqueness is ultimately enforced by the database index; at 30^10 values
// a collision is negligible.
func NewReference() string {
	buf := make([]byte, referenceLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	for i, b := range buf {
		buf[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}
	return "DNCV-" + string(buf)
}
