package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
)

// Digest hashes canonical match bytes into a fixed 256-bit value.
func Digest(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// Seal binds a digest to the participant claiming the record. A keyed
// hash of digest || participantId means editing the record (digest
// changes) or re-attributing it (participant changes) both break the seal.
func Seal(key, digest []byte, participantID string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(digest)
	mac.Write([]byte("|"))
	mac.Write([]byte(participantID))
	return mac.Sum(nil)
}

// SealEqual compares two seals in constant time.
func SealEqual(a, b []byte) bool {
	return hmac.Equal(a, b)
}
