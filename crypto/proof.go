package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"goMatchServer/config"
)

// Crockford base32: no I, L, O, U, so codes survive being read aloud
// or retyped from a screenshot.
const shareAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// EncodeProof renders a seal as a compact fixed-width string:
// tag, truncated seal hex, then a 4-hex-digit checksum of the truncated
// part. The checksum catches transcription errors, not tampering.
func EncodeProof(seal []byte) string {
	truncated := hex.EncodeToString(seal)[:config.ProofDigestChars]
	return fmt.Sprintf("%s-%s-%04x", config.ProofTag, truncated, checksum16(truncated))
}

// ValidProofFormat checks shape and checksum of a proof string without
// access to the record it was derived from.
func ValidProofFormat(proof string) bool {
	parts := strings.Split(proof, "-")
	if len(parts) != 3 {
		return false
	}
	if parts[0] != config.ProofTag || len(parts[1]) != config.ProofDigestChars {
		return false
	}
	if _, err := hex.DecodeString(parts[1]); err != nil {
		return false
	}
	return fmt.Sprintf("%04x", checksum16(parts[1])) == parts[2]
}

// ShareCode derives the display-oriented code shown in the UI and pasted
// into chat. Built only from public fields (digest + participant id),
// so anyone holding the verified record can recompute it.
func ShareCode(digest []byte, participantID string) string {
	h := sha256.New()
	h.Write(digest)
	h.Write([]byte("|"))
	h.Write([]byte(participantID))
	sum := h.Sum(nil)

	var b strings.Builder
	for i := 0; i < config.ShareCodeChars; i++ {
		if i > 0 && i%config.ShareCodeGroupSize == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(shareAlphabet[int(sum[i])%len(shareAlphabet)])
	}
	return b.String()
}

func checksum16(s string) uint16 {
	var sum uint16
	for i := 0; i < len(s); i++ {
		sum = sum*31 + uint16(s[i])
	}
	return sum
}
