package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"goMatchServer/config"
)

// GenerateSealKey creates a fresh random 32-byte seal key and returns it
// alongside its hex encoding (the form stored in the environment).
func GenerateSealKey() (key []byte, keyHex string) {
	key = make([]byte, 32)
	rand.Read(key)
	return key, hex.EncodeToString(key)
}

// LoadSealKey reads the seal key from the SEAL_KEY environment variable.
// Returns an error when the variable is missing or not valid hex, so the
// caller decides whether to fall back to an ephemeral key.
func LoadSealKey() ([]byte, error) {
	raw := os.Getenv(config.SealKeyEnv)
	if raw == "" {
		return nil, fmt.Errorf("%s environment variable not set", config.SealKeyEnv)
	}
	key, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", config.SealKeyEnv, err)
	}
	if len(key) < 16 {
		return nil, fmt.Errorf("%s too short: need at least 16 bytes, got %d", config.SealKeyEnv, len(key))
	}
	return key, nil
}
