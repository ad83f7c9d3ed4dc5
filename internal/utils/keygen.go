package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// generateKey generates a random key with the given prefix.
// Format: prefix_randomhex
func generateKey(prefix string) (string, error) {
	b := make([]byte, 32) // 64 char hex
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b)), nil
}

// GenerateCallbackSecret generates a webhook signing secret: dbc_secret_xxx
func GenerateCallbackSecret() (string, error) {
	return generateKey("dbc_secret")
}
