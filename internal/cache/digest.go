package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the SHA256 hex digest of a payload.
// Empty content has an empty digest.
func Digest(content string) string {
	if content == "" {
		return ""
	}

	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
