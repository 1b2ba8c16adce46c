package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const namespaceKeyLen = 32

// NamespaceKey derives the storage directory for a user's files. Raw user ids
// never appear in object keys.
func NamespaceKey(userID string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(userID)))
	return hex.EncodeToString(sum[:])[:namespaceKeyLen]
}
