package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a stage key of the form "prefix:sha256(parts)". The
// parts are JSON-encoded so option structs hash deterministically, and
// the full digest is kept: stage keys feed downstream stage keys, so a
// truncated hash would compound collision risk.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the SHA-256 digest of data as a 64-char hex string. It is
// the content hash used to chain pipeline stages together.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
