package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex sha256 digest of the content. Identical bytes always
// produce identical digests, independent of filename or upload order.
func Sum(content []byte) string {
	digest := sha256.Sum256(content)
	return hex.EncodeToString(digest[:])
}
